package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const algorithm = "argon2id"

const (
	minMemoryKiB  uint32 = 8 * 1024
	minSaltLength uint32 = 16
	minKeyLength  uint32 = 16
)

// Params tune the Argon2id key derivation. Raising them after hashes
// exist is safe: verification always replays the parameters recorded in
// the stored hash.
//
// Params instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Params struct {
	// MemoryKiB is the memory cost in KiB.
	MemoryKiB uint32
	// Time is the number of passes over the memory.
	Time uint32
	// Parallelism is the number of lanes.
	Parallelism uint8
	// SaltLength is the random salt size in bytes.
	SaltLength uint32
	// KeyLength is the derived hash size in bytes.
	KeyLength uint32
}

// DefaultParams follows the low-memory recommendation of RFC 9106:
// 64 MiB of memory, three passes, four lanes.
func DefaultParams() Params {
	return Params{
		MemoryKiB:   64 * 1024,
		Time:        3,
		Parallelism: 4,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func (p Params) validate() error {
	if p.MemoryKiB < minMemoryKiB {
		return fmt.Errorf("memory cost must be at least %d KiB", minMemoryKiB)
	}
	if p.Time < 1 {
		return errors.New("time cost must be at least 1")
	}
	if p.Parallelism < 1 {
		return errors.New("parallelism must be at least 1")
	}
	if p.SaltLength < minSaltLength {
		return fmt.Errorf("salt length must be at least %d bytes", minSaltLength)
	}
	if p.KeyLength < minKeyLength {
		return fmt.Errorf("key length must be at least %d bytes", minKeyLength)
	}
	return nil
}

// Hasher derives and verifies Argon2id hashes under fixed [Params].
//
// Hasher instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Hasher struct {
	params Params
}

// NewHasher describes the newhasher operation and its observable behavior.
//
// NewHasher may return an error when input validation, dependency calls, or security checks fail.
// NewHasher does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewHasher(params Params) (*Hasher, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	return &Hasher{params: params}, nil
}

// Hash derives a PHC-encoded hash of secret under a fresh random salt.
// The result is what belongs in the stored password column.
func (h *Hasher) Hash(secret string) (string, error) {
	if secret == "" {
		return "", errors.New("empty secret")
	}

	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("draw salt: %w", err)
	}

	key := argon2.IDKey(
		[]byte(secret),
		salt,
		h.params.Time,
		h.params.MemoryKiB,
		h.params.Parallelism,
		h.params.KeyLength,
	)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithm,
		argon2.Version,
		h.params.MemoryKiB,
		h.params.Time,
		h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Compare reports whether secret matches the PHC-encoded stored hash.
// Malformed stored values never match. Parameters come from the stored
// hash, not from h, so hashes written under older Params keep verifying.
func (h *Hasher) Compare(secret, stored string) bool {
	parsed, err := parsePHC(stored)
	if err != nil {
		return false
	}

	key := argon2.IDKey(
		[]byte(secret),
		parsed.salt,
		parsed.time,
		parsed.memoryKiB,
		parsed.parallelism,
		parsed.keyLength,
	)
	return subtle.ConstantTimeCompare(key, parsed.key) == 1
}

// NeedsRehash reports whether stored was derived with weaker parameters
// than h is configured with.
func (h *Hasher) NeedsRehash(stored string) (bool, error) {
	parsed, err := parsePHC(stored)
	if err != nil {
		return false, err
	}

	p := h.params
	stale := parsed.memoryKiB < p.MemoryKiB ||
		parsed.time < p.Time ||
		parsed.parallelism < p.Parallelism ||
		parsed.keyLength != p.KeyLength
	return stale, nil
}

type phcHash struct {
	memoryKiB   uint32
	time        uint32
	parallelism uint8
	salt        []byte
	key         []byte
	keyLength   uint32
}

func parsePHC(stored string) (phcHash, error) {
	parts := strings.Split(stored, "$")
	if len(parts) != 6 || parts[0] != "" {
		return phcHash{}, errors.New("not a phc string")
	}
	if parts[1] != algorithm {
		return phcHash{}, fmt.Errorf("unsupported algorithm %q", parts[1])
	}

	versionField, ok := strings.CutPrefix(parts[2], "v=")
	if !ok {
		return phcHash{}, errors.New("malformed version field")
	}
	version, err := strconv.Atoi(versionField)
	if err != nil || version != argon2.Version {
		return phcHash{}, errors.New("unsupported argon2 version")
	}

	var parsed phcHash
	if err := parseCost(parts[3], &parsed); err != nil {
		return phcHash{}, err
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return phcHash{}, errors.New("malformed salt")
	}
	if uint32(len(salt)) < minSaltLength {
		return phcHash{}, errors.New("salt too short")
	}
	parsed.salt = salt

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return phcHash{}, errors.New("malformed hash")
	}
	if len(key) == 0 {
		return phcHash{}, errors.New("empty hash")
	}
	parsed.key = key
	parsed.keyLength = uint32(len(key))

	return parsed, nil
}

func parseCost(field string, out *phcHash) error {
	pairs := strings.Split(field, ",")
	if len(pairs) != 3 {
		return errors.New("malformed cost field")
	}

	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return errors.New("malformed cost field")
		}
		switch name {
		case "m":
			v, err := strconv.ParseUint(value, 10, 32)
			if err != nil || v == 0 {
				return errors.New("memory cost out of range")
			}
			out.memoryKiB = uint32(v)
		case "t":
			v, err := strconv.ParseUint(value, 10, 32)
			if err != nil || v == 0 {
				return errors.New("time cost out of range")
			}
			out.time = uint32(v)
		case "p":
			v, err := strconv.ParseUint(value, 10, 8)
			if err != nil || v == 0 {
				return errors.New("parallelism out of range")
			}
			out.parallelism = uint8(v)
		default:
			return fmt.Errorf("unknown cost parameter %q", name)
		}
	}

	if out.memoryKiB == 0 || out.time == 0 || out.parallelism == 0 {
		return errors.New("incomplete cost field")
	}
	return nil
}
