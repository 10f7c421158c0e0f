package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"

	"github.com/mclassic/sentry"
)

// ErrDuplicateIdentifier is returned by [Store.Create] when the identifier
// or email collides with an existing row.
var ErrDuplicateIdentifier = errors.New("identifier already exists")

// recordColumns are selected for every lookup, in scan order.
var recordColumns = []string{
	"id",
	"username",
	"email",
	"password_hash",
	"activation_hash",
	"password_reset_hash",
	"temp_password",
	"remember_me_token",
	"activated",
	"enabled",
	"last_login",
}

// mutableColumns is the whitelist for [Store.Update]. Field-map keys come
// from sentry's Field* constants; anything else is rejected before SQL is
// built.
var mutableColumns = map[string]bool{
	sentry.FieldPasswordHash:      true,
	sentry.FieldActivationHash:    true,
	sentry.FieldPasswordResetHash: true,
	sentry.FieldTempPassword:      true,
	sentry.FieldRememberMeToken:   true,
	sentry.FieldActivated:         true,
	sentry.FieldLastLogin:         true,
}

// Options control table and column mapping for [Store].
//
// Options instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Options struct {
	// Table holding user rows; "users" when empty.
	Table string
	// IdentifierColumn is the login column, typically "username" or
	// "email"; "username" when empty. It must be one of the columns the
	// schema indexes for equality lookups.
	IdentifierColumn string
}

// Store implements sentry.UserStore on a PostgreSQL database.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	db    *sql.DB
	table string
	idCol string
	log   zerolog.Logger
	sb    sq.StatementBuilderType
}

// Open connects to PostgreSQL via the pgx stdlib driver, verifies the
// connection with a ping, and returns a ready [Store].
func Open(ctx context.Context, dsn string, opts Options, logger zerolog.Logger) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(4)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info().Str("table", tableOrDefault(opts)).Msg("connected to user store")
	return NewStore(db, opts, logger), nil
}

// NewStore wraps an existing connection pool. Callers that manage their
// own pool (or tests with a mock) use this instead of [Open].
func NewStore(db *sql.DB, opts Options, logger zerolog.Logger) *Store {
	idCol := opts.IdentifierColumn
	if idCol == "" {
		idCol = "username"
	}
	return &Store{
		db:    db,
		table: tableOrDefault(opts),
		idCol: idCol,
		log:   logger,
		sb:    sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func tableOrDefault(opts Options) string {
	if opts.Table == "" {
		return "users"
	}
	return opts.Table
}

// DB exposes the underlying pool so callers can run migrations or close it
// on shutdown.
func (s *Store) DB() *sql.DB {
	return s.db
}

// FindByIdentifier loads the record whose login column equals identifier.
// Missing rows surface as sentry.ErrUserNotFound.
func (s *Store) FindByIdentifier(ctx context.Context, identifier string) (sentry.UserRecord, error) {
	query, args, err := s.sb.
		Select(recordColumns...).
		From(s.table).
		Where(sq.Eq{s.idCol: identifier}).
		ToSql()
	if err != nil {
		return sentry.UserRecord{}, fmt.Errorf("build lookup query: %w", err)
	}

	return s.scanRecord(ctx, query, args...)
}

// FindByID loads the record with the given primary key. Missing rows
// surface as sentry.ErrUserNotFound.
func (s *Store) FindByID(ctx context.Context, id int64) (sentry.UserRecord, error) {
	query, args, err := s.sb.
		Select(recordColumns...).
		From(s.table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return sentry.UserRecord{}, fmt.Errorf("build lookup query: %w", err)
	}

	return s.scanRecord(ctx, query, args...)
}

func (s *Store) scanRecord(ctx context.Context, query string, args ...any) (sentry.UserRecord, error) {
	var (
		u         sentry.UserRecord
		username  string
		lastLogin sql.NullTime
	)

	row := s.db.QueryRowContext(ctx, query, args...)
	err := row.Scan(
		&u.ID,
		&username,
		&u.Email,
		&u.PasswordHash,
		&u.ActivationHash,
		&u.PasswordResetHash,
		&u.TempPassword,
		&u.RememberMeToken,
		&u.Activated,
		&u.Enabled,
		&lastLogin,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sentry.UserRecord{}, sentry.ErrUserNotFound
		}
		return sentry.UserRecord{}, fmt.Errorf("scan user row: %w", err)
	}

	// The identifier the core throttles and logs by is whatever the login
	// column holds, which is the username column unless remapped.
	if s.idCol == "email" {
		u.Identifier = u.Email
	} else {
		u.Identifier = username
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return u, nil
}

// Update applies the credential mutations in fields to one row. Every key
// must be on the column whitelist; the row's updated_at is stamped in the
// same statement so audits of the table see one write per operation.
func (s *Store) Update(ctx context.Context, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	for column := range fields {
		if !mutableColumns[column] {
			return fmt.Errorf("column %q is not updatable", column)
		}
	}

	query, args, err := s.sb.
		Update(s.table).
		SetMap(fields).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update query: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update user %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentry.ErrUserNotFound
	}

	s.log.Debug().Int64("user_id", id).Int("fields", len(fields)).Msg("user record updated")
	return nil
}

// NewUser carries the initial state for [Store.Create]. Secrets arrive
// exactly as they should be stored; hashing is the caller's concern.
//
// NewUser instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type NewUser struct {
	Identifier     string
	Email          string
	PasswordHash   string
	ActivationHash string
	Activated      bool
}

// Create inserts a fresh user row and returns it with the server-assigned
// id. An identifier or email collision surfaces as [ErrDuplicateIdentifier].
// New rows are always enabled; accounts provisioned with an activation
// hash stay unactivated until the activation link is confirmed.
func (s *Store) Create(ctx context.Context, user NewUser) (sentry.UserRecord, error) {
	query, args, err := s.sb.
		Insert(s.table).
		Columns("username", "email", "password_hash", "activation_hash", "activated").
		Values(user.Identifier, user.Email, user.PasswordHash, user.ActivationHash, user.Activated).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return sentry.UserRecord{}, fmt.Errorf("build insert query: %w", err)
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return sentry.UserRecord{}, ErrDuplicateIdentifier
		}
		return sentry.UserRecord{}, fmt.Errorf("insert user: %w", err)
	}

	s.log.Info().Int64("user_id", id).Msg("user created")

	record := sentry.UserRecord{
		ID:             id,
		Identifier:     user.Identifier,
		Email:          user.Email,
		PasswordHash:   user.PasswordHash,
		ActivationHash: user.ActivationHash,
		Activated:      user.Activated,
		Enabled:        true,
	}
	if s.idCol == "email" {
		record.Identifier = user.Email
	}
	return record, nil
}
