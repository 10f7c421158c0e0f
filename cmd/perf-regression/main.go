// Command perf-regression compares two `go test -bench` outputs and fails
// when a tracked hot-path benchmark slowed down beyond the allowed ratio.
// CI runs it with the baseline from the main branch and the candidate from
// the change under review.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

const defaultLimit = 0.30

// hotPaths maps the benchmarks that gate merges to the units that matter
// for each. Login carries the credential comparison, Check is the per
// request cost every guarded endpoint pays, and the metrics counter sits
// on every operation.
var hotPaths = map[string][]string{
	"BenchmarkLogin":           {"ns/op", "allocs/op"},
	"BenchmarkCheckSessionHit": {"ns/op", "allocs/op"},
	"BenchmarkCheckAnonymous":  {"ns/op"},
	"BenchmarkMetricsInc":      {"ns/op"},
}

// samples holds every observation of one unit for one benchmark, so a
// `-count=N` run contributes N values and the comparison uses the median
// instead of a single noisy sample.
type samples map[string]map[string][]float64

func main() {
	var (
		baselinePath  string
		candidatePath string
		limit         float64
	)

	flag.StringVar(&baselinePath, "baseline", "", "benchmark output of the reference build")
	flag.StringVar(&candidatePath, "candidate", "", "benchmark output of the build under review")
	flag.Float64Var(&limit, "limit", defaultLimit, "largest tolerated slowdown ratio (0.30 = +30%)")
	flag.Parse()

	if baselinePath == "" || candidatePath == "" {
		fmt.Fprintln(os.Stderr, "-baseline and -candidate are required")
		os.Exit(2)
	}
	if limit < 0 {
		fmt.Fprintln(os.Stderr, "-limit must be >= 0")
		os.Exit(2)
	}

	baseline, err := collect(baselinePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read baseline: %v\n", err)
		os.Exit(1)
	}
	candidate, err := collect(candidatePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read candidate: %v\n", err)
		os.Exit(1)
	}

	names := make([]string, 0, len(hotPaths))
	for name := range hotPaths {
		names = append(names, name)
	}
	sort.Strings(names)

	var failures []string
	fmt.Println("benchmark unit baseline candidate delta")
	for _, name := range names {
		for _, unit := range hotPaths[name] {
			base := median(baseline[name][unit])
			cand := median(candidate[name][unit])
			if base == 0 || cand == 0 {
				failures = append(failures, fmt.Sprintf("%s %s: no samples on both sides", name, unit))
				continue
			}

			delta := (cand - base) / base
			fmt.Printf("%s %s %.3f %.3f %+0.2f%%\n", name, unit, base, cand, delta*100)
			if delta > limit {
				failures = append(failures, fmt.Sprintf("%s %s slowed by %+0.2f%% (limit %+0.2f%%)", name, unit, delta*100, limit*100))
			}
		}
	}

	if len(failures) > 0 {
		fmt.Fprintln(os.Stderr, "hot-path regression limit exceeded:")
		for _, failure := range failures {
			fmt.Fprintf(os.Stderr, "  - %s\n", failure)
		}
		os.Exit(1)
	}
}

// collect parses a `go test -bench` output file into per-benchmark,
// per-unit sample lists. Lines that are not benchmark results are skipped,
// so the raw CI log can be fed in directly.
func collect(path string) (samples, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	out := samples{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "Benchmark") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}

		name := trimProcSuffix(fields[0])
		if _, tracked := hotPaths[name]; !tracked {
			continue
		}
		if out[name] == nil {
			out[name] = map[string][]float64{}
		}

		// After the name and iteration count the line alternates
		// value/unit pairs: "1234 ns/op 56 B/op 7 allocs/op".
		for i := 2; i+1 < len(fields); i += 2 {
			value, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				continue
			}
			out[name][fields[i+1]] = append(out[name][fields[i+1]], value)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// trimProcSuffix drops the -GOMAXPROCS suffix the testing package appends,
// so BenchmarkLogin-8 and BenchmarkLogin-16 merge into one series.
func trimProcSuffix(raw string) string {
	idx := strings.LastIndexByte(raw, '-')
	if idx <= 0 {
		return raw
	}
	if _, err := strconv.Atoi(raw[idx+1:]); err != nil {
		return raw
	}
	return raw[:idx]
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
