// Command validate checks a date code fixture written by genmock against the
// codec. Every sample must re-encode to the same code, sniff to the same kind,
// and decode (relative to its own instant) to a candidate set containing the
// day it was encoded on, and the hour too for Air codes.
//
// Usage:
//
//	go run ./cmd/validate -fixture data/mock/datecodes.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/couchcryptid/dtr-datecode/internal/datecode"
	"github.com/couchcryptid/dtr-datecode/internal/domain"
	"github.com/jonboulle/clockwork"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	fixture := flag.String("fixture", "", "path to the genmock JSON fixture")
	flag.Parse()

	if *fixture == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*fixture))
}

func run(path string) int {
	// Fixed clock so result IDs and timestamps are reproducible.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2016, time.March, 16, 0, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	fmt.Println("=== Date Code Fixture Validation ===")
	fmt.Println()

	samples, err := loadJSON[domain.CurrentCode](path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load fixture: %v\n", err)
		return 1
	}
	if len(samples) == 0 {
		fmt.Fprintln(os.Stderr, "FATAL: fixture is empty")
		return 1
	}

	phases := []*phase{
		validateEncoding(samples),
		validateShapes(samples),
		validateDecoding(samples),
		validateResults(samples),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Samples: %d\n", len(samples))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ── Phase 1: Encoding ──

func validateEncoding(samples []domain.CurrentCode) *phase {
	p := &phase{name: "Phase 1: Re-encoding"}
	for i, s := range samples {
		if got := datecode.Encode(s.Kind, s.At); got != s.Code {
			p.errorf("sample %d: %s at %s encodes to %q, fixture has %q", i, s.Kind, s.At.Format(time.RFC3339), got, s.Code)
		}
	}
	return p
}

// ── Phase 2: Shape classification ──

func validateShapes(samples []domain.CurrentCode) *phase {
	p := &phase{name: "Phase 2: Shape classification"}
	for i, s := range samples {
		k, err := datecode.Classify(s.Code)
		if err != nil {
			p.errorf("sample %d: classify %q: %v", i, s.Code, err)
			continue
		}
		if k != s.Kind {
			p.errorf("sample %d: %q sniffs as %s, fixture has %s", i, s.Code, k, s.Kind)
		}
	}
	return p
}

// ── Phase 3: Decoding ──

// expectedCandidate is the instant a code encoded at `at` must decode back to.
func expectedCandidate(kind datecode.Kind, at time.Time) time.Time {
	if kind == datecode.Air {
		return at.UTC().Truncate(time.Hour)
	}
	return time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
}

func validateDecoding(samples []domain.CurrentCode) *phase {
	p := &phase{name: "Phase 3: Decoding contains source"}
	for i, s := range samples {
		dates, err := datecode.Decode(s.Code, s.At)
		if err != nil {
			p.errorf("sample %d: decode %q: %v", i, s.Code, err)
			continue
		}
		want := expectedCandidate(s.Kind, s.At)
		if !containsInstant(dates, want) {
			p.errorf("sample %d: %s %q at %s: %s not among %d candidates",
				i, s.Kind, s.Code, s.At.Format(time.RFC3339), want.Format(time.RFC3339), len(dates))
		}
		for j := 1; j < len(dates); j++ {
			if !dates[j].After(dates[j-1]) {
				p.errorf("sample %d: candidates not in chronological order at index %d", i, j)
				break
			}
		}
	}
	return p
}

func containsInstant(dates []time.Time, want time.Time) bool {
	for _, d := range dates {
		if d.Equal(want) {
			return true
		}
	}
	return false
}

// ── Phase 4: Result assembly ──

func validateResults(samples []domain.CurrentCode) *phase {
	p := &phase{name: "Phase 4: Result assembly"}
	ids := map[string]string{}

	for i, s := range samples {
		at := s.At
		res, err := domain.ResolveRequest(domain.DecodeRequest{Code: s.Code, ReferenceTime: &at}, nil)
		if err != nil {
			p.errorf("sample %d: resolve %q: %v", i, s.Code, err)
			continue
		}
		if res.Kind != s.Kind {
			p.errorf("sample %d: result kind %s, want %s", i, res.Kind, s.Kind)
		}

		last, ok := datecode.MostRecent(res.Candidates)
		if !ok {
			p.errorf("sample %d: %q has no candidates", i, s.Code)
			continue
		}
		if !res.MostRecent.Equal(last) {
			p.errorf("sample %d: most_recent %s, want last candidate %s", i, res.MostRecent, last)
		}
		if res.Display != last.Format(domain.DisplayLayout) {
			p.errorf("sample %d: display %q, want %q", i, res.Display, last.Format(domain.DisplayLayout))
		}

		// IDs are keyed on kind, code and reference hour.
		key := fmt.Sprintf("%s|%s|%s", s.Kind, s.Code, at.UTC().Truncate(time.Hour).Format(time.RFC3339))
		if prev, seen := ids[res.ID]; seen && prev != key {
			p.errorf("sample %d: ID %s shared by %s and %s", i, res.ID, prev, key)
		}
		ids[res.ID] = key
	}
	return p
}
