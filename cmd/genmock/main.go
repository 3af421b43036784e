// Command genmock writes a JSON fixture of sample date codes for every
// conveyance kind. It steps a fake clock across the year before a fixed
// reference date and encodes each instant in several time zones, so the
// fixture covers reference-frame differences, year boundaries and leap days.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/datecodes.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/couchcryptid/dtr-datecode/internal/datecode"
	"github.com/couchcryptid/dtr-datecode/internal/domain"
	"github.com/jonboulle/clockwork"
)

var referenceDate = time.Date(2016, time.March, 15, 12, 30, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the JSON fixture")
	span := flag.Duration("span", 366*24*time.Hour, "how far before the reference date to start")
	step := flag.Duration("step", 53*time.Hour, "clock step between samples")
	zones := flag.String("zones", "UTC,America/New_York,Asia/Tokyo", "comma-separated IANA zones to encode in")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *step <= 0 {
		return fmt.Errorf("-step must be positive")
	}

	locs, err := loadZones(*zones)
	if err != nil {
		return err
	}

	samples := generate(referenceDate, *span, *step, locs)
	log.Printf("generated %d samples", len(samples))

	if err := writeJSON(*out, samples); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote fixture: %s", *out)

	printStats(samples)
	return nil
}

func loadZones(list string) ([]*time.Location, error) {
	var locs []*time.Location
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		loc, err := time.LoadLocation(name)
		if err != nil {
			return nil, fmt.Errorf("load zone %q: %w", name, err)
		}
		locs = append(locs, loc)
	}
	if len(locs) == 0 {
		return nil, fmt.Errorf("no zones given")
	}
	return locs, nil
}

// generate walks a fake clock from ref-span up to ref and encodes every kind
// in every zone at each step.
func generate(ref time.Time, span, step time.Duration, locs []*time.Location) []domain.CurrentCode {
	clock := clockwork.NewFakeClockAt(ref.Add(-span))
	codec := datecode.NewCodec(clock)

	var samples []domain.CurrentCode //nolint:prealloc // size depends on span and step
	for !codec.Now().After(ref) {
		for _, loc := range locs {
			at := codec.Now().In(loc)
			for _, k := range datecode.Kinds {
				samples = append(samples, domain.CurrentCode{Kind: k, Code: datecode.Encode(k, at), At: at})
			}
		}
		clock.Advance(step)
	}
	return samples
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

type codeCount struct {
	code  string
	count int
}

func printStats(samples []domain.CurrentCode) {
	byKind := map[datecode.Kind]map[string]int{}
	for _, s := range samples {
		if byKind[s.Kind] == nil {
			byKind[s.Kind] = map[string]int{}
		}
		byKind[s.Kind][s.Code]++
	}

	fmt.Println("\n=== Stats ===")
	fmt.Printf("Total: %d\n", len(samples))
	for _, k := range datecode.Kinds {
		counts := byKind[k]
		cc := make([]codeCount, 0, len(counts))
		for c, n := range counts {
			cc = append(cc, codeCount{c, n})
		}
		sort.Slice(cc, func(i, j int) bool {
			if cc[i].count != cc[j].count {
				return cc[i].count > cc[j].count
			}
			return cc[i].code < cc[j].code
		})
		fmt.Printf("%s: %d distinct codes", k, len(cc))
		if len(cc) > 0 {
			fmt.Printf(", most frequent %s=%d", cc[0].code, cc[0].count)
		}
		fmt.Println()
	}
}
