package datecode

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const maxDayOfYear = 366

// Classify infers the conveyance kind from the shape of code. A 4-character
// code is Ocean; a 3-character code starting with an hour letter is Air; any
// other 3-character code is Surface.
func Classify(code string) (Kind, error) {
	code = strings.TrimSpace(code)
	switch codeLen(code) {
	case 4:
		return Ocean, nil
	case 3:
		if _, ok := HourIndex(code[0]); ok {
			return Air, nil
		}
		return Surface, nil
	default:
		return 0, fmt.Errorf("classify %q: %w", code, ErrInvalidLength)
	}
}

// Decode returns every point in time consistent with code, relative to now,
// in chronological order. The conveyance kind is inferred with [Classify].
// On error no candidates are returned.
func Decode(code string, now time.Time) ([]time.Time, error) {
	kind, err := Classify(code)
	if err != nil {
		return nil, err
	}
	return DecodeAs(kind, code, now)
}

// DecodeAs decodes code as the given kind, skipping shape inference. It is
// the path that reports [ErrInvalidHourCode] for 3-character codes whose
// first letter is outside the hour alphabet.
func DecodeAs(kind Kind, code string, now time.Time) ([]time.Time, error) {
	code = strings.TrimSpace(code)
	switch kind {
	case Air:
		if codeLen(code) != 3 {
			return nil, fmt.Errorf("decode air %q: %w", code, ErrInvalidLength)
		}
		return decodeAir(code, now)
	case Surface:
		if codeLen(code) != 3 {
			return nil, fmt.Errorf("decode surface %q: %w", code, ErrInvalidLength)
		}
		return decodeSurface(code, now)
	case Ocean:
		if codeLen(code) != 4 {
			return nil, fmt.Errorf("decode ocean %q: %w", code, ErrInvalidLength)
		}
		return decodeOcean(code, now)
	default:
		return nil, fmt.Errorf("decode %q as %s: %w", code, kind, ErrUnknownKind)
	}
}

// codeLen counts characters, not bytes. A code of the right length that holds
// non-ASCII characters then fails digit or hour-letter parsing.
func codeLen(code string) int {
	return utf8.RuneCountInString(code)
}

// MostRecent returns the last candidate of a chronologically ordered result.
func MostRecent(dates []time.Time) (time.Time, bool) {
	if len(dates) == 0 {
		return time.Time{}, false
	}
	return dates[len(dates)-1], true
}

func decodeOcean(code string, now time.Time) ([]time.Time, error) {
	y, ok := parseDigits(code[:1])
	if !ok {
		return nil, fmt.Errorf("decode ocean %q: year digit: %w", code, ErrInvalidNumeric)
	}
	day, err := parseDayOfYear(code[1:])
	if err != nil {
		return nil, fmt.Errorf("decode ocean %q: %w", code, err)
	}

	// Most recent year not after now's year ending in y.
	year := now.Year() - (lastDigit(now.Year())-y+10)%10
	return []time.Time{midnight(year, day, now.Location())}, nil
}

func decodeSurface(code string, now time.Time) ([]time.Time, error) {
	day, err := parseDayOfYear(code)
	if err != nil {
		return nil, fmt.Errorf("decode surface %q: %w", code, err)
	}
	return []time.Time{midnight(now.Year(), day, now.Location())}, nil
}

// decodeAir walks every UTC hour from one year before now through now and
// keeps the instants whose hour and truncated day of year match the code.
func decodeAir(code string, now time.Time) ([]time.Time, error) {
	hour, ok := HourIndex(code[0])
	if !ok {
		return nil, fmt.Errorf("decode air %q: %w", code, ErrInvalidHourCode)
	}
	day, ok := parseDigits(code[1:])
	if !ok {
		return nil, fmt.Errorf("decode air %q: day: %w", code, ErrInvalidNumeric)
	}

	end := now.UTC()
	var matches []time.Time
	for t := yearBefore(end); !t.After(end); t = t.Add(time.Hour) {
		if t.Hour() == hour && t.YearDay()%100 == day {
			matches = append(matches, t.Truncate(time.Hour))
		}
	}
	return matches, nil
}

// yearBefore returns t one calendar year earlier. Feb 29 clamps to Feb 28
// instead of normalising to Mar 1.
func yearBefore(t time.Time) time.Time {
	prev := t.AddDate(-1, 0, 0)
	if t.Month() == time.February && t.Day() == 29 {
		prev = prev.AddDate(0, 0, -1)
	}
	return prev
}

// midnight returns 00:00 on the given day of year. Day 366 of a common year
// rolls over to January 1 of the following year.
func midnight(year, day int, loc *time.Location) time.Time {
	return time.Date(year, time.January, day, 0, 0, 0, 0, loc)
}

func parseDayOfYear(s string) (int, error) {
	day, ok := parseDigits(s)
	if !ok {
		return 0, fmt.Errorf("day of year %q: %w", s, ErrInvalidNumeric)
	}
	if day < 1 || day > maxDayOfYear {
		return 0, fmt.Errorf("day of year %d: %w", day, ErrInvalidDayOfYear)
	}
	return day, nil
}

// parseDigits parses s as an unsigned decimal. Unlike strconv.Atoi it rejects
// signs, so "+01" is not a valid day.
func parseDigits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
