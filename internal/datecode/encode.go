package datecode

import (
	"fmt"
	"time"
)

// Encode produces the canonical code for kind at the given time.
//
// Air reads the day and hour in UTC. Surface and Ocean read the day in the
// location carried by at. Encode panics if kind is not a declared Kind.
func Encode(kind Kind, at time.Time) string {
	switch kind {
	case Air:
		utc := at.UTC()
		day := julianDay(utc)
		return string(HourLetter(utc.Hour())) + day[len(day)-2:]
	case Surface:
		return julianDay(at)
	case Ocean:
		return fmt.Sprintf("%d%s", lastDigit(at.Year()), julianDay(at))
	default:
		panic(fmt.Sprintf("datecode: encode unknown %s", kind))
	}
}

// julianDay formats the 1-based day of year as three zero-padded digits.
func julianDay(t time.Time) string {
	return fmt.Sprintf("%03d", t.YearDay())
}

func lastDigit(year int) int {
	return (year%10 + 10) % 10
}
