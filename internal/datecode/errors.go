package datecode

import "errors"

var (
	// ErrInvalidLength is returned when a trimmed code is not 3 or 4 characters.
	ErrInvalidLength = errors.New("invalid code length")

	// ErrInvalidNumeric is returned when a component expected to be all decimal
	// digits is not.
	ErrInvalidNumeric = errors.New("invalid numeric component")

	// ErrInvalidDayOfYear is returned when a day of year falls outside [1,366].
	ErrInvalidDayOfYear = errors.New("invalid day of year")

	// ErrInvalidHourCode is returned when an Air code does not start with a
	// letter from the hour alphabet.
	ErrInvalidHourCode = errors.New("invalid hour code")

	// ErrUnknownKind is returned when a conveyance name is not air, surface or ocean.
	ErrUnknownKind = errors.New("unknown conveyance kind")
)

// Reason maps an error from this package to a stable snake_case identifier
// suitable for API responses and metric labels. Unrecognized errors map to
// "internal".
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidLength):
		return "invalid_length"
	case errors.Is(err, ErrInvalidNumeric):
		return "invalid_numeric"
	case errors.Is(err, ErrInvalidDayOfYear):
		return "invalid_day_of_year"
	case errors.Is(err, ErrInvalidHourCode):
		return "invalid_hour_code"
	case errors.Is(err, ErrUnknownKind):
		return "unknown_kind"
	default:
		return "internal"
	}
}
