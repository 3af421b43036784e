package datecode

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utc(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		code string
		want Kind
	}{
		{"A01", Air},
		{"z99", Air},
		{"001", Surface},
		{"I01", Surface},
		{"O01", Surface},
		{"6001", Ocean},
		{" 6001 ", Ocean},
	}
	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			got, err := Classify(tc.code)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := Classify("12")
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestDecode_Errors(t *testing.T) {
	now := utc(2016, time.June, 1, 12)

	tests := []struct {
		code string
		want error
	}{
		{"", ErrInvalidLength},
		{"12", ErrInvalidLength},
		{"12345", ErrInvalidLength},
		{"   ", ErrInvalidLength},
		{"é1", ErrInvalidLength},
		{"é12", ErrInvalidNumeric},
		{"1é23", ErrInvalidNumeric},
		{"ABC", ErrInvalidNumeric},
		{"I01", ErrInvalidNumeric},
		{"+01", ErrInvalidNumeric},
		{"X001", ErrInvalidNumeric},
		{"6A01", ErrInvalidNumeric},
		{"000", ErrInvalidDayOfYear},
		{"367", ErrInvalidDayOfYear},
		{"6000", ErrInvalidDayOfYear},
		{"6999", ErrInvalidDayOfYear},
	}

	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			dates, err := Decode(tc.code, now)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
			assert.Nil(t, dates)
		})
	}
}

func TestDecodeAs(t *testing.T) {
	now := utc(2016, time.June, 1, 12)

	t.Run("unknown hour letter", func(t *testing.T) {
		_, err := DecodeAs(Air, "I01", now)
		assert.ErrorIs(t, err, ErrInvalidHourCode)
	})

	t.Run("digit is not an hour letter", func(t *testing.T) {
		_, err := DecodeAs(Air, "101", now)
		assert.ErrorIs(t, err, ErrInvalidHourCode)
	})

	t.Run("shape length mismatch", func(t *testing.T) {
		_, err := DecodeAs(Ocean, "001", now)
		assert.ErrorIs(t, err, ErrInvalidLength)
		_, err = DecodeAs(Surface, "6001", now)
		assert.ErrorIs(t, err, ErrInvalidLength)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := DecodeAs(Kind(9), "001", now)
		assert.ErrorIs(t, err, ErrUnknownKind)
	})

	t.Run("forced surface", func(t *testing.T) {
		dates, err := DecodeAs(Surface, "032", now)
		require.NoError(t, err)
		assert.Equal(t, []time.Time{utc(2016, time.February, 1, 0)}, dates)
	})
}

func TestDecode_Ocean(t *testing.T) {
	now := utc(2016, time.June, 1, 12)

	tests := []struct {
		code string
		want time.Time
	}{
		{"6001", utc(2016, time.January, 1, 0)},
		{"6153", utc(2016, time.June, 1, 0)},
		{"6200", time.Date(2016, time.January, 200, 0, 0, 0, 0, time.UTC)},
		{"5123", time.Date(2015, time.January, 123, 0, 0, 0, 0, time.UTC)},
		{"7001", utc(2007, time.January, 1, 0)},
		{"0365", time.Date(2010, time.January, 365, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			dates, err := Decode(tc.code, now)
			require.NoError(t, err)
			require.Len(t, dates, 1)
			assert.True(t, tc.want.Equal(dates[0]), "want %s, got %s", tc.want, dates[0])
		})
	}
}

func TestDecode_OceanNeverInFuture(t *testing.T) {
	now := utc(2023, time.March, 10, 0)
	for y := 0; y < 10; y++ {
		code := Encode(Ocean, utc(2023, time.January, 1, 0))
		code = string(rune('0'+y)) + code[1:]

		dates, err := Decode(code, now)
		require.NoError(t, err)
		year := dates[0].Year()
		assert.LessOrEqual(t, year, 2023, code)
		assert.Greater(t, year, 2013, code)
		assert.Equal(t, y, year%10, code)
	}
}

func TestDecode_Surface(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)
	now := time.Date(2016, time.June, 1, 12, 0, 0, 0, est)

	dates, err := Decode("032", now)
	require.NoError(t, err)
	want := []time.Time{time.Date(2016, time.February, 1, 0, 0, 0, 0, est)}
	if diff := cmp.Diff(want, dates); diff != "" {
		t.Fatalf("surface decode mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_SurfaceUsesCurrentYearOnly(t *testing.T) {
	// Day 300 has not happened yet in March, but surface codes do not look back.
	now := utc(2016, time.March, 1, 0)
	dates, err := Decode("300", now)
	require.NoError(t, err)
	require.Len(t, dates, 1)
	assert.Equal(t, 2016, dates[0].Year())
}

func TestDecode_Day366InCommonYearRollsOver(t *testing.T) {
	now := utc(2015, time.June, 1, 0)
	dates, err := Decode("366", now)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{utc(2016, time.January, 1, 0)}, dates)
}

func TestDecode_Air(t *testing.T) {
	now := time.Date(2016, time.March, 15, 12, 30, 0, 0, time.UTC)

	dates, err := Decode("A01", now)
	require.NoError(t, err)

	want := []time.Time{
		time.Date(2015, time.January, 101, 0, 0, 0, 0, time.UTC),
		time.Date(2015, time.January, 201, 0, 0, 0, 0, time.UTC),
		time.Date(2015, time.January, 301, 0, 0, 0, 0, time.UTC),
		utc(2016, time.January, 1, 0),
	}
	if diff := cmp.Diff(want, dates); diff != "" {
		t.Fatalf("air decode mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_AirWindowIsInclusive(t *testing.T) {
	now := utc(2016, time.January, 1, 0)

	dates, err := Decode("a01", now)
	require.NoError(t, err)
	require.Len(t, dates, 5)
	assert.Equal(t, utc(2015, time.January, 1, 0), dates[0])
	assert.Equal(t, now, dates[len(dates)-1])
}

func TestDecode_AirLeapDayWindowStartsFeb28(t *testing.T) {
	got, err := Decode("N59", utc(2016, time.February, 29, 12))
	require.NoError(t, err)

	want := []time.Time{
		utc(2015, time.February, 28, 12),
		utc(2015, time.June, 8, 12),
		utc(2015, time.September, 16, 12),
		utc(2015, time.December, 25, 12),
		utc(2016, time.February, 28, 12),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("candidates mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeAs_CountsCharacters(t *testing.T) {
	now := utc(2016, time.June, 1, 12)

	_, err := DecodeAs(Air, "é1", now)
	assert.ErrorIs(t, err, ErrInvalidLength)

	_, err = DecodeAs(Air, "éA1", now)
	assert.ErrorIs(t, err, ErrInvalidHourCode)

	_, err = DecodeAs(Ocean, "6é1", now)
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestDecode_AirConvertsNowToUTC(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)
	now := time.Date(2016, time.January, 1, 22, 0, 0, 0, est)

	dates, err := Decode("D02", now)
	require.NoError(t, err)
	last, ok := MostRecent(dates)
	require.True(t, ok)
	assert.Equal(t, utc(2016, time.January, 2, 3), last)
	assert.Equal(t, time.UTC, last.Location())
}

func TestDecode_AirResultsBounded(t *testing.T) {
	now := time.Date(2017, time.January, 10, 7, 15, 0, 0, time.UTC)

	for dd := 0; dd < 100; dd++ {
		code := "H" + string(rune('0'+dd/10)) + string(rune('0'+dd%10))
		dates, err := Decode(code, now)
		require.NoError(t, err, code)
		assert.LessOrEqual(t, len(dates), 366, code)

		for i, d := range dates {
			assert.Equal(t, 7, d.Hour(), code)
			assert.Equal(t, dd, d.YearDay()%100, code)
			assert.False(t, d.After(now), code)
			if i > 0 {
				assert.True(t, d.After(dates[i-1]), "%s not chronological", code)
			}
		}
	}
}

func TestRoundTrip(t *testing.T) {
	t.Run("surface", func(t *testing.T) {
		at := time.Date(2015, time.May, 5, 13, 20, 0, 0, time.Local)
		dates, err := Decode(Encode(Surface, at), at)
		require.NoError(t, err)
		require.Len(t, dates, 1)
		assert.Equal(t, at.YearDay(), dates[0].YearDay())
		assert.Equal(t, at.Year(), dates[0].Year())
	})

	t.Run("ocean", func(t *testing.T) {
		at := time.Date(2015, time.November, 30, 23, 59, 0, 0, time.UTC)
		dates, err := Decode(Encode(Ocean, at), at)
		require.NoError(t, err)
		require.Len(t, dates, 1)
		assert.Equal(t, utc(2015, time.November, 30, 0), dates[0])
	})

	t.Run("air", func(t *testing.T) {
		at := time.Date(2016, time.July, 4, 17, 45, 0, 0, time.UTC)
		dates, err := Decode(Encode(Air, at), at)
		require.NoError(t, err)
		assert.Contains(t, dates, at.Truncate(time.Hour))

		last, ok := MostRecent(dates)
		require.True(t, ok)
		assert.Equal(t, at.Truncate(time.Hour), last)
	})
}

func TestMostRecent_Empty(t *testing.T) {
	_, ok := MostRecent(nil)
	assert.False(t, ok)
}
