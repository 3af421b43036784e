package datecode

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{
		"air":       Air,
		"Air":       Air,
		" SURFACE ": Surface,
		"ocean":     Ocean,
	} {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseKind("rail")
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = ParseKind("")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestKind_JSON(t *testing.T) {
	type payload struct {
		Kind Kind `json:"kind"`
	}

	data, err := json.Marshal(payload{Kind: Ocean})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"ocean"}`, string(data))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"Surface"}`), &p))
	assert.Equal(t, Surface, p.Kind)

	assert.Error(t, json.Unmarshal([]byte(`{"kind":"truck"}`), &p))

	_, err = json.Marshal(payload{Kind: Kind(7)})
	assert.Error(t, err)
}

func TestReason(t *testing.T) {
	assert.Empty(t, Reason(nil))
	assert.Equal(t, "invalid_length", Reason(fmt.Errorf("wrap: %w", ErrInvalidLength)))
	assert.Equal(t, "invalid_numeric", Reason(ErrInvalidNumeric))
	assert.Equal(t, "invalid_day_of_year", Reason(ErrInvalidDayOfYear))
	assert.Equal(t, "invalid_hour_code", Reason(ErrInvalidHourCode))
	assert.Equal(t, "unknown_kind", Reason(ErrUnknownKind))
	assert.Equal(t, "internal", Reason(errors.New("boom")))
}

func TestCodec(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2016, time.January, 1, 2, 0, 0, 0, time.UTC))
	c := NewCodec(clock)

	assert.Equal(t, "C01", c.Current(Air))
	assert.Equal(t, "001", c.Current(Surface))
	assert.Equal(t, "6001", c.Current(Ocean))

	dates, err := c.Resolve("6001")
	require.NoError(t, err)
	assert.Equal(t, []time.Time{time.Date(2016, time.January, 1, 0, 0, 0, 0, time.UTC)}, dates)

	clock.Advance(time.Hour)
	assert.Equal(t, "D01", c.Current(Air))
}

func TestNewCodec_NilClockUsesRealTime(t *testing.T) {
	c := NewCodec(nil)
	assert.WithinDuration(t, time.Now(), c.Now(), time.Minute)
}
