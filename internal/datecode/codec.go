package datecode

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Codec binds the package functions to a time source for callers that want
// codes relative to "now". It holds no mutable state and is safe for
// concurrent use.
type Codec struct {
	clock clockwork.Clock
}

// NewCodec returns a Codec reading time from clock. A nil clock uses real time.
func NewCodec(clock clockwork.Clock) *Codec {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Codec{clock: clock}
}

// Now returns the current time of the underlying clock.
func (c *Codec) Now() time.Time {
	return c.clock.Now()
}

// Current returns the code for kind at the current time.
func (c *Codec) Current(kind Kind) string {
	return Encode(kind, c.clock.Now())
}

// Resolve decodes code relative to the current time.
func (c *Codec) Resolve(code string) ([]time.Time, error) {
	return Decode(code, c.clock.Now())
}
