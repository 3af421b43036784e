package domain

import (
	"time"

	"github.com/couchcryptid/dtr-datecode/internal/datecode"
)

// DecodeQuery is a single decode call. A nil Kind means classify by shape.
type DecodeQuery struct {
	Code string
	Kind *datecode.Kind
	Now  time.Time
}

// Decoder resolves a code to its candidate dates.
type Decoder interface {
	Decode(q DecodeQuery) ([]time.Time, error)
}

// CodeDecoder is the Decoder backed directly by the datecode package.
type CodeDecoder struct{}

func (CodeDecoder) Decode(q DecodeQuery) ([]time.Time, error) {
	if q.Kind != nil {
		return datecode.DecodeAs(*q.Kind, q.Code, q.Now)
	}
	return datecode.Decode(q.Code, q.Now)
}
