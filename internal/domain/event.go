package domain

import (
	"context"
	"time"

	"github.com/couchcryptid/dtr-datecode/internal/datecode"
)

// DisplayLayout formats candidate dates for people reading receiving documents.
const DisplayLayout = "01/02/2006 15:04:05"

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// DecodeRequest asks for the dates a code could stand for.
type DecodeRequest struct {
	ShipmentID    string     `json:"shipment_id,omitempty"`
	Code          string     `json:"code"`
	Kind          string     `json:"kind,omitempty"` // forces a conveyance instead of shape sniffing
	ReferenceTime *time.Time `json:"reference_time,omitempty"`
}

// DecodeResult is the resolved form of a DecodeRequest.
type DecodeResult struct {
	ID            string        `json:"id"`
	ShipmentID    string        `json:"shipment_id,omitempty"`
	Code          string        `json:"code"`
	Kind          datecode.Kind `json:"kind"`
	Candidates    []time.Time   `json:"candidates"`
	MostRecent    time.Time     `json:"most_recent"`
	Display       string        `json:"display,omitempty"`
	ReferenceTime time.Time     `json:"reference_time"`
	ResolvedAt    time.Time     `json:"resolved_at"`
}

// Rejection tells a requester why a decode request could not be resolved.
type Rejection struct {
	ShipmentID string    `json:"shipment_id,omitempty"`
	Code       string    `json:"code,omitempty"`
	Reason     string    `json:"reason"`
	Error      string    `json:"error"`
	RejectedAt time.Time `json:"rejected_at"`
}

// CurrentCode is the code in force for a conveyance at a point in time.
type CurrentCode struct {
	Kind datecode.Kind `json:"kind"`
	Code string        `json:"code"`
	At   time.Time     `json:"at"`
}

// OutputEvent is the serialized form destined for a sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
