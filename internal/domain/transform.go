package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/couchcryptid/dtr-datecode/internal/datecode"
)

// ErrInvalidRequest marks a message that is not a well-formed DecodeRequest.
var ErrInvalidRequest = errors.New("invalid decode request")

// ParseRawEvent deserializes a RawEvent's value into a DecodeRequest.
// A request without a code is rejected.
func ParseRawEvent(raw RawEvent) (DecodeRequest, error) {
	var req DecodeRequest
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return DecodeRequest{}, fmt.Errorf("parse raw event: %w: %w", ErrInvalidRequest, err)
	}
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	if req.Code == "" {
		return DecodeRequest{}, fmt.Errorf("parse raw event: %w: missing code", ErrInvalidRequest)
	}
	if req.ShipmentID == "" && len(raw.Key) > 0 {
		req.ShipmentID = string(raw.Key)
	}
	return req, nil
}

// BuildQuery turns a request into a DecodeQuery, resolving the forced kind and
// defaulting the reference time to the package clock.
func BuildQuery(req DecodeRequest) (DecodeQuery, error) {
	q := DecodeQuery{Code: req.Code, Now: clock.Now()}
	if req.ReferenceTime != nil {
		q.Now = *req.ReferenceTime
	}
	if req.Kind != "" {
		k, err := datecode.ParseKind(req.Kind)
		if err != nil {
			return DecodeQuery{}, err
		}
		q.Kind = &k
	}
	return q, nil
}

// QueryKind returns the kind a query decodes as.
func QueryKind(q DecodeQuery) (datecode.Kind, error) {
	if q.Kind != nil {
		return *q.Kind, nil
	}
	return datecode.Classify(q.Code)
}

// KindLabel names the conveyance of a request for metrics. Failed requests are
// labelled with the forced or classified kind when one can be determined, and
// "unknown" otherwise.
func KindLabel(req DecodeRequest, res DecodeResult, err error) string {
	if err == nil {
		return res.Kind.String()
	}
	q, qerr := BuildQuery(req)
	if qerr != nil {
		return "unknown"
	}
	kind, kerr := QueryKind(q)
	if kerr != nil {
		return "unknown"
	}
	return kind.String()
}

// ResolveRequest decodes a request with dec and assembles the result. A nil
// decoder falls back to CodeDecoder.
func ResolveRequest(req DecodeRequest, dec Decoder) (DecodeResult, error) {
	if dec == nil {
		dec = CodeDecoder{}
	}

	q, err := BuildQuery(req)
	if err != nil {
		return DecodeResult{}, fmt.Errorf("resolve %q: %w", req.Code, err)
	}
	kind, err := QueryKind(q)
	if err != nil {
		return DecodeResult{}, fmt.Errorf("resolve %q: %w", req.Code, err)
	}
	dates, err := dec.Decode(q)
	if err != nil {
		return DecodeResult{}, fmt.Errorf("resolve %q: %w", req.Code, err)
	}

	return NewDecodeResult(req.ShipmentID, q.Code, kind, q.Now, dates), nil
}

// NewDecodeResult assembles a result from decoded candidates.
func NewDecodeResult(shipmentID, code string, kind datecode.Kind, now time.Time, dates []time.Time) DecodeResult {
	code = strings.ToUpper(strings.TrimSpace(code))
	res := DecodeResult{
		ID:            generateID(kind, code, now),
		ShipmentID:    shipmentID,
		Code:          code,
		Kind:          kind,
		Candidates:    dates,
		ReferenceTime: now,
		ResolvedAt:    clock.Now(),
	}
	if res.Candidates == nil {
		res.Candidates = []time.Time{}
	}
	if last, ok := datecode.MostRecent(dates); ok {
		res.MostRecent = last
		res.Display = last.Format(DisplayLayout)
	}
	return res
}

// SerializeResult marshals a DecodeResult into an OutputEvent keyed by the
// shipment ID when present, otherwise by the result ID.
func SerializeResult(res DecodeResult) (OutputEvent, error) {
	data, err := json.Marshal(res)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize decode result: %w", err)
	}
	key := res.ShipmentID
	if key == "" {
		key = res.ID
	}
	return OutputEvent{
		Key:   []byte(key),
		Value: data,
		Headers: map[string]string{
			"outcome":     "resolved",
			"kind":        res.Kind.String(),
			"resolved_at": res.ResolvedAt.Format(time.RFC3339),
		},
	}, nil
}

// NewRejection describes why raw failed to resolve. Whatever can be read from
// the message (shipment, code) is carried over even when it is malformed.
func NewRejection(raw RawEvent, cause error) Rejection {
	var req DecodeRequest
	_ = json.Unmarshal(raw.Value, &req)
	if req.ShipmentID == "" {
		req.ShipmentID = string(raw.Key)
	}
	return Rejection{
		ShipmentID: req.ShipmentID,
		Code:       strings.ToUpper(strings.TrimSpace(req.Code)),
		Reason:     RejectionReason(cause),
		Error:      cause.Error(),
		RejectedAt: clock.Now(),
	}
}

// RejectionReason maps a resolve error to a stable snake_case reason.
func RejectionReason(err error) string {
	if errors.Is(err, ErrInvalidRequest) {
		return "invalid_request"
	}
	return datecode.Reason(err)
}

// SerializeRejection marshals a Rejection keyed by shipment ID.
func SerializeRejection(r Rejection) (OutputEvent, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize rejection: %w", err)
	}
	key := r.ShipmentID
	if key == "" {
		key = "rejected"
	}
	return OutputEvent{
		Key:   []byte(key),
		Value: data,
		Headers: map[string]string{
			"outcome":     "rejected",
			"reason":      r.Reason,
			"rejected_at": r.RejectedAt.Format(time.RFC3339),
		},
	}, nil
}

// CurrentCodes encodes the code in force for every conveyance at the package
// clock's current time.
func CurrentCodes() []CurrentCode {
	now := clock.Now()
	out := make([]CurrentCode, 0, len(datecode.Kinds))
	for _, k := range datecode.Kinds {
		out = append(out, CurrentCode{Kind: k, Code: datecode.Encode(k, now), At: now})
	}
	return out
}

// SerializeCurrentCode marshals an announcement keyed by conveyance kind.
func SerializeCurrentCode(c CurrentCode) (OutputEvent, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize current code: %w", err)
	}
	return OutputEvent{
		Key:     []byte(c.Kind.String()),
		Value:   data,
		Headers: map[string]string{"kind": c.Kind.String()},
	}, nil
}

// generateID produces a deterministic ID from the kind, code and reference hour.
func generateID(kind datecode.Kind, code string, now time.Time) string {
	input := fmt.Sprintf("%s|%s|%s", kind, code, now.UTC().Truncate(time.Hour).Format(time.RFC3339))
	hash := sha256.Sum256([]byte(input))
	return kind.String() + "-" + hex.EncodeToString(hash[:8])
}
