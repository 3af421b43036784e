// Package domain models date code resolution requests flowing through the
// service and the results published back to consumers.
//
// # Request Format
//
// Requests arrive as JSON on the source topic:
//
//	{"shipment_id":"TCN-0001","code":"A01","kind":"air","reference_time":"2016-03-15T12:30:00Z"}
//
// Only "code" is required. When "kind" is present the code is decoded as that
// conveyance instead of being classified by shape. When "reference_time" is
// absent the package clock supplies "now".
//
// # Result Format
//
// Every candidate date is published, oldest first, together with the most
// recent candidate and a display string in the MM/DD/YYYY HH:MM:SS format
// shown on receiving documents.
//
// # Rejections
//
// A request that cannot be resolved may be answered with a [Rejection]
// carrying a stable reason: invalid_request for malformed messages, otherwise
// the datecode reason (invalid_length, invalid_hour_code, ...).
//
// # ID Generation
//
// Result IDs are deterministic SHA-256 hashes of kind|code|reference hour, so
// replaying the same request within the same hour yields the same ID. See
// [generateID].
package domain
