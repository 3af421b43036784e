package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/dtr-datecode/internal/domain"
	"github.com/couchcryptid/dtr-datecode/internal/observability"
)

// DecodeTransformer implements Transformer by resolving decode requests with a
// domain.Decoder.
type DecodeTransformer struct {
	decoder domain.Decoder
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewTransformer creates a DecodeTransformer. A nil decoder decodes directly
// without caching; metrics may be nil.
func NewTransformer(decoder domain.Decoder, metrics *observability.Metrics, logger *slog.Logger) *DecodeTransformer {
	if decoder == nil {
		decoder = domain.CodeDecoder{}
	}
	return &DecodeTransformer{
		decoder: decoder,
		metrics: metrics,
		logger:  logger,
	}
}

func (t *DecodeTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	req, err := domain.ParseRawEvent(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	start := time.Now()
	res, err := domain.ResolveRequest(req, t.decoder)
	t.observe(req, res, time.Since(start), err)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	t.logger.Debug("code resolved",
		"code", res.Code,
		"kind", res.Kind.String(),
		"candidates", len(res.Candidates),
		"shipment_id", res.ShipmentID,
	)
	return domain.SerializeResult(res)
}

// Reject builds the rejection event published for a request that failed to resolve.
func (t *DecodeTransformer) Reject(raw domain.RawEvent, cause error) (domain.OutputEvent, error) {
	return domain.SerializeRejection(domain.NewRejection(raw, cause))
}

func (t *DecodeTransformer) observe(req domain.DecodeRequest, res domain.DecodeResult, elapsed time.Duration, err error) {
	if t.metrics == nil {
		return
	}
	t.metrics.ObserveDecode(domain.KindLabel(req, res, err), len(res.Candidates), elapsed.Seconds(), err)
}
