package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/dtr-datecode/internal/domain"
	"github.com/couchcryptid/dtr-datecode/internal/observability"
)

// BatchExtractor reads up to batchSize decode requests from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer resolves a raw request into a serialized decode result.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error)
}

// Rejecter turns a request that failed to resolve into an event telling the
// requester why.
type Rejecter interface {
	Reject(raw domain.RawEvent, cause error) (domain.OutputEvent, error)
}

// BatchLoader writes multiple decode results to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.OutputEvent) error
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRejecter publishes a rejection for each request that fails to resolve
// instead of dropping it.
func WithRejecter(r Rejecter) Option {
	return func(p *Pipeline) { p.rejecter = r }
}

// WithBackoff sets the retry delay after extract or load failures. The delay
// doubles on every consecutive failure up to maxDelay.
func WithBackoff(initial, maxDelay time.Duration) Option {
	return func(p *Pipeline) { p.backoff = backoff{initial: initial, max: maxDelay, cur: initial} }
}

// Pipeline orchestrates the extract-resolve-load loop for date code requests.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	rejecter    Rejecter
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
	batchSize   int
	backoff     backoff
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
		backoff:     backoff{initial: 200 * time.Millisecond, max: 5 * time.Second, cur: 200 * time.Millisecond},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckReadiness returns nil once a batch has been loaded.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not processed any messages yet")
	}
	return nil
}

// Ready reports whether at least one batch has been loaded.
func (p *Pipeline) Ready() bool {
	return p.ready.Load()
}

// Run executes the batch loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize, "rejections", p.rejecter != nil)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.processBatch(ctx) {
			return nil
		}
	}
}

// processBatch runs one extract-resolve-load cycle. Returns false if the pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context) bool {
	start := time.Now()

	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("extract batch failed", "error", err)
		return p.backoff.wait(ctx)
	}

	if len(rawBatch) == 0 {
		return ctx.Err() == nil
	}

	p.metrics.MessagesConsumed.Add(float64(len(rawBatch)))
	p.metrics.BatchSize.Observe(float64(len(rawBatch)))
	p.backoff.reset()

	loaded, ok := p.resolveAndLoad(ctx, rawBatch)
	if !ok {
		return false
	}

	if loaded > 0 {
		p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
		p.ready.Store(true)
	}
	return true
}

// resolveAndLoad resolves each request in the batch, loads the results along
// with any rejections, then commits offsets. A request that can be neither
// resolved nor rejected is committed and skipped. Returns the number of loaded
// events and false if the pipeline should stop.
func (p *Pipeline) resolveAndLoad(ctx context.Context, rawBatch []domain.RawEvent) (int, bool) {
	outBatch := make([]domain.OutputEvent, 0, len(rawBatch))
	loadedRaws := make([]domain.RawEvent, 0, len(rawBatch))
	rejected := 0

	for _, raw := range rawBatch {
		out, err := p.transformer.Transform(ctx, raw)
		if err == nil {
			outBatch = append(outBatch, out)
			loadedRaws = append(loadedRaws, raw)
			continue
		}

		p.metrics.TransformErrors.Inc()
		if rej, ok := p.reject(raw, err); ok {
			outBatch = append(outBatch, rej)
			loadedRaws = append(loadedRaws, raw)
			rejected++
			continue
		}

		p.logger.Warn("resolve failed, skipping message",
			"error", err,
			"topic", raw.Topic,
			"partition", raw.Partition,
			"offset", raw.Offset,
		)
		p.commitOffset(ctx, raw)
	}

	if len(outBatch) == 0 {
		return 0, true
	}

	if err := p.loader.LoadBatch(ctx, outBatch); err != nil {
		p.logger.Error("load batch failed", "error", err, "batch_size", len(outBatch))
		return 0, p.backoff.wait(ctx)
	}

	p.metrics.MessagesProduced.Add(float64(len(outBatch)))
	p.metrics.MessagesRejected.Add(float64(rejected))

	for _, raw := range loadedRaws {
		p.commitOffset(ctx, raw)
	}

	return len(outBatch), true
}

func (p *Pipeline) reject(raw domain.RawEvent, cause error) (domain.OutputEvent, bool) {
	if p.rejecter == nil {
		return domain.OutputEvent{}, false
	}
	out, err := p.rejecter.Reject(raw, cause)
	if err != nil {
		p.logger.Warn("build rejection failed", "error", err, "offset", raw.Offset)
		return domain.OutputEvent{}, false
	}
	p.logger.Debug("request rejected", "error", cause, "offset", raw.Offset)
	return out, true
}

// commitOffset commits the message offset if a commit function is available.
func (p *Pipeline) commitOffset(ctx context.Context, raw domain.RawEvent) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

// backoff is an exponential retry delay. Only the Run goroutine touches it.
type backoff struct {
	initial time.Duration
	max     time.Duration
	cur     time.Duration
}

func (b *backoff) reset() { b.cur = b.initial }

// wait sleeps for the current delay and doubles it. Returns false if ctx ended first.
func (b *backoff) wait(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, b.cur) {
		return false
	}
	b.cur = min(b.cur*2, b.max)
	return true
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
