// Package scheduler publishes the date codes currently in force on a cron schedule
// so receiving docks can compare labels against them.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/dtr-datecode/internal/domain"
	"github.com/couchcryptid/dtr-datecode/internal/observability"
	"github.com/robfig/cron/v3"
)

// Publisher writes announcement events to their destination.
type Publisher interface {
	Publish(ctx context.Context, events []domain.OutputEvent) error
}

// Announcer publishes one CurrentCode per conveyance kind each time its
// schedule fires.
type Announcer struct {
	cron      *cron.Cron
	schedule  string
	publisher Publisher
	metrics   *observability.Metrics
	logger    *slog.Logger
	timeout   time.Duration
}

// NewAnnouncer builds an announcer for a standard five-field cron schedule,
// evaluated in UTC.
func NewAnnouncer(schedule string, publisher Publisher, metrics *observability.Metrics, logger *slog.Logger) *Announcer {
	return &Announcer{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		schedule:  schedule,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		timeout:   30 * time.Second,
	}
}

// Start registers the job and starts the cron engine in its own goroutine.
func (a *Announcer) Start() error {
	_, err := a.cron.AddFunc(a.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()
		if err := a.Announce(ctx); err != nil {
			a.logger.Error("announce current codes", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule announcer %q: %w", a.schedule, err)
	}

	a.cron.Start()
	if a.metrics != nil {
		a.metrics.AnnounceEnabled.Set(1)
	}
	a.logger.Info("announcer started", "schedule", a.schedule)
	return nil
}

// Stop halts the schedule and waits for a running announcement to finish or
// ctx to expire.
func (a *Announcer) Stop(ctx context.Context) {
	done := a.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		a.logger.Warn("announcer stop timed out")
	}
	if a.metrics != nil {
		a.metrics.AnnounceEnabled.Set(0)
	}
}

// Announce encodes the current code for every kind and publishes them as one batch.
func (a *Announcer) Announce(ctx context.Context) error {
	codes := domain.CurrentCodes()

	events := make([]domain.OutputEvent, 0, len(codes))
	for _, c := range codes {
		ev, err := domain.SerializeCurrentCode(c)
		if err != nil {
			a.observe(err)
			return err
		}
		events = append(events, ev)
	}

	if err := a.publisher.Publish(ctx, events); err != nil {
		err = fmt.Errorf("publish current codes: %w", err)
		a.observe(err)
		return err
	}

	a.observe(nil)
	for _, c := range codes {
		a.logger.Debug("announced current code", "kind", c.Kind, "code", c.Code)
	}
	return nil
}

func (a *Announcer) observe(err error) {
	if a.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	a.metrics.Announcements.WithLabelValues(outcome).Inc()
}
