package outbox

import (
	"context"
	"time"

	"go.uber.org/multierr"

	"github.com/divya8341883853/clothstore-backend/pkg/config"
	"github.com/divya8341883853/clothstore-backend/pkg/db/models"
	"github.com/divya8341883853/clothstore-backend/pkg/logger"
	"github.com/divya8341883853/clothstore-backend/pkg/metrics"
)

// Handler consumes a single outbox event. Returning an error records a
// failed attempt; the event is retried until the attempt ceiling.
type Handler interface {
	Handle(ctx context.Context, event models.OutboxEvent) error
}

// Dispatcher drains pending outbox rows and hands them to a Handler.
type Dispatcher struct {
	repo    *Repository
	handler Handler
	cfg     config.OutboxConfig
	logg    *logger.Logger
}

func NewDispatcher(repo *Repository, handler Handler, cfg config.OutboxConfig, logg *logger.Logger) *Dispatcher {
	return &Dispatcher{repo: repo, handler: handler, cfg: cfg, logg: logg}
}

// Run polls until the context is canceled.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := d.DrainOnce(ctx); err != nil && d.logg != nil {
				d.logg.Error(ctx, "outbox drain failed", err)
			}
		}
	}
}

// DrainOnce processes at most one batch and aggregates per-event errors.
func (d *Dispatcher) DrainOnce(ctx context.Context) error {
	events, err := d.repo.FetchUnpublished(d.cfg.BatchSize, d.cfg.MaxAttempts)
	if err != nil {
		return err
	}

	var errs error
	for _, event := range events {
		if err := d.handler.Handle(ctx, event); err != nil {
			metrics.OutboxDispatched.WithLabelValues("failed").Inc()
			if d.logg != nil {
				logCtx := d.logg.WithFields(ctx, map[string]any{
					"event_id":   event.ID.String(),
					"event_type": event.EventType,
					"attempts":   event.AttemptCount,
				})
				d.logg.Warn(logCtx, "outbox event handling failed")
			}
			errs = multierr.Append(errs, err)
			if markErr := d.repo.MarkFailed(event.ID, err); markErr != nil {
				errs = multierr.Append(errs, markErr)
			}
			continue
		}
		metrics.OutboxDispatched.WithLabelValues("published").Inc()
		if markErr := d.repo.MarkPublished(event.ID); markErr != nil {
			errs = multierr.Append(errs, markErr)
		}
	}
	return errs
}
