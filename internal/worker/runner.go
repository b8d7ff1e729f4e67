// Package worker drives the scan cycles: load the ledger, check every
// product concurrently, persist the updated records, then deliver the
// notifications for whatever changed.
package worker

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"offerwatch/internal/domain/entity"
	"offerwatch/internal/domain/service/tracker"
	"offerwatch/pkg/contextx"
	"offerwatch/pkg/logx"
)

const defaultWorkers = 4

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Ledger persists the product records between cycles.
type Ledger interface {
	Load(ctx context.Context) ([]entity.Product, error)
	Save(ctx context.Context, products []entity.Product) error
}

// Notifier delivers one price-change notification.
type Notifier interface {
	Send(ctx context.Context, notification entity.Notification) error
}

// Runner owns the cycle loop. Per-product failures never abort a cycle;
// only ledger I/O errors and context cancellation do.
type Runner struct {
	tracker  *tracker.Tracker
	ledger   Ledger
	notifier Notifier
	workers  int
	interval time.Duration
}

// Summary reports what one cycle did.
type Summary struct {
	Products       int
	Changed        int
	FetchFailures  int
	NotifyFailures int
}

func NewRunner(t *tracker.Tracker, ledger Ledger, notifier Notifier) *Runner {
	return &Runner{
		tracker:  t,
		ledger:   ledger,
		notifier: notifier,
		workers:  defaultWorkers,
	}
}

func (r *Runner) WithWorkers(workers int) *Runner {
	if workers > 0 {
		r.workers = workers
	}
	return r
}

// WithInterval makes Run loop with the given pause between cycles. Zero
// keeps Run a single cycle.
func (r *Runner) WithInterval(interval time.Duration) *Runner {
	r.interval = interval
	return r
}

// RunOnce performs one full cycle. The ledger is saved before any
// notification goes out, so a delivery failure never loses a recorded
// change. Record order is preserved.
func (r *Runner) RunOnce(ctx context.Context) (Summary, error) {
	products, err := r.ledger.Load(ctx)
	if err != nil {
		return Summary{}, err
	}

	updated := make([]entity.Product, len(products))
	events := make([]*entity.Notification, len(products))
	errs := make([]error, len(products))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	// Each worker owns one index; no two goroutines touch the same slot.
	for i := range products {
		g.Go(func() error {
			updated[i], events[i], errs[i] = r.tracker.CheckProduct(gctx, products[i])
			return nil
		})
	}

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	summary := Summary{Products: len(products)}

	for i, err := range errs {
		if err == nil {
			continue
		}

		summary.FetchFailures++
		fetchFailures.Inc()

		// The record stays as loaded; next cycle retries.
		logger(ctx).Warn(
			"product check failed",
			slog.String(logx.FieldProduct, products[i].Name),
			logx.Error(err),
		)
	}

	if err := r.ledger.Save(ctx, updated); err != nil {
		return summary, err
	}

	for i, event := range events {
		if event == nil {
			continue
		}

		summary.Changed++
		productChanges.Inc()

		if err := r.notifier.Send(ctx, *event); err != nil {
			summary.NotifyFailures++
			notifyFailures.Inc()

			logger(ctx).Warn(
				"notification delivery failed",
				slog.String(logx.FieldProduct, updated[i].Name),
				logx.Error(err),
			)
		}
	}

	productsChecked.Add(float64(len(products)))
	scanCycles.Inc()

	return summary, nil
}

// Run executes cycles until the context ends. Every cycle gets its own
// run id so its log lines can be grouped.
func (r *Runner) Run(ctx context.Context) error {
	for {
		runID := contextx.NewRunID()
		cycleCtx := contextx.WithRunID(ctx, runID)
		cycleCtx = contextx.WithLogger(cycleCtx,
			logger(ctx).With(slog.String(logx.FieldRunID, string(runID))))

		started := time.Now()

		summary, err := r.RunOnce(cycleCtx)
		if err != nil {
			return err
		}

		logger(cycleCtx).Info(
			"scan cycle finished",
			slog.Int("products", summary.Products),
			slog.Int("changed", summary.Changed),
			slog.Int("fetch-failures", summary.FetchFailures),
			slog.Int("notify-failures", summary.NotifyFailures),
			slog.Int64(logx.FieldDurationMs, time.Since(started).Milliseconds()),
		)

		if r.interval <= 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.interval):
		}
	}
}
