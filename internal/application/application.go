// Package application assembles the scanner from its parts: config,
// ledger backend, fetcher, notifier sink, tracker and runner.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"offerwatch/internal/config"
	"offerwatch/internal/domain/service/tracker"
	"offerwatch/internal/infrastructure/fetcher"
	"offerwatch/internal/infrastructure/ledger"
	"offerwatch/internal/infrastructure/notifier"
	"offerwatch/internal/worker"
	"offerwatch/pkg/application/connectors"
	"offerwatch/pkg/contextx"
	"offerwatch/pkg/httpx"
	"offerwatch/pkg/metrics"
	"offerwatch/pkg/probe"
)

const (
	appName    = "offerwatch"
	appVersion = "1.0.0"
)

func Run(ctx context.Context, log *slog.Logger) error {
	ctx = contextx.WithLogger(ctx, log)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	policy, err := tracker.ParsePolicy(cfg.Tracker.Policy)
	if err != nil {
		return err
	}

	led, cleanup, err := buildLedger(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	fetch, closeFetcher, err := buildFetcher(cfg)
	if err != nil {
		return err
	}
	defer closeFetcher()

	sink, err := buildNotifier(cfg)
	if err != nil {
		return err
	}

	tr := tracker.NewTracker(fetch).
		WithPolicy(policy).
		WithPlatformPrefix(cfg.Tracker.PlatformPrefix)

	runner := worker.NewRunner(tr, led, sink).
		WithWorkers(cfg.Tracker.Workers).
		WithInterval(cfg.Tracker.Interval)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)

	if cfg.ProbeAddress != "" {
		probeServer := probe.NewServer(cfg.ProbeAddress, probe.Options{
			Name:    appName,
			Version: appVersion,
		})

		g.Go(func() error {
			return probeServer.Run(gctx)
		})
	}

	if cfg.MetricsAddress != "" {
		metricsServer := metrics.NewPrometheusServer(cfg.MetricsAddress)

		g.Go(func() error {
			return metricsServer.Run(gctx)
		})
	}

	g.Go(func() error {
		// When the runner finishes (single run, or a fatal error), the
		// side servers shut down with it.
		defer cancel()
		return runner.Run(gctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}

func buildLedger(ctx context.Context, cfg config.Config) (worker.Ledger, func(), error) {
	switch cfg.Ledger.Backend {
	case "postgres":
		pg := &connectors.Postgres{
			DSN:             cfg.Postgres.DSN,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		}

		db := pg.Client(ctx)
		if err := db.PingContext(ctx); err != nil {
			return nil, nil, fmt.Errorf("db ping: %w", err)
		}

		led := ledger.NewPostgres(db)
		if err := led.Migrate(ctx); err != nil {
			return nil, nil, err
		}

		return led, func() { pg.Close(ctx) }, nil
	default:
		return ledger.NewFile(cfg.Ledger.Path), func() {}, nil
	}
}

func buildFetcher(cfg config.Config) (tracker.OfferFetcher, func(), error) {
	var (
		fetch   tracker.OfferFetcher
		closeFn = func() {}
	)

	switch cfg.Fetcher.Approach {
	case "browser":
		browser, err := fetcher.NewBrowserFetcher(cfg.Fetcher.Timeout)
		if err != nil {
			return nil, nil, err
		}

		fetch = browser
		closeFn = func() { _ = browser.Close() }
	default:
		html := fetcher.NewHTMLFetcher().WithTimeout(cfg.Fetcher.Timeout)

		if cfg.Fetcher.UserAgent != "" {
			html = html.WithUserAgent(cfg.Fetcher.UserAgent)
		}

		if cfg.Fetcher.LogRequests {
			html = html.WithTransport(httpx.NewLoggingRoundTripper(http.DefaultTransport))
		}

		fetch = html
	}

	if cfg.Fetcher.CacheTTL > 0 {
		fetch = fetcher.NewCachedFetcher(fetch, cfg.Fetcher.CacheTTL)
	}

	return fetch, closeFn, nil
}

func buildNotifier(cfg config.Config) (worker.Notifier, error) {
	switch cfg.Notifier {
	case "desktop":
		return notifier.NewDesktop(), nil
	case "telegram":
		return notifier.NewTelegram(cfg.Bot.Token, cfg.Bot.ChatID)
	default:
		return notifier.NewLog(), nil
	}
}
