package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"offerwatch/internal/domain"
	"offerwatch/pkg/errcodes"
)

func TestLoadDefaults(t *testing.T) {
	rq := require.New(t)

	cfg, err := Load()
	rq.NoError(err)

	rq.Equal("cheapest", cfg.Tracker.Policy)
	rq.Equal("Amazon", cfg.Tracker.PlatformPrefix)
	rq.Equal(4, cfg.Tracker.Workers)
	rq.Zero(cfg.Tracker.Interval)

	rq.Equal("html", cfg.Fetcher.Approach)
	rq.Equal(15*time.Second, cfg.Fetcher.Timeout)

	rq.Equal("file", cfg.Ledger.Backend)
	rq.Equal("data/products.json", cfg.Ledger.Path)
	rq.Equal("log", cfg.Notifier)
}

func TestLoadOverrides(t *testing.T) {
	rq := require.New(t)

	t.Setenv("POLICY", "threshold")
	t.Setenv("WORKERS", "8")
	t.Setenv("SCAN_INTERVAL", "5m")
	t.Setenv("FETCH_APPROACH", "browser")
	t.Setenv("NOTIFIER", "telegram")
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("BOT_CHAT_ID", "42")

	cfg, err := Load()
	rq.NoError(err)

	rq.Equal("threshold", cfg.Tracker.Policy)
	rq.Equal(8, cfg.Tracker.Workers)
	rq.Equal(5*time.Minute, cfg.Tracker.Interval)
	rq.Equal("browser", cfg.Fetcher.Approach)
	rq.Equal("telegram", cfg.Notifier)
	rq.Equal(int64(42), cfg.Bot.ChatID)
}

func TestLoadRejectsUnknownPolicy(t *testing.T) {
	rq := require.New(t)

	t.Setenv("POLICY", "luckiest")

	_, err := Load()
	rq.Error(err)
	rq.True(domain.HasCode(err, errcodes.ConfigurationError))
}

func TestLoadTelegramNeedsCredentials(t *testing.T) {
	rq := require.New(t)

	t.Setenv("NOTIFIER", "telegram")

	_, err := Load()
	rq.Error(err)
	rq.True(domain.HasCode(err, errcodes.ConfigurationError))
}

func TestLoadPostgresNeedsDSN(t *testing.T) {
	rq := require.New(t)

	t.Setenv("LEDGER_BACKEND", "postgres")

	_, err := Load()
	rq.Error(err)
	rq.True(domain.HasCode(err, errcodes.ConfigurationError))
}
