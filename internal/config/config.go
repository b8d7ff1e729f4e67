package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"offerwatch/internal/domain"
	"offerwatch/pkg/errcodes"
)

type Config struct {
	Tracker  Tracker
	Fetcher  Fetcher
	Ledger   Ledger
	Postgres Postgres
	Bot      Bot

	Notifier string `env:"NOTIFIER" envDefault:"log" validate:"oneof=log desktop telegram"`

	// Empty addresses keep the corresponding server off.
	ProbeAddress   string `env:"PROBE_ADDRESS"`
	MetricsAddress string `env:"METRICS_ADDRESS"`
}

type Tracker struct {
	Policy         string        `env:"POLICY" envDefault:"cheapest" validate:"oneof=cheapest threshold"`
	PlatformPrefix string        `env:"PLATFORM_PREFIX" envDefault:"Amazon"`
	Workers        int           `env:"WORKERS" envDefault:"4" validate:"min=1"`
	Interval       time.Duration `env:"SCAN_INTERVAL"`
}

type Fetcher struct {
	Approach    string        `env:"FETCH_APPROACH" envDefault:"html" validate:"oneof=html browser"`
	Timeout     time.Duration `env:"FETCH_TIMEOUT" envDefault:"15s"`
	CacheTTL    time.Duration `env:"FETCH_CACHE_TTL"`
	UserAgent   string        `env:"FETCH_USER_AGENT"`
	LogRequests bool          `env:"FETCH_LOG_REQUESTS"`
}

type Ledger struct {
	Backend string `env:"LEDGER_BACKEND" envDefault:"file" validate:"oneof=file postgres"`
	Path    string `env:"LEDGER_PATH" envDefault:"data/products.json"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, domain.WrapError(err, errcodes.ConfigurationError, "env.Parse")
	}

	if err := validator.New().Struct(config); err != nil {
		return Config{}, domain.WrapError(err, errcodes.ConfigurationError, "validate config")
	}

	// Backend-dependent requirements the tags cannot express.
	if config.Ledger.Backend == "postgres" && config.Postgres.DSN == "" {
		return Config{}, domain.NewError(errcodes.ConfigurationError,
			"LEDGER_BACKEND=postgres requires PG_DSN")
	}

	if config.Notifier == "telegram" {
		if config.Bot.Token == "" || config.Bot.ChatID == 0 {
			return Config{}, domain.NewError(errcodes.ConfigurationError,
				"NOTIFIER=telegram requires BOT_TOKEN and BOT_CHAT_ID")
		}
	}

	return config, nil
}
