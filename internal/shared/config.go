package shared

import (
	"os"
	"time"

	"github.com/spf13/cast"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MetricsAddr    string
	FixtureDir     string
	StrictFixtures bool
	StrictQC       bool
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	CacheTTL       time.Duration
	RateLimitRPS   int
	DefaultLimit   int
}

func Load() Config {
	return Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ":9100"),
		FixtureDir:     env("FIXTURE_DIR", "fixtures"),
		StrictFixtures: cast.ToBool(env("STRICT_FIXTURES", "false")),
		StrictQC:       cast.ToBool(env("STRICT_QC", "false")),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		RedisDB:        cast.ToInt(env("REDIS_DB", "0")),
		RedisPass:      env("REDIS_PASSWORD", ""),
		CacheTTL:       time.Duration(cast.ToInt(env("CACHE_TTL_SECONDS", "0"))) * time.Second,
		RateLimitRPS:   cast.ToInt(env("RATE_LIMIT_RPS", "50")),
		DefaultLimit:   cast.ToInt(env("DEFAULT_REVIEW_LIMIT", "10")),
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
