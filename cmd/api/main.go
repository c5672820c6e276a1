package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	httpserver "sentiment_qc/internal/adapters/http_server"
	"sentiment_qc/internal/adapters/observability"
	redisad "sentiment_qc/internal/adapters/redis"
	"sentiment_qc/internal/app"
	"sentiment_qc/internal/domain"
	"sentiment_qc/internal/shared"
	"sentiment_qc/internal/storage/discard"
	"sentiment_qc/internal/storage/fixture"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// optional fixture-bytes cache; off unless a TTL is configured
	var cache domain.Cache
	if cfg.CacheTTL > 0 {
		cache = redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		log.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.CacheTTL).Msg("fixture cache enabled")
	}

	store := fixture.New(cfg.FixtureDir, cfg.StrictFixtures, cache, int(cfg.CacheTTL.Seconds()))

	if cfg.StrictFixtures {
		if err := checkFixtures(store); err != nil {
			log.Fatal().Err(err).Msg("fixture check failed")
		}
		log.Info().Str("dir", cfg.FixtureDir).Msg("fixtures ok")
	}

	// deps
	analytics := app.NewAnalyticsService(store)
	qc := app.NewQCService(store, discard.NewWriter(), cfg.StrictQC)

	// http
	srv := httpserver.New(cfg.RateLimitRPS)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&httpserver.Handlers{
		Analytics:    analytics,
		QC:           qc,
		DefaultLimit: cfg.DefaultLimit,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

// checkFixtures loads both fixture files once at boot so a strict
// deployment fails fast instead of on the first request.
func checkFixtures(store *fixture.Store) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rs, err := store.LoadReviews(ctx)
		if err == nil {
			log.Info().Int("reviews", len(rs)).Msg("review fixture loaded")
		}
		return err
	})
	g.Go(func() error {
		items, err := store.LoadQCItems(ctx)
		if err == nil {
			log.Info().Int("qc_items", len(items)).Msg("qc fixture loaded")
		}
		return err
	})
	return g.Wait()
}
