package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"server/internal/adapter/repo"
	"server/internal/analytics"
	"server/internal/infra"
)

const jobTimeout = 30 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	if err := infra.ApplySchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to apply schema")
	}

	seeder := analytics.NewSeeder(repo.NewAnalyticsRepository(pool), logger)

	ensureToday := func() {
		jobCtx, cancel := context.WithTimeout(ctx, jobTimeout)
		defer cancel()
		if err := seeder.EnsureToday(jobCtx); err != nil {
			logger.Error().Err(err).Msg("worker: ensure today record failed")
		}
	}

	// Run once on startup so a fresh deployment has a record immediately.
	ensureToday()

	c := cron.New()
	// Midnight rollover creates the new day's record the moment it starts.
	if _, err := c.AddFunc("0 0 * * *", ensureToday); err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to schedule midnight job")
	}
	// Hourly safety net in case the midnight run was missed.
	if _, err := c.AddFunc("@hourly", ensureToday); err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to schedule hourly job")
	}

	c.Start()
	logger.Info().Msg("worker: started")

	<-ctx.Done()

	stopCtx := c.Stop()
	<-stopCtx.Done()
	logger.Info().Msg("worker: stopped")
}
