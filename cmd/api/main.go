package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/analytics"
	"server/internal/http/handlers"
	httpapi "server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/mail"
	"server/internal/metrics"
	"server/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	if err := infra.ApplySchema(ctx, dbpool); err != nil {
		logger.Fatal().Err(err).Msg("failed to apply schema")
	}

	redisClient, err := infra.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open geoip database")
	}

	files, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize upload storage")
	}

	articles := repo.NewArticleRepository(dbpool)
	counters := repo.NewAnalyticsRepository(dbpool)
	comments := repo.NewCommentRepository(dbpool)
	subscribers := repo.NewSubscriberRepository(dbpool)
	contacts := repo.NewContactRepository(dbpool)
	users := repo.NewUserRepository(dbpool)

	m := metrics.New()

	app := &handlers.App{
		Cfg:         cfg,
		Logger:      logger,
		Articles:    articles,
		Comments:    comments,
		Subscribers: subscribers,
		Contacts:    contacts,
		Users:       users,
		Counters:    counters,
		Recorder:    analytics.NewRecorder(articles, counters, m, logger),
		Aggregator:  analytics.NewAggregator(counters, articles, subscribers, comments, contacts, logger),
		Seeder:      analytics.NewSeeder(counters, logger),
		Cache:       analytics.NewOverviewCache(redisClient, cfg.OverviewCacheTTL, logger),
		Mailer:      mail.NewMailer(cfg, logger),
		Files:       files,
		GeoIP:       resolver,
		Metrics:     m,
	}

	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on %s", server.Addr())
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
