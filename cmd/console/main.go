package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/medicare-hq/staff-console/config"
	"github.com/medicare-hq/staff-console/internal/backend"
	"github.com/medicare-hq/staff-console/internal/dispatcher"
	"github.com/medicare-hq/staff-console/internal/handler"
	authHandler "github.com/medicare-hq/staff-console/internal/handler/auth"
	dashboardHandler "github.com/medicare-hq/staff-console/internal/handler/dashboard"
	"github.com/medicare-hq/staff-console/internal/listener"
	"github.com/medicare-hq/staff-console/internal/middleware"
	"github.com/medicare-hq/staff-console/internal/registry"
	"github.com/medicare-hq/staff-console/internal/router"
	"github.com/medicare-hq/staff-console/internal/session"
	"github.com/medicare-hq/staff-console/pkg/logger"
	"github.com/medicare-hq/staff-console/pkg/messaging/redis"
	"github.com/medicare-hq/staff-console/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	appLogger := logger.NewLogger(&logger.Config{
		Level:      level,
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		Pretty:     cfg.Logging.Pretty,
	})
	zl := appLogger.Zerolog()

	m := metrics.NewMetrics("staff_console")

	// Platform clients. The base client carries no credential; the
	// service account token is bound after login, and staff actions
	// override it per request.
	baseClient := backend.NewClient(cfg.Backend.BaseURL, http.DefaultClient, backend.NoToken, zl)
	adminClient := backend.NewAdminClient(baseClient)

	if cfg.Backend.ServiceEmail != "" {
		loginResp, err := adminClient.Login(context.Background(), cfg.Backend.ServiceEmail, cfg.Backend.ServicePassword)
		if err != nil {
			log.Fatal().Err(err).Msg("service account login failed")
		}
		adminClient = backend.NewAdminClient(baseClient.WithToken(backend.StaticToken(loginResp.AccessToken)))
	}

	reg := registry.New(adminClient, zl, m)
	disp := dispatcher.New(adminClient, reg, zl, m)
	sessions := session.NewStore()

	// First snapshot; a failure here just means staff see an empty
	// console until the first signal or manual refresh lands.
	if err := reg.Refresh(context.Background()); err != nil {
		appLogger.Error(err, "initial refresh failed")
	}

	// Push channel.
	broker, err := redis.NewRedisBroker(cfg.Redis.ToBrokerConfig(), zl)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	var notifier listener.Notifier = listener.NopNotifier{}
	if cfg.Notify.WebhookURL != "" {
		notifier = listener.NewWebhookNotifier(cfg.Notify.WebhookURL, http.DefaultClient)
	}

	live := listener.New(broker, reg, notifier, zl, m)
	sub, err := live.Subscribe(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to subscribe to push channel")
	}
	defer sub.Close()

	// HTTP surface.
	authMiddleware := middleware.NewAuthMiddleware(sessions)
	h := handler.NewHandler()
	authH := authHandler.NewHandler(adminClient, sessions, zl)
	dashboardH := dashboardHandler.NewHandler(reg, disp, zl)

	r := router.NewRouter(authMiddleware, authH, dashboardH, h, router.Config{
		RateLimitRPS:  cfg.RateLimit.RPS,
		RateBurst:     cfg.RateLimit.Burst,
		CORSConfig:    middleware.DefaultCORSConfig(),
		MetricsPrefix: "staff_console",
	})
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	appLogger.Info("console listening", "port", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down console...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("console exited properly")
}
