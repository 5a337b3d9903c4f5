package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/rogerzombo-blip/DonFood/configs"
	"github.com/rogerzombo-blip/DonFood/internal/adapter/cache"
	"github.com/rogerzombo-blip/DonFood/internal/adapter/http"
	"github.com/rogerzombo-blip/DonFood/internal/logging"
	"github.com/rogerzombo-blip/DonFood/internal/payments"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	l := logging.Init(cfg.App.Name, cfg.App.LogFile, parseLevel(cfg.App.LogLevel))
	l.Info("checkout-api: starting up", "gateway_configured", cfg.GatewayConfigured())

	// Redis is optional: without it webhook de-dup is skipped, nothing
	// else depends on it.
	var store payments.EventStore
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       0,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			l.Warn("redis unreachable, webhook de-dup disabled", "addr", cfg.Redis.Addr, "err", err)
			_ = rdb.Close()
			rdb = nil
		} else {
			store = cache.NewRedisEventStore(rdb, cfg.Redis.DedupTTL)
		}
	}

	gw := payments.NewStripeGateway(cfg.Stripe.SecretKey)
	svc := payments.NewService(gw, logging.New("payments"))
	dispatcher := payments.NewDispatcher(cfg.Stripe.WebhookSecret, store, logging.New("webhook"))

	ph := http.NewPaymentHandler(svc, cfg.Stripe.PublishableKey, cfg.GatewayConfigured())
	wh := http.NewWebhookHandler(dispatcher)
	router := http.NewRouter(ph, wh, logging.New("http"), cfg.CORS.AllowedOrigins)

	cleanup := func() {
		if rdb != nil {
			_ = rdb.Close()
		}
	}

	return &App{Router: router}, cleanup, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
