package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"essence/storefront/internal/cache"
	"essence/storefront/internal/config"
	"essence/storefront/internal/domain"
	"essence/storefront/internal/httpapi"
	"essence/storefront/internal/notify"
	"essence/storefront/internal/recommendation"
	"essence/storefront/internal/service"
	"essence/storefront/internal/store"
	"essence/storefront/internal/store/memory"
	pgstore "essence/storefront/internal/store/postgres"
	"essence/storefront/internal/store/redisstore"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	setupLogging(cfg)
	if err := validateSecurityConfig(cfg); err != nil {
		return fmt.Errorf("invalid security configuration: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var repo store.Repository
	closers := make([]func() error, 0, 2)

	if cfg.DatabaseURL != "" {
		pg, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("postgres unavailable (%w) and DATABASE_URL is set; refusing to start with in-memory fallback", err)
		}
		repo = pg
		closers = append(closers, pg.Close)
		log.Info("repository: postgres")
	} else {
		repo = memory.NewSeeded()
		log.Info("repository: in-memory")
	}

	responseCache := cache.ResponseCache(cache.NoopResponseCache{})
	var carts store.CartStore
	if cfg.RedisAddr != "" {
		client := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := client.Ping(ctx).Err(); err != nil {
			log.WithError(err).Warn("redis unavailable, using noop chat cache")
			_ = client.Close()
		} else {
			responseCache = cache.NewRedisResponseCache(client)
			carts = redisCarts(cfg, client)
			closers = append(closers, client.Close)
			log.Info("cache: redis")
		}
	} else {
		log.Info("cache: noop")
	}

	var notifier notify.Notifier = notify.Noop{}
	if cfg.TelegramBotToken != "" && cfg.TelegramAdminChat != "" {
		notifier = notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramAdminChat)
		log.Info("notifications: telegram")
	}

	recommender := recommendation.NewEngine(responseCache, time.Duration(cfg.ChatCacheTTLSeconds)*time.Second)
	svc := service.New(repo, recommender, service.Options{
		Pricing: domain.PricingPolicy{
			FreeShippingThresholdCents: cfg.FreeShippingThresholdCents,
			FlatShippingCents:          cfg.FlatShippingCents,
			TaxRate:                    cfg.TaxRate,
		},
		DeliveryLeadDays: cfg.DeliveryLeadDays,
		DefaultCountry:   cfg.DefaultCountry,
		Carts:            carts,
		Notifier:         notifier,
	})
	auth := httpapi.NewAuthManager(cfg.AuthSecret, time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute, repo, repo)
	api := httpapi.New(svc, auth, cfg.AllowedOrigin)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.Address()).Info("storefront listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("shutdown error")
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.WithError(err).Warn("close error")
		}
	}

	log.Info("server stopped")
	return nil
}

// redisCarts returns a Redis-backed cart store when enabled, or nil to keep
// carts in the repository.
func redisCarts(cfg config.Config, client *redis.Client) store.CartStore {
	if !cfg.UseRedisCarts {
		return nil
	}
	log.Info("carts: redis")
	return redisstore.NewCartStore(client, time.Duration(cfg.CartTTLHours)*time.Hour)
}

func validateSecurityConfig(cfg config.Config) error {
	if len(cfg.AuthSecret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be set and at least 32 characters")
	}
	if cfg.IsProduction() && cfg.AllowedOrigin == "*" {
		return fmt.Errorf("ALLOWED_ORIGIN must not be * in production")
	}
	return nil
}
