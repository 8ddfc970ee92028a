package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"bolpur-mart/internal/auth"
	"bolpur-mart/internal/cart"
	"bolpur-mart/internal/config"
	"bolpur-mart/internal/events"
	"bolpur-mart/internal/handler"
	"bolpur-mart/internal/repository"
	"bolpur-mart/internal/retry"
	"bolpur-mart/internal/router"
	"bolpur-mart/internal/service"
	"bolpur-mart/internal/session"
	"bolpur-mart/internal/telemetry"
	"bolpur-mart/internal/wishlist"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, logger)
		},
	}
}

func newPublisher(cfg config.EventsConfig, logger zerolog.Logger) (events.Publisher, error) {
	switch cfg.Broker {
	case config.BrokerKafka:
		return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger), nil
	case config.BrokerRabbitMQ:
		return events.NewRabbitPublisher(cfg.RabbitURL, cfg.RabbitExchange, logger)
	default:
		return events.NewNoopPublisher(), nil
	}
}

func serve(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	logger.Info().Msg("starting bolpur-mart API server")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Tracing, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to flush traces")
		}
	}()

	pool, err := openPool(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	publisher, err := newPublisher(cfg.Events, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize event publisher: %w", err)
	}
	defer publisher.Close()

	// Repositories
	productRepo := repository.NewProductRepository(pool, logger)
	categoryRepo := repository.NewCategoryRepository(pool, logger)
	settingsRepo := repository.NewSettingsRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	wishlistRepo := repository.NewWishlistRepository(pool, logger)

	// Guest side
	sessions := session.NewManager(rdb, cfg.Redis.SessionTTL, logger)
	engine := cart.NewEngine(cart.NewGuestStore(rdb, cfg.Redis.GuestTTL, logger), cartRepo, sessions, logger)
	wishlists := wishlist.NewService(wishlist.NewGuestStore(rdb, cfg.Redis.GuestTTL, logger), wishlistRepo, logger)

	pricing := cart.Pricing{
		FreeDeliveryThreshold: cfg.Pricing.FreeDeliveryThreshold,
		DeliveryFee:           cfg.Pricing.DeliveryFee,
		TaxRate:               cfg.Pricing.TaxRate,
	}

	// Services
	catalogService := service.NewCatalogService(productRepo, categoryRepo, settingsRepo, time.Now, retry.DefaultConfig(), logger)
	cartService := service.NewCartService(engine, productRepo, pricing, logger)
	sessionService := service.NewSessionService(sessions, engine, cartService, wishlists, logger)
	orderService := service.NewOrderService(orderRepo, cartRepo, productRepo, publisher, pricing, logger)

	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL)

	handlers := router.Handlers{
		Health: handler.NewHealthHandler(map[string]handler.Check{
			"postgres": pool.Ping,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}, logger),
		Product:  handler.NewProductHandler(catalogService, logger),
		Category: handler.NewCategoryHandler(catalogService, logger),
		TimeSlot: handler.NewTimeSlotHandler(catalogService, logger),
		Session:  handler.NewSessionHandler(sessionService, logger),
		Cart:     handler.NewCartHandler(cartService, sessionService, logger),
		Wishlist: handler.NewWishlistHandler(wishlists, sessionService, logger),
		Order:    handler.NewOrderHandler(orderService, logger),
	}

	routerOpts := router.Options{APIKey: cfg.Auth.APIKey, Validator: jwtService}
	if cfg.Tracing.Enabled {
		routerOpts.TracingService = cfg.Tracing.ServiceName
	}

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router.New(handlers, routerOpts, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Str("event_broker", cfg.Events.Broker).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
