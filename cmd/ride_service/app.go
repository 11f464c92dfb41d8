package rideservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"corpride/internal/general/config"
	"corpride/internal/general/jwt"
	"corpride/internal/general/logger"
	"corpride/internal/general/postgres"
	"corpride/internal/general/rabbitmq"
	"corpride/internal/general/websocket"
	authhandler "corpride/internal/software/auth/handler"
	authservice "corpride/internal/software/auth/service"
	"corpride/internal/software/ride/handler"
	"corpride/internal/software/ride/service"
)

// Run wires the ride service and blocks until ctx is cancelled.
func Run(ctx context.Context, maxConcurrent int) error {
	// startup logs share a static request ID
	logger := logger.New("ride-service")
	ctx = logger.WithRequestID(ctx, "startup-001")

	cfg, err := config.LoadFromFile("config/config.yaml")
	if err != nil {
		logger.Error(ctx, "config_load_failed", "Failed to load configuration", err, nil)
		return err
	}

	pool, err := postgres.NewPool(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "db_connection_failed", "Failed to initialize Postgres pool", err, nil)
		return err
	}
	defer pool.Close()

	rmq, err := rabbitmq.ConnectRabbitMQ(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "rabbitmq_connection_failed", "Failed to connect to RabbitMQ", err, nil)
		return err
	}

	jwtManager := jwt.NewManager(cfg.JWT.SecretKey, 2*time.Hour)

	uow := postgres.NewUnitOfWork(pool)
	rideRepo := postgres.NewRideRepo()
	userRepo := postgres.NewUserRepo()

	notifier := websocket.NewNotifier(logger, jwtManager)

	rideSvc := service.NewRideService(logger, uow, rideRepo, rmq, notifier)
	authSvc := authservice.NewAuthService(logger, uow, userRepo, jwtManager)

	// push ride status updates from the admin service to connected requesters
	go rideSvc.RunBackgroundConsumers(ctx)

	mux := http.NewServeMux()
	handler.NewRideHTTPHandler(rideSvc, logger, jwtManager, notifier).RegisterRoutes(mux)
	authhandler.NewAuthHTTPHandler(authSvc, logger).RegisterRoutes(mux)

	limitedHandler := withConcurrencyLimit(maxConcurrent, mux)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Services.RideServicePort),
		Handler:           limitedHandler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	logger.Info(ctx, "service_started",
		fmt.Sprintf("Ride Service started on port %d", cfg.Services.RideServicePort),
		map[string]any{"port": cfg.Services.RideServicePort, "max_concurrent": maxConcurrent},
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info(ctx, "shutdown_started", "Shutting down Ride Service", nil)
		if err := srv.Shutdown(shCtx); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "http_shutdown_failed", "Failed to gracefully shut down HTTP server", err, nil)
		}
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "http_server_error", "HTTP server terminated with error", err,
				map[string]any{"port": cfg.Services.RideServicePort})
			return err
		}
		return nil
	}

	return nil
}

// withConcurrencyLimit wraps an http.Handler with a semaphore-based limiter.
// It controls how many HTTP requests can be in-progress at the same time.
func withConcurrencyLimit(n int, next http.Handler) http.Handler {
	if n <= 0 {
		return next
	}
	sem := make(chan struct{}, n)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case sem <- struct{}{}: // acquire
			defer func() { <-sem }() // release
			next.ServeHTTP(w, r)
		case <-r.Context().Done():
			// client canceled or server is shutting down
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		}
	})
}
