package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"booksapi/internal/config"
	"booksapi/internal/platform/database"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLogger.Fatal().Err(err).Msg("invalid configuration")
	}

	logger := httplog.NewLogger("booksapi", httplog.Options{
		JSON:     cfg.LogJSON,
		LogLevel: cfg.LogLevel,
		Concise:  true,
	})

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := database.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer conn.Close()
	logger.Info().Str("driver", conn.Driver).Str("dsn", database.RedactDSN(cfg.DBDSN)).Msg("database connection OK")

	if cfg.AutoMigrate {
		applied, err := conn.Migrate(ctx)
		if err != nil {
			return err
		}
		logger.Info().Ints64("versions", applied).Msg("migrations applied")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := newRouter(ctx, routerDeps{
		cfg:      cfg,
		logger:   logger,
		conn:     conn,
		registry: reg,
	})

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errShutdown := make(chan error, 1)
	go shutdown(ctx, httpServer, errShutdown)

	logger.Info().Str("addr", cfg.Addr).Msg("starting server")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-errShutdown; err != nil {
		return err
	}
	logger.Info().Msg("server shut down cleanly")
	return nil
}

func shutdown(ctx context.Context, server *http.Server, errShutdown chan<- error) {
	<-ctx.Done()

	ctxTimeout, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctxTimeout); err != nil {
		errShutdown <- errors.Join(errors.New("forcing server close"), err)
		return
	}
	errShutdown <- nil
}
