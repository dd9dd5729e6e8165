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

	"stockroom/internal/config"
	"stockroom/internal/infra"
	"stockroom/internal/repository"
	"stockroom/internal/router"
	"stockroom/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: pretty in dev, JSON in prod
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if err := infra.MigrateUp(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("failed to apply migrations")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(context.Background(), cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	mailer := infra.NewMailer(cfg)
	mailCB := infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp"))

	r, err := router.New(cfg, db, rdb, mailer, mailCB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Msgf("Stockroom listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server…")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	// Background email jobs only run when a relay is configured.
	if mailer.Enabled() {
		productRepo := repository.NewProductRepository(db)
		saleRepo := repository.NewSaleRepository(db)
		emails := worker.NewEmailWorker(saleRepo, mailer, mailCB, cfg.BusinessName)
		pool := worker.NewPool(rdb, emails.Handlers(), cfg.WorkerPoolSize)

		g.Go(func() error { return pool.Run(gctx) })
		g.Go(func() error {
			return worker.RunAlertCron(gctx, worker.AlertCronConfig{
				Products:   productRepo,
				Queue:      worker.NewDispatcher(rdb),
				RDB:        rdb,
				CB:         mailCB,
				AlertEmail: cfg.AlertEmail,
				Interval:   time.Duration(cfg.AlertIntervalMinutes) * time.Minute,
			})
		})
	} else {
		log.Warn().Msg("SMTP_HOST not set: receipt and low stock emails are disabled")
	}

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = rdb.Close()
	log.Info().Msg("server exited")
}
