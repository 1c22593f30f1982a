package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/saramagdits/landscaping-saas/internal/api"
	appauth "github.com/saramagdits/landscaping-saas/internal/auth"
	"github.com/saramagdits/landscaping-saas/internal/calendar"
	"github.com/saramagdits/landscaping-saas/internal/company"
	"github.com/saramagdits/landscaping-saas/internal/config"
	"github.com/saramagdits/landscaping-saas/internal/httpserver"
	"github.com/saramagdits/landscaping-saas/internal/jobs"
	"github.com/saramagdits/landscaping-saas/internal/proposal"
	"github.com/saramagdits/landscaping-saas/internal/storage"
	"github.com/saramagdits/landscaping-saas/internal/store"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	zlog.Logger = log

	log.Info().Msg("starting landscaping server")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create db pool")
	}
	defer pool.Close()

	st := store.New(pool)
	if err := store.ApplyMigrations(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to apply migrations")
	}

	objects, err := storage.NewS3Store(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize object storage")
	}

	calendarService := calendar.NewService(cfg, st.Users, log)
	jobService := jobs.NewService(st.Jobs, log)
	proposalService := proposal.NewService(st.Proposals, log)
	companyService := company.NewService(st.Company, objects, log)

	sessionManager := appauth.NewSessionManager(cfg)
	authService, err := appauth.NewService(ctx, cfg, st, sessionManager, calendarService, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize auth service")
	}

	handlers := api.NewHandlers(jobService, proposalService, companyService, calendarService)
	r := httpserver.NewRouter(cfg, st, authService, handlers, log)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
