package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ae2i-algerie/recrutement-api/internal/auth"
	"github.com/ae2i-algerie/recrutement-api/internal/config"
	"github.com/ae2i-algerie/recrutement-api/internal/httpapi"
	"github.com/ae2i-algerie/recrutement-api/internal/linkedin"
	"github.com/ae2i-algerie/recrutement-api/internal/obs"
	"github.com/ae2i-algerie/recrutement-api/internal/recruit"
	"github.com/ae2i-algerie/recrutement-api/internal/store/pg"
)

var version = "1.2.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := obs.Logger()
		l.Fatal().Err(err).Msg("load configuration")
	}

	logger := obs.Setup(cfg.LogLevel, cfg.LogPretty)
	obs.Init()

	store, err := pg.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	defer store.Close()

	signer, err := auth.NewTokenSigner([]byte(cfg.JWTSecret),
		auth.WithAccessTTL(cfg.AccessTokenTTL))
	if err != nil {
		logger.Fatal().Err(err).Msg("configure token signer")
	}

	authSvc, err := auth.NewService(store, signer,
		auth.WithLogger(logger),
		auth.WithRefreshTokens(auth.NewRefreshTokens(store,
			auth.WithRefreshTTL(cfg.RefreshTokenTTL))))
	if err != nil {
		logger.Fatal().Err(err).Msg("configure auth service")
	}
	defer authSvc.Close()

	recruitSvc, err := recruit.NewService(store, authSvc.Audit())
	if err != nil {
		logger.Fatal().Err(err).Msg("configure recruit service")
	}

	var provider *linkedin.Provider
	if cfg.LinkedInConfigured() {
		provider, err = linkedin.New(cfg.LinkedInClientID, cfg.LinkedInClientSecret, cfg.LinkedInRedirectURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("configure linkedin provider")
		}
		logger.Info().Msg("linkedin sign-on enabled")
	} else {
		logger.Info().Msg("linkedin sign-on disabled: credentials not set")
	}

	api := httpapi.New(httpapi.Options{
		Auth:           authSvc,
		Recruit:        recruitSvc,
		LinkedIn:       provider,
		Ready:          httpapi.ReadyProbe{Pinger: store},
		Logger:         logger,
		Version:        version,
		FrontendOrigin: cfg.FrontendURL,
	})

	handler := api.Handler()
	handler = httpapi.MaxBodyBytes(cfg.MaxBodyBytes)(handler)
	handler = httpapi.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst)(handler)
	handler = httpapi.CORS(cfg.AllowedOrigins)(handler)
	handler = httpapi.SecurityHeaders(handler)
	handler = httpapi.Logging(logger)(handler)
	handler = httpapi.RequestID(handler)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.ListenAddr).Str("version", version).Msg("starting recrutement-api")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
	logger.Info().Msg("stopped")
}
