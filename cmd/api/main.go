package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"imagegenie/internal/bootstrap"
	"imagegenie/internal/http/handlers"
	httpapi "imagegenie/internal/http/httpapi"
	"imagegenie/internal/infra"
	"imagegenie/internal/infra/geoip"
	"imagegenie/internal/middleware"
)

func main() {
	infra.LoadDotEnv()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger, middleware.LocaleFromContext)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to wire application")
	}
	defer app.Close()

	resolver, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer resolver.Close()

	handlerLogger := logger.With().Str("component", "http").Logger()
	router := httpapi.NewRouter(
		handlers.NewApp(handlers.AppOptions{Service: app.Service, Images: app.Images, Logger: &handlerLogger}),
		httpapi.RouterOptions{
			Logger:         logger,
			AllowedOrigins: cfg.CORSAllowedOrigins,
			DefaultLocale:  "en",
			CountryLookup:  resolver.Lookup(),
		},
	)
	server := infra.NewHTTPServer(cfg, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", server.Addr()).Msg("API listening")
		return server.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	logger.Info().Msg("server stopped")
}
