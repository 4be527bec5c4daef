// Command server runs the wellbeing API.
//
// @title                       Wellbeing API
// @version                     1.0
// @description                 Journals, psychological tests and AI summaries for workplace wellbeing.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/mindcare/wellbeing-api/internal/infrastructure/config"
	"github.com/mindcare/wellbeing-api/pkg/logger"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log := logger.New(logger.Options{Service: "wellbeing-api"})
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "wellbeing-api",
	})
	log := logger.Get()

	if *migrateOnlyFlag {
		if err := migrateOnly(ctx, cfg, log); err != nil {
			log.Fatal().Err(err).Msg("migrate-only failed")
		}
		log.Info().Msg("migrations completed; exiting as requested")
		return
	}

	a, err := newApp(ctx, cfg, log, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
	if err := a.run(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
}
