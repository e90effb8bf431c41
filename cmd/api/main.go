package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/config"
	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/database"
	httpHandlers "github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/http"
	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	config.SetupLogger()

	ctx := context.Background()
	repo, closeRepo, err := database.OpenRepository(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer closeRepo()

	svc := service.New(repo)
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })

	httpHandlers.Register(app, svc)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Info().Msg("shutting down api")
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	addr := config.APIAddr()
	log.Info().Str("addr", addr).Str("driver", config.DBDriver()).Msg("api listening")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("server exit")
	}
}
