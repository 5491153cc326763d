package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wy414012/proxmox-backup/internal/app"
)

func main() {
	configPath := flag.String("config", "", "config file (falls back to CONFIG_PATH)")
	jsonOutput := flag.Bool("json", false, "output logs in JSON format")
	flag.Parse()

	setupLogging(*jsonOutput)

	application, err := app.New(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application")
	}

	application.Start()
	defer application.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := application.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server shutdown complete")
}

func setupLogging(jsonOutput bool) {
	if jsonOutput {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		return
	}

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	output.FormatLevel = func(i interface{}) string {
		if s, ok := i.(string); ok {
			return strings.ToUpper(s)
		}
		return ""
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}
