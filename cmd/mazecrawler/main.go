// Package main is the entry point for mazecrawler.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/samdwyer/mazecrawler/internal/game"
	"github.com/samdwyer/mazecrawler/internal/telemetry"
	"github.com/samdwyer/mazecrawler/internal/ui/window"
)

func main() {
	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	setupOTelEnv()

	cfg, err := game.ConfigFromEnv(os.Getenv)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	frontend := parseFlags(&cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		log.Printf("Warning: telemetry setup failed: %v", err)
		log.Printf("Game will run without observability")
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Printf("Error shutting down telemetry: %v", err)
			}
		}()
	}

	session, err := game.Boot(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize game: %v", err)
	}

	switch frontend {
	case "window":
		err = window.Run(ctx, session, cfg)
	default:
		var g *game.Game
		g, err = game.New(session, cfg.FPS)
		if err == nil {
			err = g.Run(ctx)
		}
	}
	if err != nil {
		log.Fatalf("Game error: %v", err)
	}
}

// parseFlags overrides the environment configuration with command-line
// flags and returns the selected frontend.
func parseFlags(cfg *game.Config) string {
	frontend := flag.String("frontend", "terminal", "frontend to run: terminal or window")
	flag.StringVar(&cfg.Level, "level", cfg.Level, "embedded level name")
	flag.StringVar(&cfg.LevelFile, "level-file", cfg.LevelFile, "path to a level YAML file")
	flag.StringVar(&cfg.SaveDir, "save-dir", cfg.SaveDir, "directory for save files")
	flag.StringVar(&cfg.SaveSlot, "save", cfg.SaveSlot, "save slot name")
	flag.BoolVar(&cfg.Resume, "resume", cfg.Resume, "resume the save slot if it exists")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 picks one)")
	flag.IntVar(&cfg.Width, "width", cfg.Width, "window frame width in pixels")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "window frame height in pixels")
	flag.Parse()

	if *frontend != "terminal" && *frontend != "window" {
		fmt.Fprintf(os.Stderr, "unknown frontend %q\n", *frontend)
		flag.Usage()
		os.Exit(2)
	}
	return *frontend
}

// setupOTelEnv configures OTEL environment variables from our custom env vars.
func setupOTelEnv() {
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	}

	// The .env file may hold an unexpanded variable reference, so the
	// headers are built here from the key itself.
	apiKey := os.Getenv("HONEYCOMB_MAZECRAWLER_API_KEY")
	dataset := os.Getenv("HONEYCOMB_MAZECRAWLER_DATASET")
	if dataset == "" {
		dataset = "mazecrawler"
	}
	if apiKey != "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
	}
}
