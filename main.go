package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"contentagent.app/app"
)

func main() {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found or error loading it")
	}

	topic := flag.String("topic", "", "generate content for one topic and exit")
	showConfig := flag.Bool("show-config", false, "print the effective configuration at startup")
	flag.Parse()

	application, err := app.NewApplication()
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	if *showConfig {
		app.NewConfigDisplayer().PrintConfig(application.Config())
	}

	// One-shot mode: generate a single document and exit.
	if *topic != "" {
		runOnce(application, *topic)
		return
	}

	setupGracefulShutdown(application)

	slog.Info("Starting content agent API...")
	if err := application.Start(); err != nil {
		slog.Error("Failed to start application", "error", err)
		os.Exit(1)
	}
}

func runOnce(application *app.Application, topic string) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	path, err := application.RunOnce(ctx, topic)
	if err != nil {
		slog.Error("Generation failed", "error", err, "topic", topic)
		_ = application.Shutdown()
		os.Exit(1)
	}

	fmt.Printf("Analysis written to %s\n", path)
	_ = application.Shutdown()
}

func setupGracefulShutdown(app *app.Application) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		slog.Info("Received shutdown signal...")
		if err := app.Shutdown(); err != nil {
			slog.Error("Error during shutdown", "error", err)
		}
		os.Exit(0)
	}()
}
