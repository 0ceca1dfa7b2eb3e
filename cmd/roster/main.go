package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MikeSquared-Agency/roster/internal/api"
	"github.com/MikeSquared-Agency/roster/internal/completion"
	"github.com/MikeSquared-Agency/roster/internal/config"
	"github.com/MikeSquared-Agency/roster/internal/extractor"
	"github.com/MikeSquared-Agency/roster/internal/hermes"
	"github.com/MikeSquared-Agency/roster/internal/runner"
	"github.com/MikeSquared-Agency/roster/internal/slack"
	"github.com/MikeSquared-Agency/roster/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "parse":
		err = runParse(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		slog.Error("roster failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`roster turns a copied Slack introductions channel into structured records.

Usage:
  roster parse [--output <name>] <transcript>   write <name> (default analysis_results.json) next to the transcript
  roster serve                                  run the HTTP parse service`)
}

func runParse(args []string) error {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	output := fs.String("output", "", "Results file name, written next to the transcript")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: roster parse [--output <name>] <transcript>")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *output != "" {
		cfg.OutputName = *output
	}
	setupLogging(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r, cleanup := buildRunner(ctx, cfg)
	defer cleanup()

	sum, err := r.Run(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Printf("\n=== Roster Summary ===\n")
	fmt.Printf("Introductions parsed: %d/%d\n", sum.Succeeded, sum.Total)
	fmt.Printf("Repaired: %d\n", sum.Repaired)
	fmt.Printf("Failed: %d\n", sum.Failed)
	fmt.Printf("Results: %s\n", sum.Output)
	return nil
}

func runServe(args []string) error {
	if len(args) > 0 {
		return errors.New("usage: roster serve")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg.LogLevel)
	slog.Info("roster starting", "port", cfg.Port, "model", cfg.LLMModel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r, cleanup := buildRunner(ctx, cfg)
	defer cleanup()

	srv := api.NewServer(cfg.Port, cfg.LLMModel, r)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("roster stopped")
	return nil
}

// buildRunner wires the completion client and whichever sinks are
// configured. A sink that cannot connect is skipped with a warning.
func buildRunner(ctx context.Context, cfg config.Config) (*runner.Runner, func()) {
	llm := completion.NewClient(completion.Options{
		BaseURL:           cfg.LLMBaseURL,
		APIKey:            cfg.LLMAPIKey,
		Timeout:           cfg.LLMTimeout,
		MaxRetries:        cfg.LLMMaxRetries,
		RetryDelay:        cfg.LLMRetryDelay,
		RequestsPerMinute: cfg.LLMRequestsPerMinute,
	})
	slog.Info("completion client ready", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModel)

	ext := extractor.New(llm, extractor.Options{
		Model:       cfg.LLMModel,
		Temperature: cfg.LLMTemperature,
	}, slog.Default())

	var sinks runner.Sinks
	var closers []func()

	if cfg.DatabaseURL != "" {
		db, err := openStore(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Warn("database unavailable, not storing intros", "error", err)
		} else {
			sinks.Store = db
			closers = append(closers, db.Close)
			slog.Info("database connected")
		}
	}

	if cfg.NatsURL != "" {
		hc, err := hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Warn("NATS unavailable, not publishing events", "error", err)
		} else {
			sinks.Events = hc
			closers = append(closers, hc.Close)
			slog.Info("NATS connected", "url", cfg.NatsURL)
		}
	}

	if cfg.SlackBotToken != "" && cfg.SlackChannel != "" {
		sinks.Notifier = slack.NewPoster(cfg.SlackBotToken, cfg.SlackChannel, slog.Default())
		slog.Info("slack poster ready", "channel", cfg.SlackChannel)
	}

	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	return runner.New(ext, cfg.OutputName, sinks, slog.Default()), cleanup
}

func openStore(ctx context.Context, url string) (*store.Store, error) {
	db, err := store.New(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
