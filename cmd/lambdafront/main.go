package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/lambdafront/lambdafront/internal/config"
	"github.com/lambdafront/lambdafront/internal/echo"
	"github.com/lambdafront/lambdafront/internal/invoker"
	"github.com/lambdafront/lambdafront/internal/runtime"
	"github.com/lambdafront/lambdafront/internal/server"
	"github.com/lambdafront/lambdafront/internal/storage"
	"github.com/lambdafront/lambdafront/internal/storage/memory"
	"github.com/lambdafront/lambdafront/internal/storage/sqlite"
	"github.com/lambdafront/lambdafront/internal/telemetry"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	configPath := flag.StringP("config", "c", "", "Path to config file")
	addr := flag.String("addr", "", "Listen address override")
	format := flag.String("format", "", "Synthesized payload format override (alb, rest, http-v1, http-v2)")
	mode := flag.String("mode", "", "Invoker mode override (local, remote)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *format != "" {
		cfg.Format = *format
	}
	if *mode != "" {
		cfg.Invoker.Mode = *mode
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer("lambdafront", logger)
		if err != nil {
			log.Fatalf("Failed to initialize tracer: %v", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
			}
		}()
	}

	store, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open invocation store: %v", err)
	}
	if store != nil {
		defer store.Close()
	}

	inv, err := buildInvoker(context.Background(), cfg, store, logger)
	if err != nil {
		log.Fatalf("Failed to build invoker: %v", err)
	}

	srv, err := server.New(cfg, inv, store, logger)
	if err != nil {
		log.Fatalf("Failed to build server: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Server failed: %v", err)
		}
		return
	case <-sigChan:
		logger.Info("shutdown signal received, stopping emulator")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("emulator shutdown complete")
}

func buildStore(cfg *config.Config) (storage.Store, error) {
	if !cfg.Recording.Enabled {
		return nil, nil
	}
	if cfg.Recording.Driver == "sqlite" {
		return sqlite.New(cfg.Recording.Path)
	}
	return memory.New(cfg.Recording.Limit), nil
}

// buildInvoker assembles the configured invoker chain. Local mode runs
// the echo handler in-process; remote mode calls a deployed function.
// Recording wraps either when a store is open.
func buildInvoker(ctx context.Context, cfg *config.Config, store storage.Store, logger *slog.Logger) (invoker.Invoker, error) {
	var inv invoker.Invoker
	switch cfg.Invoker.Mode {
	case "remote":
		remote, err := invoker.NewRemote(ctx, cfg.Invoker.Function, cfg.Invoker.Region, cfg.Invoker.Qualifier)
		if err != nil {
			return nil, err
		}
		inv = remote
	default:
		opts := []runtime.Option{runtime.WithLogger(logger)}
		if cfg.StripStage {
			opts = append(opts, runtime.WithStageStrip())
		}
		front, err := runtime.New(runtime.HandlerFunc(echo.Handle), opts...)
		if err != nil {
			return nil, err
		}
		inv = invoker.NewLocal(front)
	}

	if store != nil {
		inv = invoker.NewRecording(inv, store, logger)
	}
	return inv, nil
}
