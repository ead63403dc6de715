package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/iwvelando/mortgage-visualizer/internal/cache"
	"github.com/iwvelando/mortgage-visualizer/internal/calculator"
	"github.com/iwvelando/mortgage-visualizer/internal/config"
	"github.com/iwvelando/mortgage-visualizer/internal/server"
	"github.com/iwvelando/mortgage-visualizer/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type serveOptions struct {
	configPath string
	address       string
	logLevel      string
	maxUploadSize string
}

func newServeCommand() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive mortgage calculator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", constants.DefaultServerConfigFile, "path to server configuration file")
	flags.StringVar(&opts.address, "address", "", "listen address override")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	flags.StringVar(&opts.maxUploadSize, "max-upload-size", "", "request body limit override, e.g. 256K or 2M")
	return cmd
}

func runServe(ctx context.Context, opts *serveOptions) error {
	if err := config.LoadDotEnv(constants.DefaultDotEnvFile); err != nil {
		return err
	}

	cfg, err := server.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load server configuration at %s: %w", opts.configPath, err)
	}
	if opts.address != "" {
		cfg.Address = opts.address
	}
	if opts.maxUploadSize != "" {
		size, err := server.ParseSize(opts.maxUploadSize)
		if err != nil {
			return fmt.Errorf("invalid --max-upload-size: %w", err)
		}
		cfg.SetUploadSizeBytes(size)
	}

	logger, err := config.NewLogger(cfg.Logging, opts.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	scheduleCache := cache.New(cfg.Cache, logger)
	defer func() {
		if err := scheduleCache.Close(); err != nil {
			logger.Warn("failed to close schedule cache",
				zap.String("op", "main.serve"),
				zap.Error(err),
			)
		}
	}()

	if cache.StartCleanup(ctx, scheduleCache, cfg.Cache.TTL(), logger) {
		logger.Debug("sweeping expired schedules",
			zap.String("op", "main.serve"),
			zap.Duration("interval", cfg.Cache.TTL()),
		)
	}

	metrics := server.NewMetrics()
	handler := server.NewHandler(server.Options{
		Logger:        logger,
		Calculator:    calculator.New(scheduleCache, metrics, logger),
		Metrics:       metrics,
		MaxUploadSize: cfg.UploadSizeBytes(),
		Version:       constants.Version,
	})

	if err := server.Serve(ctx, cfg.Address, handler, logger); err != nil {
		logger.Error("server failed",
			zap.String("op", "main.serve"),
			zap.Error(err),
		)
		return err
	}
	return nil
}
