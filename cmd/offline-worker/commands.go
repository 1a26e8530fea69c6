package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

type rootOptions struct {
	configPath string
	debug      bool
}

// newRootCommand builds the CLI. Running it without a subcommand serves.
func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "offline-worker",
		Short: "Offline-first caching worker for a single-page application",
		Long: `offline-worker sits between a browser application and its origin.
It caches the application shell per version, answers requests cache-first,
queues writes made while offline and delivers them on sync.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: $WORKER_CONFIG_FILE or "+defaultConfigPath+")")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable development logging")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Install the current version and serve requests",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe(cmd.Context(), opts)
			},
		},
		&cobra.Command{
			Use:   "drain",
			Short: "Deliver queued deferred writes once and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runDrain(cmd.Context(), opts)
			},
		},
		&cobra.Command{
			Use:   "generations",
			Short: "List the cache generations held by the store",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runGenerations(cmd.Context(), opts)
			},
		},
	)

	return root
}

func runServe(ctx context.Context, opts *rootOptions) error {
	root, err := NewCompositionRoot(GetConfigPath(opts.configPath), opts.debug)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer func() {
		if err := root.Cleanup(); err != nil {
			root.Logger.Error("Failed to cleanup resources", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	install, activate := root.Worker.Start(ctx)
	root.Logger.Info("Worker started",
		zap.String("version", root.Worker.Version()),
		zap.Int("cached", len(install.Cached)),
		zap.Bool("install_complete", install.Complete()),
		zap.Strings("deleted", activate.Deleted))

	root.SyncScheduler.Start()

	g, gctx := errgroup.WithContext(ctx)

	if listen := root.Config.Server.Listen; listen != "" {
		g.Go(func() error { return root.HTTPServer.StartTCP(listen) })
	}
	if socketPath := root.Config.Server.SocketPath; socketPath != "" {
		g.Go(func() error { return root.HTTPServer.StartUnixSocket(socketPath) })
	}
	g.Go(func() error {
		if err := root.Reloader.Run(gctx); err != nil {
			root.Logger.Warn("Configuration reload disabled", zap.Error(err))
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		root.Logger.Info("Shutting down server...")

		root.SyncScheduler.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := root.HTTPServer.Stop(shutdownCtx); err != nil {
			root.Logger.Error("HTTP server forced to shutdown", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	root.Logger.Info("Server exited")
	return nil
}

func runDrain(ctx context.Context, opts *rootOptions) error {
	root, err := NewCompositionRoot(GetConfigPath(opts.configPath), opts.debug)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer func() { _ = root.Cleanup() }()

	report := root.Worker.OnSync(ctx, root.Worker.SyncTag())
	if err := printJSON(report); err != nil {
		return err
	}
	if report.Error != "" {
		return errors.New(report.Error)
	}
	if len(report.Failed) > 0 {
		return fmt.Errorf("%d deferred writes remain queued", len(report.Failed))
	}
	return nil
}

func runGenerations(ctx context.Context, opts *rootOptions) error {
	root, err := NewCompositionRoot(GetConfigPath(opts.configPath), opts.debug)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer func() { _ = root.Cleanup() }()

	names, err := root.Worker.Generations(ctx)
	if err != nil {
		return err
	}
	return printJSON(map[string]interface{}{
		"current":     root.Worker.Version(),
		"generations": names,
	})
}

func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
