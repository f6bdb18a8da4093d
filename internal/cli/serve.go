package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/upb/llm-model-router/app"
	"github.com/upb/llm-model-router/config"
	"github.com/upb/llm-model-router/internal/observability"
	"github.com/upb/llm-model-router/routes"
	"go.uber.org/zap"
)

// NewServeCmd runs the HTTP API until interrupted.
func NewServeCmd(opts *Options) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the routing API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := config.New(ctx)
			if err != nil {
				return err
			}
			if opts.CatalogPath != "" {
				cfg.Catalog.Path = opts.CatalogPath
			}
			if cmd.Flags().Changed("watch") {
				cfg.Catalog.Watch = watch
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config validation failed: %w", err)
			}

			logger, err := observability.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat)
			if err != nil {
				return err
			}

			return serve(ctx, cfg, logger)
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "Reload the catalog file when it changes")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	deps, err := app.NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      routes.SetupRoutes(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("model router listening",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			_ = deps.Close(context.Background())
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}
	if err := deps.Close(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
