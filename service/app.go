package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkwell/app/auth"
	"inkwell/app/config"
	"inkwell/app/logger"
	"inkwell/app/repositories"
	"inkwell/app/routes"
	"inkwell/app/services"
	"inkwell/app/storage"
	"inkwell/app/telemetry"

	"github.com/spf13/cobra"
)

const serviceName = "inkwell"

func newServeCommand(e *env) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the blog API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				e.cfg.Addr = addr
			}
			if err := e.cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return RunAppServer(ctx, e.cfg, e.log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides INKWELL_ADDR)")
	return cmd
}

// newServices wires the application services onto store.
func newServices(store *repositories.Store, images services.ImageStore, tokens *auth.Tokens, log *logger.Logger) routes.Services {
	posts, categories, users := store.Posts(), store.Categories(), store.Users()
	return routes.Services{
		Posts:      services.NewPostService(posts, categories, users, images, log),
		Comments:   services.NewCommentService(posts, users, log),
		Categories: services.NewCategoryService(categories, log),
		Auth:       services.NewAuthService(users, tokens, log),
	}
}

// RunAppServer serves the API until ctx is cancelled, then shuts down
// gracefully, closes the store and flushes pending spans.
func RunAppServer(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	shutdownTracing, err := telemetry.Setup(ctx, serviceName, cfg.OTelEndpoint, cfg.OTelEnabled)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("tracer shutdown failed", "error", err)
		}
	}()

	store, err := repositories.NewStore(cfg.DataDir, log.Badger())
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("failed to close store", "error", err)
		}
	}()

	var images services.ImageStore
	if cfg.ImageBucket != "" {
		gcs, err := storage.NewGCSImageStore(ctx, cfg.ImageBucket, cfg.ImageCDNDomain, log)
		if err != nil {
			return err
		}
		defer gcs.Close()
		images = gcs
	} else {
		log.Warn("no image bucket configured, featured image uploads are disabled")
	}

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	handler := routes.SetupRoutes(newServices(store, images, tokens, log), routes.Options{
		Tokens:    tokens,
		TokenTTL:  cfg.TokenTTL,
		ClientURL: cfg.ClientURL,
		Log:       log,
		Health:    store.Ping,
	})

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}
	log.Info("starting blog service", "addr", ln.Addr().String(), "data_dir", cfg.DataDir)
	return serve(ctx, srv, ln, cfg.ShutdownTimeout, log)
}

// serve runs srv on ln until ctx is done or the server fails. In-flight
// requests get up to timeout to finish.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, timeout time.Duration, log *logger.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info("server stopped")
	return nil
}
