package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"cardstash/internal/http"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer func() {
		_ = app.Close()
	}()

	router := http.NewRouter(&http.Deps{
		DB:        app.DB,
		Catalog:   app.Catalog,
		Inventory: app.Inventory,
		Engine:    app.Engine,
		State:     app.State,
		Client:    app.Client,
		Directory: app.Directory,
	})

	server := &nethttp.Server{
		Addr:              ":" + app.Cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, nethttp.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	}
}
