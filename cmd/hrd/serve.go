package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/hr-records/api"
)

var (
	servePort    int
	serveNoSweep bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long: `Opens every module from the data directory and serves the HTTP API.

On SIGINT/SIGTERM the server stops accepting connections, waits for active
requests (http.shutdown_timeout), stops the integrity sweeper and exits.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP port (overrides http.port)")
	serveCmd.Flags().BoolVar(&serveNoSweep, "no-sweep", false, "disable the integrity sweeper")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if servePort > 0 {
		cfg.HTTP.Port = servePort
	}
	if serveNoSweep {
		cfg.Sweeper.Enabled = false
	}

	mods, err := openModules(cmd.Context())
	if err != nil {
		return err
	}

	handler := api.NewHandler(mods, logger)
	sweeper := api.NewIntegritySweeper(mods, logger)
	sweeper.Enabled = cfg.Sweeper.Enabled
	sweeper.CheckInterval = cfg.Sweeper.Interval
	handler.Sweeper = sweeper
	sweeper.Start()
	defer sweeper.Stop()

	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      api.NewRouter(handler, cfg.HTTP.AllowedOrigins...),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  4 * cfg.HTTP.ReadTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", server.Addr), zap.String("data_dir", cfg.DataDir))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	// Wait for interrupt signal or a listener failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errc:
		if err != nil {
			return err
		}
		return nil
	case <-quit:
	}

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
