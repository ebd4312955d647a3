package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/quatton/qstage/pkg/qapi"
	"github.com/quatton/qstage/pkg/qapi/services"
	"github.com/quatton/qstage/pkg/qconfig"
	"github.com/quatton/qstage/pkg/qlog"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve manifest preparation and outcome checks over HTTP",
	Long: `Start the qstage API. It is configured from QSTAGE_* environment
variables; in development a .env file in the working directory is read first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := getEnv(cmd)
		if err != nil {
			return err
		}

		cfg, err := qconfig.LoadEnv(e.logger)
		if err != nil {
			return err
		}
		cfg.Print(func(format string, args ...any) {
			fmt.Fprintf(cmd.ErrOrStderr(), format, args...)
		})

		level, err := qlog.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		logger := qlog.NewLogger(level, cmd.ErrOrStderr())

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svcs, err := services.NewServices(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer svcs.Close()

		api := qapi.NewApi(svcs)
		server := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           api.Router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info(fmt.Sprintf("🚀 qstage API listening on %s", server.Addr))
			logger.Info(fmt.Sprintf("📚 OpenAPI docs: http://localhost:%s/docs", cfg.Port))
			errCh <- server.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
