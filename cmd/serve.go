package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"db-fill/internal/logger"
	"db-fill/internal/metrics"
	"db-fill/internal/provision"
	"db-fill/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve POST /generate over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !viper.GetBool("log.debug") {
			gin.SetMode(gin.ReleaseMode)
		}

		log := logger.Named("server")
		store := metrics.NewMetricsStore()
		p := provision.New(DB, Dialect, provisionOptions(SchemaName), logger.Named("provision"), store)

		srv := &http.Server{
			Addr:              viper.GetString("server.addr"),
			Handler:           server.NewRouter(p, DB, store.Registry, log),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			log.Info("HTTP server listening", zap.String("addr", srv.Addr), zap.String("dialect", Dialect.Name()))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default :8000)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}
