package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/mdparty/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site with live navigation",
	Long: `Starts an HTTP server for the site. The site is loaded in the background;
browser tabs show a loading view until it is ready and then follow their
URL fragment over a websocket session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, f, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}

		srv := server.New(server.Config{
			Port:          cfg.Port,
			AllowAll:      cfg.AllowAllOrigins,
			AssetPatterns: cfg.AssetPatterns,
		}, f, logger)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			loaded, err := newLoader(cfg, f, logger).Load(ctx)
			if err != nil {
				if ctx.Err() == nil {
					logger.Errorw("loading site failed, pages stay in the loading view", "source", f.Base().String(), "error", err)
				}
				return
			}
			srv.MarkReady(loaded)
		}()

		go func() {
			<-ctx.Done()
			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warnw("shutdown", "error", err)
			}
		}()

		logger.Infow("mdparty starting", "version", Version, "source", f.Base().String(), "port", cfg.Port)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on (overrides the config)")
	rootCmd.AddCommand(serveCmd)
}
