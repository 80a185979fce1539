package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/parvatislap/lapas/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve GET /api/reviews, the Google Places reviews proxy",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		client, err := placesClient(&http.Client{Timeout: cfg.PlacesTimeout()})
		if err != nil {
			return err
		}
		handler := server.New(server.Config{
			Reviews:     client,
			Logger:      logger.Named("server"),
			CacheMaxAge: cfg.CacheMaxAge(),
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.Run(ctx, addr, handler, logger)
	},
}
