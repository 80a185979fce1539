package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/parvatislap/lapas/internal/places"
)

var reviewsFallback bool

var reviewsCmd = &cobra.Command{
	Use:   "reviews",
	Short: "Fetch the current reviews and print them as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := reviewSource()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.PlacesTimeout())
		defer cancel()

		var reviews []places.Review
		if reviewsFallback {
			reviews, err = places.LoadWithFallback(ctx, source)
			if err != nil {
				logger.Warn("printing curated reviews", zap.Error(err))
			}
		} else {
			if source == nil {
				return places.ErrMissingConfig
			}
			reviews, err = source.FetchReviews(ctx)
			if err != nil {
				return err
			}
		}
		if reviews == nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(struct {
			Reviews []places.Review `json:"reviews"`
		}{reviews})
	},
}
