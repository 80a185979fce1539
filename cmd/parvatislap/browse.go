package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/parvatislap/lapas/internal/carousel"
	"github.com/parvatislap/lapas/internal/site"
	"github.com/parvatislap/lapas/internal/tui"
)

var (
	noAltScreen bool
	contentPath string
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the brochure (default)",
	RunE:  runBrowse,
}

func addBrowseFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&noAltScreen, "no-alt-screen", false, "disable the alternate screen buffer")
	cmd.Flags().StringVar(&contentPath, "content", "", "site content YAML (default: built in)")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	content, err := site.Load(contentPath)
	if err != nil {
		return err
	}
	source, err := reviewSource()
	if err != nil {
		return err
	}

	opts := []tea.ProgramOption{tea.WithMouseAllMotion()}
	if !noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Content: content,
			Reviews: source,
			Logger:  logger.Named("tui"),
			Strip: carousel.StripConfig{
				Speed:         cfg.Gallery.Speed,
				FallbackPitch: cfg.Gallery.FallbackPitch,
				FrameInterval: cfg.FrameInterval(),
				ResumeDelay:   cfg.StripResume(),
			},
			Slides: carousel.SlidesConfig{
				Interval:    cfg.SlideInterval(),
				ResumeDelay: cfg.SlideResume(),
			},
			JobTimeout: cfg.PlacesTimeout(),
			Outbox:     outboxPath(),
		}),
		opts...,
	)

	logger.Info("starting brochure", zap.Bool("altScreen", !noAltScreen))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}
