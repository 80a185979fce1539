package tui

import (
	"context"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/parvatislap/lapas/internal/enquiries"
	"github.com/parvatislap/lapas/internal/places"
)

func loadReviewsJob(source places.Source) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		reviews, err := places.LoadWithFallback(ctx, source)
		return reviewsResultMsg{reviews: reviews, err: err}, err
	}
}

// clipboardWriter is swapped out in tests.
var clipboardWriter = clipboard.WriteAll

func copyJob(label, value string) jobRunner {
	return func(context.Context) (tea.Msg, error) {
		err := clipboardWriter(value)
		return clipboardResultMsg{label: label, value: value, err: err}, err
	}
}

func saveEnquiryJob(path string, record enquiries.Record) jobRunner {
	return func(context.Context) (tea.Msg, error) {
		err := enquiries.Save(path, record)
		return enquirySavedMsg{path: path, err: err}, err
	}
}
