package places

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	reviews []Review
	err     error
}

func (s stubSource) FetchReviews(context.Context) ([]Review, error) { return s.reviews, s.err }

func TestFallbackReviews(t *testing.T) {
	reviews := Fallback()
	require.Len(t, reviews, 5)
	for _, r := range reviews {
		assert.Equal(t, 5, r.Stars, r.ID)
		assert.True(t, strings.HasPrefix(r.Text, `"`), "text should be quoted: %s", r.ID)
		assert.True(t, strings.HasPrefix(r.Author, "- "), "author should be dashed: %s", r.ID)
		assert.NotContains(t, r.Text, "â€", "mis-encoded text in %s", r.ID)
	}
}

func TestLoadWithFallback(t *testing.T) {
	live := []Review{{ID: "google-review-a", Stars: 4, Text: `"ok"`, Author: "- A"}}
	upstream := errors.New("boom")

	tests := []struct {
		name    string
		src     Source
		want    []Review
		wantErr error
	}{
		{"live", stubSource{reviews: live}, live, nil},
		{"error", stubSource{err: upstream}, Fallback(), upstream},
		{"empty", stubSource{}, Fallback(), ErrNoReviews},
		{"nil source", nil, Fallback(), ErrMissingConfig},
		{"canceled", stubSource{err: context.Canceled}, nil, context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadWithFallback(context.Background(), tt.src)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Empty(t, cmp.Diff(tt.want, got), "reviews mismatch (-want +got)")
		})
	}
}

func TestProxySource(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    int
		wantErr string
	}{
		{"ok", http.StatusOK, `{"reviews":[{"id":"a","stars":5,"text":"\"x\"","author":"- A"}]}`, 1, ""},
		{"error body", http.StatusInternalServerError, `{"error":"API configuration missing"}`, 0, "API configuration missing"},
		{"not json", http.StatusBadGateway, `<html>`, 0, "502"},
		{"empty", http.StatusOK, `{"reviews":[]}`, 0, "no reviews"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			got, err := ProxySource{URL: server.URL + "/api/reviews", HTTPClient: server.Client()}.FetchReviews(context.Background())
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}
