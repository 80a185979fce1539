package places

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(Config{
		APIKey:     "secret-key",
		PlaceID:    "ChIJ-place",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
		Now:        func() time.Time { return fixedNow },
	})
}

func TestFetchReviewsReshapes(t *testing.T) {
	var gotPath, gotFields, gotKey string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotFields = r.URL.Query().Get("fields")
		gotKey = r.URL.Query().Get("key")
		_, _ = w.Write([]byte(`{
			"displayName": {"text": "Parvati's Lap"},
			"reviews": [
				{"name": "places/x/reviews/abc", "rating": 4.6, "text": {"text": "Great stay"},
				 "authorAttribution": {"displayName": "Asha"}, "publishTime": "2025-06-12T09:00:00Z"},
				{"rating": 3.2, "relativePublishTimeDescription": "a month ago"},
				{"name": "r3", "rating": 5, "text": {"text": "Views!"}, "authorAttribution": {"displayName": "Ben"},
				 "publishTime": "2023-01-01T00:00:00.123Z"}
			]
		}`))
	})

	got, err := client.FetchReviews(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/v1/places/ChIJ-place", gotPath)
	assert.Equal(t, reviewFields, gotFields)
	assert.Equal(t, "secret-key", gotKey)

	want := []Review{
		{ID: "google-review-places/x/reviews/abc", Stars: 5, Text: `"Great stay"`, Author: "- Asha, 3 days ago"},
		{ID: "google-review-1", Stars: 3, Text: `"No review text available"`, Author: "- Anonymous, a month ago"},
		{ID: "google-review-r3", Stars: 5, Text: `"Views!"`, Author: "- Ben, 2 years ago"},
	}
	assert.Empty(t, cmp.Diff(want, got), "reviews mismatch (-want +got)")
}

func TestFetchReviewsMissingConfig(t *testing.T) {
	tests := []Config{
		{PlaceID: "p"},
		{APIKey: "k"},
		{APIKey: "  ", PlaceID: "p"},
	}
	for _, cfg := range tests {
		_, err := New(cfg).FetchReviews(context.Background())
		assert.ErrorIs(t, err, ErrMissingConfig, "config %+v", cfg)
	}
}

func TestFetchReviewsUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(strings.Repeat("x", 2048)))
	})

	_, err := client.FetchReviews(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "403 Forbidden", apiErr.Status)
	assert.Len(t, apiErr.Body, errorBodyLimit, "error body not capped")
}

func TestFetchReviewsEmpty(t *testing.T) {
	for _, body := range []string{`{}`, `{"reviews": []}`} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})
		_, err := client.FetchReviews(context.Background())
		assert.ErrorIs(t, err, ErrNoReviews, "body %s", body)
	}
}

func TestFetchReviewsBadJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"reviews":`))
	})
	_, err := client.FetchReviews(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoReviews)
}

func TestRelativeTime(t *testing.T) {
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{time.Hour, "today"},
		{24 * time.Hour, "1 day ago"},
		{6 * 24 * time.Hour, "6 days ago"},
		{7 * 24 * time.Hour, "1 week ago"},
		{20 * 24 * time.Hour, "2 weeks ago"},
		{45 * 24 * time.Hour, "1 month ago"},
		{300 * 24 * time.Hour, "10 months ago"},
		{400 * 24 * time.Hour, "1 year ago"},
		{800 * 24 * time.Hour, "2 years ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, relativeTime(fixedNow.Add(-tt.ago), fixedNow), "ago %v", tt.ago)
	}
}

func TestRedactHidesKey(t *testing.T) {
	client := New(Config{APIKey: "k+y/z", PlaceID: "p"})
	redacted := client.redact(client.endpoint())
	assert.NotContains(t, redacted, "k%2By%2Fz")
	assert.Contains(t, redacted, "API_KEY_HIDDEN")
}
