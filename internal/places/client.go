package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the Places API (New) host.
	DefaultBaseURL     = "https://places.googleapis.com"
	defaultHTTPTimeout = 10 * time.Second
	errorBodyLimit     = 512
	reviewFields       = "displayName,googleMapsUri,rating,userRatingCount,reviews.rating,reviews.text,reviews.publishTime,reviews.authorAttribution"
)

var (
	// ErrMissingConfig is returned when the API key or place id is unset.
	ErrMissingConfig = errors.New("places: missing API key or place id")
	// ErrNoReviews is returned when the place has no reviews to show.
	ErrNoReviews = errors.New("places: no reviews found")
)

// APIError describes a non-2xx reply from the upstream API.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("places API error: %s (%s)", e.Status, e.Body)
}

// Review is the flattened shape served by /api/reviews and rendered in the
// reviews strip.
type Review struct {
	ID     string `json:"id"`
	Stars  int    `json:"stars"`
	Text   string `json:"text"`
	Author string `json:"author"`
}

// Source yields reviews from somewhere: the Places API, the proxy, a stub.
type Source interface {
	FetchReviews(ctx context.Context) ([]Review, error)
}

// Config wires a Client.
type Config struct {
	APIKey     string
	PlaceID    string
	BaseURL    string
	HTTPClient *http.Client
	Cache      *Cache
	Logger     *zap.Logger
	Now        func() time.Time
}

// Client fetches a place's reviews from the Places API and reshapes them.
type Client struct {
	apiKey  string
	placeID string
	baseURL string
	http    *http.Client
	cache   *Cache
	logger  *zap.Logger
	now     func() time.Time
}

// New returns a Client. Missing credentials are reported on fetch, not here,
// so a server can still start and answer with a configuration error.
func New(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Client{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		placeID: strings.TrimSpace(cfg.PlaceID),
		baseURL: base,
		http:    httpClient,
		cache:   cfg.Cache,
		logger:  logger,
		now:     now,
	}
}

type placeResponse struct {
	Reviews []apiReview `json:"reviews"`
}

type apiReview struct {
	Name                           string         `json:"name"`
	Rating                         float64        `json:"rating"`
	Text                           *localizedText `json:"text"`
	AuthorAttribution              *authorAttrib  `json:"authorAttribution"`
	PublishTime                    string         `json:"publishTime"`
	RelativePublishTimeDescription string         `json:"relativePublishTimeDescription"`
}

type localizedText struct {
	Text string `json:"text"`
}

type authorAttrib struct {
	DisplayName string `json:"displayName"`
}

// FetchReviews calls the Places API and returns the place's reviews.
func (c *Client) FetchReviews(ctx context.Context) ([]Review, error) {
	if c.apiKey == "" || c.placeID == "" {
		c.logger.Error("missing places API key or place id")
		return nil, ErrMissingConfig
	}

	endpoint := c.endpoint()
	c.logger.Debug("calling places API", zap.String("endpoint", c.redact(endpoint)))

	var (
		body []byte
		err  error
	)
	if c.cache != nil {
		body, err = c.cache.Fetch(ctx, endpoint, c.placeID)
	} else {
		body, err = get(ctx, c.http, endpoint)
	}
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			c.logger.Error("places API error", zap.Int("status", apiErr.StatusCode), zap.String("body", apiErr.Body))
		}
		return nil, err
	}

	var parsed placeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode places response: %w", err)
	}
	if len(parsed.Reviews) == 0 {
		c.logger.Warn("no reviews in places response")
		return nil, ErrNoReviews
	}

	reviews := reshape(parsed.Reviews, c.now())
	c.logger.Info("fetched reviews", zap.Int("count", len(reviews)))
	return reviews, nil
}

func (c *Client) endpoint() string {
	params := url.Values{}
	params.Set("fields", reviewFields)
	params.Set("key", c.apiKey)
	return fmt.Sprintf("%s/v1/places/%s?%s", c.baseURL, url.PathEscape(c.placeID), params.Encode())
}

func (c *Client) redact(endpoint string) string {
	return strings.ReplaceAll(endpoint, url.QueryEscape(c.apiKey), "API_KEY_HIDDEN")
}

func get(ctx context.Context, client *http.Client, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp)
	}
	return io.ReadAll(resp.Body)
}

func newAPIError(resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	return &APIError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(body)}
}

func reshape(reviews []apiReview, now time.Time) []Review {
	out := make([]Review, 0, len(reviews))
	for idx, r := range reviews {
		id := r.Name
		if id == "" {
			id = strconv.Itoa(idx)
		}
		text := ""
		if r.Text != nil {
			text = r.Text.Text
		}
		if text == "" {
			text = "No review text available"
		}
		name := ""
		if r.AuthorAttribution != nil {
			name = r.AuthorAttribution.DisplayName
		}
		if name == "" {
			name = "Anonymous"
		}
		author := "- " + name
		if when := describePublished(r, now); when != "" {
			author += ", " + when
		}
		out = append(out, Review{
			ID:     "google-review-" + id,
			Stars:  int(math.Round(r.Rating)),
			Text:   `"` + text + `"`,
			Author: author,
		})
	}
	return out
}

func describePublished(r apiReview, now time.Time) string {
	if r.PublishTime != "" {
		if published, err := time.Parse(time.RFC3339, r.PublishTime); err == nil {
			return relativeTime(published, now)
		}
	}
	return r.RelativePublishTimeDescription
}

func relativeTime(published, now time.Time) string {
	days := int(math.Floor(now.Sub(published).Hours() / 24))
	switch {
	case days < 1:
		return "today"
	case days < 7:
		return ago(days, "day")
	case days < 30:
		return ago(days/7, "week")
	case days < 365:
		return ago(days/30, "month")
	default:
		return ago(days/365, "year")
	}
}

func ago(n int, unit string) string {
	if n > 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s ago", n, unit)
}
