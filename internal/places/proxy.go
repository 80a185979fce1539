package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ProxySource reads reviews from a running /api/reviews endpoint instead of
// calling the Places API directly, so the API key stays on the server.
type ProxySource struct {
	URL        string
	HTTPClient *http.Client
}

type proxyReply struct {
	Reviews []Review `json:"reviews"`
	Error   string   `json:"error"`
	Details string   `json:"details"`
}

// FetchReviews implements Source.
func (p ProxySource) FetchReviews(ctx context.Context) ([]Review, error) {
	client := p.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSpace(p.URL), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var reply proxyReply
	if err := json.Unmarshal(body, &reply); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("failed to fetch reviews: %s", resp.Status)
		}
		return nil, fmt.Errorf("failed to decode reviews reply: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if reply.Error != "" {
			return nil, errors.New(reply.Error)
		}
		return nil, fmt.Errorf("failed to fetch reviews: %s", resp.Status)
	}
	if len(reply.Reviews) == 0 {
		return nil, ErrNoReviews
	}
	return reply.Reviews, nil
}
