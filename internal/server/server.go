// Package server exposes the reviews proxy over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/parvatislap/lapas/internal/places"
)

const (
	// DefaultCacheMaxAge is the CDN/browser cache window for a good reply.
	DefaultCacheMaxAge = time.Hour
	shutdownTimeout    = 5 * time.Second
	requestIDHeader    = "X-Request-Id"
)

// Config wires the handler.
type Config struct {
	Reviews     places.Source
	Logger      *zap.Logger
	CacheMaxAge time.Duration
}

// Handler serves /api/reviews and /healthz.
type Handler struct {
	reviews places.Source
	logger  *zap.Logger
	maxAge  time.Duration
	group   singleflight.Group
	mux     *http.ServeMux
}

type reviewsReply struct {
	Reviews []places.Review `json:"reviews"`
}

type errorReply struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// New returns a Handler.
func New(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxAge := cfg.CacheMaxAge
	if maxAge <= 0 {
		maxAge = DefaultCacheMaxAge
	}
	h := &Handler{reviews: cfg.Reviews, logger: logger, maxAge: maxAge}
	h.mux = http.NewServeMux()
	h.mux.HandleFunc("/api/reviews", h.handleReviews)
	h.mux.HandleFunc("/healthz", h.handleHealth)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := r.Header.Get(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set(requestIDHeader, id)

	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	h.mux.ServeHTTP(rec, r)

	h.logger.Info("request",
		zap.String("id", id),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", rec.status),
		zap.Duration("duration", time.Since(start)),
	)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (h *Handler) handleReviews(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeJSON(w, http.StatusMethodNotAllowed, errorReply{Error: "Method not allowed"})
		return
	}
	if h.reviews == nil {
		writeJSON(w, http.StatusInternalServerError, errorReply{Error: "API configuration missing"})
		return
	}

	v, err, shared := h.group.Do("reviews", func() (any, error) {
		return h.reviews.FetchReviews(context.WithoutCancel(r.Context()))
	})
	if shared {
		h.logger.Debug("shared upstream reviews call")
	}
	if err != nil {
		status, reply := classify(err)
		h.logger.Error("reviews request failed", zap.Int("status", status), zap.Error(err))
		writeJSON(w, status, reply)
		return
	}

	reviews, _ := v.([]places.Review)
	seconds := strconv.Itoa(int(h.maxAge.Seconds()))
	w.Header().Set("Cache-Control", "public, max-age="+seconds+", s-maxage="+seconds)
	writeJSON(w, http.StatusOK, reviewsReply{Reviews: reviews})
}

func classify(err error) (int, errorReply) {
	var apiErr *places.APIError
	switch {
	case errors.Is(err, places.ErrMissingConfig):
		return http.StatusInternalServerError, errorReply{Error: "API configuration missing"}
	case errors.As(err, &apiErr):
		status := apiErr.Status
		if status == "" {
			status = fmt.Sprintf("%d %s", apiErr.StatusCode, http.StatusText(apiErr.StatusCode))
		}
		return apiErr.StatusCode, errorReply{
			Error:   "Failed to fetch reviews from Google Places API: " + status,
			Details: apiErr.Body,
		}
	case errors.Is(err, places.ErrNoReviews):
		return http.StatusNotFound, errorReply{Error: "No reviews found"}
	default:
		return http.StatusInternalServerError, errorReply{Error: "Internal server error", Details: err.Error()}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Run serves handler on addr until ctx is cancelled, then shuts down.
func Run(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
