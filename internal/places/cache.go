package places

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// CacheEnvVar overrides the cache directory.
	CacheEnvVar = "PARVATISLAP_CACHE_DIR"

	// DefaultCacheTTL matches the hour-scale cache hint of /api/reviews.
	DefaultCacheTTL = time.Hour

	cacheSubdir   = "parvatislap/reviews"
	partialSuffix = ".part"
	metaSuffix    = ".meta"
)

// CacheConfig wires a Cache.
type CacheConfig struct {
	Dir        string
	TTL        time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Cache keeps the last upstream reply on disk. Fresh copies are served
// without a request, stale ones are revalidated with ETag/Last-Modified, and
// a stale copy is still served when the upstream fails.
type Cache struct {
	dir    string
	ttl    time.Duration
	client *http.Client
	logger *zap.Logger
}

type cacheMeta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"lastModified"`
	CachedAt     time.Time `json:"cachedAt"`
	Size         int64     `json:"size"`
}

// NewCache prepares the cache directory. An empty Dir resolves to
// $PARVATISLAP_CACHE_DIR, then the user cache dir, then the temp dir.
func NewCache(cfg CacheConfig) (*Cache, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = os.Getenv(CacheEnvVar)
	}
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = filepath.Join(os.TempDir(), "parvatislap-cache")
		}
		dir = filepath.Join(base, cacheSubdir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{dir: dir, ttl: ttl, client: client, logger: logger}, nil
}

// Dir is the directory holding cached replies.
func (c *Cache) Dir() string { return c.dir }

// Fetch returns the body for endpoint, stored under key.
func (c *Cache) Fetch(ctx context.Context, endpoint, key string) ([]byte, error) {
	dataPath, metaPath, partialPath := c.pathsFor(cacheKey(key))

	if info, err := os.Stat(dataPath); err == nil && time.Since(info.ModTime()) < c.ttl && info.Size() > 0 {
		return os.ReadFile(dataPath)
	}

	meta, _ := readMeta(metaPath)
	info, _ := os.Stat(dataPath)
	body, err := c.download(ctx, endpoint, dataPath, metaPath, partialPath, meta, info)
	if err == nil {
		return body, nil
	}
	if info != nil && info.Size() > 0 {
		if stale, readErr := os.ReadFile(dataPath); readErr == nil {
			c.logger.Warn("serving stale reviews", zap.Error(err), zap.Time("cachedAt", meta.CachedAt))
			return stale, nil
		}
	}
	return nil, err
}

func (c *Cache) download(ctx context.Context, endpoint, dataPath, metaPath, partialPath string, meta cacheMeta, current os.FileInfo) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if current != nil && current.Size() > 0 {
		if meta.ETag != "" {
			req.Header.Set("If-None-Match", meta.ETag)
		}
		if meta.LastModified != "" {
			req.Header.Set("If-Modified-Since", meta.LastModified)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified:
		if current != nil && current.Size() > 0 {
			now := time.Now()
			_ = os.Chtimes(dataPath, now, now)
			meta.CachedAt = now.UTC()
			_ = writeMeta(metaPath, meta)
			return os.ReadFile(dataPath)
		}
		return c.download(ctx, endpoint, dataPath, metaPath, partialPath, cacheMeta{}, nil)
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return c.saveBody(resp, dataPath, metaPath, partialPath)
	default:
		return nil, newAPIError(resp)
	}
}

func (c *Cache) saveBody(resp *http.Response, dataPath, metaPath, partialPath string) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(partialPath, body, 0o644); err != nil {
		return nil, err
	}
	if err := os.Rename(partialPath, dataPath); err != nil {
		return nil, err
	}

	meta := cacheMeta{
		URL:          redactKey(resp.Request.URL),
		ETag:         resp.Header.Get("Etag"),
		LastModified: resp.Header.Get("Last-Modified"),
		CachedAt:     time.Now().UTC(),
		Size:         int64(len(body)),
	}
	if err := writeMeta(metaPath, meta); err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Cache) pathsFor(key string) (string, string, string) {
	return filepath.Join(c.dir, key+".json"), filepath.Join(c.dir, key+metaSuffix), filepath.Join(c.dir, key+partialSuffix)
}

func cacheKey(value string) string {
	if key := sanitizeKey(value); key != "" && len(key) <= 128 {
		return key
	}
	sum := sha1.Sum([]byte(value))
	return hex.EncodeToString(sum[:])
}

func sanitizeKey(value string) string {
	value = strings.TrimSpace(value)
	value = strings.ReplaceAll(value, "/", "-")
	value = strings.ReplaceAll(value, ":", "-")
	value = strings.ReplaceAll(value, "..", "-")
	return value
}

func redactKey(u *url.URL) string {
	if u == nil {
		return ""
	}
	clean := *u
	q := clean.Query()
	q.Del("key")
	clean.RawQuery = q.Encode()
	return clean.String()
}

func readMeta(path string) (cacheMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cacheMeta{}, err
	}
	var meta cacheMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return cacheMeta{}, err
	}
	return meta, nil
}

func writeMeta(path string, meta cacheMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
