// Package config loads parvatislap settings from YAML and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all parvatislap settings.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Places    PlacesConfig    `yaml:"places"`
	Cache     CacheConfig     `yaml:"cache"`
	Gallery   GalleryConfig   `yaml:"gallery"`
	Carousel  CarouselConfig  `yaml:"carousel"`
	Enquiries EnquiriesConfig `yaml:"enquiries"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig configures `parvatislap serve`.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	CacheMaxAge string `yaml:"cache_max_age"`
}

// PlacesConfig configures the Places API client.
type PlacesConfig struct {
	APIKey  string `yaml:"api_key"`
	PlaceID string `yaml:"place_id"`
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
	// ProxyURL points browse at a running /api/reviews instead of the API.
	ProxyURL string `yaml:"proxy_url"`
}

// CacheConfig configures the on-disk reviews cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
	TTL     string `yaml:"ttl"`
}

// GalleryConfig tunes the auto-scrolling strips.
type GalleryConfig struct {
	Speed         float64 `yaml:"speed"`          // cells per frame
	FallbackPitch float64 `yaml:"fallback_pitch"` // used until a card is measured
	FrameInterval string  `yaml:"frame_interval"`
	ResumeDelay   string  `yaml:"resume_delay"`
}

// CarouselConfig tunes the modal carousel.
type CarouselConfig struct {
	Interval    string `yaml:"interval"`
	ResumeDelay string `yaml:"resume_delay"`
}

// EnquiriesConfig controls the local log of contact enquiries.
type EnquiriesConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        ":8080",
			CacheMaxAge: "1h",
		},
		Places: PlacesConfig{
			BaseURL: "https://places.googleapis.com",
			Timeout: "10s",
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     "1h",
		},
		Gallery: GalleryConfig{
			Speed:         0.6,
			FallbackPitch: 424,
			FrameInterval: "16ms",
			ResumeDelay:   "3s",
		},
		Carousel: CarouselConfig{
			Interval:    "2500ms",
			ResumeDelay: "5s",
		},
		Enquiries: EnquiriesConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
// Environment overrides apply last.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	// The NEXT_PUBLIC_ names are accepted for deployments that still export them.
	for _, name := range []string{"NEXT_PUBLIC_GOOGLE_PLACES_API_KEY", "GOOGLE_PLACES_API_KEY"} {
		if v := os.Getenv(name); v != "" {
			c.Places.APIKey = v
		}
	}
	for _, name := range []string{"NEXT_PUBLIC_GOOGLE_PLACE_ID", "GOOGLE_PLACE_ID"} {
		if v := os.Getenv(name); v != "" {
			c.Places.PlaceID = v
		}
	}
	if dir := os.Getenv("PARVATISLAP_CACHE_DIR"); dir != "" {
		c.Cache.Dir = dir
	}
	if addr := os.Getenv("PARVATISLAP_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	if c.Gallery.Speed <= 0 {
		return fmt.Errorf("gallery speed must be positive, got %v", c.Gallery.Speed)
	}
	if c.Gallery.FallbackPitch <= 0 {
		return fmt.Errorf("gallery fallback pitch must be positive, got %v", c.Gallery.FallbackPitch)
	}
	durations := []struct {
		name  string
		value string
	}{
		{"server.cache_max_age", c.Server.CacheMaxAge},
		{"places.timeout", c.Places.Timeout},
		{"cache.ttl", c.Cache.TTL},
		{"gallery.frame_interval", c.Gallery.FrameInterval},
		{"gallery.resume_delay", c.Gallery.ResumeDelay},
		{"carousel.interval", c.Carousel.Interval},
		{"carousel.resume_delay", c.Carousel.ResumeDelay},
	}
	for _, d := range durations {
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", d.name, d.value, err)
		}
		if parsed <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.name, d.value)
		}
	}
	return nil
}

// HasCredentials reports whether the Places API can be called directly.
func (c *Config) HasCredentials() bool {
	return c.Places.APIKey != "" && c.Places.PlaceID != ""
}

// CacheMaxAge returns server.cache_max_age as a duration.
func (c *Config) CacheMaxAge() time.Duration { return parse(c.Server.CacheMaxAge, time.Hour) }

// PlacesTimeout returns places.timeout as a duration.
func (c *Config) PlacesTimeout() time.Duration { return parse(c.Places.Timeout, 10*time.Second) }

// CacheTTL returns cache.ttl as a duration.
func (c *Config) CacheTTL() time.Duration { return parse(c.Cache.TTL, time.Hour) }

// FrameInterval returns gallery.frame_interval as a duration.
func (c *Config) FrameInterval() time.Duration {
	return parse(c.Gallery.FrameInterval, time.Second/60)
}

// StripResume returns gallery.resume_delay as a duration.
func (c *Config) StripResume() time.Duration { return parse(c.Gallery.ResumeDelay, 3*time.Second) }

// SlideInterval returns carousel.interval as a duration.
func (c *Config) SlideInterval() time.Duration {
	return parse(c.Carousel.Interval, 2500*time.Millisecond)
}

// SlideResume returns carousel.resume_delay as a duration.
func (c *Config) SlideResume() time.Duration { return parse(c.Carousel.ResumeDelay, 5*time.Second) }

func parse(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
