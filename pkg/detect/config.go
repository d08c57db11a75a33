package detect

import (
	"log/slog"
	"net/http"
	"time"
)

// DefaultTimeout bounds the wait on one detection request. When it
// elapses the request is actively cancelled and classified as a timeout.
const DefaultTimeout = 10 * time.Second

// Config holds detection client configuration.
// Use functional options (WithXxx) to set these values.
type Config struct {
	// BaseURL is the detection endpoint, e.g. "http://localhost:5000/detect".
	BaseURL string

	// Timeout bounds each request.
	Timeout time.Duration

	// HTTPClient overrides the shared client (mainly for tests).
	HTTPClient *http.Client

	// Logger is the structured logger.
	Logger *slog.Logger
}

// Option is a functional option for configuring the client.
type Option func(*Config)

// WithBaseURL sets the detection endpoint URL.
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithTimeout sets the per-request bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Config) { c.HTTPClient = hc }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Timeout: DefaultTimeout,
		Logger:  slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrNoBaseURL
	}
	return nil
}
