package announce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/echosight/echosight/internal/httpc"
)

// DefaultRemoteTimeout bounds one remote voice call. The voice channel is
// best-effort, so the bound is short.
const DefaultRemoteTimeout = 5 * time.Second

// speakRequest is the wire format of the remote voice endpoint:
// subject in the object field, message text in the location field.
type speakRequest struct {
	Object   string `json:"object"`
	Location string `json:"location"`
}

// Remote delivers announcements through the remote voice endpoint.
type Remote struct {
	url     string
	timeout time.Duration
	http    *http.Client
	logger  *slog.Logger
}

// RemoteOption configures a Remote provider.
type RemoteOption func(*Remote)

// WithRemoteTimeout sets the per-call bound.
func WithRemoteTimeout(d time.Duration) RemoteOption {
	return func(r *Remote) { r.timeout = d }
}

// WithRemoteHTTPClient overrides the HTTP client (mainly for tests).
func WithRemoteHTTPClient(hc *http.Client) RemoteOption {
	return func(r *Remote) { r.http = hc }
}

// WithRemoteLogger sets the structured logger.
func WithRemoteLogger(l *slog.Logger) RemoteOption {
	return func(r *Remote) { r.logger = l.With("component", "announce.remote") }
}

// NewRemote creates the remote voice provider for the given endpoint URL.
func NewRemote(url string, opts ...RemoteOption) *Remote {
	r := &Remote{
		url:     url,
		timeout: DefaultRemoteTimeout,
		http:    httpc.Client,
		logger:  slog.Default().With("component", "announce.remote"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Speak posts the announcement to the voice endpoint.
// The response body is not consumed; only the status matters.
func (r *Remote) Speak(ctx context.Context, subject, message string) error {
	body, err := json.Marshal(speakRequest{Object: subject, Location: message})
	if err != nil {
		return fmt.Errorf("announce: encode request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return fmt.Errorf("announce: voice endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("announce: voice endpoint returned %d", resp.StatusCode)
	}
	return nil
}

// Name identifies the provider.
func (r *Remote) Name() string { return "remote" }

// Close releases idle connections.
func (r *Remote) Close() error {
	r.http.CloseIdleConnections()
	return nil
}

// Verify Remote implements Provider at compile time.
var _ Provider = (*Remote)(nil)
