package detect

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/echosight/echosight/internal/httpc"
	"github.com/echosight/echosight/pkg/frame"
)

// detectRequest is the wire format the detection endpoint accepts.
type detectRequest struct {
	Image     string `json:"image"`
	Timestamp int64  `json:"timestamp"`
}

// Client sends encoded frames to the remote detection endpoint.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a detection client.
// WithBaseURL is required; the default timeout is 10 seconds.
func NewClient(opts ...Option) (*Client, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = httpc.Client
	}

	return &Client{
		baseURL: cfg.BaseURL,
		timeout: cfg.Timeout,
		http:    hc,
		logger:  cfg.Logger.With("component", "detect.client"),
	}, nil
}

// Detect posts one frame and returns the ordered batch of detections.
// Failures come back as a *Error classified by kind; the batch is nil
// on any failure. There is no retry.
func (c *Client) Detect(ctx context.Context, payload *frame.Payload) (Batch, error) {
	body, err := json.Marshal(detectRequest{
		Image:     payload.DataURI,
		Timestamp: payload.CapturedAt.UnixMilli(),
	})
	if err != nil {
		return nil, &Error{Kind: KindTransport, Err: fmt.Errorf("encode request: %w", err)}
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: KindTransport, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			c.logger.Warn("request timed out", "timeout", c.timeout)
			return nil, &Error{Kind: KindTimeout, Err: err}
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &Error{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Kind: KindTransport,
			Err:  fmt.Errorf("endpoint returned %d", resp.StatusCode),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Err: fmt.Errorf("read body: %w", err)}
	}

	batch, err := decodeBatch(raw)
	if err != nil {
		return nil, &Error{Kind: KindFormat, Err: err}
	}

	c.logger.Debug("detection complete",
		"count", len(batch),
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return batch, nil
}

// decodeBatch parses the response body, requiring an ordered JSON array.
// Anything else (an object, null, plain text) is a format error.
func decodeBatch(raw []byte) (Batch, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.New("response body is not a sequence")
	}

	var batch Batch
	if err := json.Unmarshal(trimmed, &batch); err != nil {
		return nil, fmt.Errorf("decode detections: %w", err)
	}
	return batch, nil
}

// Verify Client implements Detector at compile time.
var _ Detector = (*Client)(nil)
