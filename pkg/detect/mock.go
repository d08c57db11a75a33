package detect

import (
	"context"
	"sync"
	"time"

	"github.com/echosight/echosight/pkg/frame"
)

// Mock implements Detector for testing.
// Behavior is customized via the DetectFunc field.
type Mock struct {
	// DetectFunc is called when Detect is invoked.
	// If nil, an empty batch is returned.
	DetectFunc func(ctx context.Context, payload *frame.Payload) (Batch, error)

	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a Detect invocation for verification.
type MockCall struct {
	Payload *frame.Payload
	Time    time.Time
}

// Detect calls DetectFunc and records the call.
func (m *Mock) Detect(ctx context.Context, payload *frame.Payload) (Batch, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Payload: payload, Time: time.Now()})
	m.mu.Unlock()

	if m.DetectFunc != nil {
		return m.DetectFunc(ctx, payload)
	}
	return Batch{}, nil
}

// Calls returns all recorded invocations.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many times Detect was invoked.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Reset clears recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Verify Mock implements Detector at compile time.
var _ Detector = (*Mock)(nil)
