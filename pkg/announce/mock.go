package announce

import (
	"context"
	"sync"
	"time"
)

// Mock implements Provider for testing.
// Behavior is customized via the SpeakFunc field.
type Mock struct {
	// SpeakFunc is called when Speak is invoked.
	// If nil, Speak succeeds.
	SpeakFunc func(ctx context.Context, subject, message string) error

	// MockName overrides the provider name (default "mock").
	MockName string

	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a Speak invocation for verification.
type MockCall struct {
	Subject string
	Message string
	Time    time.Time
}

// Speak calls SpeakFunc and records the call.
func (m *Mock) Speak(ctx context.Context, subject, message string) error {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Subject: subject, Message: message, Time: time.Now()})
	m.mu.Unlock()

	if m.SpeakFunc != nil {
		return m.SpeakFunc(ctx, subject, message)
	}
	return nil
}

// Name identifies the provider.
func (m *Mock) Name() string {
	if m.MockName != "" {
		return m.MockName
	}
	return "mock"
}

// Close is a no-op.
func (m *Mock) Close() error { return nil }

// Calls returns all recorded invocations.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many times Speak was invoked.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Verify Mock implements Provider at compile time.
var _ Provider = (*Mock)(nil)
