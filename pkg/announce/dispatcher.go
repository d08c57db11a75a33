package announce

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Dispatcher fans announcements through the fallback chain.
//
// Delivery is fire-and-forget: Announce returns immediately and never
// reports an error. Overlapping announcements run concurrently and may
// be delivered out of order; that is accepted for a feedback channel.
type Dispatcher struct {
	primary  Provider
	fallback Provider
	logger   *slog.Logger

	mu     sync.Mutex
	status VoiceStatus

	// OnStatus is invoked whenever the voice status projection changes.
	OnStatus func(VoiceStatus)
}

// NewDispatcher builds the dispatcher. Either provider may be nil;
// a nil tier is skipped.
func NewDispatcher(primary, fallback Provider, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		primary:  primary,
		fallback: fallback,
		logger:   logger.With("component", "announce.dispatcher"),
		status:   VoiceReady,
	}
}

// Announce queues one (subject, message) pair for speech and returns
// immediately. Duplicate announcements are allowed and expected.
func (d *Dispatcher) Announce(subject, message string) {
	go d.Dispatch(context.Background(), subject, message)
}

// Dispatch delivers one announcement synchronously: primary first, local
// fallback on failure. No error escapes; both tiers failing only flips
// the voice status to unavailable.
func (d *Dispatcher) Dispatch(ctx context.Context, subject, message string) {
	id := uuid.NewString()

	if d.primary != nil {
		if err := d.primary.Speak(ctx, subject, message); err == nil {
			d.setStatus(VoiceReady)
			d.logger.Debug("announced", "id", id, "provider", d.primary.Name(), "subject", subject)
			return
		} else {
			// Primary failures are swallowed; the fallback tier takes over.
			d.logger.Warn("primary voice failed, trying fallback", "id", id, "error", err)
		}
	}

	if d.fallback != nil {
		if err := d.fallback.Speak(ctx, subject, message); err == nil {
			d.setStatus(VoiceDegraded)
			d.logger.Info("fallback voice delivered", "id", id, "provider", d.fallback.Name())
			return
		} else {
			d.logger.Warn("fallback voice failed", "id", id, "error", err)
		}
	}

	d.setStatus(VoiceUnavailable)
	d.logger.Warn("announcement dropped, no voice available", "id", id, "subject", subject)
}

// Status returns the current voice status projection.
func (d *Dispatcher) Status() VoiceStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

// Close closes both providers.
func (d *Dispatcher) Close() error {
	var lastErr error
	if d.primary != nil {
		if err := d.primary.Close(); err != nil {
			lastErr = err
		}
	}
	if d.fallback != nil {
		if err := d.fallback.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (d *Dispatcher) setStatus(s VoiceStatus) {
	d.mu.Lock()
	changed := d.status != s
	d.status = s
	cb := d.OnStatus
	d.mu.Unlock()

	if changed && cb != nil {
		cb(s)
	}
}
