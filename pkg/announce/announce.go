// Package announce delivers spoken feedback through a two-tier chain:
// a remote voice-synthesis endpoint first, then local speech synthesis.
//
// The dispatcher never surfaces errors to callers. A failed remote call
// falls through to the local engine; when both tiers are unavailable the
// announcement is dropped and only the voice status projection changes.
package announce

import "context"

// Provider is one delivery tier for spoken announcements.
type Provider interface {
	// Speak delivers one (subject, message) announcement.
	Speak(ctx context.Context, subject, message string) error

	// Name identifies the provider in logs and status.
	Name() string

	// Close releases any resources held by the provider.
	Close() error
}

// VoiceStatus is the externally observable health of the voice channel.
type VoiceStatus int

const (
	// VoiceReady means the primary tier is delivering announcements.
	VoiceReady VoiceStatus = iota

	// VoiceDegraded means the local fallback is in use.
	VoiceDegraded

	// VoiceUnavailable means both tiers failed; announcements are dropped.
	VoiceUnavailable
)

// String returns the status label.
func (s VoiceStatus) String() string {
	switch s {
	case VoiceReady:
		return "voice ready"
	case VoiceDegraded:
		return "voice degraded"
	default:
		return "voice unavailable"
	}
}
