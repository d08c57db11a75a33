package announce

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strconv"
)

// Local speech defaults, matching the remote voice configuration.
const (
	DefaultLang = "en"
	DefaultRate = 160 // words per minute
)

// Local delivers announcements through the host's speech engine,
// `say` on macOS and `espeak` elsewhere. Fire-and-forget: the engine's
// output is not consumed.
type Local struct {
	binary string
	lang   string
	rate   int
	logger *slog.Logger
}

// LocalOption configures a Local provider.
type LocalOption func(*Local)

// WithLang sets the espeak voice language. The macOS say engine keeps
// the system default voice; this option has no effect there.
func WithLang(lang string) LocalOption {
	return func(l *Local) { l.lang = lang }
}

// WithRate sets the speech rate in words per minute.
func WithRate(rate int) LocalOption {
	return func(l *Local) { l.rate = rate }
}

// WithLocalLogger sets the structured logger.
func WithLocalLogger(lg *slog.Logger) LocalOption {
	return func(l *Local) { l.logger = lg.With("component", "announce.local") }
}

// NewLocal creates the local speech fallback provider.
func NewLocal(opts ...LocalOption) *Local {
	binary := "espeak"
	if runtime.GOOS == "darwin" {
		binary = "say"
	}

	l := &Local{
		binary: binary,
		lang:   DefaultLang,
		rate:   DefaultRate,
		logger: slog.Default().With("component", "announce.local"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Available reports whether the speech engine exists on this host.
func (l *Local) Available() bool {
	_, err := exec.LookPath(l.binary)
	return err == nil
}

// Speak runs the speech engine with the message text.
func (l *Local) Speak(ctx context.Context, subject, message string) error {
	if !l.Available() {
		return fmt.Errorf("announce: %s not found on PATH", l.binary)
	}

	text := message
	if subject != "" {
		text = subject + ". " + message
	}

	cmd := exec.CommandContext(ctx, l.binary, l.args(text)...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("announce: %s: %w", l.binary, err)
	}
	return nil
}

// args builds the engine invocation. say takes a voice name, not a
// language code, so only the rate is passed there; espeak gets both
// the language and the rate.
func (l *Local) args(text string) []string {
	if l.binary == "say" {
		return []string{"-r", strconv.Itoa(l.rate), text}
	}
	return []string{"-v", l.lang, "-s", strconv.Itoa(l.rate), text}
}

// Name identifies the provider.
func (l *Local) Name() string { return "local" }

// Close is a no-op; the engine is invoked per call.
func (l *Local) Close() error { return nil }

// Verify Local implements Provider at compile time.
var _ Provider = (*Local)(nil)
