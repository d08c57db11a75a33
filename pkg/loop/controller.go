package loop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/echosight/echosight/pkg/aggregate"
	"github.com/echosight/echosight/pkg/camera"
	"github.com/echosight/echosight/pkg/detect"
	"github.com/echosight/echosight/pkg/frame"
)

// User-visible command rejections.
var (
	// ErrNoCamera rejects start when no camera session exists.
	ErrNoCamera = errors.New("start the camera first")

	// ErrNotDetecting rejects pause outside Detecting/Paused.
	ErrNotDetecting = errors.New("start detection first")
)

// Source produces encoded frames for detection ticks.
// frame.CameraSource is the production implementation.
type Source interface {
	Capture(now time.Time) (*frame.Payload, error)
	Resolution() (int, int)
	Close() error
}

// Acquirer obtains a camera-backed Source. Acquisition failures should be
// *camera.AcquireError so the cause-specific message can be announced.
type Acquirer func(ctx context.Context) (Source, error)

// Announcer is the speech side effect surface; satisfied by
// *announce.Dispatcher.
type Announcer interface {
	Announce(subject, message string)
}

// Config holds the loop schedule.
type Config struct {
	// TickPeriod is the fixed capture period.
	TickPeriod time.Duration

	// WarmupDelay is how long after start the first tick fires,
	// instead of waiting a full period.
	WarmupDelay time.Duration

	// RefreshDelay is the wait before a scheduled refresh runs.
	RefreshDelay time.Duration

	// Logger is the structured logger.
	Logger *slog.Logger
}

// DefaultConfig returns the production schedule: 2 s period,
// 500 ms warm-up, 1.5 s refresh delay.
func DefaultConfig() Config {
	return Config{
		TickPeriod:   2 * time.Second,
		WarmupDelay:  500 * time.Millisecond,
		RefreshDelay: 1500 * time.Millisecond,
	}
}

// Controller is the state machine orchestrating camera acquisition,
// scheduled capture ticks, pause/resume, and teardown.
//
// Commands may arrive concurrently from HTTP handlers; all lifecycle
// fields are guarded by one mutex and mutated only here.
type Controller struct {
	cfg       Config
	acquire   Acquirer
	detector  detect.Detector
	announcer Announcer
	logger    *slog.Logger

	mu     sync.Mutex
	state  State
	source Source

	// Tick bookkeeping. gen counts schedules: stopping the schedule
	// bumps it, so a result from a cancelled schedule can never pass the
	// discard checks of a later one. seq tags each issued tick within a
	// schedule; a result at or below lastApplied is stale.
	gen         uint64
	seq         uint64
	lastApplied uint64
	inFlight    bool
	ticks       uint64
	errs        uint64

	ticker    *time.Ticker
	done      chan struct{}
	warmTimer *time.Timer

	sysStatus   Status
	camStatus   Status
	lastSummary aggregate.Summary

	// OnStatus observes the system and camera status projections.
	OnStatus func(system, camera Status)

	// OnEvent feeds the visible running event list.
	OnEvent func(tier Tier, message string)

	// OnRefresh performs the host-environment reload.
	OnRefresh func()
}

// New creates a Controller in the Idle state.
func New(acquire Acquirer, detector detect.Detector, announcer Announcer, cfg Config) *Controller {
	if cfg.TickPeriod <= 0 {
		cfg.TickPeriod = DefaultConfig().TickPeriod
	}
	if cfg.WarmupDelay <= 0 {
		cfg.WarmupDelay = DefaultConfig().WarmupDelay
	}
	if cfg.RefreshDelay <= 0 {
		cfg.RefreshDelay = DefaultConfig().RefreshDelay
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Controller{
		cfg:       cfg,
		acquire:   acquire,
		detector:  detector,
		announcer: announcer,
		logger:    cfg.Logger.With("component", "loop.controller"),
		state:     StateIdle,
		sysStatus: Status{Label: "idle", Tier: TierInfo},
		camStatus: Status{Label: "no camera", Tier: TierWarn},
	}
}

// State returns the current loop state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns the externally visible view of the controller.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:       c.state,
		StateLabel:  c.state.String(),
		System:      c.sysStatus,
		Camera:      c.camStatus,
		Ticks:       c.ticks,
		Errors:      c.errs,
		LastTotal:   c.lastSummary.Total,
		Description: c.lastSummary.Description(),
	}
}

// AcquireCamera obtains the camera session: Idle -> Acquiring -> Ready,
// or -> CameraError on failure. Acquisition errors are terminal and
// announced; there is no automatic retry.
func (c *Controller) AcquireCamera(ctx context.Context) error {
	c.mu.Lock()
	if c.source != nil {
		c.mu.Unlock()
		c.logger.Info("camera already acquired")
		return nil
	}
	c.state = StateAcquiring
	c.sysStatus = Status{Label: "requesting camera", Tier: TierInfo}
	c.mu.Unlock()
	c.notifyStatus()

	src, err := c.acquire(ctx)
	if err != nil {
		msg := "The camera could not be started."
		var ae *camera.AcquireError
		if errors.As(err, &ae) {
			msg = ae.UserMessage()
		}

		c.mu.Lock()
		c.state = StateCameraError
		c.sysStatus = Status{Label: msg, Tier: TierError}
		c.camStatus = Status{Label: "camera error", Tier: TierError}
		c.mu.Unlock()

		c.notifyStatus()
		c.emit(TierError, msg)
		c.announcer.Announce("camera", msg)
		c.logger.Error("camera acquisition failed", "error", err)
		return err
	}

	w, h := src.Resolution()

	c.mu.Lock()
	c.source = src
	c.state = StateReady
	c.sysStatus = Status{Label: "camera ready", Tier: TierInfo}
	c.camStatus = Status{Label: fmt.Sprintf("camera on %dx%d", w, h), Tier: TierActive}
	c.mu.Unlock()

	c.notifyStatus()
	c.emit(TierInfo, "camera ready")
	c.announcer.Announce("camera", "Camera is ready.")
	c.logger.Info("camera acquired", "width", w, "height", h)
	return nil
}

// Start begins detection: Ready/Stopped -> Detecting. The first tick fires
// after the warm-up delay, then the fixed-period schedule takes over.
// Starting while already Detecting is an idempotent no-op; starting while
// Paused resumes; starting with no camera session is rejected.
func (c *Controller) Start() error {
	c.mu.Lock()
	if c.source == nil {
		c.mu.Unlock()
		return ErrNoCamera
	}

	switch c.state {
	case StateDetecting:
		c.mu.Unlock()
		c.logger.Info("start ignored, already detecting")
		return nil
	case StatePaused:
		c.state = StateDetecting
		c.sysStatus = Status{Label: "scanning", Tier: TierActive}
		c.mu.Unlock()
		c.notifyStatus()
		c.emit(TierInfo, "detection resumed")
		c.announcer.Announce("detection", "Detection resumed.")
		return nil
	}

	c.state = StateDetecting
	c.sysStatus = Status{Label: "scanning", Tier: TierActive}
	c.done = make(chan struct{})
	c.ticker = time.NewTicker(c.cfg.TickPeriod)
	c.warmTimer = time.AfterFunc(c.cfg.WarmupDelay, c.tick)

	ticker, done := c.ticker, c.done
	c.mu.Unlock()

	go func() {
		for {
			select {
			case <-ticker.C:
				c.tick()
			case <-done:
				return
			}
		}
	}()

	c.notifyStatus()
	c.emit(TierInfo, "detection started")
	c.announcer.Announce("detection", "Object detection started.")
	c.logger.Info("detection started", "period", c.cfg.TickPeriod, "warmup", c.cfg.WarmupDelay)
	return nil
}

// Pause toggles Detecting <-> Paused. While Paused the schedule keeps
// firing but ticks are dropped. Rejected outside Detecting/Paused.
func (c *Controller) Pause() error {
	c.mu.Lock()
	switch c.state {
	case StateDetecting:
		c.state = StatePaused
		c.sysStatus = Status{Label: "paused", Tier: TierWarn}
		c.mu.Unlock()
		c.notifyStatus()
		c.emit(TierInfo, "detection paused")
		c.announcer.Announce("detection", "Detection paused.")
		return nil
	case StatePaused:
		c.state = StateDetecting
		c.sysStatus = Status{Label: "scanning", Tier: TierActive}
		c.mu.Unlock()
		c.notifyStatus()
		c.emit(TierInfo, "detection resumed")
		c.announcer.Announce("detection", "Detection resumed.")
		return nil
	default:
		c.mu.Unlock()
		return ErrNotDetecting
	}
}

// Stop cancels the schedule and clears counters: Detecting/Paused ->
// Stopped. The camera session is kept. Stopping an idle loop is a no-op.
func (c *Controller) Stop() error {
	c.mu.Lock()
	if c.state != StateDetecting && c.state != StatePaused {
		c.mu.Unlock()
		c.logger.Info("stop ignored", "state", c.state.String())
		return nil
	}
	c.stopScheduleLocked()
	c.state = StateStopped
	c.sysStatus = Status{Label: "stopped", Tier: TierInfo}
	c.mu.Unlock()

	c.notifyStatus()
	c.emit(TierInfo, "detection stopped")
	c.announcer.Announce("detection", "Detection stopped.")
	return nil
}

// StopCamera releases the camera entirely: the loop is forced to Stopped
// first, then all tracks stop, the session is discarded, and the state
// returns to Idle. Allowed from any state.
func (c *Controller) StopCamera() error {
	c.mu.Lock()
	if c.state == StateDetecting || c.state == StatePaused {
		c.stopScheduleLocked()
		c.state = StateStopped
	}

	src := c.source
	c.source = nil
	c.state = StateIdle
	c.sysStatus = Status{Label: "idle", Tier: TierInfo}
	c.camStatus = Status{Label: "no camera", Tier: TierWarn}
	c.mu.Unlock()

	var err error
	if src != nil {
		err = src.Close()
		c.emit(TierInfo, "camera released")
		c.announcer.Announce("camera", "Camera stopped.")
	}
	c.notifyStatus()
	return err
}

// Refresh schedules a full reload of the host environment after a short
// delay. Always allowed, regardless of state.
func (c *Controller) Refresh() {
	c.emit(TierInfo, "refresh scheduled")
	c.logger.Info("refresh scheduled", "delay", c.cfg.RefreshDelay)
	time.AfterFunc(c.cfg.RefreshDelay, func() {
		if c.OnRefresh != nil {
			c.OnRefresh()
		}
	})
}

// TogglePlayback maps the single-click surface onto the loop: pause or
// resume while running, start when the camera is ready.
func (c *Controller) TogglePlayback() error {
	switch c.State() {
	case StateDetecting, StatePaused:
		return c.Pause()
	default:
		return c.Start()
	}
}

// stopScheduleLocked cancels the timers and clears tick counters.
// Bumping gen invalidates any still-outstanding tick: its result will
// carry the old generation and be discarded on arrival, even if the
// schedule is restarted before it resolves. Caller holds c.mu.
func (c *Controller) stopScheduleLocked() {
	if c.warmTimer != nil {
		c.warmTimer.Stop()
		c.warmTimer = nil
	}
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
	if c.done != nil {
		close(c.done)
		c.done = nil
	}
	c.gen++
	c.inFlight = false
	c.ticks = 0
	c.errs = 0
	c.seq = 0
	c.lastApplied = 0
}

// tick runs one capture/detect/announce cycle. At most one tick is in
// flight: the schedule skips a beat instead of building a backlog.
func (c *Controller) tick() {
	c.mu.Lock()
	if c.state != StateDetecting {
		// Paused (or already stopped): the timer fired but no work happens.
		c.mu.Unlock()
		return
	}
	if c.inFlight {
		c.mu.Unlock()
		c.logger.Warn("tick skipped, previous request still in flight")
		c.emit(TierWarn, "tick skipped: previous request still in flight")
		return
	}
	c.seq++
	gen, seq := c.gen, c.seq
	c.inFlight = true
	c.ticks++
	src := c.source
	c.mu.Unlock()

	payload, err := src.Capture(time.Now())
	if err != nil {
		c.mu.Lock()
		if gen == c.gen {
			c.inFlight = false
		}
		c.mu.Unlock()
		if errors.Is(err, frame.ErrNotReady) {
			// Source reported zero dimensions: silent no-op for this tick.
			c.logger.Debug("tick skipped, source not ready", "seq", seq)
			return
		}
		c.logger.Warn("frame capture failed", "seq", seq, "error", err)
		c.emit(TierWarn, "frame capture failed")
		return
	}

	batch, err := c.detector.Detect(context.Background(), payload)
	c.resolve(gen, seq, batch, err)
}

// resolve applies one tick's result. Failures are local: logged and
// surfaced as a status, never fatal to the loop.
func (c *Controller) resolve(gen, seq uint64, batch detect.Batch, err error) {
	c.mu.Lock()

	// A result from a cancelled schedule is discarded before any side
	// effects, even when detection has since been restarted. Its
	// counters belong to the dead generation and are left alone.
	if gen != c.gen {
		c.mu.Unlock()
		c.logger.Debug("tick result discarded, schedule cancelled", "seq", seq)
		return
	}
	c.inFlight = false

	// A result landing after stop or camera teardown is discarded;
	// Stopped and Idle imply no outstanding tick side effects.
	if c.state == StateStopped || c.state == StateIdle || c.state == StateCameraError {
		c.mu.Unlock()
		c.logger.Debug("tick result discarded after stop", "seq", seq)
		return
	}

	// Out-of-order protection: never let a slow tick overwrite newer state.
	if seq <= c.lastApplied {
		c.mu.Unlock()
		c.logger.Debug("stale tick result discarded", "seq", seq)
		c.emit(TierWarn, "stale detection result discarded")
		return
	}
	c.lastApplied = seq

	if err != nil {
		c.errs++
		kind := detect.KindOf(err)
		c.sysStatus = Status{Label: kind.String(), Tier: TierWarn}
		c.mu.Unlock()

		c.notifyStatus()
		c.emit(TierWarn, kind.String())
		c.logger.Warn("detection tick failed", "seq", seq, "kind", kind.String(), "error", err)
		return
	}

	summary := aggregate.Summarize(batch)
	c.lastSummary = summary
	if summary.Empty() {
		c.sysStatus = Status{Label: "scanning", Tier: TierActive}
	} else {
		c.sysStatus = Status{Label: fmt.Sprintf("%d objects detected", summary.Total), Tier: TierActive}
	}
	latest := summary.Latest
	c.mu.Unlock()

	c.notifyStatus()
	if summary.Empty() {
		c.logger.Debug("tick complete, nothing found", "seq", seq)
		return
	}

	sentence := aggregate.Sentence(batch)
	c.emit(TierInfo, sentence)
	c.announcer.Announce(latest.Object, sentence)
	c.logger.Info("tick complete", "seq", seq, "total", summary.Total)
}

// notifyStatus projects the current statuses to the observer.
func (c *Controller) notifyStatus() {
	c.mu.Lock()
	cb := c.OnStatus
	sys, cam := c.sysStatus, c.camStatus
	c.mu.Unlock()
	if cb != nil {
		cb(sys, cam)
	}
}

// emit feeds the visible event list.
func (c *Controller) emit(tier Tier, message string) {
	c.mu.Lock()
	cb := c.OnEvent
	c.mu.Unlock()
	if cb != nil {
		cb(tier, message)
	}
}
