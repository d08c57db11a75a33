// Package camera provides camera acquisition and frame capture using GoCV (OpenCV).
//
// A Session wraps a live capture device. The loop controller owns at most one
// Session at a time; Close releases the device and stops all tracks.
package camera

import (
	"errors"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// ErrSessionClosed is returned when grabbing from a released session.
var ErrSessionClosed = errors.New("camera: session closed")

// ErrEmptyFrame is returned when the device delivers an empty frame.
var ErrEmptyFrame = errors.New("camera: empty frame")

// Config holds camera acquisition hints.
// Width, Height and Framerate are requests, not guarantees; the device
// reports its native resolution after opening.
type Config struct {
	DeviceID  int
	Width     int
	Height    int
	Framerate int
}

// DefaultConfig returns the recommended acquisition hints: 640x480 at 15 fps.
// Low resolution keeps per-tick JPEG payloads small.
func DefaultConfig() Config {
	return Config{
		DeviceID:  0,
		Width:     640,
		Height:    480,
		Framerate: 15,
	}
}

// Validate checks the config values, returning a list of problems or nil.
func (c *Config) Validate() []string {
	var problems []string
	if c.DeviceID < 0 {
		problems = append(problems, "device_id must be >= 0")
	}
	if c.Width < 160 || c.Width > 4096 {
		problems = append(problems, "width must be between 160 and 4096")
	}
	if c.Height < 120 || c.Height > 2160 {
		problems = append(problems, "height must be between 120 and 2160")
	}
	if c.Framerate < 1 || c.Framerate > 120 {
		problems = append(problems, "framerate must be between 1 and 120")
	}
	return problems
}

// Session is an acquired camera handle with its native resolution
// and acquisition timestamp.
type Session struct {
	mu         sync.Mutex
	cap        *gocv.VideoCapture
	deviceID   int
	width      int
	height     int
	acquiredAt time.Time
	open       bool
}

// Acquire opens the camera described by cfg and returns a live Session.
// Failures are classified into an *AcquireError with a distinct
// user-facing message per cause.
func Acquire(cfg Config) (*Session, error) {
	if problems := cfg.Validate(); len(problems) > 0 {
		return nil, &AcquireError{Cause: CauseOther, Err: errors.New(problems[0])}
	}

	cap, err := gocv.OpenVideoCapture(cfg.DeviceID)
	if err != nil {
		return nil, &AcquireError{Cause: classify(err), Err: err}
	}
	if !cap.IsOpened() {
		cap.Close()
		return nil, &AcquireError{Cause: CauseMissing, Err: errors.New("device not opened")}
	}

	// Resolution and frame-rate hints; the device may ignore them.
	cap.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	cap.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	cap.Set(gocv.VideoCaptureFPS, float64(cfg.Framerate))

	return &Session{
		cap:        cap,
		deviceID:   cfg.DeviceID,
		width:      int(cap.Get(gocv.VideoCaptureFrameWidth)),
		height:     int(cap.Get(gocv.VideoCaptureFrameHeight)),
		acquiredAt: time.Now(),
		open:       true,
	}, nil
}

// Grab reads a single frame from the device.
// The caller is responsible for closing the returned Mat.
func (s *Session) Grab() (*gocv.Mat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open || s.cap == nil {
		return nil, ErrSessionClosed
	}

	mat := gocv.NewMat()
	if ok := s.cap.Read(&mat); !ok {
		mat.Close()
		return nil, ErrEmptyFrame
	}
	if mat.Empty() {
		mat.Close()
		return nil, ErrEmptyFrame
	}
	return &mat, nil
}

// Resolution returns the native resolution reported by the device.
func (s *Session) Resolution() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// AcquiredAt returns when the session was acquired.
func (s *Session) AcquiredAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acquiredAt
}

// IsOpen reports whether the session still holds the device.
func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Close stops all tracks and releases the device handle.
// Closing an already-closed session is a no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open || s.cap == nil {
		s.open = false
		return nil
	}
	err := s.cap.Close()
	s.cap = nil
	s.open = false
	return err
}
