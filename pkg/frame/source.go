package frame

import (
	"time"

	"github.com/echosight/echosight/pkg/camera"
)

// CameraSource couples a camera session with an encoder so the loop
// controller can capture encoded frames without knowing about OpenCV.
type CameraSource struct {
	session *camera.Session
	enc     *Encoder
}

// NewCameraSource wraps session with enc. A nil enc uses defaults.
func NewCameraSource(session *camera.Session, enc *Encoder) *CameraSource {
	if enc == nil {
		enc = NewEncoder()
	}
	return &CameraSource{session: session, enc: enc}
}

// Capture grabs one frame and encodes it, stamping the payload with now.
func (s *CameraSource) Capture(now time.Time) (*Payload, error) {
	mat, err := s.session.Grab()
	if err != nil {
		return nil, err
	}
	defer mat.Close()
	return s.enc.Encode(mat, now)
}

// Resolution returns the session's native resolution.
func (s *CameraSource) Resolution() (int, int) {
	return s.session.Resolution()
}

// Close releases the underlying camera session.
func (s *CameraSource) Close() error {
	return s.session.Close()
}
