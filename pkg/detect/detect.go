// Package detect sends encoded frames to the remote object-detection
// endpoint and classifies the outcome of each request.
//
// Every tick is independent: a failed request is reported and dropped,
// never retried. The caller continues on its regular schedule.
package detect

import (
	"context"

	"github.com/echosight/echosight/pkg/frame"
)

// Detection is one recognized object in a detector response.
// Immutable once received.
type Detection struct {
	// Object is the recognized label, e.g. "person" or "cup".
	Object string `json:"object"`

	// Location is one of the nine grid zones, or free text.
	Location string `json:"location"`

	// Confidence is the detector's confidence in [0,1], if reported.
	Confidence *float64 `json:"confidence,omitempty"`
}

// Batch is the ordered sequence of detections produced by one tick.
// An empty batch is valid and means "nothing found".
type Batch []Detection

// Detector is the interface the loop controller consumes.
// Client is the production implementation; Mock serves tests.
type Detector interface {
	Detect(ctx context.Context, payload *frame.Payload) (Batch, error)
}

// The nine grid zones used to describe object locations on screen.
const (
	ZoneTopLeft      = "top left"
	ZoneTopCenter    = "top center"
	ZoneTopRight     = "top right"
	ZoneMiddleLeft   = "middle left"
	ZoneCenter       = "center"
	ZoneMiddleRight  = "middle right"
	ZoneBottomLeft   = "bottom left"
	ZoneBottomCenter = "bottom center"
	ZoneBottomRight  = "bottom right"
)

var zones = [3][3]string{
	{ZoneTopLeft, ZoneTopCenter, ZoneTopRight},
	{ZoneMiddleLeft, ZoneCenter, ZoneMiddleRight},
	{ZoneBottomLeft, ZoneBottomCenter, ZoneBottomRight},
}

// ZoneFor maps a point in a width x height frame onto its grid zone.
// Out-of-range points are clamped to the nearest cell.
func ZoneFor(x, y, width, height int) string {
	if width <= 0 || height <= 0 {
		return ZoneCenter
	}
	col := clampCell(x * 3 / width)
	row := clampCell(y * 3 / height)
	return zones[row][col]
}

func clampCell(n int) int {
	if n < 0 {
		return 0
	}
	if n > 2 {
		return 2
	}
	return n
}
