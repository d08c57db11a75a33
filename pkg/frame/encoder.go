// Package frame encodes camera frames into transportable JPEG payloads
// for the detection endpoint.
package frame

import (
	"encoding/base64"
	"errors"
	"image"
	"math"
	"time"

	"gocv.io/x/gocv"
)

// ErrNotReady is returned when the source reports zero dimensions.
// The tick that hits this is treated as a silent no-op, not a failure.
var ErrNotReady = errors.New("frame: source not ready")

// Defaults for frame encoding. Width above MaxWidth is scaled down
// proportionally before JPEG encoding.
const (
	DefaultMaxWidth = 640
	DefaultQuality  = 70
)

// Payload is one encoded still frame plus its capture timestamp.
type Payload struct {
	// DataURI is the frame as a data:image/jpeg;base64 URI.
	DataURI string

	// Width and Height are the encoded (possibly downscaled) dimensions.
	Width  int
	Height int

	// CapturedAt is when the frame was grabbed.
	CapturedAt time.Time
}

// Encoder serializes frames to JPEG data URIs, downscaling wide sources.
type Encoder struct {
	MaxWidth int
	Quality  int // JPEG quality 1-100
}

// NewEncoder returns an encoder with the default maximum width and quality.
func NewEncoder() *Encoder {
	return &Encoder{
		MaxWidth: DefaultMaxWidth,
		Quality:  DefaultQuality,
	}
}

// Encode renders mat into a JPEG payload stamped with now.
// Returns ErrNotReady when the source has zero dimensions.
// Encoding is synchronous; there is no retry.
func (e *Encoder) Encode(mat *gocv.Mat, now time.Time) (*Payload, error) {
	w, h := mat.Cols(), mat.Rows()
	if w == 0 || h == 0 {
		return nil, ErrNotReady
	}

	tw, th := targetSize(w, h, e.maxWidth())

	src := *mat
	var scaled gocv.Mat
	if tw != w {
		scaled = gocv.NewMat()
		defer scaled.Close()
		gocv.Resize(*mat, &scaled, image.Pt(tw, th), 0, 0, gocv.InterpolationArea)
		src = scaled
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, src,
		[]int{gocv.IMWriteJpegQuality, e.quality()})
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	return &Payload{
		DataURI:    "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.GetBytes()),
		Width:      tw,
		Height:     th,
		CapturedAt: now,
	}, nil
}

func (e *Encoder) maxWidth() int {
	if e.MaxWidth > 0 {
		return e.MaxWidth
	}
	return DefaultMaxWidth
}

func (e *Encoder) quality() int {
	if e.Quality >= 1 && e.Quality <= 100 {
		return e.Quality
	}
	return DefaultQuality
}

// targetSize scales (w, h) down so width fits max, preserving aspect ratio
// with rounded height. Sources at or below max pass through unchanged.
func targetSize(w, h, max int) (int, int) {
	if w <= max {
		return w, h
	}
	ratio := float64(max) / float64(w)
	return max, int(math.Round(float64(h) * ratio))
}
