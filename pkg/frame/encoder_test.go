package frame

import "testing"

func TestTargetSize(t *testing.T) {
	cases := []struct {
		name         string
		w, h, max    int
		wantW, wantH int
	}{
		{"wider than max scales down", 1280, 720, 640, 640, 360},
		{"rounding is applied to height", 1000, 333, 640, 640, 213},
		{"at max passes through", 640, 480, 640, 640, 480},
		{"narrower passes through", 320, 240, 640, 320, 240},
		{"portrait source keeps ratio", 1920, 2560, 640, 640, 853},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotW, gotH := targetSize(tc.w, tc.h, tc.max)
			if gotW != tc.wantW || gotH != tc.wantH {
				t.Errorf("targetSize(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tc.w, tc.h, tc.max, gotW, gotH, tc.wantW, tc.wantH)
			}
		})
	}
}

func TestEncoderDefaults(t *testing.T) {
	t.Run("zero values fall back to defaults", func(t *testing.T) {
		e := &Encoder{}
		if e.maxWidth() != DefaultMaxWidth {
			t.Errorf("maxWidth = %d, want %d", e.maxWidth(), DefaultMaxWidth)
		}
		if e.quality() != DefaultQuality {
			t.Errorf("quality = %d, want %d", e.quality(), DefaultQuality)
		}
	})

	t.Run("out-of-range quality falls back", func(t *testing.T) {
		e := &Encoder{Quality: 400}
		if e.quality() != DefaultQuality {
			t.Errorf("quality = %d, want %d", e.quality(), DefaultQuality)
		}
	})

	t.Run("configured values are honored", func(t *testing.T) {
		e := &Encoder{MaxWidth: 320, Quality: 60}
		if e.maxWidth() != 320 || e.quality() != 60 {
			t.Errorf("got (%d, %d), want (320, 60)", e.maxWidth(), e.quality())
		}
	})
}
