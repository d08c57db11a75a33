package detect

import "testing"

func TestZoneFor(t *testing.T) {
	const w, h = 900, 900

	cases := []struct {
		name string
		x, y int
		want string
	}{
		{"top left corner", 0, 0, ZoneTopLeft},
		{"top center", 450, 100, ZoneTopCenter},
		{"top right", 899, 0, ZoneTopRight},
		{"middle left", 100, 450, ZoneMiddleLeft},
		{"dead center", 450, 450, ZoneCenter},
		{"middle right", 899, 450, ZoneMiddleRight},
		{"bottom left", 0, 899, ZoneBottomLeft},
		{"bottom center", 450, 899, ZoneBottomCenter},
		{"bottom right corner", 899, 899, ZoneBottomRight},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ZoneFor(tc.x, tc.y, w, h); got != tc.want {
				t.Errorf("ZoneFor(%d, %d) = %q, want %q", tc.x, tc.y, got, tc.want)
			}
		})
	}

	t.Run("out-of-range points are clamped", func(t *testing.T) {
		if got := ZoneFor(2000, 2000, w, h); got != ZoneBottomRight {
			t.Errorf("got %q, want clamp to %q", got, ZoneBottomRight)
		}
		if got := ZoneFor(-5, -5, w, h); got != ZoneTopLeft {
			t.Errorf("got %q, want clamp to %q", got, ZoneTopLeft)
		}
	})

	t.Run("degenerate frame falls back to center", func(t *testing.T) {
		if got := ZoneFor(10, 10, 0, 0); got != ZoneCenter {
			t.Errorf("got %q, want %q", got, ZoneCenter)
		}
	})
}
