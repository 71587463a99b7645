package color

import (
	"math"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantR    float32
		wantG    float32
		wantB    float32
		wantA    float32
		channels int
		wantErr  bool
	}{
		{name: "six digit", in: "#ff0000", wantR: 1, wantA: 1, channels: 3},
		{name: "three digit", in: "#0f0", wantG: 1, wantA: 1, channels: 3},
		{name: "eight digit", in: "#0000ff80", wantB: 1, wantA: float32(0x80) / 255, channels: 4},
		{name: "no hash", in: "ff0000", wantErr: true},
		{name: "garbage", in: "#zzzzzz", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) = %v, want error", tt.in, c)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.in, err)
			}
			const eps = 1e-3
			if math.Abs(float64(c.R-tt.wantR)) > eps ||
				math.Abs(float64(c.G-tt.wantG)) > eps ||
				math.Abs(float64(c.B-tt.wantB)) > eps ||
				math.Abs(float64(c.A-tt.wantA)) > eps {
				t.Errorf("Parse(%q) = %v, want (%v %v %v %v)", tt.in, c, tt.wantR, tt.wantG, tt.wantB, tt.wantA)
			}
			if got := c.Channels(); got != tt.channels {
				t.Errorf("Channels() = %d, want %d", got, tt.channels)
			}
		})
	}
}

func TestToChannels(t *testing.T) {
	rgb := RGB(0.2, 0.4, 0.6)
	rgba := RGBA(0.2, 0.4, 0.6, 0.5)

	if got := rgb.ToChannels(4).Channels(); got != 4 {
		t.Errorf("RGB widened: Channels() = %d, want 4", got)
	}
	if got := rgb.ToChannels(4).A; got != 1 {
		t.Errorf("RGB widened: A = %v, want 1 (opaque)", got)
	}
	narrowed := rgba.ToChannels(3)
	if got := narrowed.Channels(); got != 3 {
		t.Errorf("RGBA narrowed: Channels() = %d, want 3", got)
	}
	if narrowed.R != 0.2 || narrowed.G != 0.4 || narrowed.B != 0.6 {
		t.Errorf("RGBA narrowed changed RGB: %v", narrowed)
	}
	// Round trip at matching depth is the identity.
	if got := rgb.ToChannels(3); !got.Equal(rgb) {
		t.Errorf("ToChannels(3) on RGB = %v, want %v", got, rgb)
	}
}

func TestLighten(t *testing.T) {
	base := MustParse("#404040")
	lighter := base.Lighten(0.2)
	if !lighterThan(lighter, base) {
		t.Errorf("Lighten(0.2): %v not lighter than %v", lighter, base)
	}

	// At the lightness ceiling the shift flips downward.
	white := MustParse("#ffffff")
	dimmed := white.Lighten(0.2)
	if !lighterThan(white, dimmed) {
		t.Errorf("Lighten at ceiling: %v should be darker than white", dimmed)
	}

	// Zero delta keeps the lightness put (hue round trip may wiggle
	// channels slightly, lightness must not move).
	same := base.Lighten(0)
	if d := luma(same) - luma(base); math.Abs(d) > 1e-3 {
		t.Errorf("Lighten(0) moved luma by %v", d)
	}
}

func TestLightenClamp(t *testing.T) {
	// A huge delta clamps rather than wrapping.
	c := MustParse("#808080").Lighten(5)
	for _, ch := range []float32{c.R, c.G, c.B} {
		if ch < 0 || ch > 1 {
			t.Fatalf("Lighten(5) channel out of range: %v", c)
		}
	}
}

func TestLightenPreservesChannels(t *testing.T) {
	c := RGBA(0.5, 0.5, 0.5, 0.25)
	got := c.Lighten(0.1)
	if got.Channels() != 4 {
		t.Errorf("Lighten dropped alpha channel: %v", got)
	}
	if got.A != 0.25 {
		t.Errorf("Lighten changed alpha: got %v, want 0.25", got.A)
	}
}

func lighterThan(a, b Color) bool { return luma(a) > luma(b) }

func luma(c Color) float64 {
	return float64(c.R) + float64(c.G) + float64(c.B)
}

func TestPalette(t *testing.T) {
	cols, err := Palette(DefaultPalette)
	if err != nil {
		t.Fatalf("Palette(%q): %v", DefaultPalette, err)
	}
	if len(cols) == 0 {
		t.Fatal("default palette is empty")
	}

	if _, err := Palette("no-such-palette"); err == nil {
		t.Error("Palette with unknown name should fail")
	}

	names := PaletteNames()
	if len(names) < 2 {
		t.Errorf("PaletteNames() = %v, want at least classic plus one", names)
	}
	for _, name := range names {
		if _, err := Palette(name); err != nil {
			t.Errorf("Palette(%q): %v", name, err)
		}
	}
}
