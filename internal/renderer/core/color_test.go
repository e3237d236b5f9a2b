package core

import "testing"

func TestColorFromRGB24(t *testing.T) {
	c := ColorFromRGB24(0x1a2b3c)
	if c.R != 0x1a || c.G != 0x2b || c.B != 0x3c {
		t.Errorf("ColorFromRGB24 = %+v, want {1a 2b 3c}", c)
	}
}

func TestColorHexRoundTrip(t *testing.T) {
	c, err := ColorFromHex("#ff8000")
	if err != nil {
		t.Fatalf("ColorFromHex: %v", err)
	}
	if got := c.Hex(); got != "#ff8000" {
		t.Errorf("Hex() = %q, want %q", got, "#ff8000")
	}

	if _, err := ColorFromHex("zz0000"); err == nil {
		t.Error("ColorFromHex accepted invalid input")
	}
	if _, err := ColorFromHex("#fff"); err == nil {
		t.Error("ColorFromHex accepted short input")
	}
}

func TestColorInvert(t *testing.T) {
	if got := ColorBlack.Invert(); got != ColorWhite {
		t.Errorf("black inverted = %v, want white", got)
	}
}

func TestColorIsLight(t *testing.T) {
	if ColorBlack.IsLight() {
		t.Error("black classified as light")
	}
	if !ColorWhite.IsLight() {
		t.Error("white classified as dark")
	}
	if (Color{R: 0x20, G: 0x20, B: 0x30}).IsLight() {
		t.Error("dark theme background classified as light")
	}
}

func TestCellMetricsPixelCoords(t *testing.T) {
	m := CellMetrics{LineHeight: 17, CharWidth: 8}

	x, y := m.PixelCoords(3, 5)
	if x != 40 || y != 51 {
		t.Errorf("PixelCoords(3, 5) = (%v, %v), want (40, 51)", x, y)
	}
	if got := m.CellLen(4); got != 32 {
		t.Errorf("CellLen(4) = %v, want 32", got)
	}
}
