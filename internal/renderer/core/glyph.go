package core

// GlyphID is a glyph index in a font.
type GlyphID uint32

// Glyph is a single positioned glyph within a run.
type Glyph struct {
	// ID is the glyph index in the run's font.
	ID GlyphID

	// Cluster is the byte offset into the shaped text span that produced
	// this glyph. Used for hit testing.
	Cluster int

	// X is the horizontal position relative to the run origin.
	X float64

	// Y is the vertical position relative to the baseline.
	Y float64

	// XAdvance is the horizontal advance to the next glyph.
	XAdvance float64
}

// InkRect is the visual extent of a shaped run. The origin is the left end
// of the baseline: Y is negative above the baseline.
type InkRect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Ascent returns the ink extent above the baseline.
func (r InkRect) Ascent() float64 {
	if r.Y < 0 {
		return -r.Y
	}
	return 0
}

// Descent returns the ink extent below the baseline.
func (r InkRect) Descent() float64 {
	return r.Y + r.Height
}

// FontRef identifies a concrete font chosen by the shaping engine.
// Refs are comparable by Key so fallback-font splits can be detected.
type FontRef interface {
	// Key uniquely identifies the font (family, style, size).
	Key() string
}

// GlyphRun is the output of shaping one cluster: a font plus positioned
// glyphs and the run's ink extent.
type GlyphRun struct {
	Font   FontRef
	Glyphs []Glyph
	Ink    InkRect

	// Width is the nominal advance width of the run.
	Width float64
}

// Empty returns true if the run produced no glyphs.
func (g GlyphRun) Empty() bool {
	return len(g.Glyphs) == 0
}
