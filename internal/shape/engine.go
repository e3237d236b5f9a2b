package shape

import (
	"github.com/dshills/neoview/internal/renderer/core"
)

// TextAttrs are the style inputs that affect font selection and shaping.
type TextAttrs struct {
	Bold   bool
	Italic bool
}

// Fragment is a run of text the engine can shape with a single font.
// Offset and Len are relative to the text passed to Segment.
type Fragment struct {
	Offset int
	Len    int
	Font   core.FontRef
}

// Engine is the external text-shaping capability. Implementations must be
// synchronous and side-effect free: the shape pass calls them from the
// single model thread and caches every result.
type Engine interface {
	// PrimaryFont returns the configured font, before any fallback.
	PrimaryFont() core.FontRef

	// Segment splits text into runs of consistent font coverage, falling
	// back to other fonts for glyphs the primary font lacks.
	Segment(text string, attrs TextAttrs) []Fragment

	// SegmentWith segments text using only the given font.
	SegmentWith(font core.FontRef, text string, attrs TextAttrs) []Fragment

	// Shape converts a text span to a positioned glyph run in the given
	// font. Returning an error leaves the cluster without glyphs; the
	// renderer skips it but background rendering proceeds.
	Shape(text string, attrs TextAttrs, font core.FontRef) (core.GlyphRun, error)

	// Metrics reports the nominal cell box of the current font config.
	Metrics() core.CellMetrics
}
