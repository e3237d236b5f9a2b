package grid

import (
	"github.com/dshills/neoview/internal/renderer/core"
)

// Item is one shaping cluster: a byte span of the line's flattened string
// plus the lazily populated glyph run for it. Items are owned by the Line
// that contains them and are replaced whenever their covering cells change
// incompatibly.
type Item struct {
	// ByteOffset and ByteLen locate the cluster in the flattened line
	// string produced by StyledLine.
	ByteOffset int
	ByteLen    int

	// Font is the font the shaping engine selected for this cluster.
	Font core.FontRef

	// CellsCount is the number of grid columns the cluster spans.
	CellsCount int

	glyphs   *core.GlyphRun
	overflow *InkOverflow
}

// NewItem creates an unshaped item covering cellsCount columns.
func NewItem(byteOffset, byteLen int, font core.FontRef, cellsCount int) Item {
	assertf(cellsCount > 0, "item with cellsCount=%d", cellsCount)
	return Item{
		ByteOffset: byteOffset,
		ByteLen:    byteLen,
		Font:       font,
		CellsCount: cellsCount,
	}
}

// Glyphs returns the cached glyph run, or nil if the item has not been
// shaped yet (or shaping failed).
func (it *Item) Glyphs() *core.GlyphRun {
	return it.glyphs
}

// SetGlyphs caches a shaped glyph run and computes the cluster's ink
// overflow against the nominal cell box.
func (it *Item) SetGlyphs(metrics core.CellMetrics, run core.GlyphRun) {
	it.overflow = overflowFrom(metrics, run.Ink, it.CellsCount)
	it.glyphs = &run
}

// ClearGlyphs drops the cached run, forcing a re-shape on the next pass.
func (it *Item) ClearGlyphs() {
	it.glyphs = nil
	it.overflow = nil
}

// Overflow returns the ink overflow of the shaped cluster, or nil when the
// glyphs stay inside their nominal cell box (no extra invalidation work).
func (it *Item) Overflow() *InkOverflow {
	return it.overflow
}

// InkOverflow is the amount, in pixels, by which a shaped cluster's visual
// extent exceeds its nominal cell box. The renderer extends redraw and
// clip rectangles by these values.
type InkOverflow struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

// overflowFrom computes the overflow of an ink rect against the nominal
// box of cellsCount cells. Returns nil when there is no overflow.
func overflowFrom(metrics core.CellMetrics, ink core.InkRect, cellsCount int) *InkOverflow {
	top := ink.Ascent() - metrics.Ascent
	if top < 0 {
		top = 0
	}

	bottom := ink.Descent() - metrics.Descent
	if bottom < 0 {
		bottom = 0
	}

	var left float64
	if ink.X < 0 {
		left = -ink.X
	}

	right := ink.Width - metrics.CellLen(cellsCount)
	if right < 0 {
		right = 0
	}

	if top == 0 && bottom == 0 && left == 0 && right == 0 {
		return nil
	}
	return &InkOverflow{Top: top, Bottom: bottom, Left: left, Right: right}
}
