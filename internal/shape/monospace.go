package shape

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/dshills/neoview/internal/renderer/core"
)

// MonoFont is the font reference used by the monospace engine.
type MonoFont struct {
	Name string
	Size float64
}

// Key implements core.FontRef.
func (f MonoFont) Key() string {
	return fmt.Sprintf("%s:%g", f.Name, f.Size)
}

// MonospaceEngine is a measuring shaping engine: every grapheme becomes
// one glyph advanced by its column width. It backs the terminal debug
// renderer and the test suite, where no real rasterizer is available.
type MonospaceEngine struct {
	font      MonoFont
	cellWidth float64
	ascent    float64
	descent   float64
}

// NewMonospaceEngine creates an engine with the given nominal cell box.
func NewMonospaceEngine(font MonoFont, cellWidth, ascent, descent float64) *MonospaceEngine {
	return &MonospaceEngine{
		font:      font,
		cellWidth: cellWidth,
		ascent:    ascent,
		descent:   descent,
	}
}

// PrimaryFont implements Engine.
func (e *MonospaceEngine) PrimaryFont() core.FontRef {
	return e.font
}

// Segment implements Engine. A monospace engine never falls back, so the
// whole span is a single fragment in the primary font.
func (e *MonospaceEngine) Segment(text string, _ TextAttrs) []Fragment {
	if text == "" {
		return nil
	}
	return []Fragment{{Offset: 0, Len: len(text), Font: e.font}}
}

// SegmentWith implements Engine.
func (e *MonospaceEngine) SegmentWith(font core.FontRef, text string, _ TextAttrs) []Fragment {
	if text == "" {
		return nil
	}
	return []Fragment{{Offset: 0, Len: len(text), Font: font}}
}

// Shape implements Engine: one glyph per grapheme, advanced by its
// column width. Glyph ids carry the first rune so debug backends can
// paint the text without a rasterizer.
func (e *MonospaceEngine) Shape(text string, _ TextAttrs, font core.FontRef) (core.GlyphRun, error) {
	if font == nil {
		font = e.font
	}

	var glyphs []core.Glyph
	var x float64
	offset := 0
	state := -1
	rest := text
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)

		var first rune
		for _, r := range cluster {
			first = r
			break
		}

		advance := float64(runewidth.StringWidth(cluster)) * e.cellWidth
		glyphs = append(glyphs, core.Glyph{
			ID:       core.GlyphID(first),
			Cluster:  offset,
			X:        x,
			XAdvance: advance,
		})
		x += advance
		offset += len(cluster)
	}

	return core.GlyphRun{
		Font:   font,
		Glyphs: glyphs,
		Ink: core.InkRect{
			X:      0,
			Y:      -e.ascent,
			Width:  x,
			Height: e.ascent + e.descent,
		},
		Width: x,
	}, nil
}

// Metrics implements Engine.
func (e *MonospaceEngine) Metrics() core.CellMetrics {
	return core.CellMetrics{
		LineHeight:             e.ascent + e.descent,
		CharWidth:              e.cellWidth,
		Ascent:                 e.ascent,
		Descent:                e.descent,
		UnderlinePosition:      e.ascent + 1,
		UnderlineThickness:     1,
		StrikethroughPosition:  e.ascent * 0.5,
		StrikethroughThickness: 1,
	}
}
