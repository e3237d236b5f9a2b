package renderer

import (
	"github.com/dshills/neoview/internal/grid"
	"github.com/dshills/neoview/internal/hl"
	"github.com/dshills/neoview/internal/renderer/core"
	"github.com/dshills/neoview/internal/renderer/dirty"
)

// Sink receives paint operations in pixel coordinates. A terminal backend
// uses cell-sized metrics so the same coordinates address character cells.
type Sink interface {
	// FillRect fills a rectangle with a solid color.
	FillRect(x, y, w, h float64, color core.Color)

	// DrawRun draws a shaped glyph run. x is the left edge of the first
	// cell and y is the text baseline.
	DrawRun(font core.FontRef, run *core.GlyphRun, color core.Color, x, y float64)
}

// BackgroundSpan is a contiguous run of cells on one row sharing a single
// highlight, with its resolved background color.
type BackgroundSpan struct {
	Row      int
	StartCol int
	EndCol   int // exclusive
	HlID     int64
	Color    core.Color
}

// BackgroundSpans splits a row into contiguous same-highlight runs.
// Every cell belongs to exactly one span.
func BackgroundSpans(line *grid.Line, row int, table *hl.Table) []BackgroundSpan {
	if len(line.Cells) == 0 {
		return nil
	}

	spans := make([]BackgroundSpan, 0, 4)
	start := 0
	id := line.Cells[0].HlID
	for col := 1; col <= len(line.Cells); col++ {
		if col < len(line.Cells) && line.Cells[col].HlID == id {
			continue
		}
		spans = append(spans, BackgroundSpan{
			Row:      row,
			StartCol: start,
			EndCol:   col,
			HlID:     id,
			Color:    table.EffectiveBg(table.Get(id)),
		})
		if col < len(line.Cells) {
			start = col
			id = line.Cells[col].HlID
		}
	}
	return spans
}

// CursorInfo is everything a frontend needs to draw the cursor: the cell
// under it, its position, and whether it covers a double-width grapheme.
type CursorInfo struct {
	Row         int
	Col         int
	DoubleWidth bool
	Cell        grid.Cell
}

// CursorInfo reports the committed cursor state of a grid.
func (r *Renderer) CursorInfo(g *grid.Grid) CursorInfo {
	row, col := g.Cursor()
	info := CursorInfo{
		Row:         row,
		Col:         col,
		DoubleWidth: g.CursorDoubleWidth(),
	}
	if line := g.Line(row); line != nil && col < len(line.Cells) {
		info.Cell = line.Cells[col]
	}
	return info
}

// PixelRect is a damage rectangle in pixel coordinates.
type PixelRect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// DamageRects converts the pending damage regions of a grid into pixel
// rectangles for window invalidation. Each rectangle is inflated by the
// ink overflow of the items on its rows so spilled glyphs repaint too.
func (r *Renderer) DamageRects(g *grid.Grid) []PixelRect {
	tracker := r.Tracker(g)
	metrics := r.ctx.Metrics()

	regions := tracker.Regions()
	rects := make([]PixelRect, 0, len(regions))
	for _, reg := range regions {
		startCol, endCol := 0, g.Columns()
		if !reg.FullWidth {
			startCol, endCol = reg.StartCol, reg.EndCol
		}
		rect := PixelRect{
			X:      float64(startCol) * metrics.CharWidth,
			Y:      float64(reg.StartRow) * metrics.LineHeight,
			Width:  float64(endCol-startCol) * metrics.CharWidth,
			Height: float64(reg.RowCount()) * metrics.LineHeight,
		}
		if ov := maxOverflow(g, reg); ov != nil {
			rect.X -= ov.Left
			rect.Y -= ov.Top
			rect.Width += ov.Left + ov.Right
			rect.Height += ov.Top + ov.Bottom
		}
		rects = append(rects, rect)
	}
	return rects
}

func maxOverflow(g *grid.Grid, reg dirty.Region) *grid.InkOverflow {
	var acc grid.InkOverflow
	found := false
	for row := reg.StartRow; row <= reg.EndRow && row < g.Rows(); row++ {
		line := g.Line(row)
		for col := range line.Cells {
			if line.CellToItem(col) != col {
				continue
			}
			items := line.ItemsAt(col)
			for i := range items {
				ov := items[i].Overflow()
				if ov == nil {
					continue
				}
				found = true
				acc.Top = maxf(acc.Top, ov.Top)
				acc.Bottom = maxf(acc.Bottom, ov.Bottom)
				acc.Left = maxf(acc.Left, ov.Left)
				acc.Right = maxf(acc.Right, ov.Right)
			}
		}
	}
	if !found {
		return nil
	}
	return &acc
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Paint draws the damaged rows of a grid to the sink and clears the damage
// tracker. Rows are painted back to front: background spans, then glyph
// runs, then underline and strikethrough decorations.
func (r *Renderer) Paint(sink Sink, g *grid.Grid, table *hl.Table) {
	tracker := r.Tracker(g)
	metrics := r.ctx.Metrics()

	for _, reg := range tracker.Regions() {
		for row := reg.StartRow; row <= reg.EndRow && row < g.Rows(); row++ {
			r.paintRow(sink, g, table, row, metrics)
		}
	}
	tracker.Clear()
}

// PaintAll repaints the whole grid regardless of tracked damage.
func (r *Renderer) PaintAll(sink Sink, g *grid.Grid, table *hl.Table) {
	metrics := r.ctx.Metrics()
	for row := 0; row < g.Rows(); row++ {
		r.paintRow(sink, g, table, row, metrics)
	}
	r.Tracker(g).Clear()
}

func (r *Renderer) paintRow(sink Sink, g *grid.Grid, table *hl.Table, row int, metrics core.CellMetrics) {
	line := g.Line(row)
	if line == nil {
		return
	}
	rowY := float64(row) * metrics.LineHeight

	for _, span := range BackgroundSpans(line, row, table) {
		x := float64(span.StartCol) * metrics.CharWidth
		w := float64(span.EndCol-span.StartCol) * metrics.CharWidth
		sink.FillRect(x, rowY, w, metrics.LineHeight, span.Color)
	}

	baseline := rowY + metrics.Ascent
	for col := range line.Cells {
		if line.CellToItem(col) != col {
			continue
		}
		items := line.ItemsAt(col)
		x := float64(col) * metrics.CharWidth
		for i := range items {
			run := items[i].Glyphs()
			if run == nil {
				continue
			}
			fg := table.EffectiveFg(table.Get(line.Cells[col].HlID))
			sink.DrawRun(items[i].Font, run, fg, x, baseline)
			x += run.Width
		}
	}

	r.paintDecorations(sink, line, table, rowY, metrics)
}

// paintDecorations draws underline and strikethrough bars over contiguous
// cell runs that share a highlight requesting them.
func (r *Renderer) paintDecorations(sink Sink, line *grid.Line, table *hl.Table, rowY float64, metrics core.CellMetrics) {
	col := 0
	for col < len(line.Cells) {
		id := line.Cells[col].HlID
		h := table.Get(id)
		end := col + 1
		for end < len(line.Cells) && line.Cells[end].HlID == id {
			end++
		}

		if h != nil && (h.Underline != hl.UnderlineNone || h.Strikethrough) {
			x := float64(col) * metrics.CharWidth
			w := float64(end-col) * metrics.CharWidth
			if h.Underline != hl.UnderlineNone {
				sink.FillRect(x, rowY+metrics.UnderlinePosition, w,
					metrics.UnderlineThickness, table.EffectiveSp(h))
			}
			if h.Strikethrough {
				sink.FillRect(x, rowY+metrics.StrikethroughPosition, w,
					metrics.StrikethroughThickness, table.EffectiveFg(h))
			}
		}
		col = end
	}
}
