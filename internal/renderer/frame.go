// Package renderer turns the cell model into paint operations. Each frame
// it reshapes the dirty lines of a grid, tracks the damaged regions, and
// walks the shaped items emitting background rectangles, glyph runs, and
// text decorations to a backend sink.
package renderer

import (
	"github.com/dshills/neoview/internal/grid"
	"github.com/dshills/neoview/internal/hl"
	"github.com/dshills/neoview/internal/logger"
	"github.com/dshills/neoview/internal/renderer/dirty"
	"github.com/dshills/neoview/internal/shape"
)

// Renderer owns the shaping context and per-grid damage trackers.
type Renderer struct {
	ctx      *shape.Context
	trackers map[int64]*dirty.Tracker
}

// New creates a renderer around a shaping context.
func New(ctx *shape.Context) *Renderer {
	return &Renderer{
		ctx:      ctx,
		trackers: make(map[int64]*dirty.Tracker),
	}
}

// Context returns the shaping context.
func (r *Renderer) Context() *shape.Context {
	return r.ctx
}

// Tracker returns the damage tracker for a grid, creating it on first use.
// A dimension change since the last call resizes the tracker, which forces
// a full redraw; without that, marks past the old extent would be clamped
// away and the grown rows never painted.
func (r *Renderer) Tracker(g *grid.Grid) *dirty.Tracker {
	t, ok := r.trackers[g.ID]
	if !ok {
		t = dirty.NewTracker(g.Columns(), g.Rows())
		t.MarkAll()
		r.trackers[g.ID] = t
		return t
	}
	if cols, rows := t.Size(); cols != g.Columns() || rows != g.Rows() {
		t.SetGridSize(g.Columns(), g.Rows())
	}
	return t
}

// Forget drops the damage tracker of a destroyed grid.
func (r *Renderer) Forget(gridID int64) {
	delete(r.trackers, gridID)
}

// ShapeDirty reshapes every dirty line of the grid and clears the model's
// dirty flags. Lines that were reshaped are marked in the damage tracker.
// It returns the number of lines reshaped.
func (r *Renderer) ShapeDirty(g *grid.Grid, table *hl.Table) int {
	tracker := r.Tracker(g)
	engine := r.ctx.Engine()
	metrics := r.ctx.Metrics()

	reshaped := 0
	for row, line := range g.Lines() {
		if !line.Dirty {
			continue
		}

		styled := grid.NewStyledLine(line, table)
		spans := r.ctx.Itemize(styled)
		line.Merge(spans)

		for col := range line.Cells {
			if line.CellToItem(col) != col {
				continue
			}
			items := line.ItemsAt(col)
			for i := range items {
				it := &items[i]
				if it.Glyphs() != nil {
					continue
				}
				text := styled.Text[it.ByteOffset : it.ByteOffset+it.ByteLen]
				style := styled.StyleAt(it.ByteOffset)
				run, err := engine.Shape(text, shape.TextAttrs{
					Bold:   style.Bold,
					Italic: style.Italic,
				}, it.Font)
				if err != nil {
					logger.Warn("shaping failed",
						"grid", g.ID, "row", row, "col", col, "error", err)
					continue
				}
				it.SetGlyphs(metrics, run)
			}
		}

		for col := range line.Cells {
			line.Cells[col].Dirty = false
		}
		line.Dirty = false

		tracker.MarkRow(row)
		reshaped++
	}
	return reshaped
}
