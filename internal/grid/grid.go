package grid

import (
	"github.com/dshills/neoview/internal/logger"
)

// CellUpdate is one expanded write triple from a line-update operation.
// The decoder has already resolved highlight carry-forward and defaulted
// the repeat count.
type CellUpdate struct {
	Text   string
	HlID   int64
	Repeat int
}

// Grid is one addressable surface: a buffer of lines plus the cursor.
type Grid struct {
	ID int64

	columns int
	rows    int
	lines   []*Line

	curRow, curCol         int
	pendingRow, pendingCol int
	hasPending             bool
}

// NewGrid creates a blank grid with the cursor at the origin.
func NewGrid(id int64, columns, rows int) *Grid {
	g := &Grid{
		ID:      id,
		columns: columns,
		rows:    rows,
		lines:   make([]*Line, rows),
	}
	for i := range g.lines {
		g.lines[i] = NewLine(columns)
	}
	return g
}

// Columns returns the grid width in cells.
func (g *Grid) Columns() int { return g.columns }

// Rows returns the grid height in lines.
func (g *Grid) Rows() int { return g.rows }

// Line returns the line at row.
func (g *Grid) Line(row int) *Line {
	return g.lines[row]
}

// Lines returns the line buffer.
func (g *Grid) Lines() []*Line {
	return g.lines
}

// Resize changes the grid dimensions, preserving the overlapping top-left
// rectangle of existing content. Rows and columns beyond the old extent
// are blank. Cluster bindings are rebuilt on the next re-shape pass.
func (g *Grid) Resize(columns, rows int) {
	if columns == g.columns && rows == g.rows {
		return
	}

	lines := make([]*Line, rows)
	keepRows := min(rows, g.rows)
	keepCols := min(columns, g.columns)

	for r := 0; r < keepRows; r++ {
		line := NewLine(columns)
		copy(line.Cells[:keepCols], g.lines[r].Cells[:keepCols])
		for c := range line.Cells {
			line.Cells[c].Dirty = true
		}
		lines[r] = line
	}
	for r := keepRows; r < rows; r++ {
		lines[r] = NewLine(columns)
	}

	g.lines = lines
	g.columns = columns
	g.rows = rows

	g.curRow = min(g.curRow, rows-1)
	g.curCol = min(g.curCol, columns-1)
}

// Clear blanks every cell with the given highlight without changing the
// grid dimensions.
func (g *Grid) Clear(hlID int64) {
	for _, line := range g.lines {
		line.Clear(0, g.columns-1, hlID)
	}
}

// UpdateLine writes cells left to right starting at colStart, expanding
// repeat counts. Writes past the right edge are clipped and logged: that
// is a protocol violation by the producer, not locally recoverable.
func (g *Grid) UpdateLine(row, colStart int, cells []CellUpdate) {
	if row < 0 || row >= g.rows {
		logger.Error("update_line row out of range", "grid", g.ID, "row", row, "rows", g.rows)
		assertf(false, "update_line row %d out of range [0,%d)", row, g.rows)
		return
	}

	line := g.lines[row]
	line.Dirty = true

	col := colStart
	for _, cu := range cells {
		repeat := cu.Repeat
		if repeat < 1 {
			repeat = 1
		}
		for i := 0; i < repeat; i++ {
			if col >= g.columns {
				logger.Warn("update_line past right edge", "grid", g.ID, "row", row, "col", col)
				assertf(false, "update_line col %d out of range [0,%d)", col, g.columns)
				return
			}
			cell := &line.Cells[col]
			cell.Text = cu.Text
			cell.HlID = cu.HlID
			// The trailing half of a double-width grapheme arrives as an
			// empty string; a blank cell arrives as " ".
			cell.DoubleWidth = cu.Text == ""
			cell.Dirty = true
			col++
		}
	}
}

// Scroll shifts the sub-rectangle [top,bot) x [left,right) vertically by
// rowDelta rows using in-place row swaps. The rows vacated by the shift
// are left as-is: the producer always follows with line updates refilling
// them. colDelta is accepted for protocol compatibility but not applied.
func (g *Grid) Scroll(top, bot, left, right, rowDelta, colDelta int) {
	if colDelta != 0 {
		logger.Debug("horizontal scroll ignored", "grid", g.ID, "cols", colDelta)
	}
	if rowDelta == 0 {
		return
	}

	top = max(top, 0)
	bot = min(bot, g.rows)
	left = max(left, 0)
	right = min(right, g.columns)
	if top >= bot || left >= right {
		return
	}

	if rowDelta > 0 {
		for row := top; row < bot-rowDelta; row++ {
			g.lines[row].SwapRange(g.lines[row+rowDelta], left, right-1)
		}
	} else {
		for row := bot - 1; row >= top-rowDelta; row-- {
			g.lines[row].SwapRange(g.lines[row+rowDelta], left, right-1)
		}
	}
}

// CursorGoto records a pending cursor position. The position becomes
// current on FlushCursor so snapshots taken mid-batch stay consistent.
func (g *Grid) CursorGoto(row, col int) {
	g.pendingRow = row
	g.pendingCol = col
	g.hasPending = true
}

// FlushCursor commits any pending cursor position.
func (g *Grid) FlushCursor() {
	if g.hasPending {
		g.curRow = g.pendingRow
		g.curCol = g.pendingCol
		g.hasPending = false
	}
}

// Cursor returns the position committed by the last flush.
func (g *Grid) Cursor() (row, col int) {
	return g.curRow, g.curCol
}

// RealCursor returns the pending position when one exists, otherwise the
// committed position. This is what model mutations should use.
func (g *Grid) RealCursor() (row, col int) {
	if g.hasPending {
		return g.pendingRow, g.pendingCol
	}
	return g.curRow, g.curCol
}

// CursorDoubleWidth reports whether the cursor sits on the leading cell
// of a double-width grapheme.
func (g *Grid) CursorDoubleWidth() bool {
	row, col := g.RealCursor()
	if row >= g.rows || col+1 >= g.columns {
		return false
	}
	return g.lines[row].Cells[col+1].DoubleWidth
}

// ClearGlyphCache invalidates every cached glyph run, to be called when
// the font context changes.
func (g *Grid) ClearGlyphCache() {
	for _, line := range g.lines {
		line.ClearGlyphs()
	}
}
