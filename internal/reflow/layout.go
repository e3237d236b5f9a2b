// Package reflow wraps locally-composed attributed text into a grid. It
// backs variable-size overlay surfaces such as a multi-line input prompt,
// where content is produced by the frontend itself instead of arriving as
// positioned line updates.
package reflow

import (
	"github.com/mattn/go-runewidth"

	"github.com/dshills/neoview/internal/grid"
)

// rowsStep is the row-batch granularity of the backing grid. Growing in
// batches amortizes reallocation under repeated small appends.
const rowsStep = 10

// HighlightedRange is a run of graphemes sharing one highlight id.
type HighlightedRange struct {
	HlID      int64
	Graphemes []string
}

// HighlightedLine is one logical (pre-wrap) line of attributed text.
type HighlightedLine []HighlightedRange

// Layout wraps attributed lines into a fixed-width grid. The used extent
// (RowsFilled, ColsFilled) is tracked separately from the allocated grid
// size, which only ever grows.
type Layout struct {
	// Grid is the backing buffer. Its rows beyond RowsFilled are
	// allocated but unused.
	Grid *grid.Grid

	rowsFilled int
	colsFilled int
	lines      []HighlightedLine
}

// NewLayout creates a layout wrapping at the given column count.
func NewLayout(columns int) *Layout {
	return &Layout{
		Grid: grid.NewGrid(0, columns, rowsStep),
	}
}

// RowsFilled returns the number of grid rows in use.
func (l *Layout) RowsFilled() int { return l.rowsFilled }

// ColsFilled returns the widest used row extent.
func (l *Layout) ColsFilled() int { return l.colsFilled }

// Size returns the used extent, widened to include the cursor column.
func (l *Layout) Size() (cols, rows int) {
	_, curCol := l.Grid.RealCursor()
	cols = l.colsFilled
	if curCol+1 > cols {
		cols = curCol + 1
	}
	return cols, l.rowsFilled
}

// SetCursor places the cursor at the given column of the last used row.
func (l *Layout) SetCursor(col int) {
	row := 0
	if l.rowsFilled > 0 {
		row = l.rowsFilled - 1
	}
	l.Grid.CursorGoto(row, col)
	l.Grid.FlushCursor()
}

// Replace rewraps the layout from the given content.
func (l *Layout) Replace(lines []HighlightedLine) {
	l.lines = lines
	l.rewrap(0, 0)
}

// Append extends the layout with additional logical lines. Rows wrapped
// from earlier lines are untouched.
func (l *Layout) Append(lines []HighlightedLine) {
	rowOffset := l.rowsFilled
	takeFrom := len(l.lines)
	l.lines = append(l.lines, lines...)
	l.rewrap(rowOffset, takeFrom)
}

// InsertChar puts one grapheme at the cursor. With shift false the cell
// is overwritten in place; with shift true the grapheme is inserted into
// the source line and everything is rewrapped.
func (l *Layout) InsertChar(ch string, shift bool, hlID int64) {
	if ch == "" {
		return
	}
	row, col := l.Grid.RealCursor()

	if !shift {
		l.put(row, col, ch, hlID)
		return
	}
	l.insertIntoLines(ch, col)
	l.rewrap(0, 0)
}

// insertIntoLines splices a grapheme into the first logical line at the
// cursor column.
func (l *Layout) insertIntoLines(ch string, curCol int) {
	if len(l.lines) == 0 {
		return
	}
	line := l.lines[0]
	colIdx := 0
	for i := range line {
		if curCol < colIdx+len(line[i].Graphemes) {
			at := curCol - colIdx
			gs := line[i].Graphemes
			gs = append(gs, "")
			copy(gs[at+1:], gs[at:])
			gs[at] = ch
			line[i].Graphemes = gs
			return
		}
		colIdx += len(line[i].Graphemes)
	}
}

// countRows simulates the wrap to find how many grid rows the given
// logical lines occupy.
func countRows(lines []HighlightedLine, columns int) int {
	rows := 0
	for _, line := range lines {
		col := 0
		for _, r := range line {
			for _, ch := range r.Graphemes {
				w := graphemeWidth(ch)
				if col+w > columns {
					col = 0
					rows++
				}
				col += w
			}
		}
		rows++
	}
	return rows
}

func graphemeWidth(ch string) int {
	w := runewidth.StringWidth(ch)
	if w < 1 {
		return 1
	}
	return w
}

// ensureRows grows the backing grid in rowsStep batches, moving the used
// rows into the larger buffer with bulk row swaps.
func (l *Layout) ensureRows(rows int) {
	if rows <= l.Grid.Rows() {
		return
	}
	newRows := ((rows-1)/rowsStep + 1) * rowsStep
	curRow, curCol := l.Grid.RealCursor()

	bigger := grid.NewGrid(0, l.Grid.Columns(), newRows)
	last := l.Grid.Columns() - 1
	for row := 0; row < l.rowsFilled && row < l.Grid.Rows(); row++ {
		l.Grid.Line(row).SwapRange(bigger.Line(row), 0, last)
	}
	bigger.CursorGoto(curRow, curCol)
	bigger.FlushCursor()
	l.Grid = bigger
}

func (l *Layout) put(row, col int, ch string, hlID int64) {
	line := l.Grid.Line(row)
	if line == nil || col >= len(line.Cells) {
		return
	}
	cell := &line.Cells[col]
	cell.Text = ch
	cell.HlID = hlID
	cell.DoubleWidth = ch == ""
	cell.Dirty = true
	line.Dirty = true
}

// rewrap lays the logical lines starting at takeFrom into the grid
// starting at rowOffset. Double-width graphemes that would straddle the
// last column wrap to the next row whole, leaving the straddled cell for
// the row clear.
func (l *Layout) rewrap(rowOffset, takeFrom int) {
	lines := l.lines[takeFrom:]
	rows := countRows(lines, l.Grid.Columns())

	l.ensureRows(rows + rowOffset)
	l.rowsFilled = rows + rowOffset

	maxCol := 0
	row := rowOffset
	col := 0
	for _, line := range lines {
		for _, r := range line {
			for _, ch := range r.Graphemes {
				w := graphemeWidth(ch)
				if col+w > l.Grid.Columns() {
					l.clearTail(row, col)
					col = 0
					row++
				}
				l.put(row, col, ch, r.HlID)
				if w > 1 {
					l.put(row, col+1, "", r.HlID)
				}
				if col+w-1 > maxCol {
					maxCol = col + w - 1
				}
				col += w
			}
		}
		l.clearTail(row, col)
		col = 0
		row++
	}

	if l.rowsFilled == 1 {
		l.colsFilled = maxCol + 1
	} else if maxCol+1 > l.colsFilled {
		l.colsFilled = maxCol + 1
	}
}

func (l *Layout) clearTail(row, fromCol int) {
	line := l.Grid.Line(row)
	if line == nil || fromCol >= len(line.Cells) {
		return
	}
	line.Clear(fromCol, len(line.Cells)-1, 0)
}
