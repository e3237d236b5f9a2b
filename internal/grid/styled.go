package grid

import (
	"strings"

	"github.com/dshills/neoview/internal/hl"
	"github.com/dshills/neoview/internal/renderer/core"
)

// TextStyle is the subset of a highlight that affects shaping and glyph
// color, attached to byte ranges of a flattened line.
type TextStyle struct {
	Bold       bool
	Italic     bool
	Foreground *core.Color
	Background *core.Color
}

// AttrRun is a byte span of the flattened line string sharing one style.
type AttrRun struct {
	Start int
	End   int
	Style TextStyle
}

// StyledLine is a line flattened into a single string, with the byte to
// cell mapping and per-run style attributes the itemizer and shaping
// engine consume.
type StyledLine struct {
	Text string
	Runs []AttrRun

	byteToCell []int
}

// CellAt maps a byte offset of Text back to the column it came from.
func (s *StyledLine) CellAt(byteOffset int) int {
	return s.byteToCell[byteOffset]
}

// StyleAt returns the style covering the given byte offset.
func (s *StyledLine) StyleAt(byteOffset int) TextStyle {
	for i := range s.Runs {
		if byteOffset >= s.Runs[i].Start && byteOffset < s.Runs[i].End {
			return s.Runs[i].Style
		}
	}
	return TextStyle{}
}

// NewStyledLine flattens a line into shaping input. Continuation cells of
// double-width graphemes are skipped; blank cells contribute a space so
// byte offsets stay aligned with columns.
func NewStyledLine(l *Line, table *hl.Table) *StyledLine {
	// code bytes * grapheme cluster
	capacity := len(l.Cells) * 4 * 2

	var text strings.Builder
	text.Grow(capacity)
	byteToCell := make([]int, 0, capacity)
	runs := make([]AttrRun, 0, 4)

	cur := styleRun{}
	byteOffset := 0

	for cellIdx := range l.Cells {
		cell := &l.Cells[cellIdx]
		if cell.DoubleWidth {
			continue
		}

		if cell.Text != "" {
			text.WriteString(cell.Text)
		} else {
			text.WriteByte(' ')
		}
		length := text.Len() - byteOffset

		for i := 0; i < length; i++ {
			byteToCell = append(byteToCell, cellIdx)
		}

		if next, changed := cur.next(byteOffset, byteOffset+length, cell, table); changed {
			runs = cur.appendTo(runs)
			cur = next
		}

		byteOffset += length
	}
	runs = cur.appendTo(runs)

	return &StyledLine{
		Text:       text.String(),
		Runs:       runs,
		byteToCell: byteToCell,
	}
}

// styleRun accumulates consecutive cells sharing one style.
type styleRun struct {
	style TextStyle
	space bool

	startIdx int
	endIdx   int
}

func styleRunFrom(startIdx, endIdx int, cell *Cell, table *hl.Table) styleRun {
	h := table.Get(cell.HlID)
	return styleRun{
		style: TextStyle{
			Bold:       h.Bold,
			Italic:     h.Italic,
			Foreground: table.CellFg(h),
			Background: table.CellBg(h),
		},
		space:    cell.Text == "",
		startIdx: startIdx,
		endIdx:   endIdx,
	}
}

// next extends the run over the cell when styles match, or returns the
// replacement run. Cleared cells extend any run: spaces shape the same
// under every style.
func (r *styleRun) next(startIdx, endIdx int, cell *Cell, table *hl.Table) (styleRun, bool) {
	if r.space && cell.Text == "" {
		r.endIdx = endIdx
		return styleRun{}, false
	}

	candidate := styleRunFrom(startIdx, endIdx, cell, table)
	if r.sameStyle(&candidate) {
		r.endIdx = endIdx
		return styleRun{}, false
	}
	return candidate, true
}

func (r *styleRun) sameStyle(other *styleRun) bool {
	return r.style.Bold == other.style.Bold &&
		r.style.Italic == other.style.Italic &&
		colorPtrEq(r.style.Foreground, other.style.Foreground) &&
		colorPtrEq(r.style.Background, other.style.Background)
}

func (r *styleRun) appendTo(runs []AttrRun) []AttrRun {
	if r.endIdx == r.startIdx {
		return runs
	}
	return append(runs, AttrRun{Start: r.startIdx, End: r.endIdx, Style: r.style})
}

func colorPtrEq(a, b *core.Color) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
