package grid

import (
	"testing"

	"github.com/dshills/neoview/internal/hl"
)

func styledFixture() (*Line, *hl.Table) {
	table := hl.NewTable()
	table.Define(1, map[string]interface{}{"bold": true}, nil)
	table.Define(2, map[string]interface{}{"italic": true}, nil)

	l := NewLine(6)
	l.Cells[0] = Cell{Text: "a", HlID: 1}
	l.Cells[1] = Cell{Text: "b", HlID: 1}
	l.Cells[2] = Cell{Text: "c", HlID: 2}
	// Cell 3 stays blank.
	l.Cells[4] = Cell{Text: "あ", HlID: 2}
	l.Cells[5] = Cell{Text: "", DoubleWidth: true}
	return l, table
}

func TestStyledLineFlattensCells(t *testing.T) {
	l, table := styledFixture()

	s := NewStyledLine(l, table)

	// Continuation cells are skipped; the blank cell becomes a space.
	if got, want := s.Text, "abc あ"; got != want {
		t.Errorf("Text = %q, want %q", got, want)
	}
}

func TestStyledLineByteToCell(t *testing.T) {
	l, table := styledFixture()

	s := NewStyledLine(l, table)

	wantCells := []int{0, 1, 2, 3}
	for offset, want := range wantCells {
		if got := s.CellAt(offset); got != want {
			t.Errorf("CellAt(%d) = %d, want %d", offset, got, want)
		}
	}
	// The wide grapheme is three bytes, all mapping to its leading cell.
	for offset := 4; offset < 7; offset++ {
		if got := s.CellAt(offset); got != 4 {
			t.Errorf("CellAt(%d) = %d, want 4", offset, got)
		}
	}
}

func TestStyledLineRunsSplitOnStyle(t *testing.T) {
	l, table := styledFixture()

	s := NewStyledLine(l, table)

	if !s.StyleAt(0).Bold {
		t.Error("StyleAt(0) not bold")
	}
	if !s.StyleAt(2).Italic {
		t.Error("StyleAt(2) not italic")
	}
	if got := s.StyleAt(0); got.Italic {
		t.Error("bold run leaked italic")
	}
	if s.StyleAt(0) == s.StyleAt(2) {
		t.Error("distinct styles merged into one run")
	}
}

func TestStyledLineBlankCellsExtendAnyRun(t *testing.T) {
	table := hl.NewTable()
	l := NewLine(4)
	l.Cells[0] = Cell{Text: "x"}
	// Cells 1-3 blank with differing highlight ids; spaces shape the
	// same under every style, so one run covers the whole line.
	l.Cells[1].HlID = 3
	l.Cells[2].HlID = 5

	s := NewStyledLine(l, table)

	if got := len(s.Runs); got != 1 {
		t.Errorf("len(Runs) = %d, want 1", got)
	}
}
