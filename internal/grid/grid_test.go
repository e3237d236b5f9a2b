package grid

import (
	"errors"
	"testing"

	"github.com/dshills/neoview/internal/logger"
)

func init() {
	logger.InitNop()
}

func TestUpdateLineExpandsRepeats(t *testing.T) {
	g := NewGrid(1, 10, 2)

	g.UpdateLine(0, 0, []CellUpdate{
		{Text: "A", HlID: 4, Repeat: 3},
		{Text: "B", HlID: 4, Repeat: 1},
	})

	line := g.Line(0)
	for col := 0; col < 3; col++ {
		if got := line.Cells[col].Text; got != "A" {
			t.Errorf("cell %d text = %q, want %q", col, got, "A")
		}
		if got := line.Cells[col].HlID; got != 4 {
			t.Errorf("cell %d hl = %d, want 4", col, got)
		}
	}
	if got := line.Cells[3].Text; got != "B" {
		t.Errorf("cell 3 text = %q, want %q", got, "B")
	}
	if !line.Dirty {
		t.Error("line not marked dirty")
	}
}

func TestUpdateLineZeroRepeatWritesOnce(t *testing.T) {
	g := NewGrid(1, 5, 1)

	g.UpdateLine(0, 0, []CellUpdate{{Text: "x", Repeat: 0}})

	if got := g.Line(0).Cells[0].Text; got != "x" {
		t.Errorf("cell 0 text = %q, want %q", got, "x")
	}
	if got := g.Line(0).Cells[1].Text; got != "" {
		t.Errorf("cell 1 text = %q, want blank", got)
	}
}

func TestUpdateLineMarksDoubleWidthContinuation(t *testing.T) {
	g := NewGrid(1, 5, 1)

	g.UpdateLine(0, 0, []CellUpdate{
		{Text: "あ", Repeat: 1},
		{Text: "", Repeat: 1},
	})

	line := g.Line(0)
	if line.Cells[0].DoubleWidth {
		t.Error("leading cell marked as continuation")
	}
	if !line.Cells[1].DoubleWidth {
		t.Error("continuation cell not marked")
	}
}

func TestUpdateLineClipsPastRightEdge(t *testing.T) {
	g := NewGrid(1, 4, 1)

	g.UpdateLine(0, 2, []CellUpdate{{Text: "z", Repeat: 5}})

	line := g.Line(0)
	for col := 2; col < 4; col++ {
		if got := line.Cells[col].Text; got != "z" {
			t.Errorf("cell %d text = %q, want %q", col, got, "z")
		}
	}
}

func TestUpdateLineRowOutOfRangeIgnored(t *testing.T) {
	g := NewGrid(1, 4, 2)

	g.UpdateLine(5, 0, []CellUpdate{{Text: "x", Repeat: 1}})
	g.UpdateLine(-1, 0, []CellUpdate{{Text: "x", Repeat: 1}})
}

func TestResizePreservesTopLeft(t *testing.T) {
	g := NewGrid(1, 4, 3)
	g.UpdateLine(0, 0, []CellUpdate{{Text: "a", Repeat: 1}, {Text: "b", Repeat: 1}})
	g.UpdateLine(2, 0, []CellUpdate{{Text: "c", Repeat: 1}})

	g.Resize(6, 2)

	if got, want := g.Columns(), 6; got != want {
		t.Errorf("Columns() = %d, want %d", got, want)
	}
	if got, want := g.Rows(), 2; got != want {
		t.Errorf("Rows() = %d, want %d", got, want)
	}
	if got := g.Line(0).Cells[0].Text; got != "a" {
		t.Errorf("kept cell = %q, want %q", got, "a")
	}
	if got := g.Line(0).Cells[5].Text; got != "" {
		t.Errorf("new cell = %q, want blank", got)
	}
}

func TestResizeClampsCursor(t *testing.T) {
	g := NewGrid(1, 10, 10)
	g.CursorGoto(8, 9)
	g.FlushCursor()

	g.Resize(4, 4)

	row, col := g.Cursor()
	if row != 3 || col != 3 {
		t.Errorf("cursor = (%d, %d), want (3, 3)", row, col)
	}
}

func TestScrollUpMovesRows(t *testing.T) {
	g := NewGrid(1, 3, 5)
	for row := 0; row < 5; row++ {
		text := string(rune('a' + row))
		g.UpdateLine(row, 0, []CellUpdate{{Text: text, Repeat: 3}})
	}

	// Content moves up by two rows inside the full rectangle.
	g.Scroll(0, 5, 0, 3, 2, 0)

	for row := 0; row < 3; row++ {
		want := string(rune('a' + row + 2))
		if got := g.Line(row).Cells[0].Text; got != want {
			t.Errorf("row %d text = %q, want %q", row, got, want)
		}
	}
}

func TestScrollDownMovesRows(t *testing.T) {
	g := NewGrid(1, 3, 5)
	for row := 0; row < 5; row++ {
		text := string(rune('a' + row))
		g.UpdateLine(row, 0, []CellUpdate{{Text: text, Repeat: 3}})
	}

	g.Scroll(0, 5, 0, 3, -2, 0)

	for row := 2; row < 5; row++ {
		want := string(rune('a' + row - 2))
		if got := g.Line(row).Cells[0].Text; got != want {
			t.Errorf("row %d text = %q, want %q", row, got, want)
		}
	}
}

func TestScrollRoundTripRestoresRows(t *testing.T) {
	g := NewGrid(1, 3, 5)
	for row := 0; row < 5; row++ {
		text := string(rune('a' + row))
		g.UpdateLine(row, 0, []CellUpdate{{Text: text, Repeat: 3}})
	}

	g.Scroll(0, 5, 0, 3, 2, 0)
	g.Scroll(0, 5, 0, 3, -2, 0)

	// Rows 0 and 1 were vacated by the downward scroll and carry no
	// guarantee; everything below must read exactly as before.
	for row := 2; row < 5; row++ {
		want := string(rune('a' + row))
		if got := g.Line(row).Cells[0].Text; got != want {
			t.Errorf("row %d text = %q, want %q", row, got, want)
		}
	}
}

func TestScrollPartialColumnsLeavesRest(t *testing.T) {
	g := NewGrid(1, 6, 3)
	for row := 0; row < 3; row++ {
		text := string(rune('a' + row))
		g.UpdateLine(row, 0, []CellUpdate{{Text: text, Repeat: 6}})
	}

	g.Scroll(0, 3, 0, 3, 1, 0)

	if got := g.Line(0).Cells[0].Text; got != "b" {
		t.Errorf("scrolled cell = %q, want %q", got, "b")
	}
	if got := g.Line(0).Cells[4].Text; got != "a" {
		t.Errorf("outside cell = %q, want %q", got, "a")
	}
}

func TestCursorPendingUntilFlush(t *testing.T) {
	g := NewGrid(1, 10, 10)
	g.CursorGoto(3, 4)

	if row, col := g.Cursor(); row != 0 || col != 0 {
		t.Errorf("Cursor() = (%d, %d), want (0, 0) before flush", row, col)
	}
	if row, col := g.RealCursor(); row != 3 || col != 4 {
		t.Errorf("RealCursor() = (%d, %d), want (3, 4)", row, col)
	}

	g.FlushCursor()
	if row, col := g.Cursor(); row != 3 || col != 4 {
		t.Errorf("Cursor() = (%d, %d), want (3, 4) after flush", row, col)
	}
}

func TestCursorDoubleWidth(t *testing.T) {
	g := NewGrid(1, 5, 1)
	g.UpdateLine(0, 1, []CellUpdate{
		{Text: "あ", Repeat: 1},
		{Text: "", Repeat: 1},
	})

	g.CursorGoto(0, 1)
	if !g.CursorDoubleWidth() {
		t.Error("CursorDoubleWidth() = false on wide grapheme")
	}

	g.CursorGoto(0, 0)
	if g.CursorDoubleWidth() {
		t.Error("CursorDoubleWidth() = true on narrow cell")
	}
}

func TestClearBlanksWithHighlight(t *testing.T) {
	g := NewGrid(1, 3, 2)
	g.UpdateLine(0, 0, []CellUpdate{{Text: "x", HlID: 2, Repeat: 3}})

	g.Clear(7)

	for row := 0; row < 2; row++ {
		for col := 0; col < 3; col++ {
			cell := g.Line(row).Cells[col]
			if !cell.IsBlank() {
				t.Errorf("cell (%d, %d) not blank", row, col)
			}
			if cell.HlID != 7 {
				t.Errorf("cell (%d, %d) hl = %d, want 7", row, col, cell.HlID)
			}
		}
	}
}

func TestStoreUnknownGrid(t *testing.T) {
	s := NewStore()

	err := s.UpdateLine(9, 0, 0, []CellUpdate{{Text: "x", Repeat: 1}})
	if !errors.Is(err, ErrUnknownGrid) {
		t.Errorf("UpdateLine() error = %v, want ErrUnknownGrid", err)
	}
	if err := s.CursorGoto(9, 0, 0); !errors.Is(err, ErrUnknownGrid) {
		t.Errorf("CursorGoto() error = %v, want ErrUnknownGrid", err)
	}
}

func TestStoreResizeCreatesThenResizes(t *testing.T) {
	s := NewStore()

	g := s.Resize(DefaultGridID, 80, 24)
	if got, ok := s.Default(); !ok || got != g {
		t.Fatal("Default() did not return the created grid")
	}

	again := s.Resize(DefaultGridID, 100, 30)
	if again != g {
		t.Error("Resize created a new grid instead of resizing in place")
	}
	if g.Columns() != 100 || g.Rows() != 30 {
		t.Errorf("grid size = %dx%d, want 100x30", g.Columns(), g.Rows())
	}
}

func TestStoreDestroyIsIdempotent(t *testing.T) {
	s := NewStore()
	s.Resize(2, 10, 10)

	s.Destroy(2)
	s.Destroy(2)

	if _, ok := s.Get(2); ok {
		t.Error("grid still present after destroy")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}
