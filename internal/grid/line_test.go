package grid

import (
	"testing"

	"github.com/dshills/neoview/internal/renderer/core"
)

type testFont string

func (f testFont) Key() string { return string(f) }

func span(start, end, byteOffset, byteLen int) ClusterSpan {
	return ClusterSpan{
		StartCell: start,
		EndCell:   end,
		Items:     []Item{NewItem(byteOffset, byteLen, testFont("t"), end - start + 1)},
	}
}

func shapeItem(l *Line, col int) {
	items := l.ItemsAt(col)
	run := core.GlyphRun{Font: testFont("t"), Width: 1}
	items[0].SetGlyphs(core.CellMetrics{LineHeight: 1, CharWidth: 1}, run)
}

func clearDirty(l *Line) {
	for i := range l.Cells {
		l.Cells[i].Dirty = false
	}
	l.Dirty = false
}

func TestMergeBindsClusters(t *testing.T) {
	l := NewLine(6)

	l.Merge([]ClusterSpan{span(0, 0, 0, 1), span(2, 3, 2, 2)})

	if got := l.CellToItem(0); got != 0 {
		t.Errorf("CellToItem(0) = %d, want 0", got)
	}
	if l.IsBoundToItem(1) {
		t.Error("cell 1 bound, want unbound")
	}
	for col := 2; col <= 3; col++ {
		if got := l.CellToItem(col); got != 2 {
			t.Errorf("CellToItem(%d) = %d, want 2", col, got)
		}
	}
	if got := l.ItemLenFromIdx(2); got != 2 {
		t.Errorf("ItemLenFromIdx(2) = %d, want 2", got)
	}
	if got := l.ItemLenFromIdx(3); got != 1 {
		t.Errorf("ItemLenFromIdx(3) = %d, want 1", got)
	}
}

func TestMergeKeepsCleanClusterGlyphs(t *testing.T) {
	l := NewLine(4)
	spans := []ClusterSpan{span(0, 1, 0, 2)}

	l.Merge(spans)
	shapeItem(l, 0)
	clearDirty(l)

	l.Merge(spans)

	if l.ItemsAt(0)[0].Glyphs() == nil {
		t.Error("clean cluster lost its cached glyphs")
	}
	if l.Dirty {
		t.Error("line dirtied by no-op merge")
	}
}

func TestMergeReshapesDirtyCluster(t *testing.T) {
	l := NewLine(4)
	spans := []ClusterSpan{span(0, 1, 0, 2)}

	l.Merge(spans)
	shapeItem(l, 0)
	clearDirty(l)
	l.Cells[1].Dirty = true

	l.Merge(spans)

	if l.ItemsAt(0)[0].Glyphs() != nil {
		t.Error("dirty cluster kept stale glyphs")
	}
	if !l.Dirty {
		t.Error("line not marked dirty")
	}
}

func TestMergeRebindsMovedCluster(t *testing.T) {
	l := NewLine(4)

	l.Merge([]ClusterSpan{span(0, 1, 0, 2)})
	shapeItem(l, 0)
	clearDirty(l)

	// The cluster now covers three cells; the old binding must go.
	l.Merge([]ClusterSpan{span(0, 2, 0, 3)})

	if got := l.CellToItem(2); got != 0 {
		t.Errorf("CellToItem(2) = %d, want 0", got)
	}
	if l.ItemsAt(0)[0].Glyphs() != nil {
		t.Error("moved cluster kept stale glyphs")
	}
}

func TestMergeUnbindsUncoveredCells(t *testing.T) {
	l := NewLine(4)

	l.Merge([]ClusterSpan{span(0, 3, 0, 4)})
	clearDirty(l)

	l.Merge([]ClusterSpan{span(0, 0, 0, 1)})

	if !l.IsBoundToItem(0) {
		t.Error("cell 0 unbound, want bound")
	}
	for col := 1; col < 4; col++ {
		if l.IsBoundToItem(col) {
			t.Errorf("cell %d still bound", col)
		}
		if !l.Cells[col].Dirty {
			t.Errorf("cell %d not dirtied by unbind", col)
		}
	}
}

func TestSwapRangeDirtiesBothLines(t *testing.T) {
	a := NewLine(4)
	b := NewLine(4)
	a.Cells[1].Text = "x"
	b.Cells[1].Text = "y"
	clearDirty(a)
	clearDirty(b)

	a.SwapRange(b, 1, 2)

	if got := a.Cells[1].Text; got != "y" {
		t.Errorf("a cell 1 = %q, want %q", got, "y")
	}
	if got := b.Cells[1].Text; got != "x" {
		t.Errorf("b cell 1 = %q, want %q", got, "x")
	}
	if !a.Dirty || !b.Dirty {
		t.Error("swap did not dirty both lines")
	}
}
