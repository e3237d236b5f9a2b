package grid

// Line is one grid row: the cells plus the shaping-cluster groups that
// cover them.
//
// itemLine is indexed by column. Only the starting column of a cluster
// holds items; a cluster shaped into several fallback-font fragments keeps
// all of them in its starting slot. cellToItem maps every covered column
// back to that starting column, or -1 when the column is unbound.
type Line struct {
	Cells []Cell

	itemLine   [][]Item
	cellToItem []int

	// Dirty is true whenever any contained cell is dirty. It is cleared
	// only after a full re-shape pass has processed the line.
	Dirty bool
}

// NewLine creates a blank line with the given number of columns.
func NewLine(columns int) *Line {
	l := &Line{
		Cells:      make([]Cell, columns),
		itemLine:   make([][]Item, columns),
		cellToItem: make([]int, columns),
		Dirty:      true,
	}
	for i := range l.cellToItem {
		l.cellToItem[i] = -1
	}
	return l
}

// Columns returns the line width in cells.
func (l *Line) Columns() int {
	return len(l.Cells)
}

// SwapRange exchanges the cells in [left, right] with target. Both lines
// are marked dirty: a swap can change cluster layout on either side.
func (l *Line) SwapRange(target *Line, left, right int) {
	for i := left; i <= right; i++ {
		l.Cells[i], target.Cells[i] = target.Cells[i], l.Cells[i]
		l.Cells[i].Dirty = true
		target.Cells[i].Dirty = true
	}
	l.Dirty = true
	target.Dirty = true
}

// Clear blanks the cells in [left, right] with the given highlight.
func (l *Line) Clear(left, right int, hlID int64) {
	for i := left; i <= right; i++ {
		l.Cells[i].Clear(hlID)
	}
	l.Dirty = true
}

// ClearGlyphs drops every cluster binding and cached glyph run. Used when
// the font context changes and all shaping output is stale.
func (l *Line) ClearGlyphs() {
	for i := range l.itemLine {
		l.itemLine[i] = nil
		l.cellToItem[i] = -1
	}
	l.Dirty = true
}

// CellToItem returns the starting column of the cluster owning col, or -1
// when the column is not bound to any cluster.
func (l *Line) CellToItem(col int) int {
	return l.cellToItem[col]
}

// IsBoundToItem returns true if col is covered by a cluster.
func (l *Line) IsBoundToItem(col int) bool {
	return l.cellToItem[col] >= 0
}

// ItemsAt returns the items of the cluster owning col. The returned slice
// shares backing with the line so callers may shape items in place.
func (l *Line) ItemsAt(col int) []Item {
	idx := l.cellToItem[col]
	if idx < 0 {
		return nil
	}
	return l.itemLine[idx]
}

// ItemLenFromIdx returns the remaining cell-width of the cluster owning
// startIdx, counted from startIdx. Unbound columns count as width 1. The
// renderer uses this to size background and clip rectangles that span
// multi-cell clusters.
func (l *Line) ItemLenFromIdx(startIdx int) int {
	assertf(startIdx < len(l.Cells), "idx=%d, len=%d", startIdx, len(l.Cells))

	itemIdx := l.cellToItem[startIdx]
	if itemIdx < 0 {
		return 1
	}

	cells := 0
	for i := range l.itemLine[itemIdx] {
		if c := l.itemLine[itemIdx][i].CellsCount; c > cells {
			cells = c
		}
	}
	return cells - (startIdx - itemIdx)
}

// ClusterSpan is one shaping cluster produced for the line's current
// content: an inclusive cell range plus the unshaped items covering it.
type ClusterSpan struct {
	StartCell int
	EndCell   int
	Items     []Item
}

// CellsCount returns the number of columns the span covers.
func (s *ClusterSpan) CellsCount() int {
	return s.EndCell - s.StartCell + 1
}

// freshItems returns copies of the span's items sized to the span width,
// with no cached glyphs.
func (s *ClusterSpan) freshItems() []Item {
	count := s.CellsCount()
	items := make([]Item, len(s.Items))
	for i, it := range s.Items {
		items[i] = NewItem(it.ByteOffset, it.ByteLen, it.Font, count)
	}
	return items
}

// Merge reconciles the line's cluster bindings against the cluster spans
// computed for its current content. Spans must be ordered by StartCell and
// non-overlapping.
//
// Columns no longer covered by any cluster are unbound and dirtied.
// A cluster whose boundaries match the existing binding and whose cells
// are all clean keeps its cached glyphs; everything else is reinitialized.
func (l *Line) Merge(spans []ClusterSpan) {
	si := 0
	cellIdx := 0

	for cellIdx < len(l.Cells) {
		var span *ClusterSpan
		if si < len(spans) {
			span = &spans[si]
		}

		var dirty bool
		switch {
		case span == nil || cellIdx < span.StartCell:
			dirty = l.setCellToEmpty(cellIdx)
			cellIdx++
		case cellIdx == span.StartCell:
			dirty = l.setCellToItem(span)
			cellIdx = span.EndCell + 1
			si++
		default:
			// Span starts behind the walk; skip it.
			si++
		}

		l.Dirty = l.Dirty || dirty
	}
}

func (l *Line) setCellToEmpty(cellIdx int) bool {
	if !l.IsBoundToItem(cellIdx) {
		return false
	}
	l.itemLine[cellIdx] = nil
	l.cellToItem[cellIdx] = -1
	l.Cells[cellIdx].Dirty = true
	return true
}

func (l *Line) setCellToItem(span *ClusterSpan) bool {
	startItemIdx := l.cellToItem[span.StartCell]
	startItemCells := -1
	if startItemIdx >= 0 {
		for i := range l.itemLine[startItemIdx] {
			if c := l.itemLine[startItemIdx][i].CellsCount; c > startItemCells {
				startItemCells = c
			}
		}
	}

	endItemIdx := l.cellToItem[span.EndCell]

	// A changed start column or cell span means the cluster layout moved:
	// rebuild the binding and dirty every covered cell.
	if startItemIdx != span.StartCell || span.CellsCount() != startItemCells ||
		startItemIdx == -1 || endItemIdx == -1 {
		l.initializeCellItem(span)
		return true
	}

	// Same boundaries. Re-shape only if a covered cell changed.
	anyDirty := false
	for i := span.StartCell; i <= span.EndCell; i++ {
		if l.Cells[i].Dirty {
			anyDirty = true
			break
		}
	}
	if !anyDirty {
		return false
	}

	l.itemLine[span.StartCell] = span.freshItems()
	l.Cells[span.StartCell].Dirty = true
	return true
}

func (l *Line) initializeCellItem(span *ClusterSpan) {
	for i := span.StartCell; i <= span.EndCell; i++ {
		l.Cells[i].Dirty = true
		l.cellToItem[i] = span.StartCell
	}
	for i := span.StartCell + 1; i <= span.EndCell; i++ {
		l.itemLine[i] = nil
	}
	l.itemLine[span.StartCell] = span.freshItems()
}
