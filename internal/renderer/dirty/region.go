// Package dirty tracks damaged grid regions between flushes and coalesces
// adjacent or overlapping regions so a frontend repaints as little of the
// window as possible.
package dirty

// Region is a rectangular grid region that needs repainting. Rows are
// inclusive on both ends; columns are half-open [StartCol, EndCol).
type Region struct {
	// StartRow is the first row of the region (inclusive).
	StartRow int

	// EndRow is the last row of the region (inclusive).
	EndRow int

	// StartCol is the first column of the region (inclusive).
	// Ignored when FullWidth is true.
	StartCol int

	// EndCol is the column past the last one (exclusive).
	// Ignored when FullWidth is true.
	EndCol int

	// FullWidth indicates the region spans the entire grid width.
	FullWidth bool
}

// RowSpan creates a region covering full rows.
func RowSpan(startRow, endRow int) Region {
	if endRow < startRow {
		startRow, endRow = endRow, startRow
	}
	return Region{
		StartRow:  startRow,
		EndRow:    endRow,
		FullWidth: true,
	}
}

// Row creates a region covering a single full row.
func Row(row int) Region {
	return Region{
		StartRow:  row,
		EndRow:    row,
		FullWidth: true,
	}
}

// Cells creates a region covering a column range of one row.
func Cells(row, startCol, endCol int) Region {
	if endCol < startCol {
		startCol, endCol = endCol, startCol
	}
	return Region{
		StartRow: row,
		EndRow:   row,
		StartCol: startCol,
		EndCol:   endCol,
	}
}

// IsEmpty returns true if the region covers no cells.
func (r Region) IsEmpty() bool {
	if r.StartRow > r.EndRow {
		return true
	}
	if !r.FullWidth && r.StartCol >= r.EndCol {
		return true
	}
	return false
}

// RowCount returns the number of rows covered by the region.
func (r Region) RowCount() int {
	if r.StartRow > r.EndRow {
		return 0
	}
	return r.EndRow - r.StartRow + 1
}

// ContainsRow returns true if the region covers the given row.
func (r Region) ContainsRow(row int) bool {
	return row >= r.StartRow && row <= r.EndRow
}

// Overlaps returns true if two regions share at least one cell.
func (r Region) Overlaps(other Region) bool {
	if r.EndRow < other.StartRow || r.StartRow > other.EndRow {
		return false
	}
	if r.FullWidth || other.FullWidth {
		return true
	}
	if r.EndCol <= other.StartCol || r.StartCol >= other.EndCol {
		return false
	}
	return true
}

// Adjacent returns true if two regions touch and merging them loses nothing.
func (r Region) Adjacent(other Region) bool {
	if r.EndRow+1 == other.StartRow || other.EndRow+1 == r.StartRow {
		if r.FullWidth && other.FullWidth {
			return true
		}
		if !r.FullWidth && !other.FullWidth {
			return r.StartCol == other.StartCol && r.EndCol == other.EndCol
		}
		return false
	}
	if !r.FullWidth && !other.FullWidth {
		if r.StartRow <= other.EndRow && r.EndRow >= other.StartRow {
			if r.EndCol == other.StartCol || other.EndCol == r.StartCol {
				return true
			}
		}
	}
	return false
}

// Merge combines two regions into one covering both. The second return is
// false when the regions neither overlap nor touch, in which case merging
// would dirty cells that are actually clean.
func (r Region) Merge(other Region) (Region, bool) {
	if !r.Overlaps(other) && !r.Adjacent(other) {
		return Region{}, false
	}

	merged := Region{
		StartRow: min(r.StartRow, other.StartRow),
		EndRow:   max(r.EndRow, other.EndRow),
	}
	if r.FullWidth || other.FullWidth {
		merged.FullWidth = true
	} else {
		merged.StartCol = min(r.StartCol, other.StartCol)
		merged.EndCol = max(r.EndCol, other.EndCol)
	}
	return merged, true
}

// Equals returns true if two regions are identical.
func (r Region) Equals(other Region) bool {
	return r.StartRow == other.StartRow &&
		r.EndRow == other.EndRow &&
		r.StartCol == other.StartCol &&
		r.EndCol == other.EndCol &&
		r.FullWidth == other.FullWidth
}
