package dirty

import "sync"

// Tracker accumulates damaged regions of one grid between flushes and
// coalesces them. Protocol events arrive on the session goroutine while
// the frontend paints on its own thread, so the tracker is safe for
// concurrent use.
type Tracker struct {
	mu sync.RWMutex

	regions []Region

	// fullRedraw indicates the entire grid needs repainting.
	fullRedraw bool

	// maxRegions is the region count that forces a full redraw.
	maxRegions int

	rows int
	cols int

	// coalesceThreshold is the fraction of the grid area that, once
	// dirty, makes a full repaint cheaper than patching.
	coalesceThreshold float64
}

// NewTracker creates a tracker for a grid of the given dimensions.
func NewTracker(cols, rows int) *Tracker {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	return &Tracker{
		regions:           make([]Region, 0, 16),
		maxRegions:        32,
		rows:              rows,
		cols:              cols,
		coalesceThreshold: 0.5,
	}
}

// SetGridSize updates the grid dimensions. A resize invalidates every
// painted cell, so the whole grid is marked dirty.
func (t *Tracker) SetGridSize(cols, rows int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	t.cols = cols
	t.rows = rows
	t.fullRedraw = true
	t.regions = t.regions[:0]
}

// Size returns the tracked grid dimensions.
func (t *Tracker) Size() (cols, rows int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cols, t.rows
}

// MarkAll marks the entire grid as needing repaint.
func (t *Tracker) MarkAll() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.fullRedraw = true
	t.regions = t.regions[:0]
}

// MarkRow marks a single row as dirty.
func (t *Tracker) MarkRow(row int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.add(Row(row))
}

// MarkRows marks a range of rows as dirty, both ends inclusive.
func (t *Tracker) MarkRows(startRow, endRow int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.add(RowSpan(startRow, endRow))
}

// MarkCells marks the cells [startCol, endCol) of one row as dirty.
func (t *Tracker) MarkCells(row, startCol, endCol int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.add(Cells(row, startCol, endCol))
}

// MarkRegion marks an arbitrary region as dirty.
func (t *Tracker) MarkRegion(region Region) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.add(region)
}

func (t *Tracker) add(region Region) {
	if t.fullRedraw || region.IsEmpty() || t.rows == 0 {
		return
	}

	if region.StartRow >= t.rows {
		region.StartRow = t.rows - 1
	}
	if region.EndRow >= t.rows {
		region.EndRow = t.rows - 1
	}
	if region.IsEmpty() {
		return
	}

	merged := false
	for i := range t.regions {
		if m, ok := t.regions[i].Merge(region); ok {
			t.regions[i] = m
			merged = true
			break
		}
	}
	if !merged {
		t.regions = append(t.regions, region)
	}

	if merged || len(t.regions) > t.maxRegions {
		t.coalesce()
	}
	if t.dirtyRatio() > t.coalesceThreshold {
		t.fullRedraw = true
		t.regions = t.regions[:0]
	}
}

// coalesce merges overlapping or adjacent regions. Quadratic, but the
// region count is capped at maxRegions.
func (t *Tracker) coalesce() {
	changed := true
	for changed && len(t.regions) > 1 {
		changed = false
		for i := 0; i < len(t.regions) && !changed; i++ {
			for j := i + 1; j < len(t.regions); j++ {
				if m, ok := t.regions[i].Merge(t.regions[j]); ok {
					t.regions[i] = m
					t.regions = append(t.regions[:j], t.regions[j+1:]...)
					changed = true
					break
				}
			}
		}
	}
}

func (t *Tracker) dirtyRatio() float64 {
	if t.rows == 0 || t.cols == 0 {
		return 0
	}
	total := float64(t.rows) * float64(t.cols)
	dirty := 0.0
	for _, r := range t.regions {
		rows := float64(r.RowCount())
		if r.FullWidth {
			dirty += rows * float64(t.cols)
		} else {
			dirty += rows * float64(r.EndCol-r.StartCol)
		}
	}
	return dirty / total
}

// IsDirty returns true if anything is marked dirty.
func (t *Tracker) IsDirty() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.fullRedraw || len(t.regions) > 0
}

// NeedsFullRedraw returns true if the whole grid must repaint.
func (t *Tracker) NeedsFullRedraw() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.fullRedraw
}

// Regions returns a copy of the dirty regions. When a full redraw is
// pending it returns a single region covering the grid.
func (t *Tracker) Regions() []Region {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.fullRedraw {
		if t.rows == 0 {
			return nil
		}
		return []Region{RowSpan(0, t.rows-1)}
	}
	out := make([]Region, len(t.regions))
	copy(out, t.regions)
	return out
}

// IsRowDirty returns true if the given row needs repainting.
func (t *Tracker) IsRowDirty(row int) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.fullRedraw {
		return true
	}
	for _, r := range t.regions {
		if r.ContainsRow(row) {
			return true
		}
	}
	return false
}

// IsRegionDirty returns true if any part of the region needs repainting.
func (t *Tracker) IsRegionDirty(region Region) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.fullRedraw {
		return true
	}
	for _, r := range t.regions {
		if r.Overlaps(region) {
			return true
		}
	}
	return false
}

// Clear resets the tracker after the frontend has repainted.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.regions = t.regions[:0]
	t.fullRedraw = false
}

// RegionCount returns the number of pending regions.
func (t *Tracker) RegionCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.fullRedraw {
		return 1
	}
	return len(t.regions)
}
