package grid

import (
	"fmt"

	"github.com/dshills/neoview/internal/logger"
)

// ErrUnknownGrid reports an operation targeting a grid id that was never
// created. In release builds callers log it and move on; under the
// debugasserts build tag the store panics instead, since an unknown id is
// a protocol violation by the producer.
var ErrUnknownGrid = fmt.Errorf("unknown grid")

// DefaultGridID is the id of the main screen grid.
const DefaultGridID = 1

// Store owns every live grid, keyed by the protocol's integer grid id.
type Store struct {
	grids map[int64]*Grid
}

// NewStore creates an empty grid store.
func NewStore() *Store {
	return &Store{grids: make(map[int64]*Grid)}
}

// Get returns the grid with the given id.
func (s *Store) Get(id int64) (*Grid, bool) {
	g, ok := s.grids[id]
	return g, ok
}

// Default returns the main screen grid, if it exists.
func (s *Store) Default() (*Grid, bool) {
	return s.Get(DefaultGridID)
}

// Len returns the number of live grids.
func (s *Store) Len() int {
	return len(s.grids)
}

// Each calls fn for every live grid.
func (s *Store) Each(fn func(*Grid)) {
	for _, g := range s.grids {
		fn(g)
	}
}

// Resize creates the grid if absent, otherwise resizes it in place
// preserving the overlapping top-left rectangle.
func (s *Store) Resize(id int64, columns, rows int) *Grid {
	if g, ok := s.grids[id]; ok {
		g.Resize(columns, rows)
		return g
	}
	g := NewGrid(id, columns, rows)
	s.grids[id] = g
	return g
}

// Clear blanks every cell of the grid with the given highlight.
func (s *Store) Clear(id int64, hlID int64) error {
	g, ok := s.grids[id]
	if !ok {
		return s.unknown("grid_clear", id)
	}
	g.Clear(hlID)
	return nil
}

// UpdateLine applies a line-update to the grid.
func (s *Store) UpdateLine(id int64, row, colStart int, cells []CellUpdate) error {
	g, ok := s.grids[id]
	if !ok {
		return s.unknown("grid_line", id)
	}
	g.UpdateLine(row, colStart, cells)
	return nil
}

// Scroll shifts a sub-rectangle of the grid.
func (s *Store) Scroll(id int64, top, bot, left, right, rowDelta, colDelta int) error {
	g, ok := s.grids[id]
	if !ok {
		return s.unknown("grid_scroll", id)
	}
	g.Scroll(top, bot, left, right, rowDelta, colDelta)
	return nil
}

// CursorGoto updates the stored cursor position of the grid.
func (s *Store) CursorGoto(id int64, row, col int) error {
	g, ok := s.grids[id]
	if !ok {
		return s.unknown("grid_cursor_goto", id)
	}
	g.CursorGoto(row, col)
	return nil
}

// Destroy removes the grid. Destroying an unknown grid is not an error:
// the producer may destroy grids it never drew to.
func (s *Store) Destroy(id int64) {
	delete(s.grids, id)
}

// ClearGlyphCaches invalidates cached glyph runs on every grid. Called on
// font context changes.
func (s *Store) ClearGlyphCaches() {
	for _, g := range s.grids {
		g.ClearGlyphCache()
	}
}

// FlushCursors commits pending cursor positions on every grid.
func (s *Store) FlushCursors() {
	for _, g := range s.grids {
		g.FlushCursor()
	}
}

func (s *Store) unknown(op string, id int64) error {
	logger.Error("operation on unknown grid", "op", op, "grid", id)
	assertf(false, "%s: unknown grid %d", op, id)
	return fmt.Errorf("%s: %w %d", op, ErrUnknownGrid, id)
}
