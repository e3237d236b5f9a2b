// Package grid owns the per-surface character buffers of the UI model.
//
// A Grid is one addressable surface (the main screen or an overlay),
// identified by the stable integer id the protocol assigns. Each Line
// additionally carries the cell-to-shaping-cluster mapping that drives
// incremental re-shaping.
package grid

// Cell is one grid column's content.
type Cell struct {
	// Text is the grapheme cluster displayed in this cell.
	// Empty means blank.
	Text string

	// HlID is the interned highlight id for this cell.
	HlID int64

	// DoubleWidth marks the trailing continuation cell of a double-width
	// grapheme. The leading cell holds the text; this one stays empty.
	DoubleWidth bool

	// Dirty is set whenever the cell's text or highlight changes and is
	// cleared by the next re-shape pass.
	Dirty bool
}

// Clear resets the cell to a blank with the given highlight.
func (c *Cell) Clear(hlID int64) {
	c.Text = ""
	c.HlID = hlID
	c.DoubleWidth = false
	c.Dirty = true
}

// IsBlank returns true if the cell has no visible text.
func (c *Cell) IsBlank() bool {
	return c.Text == "" || c.Text == " "
}
