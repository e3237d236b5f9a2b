package core

// CellMetrics describes the nominal cell box derived from the font.
// All values are in pixels.
type CellMetrics struct {
	LineHeight float64
	CharWidth  float64
	Ascent     float64
	Descent    float64

	UnderlinePosition      float64
	UnderlineThickness     float64
	StrikethroughPosition  float64
	StrikethroughThickness float64
}

// PixelCoords translates grid coordinates into pixel coordinates.
func (m CellMetrics) PixelCoords(row, col int) (x, y float64) {
	return m.CharWidth * float64(col), m.LineHeight * float64(row)
}

// CellLen converts a count of cells to its length in pixels.
func (m CellMetrics) CellLen(cells int) float64 {
	return m.CharWidth * float64(cells)
}
