package shape

import (
	"github.com/dshills/neoview/internal/grid"
	"github.com/dshills/neoview/internal/renderer/core"
)

// Context bundles the shaping engine with the derived cell metrics. It is
// passed explicitly into the shape pass; when the font configuration
// changes the owner rebuilds the context and clears every glyph cache.
type Context struct {
	engine    Engine
	metrics   core.CellMetrics
	lineSpace float64
}

// NewContext creates a shaping context for the given engine.
func NewContext(engine Engine) *Context {
	c := &Context{engine: engine}
	c.recompute()
	return c
}

// Update replaces the engine (font configuration changed) and recomputes
// the cell metrics. Callers must clear the grids' glyph caches afterward.
func (c *Context) Update(engine Engine) {
	c.engine = engine
	c.recompute()
}

// SetLineSpace adds extra vertical space between lines.
func (c *Context) SetLineSpace(px float64) {
	c.lineSpace = px
	c.recompute()
}

func (c *Context) recompute() {
	c.metrics = c.engine.Metrics()
	c.metrics.LineHeight += c.lineSpace
}

// Engine returns the active shaping engine.
func (c *Context) Engine() Engine {
	return c.engine
}

// Metrics returns the nominal cell box, including line spacing.
func (c *Context) Metrics() core.CellMetrics {
	return c.metrics
}

// Itemize computes the cluster spans for a flattened line: itemizer
// clusters, segmented by font coverage, refined against fallback splits,
// and mapped back to cell ranges.
func (c *Context) Itemize(line *grid.StyledLine) []grid.ClusterSpan {
	var spans []grid.ClusterSpan

	it := NewItemizer(line.Text)
	for {
		cl, ok := it.Next()
		if !ok {
			break
		}

		text := line.Text[cl.Offset : cl.Offset+cl.Len]
		style := line.StyleAt(cl.Offset)
		attrs := TextAttrs{Bold: style.Bold, Italic: style.Italic}

		frags := c.engine.Segment(text, attrs)
		if cl.AvoidBreak && len(frags) > 1 {
			frags = c.refine(text, attrs, frags)
		}

		spans = appendFragmentSpans(spans, line, cl.Offset, frags)
	}

	return spans
}

// refine handles an avoid-break cluster the engine split across fonts,
// which usually means the primary font lacks some of its glyphs. Shaping
// a composed sequence in pieces breaks rendering, so retry the whole
// cluster under each distinct fallback font and keep whichever attempt
// yields the fewest fragments, preferring a single one. The original
// split stands if no fallback improves on it.
func (c *Context) refine(text string, attrs TextAttrs, first []Fragment) []Fragment {
	primary := c.engine.PrimaryFont().Key()

	seen := make(map[string]struct{}, len(first)-1)
	var best []Fragment
	for _, frag := range first {
		if frag.Font == nil || frag.Font.Key() == primary {
			continue
		}
		key := frag.Font.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		res := c.engine.SegmentWith(frag.Font, text, attrs)
		cur := best
		if cur == nil {
			cur = first
		}
		if len(res) == 1 || len(res) < len(cur) {
			best = res
			if len(res) == 1 {
				break
			}
		}
	}

	if best == nil {
		return first
	}
	return best
}

// appendFragmentSpans converts one cluster's fragments into cell-mapped
// spans. Consecutive fragments that share cells collapse into one span
// and render as one unit; fragments on disjoint cells become separate
// spans so partial re-shaping stays fine grained.
func appendFragmentSpans(spans []grid.ClusterSpan, line *grid.StyledLine, base int, frags []Fragment) []grid.ClusterSpan {
	open := -1
	for _, frag := range frags {
		if frag.Len == 0 {
			continue
		}
		startByte := base + frag.Offset
		endByte := startByte + frag.Len - 1
		startCell := line.CellAt(startByte)
		endCell := line.CellAt(endByte)

		item := grid.NewItem(startByte, frag.Len, frag.Font, 1)

		if open >= 0 && startCell <= spans[open].EndCell {
			if endCell > spans[open].EndCell {
				spans[open].EndCell = endCell
			}
			spans[open].Items = append(spans[open].Items, item)
			continue
		}

		spans = append(spans, grid.ClusterSpan{
			StartCell: startCell,
			EndCell:   endCell,
			Items:     []grid.Item{item},
		})
		open = len(spans) - 1
	}
	return spans
}
