// Package hl resolves highlight ids to color and attribute records.
//
// Highlights are interned behind the small integer ids the UI protocol
// already uses; cells store the id and equality checks reduce to integer
// comparison.
package hl

import (
	"github.com/dshills/neoview/internal/logger"
	"github.com/dshills/neoview/internal/renderer/core"
)

// UnderlineStyle selects the underline variant of a highlight.
type UnderlineStyle uint8

// Underline variants.
const (
	UnderlineNone UnderlineStyle = iota
	UnderlineSingle
	UnderlineDouble
	UnderlineDashed
	UnderlineDotted
	UnderlineCurly
)

// String returns the attribute name of the underline style.
func (u UnderlineStyle) String() string {
	switch u {
	case UnderlineNone:
		return "none"
	case UnderlineSingle:
		return "underline"
	case UnderlineDouble:
		return "underdouble"
	case UnderlineDashed:
		return "underdashed"
	case UnderlineDotted:
		return "underdotted"
	case UnderlineCurly:
		return "undercurl"
	default:
		return "unknown"
	}
}

// Highlight is a resolved style record. Values are immutable once created;
// hl_attr_define replaces the record under an id wholesale.
type Highlight struct {
	Foreground *core.Color
	Background *core.Color
	Special    *core.Color

	Bold          bool
	Italic        bool
	Reverse       bool
	Strikethrough bool
	Underline     UnderlineStyle

	// Blend is the pmenu transparency level, 0-100.
	Blend uint8
}

// NewHighlight returns an empty highlight with every attribute unset.
func NewHighlight() *Highlight {
	return &Highlight{}
}

// HighlightFromAttrs parses an hl_attr_define attribute map into a
// Highlight. Unknown attribute keys are logged and skipped.
func HighlightFromAttrs(attrs map[string]interface{}) *Highlight {
	h := NewHighlight()

	for key, val := range attrs {
		switch key {
		case "foreground":
			if v, ok := asUint(val); ok {
				c := core.ColorFromRGB24(v)
				h.Foreground = &c
			}
		case "background":
			if v, ok := asUint(val); ok {
				c := core.ColorFromRGB24(v)
				h.Background = &c
			}
		case "special":
			if v, ok := asUint(val); ok {
				c := core.ColorFromRGB24(v)
				h.Special = &c
			}
		case "standout":
			h.Bold = true
			h.Reverse = true
		case "reverse":
			h.Reverse = true
		case "bold":
			h.Bold = true
		case "italic":
			h.Italic = true
		case "underline":
			h.Underline = UnderlineSingle
		case "underdouble":
			h.Underline = UnderlineDouble
		case "underdashed":
			h.Underline = UnderlineDashed
		case "underdotted":
			h.Underline = UnderlineDotted
		case "undercurl":
			h.Underline = UnderlineCurly
		case "strikethrough":
			h.Strikethrough = true
		case "blend":
			if v, ok := asUint(val); ok && v <= 100 {
				h.Blend = uint8(v)
			}
		default:
			logger.Warn("unknown highlight attribute", "key", key)
		}
	}

	return h
}

// Equals reports whether two highlights resolve identically.
func (h *Highlight) Equals(other *Highlight) bool {
	if h == other {
		return true
	}
	if h == nil || other == nil {
		return false
	}
	return colorEq(h.Foreground, other.Foreground) &&
		colorEq(h.Background, other.Background) &&
		colorEq(h.Special, other.Special) &&
		h.Bold == other.Bold &&
		h.Italic == other.Italic &&
		h.Reverse == other.Reverse &&
		h.Strikethrough == other.Strikethrough &&
		h.Underline == other.Underline &&
		h.Blend == other.Blend
}

func colorEq(a, b *core.Color) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func asUint(val interface{}) (uint64, bool) {
	switch v := val.(type) {
	case uint64:
		return v, true
	case int64:
		if v >= 0 {
			return uint64(v), true
		}
	case int:
		if v >= 0 {
			return uint64(v), true
		}
	case uint:
		return uint64(v), true
	}
	return 0, false
}
