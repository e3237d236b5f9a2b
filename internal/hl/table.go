package hl

import (
	"github.com/dshills/neoview/internal/renderer/core"
)

// BackgroundState tracks the 'background' option in Neovim, which selects
// the default color pair when no explicit defaults have been set.
type BackgroundState uint8

// Background states.
const (
	BackgroundDark BackgroundState = iota
	BackgroundLight
)

// Role is a named highlight slot that parts of the UI depend on.
type Role uint8

// Named roles.
const (
	RolePmenu Role = iota
	RolePmenuSel
	RoleCursor
)

// Updates reports which named roles were rebound by a Define call, so
// dependent caches can invalidate themselves without polling.
type Updates struct {
	Pmenu  bool
	Cursor bool
}

// Any returns true if any role changed.
func (u Updates) Any() bool {
	return u.Pmenu || u.Cursor
}

// ctermPalette is the standard 16-color ANSI palette used to substitute
// the default colors in indexed-color mode.
var ctermPalette = [16]core.Color{
	{R: 0x00, G: 0x00, B: 0x00}, // black
	{R: 0x80, G: 0x00, B: 0x00}, // red
	{R: 0x00, G: 0x80, B: 0x00}, // green
	{R: 0x80, G: 0x80, B: 0x00}, // yellow
	{R: 0x00, G: 0x00, B: 0x80}, // blue
	{R: 0x80, G: 0x00, B: 0x80}, // magenta
	{R: 0x00, G: 0x80, B: 0x80}, // cyan
	{R: 0xC0, G: 0xC0, B: 0xC0}, // white
	{R: 0x80, G: 0x80, B: 0x80}, // bright black
	{R: 0xFF, G: 0x00, B: 0x00}, // bright red
	{R: 0x00, G: 0xFF, B: 0x00}, // bright green
	{R: 0xFF, G: 0xFF, B: 0x00}, // bright yellow
	{R: 0x00, G: 0x00, B: 0xFF}, // bright blue
	{R: 0xFF, G: 0x00, B: 0xFF}, // bright magenta
	{R: 0x00, G: 0xFF, B: 0xFF}, // bright cyan
	{R: 0xFF, G: 0xFF, B: 0xFF}, // bright white
}

// Table holds every known highlight plus the named roles and default
// colors. One Table lives for the whole editor session.
type Table struct {
	highlights map[int64]*Highlight
	defaultHl  *Highlight

	backgroundState BackgroundState
	fgColor         *core.Color
	bgColor         *core.Color
	spColor         *core.Color

	ctermFgColor core.Color
	ctermBgColor core.Color
	ctermColor   bool

	pmenu    *Highlight
	pmenuSel *Highlight
	cursor   *Highlight
}

// NewTable creates an empty highlight table with dark defaults.
func NewTable() *Table {
	defaultHl := NewHighlight()
	return &Table{
		highlights:      make(map[int64]*Highlight),
		backgroundState: BackgroundDark,
		ctermFgColor:    core.ColorWhite,
		ctermBgColor:    core.ColorBlack,

		pmenu:    defaultHl,
		pmenuSel: defaultHl,
		cursor:   defaultHl,

		defaultHl: defaultHl,
	}
}

// DefaultHl returns the empty highlight used for cleared cells.
func (t *Table) DefaultHl() *Highlight {
	return t.defaultHl
}

// SetDefaults installs the colors from a default_colors_set event. The
// cterm values are indexes into the 16-entry ANSI palette; values outside
// the palette leave the previous cterm color untouched.
//
// When an explicit default background arrives, the light/dark state is
// re-derived from its luminance so theme-dependent fallbacks track the
// actual colorscheme.
func (t *Table) SetDefaults(fg, bg, sp *core.Color, ctermFg, ctermBg int) {
	t.fgColor = fg
	t.bgColor = bg
	t.spColor = sp

	if ctermFg >= 0 && ctermFg < len(ctermPalette) {
		t.ctermFgColor = ctermPalette[ctermFg]
	}
	if ctermBg >= 0 && ctermBg < len(ctermPalette) {
		t.ctermBgColor = ctermPalette[ctermBg]
	}

	if bg != nil {
		if bg.IsLight() {
			t.backgroundState = BackgroundLight
		} else {
			t.backgroundState = BackgroundDark
		}
	}
}

// SetUseCterm switches the table between true-color and indexed-color
// default resolution.
func (t *Table) SetUseCterm(ctermColor bool) {
	t.ctermColor = ctermColor
}

// SetBackgroundState records the 'background' option value.
func (t *Table) SetBackgroundState(state BackgroundState) {
	t.backgroundState = state
}

// BackgroundState returns the current light/dark state.
func (t *Table) BackgroundState() BackgroundState {
	return t.backgroundState
}

func (t *Table) themeFg() core.Color {
	if t.backgroundState == BackgroundLight {
		return core.ColorBlack
	}
	return core.ColorWhite
}

func (t *Table) themeBg() core.Color {
	if t.backgroundState == BackgroundLight {
		return core.ColorWhite
	}
	return core.ColorBlack
}

// Fg returns the default foreground. In cterm mode the palette color is
// substituted; explicit per-highlight colors always win over this.
func (t *Table) Fg() core.Color {
	if t.ctermColor {
		return t.ctermFgColor
	}
	if t.fgColor != nil {
		return *t.fgColor
	}
	return t.themeFg()
}

// Bg returns the default background.
func (t *Table) Bg() core.Color {
	if t.ctermColor {
		return t.ctermBgColor
	}
	if t.bgColor != nil {
		return *t.bgColor
	}
	return t.themeBg()
}

// Sp returns the default special color, falling back to the foreground.
func (t *Table) Sp() core.Color {
	if t.spColor != nil {
		return *t.spColor
	}
	return t.Fg()
}

// Get resolves a highlight id. Unknown ids resolve to highlight 0 when it
// exists, otherwise the empty default.
func (t *Table) Get(id int64) *Highlight {
	if h, ok := t.highlights[id]; ok {
		return h
	}
	if h, ok := t.highlights[0]; ok {
		return h
	}
	return t.defaultHl
}

// Define parses an attribute set, stores it under id, and binds any named
// roles the info payload designates. The returned Updates reports which
// roles changed binding.
func (t *Table) Define(id int64, attrs map[string]interface{}, info []map[string]interface{}) Updates {
	h := HighlightFromAttrs(attrs)
	var updates Updates

	for _, item := range info {
		kind, _ := item["kind"].(string)
		if kind != "syntax" {
			continue
		}

		name, _ := item["hi_name"].(string)
		var slot **Highlight
		var changed *bool
		switch name {
		case "Pmenu":
			slot, changed = &t.pmenu, &updates.Pmenu
		case "PmenuSel":
			slot, changed = &t.pmenuSel, &updates.Pmenu
		case "Cursor":
			slot, changed = &t.cursor, &updates.Cursor
		default:
			continue
		}

		if !(*slot).Equals(h) {
			*slot = h
			*changed = true
		}
	}

	t.highlights[id] = h
	return updates
}

// CellFg returns the explicit foreground of a highlight, or nil when the
// default should be used. Reverse video swaps the roles before fallback.
func (t *Table) CellFg(h *Highlight) *core.Color {
	if !h.Reverse {
		return h.Foreground
	}
	if h.Background != nil {
		return h.Background
	}
	bg := t.Bg()
	return &bg
}

// CellBg returns the explicit background of a highlight, or nil when the
// default should be used.
func (t *Table) CellBg(h *Highlight) *core.Color {
	if !h.Reverse {
		return h.Background
	}
	if h.Foreground != nil {
		return h.Foreground
	}
	bg := t.Bg()
	return &bg
}

// EffectiveFg fully resolves the foreground of a highlight:
//
//	reverse ? (hl.bg or default_bg) : (hl.fg or default_fg)
func (t *Table) EffectiveFg(h *Highlight) core.Color {
	if h.Reverse {
		if h.Background != nil {
			return *h.Background
		}
		return t.Bg()
	}
	if h.Foreground != nil {
		return *h.Foreground
	}
	return t.Fg()
}

// EffectiveBg fully resolves the background of a highlight:
//
//	reverse ? (hl.fg or default_bg) : (hl.bg or default_bg)
//
// Note the asymmetry: both reverse branches fall back to the default
// background, never the default foreground.
func (t *Table) EffectiveBg(h *Highlight) core.Color {
	if h.Reverse {
		if h.Foreground != nil {
			return *h.Foreground
		}
		return t.Bg()
	}
	if h.Background != nil {
		return *h.Background
	}
	return t.Bg()
}

// EffectiveSp resolves the special (underline/undercurl) color.
func (t *Table) EffectiveSp(h *Highlight) core.Color {
	if h.Special != nil {
		return *h.Special
	}
	return t.Sp()
}

// Pmenu returns the highlight bound to the menu-background role.
func (t *Table) Pmenu() *Highlight { return t.pmenu }

// PmenuSel returns the highlight bound to the menu-selected role.
func (t *Table) PmenuSel() *Highlight { return t.pmenuSel }

// Cursor returns the highlight bound to the cursor role.
func (t *Table) Cursor() *Highlight { return t.cursor }

// CursorBg resolves the background for the cursor cell. Without an
// explicit cursor highlight the default background is inverted so the
// cursor stays visible on any theme.
func (t *Table) CursorBg() core.Color {
	if t.cursor.Reverse {
		if t.cursor.Foreground != nil {
			return *t.cursor.Foreground
		}
		return t.Fg()
	}
	if t.cursor.Background != nil {
		return *t.cursor.Background
	}
	return t.Bg().Invert()
}
