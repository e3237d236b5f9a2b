package hl

import (
	"testing"

	"github.com/dshills/neoview/internal/logger"
	"github.com/dshills/neoview/internal/renderer/core"
)

func init() {
	logger.InitNop()
}

func colorPtr(v uint64) *core.Color {
	c := core.ColorFromRGB24(v)
	return &c
}

func TestHighlightFromAttrs(t *testing.T) {
	h := HighlightFromAttrs(map[string]interface{}{
		"foreground":    int64(0xff0000),
		"background":    int64(0x00ff00),
		"special":       int64(0x0000ff),
		"bold":          true,
		"undercurl":     true,
		"strikethrough": true,
	})

	if h.Foreground == nil || *h.Foreground != core.ColorFromRGB24(0xff0000) {
		t.Errorf("Foreground = %v, want red", h.Foreground)
	}
	if h.Background == nil || *h.Background != core.ColorFromRGB24(0x00ff00) {
		t.Errorf("Background = %v, want green", h.Background)
	}
	if h.Special == nil || *h.Special != core.ColorFromRGB24(0x0000ff) {
		t.Errorf("Special = %v, want blue", h.Special)
	}
	if !h.Bold {
		t.Error("Bold not set")
	}
	if h.Underline != UnderlineCurly {
		t.Errorf("Underline = %v, want undercurl", h.Underline)
	}
	if !h.Strikethrough {
		t.Error("Strikethrough not set")
	}
}

func TestHighlightStandoutImpliesBoldReverse(t *testing.T) {
	h := HighlightFromAttrs(map[string]interface{}{"standout": true})
	if !h.Bold || !h.Reverse {
		t.Errorf("standout: bold=%v reverse=%v, want both", h.Bold, h.Reverse)
	}
}

func TestGetFallsBackToZeroThenDefault(t *testing.T) {
	table := NewTable()

	if got := table.Get(42); got != table.DefaultHl() {
		t.Error("unknown id without hl 0 did not resolve to default")
	}

	table.Define(0, map[string]interface{}{"bold": true}, nil)
	if got := table.Get(42); !got.Bold {
		t.Error("unknown id did not resolve to highlight 0")
	}
}

func TestEffectiveColorsReverse(t *testing.T) {
	table := NewTable()
	table.SetDefaults(colorPtr(0x111111), colorPtr(0x222222), nil, -1, -1)

	plain := HighlightFromAttrs(map[string]interface{}{
		"foreground": int64(0xaa0000),
		"background": int64(0x00bb00),
	})
	if got := table.EffectiveFg(plain); got != core.ColorFromRGB24(0xaa0000) {
		t.Errorf("EffectiveFg = %v, want explicit fg", got)
	}
	if got := table.EffectiveBg(plain); got != core.ColorFromRGB24(0x00bb00) {
		t.Errorf("EffectiveBg = %v, want explicit bg", got)
	}

	reversed := HighlightFromAttrs(map[string]interface{}{
		"foreground": int64(0xaa0000),
		"reverse":    true,
	})
	if got := table.EffectiveBg(reversed); got != core.ColorFromRGB24(0xaa0000) {
		t.Errorf("reverse EffectiveBg = %v, want hl fg", got)
	}
	// Reverse with no explicit background falls back to the default
	// background on both sides.
	if got := table.EffectiveFg(reversed); got != core.ColorFromRGB24(0x222222) {
		t.Errorf("reverse EffectiveFg = %v, want default bg", got)
	}

	bare := HighlightFromAttrs(map[string]interface{}{"reverse": true})
	if got := table.EffectiveBg(bare); got != core.ColorFromRGB24(0x222222) {
		t.Errorf("bare reverse EffectiveBg = %v, want default bg", got)
	}
}

func TestDefaultsFollowBackgroundState(t *testing.T) {
	table := NewTable()

	if got := table.Fg(); got != core.ColorWhite {
		t.Errorf("dark Fg() = %v, want white", got)
	}
	if got := table.Bg(); got != core.ColorBlack {
		t.Errorf("dark Bg() = %v, want black", got)
	}

	table.SetDefaults(nil, colorPtr(0xffffff), nil, -1, -1)
	if got := table.BackgroundState(); got != BackgroundLight {
		t.Errorf("BackgroundState() = %v, want light after white bg", got)
	}
}

func TestCtermModeOverridesDefaults(t *testing.T) {
	table := NewTable()
	table.SetDefaults(colorPtr(0x123456), colorPtr(0x654321), nil, 1, 4)
	table.SetUseCterm(true)

	if got := table.Fg(); got != (core.Color{R: 0x80}) {
		t.Errorf("cterm Fg() = %v, want palette red", got)
	}
	if got := table.Bg(); got != (core.Color{B: 0x80}) {
		t.Errorf("cterm Bg() = %v, want palette blue", got)
	}

	table.SetUseCterm(false)
	if got := table.Fg(); got != core.ColorFromRGB24(0x123456) {
		t.Errorf("rgb Fg() = %v, want explicit default", got)
	}
}

func TestDefineBindsRoles(t *testing.T) {
	table := NewTable()

	updates := table.Define(7,
		map[string]interface{}{"background": int64(0x303030)},
		[]map[string]interface{}{{"kind": "syntax", "hi_name": "Pmenu"}},
	)
	if !updates.Pmenu || !updates.Any() {
		t.Errorf("updates = %+v, want Pmenu set", updates)
	}
	if table.Pmenu().Background == nil {
		t.Error("Pmenu role not bound")
	}

	// Redefining with the same attributes is not a role change.
	updates = table.Define(8,
		map[string]interface{}{"background": int64(0x303030)},
		[]map[string]interface{}{{"kind": "syntax", "hi_name": "Pmenu"}},
	)
	if updates.Any() {
		t.Errorf("updates = %+v, want none for identical rebind", updates)
	}
}

func TestCursorBgInvertsWithoutExplicitHighlight(t *testing.T) {
	table := NewTable()
	table.SetDefaults(nil, colorPtr(0x000000), nil, -1, -1)

	if got := table.CursorBg(); got != core.ColorFromRGB24(0xffffff) {
		t.Errorf("CursorBg() = %v, want inverted default bg", got)
	}

	table.Define(3,
		map[string]interface{}{"background": int64(0x00ff00)},
		[]map[string]interface{}{{"kind": "syntax", "hi_name": "Cursor"}},
	)
	if got := table.CursorBg(); got != core.ColorFromRGB24(0x00ff00) {
		t.Errorf("CursorBg() = %v, want cursor hl bg", got)
	}
}
