// Package nvim owns the editor session: it attaches to a Neovim process
// as an external UI and decodes redraw batches into updates on the grid
// store and highlight table. The session hands raw batches to its owner;
// decoding and applying happen on the single loop that owns the State,
// which observes the model between flushes.
package nvim

import (
	"errors"

	evbus "github.com/dshills/neoview/internal/event"
	"github.com/dshills/neoview/internal/grid"
	"github.com/dshills/neoview/internal/hl"
	"github.com/dshills/neoview/internal/logger"
	uievent "github.com/dshills/neoview/internal/nvim/event"
)

// RedrawMode says how much work the next paint needs. Modes accumulate
// across a batch; Join keeps the stronger of two.
type RedrawMode int

const (
	// RedrawNothing: no visible change.
	RedrawNothing RedrawMode = iota

	// RedrawCursor: only the cursor cell must repaint.
	RedrawCursor

	// RedrawClearCache: glyph caches are stale; reshape before painting.
	RedrawClearCache

	// RedrawAll: repaint everything.
	RedrawAll
)

// Join returns the stronger of two modes.
func (m RedrawMode) Join(other RedrawMode) RedrawMode {
	if other > m {
		return other
	}
	return m
}

// State is the UI-side editor model: grids, highlights, and the handful
// of mode flags a frontend renders around them.
type State struct {
	Grids *grid.Store
	Hl    *hl.Table

	bus *evbus.Bus

	mode    string
	busy    bool
	mouse   bool
	guifont string
	// linespace is in pixels, as sent by the option table.
	linespace int
	options   map[string]interface{}

	redraw RedrawMode

	// OnGridDestroy, when set, runs after a grid is dropped so per-grid
	// caches elsewhere can be released.
	OnGridDestroy func(gridID int64)

	// OnExtEvent, when set, receives the UI surface events this model
	// does not consume itself (popupmenu, cmdline, unknown).
	OnExtEvent func(ev uievent.Event)
}

// NewState creates an empty model publishing change topics on bus.
func NewState(bus *evbus.Bus) *State {
	return &State{
		Grids:   grid.NewStore(),
		Hl:      hl.NewTable(),
		bus:     bus,
		options: make(map[string]interface{}),
	}
}

// Mode returns the current editor mode short name.
func (s *State) Mode() string { return s.mode }

// Busy reports whether the editor asked to hide the cursor.
func (s *State) Busy() bool { return s.busy }

// MouseEnabled reports whether mouse events should be forwarded.
func (s *State) MouseEnabled() bool { return s.mouse }

// Guifont returns the last guifont option value.
func (s *State) Guifont() string { return s.guifont }

// Linespace returns the last linespace option value.
func (s *State) Linespace() int { return s.linespace }

// Option returns a raw UI option value by name.
func (s *State) Option(name string) (interface{}, bool) {
	v, ok := s.options[name]
	return v, ok
}

// TakeRedraw returns the accumulated redraw mode and resets it. Called
// once per flush by the paint loop.
func (s *State) TakeRedraw() RedrawMode {
	m := s.redraw
	s.redraw = RedrawNothing
	return m
}

// DecodeAndApply decodes one redraw batch and applies it, returning the
// ids of the grids it touched in first-touch order.
func (s *State) DecodeAndApply(updates [][]interface{}) []int64 {
	return s.Apply(uievent.DecodeAll(updates))
}

// Apply applies decoded events in order, returning touched grid ids.
func (s *State) Apply(events []uievent.Event) []int64 {
	var touched []int64
	seen := make(map[int64]bool)
	touch := func(id int64) {
		if !seen[id] {
			seen[id] = true
			touched = append(touched, id)
		}
	}

	for _, ev := range events {
		switch e := ev.(type) {
		case uievent.GridResize:
			s.Grids.Resize(e.Grid, e.Columns, e.Rows)
			touch(e.Grid)
			s.redraw = s.redraw.Join(RedrawAll)

		case uievent.GridLine:
			if err := s.Grids.UpdateLine(e.Grid, e.Row, e.ColStart, e.Cells); err == nil {
				touch(e.Grid)
			}
			s.redraw = s.redraw.Join(RedrawAll)

		case uievent.GridClear:
			if err := s.Grids.Clear(e.Grid, 0); err == nil {
				touch(e.Grid)
			}
			s.redraw = s.redraw.Join(RedrawAll)

		case uievent.GridScroll:
			if err := s.Grids.Scroll(e.Grid, e.Top, e.Bot, e.Left, e.Right, e.Rows, e.Cols); err == nil {
				touch(e.Grid)
			}
			s.redraw = s.redraw.Join(RedrawAll)

		case uievent.GridCursorGoto:
			if err := s.Grids.CursorGoto(e.Grid, e.Row, e.Col); err == nil {
				touch(e.Grid)
			}
			s.redraw = s.redraw.Join(RedrawCursor)

		case uievent.GridDestroy:
			s.Grids.Destroy(e.Grid)
			if s.OnGridDestroy != nil {
				s.OnGridDestroy(e.Grid)
			}
			s.redraw = s.redraw.Join(RedrawAll)

		case uievent.HlAttrDefine:
			updates := s.Hl.Define(e.ID, e.Attrs, e.Info)
			if updates.Any() && s.bus != nil {
				s.bus.Publish(evbus.TopicHighlightRoles, updates)
			}

		case uievent.DefaultColorsSet:
			s.Hl.SetDefaults(e.Fg, e.Bg, e.Sp, e.CtermFg, e.CtermBg)
			s.redraw = s.redraw.Join(RedrawAll)

		case uievent.OptionSet:
			s.applyOption(e)

		case uievent.ModeChange:
			s.mode = e.Mode
			s.redraw = s.redraw.Join(RedrawCursor)

		case uievent.BusyStart:
			s.busy = true
			s.redraw = s.redraw.Join(RedrawCursor)

		case uievent.BusyStop:
			s.busy = false
			s.redraw = s.redraw.Join(RedrawCursor)

		case uievent.MouseOn:
			s.mouse = true

		case uievent.MouseOff:
			s.mouse = false

		case uievent.Flush:
			s.Grids.FlushCursors()

		default:
			if s.OnExtEvent != nil {
				s.OnExtEvent(ev)
			} else if u, ok := ev.(uievent.Unknown); ok {
				logger.Debug("ignoring unknown redraw event", "name", u.Name)
			}
		}
	}
	return touched
}

// applyOption records a UI option. Font-affecting options invalidate every
// shaped glyph: caches clear now and subscribers hear about it.
func (s *State) applyOption(e uievent.OptionSet) {
	s.options[e.Name] = e.Value

	switch e.Name {
	case "guifont":
		v, ok := e.Value.(string)
		if !ok || v == s.guifont {
			return
		}
		s.guifont = v
		s.fontContextChanged()

	case "linespace":
		v, err := asInt(e.Value)
		if err != nil {
			logger.Warn("linespace option with non-integer value", "value", e.Value)
			return
		}
		if int(v) == s.linespace {
			return
		}
		s.linespace = int(v)
		s.fontContextChanged()
	}
}

func (s *State) fontContextChanged() {
	s.Grids.ClearGlyphCaches()
	s.redraw = s.redraw.Join(RedrawClearCache)
	if s.bus != nil {
		s.bus.Publish(evbus.TopicFontContext, nil)
	}
}

var errNotInt = errors.New("value is not an integer")

func asInt(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case uint64:
		return int64(n), nil
	case int:
		return int64(n), nil
	default:
		return 0, errNotInt
	}
}
