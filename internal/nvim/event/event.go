// Package event decodes batched redraw notifications into typed events.
// Each notification batch carries one or more parameter tuples per event
// name; decoding is fail-soft: a malformed tuple is dropped and logged
// without aborting the rest of the batch.
package event

import (
	"fmt"

	"github.com/dshills/neoview/internal/grid"
	"github.com/dshills/neoview/internal/renderer/core"
)

// Event is one decoded update notification.
type Event interface {
	event()
}

// GridResize resizes a grid, creating it if it does not exist yet.
type GridResize struct {
	Grid    int64
	Columns int
	Rows    int
}

// GridLine writes a run of cells starting at a column.
type GridLine struct {
	Grid     int64
	Row      int
	ColStart int
	Cells    []grid.CellUpdate
}

// GridClear blanks an entire grid.
type GridClear struct {
	Grid int64
}

// GridScroll shifts a sub-rectangle of a grid. Rows is positive when
// content moves up. Cols is accepted but the producer never shifts
// horizontally in practice.
type GridScroll struct {
	Grid  int64
	Top   int
	Bot   int
	Left  int
	Right int
	Rows  int
	Cols  int
}

// GridCursorGoto moves the cursor of a grid.
type GridCursorGoto struct {
	Grid int64
	Row  int
	Col  int
}

// GridDestroy drops a grid.
type GridDestroy struct {
	Grid int64
}

// HlAttrDefine binds a highlight id to its attribute set. Info carries
// the semantic payload (highlight group names) when the producer sends it.
type HlAttrDefine struct {
	ID    int64
	Attrs map[string]interface{}
	Info  []map[string]interface{}
}

// DefaultColorsSet sets the default colors. A nil color means the
// producer sent -1: keep the built-in default.
type DefaultColorsSet struct {
	Fg      *core.Color
	Bg      *core.Color
	Sp      *core.Color
	CtermFg int
	CtermBg int
}

// OptionSet reports a UI option change (guifont, linespace, ext_*
// capabilities and the rest of the gui option table).
type OptionSet struct {
	Name  string
	Value interface{}
}

// ModeChange reports the current editor mode.
type ModeChange struct {
	Mode  string
	Index int
}

// BusyStart marks the editor busy; frontends typically hide the cursor.
type BusyStart struct{}

// BusyStop clears the busy state.
type BusyStop struct{}

// MouseOn enables mouse reporting.
type MouseOn struct{}

// MouseOff disables mouse reporting.
type MouseOff struct{}

// Flush ends a redraw batch: the model is consistent and may be painted.
type Flush struct{}

// PopupmenuItem is one completion candidate.
type PopupmenuItem struct {
	Word string
	Kind string
	Menu string
	Info string
}

// PopupmenuShow displays the completion popup. Selected is nil when no
// item is preselected.
type PopupmenuShow struct {
	Items    []PopupmenuItem
	Selected *int
	Row      int
	Col      int
	Grid     int64
}

// PopupmenuSelect moves the popup selection. Selected is nil for none.
type PopupmenuSelect struct {
	Selected *int
}

// PopupmenuHide dismisses the completion popup.
type PopupmenuHide struct{}

// CmdlineChunk is an attributed piece of the command line content.
type CmdlineChunk struct {
	HlID int64
	Text string
}

// CmdlineShow displays the external command line.
type CmdlineShow struct {
	Content []CmdlineChunk
	Pos     int
	Firstc  string
	Prompt  string
	Indent  int
	Level   int
}

// CmdlinePos moves the command line cursor.
type CmdlinePos struct {
	Pos   int
	Level int
}

// CmdlineHide dismisses the external command line.
type CmdlineHide struct {
	Level int
}

// Unknown preserves an event the decoder does not understand, so
// forward-compatible consumers can inspect or ignore it.
type Unknown struct {
	Name string
	Args []interface{}
}

func (GridResize) event()       {}
func (GridLine) event()         {}
func (GridClear) event()        {}
func (GridScroll) event()       {}
func (GridCursorGoto) event()   {}
func (GridDestroy) event()      {}
func (HlAttrDefine) event()     {}
func (DefaultColorsSet) event() {}
func (OptionSet) event()        {}
func (ModeChange) event()       {}
func (BusyStart) event()        {}
func (BusyStop) event()         {}
func (MouseOn) event()          {}
func (MouseOff) event()         {}
func (Flush) event()            {}
func (PopupmenuShow) event()    {}
func (PopupmenuSelect) event()  {}
func (PopupmenuHide) event()    {}
func (CmdlineShow) event()      {}
func (CmdlinePos) event()       {}
func (CmdlineHide) event()      {}
func (Unknown) event()          {}

// DecodeError describes a dropped tuple: which event, which tuple in the
// batch, and what was wrong with it.
type DecodeError struct {
	Event string
	Index int
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s tuple %d: %v", e.Event, e.Index, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
