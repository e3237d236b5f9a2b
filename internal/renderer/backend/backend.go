// Package backend hosts display backends for the grid renderer. The tcell
// terminal backend doubles as a development frontend: it paints the shaped
// grid into terminal cells and translates terminal input into the key
// notation the editor process expects.
package backend

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// EventType identifies the kind of input event a backend produced.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
)

// MouseButton names a mouse button in the editor's input_mouse vocabulary.
type MouseButton string

const (
	MouseLeft   MouseButton = "left"
	MouseMiddle MouseButton = "middle"
	MouseRight  MouseButton = "right"
	MouseWheel  MouseButton = "wheel"
)

// Event is an input event normalized for forwarding to the editor.
type Event struct {
	Type EventType

	// Input holds key notation ("a", "<Esc>", "<C-w>") for EventKey.
	Input string

	// Mouse fields for EventMouse. Action is "press", "drag", "release",
	// or for wheel buttons the scroll direction "up"/"down".
	Button   MouseButton
	Action   string
	Modifier string
	Row      int
	Col      int

	// New dimensions for EventResize.
	Width  int
	Height int
}

// specialKeys maps tcell special keys to their bracket notation name.
var specialKeys = map[tcell.Key]string{
	tcell.KeyEscape:     "Esc",
	tcell.KeyEnter:      "CR",
	tcell.KeyTab:        "Tab",
	tcell.KeyBacktab:    "Tab",
	tcell.KeyBackspace:  "BS",
	tcell.KeyBackspace2: "BS",
	tcell.KeyDelete:     "Del",
	tcell.KeyInsert:     "Insert",
	tcell.KeyHome:       "Home",
	tcell.KeyEnd:        "End",
	tcell.KeyPgUp:       "PageUp",
	tcell.KeyPgDn:       "PageDown",
	tcell.KeyUp:         "Up",
	tcell.KeyDown:       "Down",
	tcell.KeyLeft:       "Left",
	tcell.KeyRight:      "Right",
	tcell.KeyF1:         "F1",
	tcell.KeyF2:         "F2",
	tcell.KeyF3:         "F3",
	tcell.KeyF4:         "F4",
	tcell.KeyF5:         "F5",
	tcell.KeyF6:         "F6",
	tcell.KeyF7:         "F7",
	tcell.KeyF8:         "F8",
	tcell.KeyF9:         "F9",
	tcell.KeyF10:        "F10",
	tcell.KeyF11:        "F11",
	tcell.KeyF12:        "F12",
}

// KeyNotation converts a terminal key event into editor key notation.
// Returns "" for keys with no mapping.
func KeyNotation(ev *tcell.EventKey) string {
	mods := ""
	if ev.Modifiers()&tcell.ModShift != 0 {
		mods += "S-"
	}
	if ev.Modifiers()&tcell.ModAlt != 0 {
		mods += "M-"
	}

	if name, ok := specialKeys[ev.Key()]; ok {
		if ev.Key() == tcell.KeyBacktab {
			mods = "S-" + mods
		}
		if mods != "" {
			return "<" + mods + name + ">"
		}
		return "<" + name + ">"
	}

	// tcell folds Ctrl-letter combinations into dedicated key codes.
	if ev.Key() >= tcell.KeyCtrlA && ev.Key() <= tcell.KeyCtrlZ {
		letter := rune('a' + ev.Key() - tcell.KeyCtrlA)
		return fmt.Sprintf("<%sC-%c>", mods, letter)
	}
	if ev.Key() == tcell.KeyCtrlSpace {
		return "<" + mods + "C-Space>"
	}

	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		if r == '<' {
			return "<lt>"
		}
		if ev.Modifiers()&tcell.ModAlt != 0 {
			return fmt.Sprintf("<M-%c>", r)
		}
		return string(r)
	}
	return ""
}
