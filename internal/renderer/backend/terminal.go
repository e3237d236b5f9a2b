package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/neoview/internal/renderer/core"
)

// Terminal paints the shaped grid into a tcell screen. With cell-sized
// metrics (CharWidth 1, LineHeight 1) the renderer's pixel coordinates
// address terminal cells directly, so Terminal satisfies the renderer's
// sink without any scaling.
type Terminal struct {
	mu     sync.Mutex
	fini   sync.Once
	screen tcell.Screen

	// bg remembers the fill color per cell so a later glyph draw keeps
	// the background painted under it.
	bg        [][]*core.Color
	defaultBg core.Color
}

// NewTerminal creates a terminal backend on the controlling tty.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminalWith(screen), nil
}

// NewTerminalWith wraps an existing screen. Tests pass a tcell
// simulation screen.
func NewTerminalWith(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

// Init initializes the screen and enables mouse reporting.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnableMouse()
	w, h := t.screen.Size()
	t.allocate(w, h)
	return nil
}

// Fini restores the terminal state. Safe to call more than once: the
// real tcell screen's Fini is internally once-guarded, but the
// simulation screen used in tests is not.
func (t *Terminal) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fini.Do(t.screen.Fini)
}

// Size returns the terminal dimensions in cells.
func (t *Terminal) Size() (width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.screen.Size()
}

// SetDefaultBg sets the color used where nothing has been filled.
func (t *Terminal) SetDefaultBg(c core.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.defaultBg = c
}

func (t *Terminal) allocate(w, h int) {
	t.bg = make([][]*core.Color, h)
	for y := range t.bg {
		t.bg[y] = make([]*core.Color, w)
	}
}

func tcellColor(c core.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// FillRect fills a cell rectangle with a background color.
func (t *Terminal) FillRect(x, y, w, h float64, color core.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()

	style := tcell.StyleDefault.Background(tcellColor(color))
	x0, y0 := int(x), int(y)
	x1, y1 := int(x+w), int(y+h)
	for row := y0; row < y1 && row < len(t.bg); row++ {
		if row < 0 {
			continue
		}
		for col := x0; col < x1 && col < len(t.bg[row]); col++ {
			if col < 0 {
				continue
			}
			c := color
			t.bg[row][col] = &c
			t.screen.SetContent(col, row, ' ', nil, style)
		}
	}
}

// DrawRun draws a shaped glyph run. The run's glyph ids carry the lead
// rune of each grapheme, which is all a character terminal can show.
func (t *Terminal) DrawRun(font core.FontRef, run *core.GlyphRun, color core.Color, x, y float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// The baseline of a one-cell-tall line is the row itself.
	row := int(y)
	if row < 0 || row >= len(t.bg) {
		return
	}
	fg := tcellColor(color)
	for _, g := range run.Glyphs {
		col := int(x + g.X)
		if col < 0 || col >= len(t.bg[row]) {
			continue
		}
		bg := t.defaultBg
		if t.bg[row][col] != nil {
			bg = *t.bg[row][col]
		}
		style := tcell.StyleDefault.Foreground(fg).Background(tcellColor(bg))
		t.screen.SetContent(col, row, rune(g.ID), nil, style)
	}
}

// ShowCursor places the hardware cursor.
func (t *Terminal) ShowCursor(col, row int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.ShowCursor(col, row)
}

// HideCursor hides the hardware cursor.
func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.HideCursor()
}

// Show flushes pending draws to the display.
func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Show()
}

// PollEvent blocks for the next input event, normalized for the editor.
// Events with no mapping come back as EventNone.
func (t *Terminal) PollEvent() Event {
	ev := t.screen.PollEvent()
	switch e := ev.(type) {
	case *tcell.EventKey:
		input := KeyNotation(e)
		if input == "" {
			return Event{Type: EventNone}
		}
		return Event{Type: EventKey, Input: input}

	case *tcell.EventMouse:
		col, row := e.Position()
		out := Event{Type: EventMouse, Row: row, Col: col}
		switch {
		case e.Buttons()&tcell.Button1 != 0:
			out.Button, out.Action = MouseLeft, "press"
		case e.Buttons()&tcell.Button2 != 0:
			out.Button, out.Action = MouseMiddle, "press"
		case e.Buttons()&tcell.Button3 != 0:
			out.Button, out.Action = MouseRight, "press"
		case e.Buttons()&tcell.WheelUp != 0:
			out.Button, out.Action = MouseWheel, "up"
		case e.Buttons()&tcell.WheelDown != 0:
			out.Button, out.Action = MouseWheel, "down"
		default:
			out.Button, out.Action = MouseLeft, "release"
		}
		return out

	case *tcell.EventResize:
		w, h := e.Size()
		t.mu.Lock()
		t.allocate(w, h)
		t.mu.Unlock()
		return Event{Type: EventResize, Width: w, Height: h}

	default:
		return Event{Type: EventNone}
	}
}
