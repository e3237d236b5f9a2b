package app

import (
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/neoview/internal/config"
	evbus "github.com/dshills/neoview/internal/event"
	"github.com/dshills/neoview/internal/grid"
	"github.com/dshills/neoview/internal/logger"
	"github.com/dshills/neoview/internal/nvim"
	uievent "github.com/dshills/neoview/internal/nvim/event"
	"github.com/dshills/neoview/internal/renderer"
	"github.com/dshills/neoview/internal/renderer/backend"
	"github.com/dshills/neoview/internal/shape"
)

func init() {
	logger.InitNop()
}

type stubSession struct {
	inputs   []string
	inputErr error

	mouse   []string
	resizes [][2]int
	closed  bool
}

func (s *stubSession) Attach(int, int, map[string]interface{}) error { return nil }

func (s *stubSession) TryResize(columns, rows int) error {
	s.resizes = append(s.resizes, [2]int{columns, rows})
	return nil
}

func (s *stubSession) Input(keys string) error {
	if s.inputErr != nil {
		return s.inputErr
	}
	s.inputs = append(s.inputs, keys)
	return nil
}

func (s *stubSession) InputMouse(button, action, _ string, _ int64, _, _ int) error {
	s.mouse = append(s.mouse, button+" "+action)
	return nil
}

func (s *stubSession) Command(string) error { return nil }
func (s *stubSession) Close() error         { s.closed = true; return nil }

func newTestApp(t *testing.T) (*Application, *stubSession) {
	t.Helper()

	term := backend.NewTerminalWith(tcell.NewSimulationScreen("UTF-8"))
	if err := term.Init(); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	t.Cleanup(term.Fini)

	bus := evbus.NewBus()
	sess := &stubSession{}
	engine := shape.NewMonospaceEngine(shape.MonoFont{Name: "mono", Size: 12}, 1, 0, 1)
	app := &Application{
		bus:      bus,
		state:    nvim.NewState(bus),
		session:  sess,
		renderer: renderer.New(shape.NewContext(engine)),
		term:     term,
		batches:  make(chan [][]interface{}, 64),
		tasks:    make(chan func(), 8),
		frames:   make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	app.state.OnGridDestroy = app.renderer.Forget
	app.subscribe()
	return app, sess
}

func TestHandleEventForwardsKeys(t *testing.T) {
	app, sess := newTestApp(t)

	ev := backend.Event{Type: backend.EventKey, Input: "<Esc>"}
	if err := app.handleEvent(ev); err != nil {
		t.Fatalf("handleEvent() error: %v", err)
	}
	if len(sess.inputs) != 1 || sess.inputs[0] != "<Esc>" {
		t.Errorf("inputs = %v, want [<Esc>]", sess.inputs)
	}
}

func TestHandleEventInputErrorQuits(t *testing.T) {
	app, sess := newTestApp(t)
	sess.inputErr = errors.New("broken pipe")

	err := app.handleEvent(backend.Event{Type: backend.EventKey, Input: "q"})
	if !errors.Is(err, ErrQuit) {
		t.Errorf("handleEvent() error = %v, want ErrQuit", err)
	}
}

func TestMouseGatedByEditorFlag(t *testing.T) {
	app, sess := newTestApp(t)

	ev := backend.Event{Type: backend.EventMouse, Button: backend.MouseLeft, Action: "press", Row: 2, Col: 5}
	if err := app.handleEvent(ev); err != nil {
		t.Fatalf("handleEvent() error: %v", err)
	}
	if len(sess.mouse) != 0 {
		t.Fatalf("mouse forwarded while disabled: %v", sess.mouse)
	}

	app.state.Apply([]uievent.Event{uievent.MouseOn{}})
	if err := app.handleEvent(ev); err != nil {
		t.Fatalf("handleEvent() error: %v", err)
	}
	if len(sess.mouse) != 1 || sess.mouse[0] != "left press" {
		t.Errorf("mouse = %v, want [left press]", sess.mouse)
	}
}

func TestHandleEventResize(t *testing.T) {
	app, sess := newTestApp(t)

	ev := backend.Event{Type: backend.EventResize, Width: 120, Height: 40}
	if err := app.handleEvent(ev); err != nil {
		t.Fatalf("handleEvent() error: %v", err)
	}
	if len(sess.resizes) != 1 || sess.resizes[0] != [2]int{120, 40} {
		t.Errorf("resizes = %v, want [[120 40]]", sess.resizes)
	}
}

func TestRedrawBatchesApplyOnMainLoop(t *testing.T) {
	app, _ := newTestApp(t)

	batch := [][]interface{}{
		{"grid_resize", []interface{}{int64(1), int64(20), int64(4)}},
		{"grid_line", []interface{}{int64(1), int64(0), int64(0), []interface{}{
			[]interface{}{"h"}, []interface{}{"i"},
		}}},
		{"flush", []interface{}{}},
	}
	app.enqueueBatch(batch)

	// The callback only queues; the model stays untouched until the main
	// loop picks the batch up.
	if _, ok := app.state.Grids.Default(); ok {
		t.Fatal("batch applied before the main loop ran")
	}

	select {
	case b := <-app.batches:
		app.applyBatches(b)
	default:
		t.Fatal("no batch queued")
	}
	app.render()

	g, ok := app.state.Grids.Default()
	if !ok {
		t.Fatal("grid not created after apply")
	}
	if got := g.Line(0).Cells[0].Text; got != "h" {
		t.Errorf("cell text = %q, want %q", got, "h")
	}
	if got := app.state.TakeRedraw(); got != nvim.RedrawNothing {
		t.Errorf("redraw mode after render = %v, want RedrawNothing", got)
	}
}

func TestApplyBatchesDrainsQueue(t *testing.T) {
	app, _ := newTestApp(t)

	app.enqueueBatch([][]interface{}{
		{"grid_resize", []interface{}{int64(1), int64(10), int64(2)}},
	})
	app.enqueueBatch([][]interface{}{
		{"grid_line", []interface{}{int64(1), int64(1), int64(0), []interface{}{
			[]interface{}{"b"},
		}}},
	})

	app.applyBatches(<-app.batches)
	if len(app.batches) != 0 {
		t.Fatalf("queued batches left = %d, want 0", len(app.batches))
	}

	g, ok := app.state.Grids.Default()
	if !ok {
		t.Fatal("grid not created")
	}
	if got := g.Line(1).Cells[0].Text; got != "b" {
		t.Errorf("cell text = %q, want %q", got, "b")
	}
}

func TestRenderConsumesRedrawMode(t *testing.T) {
	app, _ := newTestApp(t)

	app.state.Apply([]uievent.Event{
		uievent.GridResize{Grid: 1, Columns: 20, Rows: 4},
		uievent.GridLine{Grid: 1, Row: 0, ColStart: 0, Cells: []grid.CellUpdate{
			{Text: "h", HlID: 0, Repeat: 1},
			{Text: "i", HlID: 0, Repeat: 1},
		}},
		uievent.Flush{},
	})

	app.render()
	if got := app.state.TakeRedraw(); got != nvim.RedrawNothing {
		t.Errorf("redraw mode after render = %v, want RedrawNothing", got)
	}
}

func TestRequestFrameCoalesces(t *testing.T) {
	app, _ := newTestApp(t)

	app.requestFrame()
	app.requestFrame()
	app.requestFrame()
	if got := len(app.frames); got != 1 {
		t.Errorf("pending frames = %d, want 1", got)
	}
}

func TestConfigReloadHandledOnMainLoop(t *testing.T) {
	app, _ := newTestApp(t)

	app.bus.Publish(evbus.TopicConfigReload, config.Default())
	if got := len(app.frames); got != 0 {
		t.Fatalf("frame requested before the reload task ran")
	}

	select {
	case fn := <-app.tasks:
		fn()
	default:
		t.Fatal("no task queued for the reload")
	}
	if got := len(app.frames); got != 1 {
		t.Errorf("pending frames = %d, want 1", got)
	}
}

func TestFontContextChangeRequestsFrame(t *testing.T) {
	app, _ := newTestApp(t)

	app.bus.Publish(evbus.TopicFontContext, nil)
	if got := len(app.frames); got != 1 {
		t.Errorf("pending frames = %d, want 1", got)
	}
}

func TestShutdownClosesSession(t *testing.T) {
	app, sess := newTestApp(t)

	app.Shutdown()
	app.Shutdown()
	if !sess.closed {
		t.Error("session not closed")
	}
	select {
	case <-app.done:
	default:
		t.Error("done channel still open")
	}
}
