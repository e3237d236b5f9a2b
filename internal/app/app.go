// Package app wires the embedded editor session, the grid model, the
// renderer, and the terminal backend together and runs the main loop.
package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dshills/neoview/internal/config"
	evbus "github.com/dshills/neoview/internal/event"
	"github.com/dshills/neoview/internal/grid"
	"github.com/dshills/neoview/internal/logger"
	"github.com/dshills/neoview/internal/nvim"
	"github.com/dshills/neoview/internal/renderer"
	"github.com/dshills/neoview/internal/renderer/backend"
	"github.com/dshills/neoview/internal/shape"
)

// session is the slice of nvim.Session the application drives. Tests
// substitute a stub.
type session interface {
	Attach(columns, rows int, extra map[string]interface{}) error
	TryResize(columns, rows int) error
	Input(keys string) error
	InputMouse(button, action, modifier string, gridID int64, row, col int) error
	Command(cmd string) error
	Close() error
}

// Options configures the application.
type Options struct {
	// ConfigPath is the settings file; empty picks the default path.
	ConfigPath string

	// Command is the editor binary, empty for "nvim".
	Command string

	// Args are extra arguments passed to the editor process.
	Args []string

	// Files are opened after attach.
	Files []string

	// Debug enables debug logging.
	Debug bool
}

// Application coordinates the session, model, and renderer lifecycles.
// The model is only touched from the main loop: the RPC goroutine ships
// raw redraw batches through the batches channel, other goroutines post
// closures through tasks, and frames carries coalesced repaint requests.
type Application struct {
	opts Options

	bus      *evbus.Bus
	cfg      *config.Manager
	state    *nvim.State
	session  session
	renderer *renderer.Renderer
	term     *backend.Terminal

	batches  chan [][]interface{}
	tasks    chan func()
	frames   chan struct{}
	done     chan struct{}
	quit     sync.Once
	shutdown sync.Once
	running  atomic.Bool
}

// New creates the application and starts the editor process.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:    opts,
		batches: make(chan [][]interface{}, 64),
		tasks:   make(chan func(), 8),
		frames:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	if err := app.bootstrap(context.Background()); err != nil {
		return nil, err
	}
	return app, nil
}

func (app *Application) bootstrap(ctx context.Context) error {
	if err := logger.Init(app.opts.Debug); err != nil {
		return &InitError{Component: "logger", Err: err}
	}

	app.bus = evbus.NewBus()

	path := app.opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	app.cfg = config.NewManager(path, app.bus)
	if err := app.cfg.Watch(); err != nil {
		logger.Warn("config live reload unavailable", "error", err)
	}

	term, err := backend.NewTerminal()
	if err != nil {
		return &InitError{Component: "terminal", Err: err}
	}
	if err := term.Init(); err != nil {
		return &InitError{Component: "terminal", Err: err}
	}
	app.term = term

	cfg := app.cfg.Config()
	font := shape.MonoFont{Name: cfg.Font.Family, Size: cfg.Font.Size}
	// Terminal cells are the pixel unit: one cell wide, baseline on the
	// row itself.
	engine := shape.NewMonospaceEngine(font, 1, 0, 1)
	app.renderer = renderer.New(shape.NewContext(engine))

	app.state = nvim.NewState(app.bus)
	app.state.Hl.SetUseCterm(cfg.CtermColors)
	app.state.OnGridDestroy = app.renderer.Forget

	sess, err := nvim.NewChildSession(ctx, app.opts.Command, app.opts.Args)
	if err != nil {
		term.Fini()
		return &InitError{Component: "editor session", Err: err}
	}
	sess.OnRedraw = app.enqueueBatch
	app.session = sess

	cols, rows := term.Size()
	if err := sess.Attach(cols, rows, nil); err != nil {
		_ = sess.Close()
		term.Fini()
		return &InitError{Component: "ui attach", Err: err}
	}
	if err := sess.OnQuit(app.Quit); err != nil {
		logger.Warn("quit notification unavailable", "error", err)
	}

	for _, file := range app.opts.Files {
		if err := sess.Command("edit " + file); err != nil {
			logger.Warn("open file failed", "file", file, "error", err)
		}
	}

	app.subscribe()
	return nil
}

// subscribe wires bus topics into repaint requests.
func (app *Application) subscribe() {
	app.bus.Subscribe(evbus.TopicConfigReload, func(payload any) {
		cfg, ok := payload.(config.Config)
		if !ok {
			return
		}
		// Delivered on the config watcher goroutine.
		app.post(func() {
			app.state.Hl.SetUseCterm(cfg.CtermColors)
			app.markAllGrids()
			app.requestFrame()
		})
	})
	app.bus.Subscribe(evbus.TopicFontContext, func(any) {
		// Published while a batch is applied, already on the main loop.
		app.markAllGrids()
		app.requestFrame()
	})
}

func (app *Application) markAllGrids() {
	app.state.Grids.Each(func(g *grid.Grid) {
		app.renderer.Tracker(g).MarkAll()
	})
}

// enqueueBatch hands a raw redraw batch from the RPC goroutine to the
// main loop. The send blocks when the loop falls behind so batches keep
// their order, and gives up once the loop is told to exit.
func (app *Application) enqueueBatch(batch [][]interface{}) {
	select {
	case app.batches <- batch:
	case <-app.done:
	}
}

// post schedules fn on the main loop.
func (app *Application) post(fn func()) {
	select {
	case app.tasks <- fn:
	case <-app.done:
	}
}

// requestFrame schedules a render on the main loop. Safe from any
// goroutine; pending requests coalesce.
func (app *Application) requestFrame() {
	select {
	case app.frames <- struct{}{}:
	default:
	}
}

// Quit asks the main loop to exit.
func (app *Application) Quit() {
	app.quit.Do(func() { close(app.done) })
}

// Shutdown stops the session and restores the terminal. Safe to call
// more than once and from any goroutine.
func (app *Application) Shutdown() {
	app.Quit()
	app.shutdown.Do(func() {
		if app.session != nil {
			if err := app.session.Close(); err != nil {
				logger.Warn("session close failed", "error", err)
			}
		}
		if app.cfg != nil {
			_ = app.cfg.Close()
		}
		if app.term != nil {
			app.term.Fini()
		}
		logger.Close()
	})
}

// InitError reports a component that failed to start.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("initialize %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }
