package app

import (
	"errors"
	"fmt"

	"github.com/dshills/neoview/internal/grid"
	"github.com/dshills/neoview/internal/logger"
	"github.com/dshills/neoview/internal/nvim"
	"github.com/dshills/neoview/internal/renderer/backend"
)

// ErrQuit signals a normal exit requested by the editor.
var ErrQuit = errors.New("quit requested")

// Run drives the main loop until the editor quits. Redraw application,
// input, and painting all stay on this goroutine, so apply, re-shape,
// and render never interleave.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return errors.New("already running")
	}
	defer app.running.Store(false)

	events := make(chan backend.Event, 16)
	go app.pollEvents(events)

	for {
		select {
		case <-app.done:
			return nil

		case batch := <-app.batches:
			app.applyBatches(batch)
			app.render()

		case fn := <-app.tasks:
			fn()

		case <-app.frames:
			app.render()

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := app.handleEvent(ev); err != nil {
				if errors.Is(err, ErrQuit) {
					return nil
				}
				return err
			}
		}
	}
}

// applyBatches decodes and applies the first batch plus anything queued
// behind it, so one paint covers a burst of notifications.
func (app *Application) applyBatches(first [][]interface{}) {
	app.state.DecodeAndApply(first)
	for {
		select {
		case batch := <-app.batches:
			app.state.DecodeAndApply(batch)
		default:
			return
		}
	}
}

// pollEvents feeds backend input into the main loop. It unblocks when
// Shutdown finalizes the screen.
func (app *Application) pollEvents(out chan<- backend.Event) {
	defer close(out)
	for {
		ev := app.term.PollEvent()
		select {
		case <-app.done:
			return
		default:
		}
		if ev.Type == backend.EventNone {
			continue
		}
		out <- ev
	}
}

func (app *Application) handleEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventKey:
		if err := app.session.Input(ev.Input); err != nil {
			// The process is gone once input stops being accepted.
			return fmt.Errorf("%w: %v", ErrQuit, err)
		}

	case backend.EventMouse:
		if !app.state.MouseEnabled() {
			return nil
		}
		err := app.session.InputMouse(string(ev.Button), ev.Action, ev.Modifier, grid.DefaultGridID, ev.Row, ev.Col)
		if err != nil {
			logger.Warn("mouse input dropped", "error", err)
		}

	case backend.EventResize:
		if err := app.session.TryResize(ev.Width, ev.Height); err != nil {
			logger.Warn("resize request failed", "error", err)
		}
	}
	return nil
}

// render paints the default grid according to the accumulated redraw
// mode. Reshaping marks the damage tracker, Paint consumes it. Pending
// damage alone also forces a paint: a config reload marks every grid
// without going through a redraw batch.
func (app *Application) render() {
	g, ok := app.state.Grids.Default()
	if !ok {
		return
	}
	mode := app.state.TakeRedraw()
	paint := mode > nvim.RedrawCursor || app.renderer.Tracker(g).IsDirty()
	if mode == nvim.RedrawNothing && !paint {
		return
	}

	if paint {
		app.term.SetDefaultBg(app.state.Hl.Bg())
		app.renderer.ShapeDirty(g, app.state.Hl)
		app.renderer.Paint(app.term, g, app.state.Hl)
	}

	if app.state.Busy() {
		app.term.HideCursor()
	} else {
		info := app.renderer.CursorInfo(g)
		app.term.ShowCursor(info.Col, info.Row)
	}
	app.term.Show()
}
