package tui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mvp-joe/macrolens/internal/expand"
	"github.com/mvp-joe/macrolens/internal/format"
	"github.com/mvp-joe/macrolens/internal/lexer"
	"github.com/mvp-joe/macrolens/internal/locate"
	"github.com/mvp-joe/macrolens/internal/lookup"
)

// Fallback size when the screen cannot report one.
const (
	fallbackWidth  = 80
	fallbackHeight = 24
)

// Looker runs the lookup pipeline.
type Looker interface {
	Look(ctx context.Context, req locate.Request) (*lookup.Result, error)
}

// Watcher is the part of the file watcher the consumer controls.
type Watcher interface {
	Pause()
	Resume()
	Stop() error
}

// App is the single consumer of watch-mode events.
type App struct {
	looker  Looker
	req     locate.Request
	screen  Screen
	events  *Dispatcher
	watcher Watcher
	view    *View
}

// NewApp creates the consumer. watcher may be nil.
func NewApp(looker Looker, req locate.Request, screen Screen, events *Dispatcher, watcher Watcher, color bool) *App {
	return &App{
		looker:  looker,
		req:     req,
		screen:  screen,
		events:  events,
		watcher: watcher,
		view:    NewView(req.Describe(), color),
	}
}

// View returns the current view state.
func (a *App) View() *View {
	return a.view
}

// Run performs the first lookup, then handles events one at a time until
// Interrupt. Lookup failures are shown in the view and the loop keeps going.
// A dispatch failure ends the loop with an error wrapping ErrDispatchFailed.
// The terminal is restored and the watcher stopped before Run returns.
func (a *App) Run(ctx context.Context) error {
	a.reload(ctx)
	if err := a.draw(); err != nil {
		return a.teardown(err)
	}

	for {
		ev, err := a.events.Receive()
		if err != nil {
			return a.teardown(fmt.Errorf("cannot receive event: %w", err))
		}

		switch ev {
		case Interrupt:
			return a.teardown(nil)
		case FileUpdate:
			a.reload(ctx)
		case Resize:
			// Redraw only.
		case KeyUp:
			a.view.Scroll().Up()
		case KeyDown:
			a.view.Scroll().Down()
		case KeyRight:
			width, _ := a.size()
			a.view.Scroll().Right(width)
		case KeyLeft:
			a.view.Scroll().Left()
		}

		if err := a.draw(); err != nil {
			return a.teardown(err)
		}
	}
}

// reload re-runs the pipeline and updates the view. The watcher is paused
// meanwhile so changes made during a run coalesce into one follow-up reload.
func (a *App) reload(ctx context.Context) {
	if a.watcher != nil {
		a.watcher.Pause()
		defer a.watcher.Resume()
	}

	start := time.Now()
	res, err := a.looker.Look(ctx, a.req)
	a.view.Took = time.Since(start)
	if res != nil && res.Took > 0 {
		a.view.Took = res.Took
	}

	switch {
	case err == nil:
		a.view.Note = ""
		a.view.SetCode(res.Code)
	case errors.Is(err, format.ErrFormattingFailed) && res != nil:
		a.view.Note = "formatting failed, showing unformatted code"
		a.view.SetCode(res.Code)
	case errors.Is(err, lookup.ErrNotFound):
		a.view.Note = "not found"
		a.view.SetError(err.Error())
	case errors.Is(err, expand.ErrExpansionFailed):
		a.view.Note = "expansion failed"
		a.view.SetError(err.Error())
	case errors.Is(err, lexer.ErrUnbalanced):
		a.view.Note = "cannot tokenize expanded code"
		a.view.SetError(err.Error())
	default:
		a.view.Note = "error"
		a.view.SetError(err.Error())
	}
}

func (a *App) size() (int, int) {
	width, height, err := a.screen.Size()
	if err != nil || width <= 0 || height <= 0 {
		return fallbackWidth, fallbackHeight
	}
	return width, height
}

func (a *App) draw() error {
	width, height := a.size()
	if err := a.screen.Draw(a.view.Render(width, height)); err != nil {
		return fmt.Errorf("failed to draw: %w", err)
	}
	return nil
}

// teardown stops producers and restores the terminal, then returns cause.
func (a *App) teardown(cause error) error {
	a.events.Close()
	if a.watcher != nil {
		if err := a.watcher.Stop(); err != nil {
			log.Printf("Warning: failed to stop file watcher: %v", err)
		}
	}
	if err := a.screen.Close(); err != nil {
		log.Printf("Warning: failed to restore terminal: %v", err)
	}
	return cause
}
