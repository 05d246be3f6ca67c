package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/mvp-joe/macrolens/internal/expand"
	"github.com/mvp-joe/macrolens/internal/format"
	"github.com/mvp-joe/macrolens/internal/locate"
	"github.com/mvp-joe/macrolens/internal/lookup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for App:
// - Interrupt stops the loop, stops the watcher and restores the screen
// - FileUpdate re-runs the lookup with the watcher paused, then redraws
// - NotFound / ExpansionFailed / FormattingFailed are shown and the loop continues
// - Arrow keys move the code pane scroll state
// - A dispatch failure tears down and returns ErrDispatchFailed

type fakeScreen struct {
	mu     sync.Mutex
	width  int
	height int
	frames [][]string
	closed int
}

func (s *fakeScreen) Size() (int, int, error) {
	return s.width, s.height, nil
}

func (s *fakeScreen) Draw(rows []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, rows)
	return nil
}

func (s *fakeScreen) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

func (s *fakeScreen) last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return ""
	}
	return strings.Join(s.frames[len(s.frames)-1], "\n")
}

type lookResponse struct {
	res *lookup.Result
	err error
}

type fakeLooker struct {
	responses []lookResponse
	calls     int
}

func (l *fakeLooker) Look(_ context.Context, req locate.Request) (*lookup.Result, error) {
	r := l.responses[min(l.calls, len(l.responses)-1)]
	l.calls++
	return r.res, r.err
}

type fakeWatcher struct {
	paused, resumed, stopped int
}

func (w *fakeWatcher) Pause()      { w.paused++ }
func (w *fakeWatcher) Resume()     { w.resumed++ }
func (w *fakeWatcher) Stop() error { w.stopped++; return nil }

func found(code string) lookResponse {
	return lookResponse{res: &lookup.Result{Code: code, Raw: code}}
}

func runApp(t *testing.T, looker *fakeLooker, events ...Event) (*App, *fakeScreen, *fakeWatcher, error) {
	t.Helper()
	d := NewDispatcher(len(events) + 1)
	for _, ev := range events {
		require.NoError(t, d.Send(ev))
	}
	screen := &fakeScreen{width: 80, height: 24}
	w := &fakeWatcher{}
	app := NewApp(looker, locate.TypeDefinition("Foo"), screen, d, w, false)
	err := app.Run(context.Background())
	return app, screen, w, err
}

func TestApp_Interrupt(t *testing.T) {
	t.Parallel()

	looker := &fakeLooker{responses: []lookResponse{found("struct Foo;")}}
	_, screen, w, err := runApp(t, looker, Interrupt)
	require.NoError(t, err)

	assert.Equal(t, 1, looker.calls)
	assert.Equal(t, 1, w.stopped)
	assert.Equal(t, 1, screen.closed)
	assert.Contains(t, screen.last(), "struct Foo;")
	assert.Contains(t, screen.last(), "Expanding struct: Foo")
}

func TestApp_FileUpdate(t *testing.T) {
	t.Parallel()

	looker := &fakeLooker{responses: []lookResponse{
		found("struct Foo { a: u8 }"),
		found("struct Foo { b: u16 }"),
	}}
	_, screen, w, err := runApp(t, looker, FileUpdate, Interrupt)
	require.NoError(t, err)

	assert.Equal(t, 2, looker.calls)
	assert.Equal(t, 2, w.paused)
	assert.Equal(t, 2, w.resumed)
	assert.Contains(t, screen.last(), "b: u16")
	assert.NotContains(t, screen.last(), "a: u8")
}

func TestApp_RecoverableErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		response lookResponse
		wantNote string
		wantBody string
	}{
		{
			name:     "not found",
			response: lookResponse{err: fmt.Errorf("type Foo: %w", lookup.ErrNotFound)},
			wantNote: "not found",
			wantBody: "type Foo: declaration not found",
		},
		{
			name:     "expansion failed",
			response: lookResponse{err: &expand.Error{Command: "cargo expand", Stderr: "error[E0425]"}},
			wantNote: "expansion failed",
			wantBody: "error[E0425]",
		},
		{
			name: "formatting failed",
			response: lookResponse{
				res: &lookup.Result{Code: "struct Foo ;", Raw: "struct Foo ;"},
				err: &format.Error{Command: "rustfmt"},
			},
			wantNote: "formatting failed",
			wantBody: "struct Foo ;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			looker := &fakeLooker{responses: []lookResponse{tt.response, found("struct Foo;")}}
			_, screen, _, err := runApp(t, looker, Resize, FileUpdate, Interrupt)
			require.NoError(t, err)

			// The failure was drawn before the reload replaced it.
			screen.mu.Lock()
			failed := strings.Join(screen.frames[1], "\n")
			screen.mu.Unlock()
			assert.Contains(t, failed, tt.wantNote)
			assert.Contains(t, failed, tt.wantBody)

			assert.Equal(t, 2, looker.calls)
			assert.Contains(t, screen.last(), "struct Foo;")
		})
	}
}

func TestApp_Scroll(t *testing.T) {
	t.Parallel()

	code := "struct Foo {\n    a: u8,\n    b: u8,\n    c: u8,\n}\n"
	looker := &fakeLooker{responses: []lookResponse{found(code)}}
	app, screen, _, err := runApp(t, looker, KeyDown, KeyDown, KeyDown, KeyUp, KeyRight, KeyLeft, Interrupt)
	require.NoError(t, err)

	v, h := app.View().Scroll().Offset()
	assert.Equal(t, 2, v)
	assert.Equal(t, 0, h)
	assert.NotContains(t, screen.last(), "struct Foo {")
	assert.Contains(t, screen.last(), "    b: u8,")
}

func TestApp_DispatchFailure(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(1)
	d.Close()
	screen := &fakeScreen{width: 80, height: 24}
	w := &fakeWatcher{}
	looker := &fakeLooker{responses: []lookResponse{found("struct Foo;")}}

	err := NewApp(looker, locate.TypeDefinition("Foo"), screen, d, w, false).Run(context.Background())
	assert.ErrorIs(t, err, ErrDispatchFailed)
	assert.Equal(t, 1, screen.closed)
	assert.Equal(t, 1, w.stopped)
}

func TestApp_NilWatcher(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(2)
	require.NoError(t, d.Send(FileUpdate))
	require.NoError(t, d.Send(Interrupt))
	screen := &fakeScreen{width: 80, height: 24}
	looker := &fakeLooker{responses: []lookResponse{found("struct Foo;")}}

	err := NewApp(looker, locate.TypeDefinition("Foo"), screen, d, nil, false).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, looker.calls)
}
