package tui

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// ANSI control sequences used by Terminal.
const (
	enterAltScreen = "\x1b[?1049h"
	leaveAltScreen = "\x1b[?1049l"
	hideCursor     = "\x1b[?25l"
	showCursor     = "\x1b[?25h"
	cursorHome     = "\x1b[H"
	clearLine      = "\x1b[K"
)

// Screen is the surface the consumer loop draws on.
type Screen interface {
	// Size returns the drawable width and height in cells.
	Size() (width, height int, err error)
	// Draw replaces the screen contents with rows.
	Draw(rows []string) error
	// Close restores the terminal. It is safe to call more than once.
	Close() error
}

// Terminal is a Screen on a real terminal in raw mode on the alternate screen.
type Terminal struct {
	in    *os.File
	out   *os.File
	state *term.State

	closeOnce sync.Once
}

// OpenTerminal switches in to raw mode and out to the alternate screen.
func OpenTerminal(in, out *os.File) (*Terminal, error) {
	if !term.IsTerminal(int(in.Fd())) {
		return nil, fmt.Errorf("watch mode needs an interactive terminal")
	}
	state, err := term.MakeRaw(int(in.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to enable raw mode: %w", err)
	}
	t := &Terminal{in: in, out: out, state: state}
	if _, err := out.WriteString(enterAltScreen + hideCursor); err != nil {
		_ = term.Restore(int(in.Fd()), state)
		return nil, err
	}
	return t, nil
}

// Size implements Screen.
func (t *Terminal) Size() (int, int, error) {
	return term.GetSize(int(t.out.Fd()))
}

// Draw implements Screen.
func (t *Terminal) Draw(rows []string) error {
	w := bufio.NewWriter(t.out)
	w.WriteString(cursorHome)
	// Raw mode disables output post-processing, so rows need an explicit CR.
	w.WriteString(strings.Join(rows, clearLine+"\r\n"))
	w.WriteString(clearLine)
	return w.Flush()
}

// Close implements Screen.
func (t *Terminal) Close() error {
	var err error
	t.closeOnce.Do(func() {
		_, _ = t.out.WriteString(showCursor + leaveAltScreen)
		err = term.Restore(int(t.in.Fd()), t.state)
	})
	return err
}
