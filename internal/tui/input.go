package tui

import (
	"bufio"
	"context"
	"errors"
	"io"
)

const (
	keyCtrlC  = 0x03
	keyEscape = 0x1b
)

// ReadKeys translates raw terminal input into events until ctx is done, the
// reader fails, or a quit key is read. 'q' and Ctrl-C send Interrupt, 'r'
// sends FileUpdate and the arrow keys send KeyUp/KeyDown/KeyRight/KeyLeft.
//
// The reader is expected to be a terminal in raw mode. Reads cannot be
// interrupted, so cancellation takes effect on the next key press.
func ReadKeys(ctx context.Context, r io.Reader, d *Dispatcher) error {
	br := bufio.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		b, err := br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		ev, ok := decodeKey(b, br)
		if !ok {
			continue
		}
		if err := d.Send(ev); err != nil {
			return err
		}
		if ev == Interrupt {
			return nil
		}
	}
}

// decodeKey maps one key press, possibly an escape sequence, to an event.
func decodeKey(b byte, br *bufio.Reader) (Event, bool) {
	switch b {
	case 'q', keyCtrlC:
		return Interrupt, true
	case 'r':
		return FileUpdate, true
	case keyEscape:
		// Arrow keys arrive in one read as ESC [ A..D (or ESC O A..D in
		// application mode). A lone Esc leaves the following key alone.
		if br.Buffered() < 2 {
			return 0, false
		}
		seq, err := br.Peek(2)
		if err != nil || (seq[0] != '[' && seq[0] != 'O') {
			return 0, false
		}
		code := seq[1]
		if _, err := br.Discard(2); err != nil {
			return 0, false
		}
		switch code {
		case 'A':
			return KeyUp, true
		case 'B':
			return KeyDown, true
		case 'C':
			return KeyRight, true
		case 'D':
			return KeyLeft, true
		}
	}
	return 0, false
}
