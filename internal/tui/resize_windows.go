//go:build windows

package tui

import (
	"context"
	"os"
	"time"

	"golang.org/x/term"
)

// WatchResize polls the console size and sends Resize when it changes;
// Windows has no SIGWINCH.
func WatchResize(ctx context.Context, d *Dispatcher) error {
	fd := int(os.Stdout.Fd())
	width, height, _ := term.GetSize(fd)

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w, h, err := term.GetSize(fd)
			if err != nil || (w == width && h == height) {
				continue
			}
			width, height = w, h
			if err := d.Send(Resize); err != nil {
				return err
			}
		}
	}
}
