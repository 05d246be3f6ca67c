//go:build !windows

package tui

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WatchResize sends Resize whenever the terminal window changes size.
func WatchResize(ctx context.Context, d *Dispatcher) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sigCh:
			if err := d.Send(Resize); err != nil {
				return err
			}
		}
	}
}
