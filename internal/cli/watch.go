package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/mvp-joe/macrolens/internal/config"
	"github.com/mvp-joe/macrolens/internal/locate"
	"github.com/mvp-joe/macrolens/internal/tui"
	"github.com/mvp-joe/macrolens/internal/watcher"
	"github.com/spf13/cobra"
)

const (
	watchLogName = "macrolens.log"

	// watchDefault is the value of a bare -w: the crate directory, or the
	// --input file when there is one.
	watchDefault = "."
)

// runWatch keeps a full-screen view of req open, reloading it when the
// watched path changes. It returns when the user quits.
func runWatch(ctx context.Context, cfg *config.Config, rootDir string, looker tui.Looker, req locate.Request, color bool) error {
	watchPath, err := watchTarget(rootDir, look.watch, look.input)
	if err != nil {
		return err
	}

	// The terminal belongs to the view from here on
	restoreLog, err := redirectLog(rootDir, verbose)
	if err != nil {
		return err
	}
	defer restoreLog()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := tui.NewDispatcher(tui.DefaultQueueSize)

	fw, err := watcher.NewFileWatcher(watchPath, cfg.WatchOptions())
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	err = fw.Start(ctx, func(files []string) {
		if verbose {
			log.Printf("Changed: %v", files)
		}
		if err := events.Send(tui.FileUpdate); err != nil && !errors.Is(err, tui.ErrDispatchFailed) {
			log.Printf("Warning: failed to queue reload: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}

	screen, err := tui.OpenTerminal(os.Stdin, os.Stdout)
	if err != nil {
		if stopErr := fw.Stop(); stopErr != nil {
			log.Printf("Warning: failed to stop file watcher: %v", stopErr)
		}
		return err
	}

	go func() {
		if err := tui.ReadKeys(ctx, os.Stdin, events); err != nil && !errors.Is(err, tui.ErrDispatchFailed) {
			log.Printf("Error: key reader stopped: %v", err)
		}
	}()
	go func() {
		if err := tui.WatchResize(ctx, events); err != nil && !errors.Is(err, tui.ErrDispatchFailed) {
			log.Printf("Error: resize watcher stopped: %v", err)
		}
	}()

	return tui.NewApp(looker, req, screen, events, fw, color).Run(ctx)
}

// watchArgs accepts no positional arguments, except the path of a bare -w
// written as "-w PATH" (pflag only binds "-w=PATH" for optional values).
func watchArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	if len(args) == 1 && look.watch == watchDefault {
		return nil
	}
	return fmt.Errorf("unexpected arguments: %v", args)
}

// watchTarget picks what to watch. An explicit path (file or directory) wins;
// a bare -w watches the --input file when there is one, otherwise the crate
// directory.
func watchTarget(rootDir, watch, input string) (string, error) {
	if input == "-" {
		return "", fmt.Errorf("--watch cannot be combined with --input -: stdin cannot be watched")
	}
	if watch != "" && watch != watchDefault {
		return filepath.Abs(watch)
	}
	if input != "" {
		return filepath.Abs(input)
	}
	return rootDir, nil
}

// redirectLog sends the standard logger to .macrolens/macrolens.log when
// verbose, and discards it otherwise. The returned func restores it.
func redirectLog(rootDir string, verbose bool) (func(), error) {
	prev := log.Writer()
	restore := func() { log.SetOutput(prev) }

	if !verbose {
		log.SetOutput(io.Discard)
		return restore, nil
	}

	dir := filepath.Join(rootDir, config.DirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}
	f, err := os.OpenFile(filepath.Join(dir, watchLogName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(f)

	return func() {
		restore()
		_ = f.Close()
	}, nil
}
