// Package format pretty-prints and highlights located Rust code.
package format

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mvp-joe/macrolens/internal/process"
)

// ErrFormattingFailed is wrapped by every error from the formatter command.
var ErrFormattingFailed = errors.New("formatting failed")

// Error reports a failed formatter run with everything it printed.
type Error struct {
	Command string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("cannot format code (%s)", e.Command)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Stdout != "" {
		msg += "\nstdout: " + e.Stdout
	}
	if e.Stderr != "" {
		msg += "\nstderr: " + e.Stderr
	}
	return msg
}

// Is makes errors.Is(err, ErrFormattingFailed) hold for every *Error.
func (e *Error) Is(target error) bool {
	return target == ErrFormattingFailed
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Formatter turns serialized code into readable code.
type Formatter interface {
	Format(ctx context.Context, code string) (string, error)
}

// Options configures Rustfmt.
type Options struct {
	Enabled bool
	Command string
	Args    []string
	Timeout time.Duration
}

// DefaultOptions returns rustfmt with the 2021 edition.
func DefaultOptions() Options {
	return Options{
		Enabled: true,
		Command: "rustfmt",
		Args:    []string{"--edition", "2021"},
		Timeout: 30 * time.Second,
	}
}

// Rustfmt pipes code through rustfmt's stdin.
type Rustfmt struct {
	opts   Options
	runner process.Runner
}

// NewRustfmt creates a Formatter.
func NewRustfmt(opts Options, runner process.Runner) *Rustfmt {
	return &Rustfmt{opts: opts, runner: runner}
}

// Format returns code formatted by the configured command. When formatting
// is disabled the code is returned unchanged.
func (r *Rustfmt) Format(ctx context.Context, code string) (string, error) {
	if !r.opts.Enabled {
		return code, nil
	}

	cmd := process.Command{
		Name:    r.opts.Command,
		Args:    r.opts.Args,
		Stdin:   strings.NewReader(code),
		Timeout: r.opts.Timeout,
	}

	out, err := r.runner.Run(ctx, cmd)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		e := &Error{Command: cmd.String(), Err: err}
		if out != nil {
			e.Stdout, e.Stderr = string(out.Stdout), string(out.Stderr)
		}
		return "", e
	}
	if !out.Success() {
		return "", &Error{
			Command: cmd.String(),
			Stdout:  string(out.Stdout),
			Stderr:  string(out.Stderr),
			Err:     fmt.Errorf("exit status %d", out.ExitCode),
		}
	}
	return string(out.Stdout), nil
}
