// Package expand produces macro-expanded Rust source for a crate.
//
// The default source shells out to the nightly toolchain
// ("cargo rustc -- -Zunpretty=expanded") or to cargo-expand when a module path
// is given. A file source reads text that was expanded ahead of time.
package expand

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mvp-joe/macrolens/internal/process"
)

// ErrExpansionFailed is wrapped by every error caused by the expansion
// command itself (as opposed to a bad request).
var ErrExpansionFailed = errors.New("expansion failed")

// Default values for Options.
const (
	DefaultToolchain = "nightly"
	DefaultProfile   = "check"
	DefaultTimeout   = 300 * time.Second
)

// Error reports a failed expansion with everything the command printed.
type Error struct {
	Command string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("cannot expand code (%s)", e.Command)
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

// Is makes errors.Is(err, ErrExpansionFailed) hold for every *Error.
func (e *Error) Is(target error) bool {
	return target == ErrExpansionFailed
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Source yields expanded source text.
type Source interface {
	Expand(ctx context.Context) (string, error)
}

// Options selects what to expand and with which toolchain.
type Options struct {
	// Binary expands the named binary target instead of the library.
	Binary string
	// IntegrationTest expands the named integration test target.
	IntegrationTest string
	// Path switches to cargo-expand for a single module path.
	Path string
	// Dir is the crate directory the command runs in.
	Dir string

	Toolchain string
	Profile   string
	Timeout   time.Duration
}

func (o Options) withDefaults() Options {
	if o.Toolchain == "" {
		o.Toolchain = DefaultToolchain
	}
	if o.Profile == "" {
		o.Profile = DefaultProfile
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// BuildCommand returns the command line for opts.
//
// Without a path:
//
//	rustup run <toolchain> cargo rustc <target> --profile=<profile> -- -Zunpretty=expanded
//
// where target is "--test T", "--bin B" or "--lib". With a path:
//
//	cargo expand [--test T | --bin B] <path>
func BuildCommand(opts Options) process.Command {
	opts = opts.withDefaults()

	if opts.Path != "" {
		args := []string{"expand"}
		args = append(args, targetArgs(opts, false)...)
		args = append(args, opts.Path)
		return process.Command{Name: "cargo", Args: args, Dir: opts.Dir, Timeout: opts.Timeout}
	}

	args := []string{"run", opts.Toolchain, "cargo", "rustc"}
	args = append(args, targetArgs(opts, true)...)
	args = append(args, "--profile="+opts.Profile, "--", "-Zunpretty=expanded")
	return process.Command{Name: "rustup", Args: args, Dir: opts.Dir, Timeout: opts.Timeout}
}

func targetArgs(opts Options, defaultLib bool) []string {
	switch {
	case opts.IntegrationTest != "":
		return []string{"--test", opts.IntegrationTest}
	case opts.Binary != "":
		return []string{"--bin", opts.Binary}
	case defaultLib:
		return []string{"--lib"}
	default:
		return nil
	}
}

// Cargo expands a crate by running the toolchain.
type Cargo struct {
	opts   Options
	runner process.Runner
}

// New creates a toolchain-backed Source.
func New(opts Options, runner process.Runner) *Cargo {
	return &Cargo{opts: opts.withDefaults(), runner: runner}
}

// Expand runs the expansion command and returns its stdout.
func (c *Cargo) Expand(ctx context.Context) (string, error) {
	cmd := BuildCommand(c.opts)

	out, err := c.runner.Run(ctx, cmd)
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

// File reads already-expanded text from a file, or from Stdin when Path is
// "-". Files are re-read on every call so watch mode sees edits; stdin is read
// once.
type File struct {
	Path  string
	Stdin io.Reader

	once  sync.Once
	stdin string
	err   error
}

// NewFile creates a file-backed Source.
func NewFile(path string, stdin io.Reader) *File {
	return &File{Path: path, Stdin: stdin}
}

// Expand returns the file contents.
func (f *File) Expand(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if f.Path == "-" {
		f.once.Do(func() {
			if f.Stdin == nil {
				f.err = fmt.Errorf("no stdin to read expanded code from")
				return
			}
			data, err := io.ReadAll(f.Stdin)
			f.stdin, f.err = string(data), err
		})
		if f.err != nil {
			return "", &Error{Command: "read stdin", Err: f.err}
		}
		return f.stdin, nil
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", &Error{Command: "read " + f.Path, Err: err}
	}
	return string(data), nil
}
