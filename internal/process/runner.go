// Package process runs external toolchain commands with captured output.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// ErrTimeout is returned when a command outlives its timeout.
var ErrTimeout = errors.New("command timed out")

// waitDelay bounds how long Run waits for grandchildren holding the output
// pipes after the command itself was killed.
const waitDelay = 2 * time.Second

// Command describes one invocation.
type Command struct {
	Name    string
	Args    []string
	Dir     string
	Stdin   io.Reader
	Timeout time.Duration
}

// String renders the command line for logs and error messages.
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Output is what a finished command produced.
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Took     time.Duration
}

// Success reports whether the command exited with status zero.
func (o *Output) Success() bool {
	return o.ExitCode == 0
}

// Runner executes commands. Implementations are swapped for fakes in tests.
type Runner interface {
	// Run executes cmd and returns its captured output.
	//
	// A non-zero exit status is not an error: it is reported via
	// Output.ExitCode so callers can surface stderr. Errors are reserved for
	// commands that could not be started or did not finish.
	Run(ctx context.Context, cmd Command) (*Output, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// NewExecRunner creates a Runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, c Command) (*Output, error) {
	if c.Name == "" {
		return nil, fmt.Errorf("empty command")
	}

	execCtx := ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(execCtx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = c.Stdin
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	startTime := time.Now()
	err := cmd.Run()
	out := &Output{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
		Took:   time.Since(startTime),
	}

	if err != nil {
		if execCtx.Err() == context.DeadlineExceeded {
			return out, fmt.Errorf("%s: %w (%s)", c, ErrTimeout, c.Timeout)
		}
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.ExitCode = exitErr.ExitCode()
			return out, nil
		}
		return out, fmt.Errorf("failed to run %s: %w", c, err)
	}

	return out, nil
}
