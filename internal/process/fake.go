package process

import (
	"context"
	"io"
	"sync"
)

// FakeRunner records commands and replays a canned response. Used by tests of
// packages that shell out.
type FakeRunner struct {
	mu    sync.Mutex
	calls []Command
	stdin []string

	// Respond builds the output for each call. When nil, every call succeeds
	// with empty output.
	Respond func(cmd Command, stdin string) (*Output, error)
}

// Run implements Runner.
func (f *FakeRunner) Run(ctx context.Context, cmd Command) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var in string
	if cmd.Stdin != nil {
		data, err := io.ReadAll(cmd.Stdin)
		if err != nil {
			return nil, err
		}
		in = string(data)
	}

	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	f.stdin = append(f.stdin, in)
	respond := f.Respond
	f.mu.Unlock()

	if respond == nil {
		return &Output{}, nil
	}
	return respond(cmd, in)
}

// Calls returns the commands run so far.
func (f *FakeRunner) Calls() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Command(nil), f.calls...)
}

// Stdin returns what each call received on stdin, in call order.
func (f *FakeRunner) Stdin() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.stdin...)
}
