package cli

import (
	"fmt"
	"io"

	"github.com/mvp-joe/macrolens/internal/config"
	"github.com/mvp-joe/macrolens/internal/expand"
	"github.com/mvp-joe/macrolens/internal/format"
	"github.com/mvp-joe/macrolens/internal/lookup"
	"github.com/mvp-joe/macrolens/internal/process"
)

// newService wires the lookup pipeline for one crate.
// With --input the compiler is skipped and the text is read from the file or stdin.
func newService(cfg *config.Config, rootDir string, flags lookFlags, stdin io.Reader) (*lookup.Service, error) {
	runner := process.NewExecRunner()

	var source expand.Source
	if flags.input != "" {
		source = expand.NewFile(flags.input, stdin)
	} else {
		opts := cfg.ExpandOptions()
		opts.Binary = flags.binary
		opts.IntegrationTest = flags.integrationTest
		opts.Path = flags.path
		opts.Dir = rootDir
		source = expand.New(opts, runner)
	}

	formatter := format.NewRustfmt(cfg.FormatOptions(), runner)

	svc, err := lookup.New(source, formatter, cfg.LookupOptions(verbose))
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup service: %w", err)
	}
	return svc, nil
}
