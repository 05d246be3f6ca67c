package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/mvp-joe/macrolens/internal/format"
	"github.com/mvp-joe/macrolens/internal/locate"
	"github.com/mvp-joe/macrolens/internal/lookup"
)

// Looker runs the lookup pipeline.
type Looker interface {
	Look(ctx context.Context, req locate.Request) (*lookup.Result, error)
}

// runOnce looks up req, prints the highlighted declaration to out and the
// elapsed time after it. A formatting failure still prints the unformatted code.
func runOnce(ctx context.Context, out, errOut io.Writer, looker Looker, req locate.Request, color bool) error {
	spinner := NewSpinner(errOut, req.Describe())
	spinner.Start()
	res, err := looker.Look(ctx, req)
	spinner.Stop()

	switch {
	case err == nil:
	case errors.Is(err, format.ErrFormattingFailed) && res != nil:
		log.Printf("Warning: %v", err)
		fmt.Fprintln(errOut, "Warning: formatting failed, showing unformatted code")
	default:
		return err
	}

	if verbose {
		fmt.Fprintf(errOut, "%s (run %s)\n", res.Message, res.RunID)
	}

	code := format.ANSI(format.Highlight(res.Code), color)
	fmt.Fprint(out, code)
	if !strings.HasSuffix(code, "\n") {
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "Finished in %dms\n", res.Took.Milliseconds())
	return nil
}
