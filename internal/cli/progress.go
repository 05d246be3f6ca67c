package cli

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

const spinnerInterval = 100 * time.Millisecond

// Spinner shows an indeterminate progress indicator while the compiler runs.
// A Spinner on a writer that is not a terminal does nothing.
type Spinner struct {
	bar  *progressbar.ProgressBar
	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// NewSpinner creates a spinner that writes to w.
func NewSpinner(w io.Writer, description string) *Spinner {
	if !isTerminal(w) {
		return &Spinner{}
	}

	return &Spinner{
		bar: progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(description),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetElapsedTime(true),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionThrottle(65*time.Millisecond),
		),
		done: make(chan struct{}),
	}
}

// Start animates the spinner until Stop.
func (s *Spinner) Start() {
	if s.bar == nil {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				s.bar.Add(1)
			}
		}
	}()
}

// Stop clears the spinner line. It is safe to call more than once.
func (s *Spinner) Stop() {
	if s.bar == nil {
		return
	}

	s.once.Do(func() {
		close(s.done)
		s.wg.Wait()
		s.bar.Finish()
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
