package tui

import (
	"strings"
	"unicode/utf8"
)

// horizontalSlack lets the code pane scroll a little past the longest line.
const horizontalSlack = 10

// Scroll tracks the code pane offsets.
type Scroll struct {
	lines    int
	maxWidth int

	vertical   int
	horizontal int
}

// NewScroll creates scroll state for code.
func NewScroll(code string) *Scroll {
	s := &Scroll{}
	for _, line := range strings.Split(strings.TrimRight(code, "\n"), "\n") {
		s.lines++
		if w := utf8.RuneCountInString(line); w > s.maxWidth {
			s.maxWidth = w
		}
	}
	return s
}

// Down moves one line further into the code, stopping at the last line.
func (s *Scroll) Down() {
	if s.vertical < s.lines-1 {
		s.vertical++
	}
}

// Up moves one line back towards the top.
func (s *Scroll) Up() {
	if s.vertical > 0 {
		s.vertical--
	}
}

// Right scrolls one column right when the longest line does not fit in width,
// up to horizontalSlack columns past its end.
func (s *Scroll) Right(width int) {
	if width >= s.maxWidth {
		return
	}
	if s.horizontal < s.maxWidth-width+horizontalSlack {
		s.horizontal++
	}
}

// Left scrolls one column back.
func (s *Scroll) Left() {
	if s.horizontal > 0 {
		s.horizontal--
	}
}

// Offset returns the vertical and horizontal offsets.
func (s *Scroll) Offset() (vertical, horizontal int) {
	return s.vertical, s.horizontal
}
