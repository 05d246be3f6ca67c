package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mvp-joe/macrolens/internal/format"
)

// Pane titles.
const (
	titleExpanding = "Expanding"
	titleSegment   = "Segment"
	titleInfo      = "Info"
)

// minPaneHeight fits a border, one content row and a border.
const minPaneHeight = 3

// View holds what watch mode shows: the status line, the located code and
// the timing of the last run.
type View struct {
	// Message is the status line, e.g. "Expanding struct: Foo".
	Message string
	// Note is appended to the message, e.g. a failure reason.
	Note string
	Took time.Duration
	// Color enables syntax highlighting of the code pane.
	Color bool

	body   [][]format.Span
	scroll *Scroll
}

// NewView creates an empty view.
func NewView(message string, color bool) *View {
	v := &View{Message: message, Color: color}
	v.setBody("", false)
	return v
}

// SetCode replaces the code pane contents and resets scrolling.
func (v *View) SetCode(code string) {
	v.setBody(code, true)
}

// SetError shows text in the code pane without highlighting.
func (v *View) SetError(text string) {
	v.setBody(text, false)
}

// Scroll returns the code pane scroll state.
func (v *View) Scroll() *Scroll {
	return v.scroll
}

func (v *View) setBody(text string, highlight bool) {
	v.scroll = NewScroll(text)
	var spans []format.Span
	if highlight {
		spans = format.Highlight(text)
	} else if text != "" {
		spans = []format.Span{{Text: text, Class: format.Plain}}
	}
	v.body = splitLines(spans)
}

// Layout returns the heights of the three panes for a terminal of the given
// height: 10%, 80% and 10% of the area inside a one-cell margin, the outer
// panes never shorter than three rows.
func Layout(height int) (top, middle, bottom int) {
	inner := height - 2
	if inner <= 0 {
		return 0, 0, 0
	}
	top = max(inner*10/100, minPaneHeight)
	bottom = max(inner*10/100, minPaneHeight)
	middle = inner - top - bottom
	if middle < 0 {
		middle = 0
	}
	return top, middle, bottom
}

// Render draws the view into exactly height rows of width cells each.
func (v *View) Render(width, height int) []string {
	rows := make([]string, 0, height)
	blank := strings.Repeat(" ", max(width, 0))
	if width < 4 || height < 2+3*minPaneHeight {
		for len(rows) < height {
			rows = append(rows, blank)
		}
		return rows
	}

	top, middle, bottom := Layout(height)
	inner := width - 2

	rows = append(rows, blank)

	status := v.Message
	if v.Note != "" {
		status += " | " + v.Note
	}
	rows = append(rows, pad(box(titleExpanding, inner, top, plainLines(status, inner-2)))...)

	vOff, hOff := v.scroll.Offset()
	var code []string
	for i := vOff; i < len(v.body) && len(code) < middle-2; i++ {
		visible := clipSpans(v.body[i], hOff, inner-2)
		code = append(code, format.ANSI(visible, v.Color)+strings.Repeat(" ", inner-2-spanWidth(visible)))
	}
	rows = append(rows, pad(box(titleSegment, inner, middle, code))...)

	info := fmt.Sprintf("Took: %dms, q for quit, r for reload, arrow keys for scrolling", v.Took.Milliseconds())
	rows = append(rows, pad(box(titleInfo, inner, bottom, plainLines(info, inner-2)))...)

	for len(rows) < height {
		rows = append(rows, blank)
	}
	return rows
}

// pad adds the one-cell left and right margin.
func pad(lines []string) []string {
	for i, l := range lines {
		lines[i] = " " + l + " "
	}
	return lines
}

// box frames content (already exactly width-2 cells wide per line) in a
// titled border of the given size.
func box(title string, width, height int, content []string) []string {
	if height < 2 {
		return nil
	}
	title = truncate(title, width-2)
	lines := make([]string, 0, height)
	lines = append(lines, "┌"+title+strings.Repeat("─", width-2-utf8.RuneCountInString(title))+"┐")

	empty := strings.Repeat(" ", width-2)
	for i := 0; i < height-2; i++ {
		row := empty
		if i < len(content) {
			row = content[i]
		}
		lines = append(lines, "│"+row+"│")
	}

	lines = append(lines, "└"+strings.Repeat("─", width-2)+"┘")
	return lines
}

// plainLines splits text into lines truncated and padded to width.
func plainLines(text string, width int) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = truncate(line, width)
		out = append(out, line+strings.Repeat(" ", width-utf8.RuneCountInString(line)))
	}
	return out
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	return string([]rune(s)[:width])
}

// splitLines breaks spans at newlines, keeping classes.
func splitLines(spans []format.Span) [][]format.Span {
	lines := [][]format.Span{nil}
	for _, s := range spans {
		parts := strings.Split(s.Text, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, nil)
			}
			if part != "" {
				last := len(lines) - 1
				lines[last] = append(lines[last], format.Span{Text: part, Class: s.Class})
			}
		}
	}
	// A trailing newline does not start another line.
	if len(lines) > 1 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// clipSpans returns the part of a line between columns offset and offset+width.
func clipSpans(line []format.Span, offset, width int) []format.Span {
	var out []format.Span
	col := 0
	for _, s := range line {
		runes := []rune(s.Text)
		start, end := col, col+len(runes)
		col = end

		lo := max(start, offset)
		hi := min(end, offset+width)
		if lo >= hi {
			continue
		}
		out = append(out, format.Span{Text: string(runes[lo-start : hi-start]), Class: s.Class})
	}
	return out
}

func spanWidth(spans []format.Span) int {
	n := 0
	for _, s := range spans {
		n += utf8.RuneCountInString(s.Text)
	}
	return n
}
