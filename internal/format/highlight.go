package format

import (
	"strings"
	"unicode"

	"github.com/mitchellh/colorstring"
	"github.com/mvp-joe/macrolens/internal/lexer"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Class is the highlighting category of a span.
type Class uint8

const (
	Plain Class = iota
	Keyword
	Type
	Function
	Macro
	Literal
	Comment
	Punctuation
)

func (c Class) String() string {
	switch c {
	case Keyword:
		return "keyword"
	case Type:
		return "type"
	case Function:
		return "function"
	case Macro:
		return "macro"
	case Literal:
		return "literal"
	case Comment:
		return "comment"
	case Punctuation:
		return "punctuation"
	default:
		return "plain"
	}
}

// colors maps classes to colorstring color names.
var colors = map[Class]string{
	Keyword:     "magenta",
	Type:        "yellow",
	Function:    "blue",
	Macro:       "cyan",
	Literal:     "green",
	Comment:     "dark_gray",
	Punctuation: "light_gray",
}

// Span is a run of source text sharing one class. Concatenating the Text of
// all spans returned by Highlight reproduces the input exactly.
type Span struct {
	Text  string
	Class Class
}

// Highlight classifies code for display. Code that cannot be parsed is
// returned as a single Plain span.
func Highlight(code string) []Span {
	if code == "" {
		return nil
	}
	source := []byte(code)

	tree, err := lexer.Parse(lexer.RustLanguage(), source)
	if err != nil {
		return []Span{{Text: code, Class: Plain}}
	}
	defer tree.Close()

	var spans []Span
	pos := 0
	emit := func(text string, class Class) {
		if text == "" {
			return
		}
		if n := len(spans); n > 0 && spans[n-1].Class == class {
			spans[n-1].Text += text
			return
		}
		spans = append(spans, Span{Text: text, Class: class})
	}

	stop := func(n *sitter.Node) bool { return lexer.IsAtomic(n.Kind()) }
	lexer.WalkLeaves(tree.RootNode(), stop, func(n *sitter.Node) {
		start, end := int(n.StartByte()), int(n.EndByte())
		if start == end || start < pos {
			return
		}
		emit(code[pos:start], Plain)
		emit(code[start:end], classify(n, code[start:end]))
		pos = end
	})
	emit(code[pos:], Plain)

	return spans
}

func classify(n *sitter.Node, text string) Class {
	kind := n.Kind()
	switch {
	case lexer.IsComment(kind):
		return Comment
	case lexer.IsLiteral(kind):
		return Literal
	case kind == "primitive_type" || kind == "type_identifier":
		return Type
	case kind == "mutable_specifier":
		return Keyword
	}

	parent := n.Parent()
	parentKind := ""
	if parent != nil {
		parentKind = parent.Kind()
	}

	switch parentKind {
	case "boolean_literal":
		return Literal
	case "macro_invocation", "macro_definition":
		if kind == "identifier" || text == "!" {
			return Macro
		}
	case "function_item", "function_signature_item":
		if kind == "identifier" {
			return Function
		}
	}

	if isWord(text) {
		// Anonymous nodes whose kind is their own text are keywords.
		if kind == text && !n.IsNamed() {
			return Keyword
		}
		switch kind {
		case "self", "crate", "super":
			return Keyword
		}
		return Plain
	}
	return Punctuation
}

func isWord(s string) bool {
	for _, r := range s {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// ANSI renders spans with terminal colors. With enabled false the plain text
// is returned.
func ANSI(spans []Span, enabled bool) string {
	c := colorstring.Colorize{
		Colors:  colorstring.DefaultColors,
		Disable: !enabled,
	}

	var b strings.Builder
	for _, s := range spans {
		color, ok := colors[s.Class]
		if !ok || !enabled {
			b.WriteString(s.Text)
			continue
		}
		// Only the tag goes through Color; the code may contain "[...]".
		b.WriteString(c.Color("[" + color + "]"))
		b.WriteString(s.Text)
		b.WriteString(c.Color("[reset]"))
	}
	return b.String()
}
