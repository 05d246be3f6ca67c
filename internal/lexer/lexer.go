// Package lexer turns expanded source text into a token tree.
//
// Tokenizing is delegated to tree-sitter-rust: leaves of the concrete syntax
// tree are visited in source order and regrouped by their delimiters. Syntax
// structure beyond delimiters is discarded, which is what the locators expect.
package lexer

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/mvp-joe/macrolens/internal/token"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ErrUnbalanced indicates delimiters that do not pair up.
var ErrUnbalanced = errors.New("unbalanced delimiters")

// Lexer tokenizes Rust source. It is safe for concurrent use; every call
// creates its own parser.
type Lexer struct {
	language *sitter.Language
}

// New creates a Rust lexer.
func New() *Lexer {
	return &Lexer{language: RustLanguage()}
}

// Tokenize returns the token tree of source.
func (l *Lexer) Tokenize(source []byte) ([]token.Token, error) {
	tree, err := Parse(l.language, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	b := newBuilder()
	stop := func(n *sitter.Node) bool { return IsAtomic(n.Kind()) }
	WalkLeaves(tree.RootNode(), stop, func(n *sitter.Node) {
		if b.err != nil || n.IsMissing() || n.StartByte() == n.EndByte() {
			return
		}
		if IsComment(n.Kind()) {
			return
		}
		text := NodeText(n, source)
		if IsLiteral(n.Kind()) {
			b.literal(text, int(n.StartByte()), int(n.EndByte()))
			return
		}
		b.leaf(text, int(n.StartByte()))
	})
	return b.finish()
}

// builder assembles groups from a flat leaf stream.
type builder struct {
	stack []frame
	// lastPunct is the index of the last token in the top frame when that
	// token is punctuation; -1 otherwise. Used to mark Joint spacing.
	lastPunct int
	lastEnd   int
	err       error
}

type frame struct {
	delim token.Delimiter
	open  int
	seq   []token.Token
}

func newBuilder() *builder {
	return &builder{stack: []frame{{delim: token.None}}, lastPunct: -1, lastEnd: -1}
}

func (b *builder) top() *frame {
	return &b.stack[len(b.stack)-1]
}

func (b *builder) push(t token.Token) {
	b.top().seq = append(b.top().seq, t)
}

// literal appends an opaque literal.
func (b *builder) literal(text string, start, end int) {
	b.lastPunct = -1
	b.push(token.NewLiteral(text))
	b.lastEnd = end
}

// leaf splits one tree-sitter leaf into tokens.
func (b *builder) leaf(text string, start int) {
	switch text {
	case "(", "{", "[":
		b.lastPunct = -1
		b.stack = append(b.stack, frame{delim: delimiterOf(text), open: start})
		b.lastEnd = start + 1
		return
	case ")", "}", "]":
		b.lastPunct = -1
		b.closeGroup(delimiterOf(text), start)
		b.lastEnd = start + 1
		return
	}

	pos := start
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case isIdentStart(r) || (r == 'r' && isRawIdentPrefix(text[i:])):
			j := i + size
			if r == 'r' && isRawIdentPrefix(text[i:]) {
				j = i + 2
			}
			for j < len(text) {
				r2, s2 := utf8.DecodeRuneInString(text[j:])
				if !isIdentContinue(r2) {
					break
				}
				j += s2
			}
			b.ident(text[i:j], pos+i)
			i = j
		default:
			b.punct(r, pos+i)
			i += size
		}
	}
	b.lastEnd = start + len(text)
}

func (b *builder) ident(name string, start int) {
	b.markJointIfAdjacent(start, true)
	b.lastPunct = -1
	b.push(token.NewIdent(name))
	b.lastEnd = start + len(name)
}

func (b *builder) punct(ch rune, start int) {
	b.markJointIfAdjacent(start, false)
	b.push(token.NewPunct(ch, token.Alone))
	b.lastPunct = len(b.top().seq) - 1
	b.lastEnd = start + utf8.RuneLen(ch)
}

// markJointIfAdjacent glues the previous punctuation to the token starting at
// start when nothing separates them. Before an identifier only a lifetime
// quote is glued.
func (b *builder) markJointIfAdjacent(start int, nextIsIdent bool) {
	if b.lastPunct < 0 || start != b.lastEnd {
		return
	}
	prev := &b.top().seq[b.lastPunct]
	if nextIsIdent && !prev.IsPunct('\'') {
		return
	}
	prev.Spacing = token.Joint
}

func (b *builder) closeGroup(delim token.Delimiter, at int) {
	if b.err != nil {
		return
	}
	if len(b.stack) == 1 {
		b.err = fmt.Errorf("%w: unexpected %q at byte %d", ErrUnbalanced, delim.Close(), at)
		return
	}
	f := b.stack[len(b.stack)-1]
	if f.delim != delim {
		b.err = fmt.Errorf("%w: %q at byte %d closes %q opened at byte %d", ErrUnbalanced, delim.Close(), at, f.delim.Open(), f.open)
		return
	}
	b.stack = b.stack[:len(b.stack)-1]
	b.push(token.NewGroup(f.delim, f.seq...))
}

func (b *builder) finish() ([]token.Token, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.stack) != 1 {
		f := b.top()
		return nil, fmt.Errorf("%w: %q opened at byte %d is never closed", ErrUnbalanced, f.delim.Open(), f.open)
	}
	return b.stack[0].seq, nil
}

func delimiterOf(s string) token.Delimiter {
	switch s {
	case "(", ")":
		return token.Parenthesis
	case "{", "}":
		return token.Brace
	default:
		return token.Bracket
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isRawIdentPrefix reports whether s starts with a raw identifier ("r#name").
func isRawIdentPrefix(s string) bool {
	if len(s) < 3 || s[0] != 'r' || s[1] != '#' {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[2:])
	return isIdentStart(r)
}
