// Package tokentest builds token trees from whitespace-separated lexemes so
// tests can state inputs the way they read: "struct Foo { x : Int , }".
package tokentest

import (
	"strings"
	"testing"
	"unicode"

	"github.com/mvp-joe/macrolens/internal/token"
	"github.com/stretchr/testify/require"
)

// Parse builds a tree from lexemes separated by whitespace.
//
// Brackets open and close groups. A lexeme starting with a digit or a double
// quote is a literal. Anything else is split into identifier runs and single
// punctuation characters; punctuation followed by more punctuation inside the
// same lexeme is Joint, as is a lifetime quote ("'a").
func Parse(t testing.TB, src string) []token.Token {
	t.Helper()

	type frame struct {
		delim token.Delimiter
		seq   []token.Token
	}
	stack := []frame{{delim: token.None}}
	push := func(tok token.Token) {
		top := &stack[len(stack)-1]
		top.seq = append(top.seq, tok)
	}

	for _, lex := range strings.Fields(src) {
		switch lex {
		case "(", "{", "[":
			stack = append(stack, frame{delim: openDelim(lex)})
			continue
		case ")", "}", "]":
			require.Greater(t, len(stack), 1, "unbalanced %q in %q", lex, src)
			top := stack[len(stack)-1]
			require.Equal(t, top.delim, closeDelim(lex), "mismatched %q in %q", lex, src)
			stack = stack[:len(stack)-1]
			push(token.NewGroup(top.delim, top.seq...))
			continue
		}

		first := []rune(lex)[0]
		if unicode.IsDigit(first) || first == '"' {
			push(token.NewLiteral(lex))
			continue
		}
		for _, tok := range splitLexeme(lex) {
			push(tok)
		}
	}

	require.Len(t, stack, 1, "unclosed group in %q", src)
	return stack[0].seq
}

func splitLexeme(lex string) []token.Token {
	runes := []rune(lex)
	var out []token.Token
	for i := 0; i < len(runes); {
		if isIdentRune(runes[i]) {
			j := i
			for j < len(runes) && isIdentRune(runes[j]) {
				j++
			}
			out = append(out, token.NewIdent(string(runes[i:j])))
			i = j
			continue
		}
		spacing := token.Alone
		if i+1 < len(runes) && (!isIdentRune(runes[i+1]) || runes[i] == '\'') {
			spacing = token.Joint
		}
		out = append(out, token.NewPunct(runes[i], spacing))
		i++
	}
	return out
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func openDelim(s string) token.Delimiter {
	switch s {
	case "(":
		return token.Parenthesis
	case "{":
		return token.Brace
	default:
		return token.Bracket
	}
}

func closeDelim(s string) token.Delimiter {
	switch s {
	case ")":
		return token.Parenthesis
	case "}":
		return token.Brace
	default:
		return token.Bracket
	}
}
