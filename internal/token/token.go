// Package token defines the lexical token tree that declarations are located in.
//
// A tree is an ordered sequence of tokens where Group tokens carry their own
// ordered children. Trees are produced by internal/lexer and consumed, never
// modified, by internal/locate.
package token

// Kind identifies which variant a Token holds.
type Kind uint8

const (
	// Ident is a bare name or keyword. Keywords are not a separate class.
	Ident Kind = iota
	// Punct is a single punctuation character.
	Punct
	// Literal is a numeric, string, or character literal, opaque to locators.
	Literal
	// Group is a delimited sequence of tokens.
	Group
)

func (k Kind) String() string {
	switch k {
	case Ident:
		return "ident"
	case Punct:
		return "punct"
	case Literal:
		return "literal"
	case Group:
		return "group"
	default:
		return "unknown"
	}
}

// Delimiter is the bracket pair enclosing a Group.
type Delimiter uint8

const (
	Parenthesis Delimiter = iota
	Brace
	Bracket
	// None is an invisible group with no delimiters.
	None
)

// Open returns the opening delimiter text ("" for None).
func (d Delimiter) Open() string {
	switch d {
	case Parenthesis:
		return "("
	case Brace:
		return "{"
	case Bracket:
		return "["
	default:
		return ""
	}
}

// Close returns the closing delimiter text ("" for None).
func (d Delimiter) Close() string {
	switch d {
	case Parenthesis:
		return ")"
	case Brace:
		return "}"
	case Bracket:
		return "]"
	default:
		return ""
	}
}

// Spacing records whether a punctuation is glued to the following punctuation
// (as in "->" or "::") or stands alone.
type Spacing uint8

const (
	Alone Spacing = iota
	Joint
)

// Token is one node of the tree. Which fields are meaningful depends on Kind:
// Text for Ident, Punct (one character) and Literal; Spacing for Punct;
// Delimiter and Children for Group.
type Token struct {
	Kind      Kind
	Text      string
	Spacing   Spacing
	Delimiter Delimiter
	Children  []Token
}

// NewIdent creates an identifier token.
func NewIdent(name string) Token {
	return Token{Kind: Ident, Text: name}
}

// NewPunct creates a punctuation token.
func NewPunct(ch rune, spacing Spacing) Token {
	return Token{Kind: Punct, Text: string(ch), Spacing: spacing}
}

// NewLiteral creates a literal token.
func NewLiteral(text string) Token {
	return Token{Kind: Literal, Text: text}
}

// NewGroup creates a group token holding children.
func NewGroup(delim Delimiter, children ...Token) Token {
	return Token{Kind: Group, Delimiter: delim, Children: children}
}

// IsIdent reports whether t is an identifier spelled exactly name.
// Matching is case-sensitive with no normalization.
func (t Token) IsIdent(name string) bool {
	return t.Kind == Ident && t.Text == name
}

// IsPunct reports whether t is the punctuation ch.
func (t Token) IsPunct(ch rune) bool {
	return t.Kind == Punct && t.Text == string(ch)
}

// IsGroup reports whether t is a group of any delimiter.
func (t Token) IsGroup() bool {
	return t.Kind == Group
}

// IsGroupOf reports whether t is a group delimited by delim.
func (t Token) IsGroupOf(delim Delimiter) bool {
	return t.Kind == Group && t.Delimiter == delim
}

// String renders the token the way Serialize renders a one-token sequence.
func (t Token) String() string {
	return Serialize([]Token{t})
}
