package token

// Cursor is a peekable forward cursor over one sibling sequence.
// It never descends into groups; callers recurse explicitly.
type Cursor struct {
	seq []Token
	pos int
}

// NewCursor creates a cursor positioned before the first token of seq.
func NewCursor(seq []Token) *Cursor {
	return &Cursor{seq: seq}
}

// Done reports whether every token has been consumed.
func (c *Cursor) Done() bool {
	return c.pos >= len(c.seq)
}

// Pos returns the index of the next token to be consumed.
func (c *Cursor) Pos() int {
	return c.pos
}

// Peek returns the next token without consuming it.
func (c *Cursor) Peek() (Token, bool) {
	if c.Done() {
		return Token{}, false
	}
	return c.seq[c.pos], true
}

// Next consumes and returns the next token.
func (c *Cursor) Next() (Token, bool) {
	if c.Done() {
		return Token{}, false
	}
	t := c.seq[c.pos]
	c.pos++
	return t, true
}

// NextIf consumes the next token only when match accepts it.
func (c *Cursor) NextIf(match func(Token) bool) (Token, bool) {
	t, ok := c.Peek()
	if !ok || !match(t) {
		return Token{}, false
	}
	c.pos++
	return t, true
}

// NextIfIdent consumes the next token only when it is the identifier name.
func (c *Cursor) NextIfIdent(name string) (Token, bool) {
	return c.NextIf(func(t Token) bool { return t.IsIdent(name) })
}
