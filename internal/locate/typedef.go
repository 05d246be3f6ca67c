package locate

import "github.com/mvp-joe/macrolens/internal/token"

// findTypeDefinition looks for "<type keyword> <name>" and captures up to and
// including the first group (the field or variant list) or, for unit and
// alias forms, the terminating ';'.
func (l *Locator) findTypeDefinition(seq []token.Token, name string) ([]token.Token, bool) {
	c := token.NewCursor(seq)
	for !c.Done() {
		tok, _ := c.Next()

		if tok.IsGroup() {
			if found, ok := l.findTypeDefinition(tok.Children, name); ok {
				return found, true
			}
			continue
		}

		if !l.isTypeKeyword(tok) {
			continue
		}
		nameTok, ok := c.NextIfIdent(name)
		if !ok {
			continue
		}

		capture := []token.Token{tok, nameTok}
		for !c.Done() {
			next, _ := c.Next()
			capture = append(capture, next)
			if next.IsGroup() || next.IsPunct(';') {
				return capture, true
			}
		}
		// Sequence ended without a body or ';'. Only malformed input gets here.
		return nil, false
	}
	return nil, false
}
