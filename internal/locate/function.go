package locate

import "github.com/mvp-joe/macrolens/internal/token"

// findFunction looks for "<fn keyword> <name>" and captures the whole
// signature (parameters, generics, where clauses, return type) through the
// first brace group, which is the body.
func (l *Locator) findFunction(seq []token.Token, name string) ([]token.Token, bool) {
	c := token.NewCursor(seq)
	for !c.Done() {
		tok, _ := c.Next()

		if tok.IsGroup() {
			if found, ok := l.findFunction(tok.Children, name); ok {
				return found, true
			}
			continue
		}

		if !tok.IsIdent(l.kw.Function) {
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
			if next.IsGroupOf(token.Brace) {
				return capture, true
			}
		}
		return nil, false
	}
	return nil, false
}
