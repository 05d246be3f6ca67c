package locate

import "github.com/mvp-joe/macrolens/internal/token"

// implSearch finds "impl ... <iface> [<generic args>] for <type> ... { body }".
//
// Each attempt owns its buffer; nothing is shared between attempts or between
// recursive calls, so searches are reentrant.
type implSearch struct {
	kw      Keywords
	iface   string
	forType string
}

func (s *implSearch) find(seq []token.Token) ([]token.Token, bool) {
	c := token.NewCursor(seq)
	for !c.Done() {
		tok, _ := c.Next()

		if tok.IsGroup() {
			if found, ok := s.find(tok.Children); ok {
				return found, true
			}
			continue
		}

		if !tok.IsIdent(s.kw.Impl) {
			continue
		}
		if found, ok := s.attempt(c, tok); ok {
			return found, true
		}
		// Rejected or exhausted: keep scanning from wherever the attempt stopped.
	}
	return nil, false
}

// attempt scans forward from an impl keyword. It returns a nested match if a
// group passed on the way contains one, its own trimmed capture if the header
// matches, and ok == false when the implementing type is rejected or the
// sequence runs out. On rejection the cursor is left just past the rejected
// type token.
func (s *implSearch) attempt(c *token.Cursor, keyword token.Token) ([]token.Token, bool) {
	buf := []token.Token{keyword}

	for !c.Done() {
		tok, _ := c.Next()

		if tok.IsGroup() {
			if found, ok := s.find(tok.Children); ok {
				return found, true
			}
			buf = append(buf, tok)
			continue
		}

		buf = append(buf, tok)
		if !tok.IsIdent(s.iface) {
			continue
		}

		buf = append(buf, skipGenericArgs(c)...)
		forTok, ok := c.NextIfIdent(s.kw.For)
		if !ok {
			// A bound or a path segment, not the trait of this header.
			continue
		}
		buf = append(buf, forTok)

		if s.forType != "" {
			target, ok := c.Next()
			if !ok || !target.IsIdent(s.forType) {
				return nil, false
			}
			buf = append(buf, target)
		}

		for !c.Done() {
			next, _ := c.Next()
			buf = append(buf, next)
			if next.IsGroupOf(token.Brace) {
				return trimToLastKeyword(buf, s.kw.Impl), true
			}
		}
		return nil, false
	}
	return nil, false
}

// skipGenericArgs consumes a balanced "< ... >" run directly following the
// trait name, so that "Show<T> for Foo" is recognized like "Show for Foo".
// An arrow ("->") inside the run does not close it.
func skipGenericArgs(c *token.Cursor) []token.Token {
	open, ok := c.NextIf(func(t token.Token) bool { return t.IsPunct('<') })
	if !ok {
		return nil
	}
	consumed := []token.Token{open}
	depth := 1
	prev := open
	for depth > 0 && !c.Done() {
		tok, _ := c.Next()
		consumed = append(consumed, tok)
		switch {
		case tok.IsPunct('<'):
			depth++
		case tok.IsPunct('>') && !(prev.IsPunct('-') && prev.Spacing == token.Joint):
			depth--
		}
		prev = tok
	}
	return consumed
}

// trimToLastKeyword drops everything before the last top-level occurrence of
// keyword. Scanning for the trait name may sweep past earlier, unrelated impl
// headers; the capture must start at the impl that actually matched.
func trimToLastKeyword(buf []token.Token, keyword string) []token.Token {
	for i := len(buf) - 1; i >= 0; i-- {
		if buf[i].IsIdent(keyword) {
			return buf[i:]
		}
	}
	return buf
}
