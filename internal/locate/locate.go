// Package locate finds one declaration in an untyped token tree.
//
// All locators walk the tree pre-order, depth-first, left to right: a group
// is searched completely, nested groups included, before the scan moves on to
// the group's next sibling. The first match in that order wins, so a nested
// declaration that appears earlier in the stream shadows a later top-level one
// with the same name.
//
// Locators are pure. They keep no state between calls and never fail; a
// missing declaration is reported as ok == false.
package locate

import "github.com/mvp-joe/macrolens/internal/token"

// Keywords are the identifiers that introduce each kind of declaration.
type Keywords struct {
	TypeDefinition []string // e.g. "struct", "enum", "union"
	Function       string   // e.g. "fn"
	Impl           string   // e.g. "impl"
	For            string   // e.g. "for", introduces the implementing type
}

// DefaultKeywords returns the Rust keyword set.
func DefaultKeywords() Keywords {
	return Keywords{
		TypeDefinition: []string{"struct", "enum", "union"},
		Function:       "fn",
		Impl:           "impl",
		For:            "for",
	}
}

// Locator runs searches with a fixed keyword set. The zero value is not usable;
// create one with New.
type Locator struct {
	typeKeywords map[string]bool
	kw           Keywords
}

// New creates a locator for the given keywords.
func New(kw Keywords) *Locator {
	set := make(map[string]bool, len(kw.TypeDefinition))
	for _, k := range kw.TypeDefinition {
		set[k] = true
	}
	return &Locator{typeKeywords: set, kw: kw}
}

var defaultLocator = New(DefaultKeywords())

// Locate searches tree with the default keyword set.
func Locate(tree []token.Token, req Request) ([]token.Token, bool) {
	return defaultLocator.Locate(tree, req)
}

// Locate returns the token subsequence of the first declaration matching req.
// The returned slice always starts at the declaration keyword and ends on a
// self-contained boundary (a group or a ';').
func (l *Locator) Locate(tree []token.Token, req Request) ([]token.Token, bool) {
	if req.Name == "" {
		return nil, false
	}
	var (
		found []token.Token
		ok    bool
	)
	switch req.Kind {
	case KindTypeDefinition:
		found, ok = l.findTypeDefinition(tree, req.Name)
	case KindFunction:
		found, ok = l.findFunction(tree, req.Name)
	case KindInterfaceImpl:
		s := &implSearch{kw: l.kw, iface: req.Name, forType: req.ImplementingType}
		found, ok = s.find(tree)
	}
	if !ok {
		return nil, false
	}
	return detach(found), true
}

// detach makes the capture stand alone: a final ';' glued to whatever followed
// it in the source becomes Alone. The tree itself is not modified.
func detach(found []token.Token) []token.Token {
	last := found[len(found)-1]
	if last.Kind != token.Punct || last.Spacing != token.Joint {
		return found
	}
	out := make([]token.Token, len(found))
	copy(out, found)
	out[len(out)-1].Spacing = token.Alone
	return out
}

// isTypeKeyword reports whether t introduces a type definition.
func (l *Locator) isTypeKeyword(t token.Token) bool {
	return t.Kind == token.Ident && l.typeKeywords[t.Text]
}
