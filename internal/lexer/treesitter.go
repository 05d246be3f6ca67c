package lexer

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

// RustLanguage returns the tree-sitter grammar for Rust.
func RustLanguage() *sitter.Language {
	return sitter.NewLanguage(rust.Language())
}

// Parse parses source with lang. The caller must Close the returned tree.
func Parse(lang *sitter.Language, source []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse source")
	}
	return tree, nil
}

// WalkLeaves visits, in source order, every leaf of node and every node for
// which stop returns true (its subtree is not entered).
func WalkLeaves(node *sitter.Node, stop func(*sitter.Node) bool, visit func(*sitter.Node)) {
	if node == nil {
		return
	}
	if node.ChildCount() == 0 || stop(node) {
		visit(node)
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		WalkLeaves(node.Child(uint(i)), stop, visit)
	}
}

// NodeText extracts the text content of a tree-sitter node.
func NodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// IsAtomic reports whether nodes of kind are treated as one unit regardless of
// their children.
func IsAtomic(kind string) bool {
	return atomicKinds[kind] || commentKinds[kind]
}

// IsComment reports whether kind is a comment node kind.
func IsComment(kind string) bool {
	return commentKinds[kind]
}

// IsLiteral reports whether kind is a string, character or numeric literal.
func IsLiteral(kind string) bool {
	return atomicKinds[kind]
}

var atomicKinds = map[string]bool{
	"string_literal":     true,
	"raw_string_literal": true,
	"char_literal":       true,
	"integer_literal":    true,
	"float_literal":      true,
}

// commentKinds are dropped from the token stream.
var commentKinds = map[string]bool{
	"line_comment":  true,
	"block_comment": true,
}
