package token

// Equal reports whether a and b are structurally identical sequences:
// same kinds, texts, spacing, delimiters and, recursively, children.
func Equal(a, b []Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalToken(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalToken(a, b Token) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Group:
		return a.Delimiter == b.Delimiter && Equal(a.Children, b.Children)
	case Punct:
		return a.Text == b.Text && a.Spacing == b.Spacing
	default:
		return a.Text == b.Text
	}
}
