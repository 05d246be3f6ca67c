package token

import "strings"

// Serialize renders tokens back to text.
//
// Tokens are separated by a single space except after a Joint punctuation.
// Groups render as their delimiters around the serialized children, padded by
// one space on each side. Source whitespace is not preserved: re-tokenizing
// the output yields a tree Equal to tokens, nothing more.
func Serialize(tokens []Token) string {
	var sb strings.Builder
	writeSeq(&sb, tokens)
	return sb.String()
}

func writeSeq(sb *strings.Builder, tokens []Token) {
	for i, t := range tokens {
		writeToken(sb, t)
		if i == len(tokens)-1 {
			break
		}
		if t.Kind == Punct && t.Spacing == Joint {
			continue
		}
		sb.WriteByte(' ')
	}
}

func writeToken(sb *strings.Builder, t Token) {
	if t.Kind != Group {
		sb.WriteString(t.Text)
		return
	}
	if t.Delimiter == None {
		writeSeq(sb, t.Children)
		return
	}
	sb.WriteString(t.Delimiter.Open())
	sb.WriteByte(' ')
	if len(t.Children) > 0 {
		writeSeq(sb, t.Children)
		sb.WriteByte(' ')
	}
	sb.WriteString(t.Delimiter.Close())
}
