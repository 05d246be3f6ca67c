package lexer_test

import (
	"strings"
	"testing"

	"github.com/mvp-joe/macrolens/internal/lexer"
	"github.com/mvp-joe/macrolens/internal/locate"
	"github.com/mvp-joe/macrolens/internal/token"
	"github.com/mvp-joe/macrolens/internal/token/tokentest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Lexer:
// - Delimiters become nested groups
// - Adjacent punctuation is Joint (->, ::, lifetimes), separated punctuation is Alone
// - Literals are opaque, comments are dropped, booleans are identifiers
// - Mismatched or unclosed delimiters fail with ErrUnbalanced
// - Tokenized expanded code can be fed straight into the locators
// - Serialized captures of every locator re-tokenize to an Equal tree (lifetimes,
//   labels, paths, shifts and glued operators, prefixed and suffixed literals)

func tokenize(t *testing.T, src string) []token.Token {
	t.Helper()
	got, err := lexer.New().Tokenize([]byte(src))
	require.NoError(t, err)
	return got
}

func assertTree(t *testing.T, want, got []token.Token) {
	t.Helper()
	assert.True(t, token.Equal(want, got), "want %q\n got %q", token.Serialize(want), token.Serialize(got))
}

func TestTokenize_Groups(t *testing.T) {
	t.Parallel()

	got := tokenize(t, "struct Foo { x: i32, y: (u8, u8) }")
	want := tokentest.Parse(t, "struct Foo { x : i32 , y : ( u8 , u8 ) }")
	assertTree(t, want, got)
}

func TestTokenize_Spacing(t *testing.T) {
	t.Parallel()

	t.Run("arrow", func(t *testing.T) {
		got := tokenize(t, "fn f() -> u8 { 1 }")
		want := tokentest.Parse(t, "fn f ( ) -> u8 { 1 }")
		assertTree(t, want, got)
	})

	t.Run("path", func(t *testing.T) {
		got := tokenize(t, "use std::fmt::Display;")
		want := tokentest.Parse(t, "use std :: fmt :: Display ;")
		assertTree(t, want, got)
	})

	t.Run("lifetime", func(t *testing.T) {
		got := tokenize(t, "struct S<'a> { r: &'a str }")
		require.Len(t, got, 7)
		assert.Equal(t, token.Joint, got[2].Spacing)
		assert.Equal(t, "struct S <'a > { r : &'a str }", token.Serialize(got))
	})
}

func TestTokenize_Literals(t *testing.T) {
	t.Parallel()

	got := tokenize(t, `fn f() { let s = "a { b"; let c = '}'; let n = 0x1f_u8; let t = true; }`)
	require.Len(t, got, 4)

	body := got[3]
	require.True(t, body.IsGroupOf(token.Brace))

	var literals []string
	var idents []string
	for _, tok := range body.Children {
		switch tok.Kind {
		case token.Literal:
			literals = append(literals, tok.Text)
		case token.Ident:
			idents = append(idents, tok.Text)
		}
	}
	assert.Equal(t, []string{`"a { b"`, `'}'`, "0x1f_u8"}, literals)
	assert.Contains(t, idents, "true")
}

func TestTokenize_DropsComments(t *testing.T) {
	t.Parallel()

	got := tokenize(t, "/// docs\nstruct A; // trailing\n/* block { */ struct B;")
	want := tokentest.Parse(t, "struct A ; struct B ;")
	assertTree(t, want, got)
}

func TestTokenize_Attributes(t *testing.T) {
	t.Parallel()

	got := tokenize(t, "#[derive(Debug)]\nstruct A;")
	want := tokentest.Parse(t, "# [ derive ( Debug ) ] struct A ;")
	assertTree(t, want, got)
}

func TestTokenize_Unbalanced(t *testing.T) {
	t.Parallel()

	for _, src := range []string{
		"fn f() {",
		"struct A }",
		"fn f( ]",
	} {
		_, err := lexer.New().Tokenize([]byte(src))
		assert.ErrorIs(t, err, lexer.ErrUnbalanced, src)
	}
}

func TestTokenize_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, tokenize(t, ""))
	assert.Empty(t, tokenize(t, "  // nothing here\n"))
}

func TestTokenize_FeedsLocators(t *testing.T) {
	t.Parallel()

	src := `
mod inner {
    pub struct Point { pub x: i32, pub y: i32 }

    impl Clone for Point {
        fn clone(&self) -> Self { Point { x: self.x, y: self.y } }
    }

    impl std::fmt::Debug for Point {
        fn fmt(&self, f: &mut std::fmt::Formatter<'_>) -> std::fmt::Result {
            f.debug_struct("Point").finish()
        }
    }
}
`
	tree := tokenize(t, src)

	def, ok := locate.Locate(tree, locate.TypeDefinition("Point"))
	require.True(t, ok)
	assert.Equal(t, "struct Point { pub x : i32 , pub y : i32 }", token.Serialize(def))

	impl, ok := locate.Locate(tree, locate.InterfaceImpl("Debug", "Point"))
	require.True(t, ok)
	text := token.Serialize(impl)
	assert.True(t, strings.HasPrefix(text, "impl std :: fmt :: Debug for Point {"), text)
	assert.Contains(t, text, `debug_struct ( "Point" )`)

	fn, ok := locate.Locate(tree, locate.Function("clone"))
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(token.Serialize(fn), "fn clone ( & self ) -> Self {"))
}

const roundTripSource = `
struct Holder<'a, T> where T: Clone {
    name: &'static str,
    items: Vec<Vec<T>>,
    tag: &'a u8,
}

struct Counter { n: u32 }

impl Iterator for Counter {
    type Item = u32;
    fn next(&mut self) -> Option<<Self as Iterator>::Item> {
        'outer: for i in 0..=self.n {
            if i == 3 { break 'outer; }
        }
        let delta: i8 =-1;
        let byte = b'a';
        let raw = r#"x"#;
        let small = 1u8;
        let shifted = small >> 1;
        None
    }
}

fn walk<'a>(input: &'a str) -> std::option::Option<&'a str> {
    let _ = input.len()>>1;
    Some(input)
}

impl<'a, T: Clone> Clone for Holder<'a, T> {
    fn clone(&self) -> Self { Holder { name: self.name, items: self.items.clone(), tag: self.tag } }
}
`

func TestTokenize_RoundTrip(t *testing.T) {
	t.Parallel()

	tree := tokenize(t, roundTripSource)
	assertTree(t, tree, tokenize(t, token.Serialize(tree)))

	tests := []struct {
		name   string
		req    locate.Request
		prefix string
	}{
		{"lifetime generics", locate.TypeDefinition("Holder"), "struct Holder <'a , T > where T : Clone {"},
		{"plain struct", locate.TypeDefinition("Counter"), "struct Counter { n : u32 }"},
		{"qualified path in return type", locate.Function("next"), "fn next ( & mut self ) -> Option << Self as Iterator >:: Item > {"},
		{"lifetime parameters", locate.Function("walk"), "fn walk <'a > ( input : &'a str ) -> std :: option :: Option <&'a str > {"},
		{"impl", locate.InterfaceImpl("Iterator", "Counter"), "impl Iterator for Counter {"},
		{"impl with lifetime generics", locate.InterfaceImpl("Clone", "Holder"), "impl <'a , T : Clone > Clone for Holder <'a , T > {"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, ok := locate.Locate(tree, tt.req)
			require.True(t, ok)

			text := token.Serialize(found)
			assert.True(t, strings.HasPrefix(text, tt.prefix), text)
			assertTree(t, found, tokenize(t, text))
		})
	}

	t.Run("operators and literals", func(t *testing.T) {
		found, ok := locate.Locate(tree, locate.Function("next"))
		require.True(t, ok)

		text := token.Serialize(found)
		for _, want := range []string{
			"'outer : for i in 0 ..= self . n {",
			"break 'outer ;",
			"let delta : i8 =- 1 ;",
			"let byte = b'a' ;",
			`let raw = r#"x"# ;`,
			"let small = 1u8 ;",
			"small >> 1 ;",
		} {
			assert.Contains(t, text, want)
		}
	})
}

func TestTokenize_ConcurrentUse(t *testing.T) {
	t.Parallel()

	lx := lexer.New()
	done := make(chan []token.Token, 8)
	for i := 0; i < 8; i++ {
		go func() {
			got, err := lx.Tokenize([]byte("enum E { A, B }"))
			if err != nil {
				done <- nil
				return
			}
			done <- got
		}()
	}
	for i := 0; i < 8; i++ {
		got := <-done
		assert.Equal(t, "enum E { A , B }", token.Serialize(got))
	}
}
