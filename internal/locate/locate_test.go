package locate_test

import (
	"strings"
	"testing"

	"github.com/mvp-joe/macrolens/internal/locate"
	"github.com/mvp-joe/macrolens/internal/token"
	"github.com/mvp-joe/macrolens/internal/token/tokentest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for locators:
// - Type definition with brace body captures keyword through closing brace
// - Unit-style type definition captures through ';' and contains no group
// - A ';' glued to the next item is Alone in the capture, the tree is untouched
// - Tuple-style type definition stops after the parenthesis group
// - Generic type definition keeps generics and where clauses
// - Nested same-named type definition earlier in the stream wins (pre-order)
// - Keyword not immediately followed by the name is not a match
// - Truncated type definition (no body, no ';') is not found and does not panic
// - Function capture includes parameters, return type and brace body
// - Function search skips same-named identifiers not preceded by the keyword
// - Impl without filter returns the first impl of the trait
// - Impl with filter rejects mismatches and resumes after the rejection point
// - Impl with filter never retries the rejected occurrence
// - Impl capture is trimmed to start at the matching impl keyword
// - Impl nested inside a group passed during an attempt is returned
// - Impl of a generic trait ("Show<T> for Foo") is recognized
// - Trait name used as a bound is not mistaken for the implemented trait
// - Absent names return not found for every locator
// - Empty names return not found
// - 600 nested groups are searched without error
// - Custom keyword sets are honored

func lookup(t *testing.T, src string, req locate.Request) (string, bool) {
	t.Helper()
	found, ok := locate.Locate(tokentest.Parse(t, src), req)
	if !ok {
		return "", false
	}
	return token.Serialize(found), true
}

func TestTypeDefinition_BraceBody(t *testing.T) {
	t.Parallel()

	got, ok := lookup(t, "struct Foo { x : Int , }", locate.TypeDefinition("Foo"))
	require.True(t, ok)
	assert.Equal(t, "struct Foo { x : Int , }", got)
}

func TestTypeDefinition_BalancedBraces(t *testing.T) {
	t.Parallel()

	src := "fn before ( ) { } struct Foo { x : Vec < [ u8 ; 4 ] > , y : ( Int , Int ) , } struct After ;"
	found, ok := locate.Locate(tokentest.Parse(t, src), locate.TypeDefinition("Foo"))
	require.True(t, ok)

	text := token.Serialize(found)
	assert.True(t, strings.HasPrefix(text, "struct Foo"))
	assert.True(t, strings.HasSuffix(text, "}"))
	assert.Equal(t, strings.Count(text, "{"), strings.Count(text, "}"))
	assert.True(t, found[len(found)-1].IsGroupOf(token.Brace))
}

func TestTypeDefinition_Unit(t *testing.T) {
	t.Parallel()

	found, ok := locate.Locate(tokentest.Parse(t, "struct Marker ; struct Other { }"), locate.TypeDefinition("Marker"))
	require.True(t, ok)

	assert.Equal(t, "struct Marker ;", token.Serialize(found))
	for _, tok := range found {
		assert.False(t, tok.IsGroup(), "unit capture must not contain a group")
	}
	assert.True(t, found[len(found)-1].IsPunct(';'))
}

func TestTypeDefinition_UnitGluedToNextItem(t *testing.T) {
	t.Parallel()

	tree := tokentest.Parse(t, "struct Marker ;# [ derive ( Debug ) ] struct Other ;")
	require.Equal(t, token.Joint, tree[2].Spacing)

	found, ok := locate.Locate(tree, locate.TypeDefinition("Marker"))
	require.True(t, ok)
	assert.Equal(t, token.Alone, found[len(found)-1].Spacing)
	assert.Equal(t, "struct Marker ;", token.Serialize(found))
	assert.Equal(t, token.Joint, tree[2].Spacing)
}

func TestTypeDefinition_Tuple(t *testing.T) {
	t.Parallel()

	got, ok := lookup(t, "pub struct Meters ( pub f64 ) ;", locate.TypeDefinition("Meters"))
	require.True(t, ok)
	assert.Equal(t, "struct Meters ( pub f64 )", got)
}

func TestTypeDefinition_Generic(t *testing.T) {
	t.Parallel()

	src := "struct GenericStruct < 'a , T > where T : Iterator < Item = u8 > , { f : & 'a mut T , }"
	got, ok := lookup(t, src, locate.TypeDefinition("GenericStruct"))
	require.True(t, ok)
	assert.Equal(t, src, got)
}

func TestTypeDefinition_Enum(t *testing.T) {
	t.Parallel()

	got, ok := lookup(t, "enum Status { Active , Inactive , }", locate.TypeDefinition("Status"))
	require.True(t, ok)
	assert.Equal(t, "enum Status { Active , Inactive , }", got)
}

func TestTypeDefinition_NestedWinsByPreOrder(t *testing.T) {
	t.Parallel()

	src := "mod M { struct Foo { y : Int , } } struct Foo { z : Int , }"
	got, ok := lookup(t, src, locate.TypeDefinition("Foo"))
	require.True(t, ok)
	assert.Equal(t, "struct Foo { y : Int , }", got)
}

func TestTypeDefinition_TopLevelFirstWins(t *testing.T) {
	t.Parallel()

	src := "struct Foo { z : Int , } mod M { struct Foo { y : Int , } }"
	got, ok := lookup(t, src, locate.TypeDefinition("Foo"))
	require.True(t, ok)
	assert.Equal(t, "struct Foo { z : Int , }", got)
}

func TestTypeDefinition_KeywordMustPrecedeName(t *testing.T) {
	t.Parallel()

	_, ok := lookup(t, "let Foo = struct ; struct Bar { }", locate.TypeDefinition("Foo"))
	assert.False(t, ok)

	got, ok := lookup(t, "struct pub Foo ; struct Foo ( u8 ) ;", locate.TypeDefinition("Foo"))
	require.True(t, ok)
	assert.Equal(t, "struct Foo ( u8 )", got)
}

func TestTypeDefinition_Truncated(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		_, ok := lookup(t, "struct Foo < T >", locate.TypeDefinition("Foo"))
		assert.False(t, ok)
	})
}

func TestFunction_FullSignature(t *testing.T) {
	t.Parallel()

	src := "fn add ( a : Int , b : Int ) -> Int { a + b }"
	got, ok := lookup(t, src, locate.Function("add"))
	require.True(t, ok)
	assert.Equal(t, src, got)
}

func TestFunction_GenericWithWhereClause(t *testing.T) {
	t.Parallel()

	src := "# [ allow ( unused ) ] fn iter < F , T > ( _ : impl Iterator < Item = F > ) -> Option < String > where F : AsRef < String > + ToString { None }"
	got, ok := lookup(t, src, locate.Function("iter"))
	require.True(t, ok)
	assert.Equal(t, "fn iter < F , T > ( _ : impl Iterator < Item = F > ) -> Option < String > where F : AsRef < String > + ToString { None }", got)
}

func TestFunction_NameWithoutKeyword(t *testing.T) {
	t.Parallel()

	src := "let add = 1 ; add ( ) ; mod m { fn add ( ) { } }"
	got, ok := lookup(t, src, locate.Function("add"))
	require.True(t, ok)
	assert.Equal(t, "fn add ( ) { }", got)
}

func TestFunction_NestedInImpl(t *testing.T) {
	t.Parallel()

	src := "impl Foo { pub fn new ( ) -> Self { Foo } } fn new ( ) { }"
	got, ok := lookup(t, src, locate.Function("new"))
	require.True(t, ok)
	assert.Equal(t, "fn new ( ) -> Self { Foo }", got)
}

func TestImpl_WithoutFilter(t *testing.T) {
	t.Parallel()

	src := "impl Show for Foo { fn show ( ) { } } impl Show for Bar { fn show ( ) { } }"
	got, ok := lookup(t, src, locate.InterfaceImpl("Show", ""))
	require.True(t, ok)
	assert.Equal(t, "impl Show for Foo { fn show ( ) { } }", got)
}

func TestImpl_FilterRejectsThenAccepts(t *testing.T) {
	t.Parallel()

	src := "impl Show for Foo { fn show ( ) { } } impl Show for Bar { fn show ( ) { } }"
	got, ok := lookup(t, src, locate.InterfaceImpl("Show", "Bar"))
	require.True(t, ok)
	assert.Equal(t, "impl Show for Bar { fn show ( ) { } }", got)
}

func TestImpl_FilterResumesPastRejectionPoint(t *testing.T) {
	t.Parallel()

	// After rejecting "for Foo" the scan continues with the body of that impl,
	// which is where the accepted block lives.
	src := "impl Show for Foo { impl Show for Bar { } } impl Show for Bar { fn late ( ) { } }"
	got, ok := lookup(t, src, locate.InterfaceImpl("Show", "Bar"))
	require.True(t, ok)
	assert.Equal(t, "impl Show for Bar { }", got)
}

func TestImpl_FilterNeverRetriesRejectedOccurrence(t *testing.T) {
	t.Parallel()

	_, ok := lookup(t, "impl Show for Foo { fn show ( ) { } }", locate.InterfaceImpl("Show", "Bar"))
	assert.False(t, ok)

	_, ok = lookup(t, "impl Show for", locate.InterfaceImpl("Show", "Bar"))
	assert.False(t, ok)
}

func TestImpl_TrimmedToMatchingKeyword(t *testing.T) {
	t.Parallel()

	src := "impl < T > Debug for Wrapper < T > { } impl Show for Baz { fn show ( ) { } }"
	got, ok := lookup(t, src, locate.InterfaceImpl("Show", ""))
	require.True(t, ok)
	assert.Equal(t, "impl Show for Baz { fn show ( ) { } }", got)
}

func TestImpl_NestedDuringAttempt(t *testing.T) {
	t.Parallel()

	src := "impl Debug for A { fn f ( ) { impl Show for B { } } } impl Show for C { }"
	got, ok := lookup(t, src, locate.InterfaceImpl("Show", ""))
	require.True(t, ok)
	assert.Equal(t, "impl Show for B { }", got)
}

func TestImpl_GenericHeader(t *testing.T) {
	t.Parallel()

	src := "impl < 'a , T > Iterator for GenericStruct < 'a , T > where T : Iterator < Item = u8 > , { type Item = Option < u8 > ; }"
	got, ok := lookup(t, src, locate.InterfaceImpl("Iterator", "GenericStruct"))
	require.True(t, ok)
	assert.Equal(t, src, got)
}

func TestImpl_GenericTrait(t *testing.T) {
	t.Parallel()

	src := "impl From < Vec < u8 > > for Bytes { fn from ( v : Vec < u8 > ) -> Self { Bytes ( v ) } }"
	got, ok := lookup(t, src, locate.InterfaceImpl("From", "Bytes"))
	require.True(t, ok)
	assert.Equal(t, src, got)

	src = "impl Handler < fn ( u8 ) -> u8 > for Svc { }"
	got, ok = lookup(t, src, locate.InterfaceImpl("Handler", "Svc"))
	require.True(t, ok)
	assert.Equal(t, src, got)
}

func TestImpl_TraitAsBound(t *testing.T) {
	t.Parallel()

	src := "impl < T : Show > Wrapper < T > { } impl Show for Real { }"
	got, ok := lookup(t, src, locate.InterfaceImpl("Show", ""))
	require.True(t, ok)
	assert.Equal(t, "impl Show for Real { }", got)
}

func TestAbsentNames(t *testing.T) {
	t.Parallel()

	src := "mod m { struct Foo { } fn bar ( ) { } impl Baz for Foo { } } # [ cfg ( test ) ] struct Qux ;"
	tree := tokentest.Parse(t, src)

	requests := []locate.Request{
		locate.TypeDefinition("Missing"),
		locate.Function("missing"),
		locate.InterfaceImpl("Missing", ""),
		locate.InterfaceImpl("Baz", "Missing"),
		locate.TypeDefinition("bar"),
		locate.Function("Foo"),
		locate.TypeDefinition(""),
	}
	for _, req := range requests {
		found, ok := locate.Locate(tree, req)
		assert.False(t, ok, "request %+v", req)
		assert.Nil(t, found)
	}
}

func TestDeepNesting(t *testing.T) {
	t.Parallel()

	const depth = 600
	src := strings.Repeat("mod m { ", depth) +
		"struct Foo ; fn f ( ) { } impl Show for Foo { }" +
		strings.Repeat(" }", depth)
	tree := tokentest.Parse(t, src)

	got, ok := locate.Locate(tree, locate.TypeDefinition("Foo"))
	require.True(t, ok)
	assert.Equal(t, "struct Foo ;", token.Serialize(got))

	got, ok = locate.Locate(tree, locate.Function("f"))
	require.True(t, ok)
	assert.Equal(t, "fn f ( ) { }", token.Serialize(got))

	got, ok = locate.Locate(tree, locate.InterfaceImpl("Show", "Foo"))
	require.True(t, ok)
	assert.Equal(t, "impl Show for Foo { }", token.Serialize(got))

	_, ok = locate.Locate(tree, locate.TypeDefinition("Missing"))
	assert.False(t, ok)
}

func TestCustomKeywords(t *testing.T) {
	t.Parallel()

	l := locate.New(locate.Keywords{
		TypeDefinition: []string{"record"},
		Function:       "def",
		Impl:           "instance",
		For:            "of",
	})
	tree := tokentest.Parse(t, "record Point { x , y } def norm ( p ) { p } instance Show of Point { }")

	got, ok := l.Locate(tree, locate.TypeDefinition("Point"))
	require.True(t, ok)
	assert.Equal(t, "record Point { x , y }", token.Serialize(got))

	got, ok = l.Locate(tree, locate.Function("norm"))
	require.True(t, ok)
	assert.Equal(t, "def norm ( p ) { p }", token.Serialize(got))

	got, ok = l.Locate(tree, locate.InterfaceImpl("Show", "Point"))
	require.True(t, ok)
	assert.Equal(t, "instance Show of Point { }", token.Serialize(got))

	_, ok = locate.Locate(tree, locate.TypeDefinition("Point"))
	assert.False(t, ok, "default keywords do not know 'record'")
}
