package token

import (
	"testing"

	"github.com/aledsdavies/lexkit/position"
)

type demoKind int

const (
	demoIdent demoKind = iota
	demoNumber
)

func TestInitAndAccessors(t *testing.T) {
	src := []byte("count")
	tok := Init[demoKind](demoIdent, src, position.Initial)

	if tok.Kind() != demoIdent {
		t.Errorf("kind mismatch")
	}
	if string(tok.Lexeme()) != "count" {
		t.Errorf("lexeme mismatch: %q", tok.Lexeme())
	}
	if tok.Length() != 5 {
		t.Errorf("length mismatch: %d", tok.Length())
	}
	if _, ok := tok.Metadata(); ok {
		t.Errorf("expected no metadata")
	}
}

func TestInitWithMetadata(t *testing.T) {
	tok := InitWithMetadata[demoKind](demoNumber, []byte("42"), position.Initial, IntegerMeta(42))
	meta, ok := tok.Metadata()
	if !ok {
		t.Fatalf("expected metadata to be set")
	}
	if meta.Kind != IntegerMetadata || meta.Integer != 42 {
		t.Errorf("got %+v", meta)
	}
}

func TestEqlIgnoresPosition(t *testing.T) {
	a := Init[demoKind](demoIdent, []byte("x"), position.Initial)
	b := Init[demoKind](demoIdent, []byte("x"), position.Position{Line: 2, Column: 3, Offset: 9})
	if !Eql(a, b) {
		t.Errorf("expected Eql to ignore position")
	}
	if Identical(a, b) {
		t.Errorf("expected Identical to require same position")
	}
}

func TestFormat(t *testing.T) {
	tok := Init[demoKind](demoIdent, []byte("foo"), position.Position{Line: 3, Column: 7, Offset: 10})
	want := `Token(0, "foo", 3:7)`
	if got := tok.Format(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestIntoOwnedCopiesLexeme(t *testing.T) {
	src := []byte("owned")
	tok := Init[demoKind](demoIdent, src, position.Initial)
	owned := tok.IntoOwned()
	src[0] = 'X'
	if string(owned.Lexeme()) != "owned" {
		t.Errorf("IntoOwned should not alias the original slice, got %q", owned.Lexeme())
	}
}

func TestComparator(t *testing.T) {
	cmp := Comparison[demoKind]()
	a := Init[demoKind](demoIdent, []byte("ab"), position.Position{Offset: 0, Line: 1, Column: 1})
	b := Init[demoKind](demoNumber, []byte("42"), position.Position{Offset: 2, Line: 1, Column: 3})

	if !cmp.AreAdjacent(a, b) {
		t.Errorf("expected tokens to be adjacent")
	}
	if cmp.Distance(a, b) != 0 {
		t.Errorf("expected zero distance between adjacent tokens")
	}
	if cmp.CompareByPosition(a, b) >= 0 {
		t.Errorf("expected a to sort before b by position")
	}
}
