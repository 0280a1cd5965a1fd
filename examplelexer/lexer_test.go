package examplelexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aledsdavies/lexkit/buffer"
	"github.com/aledsdavies/lexkit/token"
)

func TestAllBasicProgram(t *testing.T) {
	src := `x = 42 + y # comment
"hi" == true`
	buf := buffer.New([]byte(src))
	buf.EnableTracking()

	toks, err := All(buf)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}

	var got []Kind
	for _, tok := range toks {
		if tok.Kind() == Whitespace {
			continue
		}
		got = append(got, tok.Kind())
	}

	want := []Kind{
		Identifier, Assign, Number, Plus, Identifier, Comment,
		Newline, String, EqEq, Boolean,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("kind sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestNumberMetadata(t *testing.T) {
	buf := buffer.New([]byte("3.5"))
	lx := New(buf)
	tok, err := lx.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	meta, ok := tok.Metadata()
	if !ok {
		t.Fatalf("expected metadata on number token")
	}
	if meta.Float != 3.5 {
		t.Errorf("got float %v, want 3.5", meta.Float)
	}
}

func TestStringMetadataStripsQuotes(t *testing.T) {
	buf := buffer.New([]byte(`"hello"`))
	lx := New(buf)
	tok, err := lx.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	meta, ok := tok.Metadata()
	if !ok || meta.String != "hello" {
		t.Errorf("got metadata %+v, want string \"hello\"", meta)
	}
}

func TestIllegalByte(t *testing.T) {
	buf := buffer.New([]byte("$"))
	lx := New(buf)
	tok, err := lx.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if tok.Kind() != Illegal {
		t.Errorf("got kind %v, want Illegal", tok.Kind())
	}
}

func TestEOFToken(t *testing.T) {
	buf := buffer.New([]byte(""))
	lx := New(buf)
	tok, err := lx.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if tok.Kind() != EOF {
		t.Errorf("got kind %v, want EOF", tok.Kind())
	}
}

func TestCategoryAssignment(t *testing.T) {
	if Assign.Category() != token.Assignment {
		t.Errorf("got category %v, want token.Assignment", Assign.Category())
	}
}

func TestKindImplementsCategorizer(t *testing.T) {
	var _ token.Categorizer = Identifier
}
