// Package token defines the generic zero-copy Token described in spec.md
// §4.5: a (kind, borrowed slice, position, optional metadata) value type,
// plus comparison and categorization helpers. Categorization itself is
// supplied by the caller via the Classifier/Categorizer interfaces (§6) — this package
// fixes no concrete Kind.
package token

import (
	"fmt"

	"github.com/aledsdavies/lexkit/position"
)

// MetadataKind tags which variant of Metadata is populated.
type MetadataKind int

const (
	NoMetadata MetadataKind = iota
	IntegerMetadata
	FloatMetadata
	StringMetadata
	BooleanMetadata
	CharacterMetadata
	CustomMetadata
)

// Metadata is the tagged union attached to literal tokens. Exactly one
// field is meaningful, selected by Kind.
type Metadata struct {
	Kind      MetadataKind
	Integer   int64
	Float     float64
	String    string
	Boolean   bool
	Character rune
	Custom    any
}

// IntegerMeta builds an integer-valued Metadata.
func IntegerMeta(v int64) Metadata { return Metadata{Kind: IntegerMetadata, Integer: v} }

// FloatMeta builds a float-valued Metadata.
func FloatMeta(v float64) Metadata { return Metadata{Kind: FloatMetadata, Float: v} }

// StringMeta builds a string-valued Metadata.
func StringMeta(v string) Metadata { return Metadata{Kind: StringMetadata, String: v} }

// BooleanMeta builds a boolean-valued Metadata.
func BooleanMeta(v bool) Metadata { return Metadata{Kind: BooleanMetadata, Boolean: v} }

// CharacterMeta builds a character-valued Metadata.
func CharacterMeta(v rune) Metadata { return Metadata{Kind: CharacterMetadata, Character: v} }

// CustomMeta builds an opaque caller-defined Metadata.
func CustomMeta(v any) Metadata { return Metadata{Kind: CustomMetadata, Custom: v} }

// Token is a zero-copy lexical token parameterized over a caller-supplied
// Kind. Slice borrows directly from the source buffer that produced it;
// the Token must not outlive that source (spec.md §3, §9 "lifetime of
// zero-copy slices").
type Token[Kind any] struct {
	kind     Kind
	slice    []byte
	position position.Position
	metadata Metadata
	hasMeta  bool
}

// Init constructs a Token with no metadata. Construction allocates nothing.
func Init[Kind any](kind Kind, slice []byte, pos position.Position) Token[Kind] {
	return Token[Kind]{kind: kind, slice: slice, position: pos}
}

// InitWithMetadata constructs a Token carrying metadata.
func InitWithMetadata[Kind any](kind Kind, slice []byte, pos position.Position, meta Metadata) Token[Kind] {
	return Token[Kind]{kind: kind, slice: slice, position: pos, metadata: meta, hasMeta: true}
}

// Kind returns the token's kind.
func (t Token[Kind]) Kind() Kind { return t.kind }

// Lexeme returns the borrowed source slice.
func (t Token[Kind]) Lexeme() []byte { return t.slice }

// Length returns len(Lexeme()).
func (t Token[Kind]) Length() int { return len(t.slice) }

// Position returns the token's start position.
func (t Token[Kind]) Position() position.Position { return t.position }

// Metadata returns the token's metadata and whether any was set.
func (t Token[Kind]) Metadata() (Metadata, bool) { return t.metadata, t.hasMeta }

// IntoOwned copies the lexeme into a freshly allocated slice and returns a
// Token that no longer borrows from the original source — the resolution
// SPEC_FULL.md gives for the "owned lexeme" variant the original source
// carried and the distilled spec dropped: callers that must outlive the
// source call this instead of keeping the zero-copy borrow alive.
func (t Token[Kind]) IntoOwned() Token[Kind] {
	owned := make([]byte, len(t.slice))
	copy(owned, t.slice)
	t.slice = owned
	return t
}

// Eql reports whether a and b share the same kind and identical lexeme
// bytes. Position is ignored.
func Eql[Kind comparable](a, b Token[Kind]) bool {
	return a.kind == b.kind && string(a.slice) == string(b.slice)
}

// Identical reports Eql(a, b) plus identical position.
func Identical[Kind comparable](a, b Token[Kind]) bool {
	return Eql(a, b) && a.position.Eql(b.position)
}

// Format renders "Token(<kind>, \"<slice>\", <line>:<column>)".
func (t Token[Kind]) Format() string {
	return fmt.Sprintf("Token(%v, %q, %d:%d)", t.kind, string(t.slice), t.position.Line, t.position.Column)
}

func (t Token[Kind]) String() string { return t.Format() }
