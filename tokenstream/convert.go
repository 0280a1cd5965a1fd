package tokenstream

import "github.com/aledsdavies/lexkit/token"

// FromTokens converts a slice of zero-copy tokens into wire Records,
// copying each lexeme (the wire format always owns its bytes).
func FromTokens[Kind any](tokens []token.Token[Kind]) []Record[Kind] {
	out := make([]Record[Kind], len(tokens))
	for i, tok := range tokens {
		lexeme := make([]byte, tok.Length())
		copy(lexeme, tok.Lexeme())

		rec := Record[Kind]{Kind: tok.Kind(), Lexeme: lexeme, Position: tok.Position()}
		if meta, ok := tok.Metadata(); ok {
			rec.Meta = &RecordMeta{
				Kind:      int(meta.Kind),
				Integer:   meta.Integer,
				Float:     meta.Float,
				String:    meta.String,
				Boolean:   meta.Boolean,
				Character: meta.Character,
			}
		}
		out[i] = rec
	}
	return out
}

// ToTokens reconstructs Tokens from wire Records. Each Token's lexeme is
// the Record's own Lexeme slice (no copy is made); Records built by Read
// or FromTokens own their bytes, so such Tokens do not alias any original
// source buffer.
func ToTokens[Kind any](records []Record[Kind]) []token.Token[Kind] {
	out := make([]token.Token[Kind], len(records))
	for i, rec := range records {
		if rec.Meta == nil {
			out[i] = token.Init(rec.Kind, rec.Lexeme, rec.Position)
			continue
		}
		meta := token.Metadata{
			Kind:      token.MetadataKind(rec.Meta.Kind),
			Integer:   rec.Meta.Integer,
			Float:     rec.Meta.Float,
			String:    rec.Meta.String,
			Boolean:   rec.Meta.Boolean,
			Character: rec.Meta.Character,
		}
		out[i] = token.InitWithMetadata(rec.Kind, rec.Lexeme, rec.Position, meta)
	}
	return out
}
