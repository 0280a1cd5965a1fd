package charclass

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"

	"github.com/aledsdavies/lexkit/lexerr"
)

// ASCII fast-path lookup tables, the same shape as pkgs/lexer's
// isWhitespace/isLetter/isDigit/isIdentStart/isIdentPart arrays: populated
// once at package init, consulted before falling back to the unicode
// package for anything outside the ASCII range.
var (
	asciiWhitespace    [128]bool
	asciiLetter        [128]bool
	asciiDigit         [128]bool
	asciiIdentStart    [128]bool
	asciiIdentContinue [128]bool
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)
		asciiWhitespace[i] = ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f' || ch == '\v'
		asciiLetter[i] = ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
		asciiDigit[i] = '0' <= ch && ch <= '9'
		asciiIdentStart[i] = asciiLetter[i] || ch == '_'
		asciiIdentContinue[i] = asciiIdentStart[i] || asciiDigit[i]
	}
}

// defaultCodec is the library-provided Codec backed by the standard
// library's unicode tables. It is a convenience, not a mandate — buffer and
// position accept any Codec.
type defaultCodec struct{}

// Default is the library-provided Codec implementation.
var Default Codec = defaultCodec{}

func (defaultCodec) DecodeOne(b []byte) (DecodeResult, error) {
	if len(b) == 0 {
		return DecodeResult{}, lexerr.ErrEmptyInput
	}

	lead := b[0]
	if lead&0x80 == 0 {
		return DecodeResult{Codepoint: rune(lead), BytesConsumed: 1}, nil
	}
	if lead&0xC0 == 0x80 {
		// A continuation byte can never start a sequence.
		return DecodeResult{}, fmt.Errorf("decode_one: leading byte 0x%02x: %w", lead, lexerr.ErrInvalidUTF8Continuation)
	}

	want := utf8.UTFMax
	switch {
	case lead&0xE0 == 0xC0:
		want = 2
	case lead&0xF0 == 0xE0:
		want = 3
	case lead&0xF8 == 0xF0:
		want = 4
	default:
		return DecodeResult{}, fmt.Errorf("decode_one: leading byte 0x%02x: %w", lead, lexerr.ErrInvalidUTF8)
	}
	if len(b) < want {
		return DecodeResult{}, fmt.Errorf("decode_one: need %d bytes, have %d: %w", want, len(b), lexerr.ErrIncompleteUTF8)
	}

	r, size := utf8.DecodeRune(b[:want])
	if r == utf8.RuneError && size <= 1 {
		for _, cont := range b[1:want] {
			if cont&0xC0 != 0x80 {
				return DecodeResult{}, fmt.Errorf("decode_one: byte 0x%02x after lead 0x%02x: %w", cont, lead, lexerr.ErrInvalidUTF8Continuation)
			}
		}
		// utf8.DecodeRune also refuses well-formed encodings of surrogates
		// and of values above 0x10FFFF; report those as invalid codepoints.
		cp := rune(lead) & (0x7F >> want)
		for _, cont := range b[1:want] {
			cp = cp<<6 | rune(cont&0x3F)
		}
		if !ValidCodepoint(cp) {
			return DecodeResult{}, fmt.Errorf("decode_one: codepoint U+%04X: %w", cp, lexerr.ErrInvalidCodepoint)
		}
		return DecodeResult{}, fmt.Errorf("decode_one: %w", lexerr.ErrInvalidUTF8)
	}
	if !ValidCodepoint(r) {
		return DecodeResult{}, fmt.Errorf("decode_one: codepoint U+%04X: %w", r, lexerr.ErrInvalidCodepoint)
	}
	return DecodeResult{Codepoint: r, BytesConsumed: size}, nil
}

func (defaultCodec) EncodeOne(cp rune, out []byte) (int, error) {
	if !ValidCodepoint(cp) {
		return 0, fmt.Errorf("encode_one: %w", lexerr.ErrInvalidCodepoint)
	}
	need := utf8.RuneLen(cp)
	if need < 0 {
		return 0, fmt.Errorf("encode_one: %w", lexerr.ErrInvalidCodepoint)
	}
	if len(out) < need {
		return 0, fmt.Errorf("encode_one: need %d bytes, have %d: %w", need, len(out), lexerr.ErrBufferTooSmall)
	}
	return utf8.EncodeRune(out, cp), nil
}

func (defaultCodec) IsWhitespace(cp rune) bool {
	if cp < 128 {
		return asciiWhitespace[cp]
	}
	return unicode.IsSpace(cp)
}

func (defaultCodec) IsLetter(cp rune) bool {
	if cp < 128 {
		return asciiLetter[cp]
	}
	return unicode.IsLetter(cp)
}

func (defaultCodec) IsDigit(cp rune) bool {
	if cp < 128 {
		return asciiDigit[cp]
	}
	return unicode.IsDigit(cp)
}

func (defaultCodec) IsIdentifierStart(cp rune) bool {
	if cp < 128 {
		return asciiIdentStart[cp]
	}
	return unicode.IsLetter(cp) || cp == '_'
}

func (defaultCodec) IsIdentifierContinue(cp rune) bool {
	if cp < 128 {
		return asciiIdentContinue[cp]
	}
	return unicode.IsLetter(cp) || unicode.IsDigit(cp) || cp == '_'
}

// VisualWidthHint is a diagnostic-only helper: a coarse guess at whether cp
// would render wider than one terminal column. It is never consulted by
// Position.AdvanceCodepoint (which always counts one column per spec §4.1
// and §9) — it is available to diagnostic tooling that wants to flag
// likely-wide characters to a human; cmd/lexkit does not call it.
func VisualWidthHint(cp rune) int {
	switch width.LookupRune(cp).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}
