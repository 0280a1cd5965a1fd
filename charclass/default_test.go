package charclass

import (
	"errors"
	"testing"

	"github.com/aledsdavies/lexkit/lexerr"
)

func TestDecodeOneASCII(t *testing.T) {
	res, err := Default.DecodeOne([]byte("A"))
	if err != nil {
		t.Fatalf("decode_one: %v", err)
	}
	if res.Codepoint != 'A' || res.BytesConsumed != 1 {
		t.Fatalf("got %+v", res)
	}
}

func TestDecodeOneMultiByte(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want rune
		n    int
	}{
		{"two_byte", "é", 'é', 2},
		{"three_byte", "中", '中', 3},
		{"four_byte", "😊", '😊', 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Default.DecodeOne([]byte(tt.in))
			if err != nil {
				t.Fatalf("decode_one(%q): %v", tt.in, err)
			}
			if res.Codepoint != tt.want || res.BytesConsumed != tt.n {
				t.Fatalf("got %+v, want {%q %d}", res, tt.want, tt.n)
			}
		})
	}
}

func TestDecodeOneErrors(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want error
	}{
		{"empty", []byte{}, lexerr.ErrEmptyInput},
		{"lone_continuation", []byte{0x80}, lexerr.ErrInvalidUTF8Continuation},
		{"invalid_leading_byte", []byte{0xFF}, lexerr.ErrInvalidUTF8},
		{"incomplete_two_byte", []byte{0xC3}, lexerr.ErrIncompleteUTF8},
		{"incomplete_three_byte", []byte{0xE4, 0xB8}, lexerr.ErrIncompleteUTF8},
		{"surrogate", []byte{0xED, 0xA0, 0x80}, lexerr.ErrInvalidCodepoint},
		{"bad_continuation_after_valid_lead", []byte{0xC3, 0x28}, lexerr.ErrInvalidUTF8Continuation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Default.DecodeOne(tt.in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got err %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	codepoints := []rune{'A', 'é', '中', '😊'}
	for _, cp := range codepoints {
		buf := make([]byte, 4)
		n, err := Default.EncodeOne(cp, buf)
		if err != nil {
			t.Fatalf("encode_one(%q): %v", cp, err)
		}
		res, err := Default.DecodeOne(buf[:n])
		if err != nil {
			t.Fatalf("decode_one after encode(%q): %v", cp, err)
		}
		if res.Codepoint != cp {
			t.Fatalf("round trip mismatch: got %q, want %q", res.Codepoint, cp)
		}
	}
}

func TestEncodeOneBufferTooSmall(t *testing.T) {
	buf := make([]byte, 1)
	if _, err := Default.EncodeOne('中', buf); !errors.Is(err, lexerr.ErrBufferTooSmall) {
		t.Fatalf("got %v, want ErrBufferTooSmall", err)
	}
}

func TestClassificationPredicates(t *testing.T) {
	if !Default.IsWhitespace(' ') || !Default.IsWhitespace('\t') {
		t.Errorf("expected ASCII whitespace to classify as whitespace")
	}
	if !Default.IsLetter('z') || Default.IsLetter('9') {
		t.Errorf("letter classification wrong")
	}
	if !Default.IsDigit('5') || Default.IsDigit('a') {
		t.Errorf("digit classification wrong")
	}
	if !Default.IsIdentifierStart('_') || Default.IsIdentifierStart('3') {
		t.Errorf("identifier-start classification wrong")
	}
	if !Default.IsIdentifierContinue('9') {
		t.Errorf("identifier-continue should accept digits after the first codepoint")
	}
}

func TestValidCodepoint(t *testing.T) {
	if !ValidCodepoint(0x10FFFF) {
		t.Errorf("0x10FFFF should be valid")
	}
	if ValidCodepoint(0x110000) {
		t.Errorf("0x110000 should be invalid")
	}
	if ValidCodepoint(0xD800) {
		t.Errorf("surrogate should be invalid")
	}
	if ValidCodepoint(-1) {
		t.Errorf("negative codepoint should be invalid")
	}
}
