package examplelexer

import (
	"fmt"
	"strconv"

	"github.com/aledsdavies/lexkit/buffer"
	"github.com/aledsdavies/lexkit/charclass"
	"github.com/aledsdavies/lexkit/position"
	"github.com/aledsdavies/lexkit/token"
)

// Lexer recognizes Kind tokens from a Buffer, dispatching on the leading
// byte the way runtime/lexer/v2.Lexer does: identifier/digit-start
// branches, then a SingleCharTokens/TwoCharTokens lookup, falling back to
// Illegal for anything unrecognized.
type Lexer struct {
	buf *buffer.Buffer
}

// New wraps buf in a Lexer. buf should already have tracking enabled if
// the caller wants Position data on tokens.
func New(buf *buffer.Buffer) *Lexer {
	return &Lexer{buf: buf}
}

// Next scans and returns the next token, or an EOF-kind token once the
// buffer is exhausted. An unrecognized byte is reported as an Illegal
// token carrying that byte, matching runtime/lexer/v2's tolerant-lexing
// style rather than stopping the scan outright; an unterminated string or
// an invalid UTF-8 sequence inside an identifier is returned as an error.
func (l *Lexer) Next() (token.Token[Kind], error) {
	b, ok := l.buf.PeekByte()
	if !ok {
		return token.Init(EOF, nil, l.pos()), nil
	}

	switch {
	case b == ' ' || b == '\t' || b == '\r':
		return l.lexWhitespace()
	case b == '\n':
		return l.lexSingleRune(Newline)
	case b == '#':
		return l.lexComment()
	case b == '"':
		return l.lexString()
	case isDigit(b):
		return l.lexNumber()
	case charclass.Default.IsIdentifierStart(rune(b)):
		return l.lexIdentifier()
	default:
		return l.lexOperator(b)
	}
}

func (l *Lexer) pos() position.Position {
	if t := l.buf.Tracker(); t != nil {
		return t.Current()
	}
	return position.Position{Offset: uint64(l.buf.BytePos())}
}

// lexWhitespace consumes a run of whitespace starting at a space/tab/CR,
// stopping before a '\n' so that byte always gets its own Newline token
// (ConsumeWhitespace's codec predicate treats '\n' as whitespace too).
func (l *Lexer) lexWhitespace() (token.Token[Kind], error) {
	start := l.pos()
	lexeme, err := l.buf.ConsumeWhile(func(r rune) bool {
		return r != '\n' && charclass.Default.IsWhitespace(r)
	})
	if err != nil {
		return token.Token[Kind]{}, fmt.Errorf("examplelexer: whitespace: %w", err)
	}
	return token.Init(Whitespace, lexeme, start), nil
}

func (l *Lexer) lexSingleRune(kind Kind) (token.Token[Kind], error) {
	start := l.pos()
	startOffset := l.buf.BytePos()
	if _, err := l.buf.Next(); err != nil {
		return token.Token[Kind]{}, fmt.Errorf("examplelexer: %s: %w", kind, err)
	}
	return token.Init(kind, l.buf.Source()[startOffset:l.buf.BytePos()], start), nil
}

func (l *Lexer) lexComment() (token.Token[Kind], error) {
	start := l.pos()
	startOffset := l.buf.BytePos()
	l.buf.SkipToLineEnd()
	return token.Init(Comment, l.buf.Source()[startOffset:l.buf.BytePos()], start), nil
}

func (l *Lexer) lexString() (token.Token[Kind], error) {
	start := l.pos()
	startOffset := l.buf.BytePos()
	if _, err := l.buf.Next(); err != nil { // opening quote
		return token.Token[Kind]{}, fmt.Errorf("examplelexer: string: %w", err)
	}
	for {
		b, err := l.buf.Peek()
		if err != nil {
			return token.Token[Kind]{}, fmt.Errorf("examplelexer: unterminated string: %w", err)
		}
		if _, err := l.buf.Next(); err != nil {
			return token.Token[Kind]{}, fmt.Errorf("examplelexer: string: %w", err)
		}
		if b == '"' {
			break
		}
		if b == '\\' {
			if _, err := l.buf.Next(); err != nil {
				return token.Token[Kind]{}, fmt.Errorf("examplelexer: string escape: %w", err)
			}
		}
	}
	lexeme := l.buf.Source()[startOffset:l.buf.BytePos()]
	value := string(lexeme[1 : len(lexeme)-1])
	return token.InitWithMetadata(String, lexeme, start, token.StringMeta(value)), nil
}

func (l *Lexer) lexNumber() (token.Token[Kind], error) {
	start := l.pos()
	startOffset := l.buf.BytePos()
	if err := l.buf.SkipWhile(isDigitRune); err != nil {
		return token.Token[Kind]{}, fmt.Errorf("examplelexer: number: %w", err)
	}
	if b, ok := l.buf.PeekByte(); ok && b == '.' {
		if _, err := l.buf.Next(); err != nil {
			return token.Token[Kind]{}, fmt.Errorf("examplelexer: number: %w", err)
		}
		if err := l.buf.SkipWhile(isDigitRune); err != nil {
			return token.Token[Kind]{}, fmt.Errorf("examplelexer: number: %w", err)
		}
	}
	lexeme := l.buf.Source()[startOffset:l.buf.BytePos()]
	if f, err := strconv.ParseFloat(string(lexeme), 64); err == nil {
		return token.InitWithMetadata(Number, lexeme, start, token.FloatMeta(f)), nil
	}
	return token.Init(Number, lexeme, start), nil
}

func (l *Lexer) lexIdentifier() (token.Token[Kind], error) {
	start := l.pos()
	lexeme, err := l.buf.ConsumeIdentifier()
	if err != nil {
		return token.Token[Kind]{}, fmt.Errorf("examplelexer: identifier: %w", err)
	}
	if kind, ok := Keywords[string(lexeme)]; ok {
		if kind == Boolean {
			return token.InitWithMetadata(kind, lexeme, start, token.BooleanMeta(string(lexeme) == "true")), nil
		}
		return token.Init(kind, lexeme, start), nil
	}
	return token.Init(Identifier, lexeme, start), nil
}

func (l *Lexer) lexOperator(first byte) (token.Token[Kind], error) {
	start := l.pos()
	startOffset := l.buf.BytePos()

	if n, err := l.buf.PeekN(1); err == nil {
		two := string([]byte{first, n})
		if kind, ok := TwoCharTokens[two]; ok {
			if _, err := l.buf.Next(); err != nil {
				return token.Token[Kind]{}, fmt.Errorf("examplelexer: operator: %w", err)
			}
			if _, err := l.buf.Next(); err != nil {
				return token.Token[Kind]{}, fmt.Errorf("examplelexer: operator: %w", err)
			}
			return token.Init(kind, l.buf.Source()[startOffset:l.buf.BytePos()], start), nil
		}
	}

	if kind, ok := SingleCharTokens[first]; ok {
		if _, err := l.buf.Next(); err != nil {
			return token.Token[Kind]{}, fmt.Errorf("examplelexer: operator: %w", err)
		}
		return token.Init(kind, l.buf.Source()[startOffset:l.buf.BytePos()], start), nil
	}

	if _, err := l.buf.Next(); err != nil {
		return token.Token[Kind]{}, fmt.Errorf("examplelexer: illegal byte: %w", err)
	}
	return token.Init(Illegal, l.buf.Source()[startOffset:l.buf.BytePos()], start), nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isDigitRune(r rune) bool { return r >= '0' && r <= '9' }

// All scans every token until EOF, returning them in order. The EOF
// sentinel token itself is not included.
func All(buf *buffer.Buffer) ([]token.Token[Kind], error) {
	lx := New(buf)
	var out []token.Token[Kind]
	for {
		tok, err := lx.Next()
		if err != nil {
			return out, err
		}
		if tok.Kind() == EOF {
			return out, nil
		}
		out = append(out, tok)
	}
}
