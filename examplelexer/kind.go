// Package examplelexer is a minimal hand-written lexer built entirely on
// buffer, token, and charclass — a worked reference showing how the
// library's exported pieces compose, grounded on runtime/lexer/v2's
// TokenType/Keywords/SingleCharTokens/TwoCharTokens shape.
package examplelexer

import (
	"encoding/json"
	"fmt"

	"github.com/aledsdavies/lexkit/token"
)

// Kind enumerates the token kinds this example lexer produces. It is a
// small subset of runtime/lexer/v2's TokenType: identifiers, numbers,
// strings, a handful of operators/delimiters, and whitespace/comments.
type Kind int

const (
	EOF Kind = iota
	Illegal

	Identifier
	Number
	String
	Boolean

	Plus
	Minus
	Star
	Slash
	EqEq
	NotEq
	Assign

	LParen
	RParen
	LBrace
	RBrace
	Comma
	Colon

	Whitespace
	Newline
	Comment
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Illegal:
		return "ILLEGAL"
	case Identifier:
		return "IDENTIFIER"
	case Number:
		return "NUMBER"
	case String:
		return "STRING"
	case Boolean:
		return "BOOLEAN"
	case Plus:
		return "PLUS"
	case Minus:
		return "MINUS"
	case Star:
		return "STAR"
	case Slash:
		return "SLASH"
	case EqEq:
		return "EQ_EQ"
	case NotEq:
		return "NOT_EQ"
	case Assign:
		return "ASSIGN"
	case LParen:
		return "LPAREN"
	case RParen:
		return "RPAREN"
	case LBrace:
		return "LBRACE"
	case RBrace:
		return "RBRACE"
	case Comma:
		return "COMMA"
	case Colon:
		return "COLON"
	case Whitespace:
		return "WHITESPACE"
	case Newline:
		return "NEWLINE"
	case Comment:
		return "COMMENT"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON renders a Kind as its String() name, for cmd/lexkit's
// `tokenize --format json` output.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON parses a Kind from its String() name.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for candidate := EOF; candidate <= Comment; candidate++ {
		if candidate.String() == name {
			*k = candidate
			return nil
		}
	}
	return fmt.Errorf("examplelexer: unknown kind %q", name)
}

// IsLiteral implements token.Classifier.
func (k Kind) IsLiteral() bool { return k == Number || k == String || k == Boolean }

// IsOperator implements token.Classifier.
func (k Kind) IsOperator() bool {
	switch k {
	case Plus, Minus, Star, Slash, EqEq, NotEq, Assign:
		return true
	default:
		return false
	}
}

// IsDelimiter implements token.Classifier.
func (k Kind) IsDelimiter() bool {
	switch k {
	case LParen, RParen, LBrace, RBrace, Comma, Colon:
		return true
	default:
		return false
	}
}

// IsKeyword implements token.Classifier. This example lexer has no
// reserved words besides the boolean literals, which it classifies as
// literals instead.
func (k Kind) IsKeyword() bool { return false }

// IsWhitespace implements token.Classifier.
func (k Kind) IsWhitespace() bool { return k == Whitespace || k == Newline }

// IsComment implements token.Classifier.
func (k Kind) IsComment() bool { return k == Comment }

// IsIdentifier implements token.Classifier.
func (k Kind) IsIdentifier() bool { return k == Identifier }

// Category implements token.Categorizer.
func (k Kind) Category() token.Category {
	switch {
	case k == Assign:
		return token.Assignment
	case k.IsLiteral():
		return token.Literal
	case k.IsOperator():
		return token.Operator
	case k.IsDelimiter():
		return token.Delimiter
	case k.IsWhitespace():
		return token.Whitespace
	case k.IsComment():
		return token.Comment
	default:
		return token.Special
	}
}

// Keywords maps reserved words to their Kind, mirroring
// runtime/lexer/v2's Keywords map.
var Keywords = map[string]Kind{
	"true":  Boolean,
	"false": Boolean,
}

// SingleCharTokens maps single-byte operators/delimiters to their Kind,
// mirroring runtime/lexer/v2's SingleCharTokens map.
var SingleCharTokens = map[byte]Kind{
	'+': Plus,
	'-': Minus,
	'*': Star,
	'/': Slash,
	'=': Assign,
	'(': LParen,
	')': RParen,
	'{': LBrace,
	'}': RBrace,
	',': Comma,
	':': Colon,
	'\n': Newline,
}

// TwoCharTokens maps two-byte operator sequences to their Kind, mirroring
// runtime/lexer/v2's TwoCharTokens map.
var TwoCharTokens = map[string]Kind{
	"==": EqEq,
	"!=": NotEq,
}
