package parser

import (
	"unicode"
	"unicode/utf8"

	"github.com/jason-crow/cesium/pkg/types"
)

const eof = -1

// Lexer converts a styling expression into a sequence of tokens.
// The implementation is based on Rob Pike's "Lexical Scanning in Go"
// technique.
type Lexer struct {
	input   string // Input string being scanned
	length  int    // Length of input string
	start   int    // Start position of current token
	current int    // Current position in input
	width   int    // Width of last rune read
	err     error  // First error encountered
}

// NewLexer creates a new lexer from the provided input string.
// The input is tokenized by successive calls to the Next method.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		length: len(input),
	}
}

// Next returns the next token from the input.
// When the end of the input is reached, Next returns TokenEOF for all
// subsequent calls.
func (l *Lexer) Next() Token {
	l.acceptAll(isWhitespace)
	l.ignore()

	ch := l.nextRune()
	if ch == eof {
		return l.eof()
	}

	switch ch {
	case '$':
		return l.scanVariable()
	case '"', '\'':
		l.ignore()
		return l.scanString(ch)
	case '=':
		if l.acceptRune('=') {
			if l.acceptRune('=') {
				return l.newToken(TokenEqual)
			}
			return l.error(types.ErrInvalidOperator, "Unexpected operator ==, use ===")
		}
		if l.acceptRune('~') {
			return l.newToken(TokenMatch)
		}
		return l.error(types.ErrInvalidOperator, "Unexpected operator =")
	case '!':
		if l.acceptRune('=') {
			if l.acceptRune('=') {
				return l.newToken(TokenNotEqual)
			}
			return l.error(types.ErrInvalidOperator, "Unexpected operator !=, use !==")
		}
		if l.acceptRune('~') {
			return l.newToken(TokenNotMatch)
		}
		return l.newToken(TokenNot)
	case '<':
		if l.acceptRune('=') {
			return l.newToken(TokenLessEqual)
		}
		return l.newToken(TokenLess)
	case '>':
		if l.acceptRune('=') {
			return l.newToken(TokenGreaterEqual)
		}
		return l.newToken(TokenGreater)
	case '&':
		if l.acceptRune('&') {
			return l.newToken(TokenAnd)
		}
		return l.error(types.ErrInvalidOperator, "Unexpected operator &, use &&")
	case '|':
		if l.acceptRune('|') {
			return l.newToken(TokenOr)
		}
		return l.error(types.ErrInvalidOperator, "Unexpected operator |, use ||")
	}

	if tt := lookupSymbol1(ch); tt > 0 {
		return l.newToken(tt)
	}

	if ch >= '0' && ch <= '9' {
		l.backup()
		return l.scanNumber()
	}

	if isNameStart(ch) {
		l.backup()
		return l.scanName()
	}

	return l.error(types.ErrSyntax, "Unexpected character "+string(ch))
}

// Error returns the first error encountered during lexing, if any.
func (l *Lexer) Error() error {
	return l.err
}

// scanVariable reads a ${name} attribute reference.
// The '$' has already been consumed.
func (l *Lexer) scanVariable() Token {
	if !l.acceptRune('{') {
		return l.error(types.ErrVariableSyntax, "Expected { after $")
	}
	l.ignore()

Loop:
	for {
		switch l.nextRune() {
		case '}':
			break Loop
		case eof:
			return l.error(types.ErrVariableSyntax, "Unterminated variable reference")
		}
	}

	l.backup()
	t := l.newToken(TokenVariable)
	l.acceptRune('}')
	l.ignore()
	return t
}

// scanString reads a string literal from the current position.
// The opening quote has already been consumed.
// Supports both single and double quotes with escape sequences.
func (l *Lexer) scanString(quote rune) Token {
Loop:
	for {
		switch l.nextRune() {
		case quote:
			break Loop
		case '\\':
			// Consume escaped character
			if r := l.nextRune(); r != eof {
				break
			}
			fallthrough
		case eof:
			return l.error(types.ErrStringNotClosed, "Unterminated string literal")
		}
	}

	l.backup()
	t := l.newToken(TokenString)
	l.acceptRune(quote)
	l.ignore()
	return t
}

// scanNumber reads a number literal from the current position.
// Format: [0-9]+(\.[0-9]*)?([eE][+-]?[0-9]+)?
func (l *Lexer) scanNumber() Token {
	l.acceptAll(isDigit)

	if l.acceptRune('.') {
		// The fraction part is optional, as in the JavaScript number
		// grammar: "1." is 1 and "1.e3" is 1000.
		l.acceptAll(isDigit)
	}

	if l.acceptRunes2('e', 'E') {
		l.acceptRunes2('+', '-')
		if !l.acceptAll(isDigit) {
			return l.error(types.ErrInvalidNumber, "Malformed exponent")
		}
	}

	return l.newToken(TokenNumber)
}

// scanName reads a builtin name or keyword from the current position.
// Names contain letters, digits, and underscores.
// Keywords are: true, false, null, undefined.
func (l *Lexer) scanName() Token {
	l.acceptAll(isNameRune)

	t := l.newToken(TokenName)
	if tt := lookupKeyword(t.Value); tt > 0 {
		t.Type = tt
	}
	return t
}

// Helper methods

func (l *Lexer) eof() Token {
	return Token{
		Type:     TokenEOF,
		Position: l.current,
	}
}

func (l *Lexer) error(code types.ErrorCode, message string) Token {
	t := l.newToken(TokenError)
	l.err = &types.Error{
		Code:     code,
		Message:  message,
		Position: t.Position,
		Token:    t.Value,
	}
	return t
}

func (l *Lexer) newToken(tt TokenType) Token {
	t := Token{
		Type:     tt,
		Value:    l.input[l.start:l.current],
		Position: l.start,
	}
	l.width = 0
	l.start = l.current
	return t
}

func (l *Lexer) nextRune() rune {
	if l.err != nil || l.current >= l.length {
		l.width = 0
		return eof
	}

	r, w := utf8.DecodeRuneInString(l.input[l.current:])
	l.width = w
	l.current += w
	return r
}

func (l *Lexer) backup() {
	l.current -= l.width
}

func (l *Lexer) ignore() {
	l.start = l.current
}

func (l *Lexer) acceptRune(r rune) bool {
	return l.accept(func(c rune) bool {
		return c == r
	})
}

func (l *Lexer) acceptRunes2(r1, r2 rune) bool {
	return l.accept(func(c rune) bool {
		return c == r1 || c == r2
	})
}

func (l *Lexer) accept(isValid func(rune) bool) bool {
	if isValid(l.nextRune()) {
		return true
	}
	l.backup()
	return false
}

func (l *Lexer) acceptAll(isValid func(rune) bool) bool {
	var matched bool
	for l.accept(isValid) {
		matched = true
	}
	return matched
}

// Character classification functions

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v':
		return true
	default:
		return false
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNameRune(r rune) bool {
	return isNameStart(r) || isDigit(r)
}
