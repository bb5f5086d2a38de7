package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jason-crow/cesium/pkg/functions"
	"github.com/jason-crow/cesium/pkg/types"
)

// Parser implements a recursive descent parser for styling expressions.
// It uses Pratt's "Top Down Operator Precedence" algorithm to handle
// operator precedence correctly.
type Parser struct {
	source  string // original, pre-expansion source
	lexer   *Lexer
	arena   *types.NodeArena
	current Token
	depth   int
	opts    CompileOptions
	expErr  error // define expansion error, reported by Parse
}

// NewParser creates a new parser for the given input string.
func NewParser(source string, opts ...CompileOption) *Parser {
	options := CompileOptions{
		MaxDepth: 100,
	}
	for _, opt := range opts {
		opt(&options)
	}

	expanded, err := ExpandDefines(source, options.Defines)
	if err != nil {
		expanded = source
	}

	p := &Parser{
		source: source,
		lexer:  NewLexer(expanded),
		arena:  types.NewNodeArena(),
		opts:   options,
		expErr: err,
	}

	// Read the first token
	p.advance()

	return p
}

// Parse parses the entire expression and returns the root AST node wrapped
// in an Expression.
func (p *Parser) Parse() (*types.Expression, error) {
	if p.expErr != nil {
		return nil, p.expErr
	}

	// Check for lexer errors (e.g., unterminated string)
	if p.current.Type == TokenError {
		return nil, p.lexer.Error()
	}

	if p.current.Type == TokenEOF {
		return nil, p.error(types.ErrSyntax, "Empty expression")
	}

	node, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if p.current.Type != TokenEOF {
		return nil, p.error(types.ErrSyntax, fmt.Sprintf("Unexpected token: %s", p.current.Value))
	}

	return types.NewExpression(node, p.source, p.arena), nil
}

// Operator precedence table (binding power).
// Higher values bind more tightly.
var precedence = map[TokenType]int{
	TokenQuestion:     5,  // ? :
	TokenOr:           10, // ||
	TokenAnd:          15, // &&
	TokenEqual:        20, // ===
	TokenNotEqual:     20, // !==
	TokenMatch:        20, // =~
	TokenNotMatch:     20, // !~
	TokenLess:         25, // <
	TokenLessEqual:    25, // <=
	TokenGreater:      25, // >
	TokenGreaterEqual: 25, // >=
	TokenPlus:         30, // +
	TokenMinus:        30, // -
	TokenMult:         35, // *
	TokenDiv:          35, // /
	TokenMod:          35, // %
	TokenDot:          80, // member access / method call
	TokenBracketOpen:  80, // index
}

// unaryPrecedence is the binding power of prefix !, - and +.
const unaryPrecedence = 40

// getPrecedence returns the precedence of a token type.
func (p *Parser) getPrecedence(tt TokenType) int {
	if prec, ok := precedence[tt]; ok {
		return prec
	}
	return 0
}

// advance moves to the next token.
func (p *Parser) advance() {
	p.current = p.lexer.Next()
}

// expect checks if the current token matches the expected type and advances.
func (p *Parser) expect(tt TokenType) error {
	if p.current.Type != tt {
		return p.error(types.ErrExpectedToken,
			fmt.Sprintf("Expected %s but got %s", tt.String(), p.current.Type.String()))
	}
	p.advance()
	return nil
}

// error creates a parser error at the current token.
func (p *Parser) error(code types.ErrorCode, message string) error {
	return &types.Error{
		Code:     code,
		Message:  message,
		Position: p.current.Position,
		Token:    p.current.Value,
	}
}

// parseExpression parses an expression with operator precedence.
// rbp is the right binding power (minimum precedence).
func (p *Parser) parseExpression(rbp int) (*types.ASTNode, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.opts.MaxDepth {
		return nil, p.error(types.ErrDepthExceeded, "Expression too deeply nested")
	}

	if p.current.Type == TokenError {
		return nil, p.lexer.Error()
	}

	// Parse prefix expression (nud)
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	// Parse infix expressions while precedence allows (led)
	for rbp < p.getPrecedence(p.current.Type) {
		left, err = p.parseInfix(left)
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

// parsePrefix parses a prefix expression (null denotation).
func (p *Parser) parsePrefix() (*types.ASTNode, error) {
	token := p.current

	switch token.Type {
	case TokenString:
		return p.parseString()
	case TokenNumber:
		return p.parseNumber()
	case TokenBoolean:
		node := p.arena.Alloc(types.NodeBoolean, token.Position)
		node.BoolVal = token.Value == "true"
		p.advance()
		return node, nil
	case TokenNull:
		node := p.arena.Alloc(types.NodeNull, token.Position)
		p.advance()
		return node, nil
	case TokenUndefined:
		node := p.arena.Alloc(types.NodeUndefined, token.Position)
		p.advance()
		return node, nil
	case TokenVariable:
		return p.parseVariable()
	case TokenName:
		return p.parseCall()
	case TokenNot, TokenMinus, TokenPlus:
		return p.parseUnary()
	case TokenParenOpen:
		return p.parseGrouping()
	case TokenBracketOpen:
		return p.parseArrayLiteral()
	case TokenError:
		return nil, p.lexer.Error()
	default:
		return nil, p.error(types.ErrSyntax, fmt.Sprintf("Unexpected token: %s", token.Type.String()))
	}
}

// parseInfix parses an infix expression (left denotation).
func (p *Parser) parseInfix(left *types.ASTNode) (*types.ASTNode, error) {
	token := p.current

	switch token.Type {
	case TokenDot:
		return p.parseMember(left)
	case TokenBracketOpen:
		return p.parseIndex(left)
	case TokenQuestion:
		return p.parseTernary(left)
	case TokenPlus, TokenMinus, TokenMult, TokenDiv, TokenMod,
		TokenEqual, TokenNotEqual, TokenLess, TokenLessEqual,
		TokenGreater, TokenGreaterEqual, TokenAnd, TokenOr,
		TokenMatch, TokenNotMatch:
		return p.parseBinaryOp(left)
	default:
		return nil, p.error(types.ErrSyntax, fmt.Sprintf("Unexpected infix token: %s", token.Type.String()))
	}
}

// unescapeString processes escape sequences in a string literal.
func unescapeString(s string) (string, error) {
	if !strings.Contains(s, "\\") {
		return s, nil // Fast path: no escapes
	}

	var result strings.Builder
	result.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			result.WriteByte(s[i])
			continue
		}

		i++ // Skip backslash
		if i >= len(s) {
			return "", fmt.Errorf("invalid escape at end of string")
		}

		switch s[i] {
		case 'n':
			result.WriteByte('\n')
		case 't':
			result.WriteByte('\t')
		case 'r':
			result.WriteByte('\r')
		case '\\':
			result.WriteByte('\\')
		case '"':
			result.WriteByte('"')
		case '\'':
			result.WriteByte('\'')
		case '/':
			result.WriteByte('/')
		case 'u':
			// Unicode escape: \uXXXX
			if i+4 >= len(s) {
				return "", fmt.Errorf("invalid \\u escape: not enough characters")
			}
			hex := s[i+1 : i+5]
			codePoint, err := strconv.ParseUint(hex, 16, 32)
			if err != nil {
				return "", fmt.Errorf("invalid \\u escape: %s", hex)
			}
			i += 4
			result.WriteRune(rune(codePoint))
		default:
			// Unknown escapes keep the escaped character, matching the
			// lenient behavior of regExp patterns written as strings.
			result.WriteByte('\\')
			result.WriteByte(s[i])
		}
	}

	return result.String(), nil
}

// parseString parses a string literal.
func (p *Parser) parseString() (*types.ASTNode, error) {
	node := p.arena.Alloc(types.NodeString, p.current.Position)

	unescaped, err := unescapeString(p.current.Value)
	if err != nil {
		return nil, p.error(types.ErrInvalidEscape, fmt.Sprintf("Invalid string literal: %v", err))
	}

	node.StrValue = unescaped
	p.advance()
	return node, nil
}

// parseNumber parses a number literal.
func (p *Parser) parseNumber() (*types.ASTNode, error) {
	node := p.arena.Alloc(types.NodeNumber, p.current.Position)

	val, err := strconv.ParseFloat(p.current.Value, 64)
	if err != nil {
		return nil, p.error(types.ErrInvalidNumber, fmt.Sprintf("Invalid number: %s", p.current.Value))
	}

	node.NumValue = val
	p.advance()
	return node, nil
}

// parseVariable parses a ${name} attribute reference. The optional
// "feature." prefix is normalized away so ${feature.Height} and ${Height}
// resolve to the same attribute.
func (p *Parser) parseVariable() (*types.ASTNode, error) {
	node := p.arena.Alloc(types.NodeVariable, p.current.Position)

	name := p.current.Value
	name = strings.TrimPrefix(name, "feature.")
	if name == "" {
		return nil, p.error(types.ErrVariableSyntax, "Empty variable reference")
	}

	node.StrValue = name
	p.advance()
	return node, nil
}

// parseCall parses a builtin function call. Bare names are only legal when
// immediately called; the set of builtin names is fixed at parse time.
func (p *Parser) parseCall() (*types.ASTNode, error) {
	name := p.current.Value
	pos := p.current.Position

	def, ok := functions.Lookup(name)
	if !ok {
		return nil, p.error(types.ErrUnknownFunction, fmt.Sprintf("Unknown function %q", name))
	}
	p.advance()

	if err := p.expect(TokenParenOpen); err != nil {
		return nil, err
	}

	node := p.arena.Alloc(types.NodeCall, pos)
	node.StrValue = name

	args, err := p.parseArguments()
	if err != nil {
		return nil, err
	}

	// Arity is fixed per builtin, so a bad argument count is a construction
	// error, not an evaluation one.
	if err := def.CheckArity(len(args)); err != nil {
		var te *types.Error
		if errors.As(err, &te) {
			te.Position = pos
			te.Token = name
		}
		return nil, err
	}
	node.Arguments = args

	return node, nil
}

// parseArguments parses a comma-separated argument list. The opening
// parenthesis has already been consumed; the closing one is consumed here.
func (p *Parser) parseArguments() ([]*types.ASTNode, error) {
	args := []*types.ASTNode{}

	if p.current.Type == TokenParenClose {
		p.advance()
		return args, nil
	}

	for {
		arg, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		if p.current.Type == TokenParenClose {
			p.advance()
			return args, nil
		}

		if err := p.expect(TokenComma); err != nil {
			return nil, err
		}
	}
}

// parseUnary parses a prefix !, - or +.
func (p *Parser) parseUnary() (*types.ASTNode, error) {
	pos := p.current.Position
	op := p.current.Type.String()
	p.advance()

	expr, err := p.parseExpression(unaryPrecedence)
	if err != nil {
		return nil, err
	}

	node := p.arena.Alloc(types.NodeUnary, pos)
	node.StrValue = op
	node.LHS = expr

	return node, nil
}

// parseGrouping parses a parenthesized expression.
func (p *Parser) parseGrouping() (*types.ASTNode, error) {
	p.advance() // Skip '('

	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if err := p.expect(TokenParenClose); err != nil {
		return nil, err
	}

	return expr, nil
}

// parseArrayLiteral parses an array literal [a, b, c].
// Numeric arrays of 2-4 elements evaluate to vec2/vec3/vec4 values.
func (p *Parser) parseArrayLiteral() (*types.ASTNode, error) {
	pos := p.current.Position
	p.advance() // Skip '['

	node := p.arena.Alloc(types.NodeArray, pos)
	node.Arguments = []*types.ASTNode{}

	if p.current.Type == TokenBracketClose {
		p.advance()
		return node, nil
	}

	for {
		expr, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		node.Arguments = append(node.Arguments, expr)

		if p.current.Type == TokenBracketClose {
			p.advance()
			return node, nil
		}

		if err := p.expect(TokenComma); err != nil {
			return nil, err
		}
	}
}

// parseMember parses a member access (.r, .x) or a method call
// (.test(...), .exec(...)).
func (p *Parser) parseMember(left *types.ASTNode) (*types.ASTNode, error) {
	pos := p.current.Position
	p.advance() // Skip '.'

	if p.current.Type != TokenName {
		return nil, p.error(types.ErrExpectedToken, "Expected member name after .")
	}
	name := p.current.Value
	p.advance()

	if p.current.Type == TokenParenOpen {
		p.advance() // Skip '('
		node := p.arena.Alloc(types.NodeMethod, pos)
		node.StrValue = name
		node.LHS = left

		args, err := p.parseArguments()
		if err != nil {
			return nil, err
		}
		node.Arguments = args
		return node, nil
	}

	node := p.arena.Alloc(types.NodeMember, pos)
	node.StrValue = name
	node.LHS = left
	return node, nil
}

// parseIndex parses an index access value[expr].
func (p *Parser) parseIndex(left *types.ASTNode) (*types.ASTNode, error) {
	pos := p.current.Position
	p.advance() // Skip '['

	index, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if err := p.expect(TokenBracketClose); err != nil {
		return nil, err
	}

	node := p.arena.Alloc(types.NodeIndex, pos)
	node.LHS = left
	node.RHS = index
	return node, nil
}

// parseTernary parses a conditional expression: cond ? then : else.
// Right-associative.
func (p *Parser) parseTernary(condition *types.ASTNode) (*types.ASTNode, error) {
	pos := p.current.Position
	p.advance() // Skip '?'

	thenExpr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if err := p.expect(TokenColon); err != nil {
		return nil, err
	}

	elseExpr, err := p.parseExpression(precedence[TokenQuestion] - 1)
	if err != nil {
		return nil, err
	}

	node := p.arena.Alloc(types.NodeTernary, pos)
	node.LHS = condition
	node.RHS = thenExpr
	node.Else = elseExpr
	return node, nil
}

// parseBinaryOp parses a binary operator expression.
func (p *Parser) parseBinaryOp(left *types.ASTNode) (*types.ASTNode, error) {
	op := p.current
	prec := p.getPrecedence(op.Type)
	p.advance()

	right, err := p.parseExpression(prec)
	if err != nil {
		return nil, err
	}

	node := p.arena.Alloc(types.NodeBinary, op.Position)
	node.StrValue = op.Type.String()
	node.LHS = left
	node.RHS = right

	return node, nil
}
