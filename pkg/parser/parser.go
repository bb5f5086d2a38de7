// Package parser implements the tileset styling expression parser.
//
// The parser uses a hand-written recursive descent approach with Pratt-style
// operator precedence. It consists of three components:
//   - Define expansion: a pre-parse macro pass resolving ${define} references
//   - Lexer: tokenizes the expanded expression into a stream of tokens
//   - Parser: builds an Abstract Syntax Tree (AST) from tokens
//
// # Example
//
//	expr, err := parser.Parse("${Height} > 100 ? color('red') : color('blue')")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ast := expr.AST()
//
// Parse errors carry the offending token and its position; they are always
// surfaced at construction time, never at evaluation time.
package parser

import (
	"github.com/jason-crow/cesium/pkg/types"
)

// Parse parses a styling expression and returns the compiled Expression.
func Parse(source string, opts ...CompileOption) (*types.Expression, error) {
	p := NewParser(source, opts...)
	return p.Parse()
}

// CompileOption configures compilation behavior.
type CompileOption func(*CompileOptions)

// CompileOptions holds parser configuration.
type CompileOptions struct {
	// Defines maps define names to expression source text; occurrences of
	// ${name} are textually substituted before tokenizing.
	Defines map[string]string
	// MaxDepth limits expression nesting depth to prevent stack overflow.
	MaxDepth int
}

// WithDefines sets the define mapping used for pre-parse macro expansion.
func WithDefines(defines map[string]string) CompileOption {
	return func(opts *CompileOptions) {
		opts.Defines = defines
	}
}

// WithMaxDepth sets the maximum parsing depth.
func WithMaxDepth(depth int) CompileOption {
	return func(opts *CompileOptions) {
		opts.MaxDepth = depth
	}
}
