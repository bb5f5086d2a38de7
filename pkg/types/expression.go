// Package types defines the core type system for the styling engine.
//
// This package contains type definitions for:
//   - Expression: compiled styling expressions
//   - ASTNode: Abstract Syntax Tree nodes (plus the parse-time node arena)
//   - Runtime values: Color, Vector, Regexp, Null and the undefined sentinel
//   - Feature and FrameState: the external collaborators evaluation reads
//   - Error: structured errors with codes
package types

// Expression represents a compiled styling expression.
//
// An Expression owns an immutable AST built once at parse time. It can be
// evaluated many times per frame for many features; it is safe for
// concurrent use by multiple goroutines.
type Expression struct {
	ast    *ASTNode
	source string // original source text, before define expansion
	arena  *NodeArena
}

// NewExpression creates a new Expression from an AST. The arena, if any,
// keeps the node storage alive for the lifetime of the expression.
func NewExpression(ast *ASTNode, source string, arena *NodeArena) *Expression {
	return &Expression{
		ast:    ast,
		source: source,
		arena:  arena,
	}
}

// AST returns the Abstract Syntax Tree of the expression.
func (e *Expression) AST() *ASTNode {
	return e.ast
}

// Source returns the original source code of the expression, as written in
// the style document (defines are expanded internally, not here).
func (e *Expression) Source() string {
	return e.source
}

// String returns a string representation of the expression.
func (e *Expression) String() string {
	return e.source
}
