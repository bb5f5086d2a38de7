package types

// NodeType identifies the type of an AST node.
type NodeType string

// AST node types for the styling expression grammar.
const (
	// Literals
	NodeNumber    NodeType = "number"
	NodeString    NodeType = "string"
	NodeBoolean   NodeType = "boolean"
	NodeNull      NodeType = "null"
	NodeUndefined NodeType = "undefined"

	// References
	NodeVariable NodeType = "variable" // ${attributeName}

	// Operators
	NodeUnary   NodeType = "unary"   // !, -, +
	NodeBinary  NodeType = "binary"  // arithmetic, relational, equality, logical, match
	NodeTernary NodeType = "ternary" // cond ? a : b

	// Composite values and access
	NodeArray  NodeType = "array"  // [a, b, c]
	NodeMember NodeType = "member" // value.r, value.x
	NodeIndex  NodeType = "index"  // value[expr]

	// Calls
	NodeCall   NodeType = "call"   // builtin call: color(...), vec3(...)
	NodeMethod NodeType = "method" // receiver method: regExp("a").test(x)
)

// ASTNode represents a node in the Abstract Syntax Tree.
// The tree is immutable after parsing; evaluation never mutates it.
type ASTNode struct {
	Type     NodeType
	StrValue string  // operator text, call/method/member name, string literal, variable name
	NumValue float64 // numeric literal value (NodeNumber)
	BoolVal  bool    // boolean literal value (NodeBoolean)
	Position int     // rune offset into the (define-expanded) source

	LHS       *ASTNode   // unary operand, binary lhs, ternary condition, member/index/method receiver
	RHS       *ASTNode   // binary rhs, ternary then-branch, index expression
	Else      *ASTNode   // ternary else-branch
	Arguments []*ASTNode // call/method arguments, array elements
}

// NewASTNode creates a new AST node of the specified type.
// Prefer NodeArena.Alloc when parsing to reduce per-node heap allocations.
func NewASTNode(nodeType NodeType, position int) *ASTNode {
	return &ASTNode{
		Type:     nodeType,
		Position: position,
	}
}

// arenaChunkSize is the number of ASTNode values pre-allocated per arena
// chunk. Style expressions are small; nearly all fit in a single chunk.
const arenaChunkSize = 64

// NodeArena is a bump-pointer allocator for ASTNode values.
//
// Instead of allocating each node individually on the heap, the arena
// pre-allocates fixed-size chunks of ASTNode structs and returns pointers
// into them. A typical style expression (< 64 nodes) requires only a single
// chunk allocation.
//
// The arena must stay alive as long as any pointer returned by Alloc is
// reachable; attaching it to the owning [Expression] achieves this.
//
// NodeArena is not thread-safe. Each parser owns its own arena and the arena
// is never shared across goroutines.
type NodeArena struct {
	chunks [][]ASTNode
	pos    int // next free index in the last chunk
}

// NewNodeArena allocates an arena pre-warmed with one initial chunk.
func NewNodeArena() *NodeArena {
	return &NodeArena{
		chunks: [][]ASTNode{make([]ASTNode, arenaChunkSize)},
		pos:    0,
	}
}

// Alloc returns a pointer to a zero-valued ASTNode inside the arena, with
// Type and Position set. All other fields remain at their zero values and
// must be filled by the caller.
func (a *NodeArena) Alloc(nodeType NodeType, position int) *ASTNode {
	if a.pos >= arenaChunkSize {
		a.chunks = append(a.chunks, make([]ASTNode, arenaChunkSize))
		a.pos = 0
	}
	n := &a.chunks[len(a.chunks)-1][a.pos]
	a.pos++
	n.Type = nodeType
	n.Position = position
	return n
}

// String returns a string representation of the node type.
func (n *ASTNode) String() string {
	return string(n.Type)
}
