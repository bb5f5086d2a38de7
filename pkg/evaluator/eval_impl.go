package evaluator

import (
	"fmt"

	"github.com/jason-crow/cesium/pkg/functions"
	"github.com/jason-crow/cesium/pkg/types"
)

// evalNode dispatches on the node type.
func (e *Evaluator) evalNode(node *types.ASTNode, ctx *EvalContext) (any, error) {
	ctx.depth++
	defer func() { ctx.depth-- }()
	if ctx.depth > e.opts.MaxDepth {
		return nil, types.NewError(types.ErrEvalDepth, "expression too deeply nested", node.Position)
	}

	switch node.Type {
	case types.NodeNumber:
		return node.NumValue, nil
	case types.NodeString:
		return node.StrValue, nil
	case types.NodeBoolean:
		return node.BoolVal, nil
	case types.NodeNull:
		return types.NullValue, nil
	case types.NodeUndefined:
		return nil, nil
	case types.NodeVariable:
		return ctx.attribute(node.StrValue), nil
	case types.NodeUnary:
		return e.evalUnary(node, ctx)
	case types.NodeBinary:
		return e.evalBinary(node, ctx)
	case types.NodeTernary:
		return e.evalTernary(node, ctx)
	case types.NodeArray:
		return e.evalArray(node, ctx)
	case types.NodeCall:
		return e.evalCall(node, ctx)
	case types.NodeMethod:
		return e.evalMethod(node, ctx)
	case types.NodeMember:
		return e.evalMember(node, ctx)
	case types.NodeIndex:
		return e.evalIndex(node, ctx)
	default:
		return nil, types.NewError(types.ErrSyntax,
			fmt.Sprintf("unexpected node type %s", node.Type), node.Position)
	}
}

// evalTernary evaluates cond ? then : else, coercing the condition via
// truthiness; only the selected branch is evaluated.
func (e *Evaluator) evalTernary(node *types.ASTNode, ctx *EvalContext) (any, error) {
	cond, err := e.evalNode(node.LHS, ctx)
	if err != nil {
		return nil, err
	}
	if types.Truthy(cond) {
		return e.evalNode(node.RHS, ctx)
	}
	return e.evalNode(node.Else, ctx)
}

// evalArray evaluates an array literal. All-numeric arrays of arity 2-4
// become vectors so literals like [255, 0, 0] participate in vector
// coercion; anything else stays a generic slice.
func (e *Evaluator) evalArray(node *types.ASTNode, ctx *EvalContext) (any, error) {
	values := make([]any, len(node.Arguments))
	numeric := true
	for i, el := range node.Arguments {
		v, err := e.evalNode(el, ctx)
		if err != nil {
			return nil, err
		}
		values[i] = v
		if _, ok := v.(float64); !ok {
			numeric = false
		}
	}

	if numeric && len(values) >= 2 && len(values) <= 4 {
		vec := types.Vector{N: len(values)}
		for i, v := range values {
			vec = vec.SetComponent(i, v.(float64))
		}
		return vec, nil
	}
	return values, nil
}

// evalCall evaluates a builtin function call. The name was validated at
// parse time; arity is validated here so the error carries the position.
func (e *Evaluator) evalCall(node *types.ASTNode, ctx *EvalContext) (any, error) {
	def, ok := functions.Lookup(node.StrValue)
	if !ok {
		return nil, types.NewError(types.ErrUnknownFunction,
			fmt.Sprintf("unknown function %q", node.StrValue), node.Position)
	}
	if err := def.CheckArity(len(node.Arguments)); err != nil {
		return nil, withPosition(err, node.Position)
	}

	args := make([]any, len(node.Arguments))
	for i, argNode := range node.Arguments {
		v, err := e.evalNode(argNode, ctx)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	v, err := def.Eval(args)
	if err != nil {
		return nil, withPosition(err, node.Position)
	}
	return v, nil
}

// withPosition stamps the node position onto coded errors created without
// location information.
func withPosition(err error, pos int) error {
	if se, ok := err.(*types.Error); ok && se.Position < 0 {
		se.Position = pos
	}
	return err
}
