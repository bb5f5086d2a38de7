package evaluator

import (
	"fmt"

	"github.com/jason-crow/cesium/pkg/types"
)

// memberIndex maps component member names to indices. Color members use the
// rgba aliases, vector members the xyzw ones; both work on both kinds.
var memberIndex = map[string]int{
	"x": 0, "y": 1, "z": 2, "w": 3,
	"r": 0, "g": 1, "b": 2, "a": 3,
}

// evalMember evaluates a .name component access. Unknown members and
// members outside a vector's arity yield undefined; member access on
// non-composite values yields undefined as well (missing data is not an
// error on the CPU path).
func (e *Evaluator) evalMember(node *types.ASTNode, ctx *EvalContext) (any, error) {
	recv, err := e.evalNode(node.LHS, ctx)
	if err != nil {
		return nil, err
	}

	idx, ok := memberIndex[node.StrValue]
	if !ok {
		return nil, nil
	}
	return componentAt(recv, idx), nil
}

// evalIndex evaluates value[expr] with a numeric index.
func (e *Evaluator) evalIndex(node *types.ASTNode, ctx *EvalContext) (any, error) {
	recv, err := e.evalNode(node.LHS, ctx)
	if err != nil {
		return nil, err
	}
	idxVal, err := e.evalNode(node.RHS, ctx)
	if err != nil {
		return nil, err
	}

	f, ok := idxVal.(float64)
	if !ok {
		return nil, nil
	}
	idx := int(f)

	if values, ok := recv.([]any); ok {
		if idx < 0 || idx >= len(values) {
			return nil, nil
		}
		return values[idx], nil
	}
	return componentAt(recv, idx), nil
}

func componentAt(recv any, idx int) any {
	switch t := recv.(type) {
	case types.Color:
		if c, ok := t.Component(idx); ok {
			return c
		}
	case types.Vector:
		if c, ok := t.Component(idx); ok {
			return c
		}
	}
	return nil
}

// evalMethod evaluates a method call on a receiver value. The only methods
// in the language are test() and exec() on regexp values; calling a method
// on a value of the wrong kind is a structural error.
func (e *Evaluator) evalMethod(node *types.ASTNode, ctx *EvalContext) (any, error) {
	recv, err := e.evalNode(node.LHS, ctx)
	if err != nil {
		return nil, err
	}

	switch node.StrValue {
	case "test", "exec":
	default:
		return nil, types.NewError(types.ErrNotAMethod,
			fmt.Sprintf("unknown method %q", node.StrValue), node.Position)
	}

	re, ok := recv.(*types.Regexp)
	if !ok {
		return nil, types.NewError(types.ErrBadMethodKind,
			fmt.Sprintf("%s() requires a regexp receiver", node.StrValue), node.Position)
	}

	if len(node.Arguments) != 1 {
		return nil, types.NewError(types.ErrArgumentCount,
			fmt.Sprintf("%s() expects 1 argument, got %d", node.StrValue, len(node.Arguments)), node.Position)
	}
	argVal, err := e.evalNode(node.Arguments[0], ctx)
	if err != nil {
		return nil, err
	}
	s := types.Stringify(argVal)

	if node.StrValue == "test" {
		return re.Re.MatchString(s), nil
	}

	// exec: the first capture group when the pattern has one, the whole
	// match otherwise; null when there is no match.
	m := re.Re.FindStringSubmatch(s)
	if m == nil {
		return types.NullValue, nil
	}
	if len(m) > 1 {
		return m[1], nil
	}
	return m[0], nil
}
