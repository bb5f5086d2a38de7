package evaluator

import (
	"math"

	"github.com/jason-crow/cesium/pkg/types"
)

// evalUnary evaluates !, unary - and unary +.
// Undefined and null operands propagate undefined (except for !, which
// coerces them to truthiness).
func (e *Evaluator) evalUnary(node *types.ASTNode, ctx *EvalContext) (any, error) {
	v, err := e.evalNode(node.LHS, ctx)
	if err != nil {
		return nil, err
	}

	switch node.StrValue {
	case "!":
		return !types.Truthy(v), nil
	case "-":
		switch t := v.(type) {
		case nil, types.Null:
			return nil, nil
		case types.Vector:
			for i := 0; i < t.N; i++ {
				c, _ := t.Component(i)
				t = t.SetComponent(i, -c)
			}
			return t, nil
		default:
			if f, ok := types.ToNumber(v); ok {
				return -f, nil
			}
			return math.NaN(), nil
		}
	default: // unary +
		switch v.(type) {
		case nil, types.Null:
			return nil, nil
		case types.Vector, types.Color:
			return v, nil
		default:
			if f, ok := types.ToNumber(v); ok {
				return f, nil
			}
			return math.NaN(), nil
		}
	}
}

// evalBinary evaluates a binary operator with the styling language's
// coercion rules. The undefined-propagation table is total: every
// (operator, operand-kind) pair has a defined outcome, and only =~/!~ with
// structurally wrong kinds is an error.
func (e *Evaluator) evalBinary(node *types.ASTNode, ctx *EvalContext) (any, error) {
	op := node.StrValue

	// Logical operators short-circuit on the truthiness of the left side.
	if op == "&&" || op == "||" {
		left, err := e.evalNode(node.LHS, ctx)
		if err != nil {
			return nil, err
		}
		lt := types.Truthy(left)
		if op == "&&" && !lt {
			return false, nil
		}
		if op == "||" && lt {
			return true, nil
		}
		right, err := e.evalNode(node.RHS, ctx)
		if err != nil {
			return nil, err
		}
		return types.Truthy(right), nil
	}

	left, err := e.evalNode(node.LHS, ctx)
	if err != nil {
		return nil, err
	}
	right, err := e.evalNode(node.RHS, ctx)
	if err != nil {
		return nil, err
	}

	switch op {
	case "===":
		return types.Equal(left, right), nil
	case "!==":
		return !types.Equal(left, right), nil
	case "<", "<=", ">", ">=":
		return evalRelational(op, left, right), nil
	case "=~", "!~":
		matched, err := evalMatch(left, right, node.Position)
		if err != nil {
			return nil, err
		}
		if op == "!~" {
			return !matched, nil
		}
		return matched, nil
	case "+":
		return evalAdd(left, right), nil
	default: // -, *, /, %
		return evalArithmetic(op, left, right), nil
	}
}

// evalRelational compares two numerically-coercible operands. Undefined and
// null operands propagate the undefined sentinel; any other operand without
// a numeric interpretation makes the comparison false rather than an error.
func evalRelational(op string, left, right any) any {
	if isUndefined(left) || isUndefined(right) {
		return nil
	}
	lf, lok := types.ToNumber(left)
	rf, rok := types.ToNumber(right)
	if !lok || !rok {
		return false
	}
	switch op {
	case "<":
		return lf < rf
	case "<=":
		return lf <= rf
	case ">":
		return lf > rf
	default:
		return lf >= rf
	}
}

// evalMatch implements =~: one operand must be a regexp and the other a
// string, in either order.
func evalMatch(left, right any, pos int) (bool, error) {
	if re, ok := left.(*types.Regexp); ok {
		if s, ok := right.(string); ok {
			return re.Re.MatchString(s), nil
		}
	}
	if re, ok := right.(*types.Regexp); ok {
		if s, ok := left.(string); ok {
			return re.Re.MatchString(s), nil
		}
	}
	return false, types.NewError(types.ErrArgumentType,
		"=~ requires a regexp and a string", pos)
}

// evalAdd implements +: string concatenation when either operand is a
// string, componentwise addition for matching color/vector operands,
// numeric addition otherwise. Undefined and null propagate unless a string
// is involved, in which case they stringify.
func evalAdd(left, right any) any {
	if _, ok := left.(string); ok {
		return left.(string) + types.Stringify(right)
	}
	if _, ok := right.(string); ok {
		return types.Stringify(left) + right.(string)
	}
	if isUndefined(left) || isUndefined(right) {
		return nil
	}
	if lc, ok := left.(types.Color); ok {
		if rc, ok := right.(types.Color); ok {
			return combineColors(lc, rc, func(a, b float64) float64 { return a + b })
		}
	}
	if lv, ok := left.(types.Vector); ok {
		if rv, ok := right.(types.Vector); ok && rv.N == lv.N {
			return combineVectors(lv, rv, func(a, b float64) float64 { return a + b })
		}
	}
	return numericOp(left, right, func(a, b float64) float64 { return a + b })
}

// evalArithmetic implements -, *, / and %.
func evalArithmetic(op string, left, right any) any {
	if isUndefined(left) || isUndefined(right) {
		return nil
	}

	var f func(a, b float64) float64
	switch op {
	case "-":
		f = func(a, b float64) float64 { return a - b }
	case "*":
		f = func(a, b float64) float64 { return a * b }
	case "/":
		f = func(a, b float64) float64 { return a / b }
	default:
		f = math.Mod
	}

	// Componentwise forms. * and / additionally accept a scalar on one side
	// (both sides for *, the divisor for /).
	if lc, ok := left.(types.Color); ok {
		if rc, ok := right.(types.Color); ok {
			return combineColors(lc, rc, f)
		}
		if rf, ok := right.(float64); ok && (op == "*" || op == "/") {
			return combineColors(lc, types.Color{R: rf, G: rf, B: rf, A: rf}, f)
		}
	}
	if lv, ok := left.(types.Vector); ok {
		if rv, ok := right.(types.Vector); ok && rv.N == lv.N {
			return combineVectors(lv, rv, f)
		}
		if rf, ok := right.(float64); ok && (op == "*" || op == "/") {
			for i := 0; i < lv.N; i++ {
				c, _ := lv.Component(i)
				lv = lv.SetComponent(i, f(c, rf))
			}
			return lv
		}
	}
	if op == "*" {
		if lf, ok := left.(float64); ok {
			switch rt := right.(type) {
			case types.Color:
				return combineColors(types.Color{R: lf, G: lf, B: lf, A: lf}, rt, f)
			case types.Vector:
				for i := 0; i < rt.N; i++ {
					c, _ := rt.Component(i)
					rt = rt.SetComponent(i, lf*c)
				}
				return rt
			}
		}
	}

	return numericOp(left, right, f)
}

// numericOp coerces both operands to numbers and applies f; operands with
// no numeric interpretation produce NaN, the language's silent failure
// value for malformed arithmetic.
func numericOp(left, right any, f func(a, b float64) float64) any {
	lf, lok := types.ToNumber(left)
	rf, rok := types.ToNumber(right)
	if !lok || !rok {
		return math.NaN()
	}
	return f(lf, rf)
}

func combineColors(a, b types.Color, f func(x, y float64) float64) types.Color {
	return types.Color{
		R: f(a.R, b.R),
		G: f(a.G, b.G),
		B: f(a.B, b.B),
		A: f(a.A, b.A),
	}
}

func combineVectors(a, b types.Vector, f func(x, y float64) float64) types.Vector {
	for i := 0; i < a.N; i++ {
		ca, _ := a.Component(i)
		cb, _ := b.Component(i)
		a = a.SetComponent(i, f(ca, cb))
	}
	return a
}

func isUndefined(v any) bool {
	switch v.(type) {
	case nil, types.Null:
		return true
	default:
		return false
	}
}
