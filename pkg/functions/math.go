package functions

import (
	"math"

	"github.com/jason-crow/cesium/pkg/types"
)

func init() {
	unary := func(name, glsl string, f func(float64) float64) {
		register(&Definition{
			Name: name, MinArgs: 1, MaxArgs: 1, GLSL: glsl,
			Eval: func(args []any) (any, error) {
				return applyUnary(name, args[0], f)
			},
		})
	}

	unary("abs", "abs", math.Abs)
	unary("sqrt", "sqrt", math.Sqrt)
	unary("cos", "cos", math.Cos)
	unary("sin", "sin", math.Sin)
	unary("tan", "tan", math.Tan)
	unary("acos", "acos", math.Acos)
	unary("asin", "asin", math.Asin)
	unary("atan", "atan", math.Atan)
	unary("radians", "radians", func(f float64) float64 { return f * math.Pi / 180 })
	unary("degrees", "degrees", func(f float64) float64 { return f * 180 / math.Pi })
	unary("sign", "sign", sign)
	unary("floor", "floor", math.Floor)
	unary("ceil", "ceil", math.Ceil)
	unary("exp", "exp", math.Exp)
	unary("exp2", "exp2", math.Exp2)
	unary("log", "log", math.Log)
	unary("log2", "log2", math.Log2)
	unary("fract", "fract", func(f float64) float64 { return f - math.Floor(f) })
	// round has no direct GLSL ES equivalent; the shader compiler lowers it
	// to floor(x + 0.5), which is also the CPU rule.
	unary("round", "", func(f float64) float64 { return math.Floor(f + 0.5) })

	register(&Definition{
		Name: "atan2", MinArgs: 2, MaxArgs: 2, GLSL: "atan",
		Eval: func(args []any) (any, error) {
			return applyBinary("atan2", args[0], args[1], math.Atan2)
		},
	})
	register(&Definition{
		Name: "pow", MinArgs: 2, MaxArgs: 2, GLSL: "pow",
		Eval: func(args []any) (any, error) {
			return applyBinary("pow", args[0], args[1], math.Pow)
		},
	})
	register(&Definition{
		Name: "min", MinArgs: 2, MaxArgs: 2, GLSL: "min",
		Eval: func(args []any) (any, error) {
			return applyBinary("min", args[0], args[1], math.Min)
		},
	})
	register(&Definition{
		Name: "max", MinArgs: 2, MaxArgs: 2, GLSL: "max",
		Eval: func(args []any) (any, error) {
			return applyBinary("max", args[0], args[1], math.Max)
		},
	})

	register(&Definition{
		Name: "clamp", MinArgs: 3, MaxArgs: 3, GLSL: "clamp",
		Eval: evalClamp,
	})
	register(&Definition{
		Name: "mix", MinArgs: 3, MaxArgs: 3, GLSL: "mix",
		Eval: evalMix,
	})

	register(&Definition{Name: "length", MinArgs: 1, MaxArgs: 1, GLSL: "length", Eval: evalLength})
	register(&Definition{Name: "normalize", MinArgs: 1, MaxArgs: 1, GLSL: "normalize", Eval: evalNormalize})
	register(&Definition{Name: "distance", MinArgs: 2, MaxArgs: 2, GLSL: "distance", Eval: evalDistance})
	register(&Definition{Name: "dot", MinArgs: 2, MaxArgs: 2, GLSL: "dot", Eval: evalDot})
	register(&Definition{Name: "cross", MinArgs: 2, MaxArgs: 2, GLSL: "cross", Eval: evalCross})
}

func sign(f float64) float64 {
	switch {
	case f > 0:
		return 1
	case f < 0:
		return -1
	default:
		return 0
	}
}

// applyUnary applies f to a number, or componentwise to a vector.
// Undefined and null propagate.
func applyUnary(name string, v any, f func(float64) float64) (any, error) {
	switch t := v.(type) {
	case nil, types.Null:
		return nil, nil
	case float64:
		return f(t), nil
	case types.Vector:
		for i := 0; i < t.N; i++ {
			c, _ := t.Component(i)
			t = t.SetComponent(i, f(c))
		}
		return t, nil
	default:
		return nil, argTypeError(name, 0, "a number or vector", v)
	}
}

// applyBinary applies f to two numbers, componentwise to two same-arity
// vectors, or to a vector and a scalar (scalar broadcast on either side).
func applyBinary(name string, a, b any, f func(float64, float64) float64) (any, error) {
	switch {
	case a == nil || b == nil:
		return nil, nil
	}
	if _, ok := a.(types.Null); ok {
		return nil, nil
	}
	if _, ok := b.(types.Null); ok {
		return nil, nil
	}

	if la, ok := a.(float64); ok {
		if rb, ok := b.(float64); ok {
			return f(la, rb), nil
		}
		if vb, ok := b.(types.Vector); ok {
			for i := 0; i < vb.N; i++ {
				c, _ := vb.Component(i)
				vb = vb.SetComponent(i, f(la, c))
			}
			return vb, nil
		}
		return nil, argTypeError(name, 1, "a number or vector", b)
	}

	if va, ok := a.(types.Vector); ok {
		if rb, ok := b.(float64); ok {
			for i := 0; i < va.N; i++ {
				c, _ := va.Component(i)
				va = va.SetComponent(i, f(c, rb))
			}
			return va, nil
		}
		if vb, ok := b.(types.Vector); ok {
			if va.N != vb.N {
				return nil, argTypeError(name, 1, "a vector of matching arity", b)
			}
			for i := 0; i < va.N; i++ {
				ca, _ := va.Component(i)
				cb, _ := vb.Component(i)
				va = va.SetComponent(i, f(ca, cb))
			}
			return va, nil
		}
		return nil, argTypeError(name, 1, "a number or vector", b)
	}

	return nil, argTypeError(name, 0, "a number or vector", a)
}

func evalClamp(args []any) (any, error) {
	if hasUndefined(args) {
		return nil, nil
	}
	m, err := applyBinary("clamp", args[0], args[1], math.Max)
	if err != nil {
		return nil, err
	}
	return applyBinary("clamp", m, args[2], math.Min)
}

func evalMix(args []any) (any, error) {
	if hasUndefined(args) {
		return nil, nil
	}
	// mix(a, b, t) = a*(1-t) + b*t, componentwise where vectors are involved.
	oneMinusT, err := applyUnary("mix", args[2], func(t float64) float64 { return 1 - t })
	if err != nil {
		return nil, err
	}
	left, err := applyBinary("mix", args[0], oneMinusT, func(a, t float64) float64 { return a * t })
	if err != nil {
		return nil, err
	}
	right, err := applyBinary("mix", args[1], args[2], func(b, t float64) float64 { return b * t })
	if err != nil {
		return nil, err
	}
	return applyBinary("mix", left, right, func(a, b float64) float64 { return a + b })
}

func evalLength(args []any) (any, error) {
	switch t := args[0].(type) {
	case nil, types.Null:
		return nil, nil
	case float64:
		return math.Abs(t), nil
	case types.Vector:
		return vectorLength(t), nil
	default:
		return nil, argTypeError("length", 0, "a number or vector", args[0])
	}
}

func evalNormalize(args []any) (any, error) {
	switch t := args[0].(type) {
	case nil, types.Null:
		return nil, nil
	case float64:
		return sign(t), nil
	case types.Vector:
		l := vectorLength(t)
		return applyUnary("normalize", t, func(c float64) float64 { return c / l })
	default:
		return nil, argTypeError("normalize", 0, "a number or vector", args[0])
	}
}

func evalDistance(args []any) (any, error) {
	if hasUndefined(args) {
		return nil, nil
	}
	diff, err := applyBinary("distance", args[0], args[1], func(a, b float64) float64 { return a - b })
	if err != nil {
		return nil, err
	}
	return evalLength([]any{diff})
}

func evalDot(args []any) (any, error) {
	if hasUndefined(args) {
		return nil, nil
	}
	if la, ok := args[0].(float64); ok {
		rb, err := numberArg("dot", args, 1)
		if err != nil {
			return nil, err
		}
		return la * rb, nil
	}
	va, ok := args[0].(types.Vector)
	if !ok {
		return nil, argTypeError("dot", 0, "a number or vector", args[0])
	}
	vb, ok := args[1].(types.Vector)
	if !ok || vb.N != va.N {
		return nil, argTypeError("dot", 1, "a vector of matching arity", args[1])
	}
	var sum float64
	for i := 0; i < va.N; i++ {
		ca, _ := va.Component(i)
		cb, _ := vb.Component(i)
		sum += ca * cb
	}
	return sum, nil
}

func evalCross(args []any) (any, error) {
	if hasUndefined(args) {
		return nil, nil
	}
	va, ok := args[0].(types.Vector)
	if !ok || va.N != 3 {
		return nil, argTypeError("cross", 0, "a vec3", args[0])
	}
	vb, ok := args[1].(types.Vector)
	if !ok || vb.N != 3 {
		return nil, argTypeError("cross", 1, "a vec3", args[1])
	}
	return types.Vec3(
		va.Y*vb.Z-va.Z*vb.Y,
		va.Z*vb.X-va.X*vb.Z,
		va.X*vb.Y-va.Y*vb.X,
	), nil
}

func vectorLength(v types.Vector) float64 {
	var sum float64
	for i := 0; i < v.N; i++ {
		c, _ := v.Component(i)
		sum += c * c
	}
	return math.Sqrt(sum)
}
