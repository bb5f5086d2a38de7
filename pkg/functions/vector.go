package functions

import (
	"fmt"

	"github.com/jason-crow/cesium/pkg/types"
)

func init() {
	register(&Definition{Name: "vec2", MinArgs: 1, MaxArgs: 2, Eval: vecEval("vec2", 2)})
	register(&Definition{Name: "vec3", MinArgs: 1, MaxArgs: 3, Eval: vecEval("vec3", 3)})
	register(&Definition{Name: "vec4", MinArgs: 1, MaxArgs: 4, Eval: vecEval("vec4", 4)})
}

// vecEval builds the evaluator for a vecN constructor with GLSL-style
// construction rules: a single scalar splats to all components; otherwise
// vector arguments are flattened in order and the first N components are
// taken. Too few components is an error.
func vecEval(name string, n int) func(args []any) (any, error) {
	return func(args []any) (any, error) {
		if hasUndefined(args) {
			return nil, nil
		}

		if len(args) == 1 {
			if f, ok := args[0].(float64); ok {
				v := types.Vector{N: n}
				for i := 0; i < n; i++ {
					v = v.SetComponent(i, f)
				}
				return v, nil
			}
		}

		comps := make([]float64, 0, 4)
		for i, a := range args {
			switch t := a.(type) {
			case float64:
				comps = append(comps, t)
			case types.Vector:
				for j := 0; j < t.N; j++ {
					c, _ := t.Component(j)
					comps = append(comps, c)
				}
			case types.Color:
				comps = append(comps, t.R, t.G, t.B, t.A)
			default:
				return nil, argTypeError(name, i, "a number, vector or color", a)
			}
		}

		if len(comps) < n {
			return nil, types.NewError(types.ErrArgumentType,
				fmt.Sprintf("%s() needs %d components, got %d", name, n, len(comps)), -1)
		}

		v := types.Vector{N: n}
		for i := 0; i < n; i++ {
			v = v.SetComponent(i, comps[i])
		}
		return v, nil
	}
}
