package functions

import (
	"math"
	"strconv"
	"strings"

	"github.com/jason-crow/cesium/pkg/types"
)

func init() {
	register(&Definition{Name: "Boolean", MinArgs: 0, MaxArgs: 1, Eval: evalBoolean})
	register(&Definition{Name: "Number", MinArgs: 0, MaxArgs: 1, Eval: evalNumber})
	register(&Definition{Name: "String", MinArgs: 0, MaxArgs: 1, Eval: evalString})
	register(&Definition{Name: "isNaN", MinArgs: 1, MaxArgs: 1, Eval: evalIsNaN})
	register(&Definition{Name: "isFinite", MinArgs: 1, MaxArgs: 1, Eval: evalIsFinite})
}

// evalBoolean implements Boolean(x): truthiness coercion.
func evalBoolean(args []any) (any, error) {
	if len(args) == 0 {
		return false, nil
	}
	return types.Truthy(args[0]), nil
}

// evalNumber implements Number(x) with JavaScript conversion rules:
// booleans map to 0/1, null and the empty string to 0, non-numeric strings
// and undefined to NaN.
func evalNumber(args []any) (any, error) {
	if len(args) == 0 {
		return 0.0, nil
	}
	return toNumberJS(args[0]), nil
}

// evalString implements String(x).
func evalString(args []any) (any, error) {
	if len(args) == 0 {
		return "", nil
	}
	return types.Stringify(args[0]), nil
}

func evalIsNaN(args []any) (any, error) {
	return math.IsNaN(toNumberJS(args[0])), nil
}

func evalIsFinite(args []any) (any, error) {
	f := toNumberJS(args[0])
	return !math.IsNaN(f) && !math.IsInf(f, 0), nil
}

func toNumberJS(v any) float64 {
	switch t := v.(type) {
	case nil:
		return math.NaN()
	case types.Null:
		return 0
	case bool:
		if t {
			return 1
		}
		return 0
	case float64:
		return t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}
