// Package functions defines the fixed set of builtin functions available in
// styling expressions: color and vector constructors, math functions, type
// conversions and the regExp constructor.
//
// The registry is shared by the parser (name validation), the evaluator
// (CPU implementations) and the shader compiler (GLSL lowering metadata).
// The set is fixed at init time; styling expressions cannot define
// functions, and user extension happens one level up through custom
// style-expression objects.
package functions

import (
	"fmt"

	"github.com/jason-crow/cesium/pkg/types"
)

// Definition describes a single builtin function.
type Definition struct {
	// Name as it appears in expression source.
	Name string
	// MinArgs and MaxArgs bound the accepted argument count.
	// MaxArgs of -1 means unlimited.
	MinArgs, MaxArgs int
	// Eval is the CPU-side implementation. Arguments arrive already
	// evaluated; nil is the undefined sentinel.
	Eval func(args []any) (any, error)
	// GLSL is the GLSL function name for builtins that lower directly to a
	// same-shaped call. Empty for builtins the shader compiler must handle
	// specially (color family, vector constructors, conversions) or cannot
	// compile at all (regExp, String).
	GLSL string
}

var registry = map[string]*Definition{}

func register(d *Definition) {
	registry[d.Name] = d
}

// Lookup returns the builtin definition for name, or false when no builtin
// with that name exists.
func Lookup(name string) (*Definition, bool) {
	d, ok := registry[name]
	return d, ok
}

// CheckArity validates the argument count against the definition's bounds.
func (d *Definition) CheckArity(n int) error {
	if n < d.MinArgs || (d.MaxArgs >= 0 && n > d.MaxArgs) {
		return types.NewError(types.ErrArgumentCount,
			fmt.Sprintf("%s() expects %s, got %d arguments", d.Name, d.arityString(), n), -1)
	}
	return nil
}

func (d *Definition) arityString() string {
	switch {
	case d.MaxArgs < 0:
		return fmt.Sprintf("at least %d", d.MinArgs)
	case d.MinArgs == d.MaxArgs:
		return fmt.Sprintf("%d", d.MinArgs)
	default:
		return fmt.Sprintf("%d to %d", d.MinArgs, d.MaxArgs)
	}
}

// argTypeError builds the error for an argument of an unusable kind.
func argTypeError(name string, i int, want string, got any) error {
	return types.NewError(types.ErrArgumentType,
		fmt.Sprintf("%s() argument %d must be %s, got %s", name, i+1, want, kindName(got)), -1)
}

func kindName(v any) string {
	switch v.(type) {
	case nil:
		return "undefined"
	case types.Null:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case types.Color:
		return "color"
	case types.Vector:
		return "vector"
	case *types.Regexp:
		return "regexp"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// numberArg extracts a required float64 argument.
func numberArg(name string, args []any, i int) (float64, error) {
	f, ok := args[i].(float64)
	if !ok {
		return 0, argTypeError(name, i, "a number", args[i])
	}
	return f, nil
}

// stringArg extracts a required string argument.
func stringArg(name string, args []any, i int) (string, error) {
	s, ok := args[i].(string)
	if !ok {
		return "", argTypeError(name, i, "a string", args[i])
	}
	return s, nil
}

// hasUndefined reports whether any argument is the undefined sentinel or
// null; numeric builtins propagate undefined rather than failing.
func hasUndefined(args []any) bool {
	for _, a := range args {
		switch a.(type) {
		case nil, types.Null:
			return true
		}
	}
	return false
}
