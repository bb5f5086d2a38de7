package functions

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jason-crow/cesium/pkg/types"
)

func call(t *testing.T, name string, args ...any) any {
	t.Helper()
	def, ok := Lookup(name)
	require.True(t, ok, "builtin %s not registered", name)
	require.NoError(t, def.CheckArity(len(args)))
	v, err := def.Eval(args)
	require.NoError(t, err)
	return v
}

func callErr(t *testing.T, name string, args ...any) error {
	t.Helper()
	def, ok := Lookup(name)
	require.True(t, ok)
	if err := def.CheckArity(len(args)); err != nil {
		return err
	}
	_, err := def.Eval(args)
	require.Error(t, err)
	return err
}

func TestLookup(t *testing.T) {
	_, ok := Lookup("color")
	assert.True(t, ok)
	_, ok = Lookup("nosuchfn")
	assert.False(t, ok)
}

func TestArity(t *testing.T) {
	def, _ := Lookup("abs")
	assert.NoError(t, def.CheckArity(1))
	assert.True(t, types.IsCode(def.CheckArity(0), types.ErrArgumentCount))
	assert.True(t, types.IsCode(def.CheckArity(2), types.ErrArgumentCount))
}

func TestColorBuiltins(t *testing.T) {
	assert.Equal(t, types.Color{R: 1, G: 1, B: 1, A: 1}, call(t, "color"))
	assert.Equal(t, types.Color{R: 1, A: 1}, call(t, "color", "red"))

	c := call(t, "color", "red", 0.5).(types.Color)
	assert.Equal(t, 0.5, c.A)

	assert.Equal(t, types.Color{R: 1, A: 1}, call(t, "rgb", 255.0, 0.0, 0.0))

	c = call(t, "rgba", 255.0, 0.0, 0.0, 0.25).(types.Color)
	assert.Equal(t, 1.0, c.R)
	assert.Equal(t, 0.25, c.A)

	c = call(t, "hsl", 0.0, 1.0, 0.5).(types.Color)
	assert.InDelta(t, 1, c.R, 1e-9)
	assert.Equal(t, 1.0, c.A)

	c = call(t, "hsla", 0.0, 1.0, 0.5, 0.5).(types.Color)
	assert.Equal(t, 0.5, c.A)
}

func TestColorBuiltinErrors(t *testing.T) {
	err := callErr(t, "color", "notacolor")
	assert.True(t, types.IsCode(err, types.ErrArgumentType))

	err = callErr(t, "rgb", 300.0, 0.0, 0.0)
	assert.True(t, types.IsCode(err, types.ErrComponentOut))

	err = callErr(t, "rgba", 0.0, 0.0, 0.0, 1.5)
	assert.True(t, types.IsCode(err, types.ErrComponentOut))

	err = callErr(t, "hsl", 2.0, 0.0, 0.0)
	assert.True(t, types.IsCode(err, types.ErrComponentOut))

	err = callErr(t, "color", 42.0)
	assert.True(t, types.IsCode(err, types.ErrArgumentType))
}

func TestVectorConstructors(t *testing.T) {
	// Scalar splat.
	assert.Equal(t, types.Vec3(2, 2, 2), call(t, "vec3", 2.0))

	// Componentwise.
	assert.Equal(t, types.Vec2(1, 2), call(t, "vec2", 1.0, 2.0))

	// Flattening: vec4(vec2, 0, 1).
	assert.Equal(t, types.Vec4(1, 2, 0, 1), call(t, "vec4", types.Vec2(1, 2), 0.0, 1.0))

	// Truncation: extra components are dropped.
	assert.Equal(t, types.Vec2(1, 2), call(t, "vec2", types.Vec3(1, 2, 3)))

	// Colors flatten to four components.
	assert.Equal(t, types.Vec4(1, 0, 0, 1), call(t, "vec4", types.Color{R: 1, A: 1}))

	// Too few components is an error.
	err := callErr(t, "vec4", 1.0, 2.0)
	assert.True(t, types.IsCode(err, types.ErrArgumentType))

	// Undefined propagates.
	assert.Nil(t, call(t, "vec3", nil))
}

func TestMathBuiltins(t *testing.T) {
	assert.Equal(t, 2.0, call(t, "abs", -2.0))
	assert.Equal(t, 3.0, call(t, "sqrt", 9.0))
	assert.Equal(t, 1.0, call(t, "sign", 42.0))
	assert.Equal(t, -1.0, call(t, "sign", -0.5))
	assert.Equal(t, 2.0, call(t, "floor", 2.9))
	assert.Equal(t, 3.0, call(t, "ceil", 2.1))
	assert.Equal(t, 3.0, call(t, "round", 2.5))
	assert.Equal(t, 0.25, call(t, "fract", 3.25))
	assert.Equal(t, 8.0, call(t, "pow", 2.0, 3.0))
	assert.Equal(t, 2.0, call(t, "min", 2.0, 5.0))
	assert.Equal(t, 5.0, call(t, "max", 2.0, 5.0))
	assert.InDelta(t, math.Pi, call(t, "radians", 180.0), 1e-12)
	assert.InDelta(t, 180.0, call(t, "degrees", math.Pi), 1e-12)
	assert.InDelta(t, math.Pi/4, call(t, "atan2", 1.0, 1.0), 1e-12)

	// Componentwise on vectors.
	assert.Equal(t, types.Vec2(1, 2), call(t, "abs", types.Vec2(-1, -2)))
	assert.Equal(t, types.Vec2(3, 4), call(t, "max", types.Vec2(3, 1), types.Vec2(2, 4)))

	// Scalar broadcast.
	assert.Equal(t, types.Vec2(2, 2), call(t, "min", types.Vec2(2, 5), 2.0))

	// Undefined propagates.
	assert.Nil(t, call(t, "abs", nil))
	assert.Nil(t, call(t, "pow", 2.0, types.NullValue))
}

func TestClampAndMix(t *testing.T) {
	assert.Equal(t, 10.0, call(t, "clamp", 11.0, 0.0, 10.0))
	assert.Equal(t, 0.0, call(t, "clamp", -1.0, 0.0, 10.0))
	assert.Equal(t, 5.0, call(t, "clamp", 5.0, 0.0, 10.0))
	assert.Equal(t, types.Vec2(0, 1), call(t, "clamp", types.Vec2(-1, 2), 0.0, 1.0))

	assert.Equal(t, 5.0, call(t, "mix", 0.0, 10.0, 0.5))
	assert.Equal(t, 10.0, call(t, "mix", 0.0, 10.0, 1.0))
	assert.Equal(t, types.Vec2(5, 10), call(t, "mix", types.Vec2(0, 0), types.Vec2(10, 20), 0.5))

	assert.Nil(t, call(t, "clamp", nil, 0.0, 1.0))
	assert.Nil(t, call(t, "mix", 0.0, 1.0, nil))
}

func TestVectorMath(t *testing.T) {
	assert.Equal(t, 5.0, call(t, "length", types.Vec2(3, 4)))
	assert.Equal(t, 2.0, call(t, "length", -2.0))

	n := call(t, "normalize", types.Vec2(3, 4)).(types.Vector)
	assert.InDelta(t, 0.6, n.X, 1e-12)
	assert.InDelta(t, 0.8, n.Y, 1e-12)
	assert.Equal(t, 1.0, call(t, "normalize", 42.0))

	assert.Equal(t, 5.0, call(t, "distance", types.Vec2(0, 0), types.Vec2(3, 4)))
	assert.Equal(t, 2.0, call(t, "distance", 7.0, 5.0))

	assert.Equal(t, 11.0, call(t, "dot", types.Vec2(1, 2), types.Vec2(3, 4)))
	assert.Equal(t, types.Vec3(0, 0, 1), call(t, "cross", types.Vec3(1, 0, 0), types.Vec3(0, 1, 0)))

	err := callErr(t, "cross", types.Vec2(1, 0), types.Vec2(0, 1))
	assert.True(t, types.IsCode(err, types.ErrArgumentType))

	err = callErr(t, "dot", types.Vec2(1, 0), types.Vec3(0, 1, 0))
	assert.True(t, types.IsCode(err, types.ErrArgumentType))
}

func TestConversions(t *testing.T) {
	assert.Equal(t, true, call(t, "Boolean", 1.0))
	assert.Equal(t, false, call(t, "Boolean", ""))
	assert.Equal(t, false, call(t, "Boolean", nil))
	assert.Equal(t, false, call(t, "Boolean"))

	assert.Equal(t, 42.0, call(t, "Number", "42"))
	assert.Equal(t, 0.0, call(t, "Number", ""))
	assert.Equal(t, 0.0, call(t, "Number", types.NullValue))
	assert.Equal(t, 1.0, call(t, "Number", true))
	assert.True(t, math.IsNaN(call(t, "Number", "abc").(float64)))
	assert.True(t, math.IsNaN(call(t, "Number", nil).(float64)))

	assert.Equal(t, "12.5", call(t, "String", 12.5))
	assert.Equal(t, "undefined", call(t, "String", nil))
	assert.Equal(t, "null", call(t, "String", types.NullValue))

	assert.Equal(t, true, call(t, "isNaN", "abc"))
	assert.Equal(t, false, call(t, "isNaN", "42"))
	assert.Equal(t, true, call(t, "isFinite", 1.0))
	assert.Equal(t, false, call(t, "isFinite", math.Inf(1)))
}

func TestRegExpBuiltin(t *testing.T) {
	re := call(t, "regExp", "a.c").(*types.Regexp)
	assert.True(t, re.Re.MatchString("abc"))
	assert.False(t, re.Re.MatchString("ac"))

	// Case-insensitive flag.
	re = call(t, "regExp", "abc", "i").(*types.Regexp)
	assert.True(t, re.Re.MatchString("ABC"))
	assert.Equal(t, "/abc/i", re.String())

	// Empty regExp matches everything.
	re = call(t, "regExp").(*types.Regexp)
	assert.True(t, re.Re.MatchString(""))

	err := callErr(t, "regExp", "(")
	assert.True(t, types.IsCode(err, types.ErrBadRegexp))

	err = callErr(t, "regExp", "abc", "g")
	assert.True(t, types.IsCode(err, types.ErrBadRegexp))
}
