package evaluator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jason-crow/cesium/pkg/parser"
	"github.com/jason-crow/cesium/pkg/types"
)

var testFeature = types.MapFeature{
	"Height":      100.0,
	"Area":        "240.5",
	"County":      "Kings",
	"Floors":      5,
	"Occupied":    true,
	"Position":    []float64{1.0, 2.0, 3.0},
	"NullableTag": types.NullValue,
}

func eval(t *testing.T, source string) any {
	t.Helper()
	return evalFeature(t, source, testFeature)
}

func evalFeature(t *testing.T, source string, feature types.Feature) any {
	t.Helper()
	expr, err := parser.Parse(source)
	require.NoError(t, err)
	v, err := New().Evaluate(expr, &types.FrameState{}, feature)
	require.NoError(t, err)
	return v
}

func evalErr(t *testing.T, source string) error {
	t.Helper()
	expr, err := parser.Parse(source)
	require.NoError(t, err)
	_, err = New().Evaluate(expr, &types.FrameState{}, testFeature)
	require.Error(t, err)
	return err
}

func TestEvaluateLiterals(t *testing.T) {
	assert.Equal(t, 42.0, eval(t, "42"))
	assert.Equal(t, "abc", eval(t, "'abc'"))
	assert.Equal(t, true, eval(t, "true"))
	assert.Equal(t, types.NullValue, eval(t, "null"))
	assert.Nil(t, eval(t, "undefined"))
}

func TestEvaluateAttributes(t *testing.T) {
	assert.Equal(t, 100.0, eval(t, "${Height}"))
	assert.Equal(t, 100.0, eval(t, "${feature.Height}"))
	assert.Nil(t, eval(t, "${Missing}"))
	assert.Equal(t, types.NullValue, eval(t, "${NullableTag}"))

	// Integer attribute values normalize to float64.
	assert.Equal(t, 5.0, eval(t, "${Floors}"))

	// []float64 attribute values normalize to vectors.
	assert.Equal(t, types.Vec3(1, 2, 3), eval(t, "${Position}"))

	// A nil feature resolves every attribute to undefined.
	assert.Nil(t, evalFeature(t, "${Height}", nil))
}

func TestArithmetic(t *testing.T) {
	assert.Equal(t, 3.0, eval(t, "1 + 2"))
	assert.Equal(t, 4.0, eval(t, "10 - 6"))
	assert.Equal(t, 12.0, eval(t, "3 * 4"))
	assert.Equal(t, 2.5, eval(t, "5 / 2"))
	assert.Equal(t, 1.0, eval(t, "7 % 3"))
	assert.Equal(t, -100.0, eval(t, "-${Height}"))
	assert.Equal(t, 100.0, eval(t, "+${Height}"))

	// Numeric strings coerce.
	assert.Equal(t, 245.5, eval(t, "${Area} + 5"))

	// Booleans coerce to 0/1 in arithmetic.
	assert.Equal(t, 2.0, eval(t, "${Occupied} + 1"))

	// Non-coercible operands make NaN, not an error.
	assert.True(t, math.IsNaN(eval(t, "${County} * 2").(float64)))
	assert.True(t, math.IsNaN(eval(t, "0 / 0").(float64)))
}

func TestUndefinedPropagation(t *testing.T) {
	assert.Nil(t, eval(t, "${Missing} + 1"))
	assert.Nil(t, eval(t, "1 - ${Missing}"))
	assert.Nil(t, eval(t, "${Missing} * ${Missing}"))
	assert.Nil(t, eval(t, "-${Missing}"))
	assert.Nil(t, eval(t, "null + 1"))

	// Relational against undefined or null propagates the sentinel, never
	// an error.
	assert.Nil(t, eval(t, "${Missing} > 1"))
	assert.Nil(t, eval(t, "${Missing} <= ${Height}"))
	assert.Nil(t, eval(t, "${NullableTag} < 1"))

	// Logical operators coerce undefined via truthiness.
	assert.Equal(t, true, eval(t, "!${Missing}"))
	assert.Equal(t, false, eval(t, "${Missing} && true"))
	assert.Equal(t, true, eval(t, "${Missing} || true"))

	// String concatenation stringifies undefined.
	assert.Equal(t, "id-undefined", eval(t, "'id-' + ${Missing}"))
	assert.Equal(t, "tag: null", eval(t, "'tag: ' + ${NullableTag}"))
}

func TestStringConcatenation(t *testing.T) {
	assert.Equal(t, "Kings County", eval(t, "${County} + ' County'"))
	assert.Equal(t, "height=100", eval(t, "'height=' + ${Height}"))
	assert.Equal(t, "3 floors", eval(t, "3 + ' floors'"))
	assert.Equal(t, "rgb(255, 0, 0)!", eval(t, "color('red') + '!'"))
}

func TestEquality(t *testing.T) {
	assert.Equal(t, true, eval(t, "1 === 1"))
	assert.Equal(t, false, eval(t, "1 === '1'"))
	assert.Equal(t, true, eval(t, "1 !== '1'"))
	assert.Equal(t, true, eval(t, "${Missing} === undefined"))
	assert.Equal(t, false, eval(t, "null === undefined"))
	assert.Equal(t, true, eval(t, "${NullableTag} === null"))
	assert.Equal(t, true, eval(t, "color('red') === color('#ff0000')"))
	assert.Equal(t, true, eval(t, "vec2(1, 2) === vec2(1, 2)"))
	assert.Equal(t, false, eval(t, "vec2(1, 2) === vec3(1, 2, 0)"))
}

func TestRelational(t *testing.T) {
	assert.Equal(t, true, eval(t, "${Height} > 50"))
	assert.Equal(t, false, eval(t, "${Height} < 50"))
	assert.Equal(t, true, eval(t, "${Height} >= 100"))
	assert.Equal(t, true, eval(t, "${Height} <= 100"))

	// Numeric strings participate.
	assert.Equal(t, true, eval(t, "'2' < 3"))
	assert.Equal(t, true, eval(t, "${Area} > 200"))

	// Non-numeric strings compare false both ways.
	assert.Equal(t, false, eval(t, "${County} < 3"))
	assert.Equal(t, false, eval(t, "${County} >= 3"))
}

func TestLogicalShortCircuit(t *testing.T) {
	// The right side is never evaluated, so its error never surfaces.
	assert.Equal(t, false, eval(t, "false && 'x'.test('y')"))
	assert.Equal(t, true, eval(t, "true || 'x'.test('y')"))

	assert.Equal(t, true, eval(t, "true && 1"))
	assert.Equal(t, false, eval(t, "0 || ''"))
}

func TestTernary(t *testing.T) {
	assert.Equal(t, "tall", eval(t, "${Height} > 50 ? 'tall' : 'short'"))
	assert.Equal(t, "short", eval(t, "${Height} > 500 ? 'tall' : 'short'"))

	// Undefined condition selects the else branch.
	assert.Equal(t, "short", eval(t, "${Missing} ? 'tall' : 'short'"))

	// Only the selected branch is evaluated.
	assert.Equal(t, 1.0, eval(t, "true ? 1 : 'x'.test('y')"))
}

func TestColors(t *testing.T) {
	assert.Equal(t, types.Color{R: 1, A: 1}, eval(t, "color('red')"))
	assert.Equal(t, types.Color{R: 1, G: 1, B: 1, A: 1}, eval(t, "color()"))

	c := eval(t, "color('red', 0.5)").(types.Color)
	assert.Equal(t, 0.5, c.A)

	// Componentwise color arithmetic.
	sum := eval(t, "color('red') + color('lime')").(types.Color)
	assert.Equal(t, 1.0, sum.R)
	assert.Equal(t, 1.0, sum.G)
	assert.Equal(t, 2.0, sum.A)

	scaled := eval(t, "color('red') * 0.5").(types.Color)
	assert.Equal(t, 0.5, scaled.R)
}

func TestVectors(t *testing.T) {
	assert.Equal(t, types.Vec3(1, 2, 3), eval(t, "vec3(1, 2, 3)"))
	assert.Equal(t, types.Vec3(2, 2, 2), eval(t, "vec3(2)"))
	assert.Equal(t, types.Vec4(1, 2, 0, 1), eval(t, "vec4(vec2(1, 2), 0, 1)"))

	// Numeric array literals become vectors.
	assert.Equal(t, types.Vec3(1, 2, 3), eval(t, "[1, 2, 3]"))
	assert.Equal(t, types.Vec2(1, 2), eval(t, "[1, 2]"))

	// Mixed arrays stay generic.
	assert.Equal(t, []any{1.0, "a"}, eval(t, "[1, 'a']"))

	// Vector arithmetic.
	assert.Equal(t, types.Vec2(4, 6), eval(t, "vec2(1, 2) + vec2(3, 4)"))
	assert.Equal(t, types.Vec2(2, 4), eval(t, "vec2(1, 2) * 2"))
	assert.Equal(t, types.Vec2(2, 4), eval(t, "2 * vec2(1, 2)"))
	assert.Equal(t, types.Vec2(1, 2), eval(t, "vec2(2, 4) / 2"))
	assert.Equal(t, types.Vec2(-1, -2), eval(t, "-vec2(1, 2)"))
}

func TestMemberAccess(t *testing.T) {
	assert.Equal(t, 1.0, eval(t, "color('red').r"))
	assert.Equal(t, 0.0, eval(t, "color('red').g"))
	assert.Equal(t, 2.0, eval(t, "vec3(1, 2, 3).y"))
	assert.Equal(t, 3.0, eval(t, "vec3(1, 2, 3).z"))

	// rgba and xyzw alias the same components.
	assert.Equal(t, 1.0, eval(t, "color('red').x"))
	assert.Equal(t, 2.0, eval(t, "vec3(1, 2, 3).g"))

	// Out-of-arity and unknown members yield undefined.
	assert.Nil(t, eval(t, "vec2(1, 2).z"))
	assert.Nil(t, eval(t, "vec2(1, 2).len"))
	assert.Nil(t, eval(t, "${Height}.x"))
}

func TestIndexAccess(t *testing.T) {
	assert.Equal(t, 2.0, eval(t, "vec3(1, 2, 3)[1]"))
	assert.Equal(t, 1.0, eval(t, "color('red')[0]"))
	assert.Equal(t, 20.0, eval(t, "[10, 20][1]"))

	// Out-of-range and non-numeric indices yield undefined.
	assert.Nil(t, eval(t, "vec2(1, 2)[5]"))
	assert.Nil(t, eval(t, "vec2(1, 2)['x']"))
}

func TestRegexp(t *testing.T) {
	assert.Equal(t, true, eval(t, "regExp('^K').test(${County})"))
	assert.Equal(t, false, eval(t, "regExp('^Q').test(${County})"))

	// exec returns the first capture group when one exists.
	assert.Equal(t, "42", eval(t, `regExp('(\d+)').exec('id 42')`))

	// Without groups, the whole match.
	assert.Equal(t, "ing", eval(t, "regExp('ing').exec(${County})"))

	// No match yields null.
	assert.Equal(t, types.NullValue, eval(t, "regExp('xyz').exec(${County})"))

	// Match operators work with the operands in either order.
	assert.Equal(t, true, eval(t, "'Kings' =~ regExp('^K')"))
	assert.Equal(t, true, eval(t, "regExp('^K') =~ 'Kings'"))
	assert.Equal(t, true, eval(t, "'Kings' !~ regExp('^Q')"))

	// The test argument is string-coerced.
	assert.Equal(t, true, eval(t, "regExp('100').test(${Height})"))
}

func TestMethodErrors(t *testing.T) {
	err := evalErr(t, "'abc'.test('a')")
	assert.True(t, types.IsCode(err, types.ErrBadMethodKind))

	err = evalErr(t, "regExp('a').match('a')")
	assert.True(t, types.IsCode(err, types.ErrNotAMethod))

	err = evalErr(t, "1 =~ 2")
	assert.True(t, types.IsCode(err, types.ErrArgumentType))
}

func TestEvaluateColor(t *testing.T) {
	expr, err := parser.Parse("color('red', 0.5)")
	require.NoError(t, err)

	var result types.Color
	c, err := New().EvaluateColor(expr, &types.FrameState{}, testFeature, &result)
	require.NoError(t, err)
	assert.Equal(t, c, result)
	assert.Equal(t, 0.5, result.A)

	expr, err = parser.Parse("${Height}")
	require.NoError(t, err)
	_, err = New().EvaluateColor(expr, &types.FrameState{}, testFeature, nil)
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrNotAColor))
}

func TestEvaluateIsRepeatable(t *testing.T) {
	expr, err := parser.Parse("${Height} > 50 ? color('red') : color('blue')")
	require.NoError(t, err)

	ev := New()
	first, err := ev.Evaluate(expr, &types.FrameState{}, testFeature)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		v, err := ev.Evaluate(expr, &types.FrameState{}, testFeature)
		require.NoError(t, err)
		assert.Equal(t, first, v)
	}
}
