package shader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jason-crow/cesium/pkg/parser"
	"github.com/jason-crow/cesium/pkg/types"
)

func lower(t *testing.T, source string) (string, *State) {
	t.Helper()
	expr, err := parser.Parse(source)
	require.NoError(t, err)
	state := &State{}
	out, err := Lower(expr.AST(), "czm_", state)
	require.NoError(t, err)
	return out, state
}

func lowerErr(t *testing.T, source string) error {
	t.Helper()
	expr, err := parser.Parse(source)
	require.NoError(t, err)
	_, err = Lower(expr.AST(), "czm_", &State{})
	require.Error(t, err)
	return err
}

func TestLowerLiteralsAndVariables(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"42", "42.0"},
		{"42.5", "42.5"},
		{"true", "true"},
		{"${Height}", "czm_Height"},
		{"${feature.Height}", "czm_Height"},
		{"-${Height}", "(-czm_Height)"},
		{"!true", "(!true)"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			out, _ := lower(t, tt.source)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestLowerOperators(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"1 + 2", "(1.0 + 2.0)"},
		{"${H} * 0.5", "(czm_H * 0.5)"},
		{"${H} === 1", "(czm_H == 1.0)"},
		{"${H} !== 1", "(czm_H != 1.0)"},
		{"${H} % 3", "mod(czm_H, 3.0)"},
		{"${A} && ${B}", "(czm_A && czm_B)"},
		{"${H} > 1 ? 2 : 3", "((czm_H > 1.0) ? 2.0 : 3.0)"},
		{"[1, 2, 3]", "vec3(1.0, 2.0, 3.0)"},
		{"vec2(1, 2).x", "vec2(1.0, 2.0).x"},
		{"vec3(1, 2, 3)[1]", "vec3(1.0, 2.0, 3.0)[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			out, _ := lower(t, tt.source)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestLowerBuiltins(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"abs(${H})", "abs(czm_H)"},
		{"atan2(1, 2)", "atan(1.0, 2.0)"},
		{"round(${H})", "floor(czm_H + 0.5)"},
		{"clamp(${H}, 0, 1)", "clamp(czm_H, 0.0, 1.0)"},
		{"Boolean(${H})", "bool(czm_H)"},
		{"Number(true)", "float(true)"},
		{"vec3(1, 2, 3)", "vec3(1.0, 2.0, 3.0)"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			out, _ := lower(t, tt.source)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestLowerColors(t *testing.T) {
	out, state := lower(t, "color('red')")
	assert.Equal(t, "vec4(1.0, 0.0, 0.0, 1.0)", out)
	assert.False(t, state.Translucent)

	out, state = lower(t, "color()")
	assert.Equal(t, "vec4(1.0)", out)
	assert.False(t, state.Translucent)

	out, state = lower(t, "color('red', 0.5)")
	assert.Equal(t, "vec4(1.0, 0.0, 0.0, 0.5)", out)
	assert.True(t, state.Translucent)

	out, state = lower(t, "rgb(255, 0, 0)")
	assert.Equal(t, "vec4((255.0) / 255.0, (0.0) / 255.0, (0.0) / 255.0, 1.0)", out)
	assert.False(t, state.Translucent)

	_, state = lower(t, "rgba(255, 0, 0, 0.5)")
	assert.True(t, state.Translucent)

	// Literal hsl folds to a constant color.
	out, state = lower(t, "hsl(0, 1, 0.5)")
	assert.Equal(t, "vec4(1.0, 0.0, 0.0, 1.0)", out)
	assert.False(t, state.Translucent)

	// Computed hsl defers to the shader builtin.
	out, _ = lower(t, "hsl(${H}, 1, 0.5)")
	assert.Equal(t, "vec4(czm_HSLToRGB(vec3(czm_H, 1.0, 0.5)), 1.0)", out)

	_, state = lower(t, "hsla(0, 1, 0.5, 0.5)")
	assert.True(t, state.Translucent)
}

func TestVec4Translucency(t *testing.T) {
	_, state := lower(t, "vec4(1, 0, 0, 1)")
	assert.False(t, state.Translucent)

	_, state = lower(t, "vec4(1, 0, 0, 0.5)")
	assert.True(t, state.Translucent)

	// A computed alpha may or may not be 1; assume translucent.
	_, state = lower(t, "vec4(1, 0, 0, ${A})")
	assert.True(t, state.Translucent)

	// Flattened form: the trailing argument still supplies alpha.
	_, state = lower(t, "vec4(vec3(1), 1)")
	assert.False(t, state.Translucent)
}

func TestNotCompilable(t *testing.T) {
	sources := []string{
		"'a string'",
		"null",
		"undefined",
		"regExp('a')",
		"regExp('a').test(${Name})",
		"${Name} =~ regExp('^K')",
		"String(${H})",
		"isNaN(${H})",
		"${H} + 'm'",
		"color(${Name})",
		"vec2(1, 2).len",
		"vec3(1, 2, 3)[${I}]",
		"[1, 2, 3, 4, 5]",
	}
	for _, source := range sources {
		t.Run(source, func(t *testing.T) {
			err := lowerErr(t, source)
			assert.True(t, IsNotCompilable(err), "expected not-compilable, got %v", err)
		})
	}

	// An unknown color keyword is a hard error, not a CPU fallback.
	err := lowerErr(t, "color('notacolor')")
	assert.False(t, IsNotCompilable(err))
	assert.True(t, types.IsCode(err, types.ErrArgumentType))
}

func TestFunction(t *testing.T) {
	expr, err := parser.Parse("${Height} > 100")
	require.NoError(t, err)

	var state State
	src, err := Function("getShow", "czm_", expr, &state, "bool")
	require.NoError(t, err)
	assert.Equal(t, "bool getShow()\n{\n    return (czm_Height > 100.0);\n}\n", src)
}

func TestGLSLFloatFormatting(t *testing.T) {
	// Integer-valued literals keep a decimal point.
	out, _ := lower(t, "1 + 10")
	assert.Equal(t, "(1.0 + 10.0)", out)

	out, _ = lower(t, "0.25")
	assert.Equal(t, "0.25", out)
}
