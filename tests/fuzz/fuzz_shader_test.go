package fuzz

import (
	"testing"

	"github.com/jason-crow/cesium/pkg/parser"
	"github.com/jason-crow/cesium/pkg/shader"
)

func FuzzShaderCompiler(f *testing.F) {
	seeds := []string{
		`${Height} > 100.0`,
		`color('red') * vec4(0.5)`,
		`rgba(255, 0, 0, 0.5)`,
		`mix(0.0, 1.0, clamp(${Height} / 300.0, 0.0, 1.0))`,
		`true ? vec4(1.0) : vec4(0.0, 0.0, 0.0, 0.5)`,
		`'strings are cpu only'`,
		`regExp('a').test('a')`,
		`${Height} % 2.0 === 0.0`,
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, input string) {
		expr, err := parser.Parse(input)
		if err != nil {
			return
		}
		state := &shader.State{}
		_, _ = shader.Function("getColor", "czm_", expr, state, "vec4")
	})
}
