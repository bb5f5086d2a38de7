// Package benchmark provides performance benchmarks for the styling engine.
//
// Run all benchmarks:
//
//	go test -bench=. -benchmem ./tests/benchmark/...
//
// Run specific category:
//
//	go test -bench=BenchmarkParse -benchmem ./tests/benchmark/...
//	go test -bench=BenchmarkEval -benchmem ./tests/benchmark/...
//	go test -bench=BenchmarkShader -benchmem ./tests/benchmark/...
package benchmark_test

import (
	"fmt"
	"testing"

	"github.com/jason-crow/cesium/pkg/cache"
	"github.com/jason-crow/cesium/pkg/evaluator"
	"github.com/jason-crow/cesium/pkg/parser"
	"github.com/jason-crow/cesium/pkg/shader"
	"github.com/jason-crow/cesium/pkg/style"
	"github.com/jason-crow/cesium/pkg/types"
)

// ---------------------------------------------------------------------------
// Test data
// ---------------------------------------------------------------------------

var (
	// singleFeature mirrors a typical building feature.
	singleFeature = types.MapFeature{
		"Height":   127.3,
		"Floors":   12.0,
		"Area":     "240.5",
		"County":   "Kings",
		"Occupied": true,
		"id":       "building-12",
	}

	// smallTileset - 100 features
	smallTileset []types.Feature

	// largeTileset - 10000 features
	largeTileset []types.Feature
)

func init() {
	counties := []string{"Kings", "Queens", "Bronx", "Richmond", "New York"}

	buildTileset := func(n int) []types.Feature {
		features := make([]types.Feature, n)
		for i := 0; i < n; i++ {
			features[i] = types.MapFeature{
				"Height":   float64(5 + i%300),
				"Floors":   float64(1 + i%40),
				"County":   counties[i%5],
				"Occupied": i%3 != 0,
				"id":       fmt.Sprintf("building-%d", i),
			}
		}
		return features
	}

	smallTileset = buildTileset(100)
	largeTileset = buildTileset(10000)
}

// sharedEval is safe for concurrent use.
var sharedEval = evaluator.New()

var sharedFrame = &types.FrameState{}

func runEval(b *testing.B, expr *types.Expression, feature types.Feature) {
	b.Helper()
	_, err := sharedEval.Evaluate(expr, sharedFrame, feature)
	if err != nil {
		b.Fatal(err)
	}
}

func mustParse(source string) *types.Expression {
	e, err := parser.Parse(source)
	if err != nil {
		panic(fmt.Sprintf("mustParse(%q): %v", source, err))
	}
	return e
}

// ---------------------------------------------------------------------------
// Parser benchmarks
// ---------------------------------------------------------------------------

func BenchmarkParseAttribute(b *testing.B) {
	source := "${Height}"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := parser.Parse(source)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseArithmetic(b *testing.B) {
	source := "clamp((${Height} - 10.0) / 250.0, 0.0, 1.0) * ${Floors}"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := parser.Parse(source)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseTernaryColor(b *testing.B) {
	source := "${Height} > 100 ? color('red', 0.5) : rgba(33, 150, 243, 1.0)"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := parser.Parse(source)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseRegexp(b *testing.B) {
	source := `regExp('building-(\d+)').exec(${id})`
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := parser.Parse(source)
		if err != nil {
			b.Fatal(err)
		}
	}
}

// ---------------------------------------------------------------------------
// Evaluation – per feature
// ---------------------------------------------------------------------------

func BenchmarkEvalAttribute(b *testing.B) {
	expr := mustParse("${Height}")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		runEval(b, expr, singleFeature)
	}
}

func BenchmarkEvalArithmetic(b *testing.B) {
	expr := mustParse("clamp((${Height} - 10.0) / 250.0, 0.0, 1.0)")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		runEval(b, expr, singleFeature)
	}
}

func BenchmarkEvalTernaryColor(b *testing.B) {
	expr := mustParse("${Height} > 100 ? color('red', 0.5) : rgba(33, 150, 243, 1.0)")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		runEval(b, expr, singleFeature)
	}
}

func BenchmarkEvalColorBlend(b *testing.B) {
	expr := mustParse("color('cyan') * vec4(${Height} / 300.0, ${Height} / 300.0, 1.0, 1.0)")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		runEval(b, expr, singleFeature)
	}
}

func BenchmarkEvalRegexp(b *testing.B) {
	expr := mustParse("regExp('^K').test(${County})")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		runEval(b, expr, singleFeature)
	}
}

func BenchmarkEvalStringConcat(b *testing.B) {
	expr := mustParse("'county: ' + ${County} + ', height: ' + ${Height}")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		runEval(b, expr, singleFeature)
	}
}

// ---------------------------------------------------------------------------
// Evaluation – tileset sweep
// ---------------------------------------------------------------------------

func benchmarkTileset(b *testing.B, source string, features []types.Feature) {
	expr := mustParse(source)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, f := range features {
			if _, err := sharedEval.Evaluate(expr, sharedFrame, f); err != nil {
				b.Fatal(err)
			}
		}
	}
}

func BenchmarkEvalShow_Small(b *testing.B) {
	benchmarkTileset(b, "${Height} > 100 && ${Occupied}", smallTileset)
}

func BenchmarkEvalShow_Large(b *testing.B) {
	benchmarkTileset(b, "${Height} > 100 && ${Occupied}", largeTileset)
}

func BenchmarkEvalColor_Small(b *testing.B) {
	benchmarkTileset(b, "${Height} > 150 ? color('red') : color('#2196f3')", smallTileset)
}

func BenchmarkEvalColor_Large(b *testing.B) {
	benchmarkTileset(b, "${Height} > 150 ? color('red') : color('#2196f3')", largeTileset)
}

// ---------------------------------------------------------------------------
// Color evaluation into a reused result
// ---------------------------------------------------------------------------

func BenchmarkEvaluateColorReuse(b *testing.B) {
	expr := mustParse("rgba(255, 0, 0, ${Height} / 300.0)")
	var result types.Color
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := sharedEval.EvaluateColor(expr, sharedFrame, singleFeature, &result); err != nil {
			b.Fatal(err)
		}
	}
}

// ---------------------------------------------------------------------------
// Shader compilation
// ---------------------------------------------------------------------------

func BenchmarkShaderShow(b *testing.B) {
	expr := mustParse("${Height} > 100.0")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		state := &shader.State{}
		if _, err := shader.Function("getShow", "czm_", expr, state, "bool"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkShaderColor(b *testing.B) {
	expr := mustParse("mix(color('yellow'), color('red'), clamp(${Height} / 300.0, 0.0, 1.0))")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		state := &shader.State{}
		if _, err := shader.Function("getColor", "czm_", expr, state, "vec4"); err != nil {
			b.Fatal(err)
		}
	}
}

// ---------------------------------------------------------------------------
// Compile cache
// ---------------------------------------------------------------------------

func BenchmarkCompileUncached(b *testing.B) {
	source := "${Height} > 100 ? color('red', 0.5) : color('#2196f3')"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := style.NewExpression(source); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompileCached(b *testing.B) {
	source := "${Height} > 100 ? color('red', 0.5) : color('#2196f3')"
	c := cache.New(64)
	if _, err := style.NewExpression(source, style.WithCache(c)); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := style.NewExpression(source, style.WithCache(c)); err != nil {
			b.Fatal(err)
		}
	}
}
