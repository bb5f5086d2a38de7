//go:build js && wasm

// Command cesium-wasm-js is the WebAssembly entrypoint for browser and
// Node.js, so a JS host can evaluate tileset styling expressions with the
// same engine the server uses.
//
// It exposes a global `tilestyle` object:
//
//	tilestyle.version()                         → string
//	tilestyle.eval(source, featureJSON)         → resultJSON  (throws on error)
//	tilestyle.compile(source)                   → { eval(featureJSON) → resultJSON,
//	                                                shader(name, prefix, returnType) → glsl | null }
//
// Build:
//
//	GOOS=js GOARCH=wasm go build -o tilestyle.wasm ./cmd/wasm/js/
package main

import (
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/jason-crow/cesium"
	"github.com/jason-crow/cesium/pkg/shader"
	"github.com/jason-crow/cesium/pkg/types"
)

// jsThrow panics with a JS Error so the caller receives a thrown exception.
func jsThrow(msg string) {
	js.Global().Get("Error").New(msg)
	panic(msg)
}

func decodeFeature(featureJSON string) types.MapFeature {
	feature := types.MapFeature{}
	if err := json.Unmarshal([]byte(featureJSON), &feature); err != nil {
		jsThrow(fmt.Sprintf("tilestyle: invalid feature JSON: %v", err))
	}
	return feature
}

func encodeResult(v any) string {
	out, err := json.Marshal(jsonValue(v))
	if err != nil {
		jsThrow(fmt.Sprintf("tilestyle: marshal result: %v", err))
	}
	return string(out)
}

// jsonValue maps engine values onto plain JSON: colors and vectors become
// component arrays, both null and undefined become JSON null.
func jsonValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case types.Null:
		return nil
	case types.Color:
		return []float64{t.R, t.G, t.B, t.A}
	case types.Vector:
		out := make([]float64, t.N)
		for i := 0; i < t.N; i++ {
			out[i], _ = t.Component(i)
		}
		return out
	case *types.Regexp:
		return t.Source
	default:
		return t
	}
}

// jsEval implements tilestyle.eval(source, featureJSON) → resultJSON.
func jsEval(_ js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		jsThrow("tilestyle.eval requires 2 arguments: source (string) and feature (JSON string)")
	}
	expr, err := cesium.CompileExpression(args[0].String())
	if err != nil {
		jsThrow(fmt.Sprintf("tilestyle.eval: %v", err))
	}
	v, err := expr.Evaluate(&types.FrameState{}, decodeFeature(args[1].String()))
	if err != nil {
		jsThrow(fmt.Sprintf("tilestyle.eval: %v", err))
	}
	return encodeResult(v)
}

// jsCompile implements tilestyle.compile(source).
func jsCompile(_ js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		jsThrow("tilestyle.compile requires 1 argument: source (string)")
	}
	expr, err := cesium.CompileExpression(args[0].String())
	if err != nil {
		jsThrow(fmt.Sprintf("tilestyle.compile: %v", err))
	}

	evalFn := js.FuncOf(func(_ js.Value, innerArgs []js.Value) interface{} {
		if len(innerArgs) < 1 {
			jsThrow("compiled.eval requires 1 argument: feature (JSON string)")
		}
		v, e := expr.Evaluate(&types.FrameState{}, decodeFeature(innerArgs[0].String()))
		if e != nil {
			jsThrow(fmt.Sprintf("compiled.eval: %v", e))
		}
		return encodeResult(v)
	})

	shaderFn := js.FuncOf(func(_ js.Value, innerArgs []js.Value) interface{} {
		if len(innerArgs) < 3 {
			jsThrow("compiled.shader requires 3 arguments: name, prefix, returnType")
		}
		var state shader.State
		src, ok := expr.ShaderFunction(
			innerArgs[0].String(), innerArgs[1].String(), &state, innerArgs[2].String())
		if !ok {
			return nil
		}
		return src
	})

	return js.ValueOf(map[string]interface{}{
		"eval":   evalFn,
		"shader": shaderFn,
	})
}

func main() {
	api := map[string]interface{}{
		"eval":    js.FuncOf(jsEval),
		"compile": js.FuncOf(jsCompile),
		"version": js.FuncOf(func(_ js.Value, _ []js.Value) interface{} {
			return cesium.Version()
		}),
	}
	js.Global().Set("tilestyle", js.ValueOf(api))

	// Block forever; the JS event loop owns execution from here.
	select {}
}
