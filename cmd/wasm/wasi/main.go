//go:build wasip1

// Command cesium-wasm-wasi is the WASI (wasip1) entrypoint for evaluating
// styling expressions from any language with WebAssembly System Interface
// support.
//
// Protocol: single JSON object on stdin → single JSON object on stdout.
//
//	stdin:  { "expression": "<source>", "feature": { "<attr>": <value>, ... } }
//	stdout: { "result": <any JSON value> }    on success
//	        { "error":  "<message>"       }   on failure (exit code 1)
//
// Build:
//
//	GOOS=wasip1 GOARCH=wasm go build -o tilestyle.wasm ./cmd/wasm/wasi/
//
// Usage with wasmtime CLI:
//
//	echo '{"expression":"${Height} > 100","feature":{"Height":120}}' | wasmtime tilestyle.wasm
package main

import (
	"encoding/json"
	"os"

	"github.com/jason-crow/cesium"
	"github.com/jason-crow/cesium/pkg/types"
)

type request struct {
	Expression string         `json:"expression"`
	Feature    map[string]any `json:"feature"`
}

type response struct {
	Result any    `json:"result"`
	Error  string `json:"error,omitempty"`
}

func writeResponse(r response, exitCode int) {
	_ = json.NewEncoder(os.Stdout).Encode(r)
	os.Exit(exitCode)
}

func main() {
	var req request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(response{Error: "invalid request JSON: " + err.Error()}, 1)
	}

	expr, err := cesium.CompileExpression(req.Expression)
	if err != nil {
		writeResponse(response{Error: err.Error()}, 1)
	}

	v, err := expr.Evaluate(&types.FrameState{}, types.MapFeature(req.Feature))
	if err != nil {
		writeResponse(response{Error: err.Error()}, 1)
	}

	writeResponse(response{Result: jsonValue(v)}, 0)
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
