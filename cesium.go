// Package cesium implements 3D Tiles tileset styling: a small expression
// language evaluated per feature on the CPU, with a compiler to GLSL shader
// functions for the subset that can run on the GPU.
//
// A style document maps visual properties (show, color, pointSize, ...) to
// expressions over feature attributes:
//
//	doc := map[string]any{
//	    "show":  "${Height} > 100",
//	    "color": map[string]any{"conditions": []any{
//	        []any{"${Temperature} > 30", "color('red')"},
//	        []any{"true", "color('#2196f3')"},
//	    }},
//	}
//	st, err := cesium.NewStyle(doc)
//
// Per-feature evaluation reads attributes through the types.Feature
// interface; a missing attribute propagates the undefined sentinel (nil)
// rather than failing:
//
//	show, _ := st.Show()
//	v, err := show.Evaluate(&types.FrameState{}, feature)
//
// Standalone expressions compile once and evaluate many times, safely from
// multiple goroutines:
//
//	expr, err := cesium.CompileExpression("clamp(${Height} / 255.0, 0.0, 1.0)")
//
// For detailed documentation, see:
//   - Parser: github.com/jason-crow/cesium/pkg/parser
//   - Evaluator: github.com/jason-crow/cesium/pkg/evaluator
//   - Shader compiler: github.com/jason-crow/cesium/pkg/shader
//   - Style façade: github.com/jason-crow/cesium/pkg/style
package cesium

import (
	"context"
	"fmt"

	"github.com/jason-crow/cesium/pkg/style"
)

// Version returns the current module version.
func Version() string {
	return "v0.1.0-dev"
}

// NewStyle builds a ready style from an in-memory document. A nil document
// yields an empty style.
func NewStyle(doc map[string]any, opts ...style.Option) (*style.Style, error) {
	return style.NewStyle(doc, opts...)
}

// LoadStyle fetches and applies a style document from an http(s) URL or a
// filesystem path. The returned style settles asynchronously; observe its
// Done channel or Ready method.
func LoadStyle(ctx context.Context, ref string, opts ...style.Option) *style.Style {
	return style.LoadStyle(ctx, ref, opts...)
}

// CompileExpression parses a standalone styling expression for repeated
// per-feature evaluation. The result is safe for concurrent use.
func CompileExpression(source string, opts ...style.Option) (*style.Expression, error) {
	return style.NewExpression(source, opts...)
}

// MustCompileExpression is CompileExpression but panics on error. It
// simplifies safe initialization of package-level expressions.
func MustCompileExpression(source string) *style.Expression {
	expr, err := style.NewExpression(source)
	if err != nil {
		panic(fmt.Sprintf("cesium: CompileExpression(%q): %v", source, err))
	}
	return expr
}
