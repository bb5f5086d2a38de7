// Package style implements the tileset style façade: loading a style
// document (inline or by reference), exposing each stylable property as a
// settable expression, and producing memoized shader functions for the
// GPU-evaluable subset.
package style

import (
	"github.com/jason-crow/cesium/pkg/shader"
	"github.com/jason-crow/cesium/pkg/types"
)

// StyleExpression is the capability every style property value satisfies.
// Three variants exist: Expression (a parsed expression), a
// ConditionsExpression (ordered predicate/result pairs), and any custom
// object the host application supplies. The Style façade never
// distinguishes them beyond this interface.
type StyleExpression interface {
	// Evaluate produces the expression's value for one feature in one
	// frame. A missing attribute or unmatched condition yields the
	// undefined sentinel (nil), not an error.
	Evaluate(frame *types.FrameState, feature types.Feature) (any, error)

	// EvaluateColor is Evaluate for color-typed properties; when result is
	// non-nil the color is written into it to let per-frame callers avoid
	// allocation.
	EvaluateColor(frame *types.FrameState, feature types.Feature, result *types.Color) (types.Color, error)

	// ShaderFunction compiles the expression into a GLSL function of the
	// given name and return type, with feature attributes referenced as
	// attributePrefix + attributeName. ok is false when the expression
	// contains constructs with no GPU equivalent; the caller then falls
	// back to CPU evaluation.
	ShaderFunction(functionName, attributePrefix string, state *shader.State, returnType string) (source string, ok bool)
}
