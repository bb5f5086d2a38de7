package evaluator

import "github.com/jason-crow/cesium/pkg/types"

// EvalContext carries the per-call inputs of a single evaluation pass:
// the frame state and the feature whose attributes ${name} references read.
// A fresh context is built per Evaluate call; nothing in it outlives the
// call.
type EvalContext struct {
	Frame   *types.FrameState
	Feature types.Feature

	depth int
}

// attribute resolves a feature attribute by name. A missing attribute (or a
// nil feature) yields the undefined sentinel, never an error.
func (c *EvalContext) attribute(name string) any {
	if c.Feature == nil {
		return nil
	}
	v, ok := c.Feature.GetProperty(name)
	if !ok {
		return nil
	}
	return normalizeValue(v)
}

// normalizeValue maps the open-ended values a Feature may return onto the
// evaluator's runtime kinds: all integer and float widths become float64,
// []float64 of arity 2-4 becomes a Vector.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case bool, float64, string, types.Color, types.Vector, types.Null:
		return v
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case uint:
		return float64(t)
	case uint32:
		return float64(t)
	case uint64:
		return float64(t)
	case float32:
		return float64(t)
	case []float64:
		switch len(t) {
		case 2:
			return types.Vec2(t[0], t[1])
		case 3:
			return types.Vec3(t[0], t[1], t[2])
		case 4:
			return types.Vec4(t[0], t[1], t[2], t[3])
		}
		return v
	default:
		return v
	}
}
