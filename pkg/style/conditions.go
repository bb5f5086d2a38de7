package style

import (
	"strings"

	"github.com/jason-crow/cesium/pkg/shader"
	"github.com/jason-crow/cesium/pkg/types"
)

// ConditionsExpression evaluates an ordered list of predicate/result pairs.
// The first pair whose predicate is truthy supplies the value; when no
// predicate matches the result is the undefined sentinel.
type ConditionsExpression struct {
	pairs []conditionPair
}

type conditionPair struct {
	condition *Expression
	result    *Expression
}

var _ StyleExpression = (*ConditionsExpression)(nil)

// NewConditionsExpression compiles each [predicate, result] pair in order.
// Pair order is significant and preserved.
func NewConditionsExpression(conditions [][2]string, opts ...Option) (*ConditionsExpression, error) {
	o := buildOptions(opts)
	return newConditionsExpression(conditions, o)
}

func newConditionsExpression(conditions [][2]string, o Options) (*ConditionsExpression, error) {
	pairs := make([]conditionPair, 0, len(conditions))
	for _, c := range conditions {
		cond, err := newExpression(c[0], o)
		if err != nil {
			return nil, err
		}
		result, err := newExpression(c[1], o)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, conditionPair{condition: cond, result: result})
	}
	return &ConditionsExpression{pairs: pairs}, nil
}

// Evaluate implements StyleExpression.
func (c *ConditionsExpression) Evaluate(frame *types.FrameState, feature types.Feature) (any, error) {
	for _, pair := range c.pairs {
		v, err := pair.condition.Evaluate(frame, feature)
		if err != nil {
			return nil, err
		}
		if types.Truthy(v) {
			return pair.result.Evaluate(frame, feature)
		}
	}
	return nil, nil
}

// EvaluateColor implements StyleExpression.
func (c *ConditionsExpression) EvaluateColor(frame *types.FrameState, feature types.Feature, result *types.Color) (types.Color, error) {
	for _, pair := range c.pairs {
		v, err := pair.condition.Evaluate(frame, feature)
		if err != nil {
			return types.Color{}, err
		}
		if types.Truthy(v) {
			return pair.result.EvaluateColor(frame, feature, result)
		}
	}
	return types.Color{}, types.NewError(types.ErrNotAColor, "no condition matched for color-typed property", -1)
}

// ShaderFunction implements StyleExpression. The pairs lower to a chain of
// early-return if statements followed by a type-appropriate default, so the
// generated function is total even when no predicate matches.
func (c *ConditionsExpression) ShaderFunction(functionName, attributePrefix string, state *shader.State, returnType string) (string, bool) {
	var sb strings.Builder
	sb.WriteString(returnType)
	sb.WriteString(" ")
	sb.WriteString(functionName)
	sb.WriteString("()\n{\n")
	for _, pair := range c.pairs {
		condSrc, err := shader.Lower(pair.condition.expr.AST(), attributePrefix, state)
		if err != nil {
			return "", false
		}
		resultSrc, err := shader.Lower(pair.result.expr.AST(), attributePrefix, state)
		if err != nil {
			return "", false
		}
		sb.WriteString("    if (")
		sb.WriteString(condSrc)
		sb.WriteString(")\n    {\n        return ")
		sb.WriteString(resultSrc)
		sb.WriteString(";\n    }\n")
	}
	sb.WriteString("    return ")
	sb.WriteString(shaderDefault(returnType))
	sb.WriteString(";\n}\n")
	return sb.String(), true
}

func shaderDefault(returnType string) string {
	switch returnType {
	case "vec4":
		return "vec4(1.0)"
	case "vec3":
		return "vec3(1.0)"
	case "vec2":
		return "vec2(1.0)"
	case "bool":
		return "true"
	default:
		return "1.0"
	}
}
