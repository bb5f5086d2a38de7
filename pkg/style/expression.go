package style

import (
	"github.com/jason-crow/cesium/pkg/cache"
	"github.com/jason-crow/cesium/pkg/evaluator"
	"github.com/jason-crow/cesium/pkg/parser"
	"github.com/jason-crow/cesium/pkg/shader"
	"github.com/jason-crow/cesium/pkg/types"
)

// Expression is a compiled style expression bound to an evaluator. It is
// immutable after construction and safe for concurrent evaluation.
type Expression struct {
	expr *types.Expression
	ev   *evaluator.Evaluator
}

var _ StyleExpression = (*Expression)(nil)

// NewExpression parses source, applying any configured defines, and returns
// the ready-to-evaluate expression. When a cache is configured the parse is
// shared across identical source/defines pairs.
func NewExpression(source string, opts ...Option) (*Expression, error) {
	o := buildOptions(opts)
	return newExpression(source, o)
}

func newExpression(source string, o Options) (*Expression, error) {
	compile := func() (*types.Expression, error) {
		return parser.Parse(source, parser.WithDefines(o.Defines))
	}

	var expr *types.Expression
	var err error
	if o.Cache != nil {
		expr, err = o.Cache.GetOrCompile(cache.Fingerprint(source, o.Defines), compile)
	} else {
		expr, err = compile()
	}
	if err != nil {
		return nil, err
	}
	return &Expression{expr: expr, ev: o.evaluator()}, nil
}

// Source returns the original expression text, before define expansion.
func (e *Expression) Source() string {
	return e.expr.Source()
}

// Evaluate implements StyleExpression.
func (e *Expression) Evaluate(frame *types.FrameState, feature types.Feature) (any, error) {
	return e.ev.Evaluate(e.expr, frame, feature)
}

// EvaluateColor implements StyleExpression.
func (e *Expression) EvaluateColor(frame *types.FrameState, feature types.Feature, result *types.Color) (types.Color, error) {
	return e.ev.EvaluateColor(e.expr, frame, feature, result)
}

// ShaderFunction implements StyleExpression.
func (e *Expression) ShaderFunction(functionName, attributePrefix string, state *shader.State, returnType string) (string, bool) {
	src, err := shader.Function(functionName, attributePrefix, e.expr, state, returnType)
	if err != nil {
		return "", false
	}
	return src, true
}
