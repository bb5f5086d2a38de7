// Package evaluator implements CPU-side evaluation of styling expressions.
//
// The evaluator receives a parsed Abstract Syntax Tree (AST) from the parser
// and evaluates it against a feature's attributes and the current frame
// state. Evaluation never performs I/O, never suspends, and holds no mutable
// state shared between calls: it is safe to invoke many times per frame for
// many features from multiple goroutines.
//
// # Example
//
//	expr, _ := parser.Parse("${Height} > 100")
//	ev := evaluator.New()
//	result, err := ev.Evaluate(expr, &types.FrameState{}, feature)
package evaluator

import (
	"log/slog"

	"github.com/jason-crow/cesium/pkg/types"
)

// Evaluator evaluates styling expressions against features.
type Evaluator struct {
	opts   Options
	logger *slog.Logger
}

// Options configures evaluator behavior.
type Options struct {
	// MaxDepth limits evaluation recursion depth.
	MaxDepth int
	// Debug enables per-evaluation debug logging.
	Debug bool
	// Logger for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

// WithMaxDepth sets the maximum evaluation depth.
func WithMaxDepth(depth int) Option {
	return func(o *Options) { o.MaxDepth = depth }
}

// WithDebug enables debug logging of each evaluation.
func WithDebug(debug bool) Option {
	return func(o *Options) { o.Debug = debug }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// New creates a new Evaluator with default options.
func New(opts ...Option) *Evaluator {
	options := Options{
		MaxDepth: 1000,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	return &Evaluator{
		opts:   options,
		logger: options.Logger,
	}
}

// Evaluate walks the expression's AST against the feature's attributes and
// the frame state, producing a runtime value: bool, float64, string,
// types.Color, types.Vector, *types.Regexp, types.Null, or nil for the
// undefined sentinel.
//
// Missing attributes and unmatched conditions propagate the undefined
// sentinel; only structurally invalid operations return an error.
func (e *Evaluator) Evaluate(expr *types.Expression, frame *types.FrameState, feature types.Feature) (any, error) {
	ctx := &EvalContext{
		Frame:   frame,
		Feature: feature,
	}
	v, err := e.evalNode(expr.AST(), ctx)
	if e.opts.Debug {
		e.logger.Debug("expression evaluated",
			slog.String("source", expr.Source()),
			slog.Any("result", v),
			slog.Any("error", err))
	}
	return v, err
}

// EvaluateColor evaluates an expression that must produce a color.
// When result is non-nil the color is written into it, so per-frame callers
// can avoid allocating; the written value is also returned.
func (e *Evaluator) EvaluateColor(expr *types.Expression, frame *types.FrameState, feature types.Feature, result *types.Color) (types.Color, error) {
	v, err := e.Evaluate(expr, frame, feature)
	if err != nil {
		return types.Color{}, err
	}
	c, ok := v.(types.Color)
	if !ok {
		return types.Color{}, types.NewError(types.ErrNotAColor,
			"expression did not produce a color", -1)
	}
	if result != nil {
		*result = c
	}
	return c, nil
}
