package style

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/jason-crow/cesium/pkg/shader"
	"github.com/jason-crow/cesium/pkg/types"
)

// LoadState is the style's position in the load lifecycle.
type LoadState int

const (
	StateUnloaded LoadState = iota
	StateLoading
	StateReady
	StateFailed
)

func (s LoadState) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// visualProperties names every stylable property the façade recognizes.
// The document keys "defines" and "meta" are handled separately.
var visualProperties = map[string]bool{
	"show":                     true,
	"color":                    true,
	"pointSize":                true,
	"pointColor":               true,
	"pointOutlineColor":        true,
	"pointOutlineWidth":        true,
	"labelColor":               true,
	"labelOutlineColor":        true,
	"labelOutlineWidth":        true,
	"font":                     true,
	"labelStyle":               true,
	"labelText":                true,
	"backgroundColor":          true,
	"backgroundPadding":        true,
	"backgroundEnabled":        true,
	"scaleByDistance":          true,
	"translucencyByDistance":   true,
	"distanceDisplayCondition": true,
	"heightOffset":             true,
	"anchorLineEnabled":        true,
	"anchorLineColor":          true,
	"image":                    true,
	"disableDepthTestDistance": true,
	"origin":                   true,
	"labelOrigin":              true,
}

// shaderEntry memoizes one style-level shader function. valid flips to false
// when the corresponding property is reassigned; translucent replays the
// accumulated shader state on cache hits.
type shaderEntry struct {
	valid       bool
	source      string
	ok          bool
	translucent bool
}

// Style is the tileset style façade. It owns the parsed form of every
// property in a style document and serves both CPU evaluation and GPU
// shader generation for them.
//
// A Style constructed with NewStyle is ready immediately; one constructed
// with LoadStyle becomes ready (or failed) asynchronously. Property access
// before readiness returns a coded NotReady error rather than blocking.
type Style struct {
	mu      sync.RWMutex
	state   LoadState
	loadErr error
	done    chan struct{}

	opts    Options
	raw     map[string]any
	defines map[string]string
	props   map[string]StyleExpression
	meta    map[string]StyleExpression

	shaderCache map[string]*shaderEntry
}

// NewStyle builds a ready style from an in-memory document. A nil document
// yields an empty style whose properties are all unset.
func NewStyle(doc map[string]any, opts ...Option) (*Style, error) {
	s := newStyle(buildOptions(opts))
	if err := s.applyDocument(doc); err != nil {
		return nil, err
	}
	s.state = StateReady
	close(s.done)
	return s, nil
}

// LoadStyle fetches ref (an http(s) URL or a filesystem path), decodes it as
// a style document, and applies it asynchronously. The returned style is in
// the Loading state; observe Done and Err, or poll Ready, to learn when the
// one-shot load settles. Loads are not retried.
func LoadStyle(ctx context.Context, ref string, opts ...Option) *Style {
	s := newStyle(buildOptions(opts))
	s.state = StateLoading

	go func() {
		defer close(s.done)

		data, err := fetchDocument(ctx, s.opts.HTTPClient, ref)
		if err == nil {
			var doc map[string]any
			doc, err = decodeDocument(data)
			if err == nil {
				s.mu.Lock()
				err = s.applyDocument(doc)
				s.mu.Unlock()
			}
		}

		s.mu.Lock()
		if err != nil {
			s.state = StateFailed
			s.loadErr = err
			s.opts.Logger.Error("style load failed", "ref", ref, "error", err)
		} else {
			s.state = StateReady
		}
		s.mu.Unlock()
	}()

	return s
}

func newStyle(o Options) *Style {
	return &Style{
		state:   StateUnloaded,
		done:    make(chan struct{}),
		opts:    o,
		defines: map[string]string{},
		props:   map[string]StyleExpression{},
		meta:    map[string]StyleExpression{},
		shaderCache: map[string]*shaderEntry{
			"color":     {},
			"show":      {},
			"pointSize": {},
		},
	}
}

// applyDocument parses every recognized key of doc. Callers hold the write
// lock when the style is shared.
func (s *Style) applyDocument(doc map[string]any) error {
	s.raw = cloneValue(doc).(map[string]any)
	if doc == nil {
		s.raw = map[string]any{}
		return nil
	}

	// Defines first: every other property parses against them.
	if raw, ok := doc["defines"]; ok {
		defines, ok := raw.(map[string]any)
		if !ok {
			return types.NewError(types.ErrBadPropertyValue,
				"defines must be a map of name to expression text", -1)
		}
		for name, v := range defines {
			src, err := defineSource(name, v)
			if err != nil {
				return err
			}
			s.defines[name] = src
		}
	}

	for key, value := range doc {
		switch {
		case key == "defines":
			// handled above
		case key == "meta":
			metaDoc, ok := value.(map[string]any)
			if !ok {
				return types.NewError(types.ErrBadPropertyValue,
					"meta must be a map of name to expression", -1)
			}
			for name, v := range metaDoc {
				expr, err := s.wrapValue(v)
				if err != nil {
					return fmt.Errorf("meta %q: %w", name, err)
				}
				s.meta[name] = expr
			}
		case visualProperties[key]:
			expr, err := s.wrapValue(value)
			if err != nil {
				return fmt.Errorf("property %q: %w", key, err)
			}
			s.props[key] = expr
		default:
			return types.NewError(types.ErrUnknownProperty,
				fmt.Sprintf("unrecognized style property %q", key), -1)
		}
	}
	return nil
}

func defineSource(name string, v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case float64:
		return types.FormatNumber(t), nil
	case float32:
		return types.FormatNumber(float64(t)), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	default:
		return "", types.NewError(types.ErrBadPropertyValue,
			fmt.Sprintf("define %q must be an expression string or number", name), -1)
	}
}

// wrapValue turns a document or setter value into a StyleExpression.
// Literals become constant expressions, strings are parsed with the
// document defines, a map with a "conditions" array becomes a
// ConditionsExpression, and anything already satisfying StyleExpression
// passes through.
func (s *Style) wrapValue(v any) (StyleExpression, error) {
	o := s.opts
	o.Defines = s.defines

	switch t := v.(type) {
	case StyleExpression:
		return t, nil
	case string:
		return newExpression(t, o)
	case bool:
		return newExpression(strconv.FormatBool(t), o)
	case float64:
		return newExpression(types.FormatNumber(t), o)
	case float32:
		return newExpression(types.FormatNumber(float64(t)), o)
	case int:
		return newExpression(strconv.Itoa(t), o)
	case int64:
		return newExpression(strconv.FormatInt(t, 10), o)
	case uint64:
		return newExpression(strconv.FormatUint(t, 10), o)
	case map[string]any:
		conditions, err := conditionPairs(t)
		if err != nil {
			return nil, err
		}
		return newConditionsExpression(conditions, o)
	default:
		return nil, types.NewError(types.ErrBadPropertyValue,
			fmt.Sprintf("unsupported property value of type %T", v), -1)
	}
}

func conditionPairs(doc map[string]any) ([][2]string, error) {
	raw, ok := doc["conditions"]
	if !ok {
		return nil, types.NewError(types.ErrBadPropertyValue,
			"expression map must carry a \"conditions\" array", -1)
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, types.NewError(types.ErrBadPropertyValue,
			"\"conditions\" must be an array of [condition, result] pairs", -1)
	}
	pairs := make([][2]string, 0, len(list))
	for i, item := range list {
		pair, ok := item.([]any)
		if !ok || len(pair) != 2 {
			return nil, types.NewError(types.ErrBadPropertyValue,
				fmt.Sprintf("condition %d is not a [condition, result] pair", i), -1)
		}
		cond, okc := pair[0].(string)
		result, okr := pair[1].(string)
		if !okc || !okr {
			return nil, types.NewError(types.ErrBadPropertyValue,
				fmt.Sprintf("condition %d must hold two expression strings", i), -1)
		}
		pairs = append(pairs, [2]string{cond, result})
	}
	return pairs, nil
}

// Ready reports whether the style settled successfully and its properties
// are accessible.
func (s *Style) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateReady
}

// State returns the current load state.
func (s *Style) State() LoadState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Done returns a channel closed when an asynchronous load settles, whether
// it succeeded or failed. For styles built with NewStyle it is already
// closed.
func (s *Style) Done() <-chan struct{} {
	return s.done
}

// Err returns the load failure, or nil. Meaningful only after Done.
func (s *Style) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

func (s *Style) ensureReadyLocked() error {
	if s.state != StateReady {
		return types.NewError(types.ErrNotReady,
			fmt.Sprintf("style is %s; wait on Done() before accessing properties", s.state), -1)
	}
	return nil
}

// Property returns the expression bound to a visual property, or nil when
// the property is recognized but unset.
func (s *Style) Property(name string) (StyleExpression, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.ensureReadyLocked(); err != nil {
		return nil, err
	}
	if !visualProperties[name] {
		return nil, types.NewError(types.ErrUnknownProperty,
			fmt.Sprintf("unrecognized style property %q", name), -1)
	}
	return s.props[name], nil
}

// SetProperty binds a visual property to a new value, accepting the same
// forms as a style document plus any StyleExpression. Reassigning color,
// show, or pointSize invalidates its memoized shader function.
func (s *Style) SetProperty(name string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureReadyLocked(); err != nil {
		return err
	}
	if !visualProperties[name] {
		return types.NewError(types.ErrUnknownProperty,
			fmt.Sprintf("unrecognized style property %q", name), -1)
	}
	if value == nil {
		delete(s.props, name)
	} else {
		expr, err := s.wrapValue(value)
		if err != nil {
			return fmt.Errorf("property %q: %w", name, err)
		}
		s.props[name] = expr
	}
	if entry, ok := s.shaderCache[name]; ok {
		*entry = shaderEntry{}
	}
	return nil
}

// Show returns the show expression, or nil when unset.
func (s *Style) Show() (StyleExpression, error) { return s.Property("show") }

// Color returns the color expression, or nil when unset.
func (s *Style) Color() (StyleExpression, error) { return s.Property("color") }

// PointSize returns the pointSize expression, or nil when unset.
func (s *Style) PointSize() (StyleExpression, error) { return s.Property("pointSize") }

// SetShow binds the show property.
func (s *Style) SetShow(value any) error { return s.SetProperty("show", value) }

// SetColor binds the color property.
func (s *Style) SetColor(value any) error { return s.SetProperty("color", value) }

// SetPointSize binds the pointSize property.
func (s *Style) SetPointSize(value any) error { return s.SetProperty("pointSize", value) }

// Meta returns the application-defined metadata expressions by name. The
// returned map is a copy; mutating it does not affect the style.
func (s *Style) Meta() (map[string]StyleExpression, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.ensureReadyLocked(); err != nil {
		return nil, err
	}
	out := make(map[string]StyleExpression, len(s.meta))
	for k, v := range s.meta {
		out[k] = v
	}
	return out, nil
}

// Defines returns a copy of the document's define table.
func (s *Style) Defines() (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.ensureReadyLocked(); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(s.defines))
	for k, v := range s.defines {
		out[k] = v
	}
	return out, nil
}

// Raw returns a deep clone of the decoded style document as loaded, before
// any SetProperty calls.
func (s *Style) Raw() (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.ensureReadyLocked(); err != nil {
		return nil, err
	}
	return cloneValue(s.raw).(map[string]any), nil
}

// GetColorShaderFunction returns the memoized GLSL function for the color
// property, or ok=false when the expression cannot run on the GPU. The
// first call compiles; later calls replay the cached source and its
// translucency contribution until SetColor invalidates the entry.
func (s *Style) GetColorShaderFunction(functionName, attributePrefix string, state *shader.State) (string, bool) {
	return s.shaderFunction("color", functionName, attributePrefix, state, "vec4")
}

// GetShowShaderFunction returns the memoized GLSL function for the show
// property.
func (s *Style) GetShowShaderFunction(functionName, attributePrefix string, state *shader.State) (string, bool) {
	return s.shaderFunction("show", functionName, attributePrefix, state, "bool")
}

// GetPointSizeShaderFunction returns the memoized GLSL function for the
// pointSize property.
func (s *Style) GetPointSizeShaderFunction(functionName, attributePrefix string, state *shader.State) (string, bool) {
	return s.shaderFunction("pointSize", functionName, attributePrefix, state, "float")
}

func (s *Style) shaderFunction(property, functionName, attributePrefix string, state *shader.State, returnType string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return "", false
	}

	entry := s.shaderCache[property]
	if entry.valid {
		if entry.translucent {
			state.Translucent = true
		}
		return entry.source, entry.ok
	}

	expr := s.props[property]
	if expr == nil {
		*entry = shaderEntry{valid: true}
		return "", false
	}

	var local shader.State
	src, ok := expr.ShaderFunction(functionName, attributePrefix, &local, returnType)
	*entry = shaderEntry{
		valid:       true,
		source:      src,
		ok:          ok,
		translucent: local.Translucent,
	}
	if local.Translucent {
		state.Translucent = true
	}
	return src, ok
}
