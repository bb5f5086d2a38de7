package types

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Null represents an explicit null literal, distinct from undefined (Go nil).
// A style expression that evaluates a missing feature attribute produces nil;
// one that evaluates the `null` literal produces NullValue.
type Null struct{}

// MarshalJSON implements json.Marshaler for Null.
// This ensures that Null serializes to JSON null instead of {}.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// NullValue is the singleton value used for the null literal.
var NullValue = Null{}

// Color is an RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// Component returns the color component at index i (r=0, g=1, b=2, a=3).
func (c Color) Component(i int) (float64, bool) {
	switch i {
	case 0:
		return c.R, true
	case 1:
		return c.G, true
	case 2:
		return c.B, true
	case 3:
		return c.A, true
	default:
		return 0, false
	}
}

// String returns the CSS color string for c, using the rgb() form when the
// color is opaque and rgba() otherwise.
func (c Color) String() string {
	r := strconv.Itoa(int(c.R*255 + 0.5))
	g := strconv.Itoa(int(c.G*255 + 0.5))
	b := strconv.Itoa(int(c.B*255 + 0.5))
	if c.A == 1 {
		return "rgb(" + r + ", " + g + ", " + b + ")"
	}
	return "rgba(" + r + ", " + g + ", " + b + ", " + formatNumber(c.A) + ")"
}

// Vector is a 2, 3 or 4 component float vector, the runtime value of the
// vec2/vec3/vec4 constructors and of numeric array literals.
type Vector struct {
	N          int // component count: 2, 3 or 4
	X, Y, Z, W float64
}

// Vec2 constructs a 2-component vector.
func Vec2(x, y float64) Vector { return Vector{N: 2, X: x, Y: y} }

// Vec3 constructs a 3-component vector.
func Vec3(x, y, z float64) Vector { return Vector{N: 3, X: x, Y: y, Z: z} }

// Vec4 constructs a 4-component vector.
func Vec4(x, y, z, w float64) Vector { return Vector{N: 4, X: x, Y: y, Z: z, W: w} }

// Component returns the vector component at index i, or false when the index
// is outside the vector's arity.
func (v Vector) Component(i int) (float64, bool) {
	if i < 0 || i >= v.N {
		return 0, false
	}
	switch i {
	case 0:
		return v.X, true
	case 1:
		return v.Y, true
	case 2:
		return v.Z, true
	default:
		return v.W, true
	}
}

// SetComponent returns a copy of v with component i replaced.
func (v Vector) SetComponent(i int, f float64) Vector {
	switch i {
	case 0:
		v.X = f
	case 1:
		v.Y = f
	case 2:
		v.Z = f
	case 3:
		v.W = f
	}
	return v
}

// String returns the vecN(...) form of the vector.
func (v Vector) String() string {
	var sb strings.Builder
	sb.WriteString("vec")
	sb.WriteString(strconv.Itoa(v.N))
	sb.WriteByte('(')
	for i := 0; i < v.N; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		f, _ := v.Component(i)
		sb.WriteString(formatNumber(f))
	}
	sb.WriteByte(')')
	return sb.String()
}

// Regexp is the runtime value produced by the regExp() builtin.
// The compiled pattern is built when the builtin is evaluated; expressions do
// not cache it across evaluate calls.
type Regexp struct {
	Source string // original pattern text
	Flags  string // JavaScript-style flags (i, m, s)
	Re     *regexp.Regexp
}

// String returns the /pattern/flags form of the regular expression.
func (r *Regexp) String() string {
	return "/" + r.Source + "/" + r.Flags
}

// Feature is the external attribute source a style expression is evaluated
// against. GetProperty returns the current value of the named attribute, or
// false when the feature has no such attribute. Absence is not an error;
// the evaluator propagates the undefined sentinel.
type Feature interface {
	GetProperty(name string) (any, bool)
}

// MapFeature adapts a plain attribute map to the Feature interface.
type MapFeature map[string]any

// GetProperty implements Feature.
func (m MapFeature) GetProperty(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

// FrameState carries frame-relative values an expression may read.
// The base grammar needs nothing beyond feature attributes; the fields here
// are reserved for extension and may be zero.
type FrameState struct {
	Time        time.Time
	FrameNumber uint64
}

// Truthy reports whether v coerces to true: false, 0, NaN, the empty string,
// null and undefined are falsy; everything else (including colors, vectors
// and regexps) is truthy.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case Null:
		return false
	case bool:
		return t
	case float64:
		return t != 0 && t == t // NaN is falsy
	case string:
		return t != ""
	default:
		return true
	}
}

// ToNumber coerces v for use by a numeric operator: numbers pass through,
// booleans map to 0/1 and numeric strings are parsed. The second result is
// false when v has no numeric interpretation.
func ToNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Stringify converts v to its string form following the String() builtin
// rules: numbers use their shortest decimal representation, undefined and
// null spell themselves out, colors and vectors use their CSS/GLSL forms.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return "undefined"
	case Null:
		return "null"
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return formatNumber(t)
	case string:
		return t
	case Color:
		return t.String()
	case Vector:
		return t.String()
	case *Regexp:
		return t.String()
	default:
		return ""
	}
}

// Equal reports strict (===) equality: values of different kinds are never
// equal, colors and vectors compare componentwise, regexps compare by
// pattern and flags.
func Equal(a, b any) bool {
	switch l := a.(type) {
	case nil:
		return b == nil
	case Null:
		_, ok := b.(Null)
		return ok
	case bool:
		r, ok := b.(bool)
		return ok && l == r
	case float64:
		r, ok := b.(float64)
		return ok && l == r
	case string:
		r, ok := b.(string)
		return ok && l == r
	case Color:
		r, ok := b.(Color)
		return ok && l == r
	case Vector:
		r, ok := b.(Vector)
		return ok && l == r
	case *Regexp:
		r, ok := b.(*Regexp)
		return ok && l.Source == r.Source && l.Flags == r.Flags
	default:
		return false
	}
}

// formatNumber renders f the way the styling language's String() builtin
// does: shortest representation that round-trips.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// FormatNumber is the exported form of the number formatting rule, shared by
// the evaluator's String() builtin and string concatenation.
func FormatNumber(f float64) string {
	return formatNumber(f)
}
