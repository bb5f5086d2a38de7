// Package shader translates the compilable subset of styling expressions
// into GLSL source for GPU-side batch evaluation.
//
// Only constructs with a single-expression GLSL equivalent are lowered:
// arithmetic, relational, equality and logical operators, the ternary,
// number and boolean literals, attribute references (rewritten to prefixed
// variable names), component access, and an allowlist of builtins. Regexps,
// strings, String() coercion and method calls have no GPU equivalent; an
// expression containing any of them is not compilable and the caller falls
// back to CPU-side per-feature evaluation.
package shader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jason-crow/cesium/pkg/functions"
	"github.com/jason-crow/cesium/pkg/types"
)

// State accumulates facts about a single compilation pass. It is not reused
// across compilations.
type State struct {
	// Translucent is set when any alpha-affecting construct was lowered
	// (rgba, hsla, color with an alpha argument, vec4 with a non-1 alpha);
	// the renderer uses it to place features in the translucent pass.
	Translucent bool
}

// errNotCompilable builds the sentinel error for constructs with no GLSL
// equivalent.
func errNotCompilable(what string, pos int) error {
	return types.NewError(types.ErrNotCompilable, what+" is not supported in shader expressions", pos)
}

// IsNotCompilable reports whether err marks an expression as merely not
// compilable, as opposed to structurally broken.
func IsNotCompilable(err error) bool {
	return types.IsCode(err, types.ErrNotCompilable)
}

// Function compiles an expression into a complete GLSL function of the
// given return type:
//
//	returnType functionName()
//	{
//	    return <expression>;
//	}
//
// Attribute references compile to attributePrefix + attributeName.
func Function(functionName, attributePrefix string, expr *types.Expression, state *State, returnType string) (string, error) {
	body, err := Lower(expr.AST(), attributePrefix, state)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s()\n{\n    return %s;\n}\n", returnType, functionName, body), nil
}

// Lower recursively lowers an AST node into a GLSL expression fragment.
func Lower(node *types.ASTNode, prefix string, state *State) (string, error) {
	switch node.Type {
	case types.NodeNumber:
		return glslFloat(node.NumValue), nil
	case types.NodeBoolean:
		return strconv.FormatBool(node.BoolVal), nil
	case types.NodeString:
		return "", errNotCompilable("string value", node.Position)
	case types.NodeNull:
		return "", errNotCompilable("null", node.Position)
	case types.NodeUndefined:
		return "", errNotCompilable("undefined", node.Position)
	case types.NodeVariable:
		return prefix + node.StrValue, nil
	case types.NodeUnary:
		operand, err := Lower(node.LHS, prefix, state)
		if err != nil {
			return "", err
		}
		return "(" + node.StrValue + operand + ")", nil
	case types.NodeBinary:
		return lowerBinary(node, prefix, state)
	case types.NodeTernary:
		cond, err := Lower(node.LHS, prefix, state)
		if err != nil {
			return "", err
		}
		thenExpr, err := Lower(node.RHS, prefix, state)
		if err != nil {
			return "", err
		}
		elseExpr, err := Lower(node.Else, prefix, state)
		if err != nil {
			return "", err
		}
		return "(" + cond + " ? " + thenExpr + " : " + elseExpr + ")", nil
	case types.NodeArray:
		if n := len(node.Arguments); n >= 2 && n <= 4 {
			args, err := lowerAll(node.Arguments, prefix, state)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("vec%d(%s)", n, strings.Join(args, ", ")), nil
		}
		return "", errNotCompilable("array of this arity", node.Position)
	case types.NodeMember:
		return lowerMember(node, prefix, state)
	case types.NodeIndex:
		return lowerIndex(node, prefix, state)
	case types.NodeCall:
		return lowerCall(node, prefix, state)
	case types.NodeMethod:
		return "", errNotCompilable("method call", node.Position)
	default:
		return "", errNotCompilable(string(node.Type), node.Position)
	}
}

// glslBinaryOps maps language operators to their GLSL spelling.
var glslBinaryOps = map[string]string{
	"+": "+", "-": "-", "*": "*", "/": "/",
	"<": "<", "<=": "<=", ">": ">", ">=": ">=",
	"===": "==", "!==": "!=",
	"&&": "&&", "||": "||",
}

func lowerBinary(node *types.ASTNode, prefix string, state *State) (string, error) {
	left, err := Lower(node.LHS, prefix, state)
	if err != nil {
		return "", err
	}
	right, err := Lower(node.RHS, prefix, state)
	if err != nil {
		return "", err
	}

	if node.StrValue == "%" {
		return "mod(" + left + ", " + right + ")", nil
	}
	op, ok := glslBinaryOps[node.StrValue]
	if !ok {
		return "", errNotCompilable("operator "+node.StrValue, node.Position)
	}
	return "(" + left + " " + op + " " + right + ")", nil
}

// glslMembers is the set of component names valid as GLSL swizzles.
var glslMembers = map[string]bool{
	"x": true, "y": true, "z": true, "w": true,
	"r": true, "g": true, "b": true, "a": true,
}

func lowerMember(node *types.ASTNode, prefix string, state *State) (string, error) {
	if !glslMembers[node.StrValue] {
		return "", errNotCompilable("member "+node.StrValue, node.Position)
	}
	recv, err := Lower(node.LHS, prefix, state)
	if err != nil {
		return "", err
	}
	return recv + "." + node.StrValue, nil
}

func lowerIndex(node *types.ASTNode, prefix string, state *State) (string, error) {
	// Only constant indices are portable across GLSL versions.
	if node.RHS.Type != types.NodeNumber {
		return "", errNotCompilable("computed index", node.Position)
	}
	recv, err := Lower(node.LHS, prefix, state)
	if err != nil {
		return "", err
	}
	return recv + "[" + strconv.Itoa(int(node.RHS.NumValue)) + "]", nil
}

func lowerCall(node *types.ASTNode, prefix string, state *State) (string, error) {
	name := node.StrValue

	switch name {
	case "color":
		return lowerColor(node, prefix, state)
	case "rgb", "rgba":
		return lowerRGB(node, prefix, state)
	case "hsl", "hsla":
		return lowerHSL(node, prefix, state)
	case "vec2", "vec3", "vec4":
		args, err := lowerAll(node.Arguments, prefix, state)
		if err != nil {
			return "", err
		}
		if name == "vec4" {
			markVec4Alpha(node, state)
		}
		return name + "(" + strings.Join(args, ", ") + ")", nil
	case "Boolean":
		if len(node.Arguments) == 0 {
			return "false", nil
		}
		arg, err := Lower(node.Arguments[0], prefix, state)
		if err != nil {
			return "", err
		}
		return "bool(" + arg + ")", nil
	case "Number":
		if len(node.Arguments) == 0 {
			return "0.0", nil
		}
		arg, err := Lower(node.Arguments[0], prefix, state)
		if err != nil {
			return "", err
		}
		return "float(" + arg + ")", nil
	case "round":
		arg, err := Lower(node.Arguments[0], prefix, state)
		if err != nil {
			return "", err
		}
		return "floor(" + arg + " + 0.5)", nil
	}

	def, ok := functions.Lookup(name)
	if !ok || def.GLSL == "" {
		return "", errNotCompilable(name+"()", node.Position)
	}
	args, err := lowerAll(node.Arguments, prefix, state)
	if err != nil {
		return "", err
	}
	return def.GLSL + "(" + strings.Join(args, ", ") + ")", nil
}

// lowerColor handles color(), color(keywordOrHex) and
// color(keywordOrHex, alpha). The color string must be a literal so it can
// be resolved at compile time.
func lowerColor(node *types.ASTNode, prefix string, state *State) (string, error) {
	if len(node.Arguments) == 0 {
		return "vec4(1.0)", nil
	}
	if node.Arguments[0].Type != types.NodeString {
		return "", errNotCompilable("color() with computed name", node.Position)
	}
	c, ok := types.ColorFromString(node.Arguments[0].StrValue)
	if !ok {
		return "", types.NewError(types.ErrArgumentType,
			fmt.Sprintf("color() does not recognize %q", node.Arguments[0].StrValue), node.Position)
	}

	rgb := glslFloat(c.R) + ", " + glslFloat(c.G) + ", " + glslFloat(c.B)
	if len(node.Arguments) == 1 {
		return "vec4(" + rgb + ", 1.0)", nil
	}

	alpha, err := Lower(node.Arguments[1], prefix, state)
	if err != nil {
		return "", err
	}
	state.Translucent = true
	return "vec4(" + rgb + ", " + alpha + ")", nil
}

// lowerRGB handles rgb() and rgba(); components are scaled from [0, 255]
// into [0, 1] in the generated code.
func lowerRGB(node *types.ASTNode, prefix string, state *State) (string, error) {
	args, err := lowerAll(node.Arguments, prefix, state)
	if err != nil {
		return "", err
	}
	for i := 0; i < 3; i++ {
		args[i] = "(" + args[i] + ") / 255.0"
	}
	if node.StrValue == "rgb" {
		return "vec4(" + strings.Join(args, ", ") + ", 1.0)", nil
	}
	state.Translucent = true
	return "vec4(" + strings.Join(args, ", ") + ")", nil
}

// lowerHSL handles hsl() and hsla(). Literal arguments fold to a constant
// color; computed ones defer to the czm_HSLToRGB shader builtin.
func lowerHSL(node *types.ASTNode, prefix string, state *State) (string, error) {
	if node.StrValue == "hsla" {
		state.Translucent = true
	}

	if allNumbers(node.Arguments) {
		c := types.ColorFromHSL(
			node.Arguments[0].NumValue,
			node.Arguments[1].NumValue,
			node.Arguments[2].NumValue, 1)
		alpha := "1.0"
		if len(node.Arguments) == 4 {
			alpha = glslFloat(node.Arguments[3].NumValue)
		}
		return "vec4(" + glslFloat(c.R) + ", " + glslFloat(c.G) + ", " + glslFloat(c.B) + ", " + alpha + ")", nil
	}

	args, err := lowerAll(node.Arguments, prefix, state)
	if err != nil {
		return "", err
	}
	alpha := "1.0"
	if len(args) == 4 {
		alpha = args[3]
	}
	return "vec4(czm_HSLToRGB(vec3(" + strings.Join(args[:3], ", ") + ")), " + alpha + ")", nil
}

// markVec4Alpha flags translucency unless the trailing component, which
// supplies the alpha channel, is the literal 1.
func markVec4Alpha(node *types.ASTNode, state *State) {
	if len(node.Arguments) == 0 {
		state.Translucent = true
		return
	}
	last := node.Arguments[len(node.Arguments)-1]
	if last.Type == types.NodeNumber && last.NumValue == 1 {
		return
	}
	state.Translucent = true
}

func allNumbers(nodes []*types.ASTNode) bool {
	for _, n := range nodes {
		if n.Type != types.NodeNumber {
			return false
		}
	}
	return true
}

func lowerAll(nodes []*types.ASTNode, prefix string, state *State) ([]string, error) {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		s, err := Lower(n, prefix, state)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// glslFloat renders a float literal with an explicit decimal point, as GLSL
// requires for the float type.
func glslFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}
