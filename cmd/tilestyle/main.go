// Command tilestyle validates, evaluates, and shader-compiles 3D Tiles
// styling expressions and documents from the command line.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/goccy/go-yaml"

	"github.com/jason-crow/cesium"
	"github.com/jason-crow/cesium/pkg/shader"
	"github.com/jason-crow/cesium/pkg/style"
	"github.com/jason-crow/cesium/pkg/types"
)

// Context carries global flags to commands.
type Context struct {
	Verbose bool
}

// CheckCmd validates a style document without evaluating it.
type CheckCmd struct {
	Path string `arg:"" help:"Style document path or http(s) URL"`
}

func (cmd *CheckCmd) Run(ctx *Context) error {
	st := cesium.LoadStyle(context.Background(), cmd.Path)
	<-st.Done()
	if err := st.Err(); err != nil {
		color.Red("invalid: %v", err)
		os.Exit(1)
	}
	color.Green("%s is a valid style document", cmd.Path)
	return nil
}

// EvalCmd compiles an expression and evaluates it against feature
// attributes supplied inline or from a file.
type EvalCmd struct {
	Expression string            `arg:"" help:"Styling expression source"`
	Properties string            `help:"YAML/JSON file of feature attributes" short:"f" type:"existingfile"`
	Set        map[string]string `help:"Inline feature attributes (name=value, value parsed as YAML scalar)" short:"p"`
	Defines    map[string]string `help:"Textual defines substituted before parsing" short:"d"`
}

func (cmd *EvalCmd) Run(ctx *Context) error {
	feature, err := cmd.feature()
	if err != nil {
		return err
	}

	expr, err := cesium.CompileExpression(cmd.Expression, style.WithDefines(cmd.Defines))
	if err != nil {
		color.Red("compile error: %v", err)
		os.Exit(1)
	}

	v, err := expr.Evaluate(&types.FrameState{}, feature)
	if err != nil {
		color.Red("evaluation error: %v", err)
		os.Exit(1)
	}
	if v == nil {
		fmt.Println("undefined")
		return nil
	}
	fmt.Println(types.Stringify(v))
	return nil
}

func (cmd *EvalCmd) feature() (types.MapFeature, error) {
	feature := types.MapFeature{}
	if cmd.Properties != "" {
		data, err := os.ReadFile(cmd.Properties)
		if err != nil {
			return nil, err
		}
		var props map[string]any
		if err := yaml.Unmarshal(data, &props); err != nil {
			return nil, fmt.Errorf("cannot decode %s: %w", cmd.Properties, err)
		}
		for k, v := range props {
			feature[k] = v
		}
	}
	for name, raw := range cmd.Set {
		var v any
		if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		feature[name] = v
	}
	return feature, nil
}

// ShaderCmd compiles an expression to a GLSL shader function.
type ShaderCmd struct {
	Expression string            `arg:"" help:"Styling expression source"`
	Name       string            `help:"Generated function name" default:"getValue"`
	Prefix     string            `help:"Attribute variable prefix" default:"czm_"`
	ReturnType string            `help:"GLSL return type" enum:"float,bool,vec2,vec3,vec4" default:"vec4"`
	Defines    map[string]string `help:"Textual defines substituted before parsing" short:"d"`
}

func (cmd *ShaderCmd) Run(ctx *Context) error {
	expr, err := cesium.CompileExpression(cmd.Expression, style.WithDefines(cmd.Defines))
	if err != nil {
		color.Red("compile error: %v", err)
		os.Exit(1)
	}

	var state shader.State
	src, ok := expr.ShaderFunction(cmd.Name, cmd.Prefix, &state, cmd.ReturnType)
	if !ok {
		color.Yellow("expression has no GPU form; it must be evaluated on the CPU")
		os.Exit(1)
	}
	fmt.Print(src)
	if ctx.Verbose && state.Translucent {
		fmt.Fprintln(os.Stderr, "note: expression produces translucent output")
	}
	return nil
}

// VersionCmd prints the module version.
type VersionCmd struct{}

func (cmd *VersionCmd) Run(ctx *Context) error {
	fmt.Printf("tilestyle %s\n", strings.TrimSuffix(cesium.Version(), "-dev"))
	return nil
}

var CLI struct {
	Verbose bool       `help:"Enable verbose output" short:"v"`
	Check   CheckCmd   `cmd:"" help:"Validate a style document"`
	Eval    EvalCmd    `cmd:"" help:"Evaluate an expression against feature attributes"`
	Shader  ShaderCmd  `cmd:"" help:"Compile an expression to a GLSL function"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

func main() {
	ctx := kong.Parse(&CLI)
	err := ctx.Run(&Context{Verbose: CLI.Verbose})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
