package functions

import (
	"fmt"

	"github.com/jason-crow/cesium/pkg/types"
)

func init() {
	register(&Definition{Name: "color", MinArgs: 0, MaxArgs: 2, Eval: evalColor})
	register(&Definition{Name: "rgb", MinArgs: 3, MaxArgs: 3, Eval: evalRGB})
	register(&Definition{Name: "rgba", MinArgs: 4, MaxArgs: 4, Eval: evalRGBA})
	register(&Definition{Name: "hsl", MinArgs: 3, MaxArgs: 3, Eval: evalHSL})
	register(&Definition{Name: "hsla", MinArgs: 4, MaxArgs: 4, Eval: evalHSLA})
}

// evalColor implements color(), color(keywordOrHex) and
// color(keywordOrHex, alpha).
func evalColor(args []any) (any, error) {
	if len(args) == 0 {
		return types.Color{R: 1, G: 1, B: 1, A: 1}, nil
	}

	s, err := stringArg("color", args, 0)
	if err != nil {
		return nil, err
	}
	c, ok := types.ColorFromString(s)
	if !ok {
		return nil, types.NewError(types.ErrArgumentType,
			fmt.Sprintf("color() does not recognize %q", s), -1)
	}

	if len(args) == 2 {
		a, err := numberArg("color", args, 1)
		if err != nil {
			return nil, err
		}
		if err := checkRange("color", "alpha", a, 0, 1); err != nil {
			return nil, err
		}
		c.A = a
	}
	return c, nil
}

// evalRGB implements rgb(r, g, b) with components in [0, 255].
func evalRGB(args []any) (any, error) {
	c, err := rgbComponents("rgb", args)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// evalRGBA implements rgba(r, g, b, a): rgb components in [0, 255],
// alpha in [0, 1].
func evalRGBA(args []any) (any, error) {
	c, err := rgbComponents("rgba", args[:3])
	if err != nil {
		return nil, err
	}
	a, err := numberArg("rgba", args, 3)
	if err != nil {
		return nil, err
	}
	if err := checkRange("rgba", "alpha", a, 0, 1); err != nil {
		return nil, err
	}
	c.A = a
	return c, nil
}

// evalHSL implements hsl(h, s, l) with all components in [0, 1].
func evalHSL(args []any) (any, error) {
	return hslColor("hsl", args, 1)
}

// evalHSLA implements hsla(h, s, l, a) with all components in [0, 1].
func evalHSLA(args []any) (any, error) {
	a, err := numberArg("hsla", args, 3)
	if err != nil {
		return nil, err
	}
	if err := checkRange("hsla", "alpha", a, 0, 1); err != nil {
		return nil, err
	}
	return hslColor("hsla", args[:3], a)
}

func rgbComponents(name string, args []any) (types.Color, error) {
	var comps [3]float64
	for i := range comps {
		f, err := numberArg(name, args, i)
		if err != nil {
			return types.Color{}, err
		}
		if err := checkRange(name, "component", f, 0, 255); err != nil {
			return types.Color{}, err
		}
		comps[i] = f / 255
	}
	return types.Color{R: comps[0], G: comps[1], B: comps[2], A: 1}, nil
}

func hslColor(name string, args []any, alpha float64) (any, error) {
	var comps [3]float64
	for i := range comps {
		f, err := numberArg(name, args, i)
		if err != nil {
			return nil, err
		}
		if err := checkRange(name, "component", f, 0, 1); err != nil {
			return nil, err
		}
		comps[i] = f
	}
	return types.ColorFromHSL(comps[0], comps[1], comps[2], alpha), nil
}

func checkRange(name, what string, f, lo, hi float64) error {
	if f < lo || f > hi {
		return types.NewError(types.ErrComponentOut,
			fmt.Sprintf("%s() %s %v out of range [%v, %v]", name, what, f, lo, hi), -1)
	}
	return nil
}
