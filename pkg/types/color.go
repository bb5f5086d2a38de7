package types

import (
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// colorKeywords maps CSS color keywords to their hex form. The table covers
// the CSS3 extended keyword set used by tileset style documents.
var colorKeywords = map[string]string{
	"aliceblue":      "#f0f8ff",
	"antiquewhite":   "#faebd7",
	"aqua":           "#00ffff",
	"aquamarine":     "#7fffd4",
	"azure":          "#f0ffff",
	"beige":          "#f5f5dc",
	"black":          "#000000",
	"blue":           "#0000ff",
	"blueviolet":     "#8a2be2",
	"brown":          "#a52a2a",
	"cadetblue":      "#5f9ea0",
	"chartreuse":     "#7fff00",
	"chocolate":      "#d2691e",
	"coral":          "#ff7f50",
	"cornflowerblue": "#6495ed",
	"crimson":        "#dc143c",
	"cyan":           "#00ffff",
	"darkblue":       "#00008b",
	"darkcyan":       "#008b8b",
	"darkgray":       "#a9a9a9",
	"darkgreen":      "#006400",
	"darkgrey":       "#a9a9a9",
	"darkmagenta":    "#8b008b",
	"darkorange":     "#ff8c00",
	"darkred":        "#8b0000",
	"darkslategray":  "#2f4f4f",
	"darkviolet":     "#9400d3",
	"deeppink":       "#ff1493",
	"deepskyblue":    "#00bfff",
	"dimgray":        "#696969",
	"dodgerblue":     "#1e90ff",
	"firebrick":      "#b22222",
	"forestgreen":    "#228b22",
	"fuchsia":        "#ff00ff",
	"gainsboro":      "#dcdcdc",
	"gold":           "#ffd700",
	"goldenrod":      "#daa520",
	"gray":           "#808080",
	"green":          "#008000",
	"greenyellow":    "#adff2f",
	"grey":           "#808080",
	"hotpink":        "#ff69b4",
	"indianred":      "#cd5c5c",
	"indigo":         "#4b0082",
	"ivory":          "#fffff0",
	"khaki":          "#f0e68c",
	"lavender":       "#e6e6fa",
	"lawngreen":      "#7cfc00",
	"lightblue":      "#add8e6",
	"lightcoral":     "#f08080",
	"lightcyan":      "#e0ffff",
	"lightgray":      "#d3d3d3",
	"lightgreen":     "#90ee90",
	"lightgrey":      "#d3d3d3",
	"lightpink":      "#ffb6c1",
	"lightsalmon":    "#ffa07a",
	"lightseagreen":  "#20b2aa",
	"lightskyblue":   "#87cefa",
	"lightyellow":    "#ffffe0",
	"lime":           "#00ff00",
	"limegreen":      "#32cd32",
	"linen":          "#faf0e6",
	"magenta":        "#ff00ff",
	"maroon":         "#800000",
	"midnightblue":   "#191970",
	"mintcream":      "#f5fffa",
	"mistyrose":      "#ffe4e1",
	"navy":           "#000080",
	"olive":          "#808000",
	"orange":         "#ffa500",
	"orangered":      "#ff4500",
	"orchid":         "#da70d6",
	"peru":           "#cd853f",
	"pink":           "#ffc0cb",
	"plum":           "#dda0dd",
	"powderblue":     "#b0e0e6",
	"purple":         "#800080",
	"red":            "#ff0000",
	"rosybrown":      "#bc8f8f",
	"royalblue":      "#4169e1",
	"saddlebrown":    "#8b4513",
	"salmon":         "#fa8072",
	"sandybrown":     "#f4a460",
	"seagreen":       "#2e8b57",
	"sienna":         "#a0522d",
	"silver":         "#c0c0c0",
	"skyblue":        "#87ceeb",
	"slateblue":      "#6a5acd",
	"slategray":      "#708090",
	"snow":           "#fffafa",
	"springgreen":    "#00ff7f",
	"steelblue":      "#4682b4",
	"tan":            "#d2b48c",
	"teal":           "#008080",
	"thistle":        "#d8bfd8",
	"tomato":         "#ff6347",
	"turquoise":      "#40e0d0",
	"violet":         "#ee82ee",
	"wheat":          "#f5deb3",
	"white":          "#ffffff",
	"whitesmoke":     "#f5f5f5",
	"yellow":         "#ffff00",
	"yellowgreen":    "#9acd32",
}

// ColorFromString resolves a CSS color keyword or a #rgb/#rrggbb hex string
// to a Color with full opacity. Matching is case-insensitive.
func ColorFromString(s string) (Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if hex, ok := colorKeywords[s]; ok {
		s = hex
	}
	if !strings.HasPrefix(s, "#") {
		return Color{}, false
	}
	// Expand the short #rgb form; colorful.Hex only accepts #rrggbb.
	if len(s) == 4 {
		s = "#" + strings.Repeat(string(s[1]), 2) +
			strings.Repeat(string(s[2]), 2) +
			strings.Repeat(string(s[3]), 2)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, false
	}
	return Color{R: c.R, G: c.G, B: c.B, A: 1}, true
}

// ColorFromHSL converts hue, saturation and lightness in [0, 1] to an RGB
// Color with the given alpha.
func ColorFromHSL(h, s, l, a float64) Color {
	c := colorful.Hsl(h*360, s, l)
	return Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B), A: a}
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
