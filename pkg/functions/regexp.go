package functions

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jason-crow/cesium/pkg/types"
)

func init() {
	register(&Definition{Name: "regExp", MinArgs: 0, MaxArgs: 2, Eval: evalRegExp})
}

// evalRegExp implements regExp(), regExp(pattern) and
// regExp(pattern, flags). Flags use the JavaScript letters i, m and s and
// are translated to a Go (?ims) prefix. The pattern is compiled each time
// the builtin is evaluated; the engine keeps no cross-call cache.
func evalRegExp(args []any) (any, error) {
	pattern := ""
	flags := ""

	if len(args) >= 1 {
		s, err := stringArg("regExp", args, 0)
		if err != nil {
			return nil, err
		}
		pattern = s
	}
	if len(args) == 2 {
		s, err := stringArg("regExp", args, 1)
		if err != nil {
			return nil, err
		}
		flags = s
	}

	goPattern := pattern
	if flags != "" {
		for _, f := range flags {
			if !strings.ContainsRune("ims", f) {
				return nil, types.NewError(types.ErrBadRegexp,
					fmt.Sprintf("regExp() unknown flag %q", string(f)), -1)
			}
		}
		goPattern = "(?" + flags + ")" + pattern
	}

	re, err := regexp.Compile(goPattern)
	if err != nil {
		return nil, types.NewError(types.ErrBadRegexp,
			fmt.Sprintf("regExp() invalid pattern %q", pattern), -1).WithCause(err)
	}

	return &types.Regexp{Source: pattern, Flags: flags, Re: re}, nil
}
