package parser

import (
	"strings"

	"github.com/jason-crow/cesium/pkg/types"
)

// ExpandDefines performs the pre-parse macro expansion pass over a styling
// expression: every ${name} occurrence whose name appears in the defines
// mapping is replaced by the define's source text, parenthesized so the
// substitution never changes precedence. References whose name is not a
// define are left in place and resolve as feature attributes at evaluation
// time.
//
// Defines may reference other defines; expansion is recursive. A cyclic or
// self-referential define is a parse-time error.
func ExpandDefines(source string, defines map[string]string) (string, error) {
	if len(defines) == 0 || !strings.Contains(source, "${") {
		return source, nil
	}
	return expandDefines(source, defines, make(map[string]bool))
}

func expandDefines(source string, defines map[string]string, active map[string]bool) (string, error) {
	var sb strings.Builder
	sb.Grow(len(source))

	for i := 0; i < len(source); {
		if source[i] != '$' || i+1 >= len(source) || source[i+1] != '{' {
			sb.WriteByte(source[i])
			i++
			continue
		}

		end := strings.IndexByte(source[i+2:], '}')
		if end < 0 {
			// Unterminated reference; keep it verbatim and let the lexer
			// report the position.
			sb.WriteString(source[i:])
			break
		}

		name := source[i+2 : i+2+end]
		body, ok := defines[name]
		if !ok {
			sb.WriteString(source[i : i+3+end])
			i += 3 + end
			continue
		}

		if active[name] {
			return "", types.NewError(types.ErrCyclicDefine,
				"Recursive define "+name, i).WithToken(name)
		}
		active[name] = true
		inner, err := expandDefines(body, defines, active)
		if err != nil {
			return "", err
		}
		delete(active, name)

		sb.WriteByte('(')
		sb.WriteString(inner)
		sb.WriteByte(')')
		i += 3 + end
	}

	return sb.String(), nil
}
