package printer

import (
	"regexp"
	"strings"

	"github.com/roach88/iogen/internal/ir"
)

// indent returns the leading whitespace for nesting level n.
func indent(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("  ", n)
}

var stringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
)

// escapeString quotes s as a single-quoted string literal.
func escapeString(s string) string {
	return "'" + stringEscaper.Replace(s) + "'"
}

var safeKey = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// escapeKey prints a property key bare when it is identifier-safe and
// quoted otherwise.
func escapeKey(key string) string {
	if safeKey.MatchString(key) {
		return key
	}
	return escapeString(key)
}

// withName appends the optional runtime name argument.
func withName(s, name string) string {
	if name == "" {
		return s
	}
	return s + ", " + escapeString(name)
}

// description prints a doc comment line at level i, or nothing.
func description(d string, i int) string {
	if d == "" {
		return ""
	}
	return indent(i) + "/** " + strings.ReplaceAll(d, "*/", "*\\/") + " */\n"
}

// splitOptional partitions properties by their optional flag, keeping
// relative order within each side.
func splitOptional(props []ir.Property) (required, optional []ir.Property) {
	for _, p := range props {
		if p.Optional {
			optional = append(optional, p)
		} else {
			required = append(required, p)
		}
	}
	return required, optional
}

// literal prints a literal value. It is identical on both sides.
func literal(l ir.Literal) string {
	switch l.Kind {
	case ir.LiteralNumber:
		return ir.FormatNumber(l.NumberValue)
	case ir.LiteralBoolean:
		if l.BoolValue {
			return "true"
		}
		return "false"
	default:
		return escapeString(l.StringValue)
	}
}

// exportPrefix returns "export " for exported declarations.
func exportPrefix(exported bool) string {
	if exported {
		return "export "
	}
	return ""
}
