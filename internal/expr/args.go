package expr

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/specialistvlad/slotkit/internal/scope"
	"github.com/zclconf/go-cty/cty"
)

// ArgKind distinguishes the forms a tag argument can take.
type ArgKind int

const (
	// Positional is a bare expression, e.g. `"card"` or `user.name`.
	Positional ArgKind = iota
	// Keyword is `key=expr`.
	Keyword
	// Spread is `...expr`; expr must evaluate to an object or map.
	Spread
	// Flag is a bare word the tag declared as a flag, e.g. `required`.
	Flag
)

// Arg is a single parsed tag argument.
type Arg struct {
	Kind ArgKind
	Key  string
	Expr *Expr
	Raw  string
}

// Args is the ordered list of arguments of one tag.
type Args []Arg

var kwargRegex = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_:\-]*)=(.+)$`)

// SplitBits splits the inside of a tag into whitespace-separated bits.
// Whitespace inside quotes, parentheses, brackets and braces does not split.
// Single-quoted strings are rewritten as double-quoted ones so that they are
// valid HCL.
func SplitBits(s string) ([]string, error) {
	var (
		bits  []string
		cur   strings.Builder
		depth int
		quote rune
	)
	runes := []rune(s)
	flush := func() {
		if cur.Len() > 0 {
			bits = append(bits, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quote != 0:
			if r == '\\' && i+1 < len(runes) {
				cur.WriteRune(r)
				i++
				cur.WriteRune(runes[i])
				continue
			}
			if r == quote {
				quote = 0
				cur.WriteRune('"')
				continue
			}
			if r == '"' && quote == '\'' {
				cur.WriteString(`\"`)
				continue
			}
			cur.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			cur.WriteRune('"')
		case r == '(' || r == '[' || r == '{':
			depth++
			cur.WriteRune(r)
		case r == ')' || r == ']' || r == '}':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced %q in %q", r, s)
			}
			cur.WriteRune(r)
		case (r == ' ' || r == '\t' || r == '\n' || r == '\r') && depth == 0:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated string in %q", s)
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced brackets in %q", s)
	}
	flush()
	return bits, nil
}

// ParseArgs parses tag bits. Bare identifiers listed in flags become Flag
// arguments; everything else is a positional, keyword or spread expression.
func ParseArgs(bits []string, filename string, line int, flags ...string) (Args, error) {
	isFlag := make(map[string]bool, len(flags))
	for _, f := range flags {
		isFlag[f] = true
	}
	args := make(Args, 0, len(bits))
	for _, bit := range bits {
		switch {
		case strings.HasPrefix(bit, "..."):
			e, err := Parse(bit[3:], filename, line)
			if err != nil {
				return nil, fmt.Errorf("spread %q: %w", bit, err)
			}
			args = append(args, Arg{Kind: Spread, Expr: e, Raw: bit})
		case isFlag[bit]:
			args = append(args, Arg{Kind: Flag, Key: bit, Raw: bit})
		default:
			if m := kwargRegex.FindStringSubmatch(bit); m != nil && !strings.HasPrefix(m[2], "=") {
				e, err := Parse(m[2], filename, line)
				if err != nil {
					return nil, fmt.Errorf("argument %q: %w", m[1], err)
				}
				args = append(args, Arg{Kind: Keyword, Key: m[1], Expr: e, Raw: bit})
				continue
			}
			e, err := Parse(bit, filename, line)
			if err != nil {
				return nil, err
			}
			args = append(args, Arg{Kind: Positional, Expr: e, Raw: bit})
		}
	}
	return args, nil
}

// Take removes the first keyword argument named key and returns it.
func (a *Args) Take(key string) (*Arg, bool) {
	for i, arg := range *a {
		if arg.Kind == Keyword && arg.Key == key {
			*a = append((*a)[:i:i], (*a)[i+1:]...)
			return &arg, true
		}
	}
	return nil, false
}

// TakeFlag removes the flag named key and reports whether it was present.
func (a *Args) TakeFlag(key string) bool {
	for i, arg := range *a {
		if arg.Kind == Flag && arg.Key == key {
			*a = append((*a)[:i:i], (*a)[i+1:]...)
			return true
		}
	}
	return false
}

// TakePositional removes and returns the first positional argument.
func (a *Args) TakePositional() (*Arg, bool) {
	for i, arg := range *a {
		if arg.Kind == Positional {
			*a = append((*a)[:i:i], (*a)[i+1:]...)
			return &arg, true
		}
	}
	return nil, false
}

// Eval evaluates the arguments against sc. Keyword and spread arguments are
// merged left to right into kwargs, later keys winning.
func (a Args) Eval(sc *scope.Scope) (positional []cty.Value, kwargs map[string]cty.Value, err error) {
	kwargs = make(map[string]cty.Value)
	for _, arg := range a {
		switch arg.Kind {
		case Positional:
			v, err := arg.Expr.Eval(sc)
			if err != nil {
				return nil, nil, err
			}
			positional = append(positional, v)
		case Keyword:
			v, err := arg.Expr.Eval(sc)
			if err != nil {
				return nil, nil, err
			}
			kwargs[arg.Key] = v
		case Spread:
			v, err := arg.Expr.Eval(sc)
			if err != nil {
				return nil, nil, err
			}
			m, ok := AsMap(v)
			if !ok {
				return nil, nil, fmt.Errorf("spread %q: expected an object or map, got %s", arg.Raw, v.Type().FriendlyName())
			}
			for k, val := range m {
				kwargs[k] = val
			}
		}
	}
	return positional, kwargs, nil
}
