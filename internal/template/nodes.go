package template

import (
	"context"
	"strings"

	"github.com/specialistvlad/slotkit/internal/expr"
	"github.com/specialistvlad/slotkit/internal/scope"
	"github.com/zclconf/go-cty/cty"
)

// TextNode is literal text.
type TextNode struct {
	Text string
}

// Render returns the text unchanged.
func (n *TextNode) Render(context.Context, *scope.Scope) (string, error) {
	return n.Text, nil
}

// VarNode outputs the value of an expression.
type VarNode struct {
	Expr *expr.Expr
	Pos  Pos
}

// Render evaluates the expression. Missing variables and attributes render
// as the empty string.
func (n *VarNode) Render(_ context.Context, sc *scope.Scope) (string, error) {
	v, err := n.Expr.EvalLenient(sc)
	if err != nil {
		return "", n.Pos.wrap(err)
	}
	return expr.String(v), nil
}

// IfNode is `{% if %}…{% elif %}…{% else %}…{% endif %}`.
type IfNode struct {
	Conds  []*expr.Expr
	Bodies []NodeList
	Else   NodeList
	Pos    Pos
}

// Render renders the first branch whose condition is truthy.
func (n *IfNode) Render(ctx context.Context, sc *scope.Scope) (string, error) {
	for i, cond := range n.Conds {
		v, err := cond.EvalLenient(sc)
		if err != nil {
			return "", n.Pos.wrap(err)
		}
		if expr.Truthy(v) {
			return n.Bodies[i].Render(ctx, sc)
		}
	}
	return n.Else.Render(ctx, sc)
}

// Children implements Parent.
func (n *IfNode) Children() []NodeList {
	return append(append([]NodeList{}, n.Bodies...), n.Else)
}

// ForNode is `{% for v in items %}` or `{% for k, v in items %}` with an
// optional `{% empty %}` branch. The body sees a `forloop` object with
// counter, counter0, revcounter, first, last and length.
type ForNode struct {
	Key   string
	Value string
	Iter  *expr.Expr
	Body  NodeList
	Empty NodeList
	Pos   Pos
}

// Render renders the body once per element.
func (n *ForNode) Render(ctx context.Context, sc *scope.Scope) (string, error) {
	v, err := n.Iter.EvalLenient(sc)
	if err != nil {
		return "", n.Pos.wrap(err)
	}
	entries, err := expr.Iterate(v)
	if err != nil {
		return "", n.Pos.wrap(err)
	}
	if len(entries) == 0 {
		return n.Empty.Render(ctx, sc)
	}

	var b strings.Builder
	total := len(entries)
	for i, entry := range entries {
		vars := map[string]cty.Value{
			n.Value: entry.Value,
			"forloop": cty.ObjectVal(map[string]cty.Value{
				"counter":    cty.NumberIntVal(int64(i + 1)),
				"counter0":   cty.NumberIntVal(int64(i)),
				"revcounter": cty.NumberIntVal(int64(total - i)),
				"first":      cty.BoolVal(i == 0),
				"last":       cty.BoolVal(i == total-1),
				"length":     cty.NumberIntVal(int64(total)),
			}),
		}
		if n.Key != "" {
			vars[n.Key] = entry.Key
		}
		out, err := n.Body.Render(ctx, sc.Push(vars))
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

// Children implements Parent.
func (n *ForNode) Children() []NodeList {
	return []NodeList{n.Body, n.Empty}
}

// WithNode is `{% with name=expr ... %}…{% endwith %}`.
type WithNode struct {
	Args expr.Args
	Body NodeList
	Pos  Pos
}

// Render pushes the evaluated bindings for the body.
func (n *WithNode) Render(ctx context.Context, sc *scope.Scope) (string, error) {
	_, kwargs, err := n.Args.Eval(sc)
	if err != nil {
		return "", n.Pos.wrap(err)
	}
	return n.Body.Render(ctx, sc.Push(kwargs))
}

// Children implements Parent.
func (n *WithNode) Children() []NodeList {
	return []NodeList{n.Body}
}
