package component

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/slotkit/internal/expr"
	"github.com/specialistvlad/slotkit/internal/scope"
	"github.com/specialistvlad/slotkit/internal/template"
	"github.com/zclconf/go-cty/cty"
)

// registerTags adds the component tags to lib.
func registerTags(lib *template.Library) {
	lib.Register("component", parseComponent)
	lib.Register("slot", parseSlot)
	lib.Register("fill", parseFill)
	lib.Register("provide", parseProvide)
}

// takeName removes the name argument: the first positional, or `name=`.
func takeName(p *template.Parser, tok template.Token, args *expr.Args) (*expr.Expr, error) {
	pos, hasPos := args.TakePositional()
	kw, hasKw := args.Take("name")
	switch {
	case hasPos && hasKw:
		return nil, p.Errorf(tok, "%s: name given both positionally and as name=", tok.TagName())
	case hasPos:
		return pos.Expr, nil
	case hasKw:
		return kw.Expr, nil
	}
	return nil, p.Errorf(tok, "%s: missing name", tok.TagName())
}

// evalName evaluates a tag name expression to a string.
func evalName(e *expr.Expr, sc *scope.Scope) (string, error) {
	if s, ok := e.StaticString(); ok {
		return s, nil
	}
	v, err := e.Eval(sc)
	if err != nil {
		return "", err
	}
	if v.IsNull() || !v.IsKnown() || !v.Type().Equals(cty.String) {
		return "", fmt.Errorf("name %q must evaluate to a string", e.Source)
	}
	return v.AsString(), nil
}

// bindingName reads a variable name given as `data="d"` or `data=d`.
func bindingName(arg expr.Arg) (string, bool) {
	if s, ok := arg.Expr.StaticString(); ok {
		return s, true
	}
	trav, diags := hcl.AbsTraversalForExpr(arg.Expr.Expression)
	if diags.HasErrors() || len(trav) != 1 {
		return "", false
	}
	return trav.RootName(), true
}

func parseSlot(p *template.Parser, tok template.Token) (template.Node, error) {
	args, err := p.Args(tok, "default", "required")
	if err != nil {
		return nil, err
	}
	node := &SlotNode{Pos: p.Pos(tok)}
	node.Default = args.TakeFlag("default")
	node.Required = args.TakeFlag("required")
	if node.Name, err = takeName(p, tok, &args); err != nil {
		return nil, err
	}
	if extra, ok := args.TakePositional(); ok {
		return nil, p.Errorf(tok, "slot: unexpected argument %q", extra.Raw)
	}
	if name, ok := node.Name.StaticString(); ok && !slotNameRegex.MatchString(name) {
		return nil, p.Errorf(tok, "slot: invalid slot name %q", name)
	}
	node.Data = args
	if node.Fallback, err = p.Body(tok); err != nil {
		return nil, err
	}
	return node, nil
}

var fillOptions = map[string]bool{"data": true, "fallback": true, "default": true}

func parseFill(p *template.Parser, tok template.Token) (template.Node, error) {
	args, err := p.Args(tok)
	if err != nil {
		return nil, err
	}
	node := &FillNode{Pos: p.Pos(tok)}
	if node.Name, err = takeName(p, tok, &args); err != nil {
		return nil, err
	}
	for _, arg := range args {
		switch arg.Kind {
		case expr.Keyword:
			if !fillOptions[arg.Key] {
				return nil, p.Errorf(tok, "fill: unknown option %q", arg.Key)
			}
			if _, ok := bindingName(arg); !ok {
				return nil, p.Errorf(tok, "fill: %s must name a variable, got %q", arg.Key, arg.Raw)
			}
		case expr.Positional:
			return nil, p.Errorf(tok, "fill: unexpected argument %q", arg.Raw)
		}
	}
	node.Args = args
	if node.Body, err = p.Body(tok); err != nil {
		return nil, err
	}
	return node, nil
}

func parseComponent(p *template.Parser, tok template.Token) (template.Node, error) {
	args, err := p.Args(tok)
	if err != nil {
		return nil, err
	}
	node := &ComponentNode{Pos: p.Pos(tok)}
	name, ok := args.TakePositional()
	if !ok {
		return nil, p.Errorf(tok, "component: missing component name")
	}
	node.Name = name.Expr
	node.Args = args
	if node.Body, err = p.Body(tok); err != nil {
		return nil, err
	}
	if node.explicitFills, err = checkFillBody(node); err != nil {
		return nil, err
	}
	return node, nil
}

// checkFillBody reports whether the body of a component tag uses explicit
// fill tags, and rejects bodies that mix them with other content.
func checkFillBody(node *ComponentNode) (bool, error) {
	var fills, other int
	var offending string
	template.Walk(node.Body, func(n template.Node) bool {
		switch t := n.(type) {
		case *FillNode:
			fills++
			return false
		case *template.TextNode:
			if strings.TrimSpace(t.Text) != "" {
				other++
				offending = fmt.Sprintf("text %q", t.Text)
			}
		case *template.IfNode, *template.ForNode, *template.WithNode:
		default:
			other++
			offending = fmt.Sprintf("%T", n)
			return false
		}
		return true
	})
	if fills == 0 || other == 0 {
		return fills > 0, nil
	}
	name, _ := node.Name.StaticString()
	return false, &ConfigError{
		Component: name,
		Msg:       fmt.Sprintf("illegal content mixed with explicit fill tags at %s: %s", node.Pos, offending),
	}
}

func parseProvide(p *template.Parser, tok template.Token) (template.Node, error) {
	args, err := p.Args(tok)
	if err != nil {
		return nil, err
	}
	key, ok := args.TakePositional()
	if !ok {
		return nil, p.Errorf(tok, "provide: missing key")
	}
	if extra, ok := args.TakePositional(); ok {
		return nil, p.Errorf(tok, "provide: unexpected argument %q", extra.Raw)
	}
	body, err := p.Body(tok)
	if err != nil {
		return nil, err
	}
	return &ProvideNode{Key: key.Expr, Values: args, Body: body, Pos: p.Pos(tok)}, nil
}
