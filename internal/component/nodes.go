package component

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/slotkit/internal/expr"
	"github.com/specialistvlad/slotkit/internal/renderpath"
	"github.com/specialistvlad/slotkit/internal/scope"
	"github.com/specialistvlad/slotkit/internal/template"
	"github.com/zclconf/go-cty/cty"
)

// SlotNode is `{% slot NAME [default] [required] [key=value ...] %}`.
type SlotNode struct {
	Name     *expr.Expr
	Default  bool
	Required bool
	// Data holds the keyword and spread arguments passed to the fill.
	Data     expr.Args
	Fallback template.NodeList
	Pos      template.Pos
}

// Render resolves the slot against the fills of the component whose
// template is rendering.
func (n *SlotNode) Render(ctx context.Context, sc *scope.Scope) (string, error) {
	inst := currentInstance(ctx)
	if inst == nil {
		return "", &ConfigError{Slot: n.Name.Source, Msg: fmt.Sprintf("slot tag at %s is not inside a component template", n.Pos)}
	}
	name, err := evalName(n.Name, sc)
	if err != nil {
		return "", fmt.Errorf("%s: slot %w", n.Pos, err)
	}
	return inst.renderSlot(ctx, sc, slotSite{
		name:       name,
		isDefault:  n.Default,
		isRequired: n.Required,
		data: func(sc *scope.Scope) (map[string]cty.Value, error) {
			_, kwargs, err := n.Data.Eval(sc)
			if err != nil {
				return nil, fmt.Errorf("%s: slot data: %w", n.Pos, err)
			}
			return kwargs, nil
		},
		fallback: n.Fallback,
	})
}

// Children implements template.Parent.
func (n *SlotNode) Children() []template.NodeList {
	return []template.NodeList{n.Fallback}
}

// FillNode is `{% fill NAME [data=VAR] [fallback=VAR] %}`. `default=VAR` is
// an alias of fallback.
type FillNode struct {
	Name *expr.Expr
	Args expr.Args
	Body template.NodeList
	Pos  template.Pos
}

// Render registers the fill with the enclosing component tag and outputs
// nothing.
func (n *FillNode) Render(ctx context.Context, sc *scope.Scope) (string, error) {
	c := collectorFrom(ctx)
	if c == nil {
		return "", &ConfigError{Slot: n.Name.Source, Msg: fmt.Sprintf("fill tag at %s is not directly inside a component tag", n.Pos)}
	}
	f, err := n.resolve(sc)
	if err != nil {
		return "", &ConfigError{Component: c.component, Slot: n.Name.Source, Msg: fmt.Sprintf("%s: %v", n.Pos, err)}
	}
	f.scope = sc
	f.owner = currentInstance(ctx)
	c.fills = append(c.fills, f)
	return "", nil
}

func (n *FillNode) resolve(sc *scope.Scope) (*Fill, error) {
	name, err := evalName(n.Name, sc)
	if err != nil {
		return nil, err
	}
	opts := make(map[string]string)
	for _, arg := range n.Args {
		switch arg.Kind {
		case expr.Keyword:
			opts[arg.Key], _ = bindingName(arg)
		case expr.Spread:
			v, err := arg.Expr.Eval(sc)
			if err != nil {
				return nil, err
			}
			m, ok := expr.AsMap(v)
			if !ok {
				return nil, fmt.Errorf("spread %q: expected an object", arg.Raw)
			}
			for k, v := range m {
				if k == "name" {
					name = expr.String(v)
					continue
				}
				if !fillOptions[k] {
					return nil, fmt.Errorf("unknown fill option %q", k)
				}
				opts[k] = expr.String(v)
			}
		}
	}

	fallback := opts["fallback"]
	if alias := opts["default"]; alias != "" {
		if fallback != "" && fallback != alias {
			return nil, fmt.Errorf("fallback=%q and default=%q are aliases, give only one", fallback, alias)
		}
		fallback = alias
	}
	data := opts["data"]
	if data != "" && data == fallback {
		return nil, fmt.Errorf("data and fallback bind the same variable %q", data)
	}
	if name == "" {
		return nil, fmt.Errorf("fill name must not be empty")
	}
	return &Fill{
		Target:      TargetName(name),
		Content:     Fragment{Nodes: n.Body},
		DataVar:     data,
		FallbackVar: fallback,
	}, nil
}

// Children implements template.Parent.
func (n *FillNode) Children() []template.NodeList {
	return []template.NodeList{n.Body}
}

// ComponentNode is `{% component NAME args... %}…{% endcomponent %}`.
type ComponentNode struct {
	Name *expr.Expr
	Args expr.Args
	Body template.NodeList
	Pos  template.Pos

	explicitFills bool
}

// Render renders the named component with the tag's arguments and fills.
func (n *ComponentNode) Render(ctx context.Context, sc *scope.Scope) (string, error) {
	st, ok := stateFrom(ctx)
	if !ok {
		return "", fmt.Errorf("%s: component tag rendered outside of a component render call", n.Pos)
	}
	name, err := evalName(n.Name, sc)
	if err != nil {
		return "", fmt.Errorf("%s: component %w", n.Pos, err)
	}
	def, ok := st.reg.Get(name)
	if !ok {
		return "", &ConfigError{Component: name, Msg: fmt.Sprintf("unknown component (used at %s)", n.Pos)}
	}

	positional, kwargs, err := n.Args.Eval(sc)
	if err != nil {
		return "", withSegment(fmt.Errorf("%s: %w", n.Pos, err), renderpath.NewComponent(name))
	}
	fills, err := n.collectFills(ctx, sc, name)
	if err != nil {
		return "", withSegment(err, renderpath.NewComponent(name))
	}
	return st.renderComponent(ctx, call{
		def:    def,
		args:   positional,
		kwargs: kwargs,
		fills:  fills,
		caller: sc,
	})
}

// collectFills gathers the fills passed by the tag body. A body without fill
// tags becomes the implicit default fill, unless it is blank.
func (n *ComponentNode) collectFills(ctx context.Context, sc *scope.Scope, name string) ([]*Fill, error) {
	if !n.explicitFills {
		if n.Body.IsBlank() {
			return nil, nil
		}
		return []*Fill{{
			Target:   TargetDefault(),
			Content:  Fragment{Nodes: n.Body},
			Implicit: true,
			scope:    sc,
			owner:    currentInstance(ctx),
		}}, nil
	}

	c := &fillCollector{component: name}
	out, err := n.Body.Render(withCollector(ctx, c), sc)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(out) != "" {
		return nil, &ConfigError{Component: name, Msg: fmt.Sprintf("illegal content mixed with explicit fill tags at %s", n.Pos)}
	}
	return c.fills, nil
}

// Children implements template.Parent.
func (n *ComponentNode) Children() []template.NodeList {
	return []template.NodeList{n.Body}
}
