package component

import (
	"context"
	"fmt"

	"github.com/specialistvlad/slotkit/internal/arena"
	"github.com/specialistvlad/slotkit/internal/ctxlog"
	"github.com/specialistvlad/slotkit/internal/expr"
	"github.com/specialistvlad/slotkit/internal/scope"
	"github.com/specialistvlad/slotkit/internal/template"
)

// provider is one link of the provider chain. The provided values live in
// the render arena under handle.
type provider struct {
	key    string
	handle arena.Handle
	parent *provider
}

func withProvider(ctx context.Context, p *provider) context.Context {
	return context.WithValue(ctx, providerKey{}, p)
}

func providerFrom(ctx context.Context) *provider {
	p, _ := ctx.Value(providerKey{}).(*provider)
	return p
}

// ProvideNode is `{% provide "key" name=value ... %}…{% endprovide %}`.
// Components rendered in its body can read the values with Input.Inject.
type ProvideNode struct {
	Key    *expr.Expr
	Values expr.Args
	Body   template.NodeList
	Pos    template.Pos
}

// Render publishes the values for the duration of the body.
func (n *ProvideNode) Render(ctx context.Context, sc *scope.Scope) (string, error) {
	st, ok := stateFrom(ctx)
	if !ok {
		return "", fmt.Errorf("%s: provide tag rendered outside of a component render call", n.Pos)
	}
	key, err := evalName(n.Key, sc)
	if err != nil {
		return "", fmt.Errorf("%s: provide %w", n.Pos, err)
	}
	if key == "" {
		return "", &ConfigError{Msg: fmt.Sprintf("provide key at %s must not be empty", n.Pos)}
	}
	_, values, err := n.Values.Eval(sc)
	if err != nil {
		return "", fmt.Errorf("%s: provide %q: %w", n.Pos, key, err)
	}

	h := st.arena.Alloc()
	st.arena.Set(arena.Provides, h, expr.ToValue(values))
	defer st.arena.Release(h)
	ctxlog.FromContext(ctx).Debug("Providing values.", "key", key, "handle", h.ID())

	ctx = withProvider(ctx, &provider{key: key, handle: h, parent: providerFrom(ctx)})
	return n.Body.Render(ctx, sc)
}

// Children implements template.Parent.
func (n *ProvideNode) Children() []template.NodeList {
	return []template.NodeList{n.Body}
}
