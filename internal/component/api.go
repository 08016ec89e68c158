package component

import (
	"context"
	"fmt"
	"sort"

	"github.com/specialistvlad/slotkit/internal/arena"
	"github.com/specialistvlad/slotkit/internal/ctxlog"
	"github.com/specialistvlad/slotkit/internal/deps"
	"github.com/specialistvlad/slotkit/internal/expr"
	"github.com/specialistvlad/slotkit/internal/scope"
	"github.com/zclconf/go-cty/cty"
)

// RenderOptions are the inputs of a top-level render.
type RenderOptions struct {
	Args   []any
	Kwargs map[string]any
	// Slots maps slot names to a string, a func(SlotContext) (string, error),
	// a FillContent or a *Fill.
	Slots map[string]any
	// Context is the root context of the render.
	Context map[string]any

	// Deps and Behavior override the registry settings when set.
	Deps     deps.Strategy
	Behavior ContextBehavior

	// Inspect is called with the render arena once rendering finished, just
	// before the arena is dropped.
	Inspect func(*arena.Arena)
}

// Render renders the component registered under name.
func Render(ctx context.Context, reg *Registry, name string, opts RenderOptions) (string, error) {
	def, ok := reg.Get(name)
	if !ok {
		return "", &ConfigError{Component: name, Msg: "unknown component"}
	}
	ctx, st := reg.begin(ctx, opts)

	args := make([]cty.Value, len(opts.Args))
	for i, a := range opts.Args {
		args[i] = expr.ToValue(a)
	}

	names := make([]string, 0, len(opts.Slots))
	for slot := range opts.Slots {
		names = append(names, slot)
	}
	sort.Strings(names)
	fills := make([]*Fill, 0, len(names))
	for _, slot := range names {
		f, err := normalizeSlot(slot, opts.Slots[slot])
		if err != nil {
			return st.finish(ctx, opts, "", err)
		}
		f.scope = st.root
		fills = append(fills, f)
	}

	out, err := st.renderComponent(ctx, call{
		def:    def,
		args:   args,
		kwargs: expr.ToValues(opts.Kwargs),
		fills:  fills,
		caller: st.root,
	})
	return st.finish(ctx, opts, out, err)
}

// RenderString parses src with the registry's tags and renders it as a
// top-level template.
func RenderString(ctx context.Context, reg *Registry, src string, opts RenderOptions) (string, error) {
	tpl, err := reg.Parse("<string>", src)
	if err != nil {
		return "", err
	}
	ctx, st := reg.begin(ctx, opts)
	out, err := tpl.Render(ctx, st.root)
	return st.finish(ctx, opts, out, err)
}

// begin sets up the state of one top-level render.
func (r *Registry) begin(ctx context.Context, opts RenderOptions) (context.Context, *renderState) {
	behavior := opts.Behavior
	if behavior == nil {
		behavior = r.settings.ContextBehavior
	}
	st := &renderState{
		reg:      r,
		arena:    arena.New(),
		behavior: behavior,
		root:     scope.New(expr.ToValues(opts.Context)),
		assets:   deps.NewCollector(),
	}
	ctxlog.FromContext(ctx).Debug("Render started.", "context_behavior", behavior.Name())
	ctx = withState(ctx, st)
	ctx = withInstance(ctx, nil)
	ctx = withProvider(ctx, nil)
	return withoutCollector(ctx), st
}

// finish drops the arena and post-processes the output.
func (st *renderState) finish(ctx context.Context, opts RenderOptions, out string, err error) (string, error) {
	logger := ctxlog.FromContext(ctx)
	if opts.Inspect != nil {
		opts.Inspect(st.arena)
	}
	if left := st.arena.Drop(); left.Total() > 0 {
		logger.Warn("Render arena still held entries when dropped.",
			"instances", left.Instances, "provides", left.Provides, "fills", left.Fills)
	}
	if err != nil {
		logger.Debug("Render failed.", "error", err)
		return "", err
	}

	strategy := opts.Deps
	if strategy == "" {
		strategy = st.reg.settings.DepsStrategy
	}
	final, err := deps.Apply(strategy, out, st.assets)
	if err != nil {
		return "", fmt.Errorf("applying deps strategy: %w", err)
	}
	logger.Debug("Render finished.", "released", st.arena.Released(), "bytes", len(final))
	return final, nil
}
