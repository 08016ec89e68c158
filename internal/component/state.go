package component

import (
	"context"

	"github.com/specialistvlad/slotkit/internal/arena"
	"github.com/specialistvlad/slotkit/internal/deps"
	"github.com/specialistvlad/slotkit/internal/scope"
)

// renderState is shared by every node of one top-level render call.
type renderState struct {
	reg      *Registry
	arena    *arena.Arena
	behavior ContextBehavior
	root     *scope.Scope
	assets   *deps.Collector
}

type (
	stateKey     struct{}
	instanceKey  struct{}
	collectorKey struct{}
	providerKey  struct{}
)

func withState(ctx context.Context, st *renderState) context.Context {
	return context.WithValue(ctx, stateKey{}, st)
}

func stateFrom(ctx context.Context) (*renderState, bool) {
	st, ok := ctx.Value(stateKey{}).(*renderState)
	return st, ok
}

// withInstance marks inst as the component whose template is rendering.
// A nil inst means the top-level template.
func withInstance(ctx context.Context, inst *Instance) context.Context {
	return context.WithValue(ctx, instanceKey{}, inst)
}

func currentInstance(ctx context.Context) *Instance {
	inst, _ := ctx.Value(instanceKey{}).(*Instance)
	return inst
}

// fillCollector gathers the fills of one component tag.
type fillCollector struct {
	component string
	fills     []*Fill
}

func withCollector(ctx context.Context, c *fillCollector) context.Context {
	return context.WithValue(ctx, collectorKey{}, c)
}

// withoutCollector hides any collector, so that nested tags rendered from a
// fill body do not register with an outer component.
func withoutCollector(ctx context.Context) context.Context {
	if ctx.Value(collectorKey{}) == nil {
		return ctx
	}
	return context.WithValue(ctx, collectorKey{}, (*fillCollector)(nil))
}

func collectorFrom(ctx context.Context) *fillCollector {
	c, _ := ctx.Value(collectorKey{}).(*fillCollector)
	return c
}
