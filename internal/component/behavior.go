package component

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/slotkit/internal/scope"
	"github.com/zclconf/go-cty/cty"
)

// ContextBehavior decides which variables component bodies and fill
// contents can see. Implementations are stateless.
type ContextBehavior interface {
	// Name is the configuration value selecting the behavior.
	Name() string
	// BodyScope is the scope a component body renders under.
	BodyScope(inst *Instance, data map[string]cty.Value) *scope.Scope
	// FillScope is the scope a template fill renders under, given the live
	// scope at the slot and the bindings the fill asked for.
	FillScope(inst *Instance, fill *Fill, slotScope *scope.Scope, bindings map[string]cty.Value) *scope.Scope
}

// Isolated components see only the root context plus their own data; fills
// see only the root context plus their bindings.
var Isolated ContextBehavior = isolated{}

// Inherited ("django") components see the caller's full scope plus their own
// data; fills see everything, as if written inline at the slot.
var Inherited ContextBehavior = inherited{}

type isolated struct{}

func (isolated) Name() string { return "isolated" }

func (isolated) BodyScope(inst *Instance, data map[string]cty.Value) *scope.Scope {
	return inst.Root.Push(data)
}

func (isolated) FillScope(inst *Instance, _ *Fill, _ *scope.Scope, bindings map[string]cty.Value) *scope.Scope {
	return inst.Root.Push(bindings)
}

type inherited struct{}

func (inherited) Name() string { return "django" }

func (inherited) BodyScope(inst *Instance, data map[string]cty.Value) *scope.Scope {
	return inst.Caller.Push(data)
}

// FillScope stacks what the component pushed up to the slot (its data, its
// loops and withs) on top of the scope where the fill was written.
func (inherited) FillScope(inst *Instance, fill *Fill, slotScope *scope.Scope, bindings map[string]cty.Value) *scope.Scope {
	site := fill.scope
	if site == nil {
		site = inst.Caller
	}
	return slotScope.Above(inst.Caller).Over(site).Push(bindings)
}

// ParseBehavior maps a configuration value to a ContextBehavior.
func ParseBehavior(s string) (ContextBehavior, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "django", "inherited":
		return Inherited, nil
	case "isolated":
		return Isolated, nil
	}
	return nil, fmt.Errorf("unknown context behavior %q: must be 'django' or 'isolated'", s)
}
