package component

import (
	"context"
	"fmt"
	"sort"

	"github.com/specialistvlad/slotkit/internal/arena"
	"github.com/specialistvlad/slotkit/internal/config"
	"github.com/specialistvlad/slotkit/internal/expr"
	"github.com/specialistvlad/slotkit/internal/scope"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Input is what a component was called with, after defaults were applied.
type Input struct {
	Args   []cty.Value
	Kwargs map[string]cty.Value
	Fills  map[string]*Fill
	// Context is the scope at the component tag.
	Context  *scope.Scope
	Instance *Instance

	providers *provider
	arena     *arena.Arena
	converter config.Converter
}

// Kwarg returns a keyword argument, or a null value when it is absent.
func (in *Input) Kwarg(name string) cty.Value {
	if v, ok := in.Kwargs[name]; ok {
		return v
	}
	return cty.NullVal(cty.DynamicPseudoType)
}

// String returns a keyword argument rendered as text.
func (in *Input) String(name string) string {
	return expr.String(in.Kwarg(name))
}

// FillNames returns the names of the fills the caller supplied, sorted.
func (in *Input) FillNames() []string {
	names := make([]string, 0, len(in.Fills))
	for name := range in.Fills {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Decode decodes the keyword arguments into target, a pointer to a struct
// whose fields carry `cty` tags. Missing arguments leave fields untouched.
func (in *Input) Decode(ctx context.Context, target any) error {
	if in.converter == nil {
		return fmt.Errorf("no converter configured")
	}
	return in.converter.Decode(ctx, expr.ToValue(in.Kwargs), cty.DynamicPseudoType, target)
}

// Inject returns the values published by the nearest enclosing
// `{% provide %}` with the given key.
func (in *Input) Inject(key string) (cty.Value, error) {
	for p := in.providers; p != nil; p = p.parent {
		if p.key != key {
			continue
		}
		v, ok := in.arena.Get(arena.Provides, p.handle)
		if !ok {
			return cty.NilVal, fmt.Errorf("internal error: provided value %q was already released", key)
		}
		return v.(cty.Value), nil
	}
	return cty.NilVal, fmt.Errorf("no provider found for key %q", key)
}

// InjectOr is Inject with a fallback for when no provider has the key.
func (in *Input) InjectOr(key string, fallback any) cty.Value {
	v, err := in.Inject(key)
	if err != nil {
		return expr.ToValue(fallback)
	}
	return v
}

// applyInputs merges defaults into kwargs and converts declared inputs to
// their types. A value that cannot be converted is a user error.
func applyInputs(def *Definition, kwargs map[string]cty.Value) (map[string]cty.Value, error) {
	out := make(map[string]cty.Value, len(kwargs)+len(def.Defaults)+len(def.Inputs))
	for k, v := range kwargs {
		out[k] = v
	}
	missing := func(name string) bool {
		v, ok := out[name]
		return !ok || v.IsNull()
	}

	for name, v := range def.Defaults {
		if missing(name) {
			out[name] = expr.ToValue(v)
		}
	}

	names := make([]string, 0, len(def.Inputs))
	for name := range def.Inputs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		spec := def.Inputs[name]
		if missing(name) && spec.Default != cty.NilVal && !spec.Default.IsNull() {
			out[name] = spec.Default
		}
		if spec.Required && missing(name) {
			return nil, &ConfigError{Component: def.Name, Msg: fmt.Sprintf("input %q is required", name)}
		}
		v, ok := out[name]
		if !ok || v.IsNull() || !v.IsKnown() || spec.Type == cty.NilType || spec.Type.Equals(cty.DynamicPseudoType) {
			continue
		}
		converted, err := convert.Convert(v, spec.Type)
		if err != nil {
			return nil, fmt.Errorf("input %q: expected %s: %w", name, spec.Type.FriendlyName(), err)
		}
		out[name] = converted
	}
	return out, nil
}
