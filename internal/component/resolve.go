package component

import (
	"context"

	"github.com/specialistvlad/slotkit/internal/ctxlog"
	"github.com/specialistvlad/slotkit/internal/renderpath"
	"github.com/specialistvlad/slotkit/internal/scope"
	"github.com/specialistvlad/slotkit/internal/template"
	"github.com/zclconf/go-cty/cty"
)

// slotSite is one slot occurrence met while a body renders.
type slotSite struct {
	name       string
	isDefault  bool
	isRequired bool
	// data evaluates the slot data; it is only called when a fill matched.
	data     func(sc *scope.Scope) (map[string]cty.Value, error)
	fallback template.NodeList
}

// SlotSpec declares a slot rendered from Go code, see Instance.RenderSlot.
type SlotSpec struct {
	Name     string
	Default  bool
	Required bool
	Data     map[string]cty.Value
	Fallback template.NodeList
}

// RenderSlot resolves a slot of the instance from Go code, the way a
// `{% slot %}` tag in its template would.
func (i *Instance) RenderSlot(ctx context.Context, sc *scope.Scope, spec SlotSpec) (string, error) {
	data := spec.Data
	return i.renderSlot(ctx, sc, slotSite{
		name:       spec.Name,
		isDefault:  spec.Default,
		isRequired: spec.Required,
		data:       func(*scope.Scope) (map[string]cty.Value, error) { return data, nil },
		fallback:   spec.Fallback,
	})
}

func (i *Instance) renderSlot(ctx context.Context, sc *scope.Scope, site slotSite) (string, error) {
	if err := validateSlotName(i.Def.Name, site.name); err != nil {
		return "", err
	}
	out, err := i.resolveSlot(ctx, sc, site)
	if err != nil {
		return "", withSegment(err, renderpath.NewSlot(site.name))
	}
	return out, nil
}

// resolveSlot picks the fill for one slot occurrence and renders it, or
// renders the slot's fallback when nothing matches.
func (i *Instance) resolveSlot(ctx context.Context, sc *scope.Scope, site slotSite) (string, error) {
	logger := ctxlog.FromContext(ctx).With("component", i.Def.Name, "instance", i.ID(), "slot", site.name)
	i.seen[site.name] = true

	if site.isDefault {
		if err := i.claimDefault(site.name); err != nil {
			return "", err
		}
	}

	fill, err := matchFill(i.Def.Name, site.name, site.isDefault, i.fills)
	if err != nil {
		return "", err
	}
	if fill == nil {
		if site.isRequired {
			return "", &ConfigError{Component: i.Def.Name, Slot: site.name, Msg: "slot is marked required but no fill was given"}
		}
		logger.Debug("No fill matched, rendering slot fallback.")
		return site.fallback.Render(ctx, sc)
	}

	var data map[string]cty.Value
	if site.data != nil {
		if data, err = site.data(sc); err != nil {
			return "", err
		}
	}
	fallback := &Fallback{render: func() (string, error) {
		return site.fallback.Render(ctx, sc)
	}}

	behavior := Inherited
	if st, ok := stateFrom(ctx); ok {
		behavior = st.behavior
	}
	logger.Debug("Rendering fill.", "target", fill.Target.String(), "implicit", fill.Implicit)
	return fill.Content.render(fillCall{
		ctx:       ctx,
		inst:      i,
		fill:      fill,
		slotScope: sc,
		behavior:  behavior,
		slot: SlotContext{
			Context:  ctx,
			Name:     site.name,
			Scope:    sc,
			Data:     data,
			Fallback: fallback,
		},
	})
}

// matchFill returns the fill for a slot, or nil. A default slot takes the
// "default" fill; any slot takes the fill named after it. A default slot
// targeted both ways is a configuration error.
func matchFill(component, name string, isDefault bool, fills map[string]*Fill) (*Fill, error) {
	named, hasNamed := fills[name]
	if isDefault {
		if def, ok := fills[DefaultSlotName]; ok {
			if hasNamed && name != DefaultSlotName {
				return nil, defaultConflict(component, name)
			}
			return def, nil
		}
	}
	if hasNamed {
		return named, nil
	}
	return nil, nil
}
