package component

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/slotkit/internal/arena"
	"github.com/specialistvlad/slotkit/internal/ctxlog"
	"github.com/specialistvlad/slotkit/internal/deps"
	"github.com/specialistvlad/slotkit/internal/expr"
	"github.com/specialistvlad/slotkit/internal/renderpath"
	"github.com/specialistvlad/slotkit/internal/scope"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// call is one request to render a component.
type call struct {
	def    *Definition
	args   []cty.Value
	kwargs map[string]cty.Value
	fills  []*Fill
	caller *scope.Scope
}

// renderComponent runs one component instance through its lifecycle. Its
// arena entries are released whatever the outcome, and a failure gains the
// component name in its render path.
func (st *renderState) renderComponent(ctx context.Context, c call) (string, error) {
	h := st.arena.Alloc()
	inst := newInstance(h, c.def, currentInstance(ctx), st.root, c.caller)
	st.arena.Set(arena.Instances, h, inst)

	logger := ctxlog.FromContext(ctx).With("component", c.def.Name, "instance", h.ID())
	logger.Debug("Rendering component.", "fills", len(c.fills))
	defer func() {
		st.arena.Release(h)
		logger.Debug("Released component instance.", "state", inst.State().String())
	}()

	out, err := st.renderInstance(withoutCollector(ctx), inst, c)
	if err != nil {
		inst.fail()
		if advErr := inst.advance(Done); advErr != nil {
			logger.Error("Lifecycle error.", "error", advErr)
		}
		return "", withSegment(err, renderpath.NewComponent(c.def.Name))
	}
	return out, nil
}

func (st *renderState) renderInstance(ctx context.Context, inst *Instance, c call) (string, error) {
	def := inst.Def
	comp, err := st.reg.compile(def)
	if err != nil {
		return "", err
	}
	inst.compiled = comp

	fills, err := compileFills(def, comp, c.fills)
	if err != nil {
		return "", err
	}
	inst.fills = fills
	st.arena.Set(arena.Fills, inst.Handle, fills)

	kwargs, err := applyInputs(def, c.kwargs)
	if err != nil {
		return "", err
	}
	in := &Input{
		Args:      c.args,
		Kwargs:    kwargs,
		Fills:     fills,
		Context:   c.caller,
		Instance:  inst,
		providers: providerFrom(ctx),
		arena:     st.arena,
		converter: st.reg.converter,
	}
	inst.Input = in

	data := kwargs
	if def.Data != nil {
		m, err := def.Data(ctx, in)
		if err != nil {
			return "", fmt.Errorf("computing data: %w", err)
		}
		data = expr.ToValues(m)
	}
	inst.Data = data
	extra, err := st.instanceAssets(ctx, inst, in)
	if err != nil {
		return "", err
	}
	if err := inst.advance(DataComputed); err != nil {
		return "", err
	}

	inst.Body = st.behavior.BodyScope(inst, data)
	if err := inst.advance(ScopePushed); err != nil {
		return "", err
	}

	if err := inst.advance(BodyRendering); err != nil {
		return "", err
	}
	bodyCtx := withInstance(ctx, inst)
	var out string
	if def.Render != nil {
		out, err = def.Render(bodyCtx, inst, inst.Body)
	} else {
		out, err = comp.tpl.Render(bodyCtx, inst.Body)
	}
	if err != nil {
		return "", err
	}
	if err := inst.advance(ScopePopped); err != nil {
		return "", err
	}
	st.logIgnoredFills(ctx, inst)

	st.assets.Register(deps.Asset{ClassID: def.ClassID(), Name: def.Name, Script: def.Script, Style: def.Style})
	marker := deps.Marker{ClassID: def.ClassID(), InstanceID: inst.ID(), Extra: extra}
	if err := inst.advance(Done); err != nil {
		return "", err
	}
	return marker.String() + out, nil
}

// logIgnoredFills reports fills that no slot of the render pass used.
func (st *renderState) logIgnoredFills(ctx context.Context, inst *Instance) {
	for key := range inst.fills {
		if inst.seen[key] || (key == DefaultSlotName && inst.defaultSlot != "") {
			continue
		}
		ctxlog.FromContext(ctx).Debug("Fill matched no slot and was ignored.", "component", inst.Def.Name, "fill", key)
	}
}

// instanceAssets computes the script and style data of an instance and
// returns the key its payload is registered under, or "".
func (st *renderState) instanceAssets(ctx context.Context, inst *Instance, in *Input) (string, error) {
	def := inst.Def
	var jsonData, cssVars string
	if def.ScriptData != nil {
		m, err := def.ScriptData(ctx, in)
		if err != nil {
			return "", fmt.Errorf("computing script data: %w", err)
		}
		v := expr.ToValue(m)
		b, err := ctyjson.Marshal(v, v.Type())
		if err != nil {
			return "", fmt.Errorf("encoding script data: %w", err)
		}
		jsonData = string(b)
	}
	if def.StyleData != nil {
		m, err := def.StyleData(ctx, in)
		if err != nil {
			return "", fmt.Errorf("computing style data: %w", err)
		}
		names := make([]string, 0, len(m))
		for name := range m {
			names = append(names, name)
		}
		sort.Strings(names)
		var vars []string
		for _, name := range names {
			vars = append(vars, fmt.Sprintf("--%s: %s;", name, expr.String(expr.ToValue(m[name]))))
		}
		cssVars = strings.Join(vars, " ")
	}
	if jsonData == "" && cssVars == "" {
		return "", nil
	}

	key := deps.DataKey(def.ClassID() + "\x00" + jsonData + "\x00" + cssVars)
	var payload strings.Builder
	if jsonData != "" {
		fmt.Fprintf(&payload, `<script type="application/json" data-slotkit-data="%s">%s</script>`, key, jsonData)
	}
	if cssVars != "" {
		fmt.Fprintf(&payload, `<style data-slotkit-data="%s">[data-slotkit-css="%s"] { %s }</style>`, key, key, cssVars)
	}
	st.assets.RegisterData(key, payload.String())
	return key, nil
}
