package component

import (
	"context"
	"fmt"

	"github.com/specialistvlad/slotkit/internal/expr"
	"github.com/specialistvlad/slotkit/internal/scope"
	"github.com/specialistvlad/slotkit/internal/template"
	"github.com/zclconf/go-cty/cty"
)

// DefaultSlotName is the fill name that targets whichever slot is marked
// default.
const DefaultSlotName = "default"

// FillTarget says which slot a fill is for: an explicit slot name, or the
// default slot.
type FillTarget struct {
	name      string
	isDefault bool
}

// TargetName targets the slot called name. "default" targets the default
// slot.
func TargetName(name string) FillTarget {
	if name == DefaultSlotName {
		return TargetDefault()
	}
	return FillTarget{name: name}
}

// TargetDefault targets the slot marked default.
func TargetDefault() FillTarget {
	return FillTarget{isDefault: true}
}

// IsDefault reports whether the target is the default slot.
func (t FillTarget) IsDefault() bool {
	return t.isDefault
}

// Key is the key of the target in a fills map.
func (t FillTarget) Key() string {
	if t.isDefault {
		return DefaultSlotName
	}
	return t.name
}

func (t FillTarget) String() string {
	if t.isDefault {
		return "<default>"
	}
	return t.name
}

// Fallback gives callable fills access to the fallback body of the slot
// they fill. It renders lazily, at most once.
type Fallback struct {
	render func() (string, error)
	done   bool
	out    string
	err    error
}

// Render renders the fallback body. A nil Fallback renders as "".
func (f *Fallback) Render() (string, error) {
	if f == nil || f.render == nil {
		return "", nil
	}
	if !f.done {
		f.out, f.err = f.render()
		f.done = true
	}
	return f.out, f.err
}

// SlotContext is what a callable fill receives: the live scope at the slot,
// the slot data and the slot's fallback.
type SlotContext struct {
	Context  context.Context
	Name     string
	Scope    *scope.Scope
	Data     map[string]cty.Value
	Fallback *Fallback
}

// fillCall carries everything a FillContent may need to render.
type fillCall struct {
	ctx       context.Context
	inst      *Instance
	fill      *Fill
	slotScope *scope.Scope
	slot      SlotContext
	behavior  ContextBehavior
}

// FillContent is the body of a fill. It is one of Literal, Func or
// Fragment.
type FillContent interface {
	render(call fillCall) (string, error)
}

// Literal is a plain string fill.
type Literal string

func (l Literal) render(fillCall) (string, error) {
	return string(l), nil
}

// Func is a callable fill. It is called with the live slot scope and does
// not go through the ContextBehavior.
type Func func(SlotContext) (string, error)

func (f Func) render(call fillCall) (string, error) {
	return f(call.slot)
}

// Fragment is a template fill, rendered under the scope the ContextBehavior
// builds for it.
type Fragment struct {
	Nodes template.NodeList
}

func (f Fragment) render(call fillCall) (string, error) {
	bindings := make(map[string]cty.Value, 2)
	if call.fill.DataVar != "" {
		bindings[call.fill.DataVar] = expr.ToValue(call.slot.Data)
	}
	if call.fill.FallbackVar != "" {
		fb, err := call.slot.Fallback.Render()
		if err != nil {
			return "", err
		}
		bindings[call.fill.FallbackVar] = cty.StringVal(fb)
	}
	sc := call.behavior.FillScope(call.inst, call.fill, call.slotScope, bindings)
	// Slots inside the fill belong to the component the fill was written in.
	ctx := withInstance(withoutCollector(call.ctx), call.fill.owner)
	return f.Nodes.Render(ctx, sc)
}

// Fill is content supplied by a caller for one slot.
type Fill struct {
	Target  FillTarget
	Content FillContent
	// DataVar and FallbackVar name the variables a Fragment fill sees the
	// slot data and the rendered fallback under.
	DataVar     string
	FallbackVar string
	// Implicit is set for fills made from untagged component body content.
	Implicit bool

	scope *scope.Scope
	owner *Instance
}

// NewFill creates a fill for the slot called name.
func NewFill(name string, content FillContent) *Fill {
	return &Fill{Target: TargetName(name), Content: content}
}

// normalizeSlot turns a value passed through RenderOptions.Slots into a Fill.
func normalizeSlot(name string, v any) (*Fill, error) {
	var f *Fill
	switch tv := v.(type) {
	case string:
		f = NewFill(name, Literal(tv))
	case Literal:
		f = NewFill(name, tv)
	case func(SlotContext) (string, error):
		f = NewFill(name, Func(tv))
	case Func:
		f = NewFill(name, tv)
	case Fragment:
		f = NewFill(name, tv)
	case *Fill:
		if tv == nil {
			return nil, &ConfigError{Slot: name, Msg: "nil fill"}
		}
		cp := *tv
		cp.Target = TargetName(name)
		f = &cp
	default:
		return nil, &ConfigError{Slot: name, Msg: fmt.Sprintf("unsupported fill type %T", v)}
	}
	if f.Content == nil {
		f.Content = Literal("")
	}
	return f, nil
}

// compileFills indexes fills by target and enforces that every slot is
// targeted at most once.
func compileFills(def *Definition, c *compiled, fills []*Fill) (map[string]*Fill, error) {
	out := make(map[string]*Fill, len(fills))
	for _, f := range fills {
		key := f.Target.Key()
		if _, dup := out[key]; dup {
			return nil, &ConfigError{Component: def.Name, Slot: key, Msg: fmt.Sprintf("multiple fills target slot %q", key)}
		}
		out[key] = f
	}
	if _, ok := out[DefaultSlotName]; ok && c != nil && c.defaultSlot != "" && c.defaultSlot != DefaultSlotName {
		if _, ok := out[c.defaultSlot]; ok {
			return nil, defaultConflict(def.Name, c.defaultSlot)
		}
	}
	return out, nil
}

func defaultConflict(component, slot string) error {
	return &ConfigError{
		Component: component,
		Slot:      slot,
		Msg:       fmt.Sprintf("fills %q and %q both target the default slot %q", slot, DefaultSlotName, slot),
	}
}
