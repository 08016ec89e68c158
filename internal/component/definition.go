package component

import (
	"context"

	"github.com/specialistvlad/slotkit/internal/deps"
	"github.com/specialistvlad/slotkit/internal/scope"
	"github.com/zclconf/go-cty/cty"
)

// DataFunc computes the variables a component body renders with.
type DataFunc func(ctx context.Context, in *Input) (map[string]any, error)

// RenderFunc renders a component body in Go instead of from a template.
// Slots are rendered with inst.RenderSlot.
type RenderFunc func(ctx context.Context, inst *Instance, sc *scope.Scope) (string, error)

// InputSpec declares one keyword input of a component.
type InputSpec struct {
	// Type the value is converted to. cty.DynamicPseudoType or cty.NilType
	// accept anything.
	Type cty.Type
	// Default is used when the caller passes nothing or null. cty.NilVal
	// means no default.
	Default cty.Value
	// Required inputs must be passed non-null unless Default is set.
	Required    bool
	Description string
}

// Definition describes a component.
type Definition struct {
	Name string
	// Template is the body source. TemplateName names it in diagnostics.
	Template     string
	TemplateName string
	// Render replaces Template when set.
	Render RenderFunc

	Inputs   map[string]InputSpec
	Defaults map[string]any

	// Data computes the body variables. Without it the body sees the
	// keyword arguments (after defaults) as its data.
	Data DataFunc
	// ScriptData and StyleData compute per-instance payloads for the
	// companion script and style.
	ScriptData DataFunc
	StyleData  DataFunc

	Script string
	Style  string
}

// ClassID is the stable identifier used in render markers.
func (d *Definition) ClassID() string {
	return deps.ClassID(d.Name)
}

func (d *Definition) templateName() string {
	if d.TemplateName != "" {
		return d.TemplateName
	}
	return d.Name
}
