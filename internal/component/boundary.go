package component

import (
	"context"

	"github.com/specialistvlad/slotkit/internal/ctxlog"
	"github.com/specialistvlad/slotkit/internal/expr"
	"github.com/specialistvlad/slotkit/internal/scope"
	"github.com/zclconf/go-cty/cty"
)

// ErrorFallbackName is the name of the built-in error boundary component.
//
//	{% component "error_fallback" %}
//	  {% fill "content" %}…{% endfill %}
//	  {% fill "fallback" data="d" %}Oops: {{ d.error }}{% endfill %}
//	{% endcomponent %}
//
// When rendering the content slot fails, the fallback slot is rendered in
// its place, with the error message as slot data. Without a fallback fill
// the `fallback` keyword argument is output instead. Configuration errors
// and errors raised by the fallback itself propagate.
const ErrorFallbackName = "error_fallback"

func errorFallback() *Definition {
	return &Definition{
		Name:   ErrorFallbackName,
		Inputs: map[string]InputSpec{"fallback": {Type: cty.String, Default: cty.StringVal("")}},
		Render: renderErrorFallback,
	}
}

func renderErrorFallback(ctx context.Context, inst *Instance, sc *scope.Scope) (string, error) {
	out, err := inst.RenderSlot(ctx, sc, SlotSpec{Name: "content", Default: true})
	if err == nil {
		return out, nil
	}
	if IsConfigError(err) {
		return "", err
	}
	ctxlog.FromContext(ctx).Debug("Error boundary caught an error.", "instance", inst.ID(), "error", err)

	if !inst.HasFill("fallback") {
		return expr.String(inst.Input.Kwarg("fallback")), nil
	}
	return inst.RenderSlot(ctx, sc, SlotSpec{
		Name: "fallback",
		Data: map[string]cty.Value{"error": cty.StringVal(err.Error())},
	})
}
