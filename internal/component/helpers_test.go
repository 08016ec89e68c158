package component_test

import (
	"context"
	"testing"

	"github.com/specialistvlad/slotkit/internal/component"
	"github.com/specialistvlad/slotkit/internal/deps"
	"github.com/stretchr/testify/require"
)

// newRegistry builds a registry that strips render markers, so outputs can
// be compared as plain text.
func newRegistry(t *testing.T, behavior component.ContextBehavior, defs ...*component.Definition) *component.Registry {
	t.Helper()
	reg := component.NewRegistry(component.Settings{ContextBehavior: behavior, DepsStrategy: deps.Ignore})
	for _, def := range defs {
		reg.Register(def)
	}
	return reg
}

func tpl(name, src string) *component.Definition {
	return &component.Definition{Name: name, Template: src}
}

func renderString(reg *component.Registry, src string, vars map[string]any) (string, error) {
	return component.RenderString(context.Background(), reg, src, component.RenderOptions{Context: vars})
}

func mustRender(t *testing.T, reg *component.Registry, src string, vars map[string]any) string {
	t.Helper()
	out, err := renderString(reg, src, vars)
	require.NoError(t, err)
	return out
}
