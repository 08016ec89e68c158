package component_test

import (
	"testing"

	"github.com/specialistvlad/slotkit/internal/component"
	"github.com/specialistvlad/slotkit/internal/config"
	"github.com/specialistvlad/slotkit/internal/deps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestSettingsFromModel(t *testing.T) {
	s, err := component.SettingsFromModel(nil)
	require.NoError(t, err)
	assert.Nil(t, s.ContextBehavior)

	s, err = component.SettingsFromModel(&config.Settings{ContextBehavior: "isolated", DepsStrategy: "raw"})
	require.NoError(t, err)
	assert.Equal(t, "isolated", s.ContextBehavior.Name())
	assert.Equal(t, deps.Raw, s.DepsStrategy)

	_, err = component.SettingsFromModel(&config.Settings{ContextBehavior: "global"})
	require.Error(t, err)
	_, err = component.SettingsFromModel(&config.Settings{DepsStrategy: "bundled"})
	require.Error(t, err)
}

func TestRegisterModel(t *testing.T) {
	count := cty.NumberIntVal(5)
	model := &config.Model{
		Components: map[string]*config.ComponentDefinition{
			"badge": {
				Name:     "badge",
				Template: `<b>{{ label }}:{{ count }}</b>`,
				Defaults: map[string]cty.Value{"label": cty.StringVal("new")},
				Inputs: map[string]*config.InputDefinition{
					"count": {Name: "count", Type: cty.Number, Default: &count, Optional: true},
				},
				Source: "badge.hcl",
			},
		},
	}
	reg := newRegistry(t, nil)

	require.NoError(t, reg.RegisterModel(model))
	def, ok := reg.Get("badge")
	require.True(t, ok)
	assert.Equal(t, cty.Number, def.Inputs["count"].Type)

	assert.Equal(t, "<b>new:5</b>", mustRender(t, reg, `{% component "badge" / %}`, nil))
	assert.Equal(t, "<b>hot:7</b>", mustRender(t, reg, `{% component "badge" label="hot" count="7" / %}`, nil))

	err := reg.RegisterModel(model)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "component 'badge' from badge.hcl is already registered")
}

func TestDefinitionFromModel_InputWithoutDefault(t *testing.T) {
	def := component.DefinitionFromModel(&config.ComponentDefinition{
		Name:         "card",
		TemplateFile: "card.html",
		Inputs: map[string]*config.InputDefinition{
			"title": {Name: "title", Type: cty.String},
		},
	})

	assert.Equal(t, "card.html", def.TemplateName)
	assert.Equal(t, cty.NilVal, def.Inputs["title"].Default)
	assert.True(t, def.Inputs["title"].Required)
	assert.Nil(t, def.Defaults)
}

func TestRegisterModel_RequiredAndOptionalInputs(t *testing.T) {
	model := &config.Model{
		Components: map[string]*config.ComponentDefinition{
			"card": {
				Name:     "card",
				Template: `<h1>{{ title }}</h1>{{ subtitle }}`,
				Inputs: map[string]*config.InputDefinition{
					"title":    {Name: "title", Type: cty.String},
					"subtitle": {Name: "subtitle", Type: cty.String, Optional: true},
				},
			},
		},
	}
	reg := newRegistry(t, nil)
	require.NoError(t, reg.RegisterModel(model))

	assert.Equal(t, "<h1>Hi</h1>", mustRender(t, reg, `{% component "card" title="Hi" / %}`, nil))

	for _, page := range []string{
		`{% component "card" / %}`,
		`{% component "card" title=null subtitle="s" / %}`,
	} {
		_, err := renderString(reg, page, nil)
		require.Error(t, err, page)
		assert.True(t, component.IsConfigError(err), page)
		assert.Contains(t, err.Error(), `component "card": input "title" is required`, page)
	}
}
