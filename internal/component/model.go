package component

import (
	"fmt"
	"sort"

	"github.com/specialistvlad/slotkit/internal/config"
	"github.com/specialistvlad/slotkit/internal/deps"
	"github.com/zclconf/go-cty/cty"
)

// SettingsFromModel resolves the settings block of a loaded configuration.
// Empty values keep the registry defaults.
func SettingsFromModel(s *config.Settings) (Settings, error) {
	var out Settings
	if s == nil {
		return out, nil
	}
	if s.ContextBehavior != "" {
		b, err := ParseBehavior(s.ContextBehavior)
		if err != nil {
			return out, err
		}
		out.ContextBehavior = b
	}
	if s.DepsStrategy != "" {
		st, err := deps.ParseStrategy(s.DepsStrategy)
		if err != nil {
			return out, err
		}
		out.DepsStrategy = st
	}
	return out, nil
}

// DefinitionFromModel builds a template-backed definition from a manifest.
func DefinitionFromModel(c *config.ComponentDefinition) *Definition {
	def := &Definition{
		Name:         c.Name,
		Template:     c.Template,
		TemplateName: c.TemplateFile,
		Script:       c.Script,
		Style:        c.Style,
	}
	if len(c.Defaults) > 0 {
		def.Defaults = make(map[string]any, len(c.Defaults))
		for k, v := range c.Defaults {
			def.Defaults[k] = v
		}
	}
	if len(c.Inputs) > 0 {
		def.Inputs = make(map[string]InputSpec, len(c.Inputs))
		for name, in := range c.Inputs {
			spec := InputSpec{Type: in.Type, Default: cty.NilVal, Required: !in.Optional, Description: in.Description}
			if in.Default != nil {
				spec.Default = *in.Default
			}
			def.Inputs[name] = spec
		}
	}
	return def
}

// RegisterModel registers every component of m. Names already taken by Go
// definitions are reported rather than panicking, since they come from
// user-supplied files.
func (r *Registry) RegisterModel(m *config.Model) error {
	if m == nil {
		return nil
	}
	for _, name := range sortedNames(m.Components) {
		if _, exists := r.Get(name); exists {
			return fmt.Errorf("component '%s' from %s is already registered", name, m.Components[name].Source)
		}
		r.Register(DefinitionFromModel(m.Components[name]))
	}
	return nil
}

func sortedNames(m map[string]*config.ComponentDefinition) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
