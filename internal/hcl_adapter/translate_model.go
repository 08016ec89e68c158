// This file contains the logic for translating HCL schema structs into the
// format-agnostic configuration model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/specialistvlad/slotkit/internal/config"
	"github.com/specialistvlad/slotkit/internal/ctxlog"
	"github.com/specialistvlad/slotkit/internal/fsutil"
	"github.com/specialistvlad/slotkit/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

func translateSettings(s *schema.Settings) *config.Settings {
	return &config.Settings{
		ContextBehavior: s.ContextBehavior,
		DepsStrategy:    s.DepsStrategy,
	}
}

// translateComponentDefinition converts the HCL-specific component schema
// into the agnostic model. A template_file is read relative to the manifest.
func (l *Loader) translateComponentDefinition(ctx context.Context, s *schema.ComponentDefinition, source string) (*config.ComponentDefinition, error) {
	logger := ctxlog.FromContext(ctx).With("component", s.Name)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Translating HCL component to internal config model.")

	c := &config.ComponentDefinition{
		Name:         s.Name,
		Description:  s.Description,
		Template:     s.Template,
		TemplateFile: s.TemplateFile,
		Script:       s.Script,
		Style:        s.Style,
		Inputs:       make(map[string]*config.InputDefinition),
		Source:       source,
	}

	if s.Template != "" && s.TemplateFile != "" {
		return nil, fmt.Errorf("component '%s' sets both template and template_file", s.Name)
	}
	if s.TemplateFile != "" {
		body, path, err := fsutil.ReadRelative(source, s.TemplateFile)
		if err != nil {
			return nil, fmt.Errorf("component '%s': reading template_file: %w", s.Name, err)
		}
		logger.Debug("Read component template from file.", "template_file", path)
		c.Template = body
		c.TemplateFile = path
	}

	if isExprDefined(ctx, s.Defaults, "defaults") {
		val, diags := s.Defaults.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid defaults for component '%s': %w", s.Name, diags)
		}
		if !val.IsNull() {
			if !val.Type().IsObjectType() && !val.Type().IsMapType() {
				return nil, fmt.Errorf("defaults for component '%s' must be an object, got %s", s.Name, val.Type().FriendlyName())
			}
			c.Defaults = make(map[string]cty.Value, val.LengthInt())
			for k, v := range val.AsValueMap() {
				c.Defaults[k] = v
			}
		}
	}

	for _, in := range s.Inputs {
		if _, dup := c.Inputs[in.Name]; dup {
			return nil, fmt.Errorf("component '%s' declares input '%s' twice", s.Name, in.Name)
		}
		translatedInput, err := translateInputDefinition(ctx, in, s.Name)
		if err != nil {
			return nil, err
		}
		c.Inputs[in.Name] = translatedInput
	}
	return c, nil
}
