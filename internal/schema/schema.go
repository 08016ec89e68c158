// Package schema holds the HCL decoding structs for component manifests.
// They mirror the file syntax one to one and are translated into the
// format-agnostic config model by the hcl_adapter package.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// Settings represents the `settings` block, which selects registry-wide
// render behavior.
type Settings struct {
	ContextBehavior string `hcl:"context_behavior,optional"`
	DepsStrategy    string `hcl:"deps_strategy,optional"`
}

// InputDefinition defines a single keyword input of a component.
type InputDefinition struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type,optional"`
	Description string         `hcl:"description,optional"`
	Default     hcl.Expression `hcl:"default,optional"`
}

// ComponentDefinition represents a `component` block.
type ComponentDefinition struct {
	Name         string             `hcl:"name,label"`
	Description  string             `hcl:"description,optional"`
	Template     string             `hcl:"template,optional"`
	TemplateFile string             `hcl:"template_file,optional"`
	Script       string             `hcl:"script,optional"`
	Style        string             `hcl:"style,optional"`
	Defaults     hcl.Expression     `hcl:"defaults,optional"`
	Inputs       []*InputDefinition `hcl:"input,block"`
}

// File is used to decode every top-level block a manifest file may hold.
type File struct {
	Settings   *Settings              `hcl:"settings,block"`
	Components []*ComponentDefinition `hcl:"component,block"`
	Remain     hcl.Body               `hcl:",remain"`
}
