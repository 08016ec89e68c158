package config

import (
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified, format-agnostic representation of the whole
// configuration: render settings plus every component manifest.
type Model struct {
	Settings   *Settings
	Components map[string]*ComponentDefinition
}

// Settings selects registry-wide render behavior.
type Settings struct {
	ContextBehavior string
	DepsStrategy    string
}

// ComponentDefinition is the format-agnostic representation of a component
// manifest.
type ComponentDefinition struct {
	Name        string
	Description string
	// Template holds the body source, read from TemplateFile when the
	// manifest points to one.
	Template     string
	TemplateFile string
	Script       string
	Style        string
	Defaults     map[string]cty.Value
	Inputs       map[string]*InputDefinition
	// Source is the manifest file the component was declared in.
	Source string
}

// InputDefinition defines a single keyword input of a component.
type InputDefinition struct {
	Name        string
	Type        cty.Type
	Description string
	Default     *cty.Value
	Optional    bool
}
