package hcl_adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/slotkit/internal/config"
	"github.com/specialistvlad/slotkit/internal/ctxlog"
	"github.com/specialistvlad/slotkit/internal/fsutil"
	"github.com/specialistvlad/slotkit/internal/schema"
	"github.com/tidwall/jsonc"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load orchestrates the entire HCL configuration loading process. Every path
// may be a manifest file or a directory searched recursively for .hcl files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, config.Converter, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	model := &config.Model{
		Settings:   &config.Settings{},
		Components: make(map[string]*config.ComponentDefinition),
	}

	hclFiles, err := fsutil.CollectFiles(paths, ".hcl")
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()
	var settingsFile string

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root schema.File
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		if root.Settings != nil {
			if settingsFile != "" {
				return nil, nil, fmt.Errorf("settings block declared in both %s and %s", settingsFile, file)
			}
			settingsFile = file
			model.Settings = translateSettings(root.Settings)
		}

		for _, comp := range root.Components {
			def, err := l.translateComponentDefinition(ctx, comp, file)
			if err != nil {
				return nil, nil, err
			}
			if prev, ok := model.Components[def.Name]; ok {
				return nil, nil, fmt.Errorf("component '%s' declared in both %s and %s", def.Name, prev.Source, file)
			}
			model.Components[def.Name] = def
		}
	}

	logger.Debug("HCL loading complete.", "components", len(model.Components), "has_settings", settingsFile != "")
	return model, NewConverter(), nil
}

// LoadContext reads the top-level attributes of a context file. .hcl and
// .json are parsed directly; .jsonc and .yaml/.yml are normalized to JSON
// first. Attribute expressions may not reference variables.
func (l *Loader) LoadContext(ctx context.Context, path string) (map[string]cty.Value, error) {
	logger := ctxlog.FromContext(ctx).With("path", path)

	parser := hclparse.NewParser()
	var (
		file  *hcl.File
		diags hcl.Diagnostics
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		file, diags = parser.ParseJSONFile(path)
	case ".hcl":
		file, diags = parser.ParseHCLFile(path)
	case ".jsonc", ".yaml", ".yml":
		src, err := readAsJSON(path)
		if err != nil {
			return nil, err
		}
		file, diags = parser.ParseJSON(src, path)
	default:
		return nil, fmt.Errorf("unsupported context file %s: expected .hcl, .json, .jsonc or .yaml", path)
	}
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse context file %s: %w", path, diags)
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to read context file %s: %w", path, diags)
	}

	vars := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid value for '%s' in %s: %w", name, path, diags)
		}
		vars[name] = val
	}
	logger.Debug("Loaded render context.", "variables", len(vars))
	return vars, nil
}

// readAsJSON reads a JSONC or YAML file and re-encodes it as plain JSON.
func readAsJSON(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read context file %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".jsonc") {
		return jsonc.ToJSON(data), nil
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse context file %s: %w", path, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("context file %s cannot be represented as JSON: %w", path, err)
	}
	return out, nil
}
