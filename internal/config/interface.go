package config

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads manifests from the given paths, translates them into the
	// format-agnostic model, and returns a matching Converter.
	Load(ctx context.Context, paths ...string) (*Model, Converter, error)

	// LoadContext reads a file of top-level attributes to use as the root
	// render context.
	LoadContext(ctx context.Context, path string) (map[string]cty.Value, error)
}

// Converter is the interface for a format-specific data binding and type
// conversion implementation. It acts as the bridge between template values
// and the Go types used by component code.
type Converter interface {
	// Decode populates the Go value pointed to by target from val, converting
	// leaves to the types declared in ty.
	Decode(ctx context.Context, val cty.Value, ty cty.Type, target any) error

	// ToCtyValue converts a native Go value into its cty.Value equivalent.
	ToCtyValue(v any) (cty.Value, error)
}
