package hcl_adapter

import (
	"context"
	"fmt"
	"reflect"

	"github.com/specialistvlad/slotkit/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Converter is the HCL-specific implementation of the config.Converter interface.
type Converter struct{}

// NewConverter creates a new HCL converter.
func NewConverter() *Converter {
	return &Converter{}
}

// Decode populates the Go value pointed to by target from val. Leaves are
// converted to the matching types of ty; cty.DynamicPseudoType lets every
// leaf keep its own type.
func (c *Converter) Decode(ctx context.Context, val cty.Value, ty cty.Type, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("decode target must be a non-nil pointer, got %T", target)
	}
	ctxlog.FromContext(ctx).Debug("Decoding value into Go type.", "go_type", rv.Elem().Type().String(), "cty_type", val.Type().FriendlyName())
	return c.decode(ctx, val, ty, target)
}

// ToCtyValue converts a native Go value into its corresponding cty.Value.
func (c *Converter) ToCtyValue(v any) (cty.Value, error) {
	if v == nil {
		return cty.NilVal, nil
	}
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unable to infer cty.Type: %w", err)
	}
	return gocty.ToCtyValue(v, ty)
}
