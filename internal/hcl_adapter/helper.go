package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/slotkit/internal/config"
	"github.com/specialistvlad/slotkit/internal/ctxlog"
	"github.com/specialistvlad/slotkit/internal/schema"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// isExprDefined checks if an HCL expression was actually present in the source
// code. The HCL decoder populates omitted optional fields with zero-width
// expressions, so a nil check is not enough.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	logger := ctxlog.FromContext(ctx)

	if expr == nil {
		logger.Debug("Expression is nil, considering it undefined.", "attribute", attrName)
		return false
	}

	// A real attribute occupies bytes in the file.
	exprRange := expr.Range()
	isDefined := exprRange.End.Byte > exprRange.Start.Byte

	logger.Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", exprRange.String(),
		"is_defined", isDefined,
	)

	return isDefined
}

// translateInputDefinition processes a single HCL input block, handling its
// default value and type parsing. A default is converted to the declared type
// up front so that a bad manifest fails at load time.
func translateInputDefinition(ctx context.Context, in *schema.InputDefinition, componentName string) (*config.InputDefinition, error) {
	parsedType, err := typeExprToCtyType(ctx, in.Type)
	if err != nil {
		return nil, fmt.Errorf("in component '%s', input '%s': %w", componentName, in.Name, err)
	}

	var defaultVal *cty.Value
	var isOptional bool

	if isExprDefined(ctx, in.Default, "default") {
		val, diags := in.Default.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid default value for input '%s' in component '%s': %w", in.Name, componentName, diags)
		}
		isOptional = true
		if !val.IsNull() {
			converted, err := convert.Convert(val, parsedType)
			if err != nil {
				return nil, fmt.Errorf("default value for input '%s' in component '%s' does not match type %s: %w", in.Name, componentName, parsedType.FriendlyName(), err)
			}
			defaultVal = &converted
		}
	}

	return &config.InputDefinition{
		Name:        in.Name,
		Type:        parsedType,
		Description: in.Description,
		Default:     defaultVal,
		Optional:    isOptional,
	}, nil
}
