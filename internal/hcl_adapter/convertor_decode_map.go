package hcl_adapter

import (
	"context"
	"fmt"
	"reflect"

	"github.com/specialistvlad/slotkit/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// decodeMap decodes an object or map value into a Go map. map[string]any
// takes the native fast path; typed maps decode element by element.
func (c *Converter) decodeMap(ctx context.Context, val cty.Value, declType cty.Type, goPtr reflect.Value) error {
	logger := ctxlog.FromContext(ctx).With("go_type", goPtr.Type().String(), "cty_type", val.Type().FriendlyName())
	logger.Debug("Decoding into Go map.")

	if goPtr.Type().Key().Kind() != reflect.String {
		return fmt.Errorf("cannot decode into Go map %s: keys must be strings", goPtr.Type().String())
	}
	if !val.Type().IsMapType() && !val.Type().IsObjectType() {
		return fmt.Errorf("type mismatch: cannot decode cty.%s into Go map %s", val.Type().FriendlyName(), goPtr.Type().String())
	}

	// Fast path for generic objects into map[string]any, which is a common case.
	if goPtr.Type() == reflect.TypeOf((map[string]any)(nil)) {
		logger.Debug("Using fast path for map[string]any via ctyToNative.")
		nativeVal, err := ctyToNative(val)
		if err != nil {
			return err
		}
		if nativeVal != nil {
			goPtr.Set(reflect.ValueOf(nativeVal))
		}
		return nil
	}

	logger.Debug("Performing deep decode for typed map.")
	newMap := reflect.MakeMap(goPtr.Type())
	it := val.ElementIterator()

	for it.Next() {
		key, elemVal := it.Element()
		keyStr := key.AsString()
		elemLogger := logger.With("map_key", keyStr)
		elemLogger.Debug("Processing map element.")

		var elemType cty.Type
		if declType.IsMapType() {
			elemType = declType.ElementType()
		} else {
			// Objects carry a type per attribute; use the element's own.
			elemType = elemVal.Type()
		}

		newElemPtr := reflect.New(goPtr.Type().Elem())
		if err := c.decode(ctx, elemVal, elemType, newElemPtr.Interface()); err != nil {
			return fmt.Errorf("failed to decode map element '%s': %w", keyStr, err)
		}
		newMap.SetMapIndex(reflect.ValueOf(keyStr).Convert(goPtr.Type().Key()), newElemPtr.Elem())
	}
	goPtr.Set(newMap)
	logger.Debug("Successfully decoded into Go map.")
	return nil
}
