package hcl_adapter

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/specialistvlad/slotkit/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// decode is a recursive function that populates a Go value from a cty.Value,
// guided by a declared cty.Type.
func (c *Converter) decode(ctx context.Context, val cty.Value, declType cty.Type, goVal any) error {
	valPtr := reflect.ValueOf(goVal)
	goPtr := valPtr.Elem()
	goType := goPtr.Type()
	logger := ctxlog.FromContext(ctx).With("go_kind", goType.Kind().String())

	if goType == reflect.TypeOf(cty.Value{}) {
		logger.Debug("Target is cty.Value, performing direct assignment.")
		if val.IsKnown() {
			goPtr.Set(reflect.ValueOf(val))
		}
		return nil
	}

	if !val.IsKnown() || val.IsNull() {
		logger.Debug("Skipping decode for null or unknown value.")
		return nil
	}

	switch goType.Kind() {
	case reflect.Struct:
		logger.Debug("Decoding as struct.")
		if !val.Type().IsObjectType() && !val.Type().IsMapType() {
			return fmt.Errorf("type mismatch: cannot decode cty value of type %s into Go struct %s", val.Type().FriendlyName(), goType.String())
		}
		if !declType.IsObjectType() && declType != cty.DynamicPseudoType {
			return fmt.Errorf("type mismatch: declared type expects an object for Go struct %s, but got %s", goType.String(), declType.FriendlyName())
		}

		attrMap := val.AsValueMap()
		for i := 0; i < goType.NumField(); i++ {
			fieldDef := goType.Field(i)
			fieldVal := goPtr.Field(i)

			if !fieldDef.IsExported() || !fieldVal.CanSet() {
				continue
			}

			tagName := strings.Split(fieldDef.Tag.Get("cty"), ",")[0]
			if tagName == "" || tagName == "-" {
				continue
			}

			attrVal, ok := attrMap[tagName]
			if !ok {
				continue
			}

			attrType := attrVal.Type()
			if declType.IsObjectType() && declType.HasAttribute(tagName) {
				attrType = declType.AttributeType(tagName)
			}

			if err := c.decode(ctx, attrVal, attrType, fieldVal.Addr().Interface()); err != nil {
				return fmt.Errorf("in attribute '%s': %w", tagName, err)
			}
		}
		return nil

	case reflect.Interface:
		logger.Debug("Decoding as interface (any).")
		nativeVal, err := ctyToNative(val)
		if err != nil {
			return err
		}
		if nativeVal != nil {
			goPtr.Set(reflect.ValueOf(nativeVal))
		}
		return nil

	case reflect.Map:
		return c.decodeMap(ctx, val, declType, goPtr)

	case reflect.Slice:
		logger.Debug("Decoding as slice.")
		ty := val.Type()
		if !ty.IsListType() && !ty.IsTupleType() && !ty.IsSetType() {
			return fmt.Errorf("type mismatch: cannot decode cty.%s into Go slice %s", ty.FriendlyName(), goType.String())
		}
		if !declType.IsListType() && !declType.IsTupleType() && !declType.IsSetType() && declType != cty.DynamicPseudoType {
			return fmt.Errorf("type mismatch: declared type expects a list for Go slice %s, but got %s", goType.String(), declType.FriendlyName())
		}

		newSlice := reflect.MakeSlice(goType, val.LengthInt(), val.LengthInt())
		it := val.ElementIterator()
		for i := 0; it.Next(); i++ {
			_, elemVal := it.Element()
			elemType := elemVal.Type()
			switch {
			case declType.IsListType() || declType.IsSetType():
				elemType = declType.ElementType()
			case declType.IsTupleType() && i < len(declType.TupleElementTypes()):
				elemType = declType.TupleElementType(i)
			}
			if err := c.decode(ctx, elemVal, elemType, newSlice.Index(i).Addr().Interface()); err != nil {
				return fmt.Errorf("in slice element %d: %w", i, err)
			}
		}
		goPtr.Set(newSlice)
		return nil

	default:
		logger.Debug("Decoding as primitive.")
		if declType != cty.DynamicPseudoType {
			converted, err := convert.Convert(val, declType)
			if err != nil {
				return fmt.Errorf("cannot convert value of type %s to declared type %s: %w", val.Type().FriendlyName(), declType.FriendlyName(), err)
			}
			val = converted
		}
		implied, err := gocty.ImpliedType(goPtr.Interface())
		if err != nil {
			return fmt.Errorf("cannot imply cty type for %s: %w", goType.String(), err)
		}
		convertedVal, err := convert.Convert(val, implied)
		if err != nil {
			return fmt.Errorf("cannot convert value of type %s to %s: %w", val.Type().FriendlyName(), goType.String(), err)
		}
		return gocty.FromCtyValue(convertedVal, goVal)
	}
}

// ctyToNative converts a known cty.Value into plain Go values: strings,
// bools, int64 or float64 numbers, []any and map[string]any. Null becomes nil.
func ctyToNative(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, nil
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("cannot convert an unknown value")
	}

	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil
	case ty == cty.Bool:
		return val.True(), nil
	case ty == cty.Number:
		bf := val.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == 0 {
				return i, nil
			}
		}
		f, _ := bf.Float64()
		return f, nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, native)
		}
		return out, nil
	case ty.IsMapType() || ty.IsObjectType():
		out := make(map[string]any, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, fmt.Errorf("in key '%s': %w", key.AsString(), err)
			}
			out[key.AsString()] = native
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported cty type %s", ty.FriendlyName())
}
