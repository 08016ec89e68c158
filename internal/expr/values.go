package expr

import (
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// ToValue converts a native Go value into its corresponding cty.Value.
//
// Maps with string keys become objects and slices become tuples, so
// heterogeneous data such as map[string]any is accepted. Structs carrying
// `cty` tags go through gocty; other structs are exposed by exported field
// name.
func ToValue(v any) cty.Value {
	switch tv := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType)
	case cty.Value:
		return tv
	case string:
		return cty.StringVal(tv)
	case bool:
		return cty.BoolVal(tv)
	case int:
		return cty.NumberIntVal(int64(tv))
	case int64:
		return cty.NumberIntVal(tv)
	case float64:
		return floatValue(tv)
	case error:
		return cty.StringVal(tv.Error())
	case map[string]cty.Value:
		if len(tv) == 0 {
			return cty.EmptyObjectVal
		}
		return cty.ObjectVal(tv)
	}
	return reflectValue(reflect.ValueOf(v))
}

func reflectValue(rv reflect.Value) cty.Value {
	switch rv.Kind() {
	case reflect.Invalid:
		return cty.NullVal(cty.DynamicPseudoType)
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return cty.NullVal(cty.DynamicPseudoType)
		}
		return ToValue(rv.Elem().Interface())
	case reflect.String:
		return cty.StringVal(rv.String())
	case reflect.Bool:
		return cty.BoolVal(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cty.NumberIntVal(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return cty.NumberUIntVal(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return floatValue(rv.Float())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return cty.EmptyTupleVal
		}
		elems := make([]cty.Value, rv.Len())
		for i := range elems {
			elems[i] = ToValue(rv.Index(i).Interface())
		}
		if len(elems) == 0 {
			return cty.EmptyTupleVal
		}
		return cty.TupleVal(elems)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return cty.StringVal(fmt.Sprint(rv.Interface()))
		}
		attrs := make(map[string]cty.Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			attrs[iter.Key().String()] = ToValue(iter.Value().Interface())
		}
		if len(attrs) == 0 {
			return cty.EmptyObjectVal
		}
		return cty.ObjectVal(attrs)
	case reflect.Struct:
		if hasCtyTags(rv.Type()) {
			if val, ok := taggedStructValue(rv.Interface()); ok {
				return val
			}
		}
		attrs := make(map[string]cty.Value)
		for i := 0; i < rv.NumField(); i++ {
			field := rv.Type().Field(i)
			if !field.IsExported() {
				continue
			}
			attrs[field.Name] = ToValue(rv.Field(i).Interface())
		}
		if len(attrs) == 0 {
			return cty.EmptyObjectVal
		}
		return cty.ObjectVal(attrs)
	}
	return cty.StringVal(fmt.Sprint(rv.Interface()))
}

// floatValue converts f to a number. NaN has no cty representation and
// becomes a null number; infinities are kept.
func floatValue(f float64) cty.Value {
	if math.IsNaN(f) {
		return cty.NullVal(cty.Number)
	}
	return cty.NumberFloatVal(f)
}

// taggedStructValue converts a struct with `cty` tags through gocty. ok is
// false when gocty cannot represent it, including NaN fields, which make it
// panic.
func taggedStructValue(v any) (val cty.Value, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			val, ok = cty.NilVal, false
		}
	}()
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, false
	}
	val, err = gocty.ToCtyValue(v, ty)
	if err != nil {
		return cty.NilVal, false
	}
	return val, true
}

func hasCtyTags(t reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		if _, ok := t.Field(i).Tag.Lookup("cty"); ok {
			return true
		}
	}
	return false
}

// ToValues converts every entry of m with ToValue.
func ToValues(m map[string]any) map[string]cty.Value {
	out := make(map[string]cty.Value, len(m))
	for k, v := range m {
		out[k] = ToValue(v)
	}
	return out
}

// String renders v as template output. Null and unknown values render as
// the empty string.
func String(v cty.Value) string {
	if v.IsNull() || !v.IsKnown() {
		return ""
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString()
	case ty == cty.Number:
		return v.AsBigFloat().Text('f', -1)
	case ty == cty.Bool:
		if v.True() {
			return "true"
		}
		return "false"
	}
	if !v.IsWhollyKnown() {
		return ""
	}
	b, err := ctyjson.Marshal(v, ty)
	if err != nil {
		return ""
	}
	return string(b)
}

// Truthy reports whether v counts as true in `if` conditions.
func Truthy(v cty.Value) bool {
	if v.IsNull() || !v.IsKnown() {
		return false
	}
	ty := v.Type()
	switch {
	case ty == cty.Bool:
		return v.True()
	case ty == cty.String:
		return v.AsString() != ""
	case ty == cty.Number:
		return v.AsBigFloat().Sign() != 0
	case ty.IsCollectionType() || ty.IsTupleType() || ty.IsObjectType():
		return v.LengthInt() > 0
	}
	return true
}

// Entry is one key/value pair produced by Iterate.
type Entry struct {
	Key   cty.Value
	Value cty.Value
}

// Iterate returns the elements of a list, tuple, set, map or object value in
// a deterministic order. Object and map keys are sorted. A null or unknown
// collection yields no entries.
func Iterate(v cty.Value) ([]Entry, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}
	ty := v.Type()
	if !ty.IsCollectionType() && !ty.IsTupleType() && !ty.IsObjectType() {
		return nil, fmt.Errorf("cannot iterate over a value of type %s", ty.FriendlyName())
	}
	var entries []Entry
	for it := v.ElementIterator(); it.Next(); {
		k, val := it.Element()
		entries = append(entries, Entry{Key: k, Value: val})
	}
	if ty.IsObjectType() || ty.IsMapType() {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Key.AsString() < entries[j].Key.AsString()
		})
	}
	return entries, nil
}

// AsMap returns the attributes of an object or map value. ok is false for
// any other type; a null or unknown value yields an empty map.
func AsMap(v cty.Value) (map[string]cty.Value, bool) {
	if v.IsNull() || !v.IsKnown() {
		return map[string]cty.Value{}, true
	}
	ty := v.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, false
	}
	out := v.AsValueMap()
	if out == nil {
		out = map[string]cty.Value{}
	}
	return out, true
}
