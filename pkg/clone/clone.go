// Package clone deep copies the JSON-like values stored as template and
// instance members. Maps of any key type, slices and arrays are duplicated
// recursively while scalars, functions, pointers and structs stay shared.
//
// Values are walked without cycle detection; self-referencing containers are
// not supported.
package clone

import (
	"encoding/json"
	"reflect"
)

// Value deep copies value. Maps, slices and arrays are duplicated with their
// concrete types preserved; map keys are reused and values copied. Everything
// else, structs included, is returned as is.
func Value(value any) any {
	if value == nil {
		return nil
	}
	switch typed := value.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr,
		float32, float64,
		json.Number:
		return typed
	case map[string]any:
		return Members(typed)
	case []any:
		if typed == nil {
			return typed
		}
		out := make([]any, len(typed))
		for i, v := range typed {
			out[i] = Value(v)
		}
		return out
	case []string:
		if typed == nil {
			return typed
		}
		out := make([]string, len(typed))
		copy(out, typed)
		return out
	}

	source := reflect.ValueOf(value)

	switch source.Kind() {
	case reflect.Map:
		if source.IsNil() {
			return value
		}
		out := reflect.MakeMapWithSize(source.Type(), source.Len())
		iter := source.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), intoType(iter.Value(), source.Type().Elem()))
		}
		return out.Interface()
	case reflect.Slice:
		if source.IsNil() {
			return value
		}
		out := reflect.MakeSlice(source.Type(), source.Len(), source.Len())
		for i := 0; i < source.Len(); i++ {
			out.Index(i).Set(intoType(source.Index(i), source.Type().Elem()))
		}
		return out.Interface()
	case reflect.Array:
		out := reflect.New(source.Type()).Elem()
		for i := 0; i < source.Len(); i++ {
			out.Index(i).Set(intoType(source.Index(i), source.Type().Elem()))
		}
		return out.Interface()
	default:
		return value
	}
}

// Members deep copies a member mapping. A nil mapping yields nil.
func Members(members map[string]any) map[string]any {
	if members == nil {
		return nil
	}
	out := make(map[string]any, len(members))
	for k, v := range members {
		out[k] = Value(v)
	}
	return out
}

// IsComposite reports whether Value would duplicate value rather than share it.
func IsComposite(value any) bool {
	if value == nil {
		return false
	}
	switch value.(type) {
	case map[string]any, []any, []string:
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return true
	default:
		return false
	}
}

// intoType deep copies value and converts it to the target element type.
func intoType(value reflect.Value, target reflect.Type) reflect.Value {
	if !value.IsValid() || (value.Kind() == reflect.Interface && value.IsNil()) {
		return reflect.Zero(target)
	}

	cloned := Value(value.Interface())
	if cloned == nil {
		return reflect.Zero(target)
	}

	clonedValue := reflect.ValueOf(cloned)
	if !clonedValue.Type().AssignableTo(target) {
		if clonedValue.Type().ConvertibleTo(target) {
			clonedValue = clonedValue.Convert(target)
		} else {
			return value
		}
	}
	return clonedValue
}
