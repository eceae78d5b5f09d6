package types

import (
	"fmt"
	"reflect"
)

// NormalizeValue converts decoded values from any supported format (JSON,
// YAML, TOML) into one canonical shape: float64 for numbers,
// map[string]interface{} for objects and []interface{} for arrays.
func NormalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case nil, string, bool, float64:
		return val
	case int:
		return float64(val)
	case int8:
		return float64(val)
	case int16:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case uint:
		return float64(val)
	case uint8:
		return float64(val)
	case uint16:
		return float64(val)
	case uint32:
		return float64(val)
	case uint64:
		return float64(val)
	case float32:
		return float64(val)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = NormalizeValue(item)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = NormalizeValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = NormalizeValue(item)
		}
		return out
	}

	// Typed slices and maps (e.g. []string from Go callers)
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = NormalizeValue(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		out := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = NormalizeValue(iter.Value().Interface())
		}
		return out
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	}

	return v
}

// CloneValue deep-copies a normalized value
func CloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = CloneValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = CloneValue(item)
		}
		return out
	}
	return v
}

// MatchesType reports whether a value conforms to a primitive prop type.
// Enum membership is checked separately against the prop's options.
func MatchesType(t PropType, v interface{}) bool {
	v = NormalizeValue(v)
	switch t {
	case PropString:
		_, ok := v.(string)
		return ok
	case PropNumber:
		_, ok := v.(float64)
		return ok
	case PropBoolean:
		_, ok := v.(bool)
		return ok
	case PropArray:
		_, ok := v.([]interface{})
		return ok
	case PropObject:
		_, ok := v.(map[string]interface{})
		return ok
	case PropEnum:
		switch v.(type) {
		case string, float64, bool:
			return true
		}
	}
	return false
}

// ContainsValue reports whether v equals one of options after normalization
func ContainsValue(options []interface{}, v interface{}) bool {
	needle := NormalizeValue(v)
	for _, opt := range options {
		if reflect.DeepEqual(NormalizeValue(opt), needle) {
			return true
		}
	}
	return false
}

// KindOf names the type of a normalized value for diagnostics
func KindOf(v interface{}) string {
	switch NormalizeValue(v).(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}
