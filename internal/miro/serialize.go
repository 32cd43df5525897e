package miro

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

// Normalize converts an arbitrary value into a JSON-safe structure. The
// Miro API returns heterogeneous payloads and partially decoded model
// values, so this is deliberately total: whatever the input, the result
// is encodable by encoding/json and the call never panics.
func Normalize(v interface{}) (out interface{}) {
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()
	return normalize(v)
}

func normalize(v interface{}) interface{} {
	if v == nil {
		return nil
	}

	switch x := v.(type) {
	case reflect.Type:
		// Reflective metadata leaking through a response is reduced
		// to its name rather than recursed into.
		return x.String()
	case time.Time:
		return x.Format(time.RFC3339)
	case json.Marshaler:
		return normalizeModel(x)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return normalize(rv.Elem().Interface())
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Map:
		out := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = safeNormalize(iter.Value().Interface())
		}
		return out
	case reflect.Slice, reflect.Array:
		out := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = safeNormalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Struct:
		return structFields(rv)
	default:
		// Channels, funcs and the like have no data representation.
		return stringify(v)
	}
}

// normalizeModel handles values carrying their own JSON form. A failing
// MarshalJSON degrades to the raw field map, and from there to the string
// form, never to an error.
func normalizeModel(m json.Marshaler) interface{} {
	if data, ok := safeMarshal(m); ok {
		var out interface{}
		if err := json.Unmarshal(data, &out); err == nil {
			return out
		}
	}

	rv := reflect.ValueOf(m)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct {
		return structFields(rv)
	}
	return stringify(m)
}

// structFields maps a struct to its exported fields. A field whose value
// cannot be normalized falls back to its string form; if even that fails
// the field is dropped rather than failing the whole object.
func structFields(rv reflect.Value) map[string]interface{} {
	t := rv.Type()
	out := make(map[string]interface{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue
		}
		val, ok := trySafeNormalize(rv.Field(i).Interface())
		if !ok {
			if s, sok := tryStringify(rv.Field(i).Interface()); sok {
				out[f.Name] = s
			}
			continue
		}
		out[f.Name] = val
	}
	return out
}

func safeNormalize(v interface{}) (out interface{}) {
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()
	return normalize(v)
}

func trySafeNormalize(v interface{}) (out interface{}, ok bool) {
	defer func() {
		if recover() != nil {
			out, ok = nil, false
		}
	}()
	return normalize(v), true
}

func safeMarshal(m json.Marshaler) (data []byte, ok bool) {
	defer func() {
		if recover() != nil {
			data, ok = nil, false
		}
	}()
	data, err := m.MarshalJSON()
	return data, err == nil
}

func stringify(v interface{}) (out interface{}) {
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()
	return fmt.Sprint(v)
}

func tryStringify(v interface{}) (s string, ok bool) {
	defer func() {
		if recover() != nil {
			s, ok = "", false
		}
	}()
	return fmt.Sprint(v), true
}
