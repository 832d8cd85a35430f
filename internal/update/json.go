package update

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// object is a decoded JSON object. Manifests are walked as generic values so
// that a missing tag can be told apart from a zero value.
type object = map[string]any

// decodeValue decodes any JSON document into generic values.
func decodeValue(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("unexpected end of JSON input")
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// asObject returns v as an object, or nil when v is not one. Lookups on a
// nil object find nothing, so a non-object element reads as "all tags missing".
func asObject(v any) object {
	o, _ := v.(map[string]any)
	return o
}

func lookup(o object, key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o[key]
	return v, ok
}

// typeError reports a JSON value of the wrong type. It aborts parsing.
type typeError struct {
	field string
	want  string
	got   any
}

func (e *typeError) Error() string {
	return fmt.Sprintf("%s must be %s, got %s", e.field, e.want, jsonKind(e.got))
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func asString(v any, field string) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", &typeError{field: field, want: "a string", got: v}
	}
	return s, nil
}

// asList returns the elements of a JSON array. null reads as an empty list.
func asList(v any, field string) ([]any, error) {
	switch l := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return l, nil
	default:
		return nil, &typeError{field: field, want: "an array", got: v}
	}
}

func asUint32(v any, field string) (uint32, error) {
	f, ok := v.(float64)
	if !ok || f < 0 || f > math.MaxUint32 || f != math.Trunc(f) {
		return 0, &typeError{field: field, want: "an unsigned 32-bit integer", got: v}
	}
	return uint32(f), nil
}

// stringList reads every element of an array of strings.
func stringList(v any, field string) ([]string, error) {
	items, err := asList(v, field)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		s, err := asString(it, field)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
