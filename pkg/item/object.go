package item

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingAttribute indicates that a dotted attribute path could not be
// resolved on an Object, either because a path segment is absent or because
// an intermediate segment is not a nested object.
var ErrMissingAttribute = errors.New("missing attribute")

// Object is a domain entity identified by an opaque URI-like string.
// Attributes are held in a nested map: values may be numeric, strings,
// booleans, nested map[string]any sub-objects, or nested Objects.
// Objects are treated as immutable once constructed.
type Object struct {
	// URI uniquely identifies the object.
	URI string `yaml:"uri" json:"uri"`

	// Attrs holds the named attributes of the object.
	Attrs map[string]any `yaml:"attrs,omitempty" json:"attrs,omitempty"`
}

// NewObject creates an Object with the given URI and attributes.
func NewObject(uri string, attrs map[string]any) Object {
	if attrs == nil {
		attrs = map[string]any{}
	}
	return Object{URI: uri, Attrs: attrs}
}

// Resolve looks up a possibly dotted attribute path (e.g. "nutrition.calories")
// and returns the raw value. Returns an error wrapping ErrMissingAttribute if
// any segment of the path cannot be resolved.
func (o Object) Resolve(path string) (any, error) {
	if path == "" {
		return nil, fmt.Errorf("empty attribute path on %s: %w", o.URI, ErrMissingAttribute)
	}

	segments := strings.Split(path, ".")
	var current any = o.Attrs
	for i, seg := range segments {
		attrs, err := asAttrMap(current)
		if err != nil {
			return nil, fmt.Errorf("attribute %q on %s: segment %q is not a nested object: %w",
				path, o.URI, strings.Join(segments[:i], "."), ErrMissingAttribute)
		}
		val, ok := attrs[seg]
		if !ok {
			return nil, fmt.Errorf("attribute %q on %s: segment %q not found: %w",
				path, o.URI, seg, ErrMissingAttribute)
		}
		current = val
	}
	return current, nil
}

// Number resolves a dotted attribute path and converts the value to float64.
// Returns an error wrapping ErrMissingAttribute if resolution fails or the
// value is not numeric.
func (o Object) Number(path string) (float64, error) {
	val, err := o.Resolve(path)
	if err != nil {
		return 0, err
	}
	f, ok := toFloat(val)
	if !ok {
		return 0, fmt.Errorf("attribute %q on %s: value %T is not numeric: %w",
			path, o.URI, val, ErrMissingAttribute)
	}
	return f, nil
}

// StringValue resolves a dotted attribute path and returns the value as a string.
func (o Object) StringValue(path string) (string, error) {
	val, err := o.Resolve(path)
	if err != nil {
		return "", err
	}
	s, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("attribute %q on %s: value %T is not a string: %w",
			path, o.URI, val, ErrMissingAttribute)
	}
	return s, nil
}

// asAttrMap normalizes the supported nested-object representations to a map.
func asAttrMap(v any) (map[string]any, error) {
	switch m := v.(type) {
	case map[string]any:
		return m, nil
	case Object:
		return m.Attrs, nil
	case *Object:
		if m == nil {
			return nil, fmt.Errorf("nil object")
		}
		return m.Attrs, nil
	default:
		return nil, fmt.Errorf("value %T is not a map", v)
	}
}

// toFloat converts the numeric types that appear in attribute maps
// (including YAML/JSON decoded values) to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
