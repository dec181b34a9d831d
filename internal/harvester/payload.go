package harvester

import (
	"strings"

	"jdeprez/immoharvester/pkg/errors"
)

// Payload is the untyped nested structure embedded in a listing detail page.
// Its shape mirrors the source site and is not validated against a schema;
// missing keys are tolerated, type mismatches are not.
type Payload map[string]any

// Lookup walks the given key path. It returns false when any level is
// missing, an intermediate value is not an object, or the leaf is JSON null.
func (p Payload) Lookup(path ...string) (any, bool) {
	var current any = map[string]any(p)
	for _, key := range path {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	if current == nil {
		return nil, false
	}
	return current, true
}

// Scalar returns the value at path as a record cell. Absent paths yield the
// sentinel without error; objects and arrays at the leaf are a shape error.
func (p Payload) Scalar(path ...string) (Value, error) {
	raw, ok := p.Lookup(path...)
	if !ok {
		return None, nil
	}
	switch raw.(type) {
	case map[string]any, []any:
		return None, errors.NewNormalization(strings.Join(path, "."), "expected a scalar")
	}
	return Some(raw), nil
}

// Number returns the numeric value at path. Absent paths yield the sentinel
// without error; any present non-number is a shape error.
func (p Payload) Number(path ...string) (Value, error) {
	raw, ok := p.Lookup(path...)
	if !ok {
		return None, nil
	}
	f, ok := raw.(float64)
	if !ok {
		return None, errors.NewNormalization(strings.Join(path, "."), "expected a number")
	}
	return Some(f), nil
}

// Bool returns the boolean value at path. Absent paths yield the sentinel
// without error; any present non-boolean is a shape error.
func (p Payload) Bool(path ...string) (Value, error) {
	raw, ok := p.Lookup(path...)
	if !ok {
		return None, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return None, errors.NewNormalization(strings.Join(path, "."), "expected a boolean")
	}
	return Some(b), nil
}
