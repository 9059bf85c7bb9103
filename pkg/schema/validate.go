package schema

import (
	"strconv"
)

// Validate checks raw against the descriptor t and returns the coerced,
// strictly-typed value. Numbers validate to float64 (int64 for Int),
// booleans to bool, strings to string, structs to map[string]any.
//
// Validation fails fast: the first invalid field encountered during
// traversal aborts with a *ValidationError carrying the field path.
func Validate(t Type, raw any) (any, error) {
	return validate(t, raw, nil, false)
}

func validate(t Type, raw any, path []string, strict bool) (any, error) {
	switch d := t.(type) {
	case primitive:
		return validatePrimitive(d.kind, raw, path, strict)
	case *LiteralType:
		if !literalEqual(raw, d.Value) {
			return nil, newError(path, "expected literal %v, got %v", d.Value, raw)
		}
		return d.Value, nil
	case *NullableType:
		if raw == nil {
			return nil, nil
		}
		return validate(d.Inner, raw, path, strict)
	case *StrictType:
		return validate(d.Inner, raw, path, true)
	case *StructType:
		return validateStruct(d, raw, path, strict)
	case *UnionType:
		return validateUnion(d, raw, path, strict)
	default:
		return nil, newError(path, "unsupported descriptor kind %s", t.Kind())
	}
}

func validatePrimitive(kind Kind, raw any, path []string, strict bool) (any, error) {
	switch kind {
	case KindNumber, KindFloat:
		f, err := toFloat(raw, path, strict)
		if err != nil {
			return nil, err
		}
		return f, nil
	case KindInt:
		f, err := toFloat(raw, path, strict)
		if err != nil {
			return nil, err
		}
		// Truncation toward zero, matching integer coercion of the
		// route grammar's int type.
		return int64(f), nil
	case KindString:
		s, ok := raw.(string)
		if !ok {
			return nil, newError(path, "expected string, got %T", raw)
		}
		return s, nil
	case KindID:
		s, ok := raw.(string)
		if !ok {
			return nil, newError(path, "expected id string, got %T", raw)
		}
		if s == "" {
			return nil, newError(path, "id must not be empty")
		}
		return s, nil
	case KindBoolean:
		if b, ok := raw.(bool); ok {
			return b, nil
		}
		if s, ok := raw.(string); ok && !strict {
			switch s {
			case "true":
				return true, nil
			case "false":
				return false, nil
			}
		}
		return nil, newError(path, "expected boolean, got %v", raw)
	default:
		return nil, newError(path, "unsupported primitive kind %s", kind)
	}
}

func validateStruct(d *StructType, raw any, path []string, strict bool) (any, error) {
	in, ok := structInput(raw)
	if !ok {
		return nil, newError(path, "expected object, got %T", raw)
	}

	out := make(map[string]any, len(d.Fields))
	for _, f := range d.Fields {
		fieldPath := append(path, f.Name)
		v, present := in[f.Name]
		if !present {
			if isOptional(f.Type) {
				continue
			}
			return nil, newError(fieldPath, "missing required field")
		}
		typed, err := validate(f.Type, v, fieldPath, strict)
		if err != nil {
			return nil, err
		}
		out[f.Name] = typed
	}
	return out, nil
}

func validateUnion(d *UnionType, raw any, path []string, strict bool) (any, error) {
	if len(d.Branches) == 0 {
		return nil, newError(path, "union has no branches")
	}

	// Literal branches win on exact equality before any typed branch
	// gets a chance to coerce the value away.
	for _, b := range d.Branches {
		if lit, ok := b.(*LiteralType); ok && literalEqual(raw, lit.Value) {
			return lit.Value, nil
		}
	}

	for _, b := range d.Branches {
		if b.Kind() == KindLiteral {
			continue
		}
		if v, err := validate(b, raw, path, strict); err == nil {
			return v, nil
		}
	}
	return nil, newError(path, "value %v matches no union branch", raw)
}

// structInput normalizes the accepted struct input shapes. Raw textual
// categories arrive as map[string]string, JSON bodies as map[string]any.
func structInput(raw any) (map[string]any, bool) {
	switch m := raw.(type) {
	case map[string]any:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out, true
	}
	return nil, false
}

// isOptional reports whether a missing value is acceptable for t.
func isOptional(t Type) bool {
	for {
		switch d := t.(type) {
		case *NullableType:
			return true
		case *StrictType:
			t = d.Inner
		default:
			return false
		}
	}
}

// toFloat coerces raw to float64. Outside strict mode a numeric string is
// parsed; inside strict mode only native numbers are accepted.
func toFloat(raw any, path []string, strict bool) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case string:
		if strict {
			return 0, newError(path, "expected number, got string %q", v)
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, newError(path, "invalid number %q", v)
		}
		return f, nil
	}
	return 0, newError(path, "expected number, got %T", raw)
}

// literalEqual compares a raw value against a literal. Numeric values
// compare across native widths; everything else requires identical
// comparable values.
func literalEqual(raw, lit any) bool {
	if rf, ok := numeric(raw); ok {
		if lf, lok := numeric(lit); lok {
			return rf == lf
		}
		return false
	}
	switch raw.(type) {
	case nil, string, bool:
		return raw == lit
	}
	return false
}

func numeric(v any) (float64, bool) {
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
	}
	return 0, false
}
