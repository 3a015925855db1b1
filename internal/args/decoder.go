package args

// Decoder provides typed extraction over one request's argument map.
// Required variants fail when the field is absent; Optional variants
// return the given default instead. A field that is present with the
// wrong type is an error in both variants. Null counts as absent.
type Decoder struct {
	m *Map
}

// NewDecoder wraps an argument map. A nil map behaves as empty.
func NewDecoder(m *Map) *Decoder {
	return &Decoder{m: m}
}

func (d *Decoder) get(name string) (Value, bool) {
	v, ok := d.m.Get(name)
	if !ok || v.IsNull() {
		return Value{}, false
	}
	return v, true
}

// RequireString extracts a mandatory string field.
func (d *Decoder) RequireString(name string) (string, error) {
	v, ok := d.get(name)
	if !ok {
		return "", NewMissingArgumentError(name)
	}
	s, ok := v.AsString()
	if !ok {
		return "", NewWrongTypeError(name, "string", v.Kind())
	}
	return s, nil
}

// OptionalString extracts a string field, returning def when absent.
func (d *Decoder) OptionalString(name, def string) (string, error) {
	v, ok := d.get(name)
	if !ok {
		return def, nil
	}
	s, ok := v.AsString()
	if !ok {
		return "", NewWrongTypeError(name, "string", v.Kind())
	}
	return s, nil
}

// RequireInt extracts a mandatory integer field. Floats do not narrow.
func (d *Decoder) RequireInt(name string) (int64, error) {
	v, ok := d.get(name)
	if !ok {
		return 0, NewMissingArgumentError(name)
	}
	i, ok := v.AsInt()
	if !ok {
		return 0, NewWrongTypeError(name, "integer", v.Kind())
	}
	return i, nil
}

// OptionalInt extracts an integer field, returning def when absent.
func (d *Decoder) OptionalInt(name string, def int64) (int64, error) {
	v, ok := d.get(name)
	if !ok {
		return def, nil
	}
	i, ok := v.AsInt()
	if !ok {
		return 0, NewWrongTypeError(name, "integer", v.Kind())
	}
	return i, nil
}

// RequireFloat extracts a mandatory numeric field. An integer value
// widens exactly to float64; any non-numeric value is an error.
func (d *Decoder) RequireFloat(name string) (float64, error) {
	v, ok := d.get(name)
	if !ok {
		return 0, NewMissingArgumentError(name)
	}
	f, ok := v.AsFloat()
	if !ok {
		return 0, NewWrongTypeError(name, "number", v.Kind())
	}
	return f, nil
}

// OptionalFloat extracts a numeric field, returning def when absent.
func (d *Decoder) OptionalFloat(name string, def float64) (float64, error) {
	v, ok := d.get(name)
	if !ok {
		return def, nil
	}
	f, ok := v.AsFloat()
	if !ok {
		return 0, NewWrongTypeError(name, "number", v.Kind())
	}
	return f, nil
}

// RequireBool extracts a mandatory boolean field.
func (d *Decoder) RequireBool(name string) (bool, error) {
	v, ok := d.get(name)
	if !ok {
		return false, NewMissingArgumentError(name)
	}
	b, ok := v.AsBool()
	if !ok {
		return false, NewWrongTypeError(name, "boolean", v.Kind())
	}
	return b, nil
}

// OptionalBool extracts a boolean field, returning def when absent.
func (d *Decoder) OptionalBool(name string, def bool) (bool, error) {
	v, ok := d.get(name)
	if !ok {
		return def, nil
	}
	b, ok := v.AsBool()
	if !ok {
		return false, NewWrongTypeError(name, "boolean", v.Kind())
	}
	return b, nil
}

// RequireFloatSlice extracts a mandatory homogeneous numeric array.
// Integer elements widen; a non-numeric element fails with its index.
func (d *Decoder) RequireFloatSlice(name string) ([]float64, error) {
	v, ok := d.get(name)
	if !ok {
		return nil, NewMissingArgumentError(name)
	}
	list, ok := v.AsList()
	if !ok {
		return nil, NewWrongTypeError(name, "array", v.Kind())
	}
	out := make([]float64, len(list))
	for i, el := range list {
		f, ok := el.AsFloat()
		if !ok {
			return nil, NewWrongElementTypeError(name, i, "number", el.Kind())
		}
		out[i] = f
	}
	return out, nil
}

// RequireStringSlice extracts a mandatory homogeneous string array.
func (d *Decoder) RequireStringSlice(name string) ([]string, error) {
	v, ok := d.get(name)
	if !ok {
		return nil, NewMissingArgumentError(name)
	}
	list, ok := v.AsList()
	if !ok {
		return nil, NewWrongTypeError(name, "array", v.Kind())
	}
	out := make([]string, len(list))
	for i, el := range list {
		s, ok := el.AsString()
		if !ok {
			return nil, NewWrongElementTypeError(name, i, "string", el.Kind())
		}
		out[i] = s
	}
	return out, nil
}

// RequireMap extracts a mandatory nested object field.
func (d *Decoder) RequireMap(name string) (*Map, error) {
	v, ok := d.get(name)
	if !ok {
		return nil, NewMissingArgumentError(name)
	}
	m, ok := v.AsMap()
	if !ok {
		return nil, NewWrongTypeError(name, "object", v.Kind())
	}
	return m, nil
}
