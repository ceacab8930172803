package tilemap

import (
	"fmt"
	"strconv"
)

// ValueKind tags the variant a property Value holds.
type ValueKind uint8

const (
	StringKind ValueKind = iota
	IntKind
	FloatKind
	BoolKind
)

func (k ValueKind) String() string {
	switch k {
	case StringKind:
		return "string"
	case IntKind:
		return "int"
	case FloatKind:
		return "float"
	case BoolKind:
		return "bool"
	}
	return fmt.Sprintf("ValueKind(%d)", uint8(k))
}

// Value is a single custom property.
type Value struct {
	Kind  ValueKind
	Str   string
	Int   int64
	Float float64
	Bool  bool
}

func StringValue(s string) Value { return Value{Kind: StringKind, Str: s} }
func IntValue(i int64) Value     { return Value{Kind: IntKind, Int: i} }
func FloatValue(f float64) Value { return Value{Kind: FloatKind, Float: f} }
func BoolValue(b bool) Value     { return Value{Kind: BoolKind, Bool: b} }

func (v Value) String() string {
	switch v.Kind {
	case IntKind:
		return strconv.FormatInt(v.Int, 10)
	case FloatKind:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case BoolKind:
		return strconv.FormatBool(v.Bool)
	}
	return v.Str
}

// Properties are the custom properties attached to a map, layer, tile or
// object.
type Properties map[string]Value

func (p Properties) Lookup(key string) (Value, bool) {
	v, ok := p[key]
	return v, ok
}

// GetString returns the string property key, or def when it is absent or not a
// string.
func (p Properties) GetString(key, def string) string {
	if v, ok := p[key]; ok && v.Kind == StringKind {
		return v.Str
	}
	return def
}

// GetInt accepts int properties and floats with no fractional part.
func (p Properties) GetInt(key string, def int) int {
	v, ok := p[key]
	if !ok {
		return def
	}
	switch v.Kind {
	case IntKind:
		return int(v.Int)
	case FloatKind:
		if v.Float == float64(int64(v.Float)) {
			return int(v.Float)
		}
	}
	return def
}

// GetFloat accepts float and int properties.
func (p Properties) GetFloat(key string, def float64) float64 {
	v, ok := p[key]
	if !ok {
		return def
	}
	switch v.Kind {
	case FloatKind:
		return v.Float
	case IntKind:
		return float64(v.Int)
	}
	return def
}

func (p Properties) GetBool(key string, def bool) bool {
	if v, ok := p[key]; ok && v.Kind == BoolKind {
		return v.Bool
	}
	return def
}

// PropertyType lists the Go types a property can be read as.
type PropertyType interface {
	string | int | float64 | bool
}

// Get reads key from p as T, falling back to def.
func Get[T PropertyType](p Properties, key string, def T) T {
	var out any
	switch d := any(def).(type) {
	case string:
		out = p.GetString(key, d)
	case int:
		out = p.GetInt(key, d)
	case float64:
		out = p.GetFloat(key, d)
	case bool:
		out = p.GetBool(key, d)
	}
	return out.(T)
}

// propertiesFrom converts decoded description values. Anything that is not a
// scalar is kept as its printed form.
func propertiesFrom(raw map[string]any) Properties {
	if len(raw) == 0 {
		return Properties{}
	}
	props := make(Properties, len(raw))
	for k, v := range raw {
		props[k] = valueOf(v)
	}
	return props
}

func valueOf(v any) Value {
	switch x := v.(type) {
	case string:
		return StringValue(x)
	case bool:
		return BoolValue(x)
	case int:
		return IntValue(int64(x))
	case int64:
		return IntValue(x)
	case uint64:
		return IntValue(int64(x))
	case float32:
		return FloatValue(float64(x))
	case float64:
		return FloatValue(x)
	case nil:
		return StringValue("")
	}
	return StringValue(fmt.Sprint(v))
}

// parseTyped converts a Tiled-style (type, value) string pair.
func parseTyped(typ, raw string) Value {
	switch typ {
	case "int", "object":
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return IntValue(i)
		}
	case "float":
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return FloatValue(f)
		}
	case "bool":
		if b, err := strconv.ParseBool(raw); err == nil {
			return BoolValue(b)
		}
	}
	return StringValue(raw)
}
