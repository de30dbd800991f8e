package njson

import "strconv"

// Value access helpers. All of them are nil-safe: a lookup miss returns a
// nil *Value whose accessors yield zero values, so key paths can be chained
// without intermediate checks.

// Type returns the value type, or TypeUndefined for a missing value.
func (v *Value) Type() Type {
	if v == nil {
		return TypeUndefined
	}
	return v.t
}

// Exists reports whether the value is present in the decoded tree.
func (v *Value) Exists() bool { return v != nil }

// IsNull reports whether the value is JSON null (or missing).
func (v *Value) IsNull() bool { return v == nil || v.t == TypeNull }

// IsInt reports whether a number value came from an integer literal, one
// with no fraction or exponent marker in its source form.
func (v *Value) IsInt() bool { return v != nil && v.t == TypeNumber && v.isInt }

// Bool returns the boolean value, or false for any other type.
func (v *Value) Bool() bool {
	if v == nil || v.t != TypeBoolean {
		return false
	}
	return v.b
}

// Int returns the numeric value as int64, truncating a float form.
func (v *Value) Int() int64 {
	if v == nil || v.t != TypeNumber {
		return 0
	}
	if v.isInt {
		return v.i
	}
	return int64(v.f)
}

// Float returns the numeric value as float64.
func (v *Value) Float() float64 {
	if v == nil || v.t != TypeNumber {
		return 0
	}
	if v.isInt {
		return float64(v.i)
	}
	return v.f
}

// String returns the string value, or "" for any other type.
func (v *Value) String() string {
	if v == nil || v.t != TypeString {
		return ""
	}
	return v.s
}

// Len returns the element count of an array or member count of an object.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.t {
	case TypeArray:
		return len(v.a)
	case TypeObject:
		return len(v.o)
	default:
		return 0
	}
}

// Get walks the value by key path and returns the nested value, or nil when
// any step is missing. Object steps look keys up by name; array steps
// interpret the key as a decimal index.
//
//	v.Get("resources", "core", "remaining")
//	v.Get("items", "0")
func (v *Value) Get(keys ...string) *Value {
	for _, key := range keys {
		if v == nil {
			return nil
		}
		switch v.t {
		case TypeObject:
			v = v.member(key)
		case TypeArray:
			idx, err := strconv.Atoi(key)
			if err != nil || idx < 0 || idx >= len(v.a) {
				return nil
			}
			v = v.a[idx]
		default:
			return nil
		}
	}
	return v
}

// member finds an object member by key. Objects decoded from API responses
// are small, so a linear scan beats a map here.
func (v *Value) member(key string) *Value {
	for j := range v.o {
		if v.o[j].k == key {
			return v.o[j].v
		}
	}
	return nil
}

// GetString is shorthand for Get(keys...).String().
func (v *Value) GetString(keys ...string) string { return v.Get(keys...).String() }

// GetInt64 is shorthand for Get(keys...).Int().
func (v *Value) GetInt64(keys ...string) int64 { return v.Get(keys...).Int() }

// GetFloat64 is shorthand for Get(keys...).Float().
func (v *Value) GetFloat64(keys ...string) float64 { return v.Get(keys...).Float() }

// GetBool is shorthand for Get(keys...).Bool().
func (v *Value) GetBool(keys ...string) bool { return v.Get(keys...).Bool() }

// ArrayEach calls fn for each array element in source order until fn
// returns false.
func (v *Value) ArrayEach(fn func(i int, elem *Value) bool) {
	if v == nil || v.t != TypeArray {
		return
	}
	for i, elem := range v.a {
		if !fn(i, elem) {
			return
		}
	}
}

// ObjectEach calls fn for each object member until fn returns false. Member
// order is the order keys first appeared in the source.
func (v *Value) ObjectEach(fn func(key string, val *Value) bool) {
	if v == nil || v.t != TypeObject {
		return
	}
	for j := range v.o {
		if !fn(v.o[j].k, v.o[j].v) {
			return
		}
	}
}
