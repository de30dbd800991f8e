// Package njson provides a self-contained JSON value decoder built from first
// principles, with no external parsing library behind it.
// Created by dhawalhost (2026-08-27 10:12:41)
//
// Decoding produces an immutable generic Value tree (null, bool, number,
// string, array, object) that the caller inspects by key or key path. The
// decoder is a pure function of its input bytes: it keeps no state across
// calls and is safe to use concurrently on independent inputs.
package njson

import (
	"errors"
	"fmt"
)

// Error definitions for decode operations
var (
	// ErrMalformed is the single error kind reported by ParseSafe for any
	// grammar violation. Callers are not expected to distinguish failure
	// causes, so positional detail is deliberately dropped at this boundary.
	ErrMalformed = errors.New("njson: malformed input")
)

// Type represents the type of a decoded JSON value.
type Type uint8

const (
	TypeUndefined Type = iota
	TypeNull
	TypeString
	TypeNumber
	TypeBoolean
	TypeObject
	TypeArray
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	case TypeBoolean:
		return "boolean"
	case TypeObject:
		return "object"
	case TypeArray:
		return "array"
	default:
		return "undefined"
	}
}

// Value is one decoded JSON datum. A Value tree is built fresh on every
// Parse call, shares no memory with decoder internals, and is never
// modified after Parse returns.
type Value struct {
	t     Type
	b     bool     // TypeBoolean
	i     int64    // TypeNumber, integer lexical form
	f     float64  // TypeNumber, float lexical form
	isInt bool     // TypeNumber: which numeric representation is set
	s     string   // TypeString, escapes resolved
	a     []*Value // TypeArray, source order
	o     []member // TypeObject, keys unique, last occurrence wins
}

// member is one object key/value pair. The slice keeps first-seen key order;
// a repeated key overwrites the value in place.
type member struct {
	k string
	v *Value
}

// Parse is the strict entry point. It decodes exactly one JSON value from
// data, tolerating insignificant whitespace before and after it, and fails
// on any grammar violation or leftover non-whitespace content. Errors carry
// byte offsets for debugging; no partial tree is ever returned.
//
// Parse panics only on a decoder invariant violation (a scanned number slice
// that parses neither as integer nor as float), which indicates a bug in the
// scanner rather than bad input.
func Parse(data []byte) (*Value, error) {
	s := string(data)
	i := skipWS(s, 0)
	if i == len(s) {
		return nil, fmt.Errorf("njson: empty input")
	}
	v, i, err := parseValue(s, i, 0)
	if err != nil {
		return nil, err
	}
	i = skipWS(s, i)
	if i < len(s) {
		return nil, fmt.Errorf("njson: trailing content at offset %d", i)
	}
	return v, nil
}

// ParseSafe is the safe entry point. It never panics and collapses every
// failure mode of Parse, including recovered invariant panics, into the
// single uniform ErrMalformed.
func ParseSafe(data []byte) (v *Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, ErrMalformed
		}
	}()
	v, err = Parse(data)
	if err != nil {
		return nil, ErrMalformed
	}
	return v, nil
}
