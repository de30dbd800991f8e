package njson

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// maxDepth bounds container nesting so hostile input cannot exhaust the
// goroutine stack. String and number scanning are iterative and unbounded.
const maxDepth = 300

// skipWS returns the offset of the next byte of s at or after i that is not
// an ASCII space, tab, newline or carriage return.
func skipWS(s string, i int) int {
	for i < len(s) {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return i
}

// parseValue dispatches on the first significant byte and decodes one value
// starting at i. It returns the value and the offset of the first byte after
// it, with trailing whitespace already skipped.
func parseValue(s string, i, depth int) (*Value, int, error) {
	if i >= len(s) {
		return nil, i, fmt.Errorf("njson: unexpected end of input")
	}
	var (
		v   *Value
		err error
	)
	switch c := s[i]; {
	case c == '"':
		var str string
		str, i, err = parseString(s, i)
		if err != nil {
			return nil, i, err
		}
		v = &Value{t: TypeString, s: str}
	case c == '{':
		v, i, err = parseObject(s, i+1, depth+1)
		if err != nil {
			return nil, i, err
		}
	case c == '[':
		v, i, err = parseArray(s, i+1, depth+1)
		if err != nil {
			return nil, i, err
		}
	case c == 't':
		if !strings.HasPrefix(s[i:], "true") {
			return nil, i, fmt.Errorf("njson: invalid literal at offset %d", i)
		}
		v, i = &Value{t: TypeBoolean, b: true}, i+4
	case c == 'f':
		if !strings.HasPrefix(s[i:], "false") {
			return nil, i, fmt.Errorf("njson: invalid literal at offset %d", i)
		}
		v, i = &Value{t: TypeBoolean, b: false}, i+5
	case c == 'n':
		if !strings.HasPrefix(s[i:], "null") {
			return nil, i, fmt.Errorf("njson: invalid literal at offset %d", i)
		}
		v, i = &Value{t: TypeNull}, i+4
	case c == '-' || (c >= '0' && c <= '9'):
		v, i, err = parseNumber(s, i)
		if err != nil {
			return nil, i, err
		}
	default:
		return nil, i, fmt.Errorf("njson: unexpected character %q at offset %d", c, i)
	}
	return v, skipWS(s, i), nil
}

// parseNumber scans the maximal run of bytes matching the JSON number
// grammar starting at i, then converts the consumed slice.
//
// The scan stops at the first byte outside the grammar: after a leading '0'
// another digit is not consumed (leading-zero rule), and '.' or 'e'/'E' are
// consumed only when at least one digit follows. Whatever the scan leaves
// behind is the caller's problem; "01" therefore decodes the number 0 and
// fails later as trailing content, exactly as two adjacent tokens would.
func parseNumber(s string, i int) (*Value, int, error) {
	start := i
	n := len(s)
	if i < n && s[i] == '-' {
		i++
	}
	switch {
	case i < n && s[i] == '0':
		i++
	case i < n && s[i] >= '1' && s[i] <= '9':
		i++
		for i < n && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	default:
		return nil, i, fmt.Errorf("njson: invalid number at offset %d", start)
	}
	if i+1 < n && s[i] == '.' && s[i+1] >= '0' && s[i+1] <= '9' {
		i += 2
		for i < n && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	if i < n && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < n && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < n && s[j] >= '0' && s[j] <= '9' {
			i = j + 1
			for i < n && s[i] >= '0' && s[i] <= '9' {
				i++
			}
		}
	}
	lit := s[start:i]
	if iv, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return &Value{t: TypeNumber, i: iv, isInt: true}, i, nil
	}
	fv, err := strconv.ParseFloat(lit, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		// The scanner only consumes bytes forming a valid number literal,
		// so a slice rejected by both converters is a scanner bug. Range
		// overflow is not a rejection: the literal saturates to ±Inf/0.
		panic(fmt.Sprintf("njson: unconvertible number literal %q", lit))
	}
	return &Value{t: TypeNumber, f: fv}, i, nil
}

// parseString decodes the string whose opening quote sits at s[i], resolving
// escapes, and returns the text plus the offset past the closing quote.
//
// The loop is iterative. While no escape has been seen the scan runs over
// the input in place and the result is a substring; the first backslash
// switches to an unescape buffer seeded with the literal prefix.
func parseString(s string, i int) (string, int, error) {
	i++ // opening quote
	start := i
	n := len(s)
	var buf []byte
	for i < n {
		c := s[i]
		switch {
		case c == '"':
			if buf == nil {
				return s[start:i], i + 1, nil
			}
			return string(buf), i + 1, nil
		case c == '\\':
			if buf == nil {
				buf = append(buf, s[start:i]...)
			}
			r, next, err := parseEscape(s, i)
			if err != nil {
				return "", i, err
			}
			buf = appendRune(buf, r)
			i = next
		case c < 0x20:
			return "", i, fmt.Errorf("njson: control character 0x%02x in string at offset %d", c, i)
		case c < 0x80:
			if buf != nil {
				buf = append(buf, c)
			}
			i++
		default:
			w := leadWidth(c)
			if w == 0 || i+w > n {
				return "", i, fmt.Errorf("njson: malformed UTF-8 byte 0x%02x at offset %d", c, i)
			}
			if buf != nil {
				buf = append(buf, s[i:i+w]...)
			}
			i += w
		}
	}
	return "", n, fmt.Errorf("njson: unterminated string")
}

// leadWidth classifies a non-ASCII byte as a UTF-8 lead byte and returns the
// sequence width it implies, or 0 when the byte cannot start a sequence
// (a stray continuation byte or an out-of-range lead).
func leadWidth(c byte) int {
	switch {
	case c >= 0xC0 && c < 0xE0:
		return 2
	case c >= 0xE0 && c < 0xF0:
		return 3
	case c >= 0xF0 && c < 0xF8:
		return 4
	default:
		return 0
	}
}

// parseEscape decodes the escape sequence whose backslash sits at s[i] and
// returns the resolved codepoint plus the offset past the sequence.
//
// A \u escape yields one UTF-16 code unit. A high surrogate immediately
// followed by a \u low surrogate combines into a single codepoint; any lone
// surrogate decodes directly to its 4-hex-digit value.
func parseEscape(s string, i int) (rune, int, error) {
	i++ // backslash
	if i >= len(s) {
		return 0, i, fmt.Errorf("njson: unterminated escape")
	}
	switch s[i] {
	case '"':
		return '"', i + 1, nil
	case '\\':
		return '\\', i + 1, nil
	case '/':
		return '/', i + 1, nil
	case 'n':
		return '\n', i + 1, nil
	case 't':
		return '\t', i + 1, nil
	case 'r':
		return '\r', i + 1, nil
	case 'f':
		return '\f', i + 1, nil
	case 'b':
		return '\b', i + 1, nil
	case 'u':
		hi, ok := hex4(s, i+1)
		if !ok {
			return 0, i, fmt.Errorf("njson: invalid unicode escape at offset %d", i-1)
		}
		i += 5
		if hi >= 0xD800 && hi <= 0xDBFF && i+1 < len(s) && s[i] == '\\' && s[i+1] == 'u' {
			if lo, ok := hex4(s, i+2); ok && lo >= 0xDC00 && lo <= 0xDFFF {
				return 0x10000 + (hi-0xD800)*0x400 + (lo - 0xDC00), i + 6, nil
			}
		}
		return hi, i, nil
	default:
		return 0, i, fmt.Errorf("njson: invalid escape character %q at offset %d", s[i], i)
	}
}

// hex4 decodes the 4 hexadecimal digits at s[i:i+4].
func hex4(s string, i int) (rune, bool) {
	if i+4 > len(s) {
		return 0, false
	}
	var r rune
	for j := i; j < i+4; j++ {
		c := s[j]
		r <<= 4
		switch {
		case c >= '0' && c <= '9':
			r |= rune(c - '0')
		case c >= 'a' && c <= 'f':
			r |= rune(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			r |= rune(c - 'A' + 10)
		default:
			return 0, false
		}
	}
	return r, true
}

// appendRune encodes r as UTF-8 by hand. Unlike utf8.AppendRune it encodes
// lone surrogate codepoints verbatim instead of substituting U+FFFD, which
// the lone-\u-escape rule requires.
func appendRune(buf []byte, r rune) []byte {
	switch {
	case r < 0x80:
		return append(buf, byte(r))
	case r < 0x800:
		return append(buf, byte(0xC0|r>>6), byte(0x80|r&0x3F))
	case r < 0x10000:
		return append(buf, byte(0xE0|r>>12), byte(0x80|r>>6&0x3F), byte(0x80|r&0x3F))
	default:
		return append(buf, byte(0xF0|r>>18), byte(0x80|r>>12&0x3F), byte(0x80|r>>6&0x3F), byte(0x80|r&0x3F))
	}
}

// parseArray decodes the elements of the array whose '[' has already been
// consumed; i points just past it.
func parseArray(s string, i, depth int) (*Value, int, error) {
	if depth > maxDepth {
		return nil, i, fmt.Errorf("njson: nesting deeper than %d at offset %d", maxDepth, i)
	}
	v := &Value{t: TypeArray}
	i = skipWS(s, i)
	if i >= len(s) {
		return nil, i, fmt.Errorf("njson: unterminated array")
	}
	if s[i] == ']' {
		return v, i + 1, nil
	}
	for {
		elem, next, err := parseValue(s, i, depth)
		if err != nil {
			return nil, next, err
		}
		v.a = append(v.a, elem)
		i = next
		if i >= len(s) {
			return nil, i, fmt.Errorf("njson: unterminated array")
		}
		switch s[i] {
		case ',':
			i = skipWS(s, i+1)
		case ']':
			return v, i + 1, nil
		default:
			return nil, i, fmt.Errorf("njson: expected ',' or ']' at offset %d, got %q", i, s[i])
		}
	}
}

// parseObject decodes the members of the object whose '{' has already been
// consumed; i points just past it. A repeated key keeps its first position
// but takes the value of its last textual occurrence.
func parseObject(s string, i, depth int) (*Value, int, error) {
	if depth > maxDepth {
		return nil, i, fmt.Errorf("njson: nesting deeper than %d at offset %d", maxDepth, i)
	}
	v := &Value{t: TypeObject}
	i = skipWS(s, i)
	if i >= len(s) {
		return nil, i, fmt.Errorf("njson: unterminated object")
	}
	if s[i] == '}' {
		return v, i + 1, nil
	}
	for {
		if s[i] != '"' {
			return nil, i, fmt.Errorf("njson: object key must be a string at offset %d", i)
		}
		key, next, err := parseString(s, i)
		if err != nil {
			return nil, next, err
		}
		i = skipWS(s, next)
		if i >= len(s) || s[i] != ':' {
			return nil, i, fmt.Errorf("njson: expected ':' after object key at offset %d", i)
		}
		i = skipWS(s, i+1)
		val, next2, err := parseValue(s, i, depth)
		if err != nil {
			return nil, next2, err
		}
		v.setMember(key, val)
		i = next2
		if i >= len(s) {
			return nil, i, fmt.Errorf("njson: unterminated object")
		}
		switch s[i] {
		case ',':
			i = skipWS(s, i+1)
			if i >= len(s) {
				return nil, i, fmt.Errorf("njson: unterminated object")
			}
		case '}':
			return v, i + 1, nil
		default:
			return nil, i, fmt.Errorf("njson: expected ',' or '}' at offset %d, got %q", i, s[i])
		}
	}
}

// setMember inserts or overwrites one object member (last occurrence wins).
func (v *Value) setMember(key string, val *Value) {
	for j := range v.o {
		if v.o[j].k == key {
			v.o[j].v = val
			return
		}
	}
	v.o = append(v.o, member{k: key, v: val})
}
