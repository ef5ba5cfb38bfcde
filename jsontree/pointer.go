package jsontree

import (
	"encoding/json"
	"strings"
)

// parsePointer splits a pointer path into its decoded reference tokens.
// The empty pointer addresses the whole document and yields no tokens.
// Any other pointer must begin with '/'; otherwise ok is false.
func parsePointer(pointer string) ([]string, bool) {
	if pointer == "" {
		return nil, true
	}
	if !strings.HasPrefix(pointer, "/") {
		return nil, false
	}

	tokens := strings.Split(pointer[1:], "/")
	for i, tok := range tokens {
		if strings.Contains(tok, "~") {
			tok = strings.ReplaceAll(tok, "~1", "/")
			tok = strings.ReplaceAll(tok, "~0", "~")
			tokens[i] = tok
		}
	}
	return tokens, true
}

// arrayIndex parses a reference token as an array index.
// Only plain decimal digits are accepted; leading zeros are rejected
// (except for "0" itself) so keys like "01" never alias index 1.
func arrayIndex(tok string, length int) (int, bool) {
	if tok == "" || (len(tok) > 1 && tok[0] == '0') {
		return 0, false
	}
	n := 0
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
		if n >= length {
			return 0, false
		}
	}
	return n, true
}

// step descends one level into a container by reference token.
func step(cur any, tok string) (any, bool) {
	switch c := cur.(type) {
	case map[string]any:
		v, ok := c[tok]
		return v, ok
	case []any:
		i, ok := arrayIndex(tok, len(c))
		if !ok {
			return nil, false
		}
		return c[i], true
	default:
		return nil, false
	}
}

// Resolve walks doc along the pointer path and returns the addressed value.
// ok is false when the path is malformed, a key is missing, an array index is
// out of range, or the path traverses through a scalar.
func Resolve(doc any, pointer string) (any, bool) {
	tokens, ok := parsePointer(pointer)
	if !ok {
		return nil, false
	}

	cur := doc
	for _, tok := range tokens {
		next, ok := step(cur, tok)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Read resolves pointer against doc and returns the value as text.
//
// String values are returned verbatim with no added quoting. Non-string
// values (numbers, booleans, null, arrays, objects) are serialized to their
// compact JSON form. A path that does not resolve returns the empty string:
// absence is a normal signal here, not an error.
func Read(doc any, pointer string) string {
	v, ok := Resolve(doc, pointer)
	if !ok {
		return ""
	}

	if s, ok := v.(string); ok {
		return s
	}

	data, err := json.Marshal(v)
	if err != nil {
		// Values decoded from JSON always re-marshal; anything else is
		// treated the same as an unresolvable path.
		return ""
	}
	return string(data)
}
