package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/klokal/databuilder/internal/model"
)

// Suggestion maps are keyed by field path. Paths contain '.' and '[' which
// clash with document-store key rules, so stored keys are percent-escaped.
// Escaping is strict (everything outside [A-Za-z0-9_-] is encoded) and
// decoding is lenient: a malformed sequence is kept literally rather than
// failing the whole document.

const escapeSafe = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"

func EscapeFieldPath(path string) string {
	var b strings.Builder
	for i := 0; i < len(path); i++ {
		c := path[i]
		if strings.IndexByte(escapeSafe, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}

func UnescapeFieldPath(key string) string {
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c == '%' && i+2 < len(key) {
			if hi, ok1 := hexVal(key[i+1]); ok1 {
				if lo, ok2 := hexVal(key[i+2]); ok2 {
					b.WriteByte(hi<<4 | lo)
					i += 2
					continue
				}
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// MarshalSpot serializes a spot for storage, escaping suggestion map keys
// and dropping transient image binaries via the struct tags.
func MarshalSpot(spot model.Spot) ([]byte, error) {
	stored := spot.Clone()
	if stored.Suggestions != nil {
		escaped := make(map[string][]model.Suggestion, len(stored.Suggestions))
		for path, list := range stored.Suggestions {
			escaped[EscapeFieldPath(path)] = list
		}
		stored.Suggestions = escaped
	}
	return json.Marshal(stored)
}

// UnmarshalSpot decodes a stored document back into a spot with plain field
// path keys.
func UnmarshalSpot(data []byte) (model.Spot, error) {
	var spot model.Spot
	if err := json.Unmarshal(data, &spot); err != nil {
		return model.Spot{}, err
	}
	if spot.Suggestions != nil {
		plain := make(map[string][]model.Suggestion, len(spot.Suggestions))
		for key, list := range spot.Suggestions {
			plain[UnescapeFieldPath(key)] = list
		}
		spot.Suggestions = plain
	}
	return spot, nil
}
