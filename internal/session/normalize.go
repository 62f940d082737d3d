package session

import (
	"encoding/json"
	"strings"
)

const quoteChars = `"'`

// NormalizeField cleans a value read from the cached user record, which
// upstream sometimes serialises with stray quotes or as nested JSON text.
//
//	nil               → ""
//	42                → 42             (non-strings pass through)
//	`"alice"`         → "alice"
//	`'2021001'`       → "2021001"
//	`"{"a":1}"`       → map[string]any{"a": 1.0}
//	`[1,2`            → "[1,2"         (invalid JSON stays a string)
func NormalizeField(v any) any {
	if v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return v
	}
	trimmed := strings.TrimRight(strings.TrimLeft(s, quoteChars), quoteChars)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		var decoded any
		if json.Unmarshal([]byte(trimmed), &decoded) == nil {
			return decoded
		}
	}
	return trimmed
}

// NormalizeString is NormalizeField for string-typed profile fields: only the
// quote stripping applies.
func NormalizeString(s string) string {
	return strings.TrimRight(strings.TrimLeft(s, quoteChars), quoteChars)
}
