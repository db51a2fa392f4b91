package validation

import (
	"net/url"
	"strings"
)

// Sanitize trims every string leaf of data and percent-decodes the ones that
// contain '%'. Nested maps are walked; other values are left alone. data is
// modified in place and returned.
func Sanitize(data map[string]any) map[string]any {
	for key, value := range data {
		data[key] = sanitizeValue(value)
	}
	return data
}

func sanitizeValue(value any) any {
	switch v := value.(type) {
	case string:
		return sanitizeString(v)
	case map[string]any:
		return Sanitize(v)
	default:
		return value
	}
}

func sanitizeString(s string) string {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "%") {
		return s
	}
	// A malformed escape keeps the trimmed input.
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}
