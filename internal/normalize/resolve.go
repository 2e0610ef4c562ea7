package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ResolveValue returns the first value present under any of the candidate
// keys. Presence, not truthiness, decides: a null or zero value under an
// earlier candidate wins over a populated later one. When no candidate
// matches exactly, a second pass folds every actual key (lowercase,
// alphanumerics only) and retries; that absorbs upstream naming drift
// (Title_Case variants, leading underscores, stray punctuation) while the
// exact pass keeps intentional precedence when several plausible keys
// coexist on one record.
func ResolveValue(rec map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := rec[key]; ok {
			return v, true
		}
	}

	folded := make(map[string]string, len(rec))
	for actual := range rec {
		f := foldKey(actual)
		if _, taken := folded[f]; !taken {
			folded[f] = actual
		}
	}
	for _, key := range keys {
		if actual, ok := folded[foldKey(key)]; ok {
			return rec[actual], true
		}
	}
	return nil, false
}

// ResolveString resolves and stringifies; absent resolves to "".
func ResolveString(rec map[string]any, keys ...string) string {
	v, ok := ResolveValue(rec, keys...)
	if !ok {
		return ""
	}
	return SafeString(v)
}

// ResolveNumber resolves a numeric field. Unlike ResolveValue it treats an
// empty-string value as absent, and it never yields NaN or an infinity:
// an unparseable value resolves to (0, false).
func ResolveNumber(rec map[string]any, keys ...string) (float64, bool) {
	v, ok := ResolveValue(rec, keys...)
	if !ok {
		return 0, false
	}
	return numberOf(v)
}

// ResolveInt is ResolveNumber truncated, with 0 for absent.
func ResolveInt(rec map[string]any, keys ...string) int {
	f, ok := ResolveNumber(rec, keys...)
	if !ok {
		return 0
	}
	return int(f)
}

func numberOf(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func foldKey(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	return b.String()
}
