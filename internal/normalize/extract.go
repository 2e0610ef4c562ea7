package normalize

// Wrapper keys probed, in priority order, when a payload nests its
// collection inside an object instead of returning the array directly.
var collectionKeys = []string{"items", "data", "results", "list"}

// ExtractArray pulls an ordered record sequence out of whatever container
// shape the backend chose. Arrays pass through untouched; objects are
// probed for the known wrapper keys; anything else (scalar, null, object
// with no wrapper) yields an empty sequence. Malformed input is never an
// error here: a page handed a garbage payload renders an empty widget,
// it does not crash.
func ExtractArray(raw any) []any {
	switch v := raw.(type) {
	case []any:
		return v
	case map[string]any:
		for _, key := range collectionKeys {
			if arr, ok := v[key].([]any); ok {
				return arr
			}
		}
	}
	return nil
}

// RecordOf narrows one collection element to a raw record. Non-record
// elements are the caller's cue to skip the row.
func RecordOf(v any) (map[string]any, bool) {
	rec, ok := v.(map[string]any)
	return rec, ok
}
