package normalize

// Dedupe filters secondary down to records whose identity does not
// already appear in primary, preserving secondary's relative order.
// Primary is never altered. Used so that an entity-specific content list
// and a broader topic-matched list never show the same record twice.
func Dedupe[T any, K comparable](primary, secondary []T, identity func(T) K) []T {
	seen := make(map[K]struct{}, len(primary))
	for _, rec := range primary {
		seen[identity(rec)] = struct{}{}
	}

	out := make([]T, 0, len(secondary))
	for _, rec := range secondary {
		if _, dup := seen[identity(rec)]; dup {
			continue
		}
		out = append(out, rec)
	}
	return out
}
