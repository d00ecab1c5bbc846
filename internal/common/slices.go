package common

// UnknownStr is the String() value of out-of-range enum values.
const UnknownStr = "unknown"

// Dedup returns s without repeated elements, keeping the first occurrence.
func Dedup[S ~[]E, E comparable](s S) S {
	if len(s) < 2 {
		return s
	}

	seen := make(map[E]struct{}, len(s))
	out := make(S, 0, len(s))

	for _, e := range s {
		if _, ok := seen[e]; ok {
			continue
		}

		seen[e] = struct{}{}
		out = append(out, e)
	}

	return out
}
