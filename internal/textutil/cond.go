package textutil

// Ternary returns a when cond holds and b otherwise. The CLI uses it to pick
// status kinds and fallback labels inline.
func Ternary[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}
