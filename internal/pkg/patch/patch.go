package patch

// Coalesce returns the value pointed to by ptr if it's not nil, otherwise returns fallback
func Coalesce[T any](ptr *T, fallback T) T {
	if ptr != nil {
		return *ptr
	}
	return fallback
}

// AnyPresent reports whether at least one optional field of a partial update is set.
func AnyPresent[T any](ptrs ...*T) bool {
	for _, p := range ptrs {
		if p != nil {
			return true
		}
	}
	return false
}
