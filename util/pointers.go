package util

// Ptr returns a pointer to the given value.
func Ptr[T any](v T) *T {
	return &v
}

// Deref returns the value pointed to by p, or the zero value if p is nil.
func Deref[T any](p *T) T {
	if p != nil {
		return *p
	}
	var zero T
	return zero
}

// PtrIf returns a pointer to v when set is true and nil otherwise.
// Useful for turning "was this flag given" into an optional field.
func PtrIf[T any](set bool, v T) *T {
	if !set {
		return nil
	}
	return &v
}
