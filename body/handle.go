package body

// Handle is an opaque index identifying a rigid body inside a specific
// Store. It is only ever valid against the Store that produced it; there
// is no cross-store validation.
type Handle int

// InvalidHandle is the sentinel value denoting an unset handle.
const InvalidHandle Handle = -1

// Valid reports whether h is not the sentinel value. It does not check
// h against any particular Store's bounds — callers own handle validity.
func (h Handle) Valid() bool {
	return h != InvalidHandle
}
