package cache

// Writer propagates cache mutations to an external system of record
// before they commit. Both hooks run inside the mutated key's critical
// section: they must be quick, must not block on other cache calls, and
// a returned error aborts the enclosing mutation with no visible change.
//
// A nil Writer is the disabled identity: the engine skips the hook
// entirely and Clear may discard the store wholesale.
type Writer[K comparable, V any] interface {
	// Write replaces the value for key in the system of record.
	// Called for an insert or replacement whose value actually changed,
	// never for loads or value-unchanged remaps.
	Write(key K, value V) error

	// Delete removes the key from the system of record. Called exactly
	// when a matching entry is being removed from the cache.
	Delete(key K, value V, cause RemovalCause) error
}

// WriterFuncs adapts two funcs to the Writer interface. Either func may
// be nil, in which case that hook is a no-op.
type WriterFuncs[K comparable, V any] struct {
	WriteFn  func(key K, value V) error
	DeleteFn func(key K, value V, cause RemovalCause) error
}

func (w WriterFuncs[K, V]) Write(key K, value V) error {
	if w.WriteFn == nil {
		return nil
	}
	return w.WriteFn(key, value)
}

func (w WriterFuncs[K, V]) Delete(key K, value V, cause RemovalCause) error {
	if w.DeleteFn == nil {
		return nil
	}
	return w.DeleteFn(key, value, cause)
}
