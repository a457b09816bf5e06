package object

// Owned is a counted reference to an object that more than one holder
// keeps alive, such as a clock reachable from both the component and the
// host's teardown bookkeeping. Each Owned handle accounts for exactly one
// reference; only the last release frees the object.
type Owned[T Object] struct {
	obj      T
	released bool
}

// NewOwned takes a new reference to obj and wraps it.
func NewOwned[T Object](obj T) *Owned[T] {
	Ref(obj)

	return &Owned[T]{obj: obj}
}

// AdoptOwned wraps obj without taking a new reference: the handle adopts
// a reference the caller already holds, typically the allocation
// reference returned by New.
func AdoptOwned[T Object](obj T) *Owned[T] {
	return &Owned[T]{obj: obj}
}

// Get returns the wrapped object. The handle stays live.
func (o *Owned[T]) Get() T {
	if o.released {
		panic("object: use of a released handle")
	}

	return o.obj
}

// Clone takes one more reference and returns an independent handle.
func (o *Owned[T]) Clone() *Owned[T] {
	return NewOwned(o.Get())
}

// Release drops the handle's reference. Releasing a handle twice is an
// invariant violation and panics.
func (o *Owned[T]) Release() {
	if o.released {
		panic("object: double release of an owned handle")
	}

	o.released = true
	Unref(o.obj)
}
