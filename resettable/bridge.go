package resettable

import "github.com/virtlab/gom/object"

// ClassInit wires the reset phases T declares into the phase table.
// Probing happens here, once per type; the trampolines never re-check.
// A slot T does not declare is left untouched, so an implementation
// inherited from the parent class (if any) stays in place.
func ClassInit[T any](rc *Class) {
	var probe *T

	if _, ok := any(probe).(Enterer); ok {
		rc.Phases.Enter = enterFn[T]
	}

	if _, ok := any(probe).(Holder); ok {
		rc.Phases.Hold = holdFn[T]
	}

	if _, ok := any(probe).(Exiter); ok {
		rc.Phases.Exit = exitFn[T]
	}
}

// The trampolines below match the host's phase slot contract. Each type
// gets its own instantiation at class-init time; at dispatch time the
// trampoline recovers the typed implementation from the opaque object
// reference through the capability interface, which also covers
// instances of types derived from T. The callers guarantee the object's
// class carries the slot and that no other goroutine mutates the
// instance; a failed recovery is therefore a bridge-construction bug
// and aborts.

func enterFn[T any](obj object.Object, kind Kind) {
	impl, ok := obj.(Enterer)
	if !ok {
		panic("resettable: enter dispatched to " + obj.Name() +
			", which declares no enter phase")
	}

	impl.ResetEnter(kind)
}

func holdFn[T any](obj object.Object, kind Kind) {
	impl, ok := obj.(Holder)
	if !ok {
		panic("resettable: hold dispatched to " + obj.Name() +
			", which declares no hold phase")
	}

	impl.ResetHold(kind)
}

func exitFn[T any](obj object.Object, kind Kind) {
	impl, ok := obj.(Exiter)
	if !ok {
		panic("resettable: exit dispatched to " + obj.Name() +
			", which declares no exit phase")
	}

	impl.ResetExit(kind)
}
