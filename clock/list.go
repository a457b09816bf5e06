package clock

import "github.com/virtlab/gom/object"

// A NamedList is the host-internal clock bookkeeping of one device. Each
// entry holds its own counted reference, kept alive until Finalize runs
// during device teardown; releasing the component's handle earlier never
// frees a listed clock.
type NamedList struct {
	entries []listEntry
}

type listEntry struct {
	name string
	ref  *object.Owned[*Clock]
}

// InitIn creates an input clock, parents it under owner, records it in
// the list, and returns the component's own handle. A nil cb installs no
// callback; such a clock never dispatches events to the component.
//
// The caller must hold the big lock.
func (l *NamedList) InitIn(
	owner object.Object,
	name string,
	cb Callback,
	events Event,
) *object.Owned[*Clock] {
	object.AssertBigLockHeld()

	clk := l.add(owner, name, In)
	clk.callback = cb
	clk.events = events

	return object.NewOwned(clk)
}

// InitOut creates an output clock, parents it under owner, records it in
// the list, and returns the component's own handle. Output clocks carry
// no callback; they are driven by the component.
//
// The caller must hold the big lock.
func (l *NamedList) InitOut(
	owner object.Object,
	name string,
) *object.Owned[*Clock] {
	object.AssertBigLockHeld()

	clk := l.add(owner, name, Out)

	return object.NewOwned(clk)
}

func (l *NamedList) add(
	owner object.Object,
	name string,
	dir Direction,
) *Clock {
	if _, ok := l.Find(name); ok {
		panic("clock: clock " + name + " already exists on " + owner.Name())
	}

	clk := object.New(TypeClock).(*Clock)
	clk.SetName(name)
	clk.direction = dir
	object.SetParent(clk, owner)

	// The allocation reference becomes the host-internal one; it is
	// released only by Finalize.
	l.entries = append(l.entries, listEntry{
		name: name,
		ref:  object.AdoptOwned(clk),
	})

	return clk
}

// Find returns the listed clock with the given name.
func (l *NamedList) Find(name string) (*Clock, bool) {
	for _, e := range l.entries {
		if e.name == name {
			return e.ref.Get(), true
		}
	}

	return nil, false
}

// Names returns the listed clock names, in creation order.
func (l *NamedList) Names() []string {
	names := make([]string, 0, len(l.entries))
	for _, e := range l.entries {
		names = append(names, e.name)
	}

	return names
}

// Finalize releases every host-internal reference. It runs once, from
// the device type's finalize chain; clocks whose component handles are
// already gone are freed here.
func (l *NamedList) Finalize() {
	for _, e := range l.entries {
		e.ref.Release()
	}

	l.entries = nil
}
