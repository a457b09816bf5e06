package device

import (
	"github.com/virtlab/gom/chardev"
	"github.com/virtlab/gom/clock"
	"github.com/virtlab/gom/hooking"
	"github.com/virtlab/gom/object"
)

// The capability extension: operations available uniformly on every
// device, with no per-type specialization. Clock attachment and property
// assignment mutate device state, so each operation asserts the big
// lock.

// PosPropertySet fires on a device after a property assignment. The hook
// Item is the property name, the Detail the assigned value.
var PosPropertySet = &hooking.Pos{Name: "PropertySet"}

// InitClockIn adds an input clock named name to dev. When cb is non-nil
// it is invoked, with dev itself as the first parameter, for the events
// in the mask. A clock created with a nil cb never dispatches to the
// component, regardless of event traffic.
//
// The clock is parented under dev, but it also stays alive after the
// returned handle is released: the device's clock list keeps an internal
// reference until the finalize chain tears the list down.
func InitClockIn[T Dev](
	dev T,
	name string,
	cb func(dev T, event clock.Event),
	events clock.Event,
) *object.Owned[*clock.Clock] {
	var raw clock.Callback
	if cb != nil {
		// The trampoline recovers the concrete device from the opaque
		// owner reference the clock dispatch hands back.
		raw = func(opaque object.Object, event clock.Event) {
			cb(opaque.(T), event)
		}
	}

	return dev.DeviceState().clocks.InitIn(dev, name, raw, events)
}

// InitClockOut adds an output clock named name. Output clocks carry no
// callback; the component drives them. The same dual-ownership note as
// for InitClockIn applies.
func (s *State) InitClockOut(name string) *object.Owned[*clock.Clock] {
	return s.clocks.InitOut(s.Self(), name)
}

// InitClockInRaw is the untyped variant of InitClockIn for callers that
// already hold the opaque object reference.
func (s *State) InitClockInRaw(
	name string,
	cb clock.Callback,
	events clock.Event,
) *object.Owned[*clock.Clock] {
	return s.clocks.InitIn(s.Self(), name, cb, events)
}

// SetProp assigns the named property from a component-level value,
// converting it into the representation the descriptor expects. Unknown
// names, kind mismatches, and assignment after realize panic.
func (s *State) SetProp(name string, v any) {
	object.AssertBigLockHeld()

	if s.realized {
		panic("device: property " + name + " assigned after realize on " +
			s.Name())
	}

	self := s.Self()

	p, ok := ClassOf(self).Props.Find(name)
	if !ok {
		panic("device: unknown property " + name + " on " +
			s.Type().Name)
	}

	p.Set(object.StatePointer(self), v)

	s.InvokeHook(hooking.Ctx{
		Domain: self,
		Pos:    PosPropertySet,
		Item:   name,
		Detail: v,
	})
}

// SetPropBool assigns a bool or bit property.
func (s *State) SetPropBool(name string, v bool) { s.SetProp(name, v) }

// SetPropUint32 assigns a uint32 property.
func (s *State) SetPropUint32(name string, v uint32) { s.SetProp(name, v) }

// SetPropUint64 assigns a uint64 property.
func (s *State) SetPropUint64(name string, v uint64) { s.SetProp(name, v) }

// SetPropString assigns a string property.
func (s *State) SetPropString(name string, v string) { s.SetProp(name, v) }

// SetPropChardev assigns a character-backend property.
func (s *State) SetPropChardev(name string, chr *chardev.Chardev) {
	s.SetProp(name, chr)
}

// Prop reads the named property's current value.
func (s *State) Prop(name string) any {
	self := s.Self()

	p, ok := ClassOf(self).Props.Find(name)
	if !ok {
		panic("device: unknown property " + name + " on " +
			s.Type().Name)
	}

	return p.Get(object.StatePointer(self))
}
