package device

import (
	"github.com/virtlab/gom/clock"
	"github.com/virtlab/gom/object"
	"github.com/virtlab/gom/resettable"
)

// TypeDevice is the abstract base type every device descends from.
const TypeDevice = "device"

// State is the per-instance device bookkeeping. Concrete device structs
// embed it (first, so field offsets of their own state follow it) and
// thereby satisfy Dev.
type State struct {
	object.Base

	realized bool
	clocks   clock.NamedList
}

// A Dev is any object whose type descends from the device base type.
type Dev interface {
	object.Object

	// DeviceState exposes the embedded device bookkeeping.
	DeviceState() *State
}

// DeviceState returns s itself.
func (s *State) DeviceState() *State { return s }

// Realized reports whether second-stage construction has run.
func (s *State) Realized() bool { return s.realized }

// Clock returns the named clock attached to this device.
func (s *State) Clock(name string) (*clock.Clock, bool) {
	return s.clocks.Find(name)
}

// ClockNames returns the attached clock names in creation order.
func (s *State) ClockNames() []string {
	return s.clocks.Names()
}

func init() {
	object.RegisterType(&object.Type{
		Name:        TypeDevice,
		Parent:      object.TypeObject,
		Abstract:    true,
		NewInstance: func() object.Object { return &State{} },
		NewClass:    func() object.AnyClass { return &Class{} },
		Interfaces:  []object.InterfaceInfo{resettable.Interface()},
		InstanceInit: func(obj object.Object) {
			// Defaults land before any user property assignment and
			// therefore before realize.
			ClassOf(obj).Props.ApplyDefaults(object.StatePointer(obj))
		},
		InstanceFinalize: func(obj object.Object) {
			obj.(Dev).DeviceState().clocks.Finalize()
		},
	})
}
