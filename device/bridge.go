package device

import (
	"github.com/virtlab/gom/object"
	"github.com/virtlab/gom/property"
	"github.com/virtlab/gom/resettable"
	"github.com/virtlab/gom/vmstate"
)

// Realizer is implemented by types that take part in realization, the
// second stage of device creation. It runs after property values have
// been assigned and contains the setup that depends on them. Bridged
// realize implementations cannot currently fail; the host contract's
// error output stays unwritten.
type Realizer interface {
	Realize()
}

// PropertyLister is implemented by types that declare user-settable
// properties. The returned table must be static data: the method is
// called once on a nil receiver during class init, and the slice is
// handed to the host by reference for the process lifetime.
type PropertyLister interface {
	DeviceProperties() []property.Property
}

// Migratable is implemented by types that declare a migration layout.
// Like DeviceProperties, Description runs on a nil receiver during
// class init and must return static data.
type Migratable interface {
	Description() *vmstate.Description
}

// ClassInit wires the capabilities T declares into the class record:
// realize, the migration descriptor, the property table (installed
// exactly once per class), and, through the reset interface's own
// bridge, the declared reset phases. Capabilities T does not declare
// leave the inherited slots untouched; a type declaring nothing flows
// through the same path and keeps the parent's record unchanged.
func ClassInit[T any](dc *Class) {
	var probe *T

	if _, ok := any(probe).(Realizer); ok {
		dc.Realize = realizeFn[T]
	}

	if m, ok := any(probe).(Migratable); ok {
		dc.VMSD = m.Description()
	}

	if pl, ok := any(probe).(PropertyLister); ok {
		if props := pl.DeviceProperties(); len(props) > 0 {
			dc.Props.Install(props)
		}
	}

	resettable.ClassInit[T](resetClassOf(dc))
}

func resetClassOf(dc *Class) *resettable.Class {
	ic := dc.Interface(resettable.InterfaceName)
	if ic == nil {
		panic("device: class " + dc.Type().Name +
			" lacks the resettable interface")
	}

	return ic.(*resettable.Class)
}

// realizeFn matches the host's realize slot contract. Each type gets
// its own instantiation; dispatch recovers the typed implementation
// through the capability interface, covering derived instances too. A
// failed recovery is a bridge-construction bug and aborts.
func realizeFn[T any](dev object.Object, errp *error) {
	impl, ok := dev.(Realizer)
	if !ok {
		panic("device: realize dispatched to " + dev.Name() +
			", which declares no realize")
	}

	impl.Realize()

	_ = errp // reserved by the host contract; see Realizer
}

// RegisterType registers a concrete device type under the abstract
// device base.
func RegisterType[T any](name string) {
	RegisterTypeWithParent[T](name, TypeDevice)
}

// RegisterTypeWithParent registers a concrete device type with an
// explicit parent, for device types that derive from another device
// type.
func RegisterTypeWithParent[T any](name, parent string) {
	object.RegisterType(&object.Type{
		Name:        name,
		Parent:      parent,
		NewInstance: newInstance[T],
		NewClass:    func() object.AnyClass { return &Class{} },
		ClassInit: func(c object.AnyClass) {
			ClassInit[T](c.(*Class))
		},
		Interfaces: []object.InterfaceInfo{resettable.Interface()},
	})
}

func newInstance[T any]() object.Object {
	var state T

	dev, ok := any(&state).(Dev)
	if !ok {
		panic("device: instance struct does not embed device.State")
	}

	return dev
}
