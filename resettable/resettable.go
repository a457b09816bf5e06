// Package resettable implements the three-phase reset protocol as an
// interface class of the object model, together with the bridge that
// wires a concrete type's optional phase implementations into the
// class's phase table.
package resettable

import (
	"github.com/virtlab/gom/hooking"
	"github.com/virtlab/gom/object"
)

// InterfaceName keys the reset phase table in a class record.
const InterfaceName = "resettable"

// Kind tells a phase implementation why the reset is happening.
type Kind int

const (
	// ColdReset models power-on or a hard system reset.
	ColdReset Kind = iota

	// WakeupReset is issued when the system leaves a suspended state.
	WakeupReset

	// SnapshotLoadReset is issued before loading saved instance state.
	SnapshotLoadReset
)

func (k Kind) String() string {
	switch k {
	case ColdReset:
		return "cold"
	case WakeupReset:
		return "wakeup"
	case SnapshotLoadReset:
		return "snapshot-load"
	}

	return "unknown"
}

// Enterer is implemented by types that take part in the Enter phase.
// Enter may only reset the object's local state; it must not have
// side effects on other objects, such as raising an interrupt line or
// touching another device's memory.
type Enterer interface {
	ResetEnter(kind Kind)
}

// Holder is implemented by types that take part in the Hold phase, which
// runs once every object in the reset set has completed Enter. Actions
// that affect other objects are permitted here. If in doubt, implement
// this phase.
type Holder interface {
	ResetHold(kind Kind)
}

// Exiter is implemented by types that take part in the Exit phase, when
// the object leaves the reset state. Side effects on other objects are
// permitted.
type Exiter interface {
	ResetExit(kind Kind)
}

// Phases is the phase slot table. A slot is populated iff the concrete
// type declared the corresponding phase; empty slots are never called.
type Phases struct {
	Enter func(obj object.Object, kind Kind)
	Hold  func(obj object.Object, kind Kind)
	Exit  func(obj object.Object, kind Kind)
}

// Class is the reset interface's per-type slot table.
type Class struct {
	Phases Phases
}

// CloneInterfaceClass copies the phase table for a derived class record.
func (c *Class) CloneInterfaceClass() object.InterfaceClass {
	cp := *c

	return &cp
}

// Interface declares the reset interface for a type registration.
func Interface() object.InterfaceInfo {
	return object.InterfaceInfo{
		Name: InterfaceName,
		New:  func() object.InterfaceClass { return &Class{} },
	}
}

// ClassOf returns obj's reset phase table, or nil if obj's type does not
// implement the reset interface.
func ClassOf(obj object.Object) *Class {
	ic := obj.ObjectBase().Class().ObjectClass().Interface(InterfaceName)
	if ic == nil {
		return nil
	}

	return ic.(*Class)
}

// Hook positions fired on an object around each of its reset phases. The
// hook Item is the Kind.
var (
	PosResetEnter = &hooking.Pos{Name: "ResetEnter"}
	PosResetHold  = &hooking.Pos{Name: "ResetHold"}
	PosResetExit  = &hooking.Pos{Name: "ResetExit"}
)
