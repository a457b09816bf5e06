package resettable

import (
	"github.com/virtlab/gom/hooking"
	"github.com/virtlab/gom/object"
)

// Reset drives a system-wide reset over objs. The phase ordering is
// strict across the whole set: every Enter happens before any Hold, and
// every Hold happens before any Exit. Objects whose types do not declare
// a phase contribute nothing to that pass, not even a no-op call.
//
// The caller must hold the big lock; phase implementations mutate device
// state.
func Reset(objs []object.Object, kind Kind) {
	object.AssertBigLockHeld()

	for _, obj := range objs {
		runPhase(obj, kind, PosResetEnter, phasesOf(obj).Enter)
	}

	for _, obj := range objs {
		runPhase(obj, kind, PosResetHold, phasesOf(obj).Hold)
	}

	for _, obj := range objs {
		runPhase(obj, kind, PosResetExit, phasesOf(obj).Exit)
	}
}

func phasesOf(obj object.Object) Phases {
	rc := ClassOf(obj)
	if rc == nil {
		return Phases{}
	}

	return rc.Phases
}

func runPhase(
	obj object.Object,
	kind Kind,
	pos *hooking.Pos,
	phase func(object.Object, Kind),
) {
	if phase == nil {
		return
	}

	phase(obj, kind)

	obj.ObjectBase().InvokeHook(hooking.Ctx{
		Domain: obj,
		Pos:    pos,
		Item:   kind,
	})
}

// A Controller keeps the set of reset roots and resets them together.
// The machine package registers every realized device with one.
type Controller struct {
	roots []object.Object
}

// Register adds obj to the reset set.
func (c *Controller) Register(obj object.Object) {
	c.roots = append(c.roots, obj)
}

// Roots returns the registered reset set.
func (c *Controller) Roots() []object.Object {
	return c.roots
}

// ResetAll resets every registered object with the strict system-wide
// phase ordering. The caller must hold the big lock.
func (c *Controller) ResetAll(kind Kind) {
	Reset(c.roots, kind)
}
