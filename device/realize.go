package device

import (
	"github.com/virtlab/gom/hooking"
	"github.com/virtlab/gom/object"
)

// PosRealize fires on a device after it has been realized.
var PosRealize = &hooking.Pos{Name: "Realize"}

// Realize runs second-stage construction on dev: the class's realize
// slot, inherited or own, if any is installed. Property values must be
// assigned before this point. Realizing a device twice panics.
//
// The returned error propagates a value written through the host
// contract's error output by a native realize slot; bridged slots never
// produce one.
//
// The caller must hold the big lock.
func Realize(dev Dev) error {
	object.AssertBigLockHeld()

	s := dev.DeviceState()
	if s.realized {
		panic("device: " + dev.Name() + " realized twice")
	}

	dc := ClassOf(dev)

	var err error
	if dc.Realize != nil {
		dc.Realize(dev, &err)
	}

	if err != nil {
		return err
	}

	s.realized = true

	s.InvokeHook(hooking.Ctx{
		Domain: dev,
		Pos:    PosRealize,
	})

	return nil
}
