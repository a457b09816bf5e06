package device

import (
	"fmt"

	"github.com/virtlab/gom/object"
)

// SaveState serializes dev's fields per the migration descriptor its
// class attached at class-init time.
func SaveState(dev Dev) ([]byte, error) {
	dc := ClassOf(dev)
	if dc.VMSD == nil {
		return nil, fmt.Errorf(
			"device: type %s declares no migration descriptor",
			dev.ObjectBase().Type().Name)
	}

	return dc.VMSD.Save(object.StatePointer(dev))
}

// LoadState restores dev's fields from data produced by SaveState on a
// device of the same type.
func LoadState(dev Dev, data []byte) error {
	dc := ClassOf(dev)
	if dc.VMSD == nil {
		return fmt.Errorf(
			"device: type %s declares no migration descriptor",
			dev.ObjectBase().Type().Name)
	}

	return dc.VMSD.Load(object.StatePointer(dev), data)
}
