package device

import (
	"github.com/virtlab/gom/object"
	"github.com/virtlab/gom/property"
	"github.com/virtlab/gom/vmstate"
)

// Class is the class record of device types. It extends the base object
// class with the realize slot, the attached migration descriptor, and
// the property table.
type Class struct {
	object.Class

	// Realize is the second-stage construction slot. The error output
	// parameter is part of the host contract; bridged realize
	// implementations cannot currently fail and never write it.
	Realize func(dev object.Object, errp *error)

	// VMSD is the migration descriptor consumed by the save/load engine.
	VMSD *vmstate.Description

	// Props is the class's property table, inherited entries included.
	Props property.Table
}

// AdoptParent copies the parent class's slots. Called by the registry
// before the type's own class-init, so derived overrides win.
func (c *Class) AdoptParent(parent object.AnyClass) {
	c.Class.AdoptParent(parent)

	pc, ok := parent.(*Class)
	if !ok {
		return
	}

	c.Realize = pc.Realize
	c.VMSD = pc.VMSD
	c.Props.CopyFrom(&pc.Props)
}

// ClassOf returns the device class record of obj.
func ClassOf(obj object.Object) *Class {
	return obj.ObjectBase().Class().(*Class)
}
