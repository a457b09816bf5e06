// Package vmstate declares migration descriptors: static tables that
// name, for one device type, the instance fields whose values make up
// the device's saved state. A descriptor is attached to the class once
// at class-init time and consumed by the save/load engine in this
// package.
package vmstate

// Kind identifies the scalar encoding of one saved field.
type Kind int

const (
	Bool Kind = iota
	UInt8
	UInt16
	UInt32
	UInt64
	Int32
)

func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case UInt8:
		return "uint8"
	case UInt16:
		return "uint16"
	case UInt32:
		return "uint32"
	case UInt64:
		return "uint64"
	case Int32:
		return "int32"
	}

	return "unknown"
}

// A Field binds a saved-state name to a byte offset in the instance
// state struct.
type Field struct {
	Name   string
	Offset uintptr
	Kind   Kind
}

// A Description is the migration table of one device type. Descriptions
// are declared as package-level variables so their memory outlives every
// instance of the class they are attached to.
type Description struct {
	Name    string
	Version uint32
	Fields  []Field
}
