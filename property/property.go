// Package property implements the static property tables that device
// classes hand to the host: descriptors binding a user-visible name to a
// byte offset in the instance state struct, a typed accessor, and an
// optional default value.
//
// Offsets are computed with unsafe.Offsetof against the component's own
// state struct and stay valid for the lifetime of the class, which
// outlives every instance. Tables are declared as package-level slices so
// their backing memory lives for the whole process.
package property

import "unsafe"

// A Property binds a user-visible name to one field of an instance
// state struct.
type Property struct {
	Name   string
	Info   *Info
	Offset uintptr

	// BitNr selects the bit within a flag word for bit-typed properties.
	BitNr uint8

	// SetDefault tells the host to apply DefVal during instance init.
	SetDefault bool

	// DefVal holds the default for every scalar kind. Bool and bit
	// defaults are non-zero for true.
	DefVal uint64

	// DefValStr holds the default for string-typed properties.
	DefValStr string
}

// Define declares a property with no default value.
func Define(name string, info *Info, offset uintptr) Property {
	return Property{Name: name, Info: info, Offset: offset}
}

// DefineWithDefault declares a property whose default is applied before
// user-assigned values.
func DefineWithDefault(
	name string,
	info *Info,
	offset uintptr,
	defval uint64,
) Property {
	return Property{
		Name:       name,
		Info:       info,
		Offset:     offset,
		SetDefault: true,
		DefVal:     defval,
	}
}

// DefineBit declares a flag property stored in one bit of a uint32
// field. Bit properties always carry a default.
func DefineBit(name string, offset uintptr, bitnr uint8, defval bool) Property {
	p := Property{
		Name:       name,
		Info:       Bit,
		Offset:     offset,
		BitNr:      bitnr,
		SetDefault: true,
	}
	if defval {
		p.DefVal = 1
	}

	return p
}

// DefineBitNoDefault declares a bit property that keeps the field's
// zero value unless the user assigns one. This is the explicit opt-out
// from DefineBit's defaulting.
func DefineBitNoDefault(name string, offset uintptr, bitnr uint8) Property {
	return Property{
		Name:   name,
		Info:   Bit,
		Offset: offset,
		BitNr:  bitnr,
	}
}

// DefineString declares a string property with a default.
func DefineString(name string, offset uintptr, defval string) Property {
	return Property{
		Name:       name,
		Info:       String,
		Offset:     offset,
		SetDefault: true,
		DefValStr:  defval,
	}
}

func (p *Property) field(base unsafe.Pointer) unsafe.Pointer {
	return unsafe.Add(base, p.Offset)
}

// ApplyDefault writes the declared default into the instance state.
func (p *Property) ApplyDefault(base unsafe.Pointer) {
	if !p.SetDefault {
		return
	}

	p.Info.applyDefault(base, p)
}

// Set converts v and writes it into the instance state. It panics when v
// does not match the property's kind; property assignment happens before
// realize, under the big lock, and a kind mismatch is a caller bug.
func (p *Property) Set(base unsafe.Pointer, v any) {
	p.Info.set(base, p, v)
}

// Get reads the current value from the instance state.
func (p *Property) Get(base unsafe.Pointer) any {
	return p.Info.get(base, p)
}
