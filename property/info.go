package property

import (
	"fmt"
	"unsafe"

	"github.com/virtlab/gom/chardev"
)

// An Info is the type descriptor shared by all properties of one kind.
// Infos are static singletons; descriptors reference them by pointer.
type Info struct {
	Name string

	set          func(base unsafe.Pointer, p *Property, v any)
	get          func(base unsafe.Pointer, p *Property) any
	applyDefault func(base unsafe.Pointer, p *Property)
}

func kindMismatch(p *Property, v any) string {
	return fmt.Sprintf("property: %s expects %s, got %T", p.Name, p.Info.Name, v)
}

// Bool is the descriptor for bool fields.
var Bool = &Info{
	Name: "bool",
	set: func(base unsafe.Pointer, p *Property, v any) {
		b, ok := v.(bool)
		if !ok {
			panic(kindMismatch(p, v))
		}
		*(*bool)(p.field(base)) = b
	},
	get: func(base unsafe.Pointer, p *Property) any {
		return *(*bool)(p.field(base))
	},
	applyDefault: func(base unsafe.Pointer, p *Property) {
		*(*bool)(p.field(base)) = p.DefVal != 0
	},
}

// Bit is the descriptor for flag properties stored in one bit of a
// uint32 field.
var Bit = &Info{
	Name: "bit",
	set: func(base unsafe.Pointer, p *Property, v any) {
		b, ok := v.(bool)
		if !ok {
			panic(kindMismatch(p, v))
		}
		word := (*uint32)(p.field(base))
		if b {
			*word |= 1 << p.BitNr
		} else {
			*word &^= 1 << p.BitNr
		}
	},
	get: func(base unsafe.Pointer, p *Property) any {
		return *(*uint32)(p.field(base))&(1<<p.BitNr) != 0
	},
	applyDefault: func(base unsafe.Pointer, p *Property) {
		word := (*uint32)(p.field(base))
		if p.DefVal != 0 {
			*word |= 1 << p.BitNr
		} else {
			*word &^= 1 << p.BitNr
		}
	},
}

func uintInfo[U interface {
	uint8 | uint16 | uint32 | uint64
}](name string) *Info {
	return &Info{
		Name: name,
		set: func(base unsafe.Pointer, p *Property, v any) {
			u, ok := toUint64(v)
			if !ok {
				panic(kindMismatch(p, v))
			}
			*(*U)(p.field(base)) = U(u)
		},
		get: func(base unsafe.Pointer, p *Property) any {
			return uint64(*(*U)(p.field(base)))
		},
		applyDefault: func(base unsafe.Pointer, p *Property) {
			*(*U)(p.field(base)) = U(p.DefVal)
		},
	}
}

func toUint64(v any) (uint64, bool) {
	switch n := v.(type) {
	case uint64:
		return n, true
	case uint32:
		return uint64(n), true
	case uint16:
		return uint64(n), true
	case uint8:
		return uint64(n), true
	case uint:
		return uint64(n), true
	case int:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	}

	return 0, false
}

// Unsigned integer descriptors of the usual widths.
var (
	UInt8  = uintInfo[uint8]("uint8")
	UInt16 = uintInfo[uint16]("uint16")
	UInt32 = uintInfo[uint32]("uint32")
	UInt64 = uintInfo[uint64]("uint64")
)

// Int32 is the descriptor for int32 fields.
var Int32 = &Info{
	Name: "int32",
	set: func(base unsafe.Pointer, p *Property, v any) {
		switch n := v.(type) {
		case int32:
			*(*int32)(p.field(base)) = n
		case int:
			*(*int32)(p.field(base)) = int32(n)
		default:
			panic(kindMismatch(p, v))
		}
	},
	get: func(base unsafe.Pointer, p *Property) any {
		return *(*int32)(p.field(base))
	},
	applyDefault: func(base unsafe.Pointer, p *Property) {
		*(*int32)(p.field(base)) = int32(p.DefVal)
	},
}

// String is the descriptor for string fields.
var String = &Info{
	Name: "string",
	set: func(base unsafe.Pointer, p *Property, v any) {
		s, ok := v.(string)
		if !ok {
			panic(kindMismatch(p, v))
		}
		*(*string)(p.field(base)) = s
	},
	get: func(base unsafe.Pointer, p *Property) any {
		return *(*string)(p.field(base))
	},
	applyDefault: func(base unsafe.Pointer, p *Property) {
		*(*string)(p.field(base)) = p.DefValStr
	},
}

// Chardev is the descriptor for *chardev.Chardev fields. Chardev
// properties have no default; the backend is always caller-supplied.
var Chardev = &Info{
	Name: "chardev",
	set: func(base unsafe.Pointer, p *Property, v any) {
		c, ok := v.(*chardev.Chardev)
		if !ok {
			panic(kindMismatch(p, v))
		}
		*(**chardev.Chardev)(p.field(base)) = c
	},
	get: func(base unsafe.Pointer, p *Property) any {
		return *(**chardev.Chardev)(p.field(base))
	},
	applyDefault: func(base unsafe.Pointer, p *Property) {},
}
