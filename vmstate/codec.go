package vmstate

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"unsafe"
)

// Wire layout: header (name, version), field count, then one record per
// field in declaration order. All integers are little-endian; every
// scalar travels widened to eight bytes.

// Save encodes the described fields of the instance rooted at base.
func (d *Description) Save(base unsafe.Pointer) ([]byte, error) {
	var buf bytes.Buffer

	writeString(&buf, d.Name)
	writeU32(&buf, d.Version)
	writeU32(&buf, uint32(len(d.Fields)))

	for i := range d.Fields {
		f := &d.Fields[i]
		writeString(&buf, f.Name)
		writeU32(&buf, uint32(f.Kind))

		var raw [8]byte
		binary.LittleEndian.PutUint64(raw[:], f.read(base))
		buf.Write(raw[:])
	}

	return buf.Bytes(), nil
}

// Load decodes data produced by Save into the instance rooted at base.
// The descriptor name, version, and field list must match exactly.
func (d *Description) Load(base unsafe.Pointer, data []byte) error {
	r := bytes.NewReader(data)

	name, err := readString(r)
	if err != nil {
		return fmt.Errorf("vmstate: reading header: %w", err)
	}

	if name != d.Name {
		return fmt.Errorf("vmstate: state is for %q, descriptor is %q",
			name, d.Name)
	}

	version, err := readU32(r)
	if err != nil {
		return fmt.Errorf("vmstate: reading version: %w", err)
	}

	if version != d.Version {
		return fmt.Errorf("vmstate: %s: version %d does not match %d",
			d.Name, version, d.Version)
	}

	count, err := readU32(r)
	if err != nil {
		return fmt.Errorf("vmstate: reading field count: %w", err)
	}

	if int(count) != len(d.Fields) {
		return fmt.Errorf("vmstate: %s: %d fields in state, %d declared",
			d.Name, count, len(d.Fields))
	}

	for i := range d.Fields {
		f := &d.Fields[i]

		fname, err := readString(r)
		if err != nil {
			return fmt.Errorf("vmstate: %s: reading field: %w", d.Name, err)
		}

		if fname != f.Name {
			return fmt.Errorf("vmstate: %s: field %q where %q was declared",
				d.Name, fname, f.Name)
		}

		kind, err := readU32(r)
		if err != nil {
			return fmt.Errorf("vmstate: %s: reading field kind: %w",
				d.Name, err)
		}

		if Kind(kind) != f.Kind {
			return fmt.Errorf("vmstate: %s: field %q is %s, declared %s",
				d.Name, f.Name, Kind(kind), f.Kind)
		}

		var raw [8]byte
		if _, err := io.ReadFull(r, raw[:]); err != nil {
			return fmt.Errorf("vmstate: %s: reading field %q: %w",
				d.Name, f.Name, err)
		}

		f.write(base, binary.LittleEndian.Uint64(raw[:]))
	}

	return nil
}

func (f *Field) addr(base unsafe.Pointer) unsafe.Pointer {
	return unsafe.Add(base, f.Offset)
}

func (f *Field) read(base unsafe.Pointer) uint64 {
	switch f.Kind {
	case Bool:
		if *(*bool)(f.addr(base)) {
			return 1
		}
		return 0
	case UInt8:
		return uint64(*(*uint8)(f.addr(base)))
	case UInt16:
		return uint64(*(*uint16)(f.addr(base)))
	case UInt32:
		return uint64(*(*uint32)(f.addr(base)))
	case UInt64:
		return *(*uint64)(f.addr(base))
	case Int32:
		return uint64(uint32(*(*int32)(f.addr(base))))
	}

	panic("vmstate: field " + f.Name + " has unknown kind")
}

func (f *Field) write(base unsafe.Pointer, v uint64) {
	switch f.Kind {
	case Bool:
		*(*bool)(f.addr(base)) = v != 0
	case UInt8:
		*(*uint8)(f.addr(base)) = uint8(v)
	case UInt16:
		*(*uint16)(f.addr(base)) = uint16(v)
	case UInt32:
		*(*uint32)(f.addr(base)) = uint32(v)
	case UInt64:
		*(*uint64)(f.addr(base)) = v
	case Int32:
		*(*int32)(f.addr(base)) = int32(uint32(v))
	default:
		panic("vmstate: field " + f.Name + " has unknown kind")
	}
}

func writeString(buf *bytes.Buffer, s string) {
	writeU32(buf, uint32(len(s)))
	buf.WriteString(s)
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var raw [4]byte
	binary.LittleEndian.PutUint32(raw[:], v)
	buf.Write(raw[:])
}

func readU32(r *bytes.Reader) (uint32, error) {
	var raw [4]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(raw[:]), nil
}

func readString(r *bytes.Reader) (string, error) {
	n, err := readU32(r)
	if err != nil {
		return "", err
	}

	raw := make([]byte, n)
	if _, err := io.ReadFull(r, raw); err != nil {
		return "", err
	}

	return string(raw), nil
}
