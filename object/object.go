package object

import (
	"reflect"
	"sync/atomic"
	"unsafe"

	"github.com/virtlab/gom/hooking"
)

// An Object is a live instance of a registered type. Concrete instance
// structs embed Base (directly or through an intermediate state struct
// such as device.State), which provides the whole interface.
type Object interface {
	hooking.Hookable

	// Name returns the instance name. Empty until SetName is called.
	Name() string

	// ObjectBase exposes the embedded instance bookkeeping.
	ObjectBase() *Base
}

// Base is the bookkeeping embedded in every instance: class pointer,
// canonical name, parent/children links, and the reference count.
type Base struct {
	hooking.HookableBase

	class    AnyClass
	typ      *Type
	name     string
	parent   Object
	children []Object
	refs     atomic.Int32
	self     Object
	state    unsafe.Pointer
}

// Name returns the instance name.
func (b *Base) Name() string { return b.name }

// SetName assigns the instance name.
func (b *Base) SetName(name string) { b.name = name }

// ObjectBase returns b itself.
func (b *Base) ObjectBase() *Base { return b }

// Class returns the instance's concrete class record.
func (b *Base) Class() AnyClass { return b.class }

// Type returns the instance's registered type.
func (b *Base) Type() *Type { return b.typ }

// Self returns the outermost instance, e.g. the concrete device struct.
func (b *Base) Self() Object { return b.self }

// Parent returns the owning object, or nil for a root instance.
func (b *Base) Parent() Object { return b.parent }

// Children returns the objects parented under this instance.
func (b *Base) Children() []Object { return b.children }

// SetParent records obj's position in the instance tree. The child does
// not take a reference to the parent; the tree is torn down top-down.
func SetParent(child, parent Object) {
	cb := child.ObjectBase()
	cb.parent = parent
	parent.ObjectBase().children = append(parent.ObjectBase().children, child)
}

// New allocates an instance of the named type, binds its class record,
// and runs the instance-init chain, parent types first. The returned
// instance holds one reference. Unknown or abstract types panic; callers
// validating user input should use Lookup first.
func New(typeName string) Object {
	t, ok := Lookup(typeName)
	if !ok {
		panic("object: unknown type " + typeName)
	}

	if t.Abstract {
		panic("object: cannot instantiate abstract type " + typeName)
	}

	class := ClassFor(typeName)

	obj := t.NewInstance()
	b := obj.ObjectBase()
	b.class = class
	b.typ = t
	b.self = obj
	b.state = reflect.ValueOf(obj).UnsafePointer()
	b.refs.Store(1)

	for _, ct := range t.chain() {
		if ct.InstanceInit != nil {
			ct.InstanceInit(obj)
		}
	}

	return obj
}

// Ref takes an additional reference to obj.
func Ref(obj Object) {
	obj.ObjectBase().refs.Add(1)
}

// Unref releases one reference. The last release runs the type's
// finalize chain, leaf type first, then detaches the instance from the
// tree. Releasing more references than were taken panics.
func Unref(obj Object) {
	b := obj.ObjectBase()

	refs := b.refs.Add(-1)
	if refs < 0 {
		panic("object: release of a dead reference to " + b.name)
	}

	if refs > 0 {
		return
	}

	finalize(obj)
}

// Refs returns the current reference count. Exposed for the host's
// teardown bookkeeping and for tests.
func Refs(obj Object) int {
	return int(obj.ObjectBase().refs.Load())
}

func finalize(obj Object) {
	b := obj.ObjectBase()

	chain := b.typ.chain()
	for i := len(chain) - 1; i >= 0; i-- {
		if chain[i].InstanceFinalize != nil {
			chain[i].InstanceFinalize(obj)
		}
	}

	if b.parent != nil {
		pb := b.parent.ObjectBase()
		for i, child := range pb.children {
			if child == obj {
				pb.children = append(pb.children[:i], pb.children[i+1:]...)
				break
			}
		}

		b.parent = nil
	}
}

// StatePointer returns the base address of the concrete instance struct.
// Property descriptors and migration fields hold byte offsets relative to
// this address.
func StatePointer(obj Object) unsafe.Pointer {
	return obj.ObjectBase().state
}
