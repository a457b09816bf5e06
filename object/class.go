package object

// An InterfaceClass holds the per-type slot table of one mixed-in
// interface, such as the resettable phase table. Interface classes are
// copied down the inheritance chain, so they must know how to clone
// themselves before a derived type applies its own overrides.
type InterfaceClass interface {
	CloneInterfaceClass() InterfaceClass
}

// InterfaceInfo declares that a type mixes in an interface and knows how
// to allocate an empty slot table for it.
type InterfaceInfo struct {
	Name string
	New  func() InterfaceClass
}

// AnyClass is implemented by every concrete class record. Concrete records
// embed Class and add their own slots (see the device package).
type AnyClass interface {
	// ObjectClass returns the embedded base class record.
	ObjectClass() *Class

	// AdoptParent copies the parent class's populated slots into the
	// receiver. The registry calls it exactly once, before the type's own
	// class-init runs.
	AdoptParent(parent AnyClass)
}

// Class is the base class record. Every class record carries its type, the
// slot tables of the interfaces the type implements, and a back pointer to
// the outermost concrete record.
type Class struct {
	typ    *Type
	self   AnyClass
	ifaces map[string]InterfaceClass
}

// ObjectClass returns c itself.
func (c *Class) ObjectClass() *Class { return c }

// AdoptParent clones the parent's interface slot tables. Concrete records
// first delegate here, then copy their own slots.
func (c *Class) AdoptParent(parent AnyClass) {
	pc := parent.ObjectClass()
	c.ifaces = make(map[string]InterfaceClass, len(pc.ifaces))
	for name, ic := range pc.ifaces {
		c.ifaces[name] = ic.CloneInterfaceClass()
	}
}

// Type returns the type this class record belongs to.
func (c *Class) Type() *Type { return c.typ }

// Interface returns the slot table of the named interface, or nil if the
// type does not implement it.
func (c *Class) Interface(name string) InterfaceClass {
	return c.ifaces[name]
}

// Concrete returns the outermost class record, e.g. a *device.Class.
func (c *Class) Concrete() AnyClass { return c.self }
