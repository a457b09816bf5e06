package object

import (
	"sort"
	"sync"
)

// TypeObject is the root of every inheritance chain.
const TypeObject = "object"

// A Type describes one registrable object type: its place in the
// inheritance chain, its factories, and its lifecycle entry points.
type Type struct {
	// Name is the registry key. Registering the same name twice panics.
	Name string

	// Parent names the immediate supertype. Empty only for the root type.
	Parent string

	// Abstract types contribute class slots but cannot be instantiated.
	Abstract bool

	// NewInstance allocates the zeroed instance struct.
	NewInstance func() Object

	// NewClass allocates the zeroed class record. Defaults to a bare
	// *Class when nil.
	NewClass func() AnyClass

	// ClassInit runs once after the parent's slots have been copied into
	// the freshly allocated class record.
	ClassInit func(c AnyClass)

	// InstanceInit runs on every new instance, parent types first.
	InstanceInit func(obj Object)

	// InstanceFinalize runs when the last reference is released, leaf
	// type first.
	InstanceFinalize func(obj Object)

	// Interfaces lists the interface slot tables this type introduces.
	Interfaces []InterfaceInfo

	class AnyClass
}

type registry struct {
	sync.Mutex
	types map[string]*Type
}

var typeRegistry = &registry{types: make(map[string]*Type)}

// RegisterType adds a type to the process-global registry. It panics if
// the name is already taken; type registration is a program-startup
// activity, not a runtime condition.
func RegisterType(t *Type) {
	typeRegistry.Lock()
	defer typeRegistry.Unlock()

	if t.Name == "" {
		panic("object: type with empty name")
	}

	if _, exists := typeRegistry.types[t.Name]; exists {
		panic("object: type " + t.Name + " already registered")
	}

	typeRegistry.types[t.Name] = t
}

// Lookup returns the registered type with the given name.
func Lookup(name string) (*Type, bool) {
	typeRegistry.Lock()
	defer typeRegistry.Unlock()

	t, ok := typeRegistry.types[name]

	return t, ok
}

// TypeNames returns the names of all registered types, sorted.
func TypeNames() []string {
	typeRegistry.Lock()
	defer typeRegistry.Unlock()

	names := make([]string, 0, len(typeRegistry.types))
	for name := range typeRegistry.types {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// ClassFor returns the class record of the named type, building it (and
// the records of all its ancestors) on first use.
func ClassFor(name string) AnyClass {
	typeRegistry.Lock()
	defer typeRegistry.Unlock()

	t, ok := typeRegistry.types[name]
	if !ok {
		panic("object: unknown type " + name)
	}

	return buildClassLocked(t)
}

func buildClassLocked(t *Type) AnyClass {
	if t.class != nil {
		return t.class
	}

	var c AnyClass
	if t.NewClass != nil {
		c = t.NewClass()
	} else {
		c = &Class{}
	}

	oc := c.ObjectClass()

	if t.Parent != "" {
		parent, ok := typeRegistry.types[t.Parent]
		if !ok {
			panic("object: type " + t.Name +
				" has unknown parent " + t.Parent)
		}

		c.AdoptParent(buildClassLocked(parent))
	}

	// AdoptParent rewrites the whole record; bind the identity after it.
	oc.typ = t
	oc.self = c

	if oc.ifaces == nil {
		oc.ifaces = make(map[string]InterfaceClass)
	}

	for _, ii := range t.Interfaces {
		if _, present := oc.ifaces[ii.Name]; !present {
			oc.ifaces[ii.Name] = ii.New()
		}
	}

	if t.ClassInit != nil {
		t.ClassInit(c)
	}

	t.class = c

	return c
}

// chain returns the type and all its ancestors, root first.
func (t *Type) chain() []*Type {
	typeRegistry.Lock()
	defer typeRegistry.Unlock()

	var types []*Type
	for cur := t; cur != nil; {
		types = append([]*Type{cur}, types...)

		if cur.Parent == "" {
			break
		}

		parent, ok := typeRegistry.types[cur.Parent]
		if !ok {
			panic("object: type " + cur.Name +
				" has unknown parent " + cur.Parent)
		}

		cur = parent
	}

	return types
}

func init() {
	RegisterType(&Type{
		Name:        TypeObject,
		Abstract:    true,
		NewInstance: func() Object { return &Base{} },
	})
}
