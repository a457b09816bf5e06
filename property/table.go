package property

import "unsafe"

// A Table is the per-class property table. Concrete class records embed
// one; the class-init bridge installs a type's declared properties into
// it exactly once.
type Table struct {
	props     []Property
	installed bool
}

// Install appends props to the table. A class's own properties are
// installed at most once; a second install for the same class is a
// bridge bug and panics. Inherited properties arrive through the class
// copy, not through Install; entries whose names the inherited table
// already carries are skipped, so a derived type re-exposing its
// parent's table does not duplicate it.
func (t *Table) Install(props []Property) {
	if t.installed {
		panic("property: table installed twice for the same class")
	}

	t.installed = true

	for _, p := range props {
		if _, exists := t.Find(p.Name); exists {
			continue
		}

		t.props = append(t.props, p)
	}
}

// CopyFrom adopts the parent class's table. The copy is not counted as
// this class's install.
func (t *Table) CopyFrom(parent *Table) {
	t.props = append([]Property(nil), parent.props...)
	t.installed = false
}

// Installed reports whether this class has installed its own properties.
func (t *Table) Installed() bool {
	return t.installed
}

// All returns the table's descriptors, inherited entries first.
func (t *Table) All() []Property {
	return t.props
}

// Find returns the descriptor with the given name.
func (t *Table) Find(name string) (*Property, bool) {
	for i := range t.props {
		if t.props[i].Name == name {
			return &t.props[i], true
		}
	}

	return nil, false
}

// ApplyDefaults writes every declared default into the instance state.
// Called once per instance, before user property assignment.
func (t *Table) ApplyDefaults(base unsafe.Pointer) {
	for i := range t.props {
		t.props[i].ApplyDefault(base)
	}
}
