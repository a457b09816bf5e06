// Package object implements the host-side object model: a process-global
// type registry, per-type class records with function-pointer slots,
// instance allocation, and the reference-counting rules that instances and
// their children follow.
//
// A type is registered once with its name, parent, factories, and class-init
// entry point. The class record for a type is built lazily, exactly once:
// the registry allocates the record, copies the parent's populated slots
// into it, instantiates interface classes, and only then runs the type's
// own class-init so that derived overrides always win over inherited slots.
// Class records are immutable after that point.
//
// Instance memory is owned by this package. Components observe instances
// through borrowed references while the big lock guarantees no concurrent
// mutation; the only shared, reference-counted resources are objects
// wrapped in an Owned handle.
package object
