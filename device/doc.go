// Package device is the bridge between component-declared device
// behavior and the host object model's class dispatch.
//
// A concrete device type is an ordinary struct embedding State. It opts
// into behavior by implementing any subset of the capability interfaces:
// resettable.Enterer/Holder/Exiter for the reset phases, Realizer for
// second-stage construction, PropertyLister for its property table, and
// Migratable for its migration descriptor. RegisterType inspects the
// method set once, at class-registration time, and installs one
// fixed-signature trampoline per declared capability into the class
// record; undeclared capabilities leave the inherited slots untouched.
//
// At runtime the host dispatches through the class record; each
// trampoline recovers the concrete instance from the opaque object
// reference and forwards to the declared implementation. Every device
// also gets the capability extension carried by State: clock attachment
// and typed property assignment, available uniformly with no per-type
// specialization.
package device
