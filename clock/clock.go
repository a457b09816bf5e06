// Package clock implements named, directional clock ports attached to
// devices. A clock is an object-model instance parented under its owning
// device; it is reachable both from the component's handle and from the
// device's clock list, so two reference holders coexist until the clock
// list is torn down during device finalization.
package clock

import (
	"github.com/virtlab/gom/hooking"
	"github.com/virtlab/gom/object"
)

// TypeClock is the registered type name of clock instances.
const TypeClock = "clock"

// Event is the bitmask of clock edges a callback subscribes to.
type Event uint32

const (
	// PreUpdate fires before the period changes.
	PreUpdate Event = 1 << iota

	// PostUpdate fires after the period has changed.
	PostUpdate
)

// Direction of a clock port, fixed at creation.
type Direction int

const (
	// In clocks are driven by events from their source.
	In Direction = iota

	// Out clocks are driven by the component itself.
	Out
)

// A Callback receives the owning device instance and the event kind. It
// must tolerate being invoked any time before the device's clock list is
// torn down.
type Callback func(opaque object.Object, event Event)

// PosClockEvent fires on the owning device around each delivered clock
// event. The hook Item is the clock, the Detail the Event.
var PosClockEvent = &hooking.Pos{Name: "ClockEvent"}

// A Clock is a named clock port.
type Clock struct {
	object.Base

	direction Direction
	periodPS  uint64
	callback  Callback
	events    Event
	sinks     []*Clock
}

// Direction returns the port direction.
func (c *Clock) Direction() Direction { return c.direction }

// PeriodPS returns the current clock period in picoseconds. Zero means
// the clock is not running.
func (c *Clock) PeriodPS() uint64 { return c.periodPS }

// HasCallback reports whether an event callback is installed.
func (c *Clock) HasCallback() bool { return c.callback != nil }

// SetPeriodPS updates the period of an input clock and dispatches the
// events matching the installed callback's mask. The owning device
// instance is passed to the callback unchanged.
func (c *Clock) SetPeriodPS(periodPS uint64) {
	object.AssertBigLockHeld()

	c.deliver(PreUpdate)
	c.periodPS = periodPS
	c.deliver(PostUpdate)
}

// Update sets the period of an output clock and propagates it to every
// connected input clock.
func (c *Clock) Update(periodPS uint64) {
	object.AssertBigLockHeld()

	if c.direction != Out {
		panic("clock: Update on an input clock " + c.Name())
	}

	c.periodPS = periodPS
	for _, sink := range c.sinks {
		sink.SetPeriodPS(periodPS)
	}
}

// Connect wires an output clock to an input clock. The input immediately
// picks up the output's current period.
func Connect(out, in *Clock) {
	object.AssertBigLockHeld()

	if out.direction != Out || in.direction != In {
		panic("clock: Connect requires an output source and an input sink")
	}

	out.sinks = append(out.sinks, in)
	in.SetPeriodPS(out.periodPS)
}

func (c *Clock) deliver(event Event) {
	owner := c.Parent()

	if c.callback != nil && c.events&event != 0 {
		c.callback(owner, event)
	}

	if owner != nil {
		owner.ObjectBase().InvokeHook(hooking.Ctx{
			Domain: owner,
			Pos:    PosClockEvent,
			Item:   c,
			Detail: event,
		})
	}
}

func init() {
	object.RegisterType(&object.Type{
		Name:        TypeClock,
		Parent:      object.TypeObject,
		NewInstance: func() object.Object { return &Clock{} },
	})
}
