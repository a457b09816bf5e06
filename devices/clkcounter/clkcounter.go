// Package clkcounter provides a small reference device: a counter
// stepped by an input clock, with an output clock, user-settable
// properties, a migration descriptor, and an optional character backend
// it reports to. It exercises every capability the device bridge
// offers and doubles as the demo device for the CLI.
package clkcounter

import (
	"fmt"
	"unsafe"

	"github.com/virtlab/gom/chardev"
	"github.com/virtlab/gom/clock"
	"github.com/virtlab/gom/device"
	"github.com/virtlab/gom/object"
	"github.com/virtlab/gom/property"
	"github.com/virtlab/gom/resettable"
	"github.com/virtlab/gom/vmstate"
)

// TypeName is the registered type name of the counter device.
const TypeName = "clk-counter"

// ClockIn and ClockOut are the device's clock port names.
const (
	ClockIn  = "clk_in"
	ClockOut = "clk_out"
)

// A Counter counts the update edges of its input clock, advancing by
// the configured step.
type Counter struct {
	device.State

	// Count is the running counter value.
	Count uint32

	// Edges counts delivered clock edges since the last reset.
	Edges uint32

	step   uint32
	flags  uint32
	banner string
	chr    *chardev.Chardev

	clkIn  *object.Owned[*clock.Clock]
	clkOut *object.Owned[*clock.Clock]
}

var counterProps = []property.Property{
	property.DefineWithDefault("step", property.UInt32,
		unsafe.Offsetof(Counter{}.step), 1),
	property.DefineBit("migrate", unsafe.Offsetof(Counter{}.flags), 0, true),
	property.DefineString("banner", unsafe.Offsetof(Counter{}.banner),
		"clk-counter"),
	property.Define("chr", property.Chardev, unsafe.Offsetof(Counter{}.chr)),
}

// DeviceProperties returns the static property table.
func (*Counter) DeviceProperties() []property.Property {
	return counterProps
}

var counterVMSD = &vmstate.Description{
	Name:    TypeName,
	Version: 1,
	Fields: []vmstate.Field{
		{Name: "count", Offset: unsafe.Offsetof(Counter{}.Count),
			Kind: vmstate.UInt32},
		{Name: "edges", Offset: unsafe.Offsetof(Counter{}.Edges),
			Kind: vmstate.UInt32},
		{Name: "step", Offset: unsafe.Offsetof(Counter{}.step),
			Kind: vmstate.UInt32},
	},
}

// Description returns the migration descriptor.
func (*Counter) Description() *vmstate.Description {
	return counterVMSD
}

// Realize attaches the clock ports. It runs after the properties above
// have been assigned.
func (c *Counter) Realize() {
	c.clkIn = device.InitClockIn(c, ClockIn, (*Counter).clockEdge,
		clock.PostUpdate)
	c.clkOut = c.InitClockOut(ClockOut)
}

func (c *Counter) clockEdge(clock.Event) {
	c.Edges++
	c.Count += c.step
}

// ResetEnter clears the local counter state. No side effects on other
// objects happen here.
func (c *Counter) ResetEnter(resettable.Kind) {
	c.Count = 0
	c.Edges = 0
}

// ResetHold announces the reset on the character backend, a side effect
// that must wait until every object has entered reset.
func (c *Counter) ResetHold(kind resettable.Kind) {
	if c.chr == nil {
		return
	}

	fmt.Fprintf(c.chr, "%s: reset (%s), step=%d\n",
		c.banner, kind, c.step)
}

// Step returns the configured increment.
func (c *Counter) Step() uint32 { return c.step }

// Migrate reports whether the migrate flag property is set.
func (c *Counter) Migrate() bool { return c.flags&1 != 0 }

// OutClock returns the component's handle to the output clock.
func (c *Counter) OutClock() *object.Owned[*clock.Clock] { return c.clkOut }

// InClock returns the component's handle to the input clock.
func (c *Counter) InClock() *object.Owned[*clock.Clock] { return c.clkIn }

func init() {
	device.RegisterType[Counter](TypeName)
}
