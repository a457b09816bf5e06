package device_test

import (
	"unsafe"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/virtlab/gom/clock"
	"github.com/virtlab/gom/device"
	"github.com/virtlab/gom/hooking"
	"github.com/virtlab/gom/object"
	"github.com/virtlab/gom/property"
	"github.com/virtlab/gom/resettable"
	"github.com/virtlab/gom/vmstate"
)

var trace []string

type hookFunc func(hooking.Ctx)

func (f hookFunc) Func(ctx hooking.Ctx) { f(ctx) }

// holdDevice declares the HOLD phase only.
type holdDevice struct {
	device.State

	resets int
}

func (d *holdDevice) ResetHold(kind resettable.Kind) {
	d.resets++
}

// baseDevice declares ENTER and realize; leafDevice derives from it and
// declares nothing of its own.
type baseDevice struct {
	device.State
}

func (d *baseDevice) ResetEnter(kind resettable.Kind) {
	trace = append(trace, d.Name()+":enter")
}

func (d *baseDevice) Realize() {
	trace = append(trace, d.Name()+":realize")
}

type leafDevice struct {
	baseDevice
}

// plainDevice declares no capability at all.
type plainDevice struct {
	device.State
}

// propDevice declares properties and a migration layout.
type propDevice struct {
	device.State

	Step   uint32
	Flags  uint32
	Banner string

	effectiveStep uint32
}

var propDeviceProps = []property.Property{
	property.DefineWithDefault("step", property.UInt32,
		unsafe.Offsetof(propDevice{}.Step), 4),
	property.DefineBit("enable", unsafe.Offsetof(propDevice{}.Flags), 0, true),
	property.DefineString("banner", unsafe.Offsetof(propDevice{}.Banner), ""),
}

var propDeviceVMSD = &vmstate.Description{
	Name:    "prop-device",
	Version: 1,
	Fields: []vmstate.Field{
		{Name: "step", Offset: unsafe.Offsetof(propDevice{}.Step),
			Kind: vmstate.UInt32},
		{Name: "flags", Offset: unsafe.Offsetof(propDevice{}.Flags),
			Kind: vmstate.UInt32},
	},
}

func (d *propDevice) DeviceProperties() []property.Property {
	return propDeviceProps
}

func (d *propDevice) Description() *vmstate.Description {
	return propDeviceVMSD
}

func (d *propDevice) Realize() {
	d.effectiveStep = d.Step
}

// clockedDevice attaches one input clock during realize.
type clockedDevice struct {
	device.State

	edges uint32
	clkIn *object.Owned[*clock.Clock]
}

func (d *clockedDevice) Realize() {
	d.clkIn = device.InitClockIn(d, "clk_in",
		(*clockedDevice).clockEdge, clock.PostUpdate)
}

func (d *clockedDevice) clockEdge(event clock.Event) {
	d.edges++
}

func init() {
	device.RegisterType[holdDevice]("hold-device")
	device.RegisterType[baseDevice]("base-device")
	device.RegisterTypeWithParent[leafDevice]("leaf-device", "base-device")
	device.RegisterType[plainDevice]("plain-device")
	device.RegisterType[propDevice]("prop-device")
	device.RegisterType[clockedDevice]("clocked-device")
}

func newDev(typeName, name string) device.Dev {
	dev := object.New(typeName).(device.Dev)
	dev.ObjectBase().SetName(name)

	return dev
}

var _ = Describe("Device", func() {
	BeforeEach(func() {
		object.BigLock().Lock()
		trace = nil
	})

	AfterEach(func() {
		object.BigLock().Unlock()
	})

	Context("reset bridging", func() {
		It("should run only the declared phase over a full cycle", func() {
			dev := newDev("hold-device", "h0")
			defer object.Unref(dev)

			rc := resettable.ClassOf(dev)
			Expect(rc.Phases.Enter).To(BeNil())
			Expect(rc.Phases.Hold).NotTo(BeNil())
			Expect(rc.Phases.Exit).To(BeNil())

			resettable.Reset([]object.Object{dev}, resettable.ColdReset)

			Expect(dev.(*holdDevice).resets).To(Equal(1))
		})

		It("should let a derived device inherit its parent's phases", func() {
			dev := newDev("leaf-device", "leaf0")
			defer object.Unref(dev)

			rc := resettable.ClassOf(dev)
			Expect(rc.Phases.Enter).NotTo(BeNil())

			resettable.Reset([]object.Object{dev}, resettable.ColdReset)

			Expect(trace).To(Equal([]string{"leaf0:enter"}))
		})

		It("should leave an undeclaring device with empty phases", func() {
			dev := newDev("plain-device", "p0")
			defer object.Unref(dev)

			rc := resettable.ClassOf(dev)
			Expect(rc.Phases.Enter).To(BeNil())
			Expect(rc.Phases.Hold).To(BeNil())
			Expect(rc.Phases.Exit).To(BeNil())

			Expect(func() {
				resettable.Reset([]object.Object{dev}, resettable.ColdReset)
			}).NotTo(Panic())
		})
	})

	Context("realization", func() {
		It("should run the realize slot once and mark the device", func() {
			dev := newDev("base-device", "b0")
			defer object.Unref(dev)

			Expect(dev.DeviceState().Realized()).To(BeFalse())

			Expect(device.Realize(dev)).To(Succeed())

			Expect(dev.DeviceState().Realized()).To(BeTrue())
			Expect(trace).To(Equal([]string{"b0:realize"}))
		})

		It("should panic on a second realize", func() {
			dev := newDev("base-device", "b1")
			defer object.Unref(dev)

			Expect(device.Realize(dev)).To(Succeed())
			Expect(func() { device.Realize(dev) }).To(Panic())
		})

		It("should realize a device that installs no slot", func() {
			dev := newDev("plain-device", "p1")
			defer object.Unref(dev)

			Expect(device.Realize(dev)).To(Succeed())
			Expect(dev.DeviceState().Realized()).To(BeTrue())
		})

		It("should dispatch an inherited realize to the derived device", func() {
			dev := newDev("leaf-device", "leaf1")
			defer object.Unref(dev)

			Expect(device.Realize(dev)).To(Succeed())
			Expect(trace).To(Equal([]string{"leaf1:realize"}))
		})

		It("should fire the realize hook", func() {
			dev := newDev("plain-device", "p2")
			defer object.Unref(dev)

			var hooked []hooking.Ctx
			dev.AcceptHook(hookFunc(func(ctx hooking.Ctx) {
				hooked = append(hooked, ctx)
			}))

			Expect(device.Realize(dev)).To(Succeed())

			Expect(hooked).To(HaveLen(1))
			Expect(hooked[0].Pos).To(BeIdenticalTo(device.PosRealize))
		})
	})

	Context("properties", func() {
		It("should apply declared defaults at instance init", func() {
			dev := newDev("prop-device", "d0")
			defer object.Unref(dev)

			pd := dev.(*propDevice)
			Expect(pd.Step).To(Equal(uint32(4)))
			Expect(pd.Flags).To(Equal(uint32(1)))
			Expect(pd.Banner).To(Equal(""))
		})

		It("should assign values before realize", func() {
			dev := newDev("prop-device", "d1")
			defer object.Unref(dev)

			s := dev.DeviceState()
			s.SetPropUint32("step", 9)
			s.SetPropBool("enable", false)
			s.SetPropString("banner", "hello")

			pd := dev.(*propDevice)
			Expect(pd.Step).To(Equal(uint32(9)))
			Expect(pd.Flags).To(Equal(uint32(0)))
			Expect(pd.Banner).To(Equal("hello"))

			Expect(device.Realize(dev)).To(Succeed())
			Expect(pd.effectiveStep).To(Equal(uint32(9)))
		})

		It("should read back current values", func() {
			dev := newDev("prop-device", "d2")
			defer object.Unref(dev)

			s := dev.DeviceState()
			Expect(s.Prop("step")).To(Equal(uint64(4)))
			Expect(s.Prop("enable")).To(Equal(true))
		})

		It("should panic on an unknown property", func() {
			dev := newDev("prop-device", "d3")
			defer object.Unref(dev)

			Expect(func() {
				dev.DeviceState().SetPropUint32("no-such", 1)
			}).To(Panic())
		})

		It("should panic on assignment after realize", func() {
			dev := newDev("prop-device", "d4")
			defer object.Unref(dev)

			Expect(device.Realize(dev)).To(Succeed())
			Expect(func() {
				dev.DeviceState().SetPropUint32("step", 2)
			}).To(Panic())
		})

		It("should fire the property hook per assignment", func() {
			dev := newDev("prop-device", "d5")
			defer object.Unref(dev)

			var hooked []hooking.Ctx
			dev.AcceptHook(hookFunc(func(ctx hooking.Ctx) {
				hooked = append(hooked, ctx)
			}))

			dev.DeviceState().SetPropUint32("step", 3)

			Expect(hooked).To(HaveLen(1))
			Expect(hooked[0].Pos).To(BeIdenticalTo(device.PosPropertySet))
			Expect(hooked[0].Item).To(Equal("step"))
		})
	})

	Context("migration", func() {
		It("should round-trip the declared fields", func() {
			src := newDev("prop-device", "m0")
			defer object.Unref(src)
			src.DeviceState().SetPropUint32("step", 7)

			data, err := device.SaveState(src)
			Expect(err).NotTo(HaveOccurred())

			dst := newDev("prop-device", "m1")
			defer object.Unref(dst)

			Expect(device.LoadState(dst, data)).To(Succeed())
			Expect(dst.(*propDevice).Step).To(Equal(uint32(7)))
		})

		It("should refuse a device without a descriptor", func() {
			dev := newDev("plain-device", "m2")
			defer object.Unref(dev)

			_, err := device.SaveState(dev)
			Expect(err).To(HaveOccurred())
		})
	})

	Context("clocks", func() {
		It("should attach and dispatch a typed input clock", func() {
			dev := newDev("clocked-device", "c0")
			defer object.Unref(dev)

			Expect(device.Realize(dev)).To(Succeed())
			Expect(dev.DeviceState().ClockNames()).To(Equal([]string{"clk_in"}))

			clk, ok := dev.DeviceState().Clock("clk_in")
			Expect(ok).To(BeTrue())

			clk.SetPeriodPS(1000)
			clk.SetPeriodPS(500)

			Expect(dev.(*clockedDevice).edges).To(Equal(uint32(2)))
		})

		It("should keep the clock alive past the component handle", func() {
			dev := newDev("clocked-device", "c1")
			Expect(device.Realize(dev)).To(Succeed())

			cd := dev.(*clockedDevice)
			clk := cd.clkIn.Get()
			cd.clkIn.Release()

			Expect(object.Refs(clk)).To(Equal(1))

			object.Unref(dev)
			Expect(object.Refs(clk)).To(Equal(0))
		})
	})

	Context("class records", func() {
		It("should build one record per type and copy the parent's", func() {
			base := device.ClassOf(newDev("base-device", "cb"))
			leaf := device.ClassOf(newDev("leaf-device", "cl"))

			Expect(base).NotTo(BeIdenticalTo(leaf))
			Expect(leaf.Realize).NotTo(BeNil())

			again := object.ClassFor("leaf-device")
			Expect(again).To(BeIdenticalTo(object.AnyClass(leaf)))
		})

		It("should inherit the property table without re-install", func() {
			dc := device.ClassOf(newDev("prop-device", "ct"))

			Expect(dc.Props.All()).To(HaveLen(3))
			Expect(dc.Props.Installed()).To(BeTrue())
		})
	})
})
