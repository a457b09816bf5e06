package clock_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/virtlab/gom/clock"
	"github.com/virtlab/gom/hooking"
	"github.com/virtlab/gom/object"
)

type clockOwner struct {
	object.Base
}

type hookFunc func(hooking.Ctx)

func (f hookFunc) Func(ctx hooking.Ctx) { f(ctx) }

func init() {
	object.RegisterType(&object.Type{
		Name:        "clock-owner",
		Parent:      object.TypeObject,
		NewInstance: func() object.Object { return &clockOwner{} },
	})
}

var _ = Describe("Clock", func() {
	var (
		owner object.Object
		list  *clock.NamedList
	)

	BeforeEach(func() {
		object.BigLock().Lock()

		owner = object.New("clock-owner")
		owner.ObjectBase().SetName("dev0")
		list = &clock.NamedList{}
	})

	AfterEach(func() {
		object.BigLock().Unlock()
	})

	It("should create named input clocks parented under the owner", func() {
		ref := list.InitIn(owner, "clk_in", nil, 0)
		clk := ref.Get()

		Expect(clk.Name()).To(Equal("clk_in"))
		Expect(clk.Direction()).To(Equal(clock.In))
		Expect(clk.ObjectBase().Parent()).To(BeIdenticalTo(owner))
		Expect(list.Names()).To(Equal([]string{"clk_in"}))

		found, ok := list.Find("clk_in")
		Expect(ok).To(BeTrue())
		Expect(found).To(BeIdenticalTo(clk))
	})

	It("should panic on a duplicate clock name", func() {
		list.InitIn(owner, "clk_in", nil, 0)

		Expect(func() {
			list.InitOut(owner, "clk_in")
		}).To(Panic())
	})

	It("should dispatch only the subscribed events", func() {
		var events []clock.Event
		ref := list.InitIn(owner, "clk_in",
			func(opaque object.Object, event clock.Event) {
				Expect(opaque).To(BeIdenticalTo(owner))
				events = append(events, event)
			}, clock.PostUpdate)

		ref.Get().SetPeriodPS(1000)

		Expect(events).To(Equal([]clock.Event{clock.PostUpdate}))
	})

	It("should expose the old period before and the new one after", func() {
		var seen []uint64
		ref := list.InitIn(owner, "clk_in",
			func(opaque object.Object, event clock.Event) {
				c, _ := list.Find("clk_in")
				seen = append(seen, c.PeriodPS())
			}, clock.PreUpdate|clock.PostUpdate)

		ref.Get().SetPeriodPS(250)

		Expect(seen).To(Equal([]uint64{0, 250}))
	})

	It("should never invoke a missing callback", func() {
		ref := list.InitIn(owner, "clk_in", nil, clock.PostUpdate)

		Expect(ref.Get().HasCallback()).To(BeFalse())
		Expect(func() { ref.Get().SetPeriodPS(125) }).NotTo(Panic())
		Expect(ref.Get().PeriodPS()).To(Equal(uint64(125)))
	})

	It("should propagate an output update to connected inputs", func() {
		out := list.InitOut(owner, "clk_out")

		sinkOwner := object.New("clock-owner")
		sinkOwner.ObjectBase().SetName("dev1")
		sinkList := &clock.NamedList{}

		var events []clock.Event
		in := sinkList.InitIn(sinkOwner, "clk_in",
			func(opaque object.Object, event clock.Event) {
				events = append(events, event)
			}, clock.PostUpdate)

		out.Get().Update(2000)
		clock.Connect(out.Get(), in.Get())

		Expect(in.Get().PeriodPS()).To(Equal(uint64(2000)))
		Expect(events).To(Equal([]clock.Event{clock.PostUpdate}))

		out.Get().Update(4000)
		Expect(in.Get().PeriodPS()).To(Equal(uint64(4000)))
		Expect(events).To(HaveLen(2))
	})

	It("should reject Update on an input clock", func() {
		ref := list.InitIn(owner, "clk_in", nil, 0)

		Expect(func() { ref.Get().Update(1000) }).To(Panic())
	})

	It("should reject Connect with reversed directions", func() {
		out := list.InitOut(owner, "clk_out")
		in := list.InitIn(owner, "clk_in", nil, 0)

		Expect(func() {
			clock.Connect(in.Get(), out.Get())
		}).To(Panic())
	})

	It("should keep a clock alive after the component handle is gone", func() {
		ref := list.InitIn(owner, "clk_in", nil, 0)
		clk := ref.Get()
		Expect(object.Refs(clk)).To(Equal(2))

		ref.Release()

		Expect(object.Refs(clk)).To(Equal(1))
		found, ok := list.Find("clk_in")
		Expect(ok).To(BeTrue())
		Expect(found).To(BeIdenticalTo(clk))
	})

	It("should free listed clocks on Finalize", func() {
		ref := list.InitIn(owner, "clk_in", nil, 0)
		clk := ref.Get()
		ref.Release()

		list.Finalize()

		Expect(object.Refs(clk)).To(Equal(0))
		Expect(clk.ObjectBase().Parent()).To(BeNil())
		Expect(list.Names()).To(BeEmpty())
	})

	It("should fire the owner's clock hook around each delivery", func() {
		var hooked []hooking.Ctx
		owner.AcceptHook(hookFunc(func(ctx hooking.Ctx) {
			hooked = append(hooked, ctx)
		}))

		ref := list.InitIn(owner, "clk_in", nil, 0)
		ref.Get().SetPeriodPS(1000)

		Expect(hooked).To(HaveLen(2))
		Expect(hooked[0].Pos).To(BeIdenticalTo(clock.PosClockEvent))
		Expect(hooked[0].Item).To(BeIdenticalTo(ref.Get()))
		Expect(hooked[0].Detail).To(Equal(clock.PreUpdate))
		Expect(hooked[1].Detail).To(Equal(clock.PostUpdate))
	})
})
