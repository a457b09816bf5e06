package object

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type widget struct {
	Base

	initCount int
}

func (w *widget) widgetPart() *widget { return w }

type widgetter interface {
	widgetPart() *widget
}

type fancyWidget struct {
	widget
}

var (
	widgetClassInits      int
	fancyWidgetClassInits int
	widgetFinalized       int
)

type markerClass struct {
	Class

	marker string
}

func (c *markerClass) AdoptParent(parent AnyClass) {
	c.Class.AdoptParent(parent)

	if pc, ok := parent.(*markerClass); ok {
		c.marker = pc.marker
	}
}

func init() {
	RegisterType(&Type{
		Name:        "test-widget",
		Parent:      TypeObject,
		NewInstance: func() Object { return &widget{} },
		NewClass:    func() AnyClass { return &markerClass{} },
		ClassInit: func(c AnyClass) {
			widgetClassInits++
			c.(*markerClass).marker = "widget"
		},
		InstanceInit: func(obj Object) {
			obj.(widgetter).widgetPart().initCount++
		},
		InstanceFinalize: func(_ Object) {
			widgetFinalized++
		},
	})

	RegisterType(&Type{
		Name:        "test-fancy-widget",
		Parent:      "test-widget",
		NewInstance: func() Object { return &fancyWidget{} },
		NewClass:    func() AnyClass { return &markerClass{} },
		ClassInit: func(_ AnyClass) {
			fancyWidgetClassInits++
		},
	})
}

var _ = Describe("Type registry", func() {
	It("should reject duplicate type names", func() {
		Expect(func() {
			RegisterType(&Type{Name: "test-widget"})
		}).To(Panic())
	})

	It("should build each class exactly once", func() {
		c1 := ClassFor("test-widget")
		c2 := ClassFor("test-widget")

		Expect(c1).To(BeIdenticalTo(c2))
		Expect(widgetClassInits).To(Equal(1))
	})

	It("should copy the parent class before running the type's class-init", func() {
		ClassFor("test-fancy-widget")

		Expect(fancyWidgetClassInits).To(Equal(1))

		fc := ClassFor("test-fancy-widget").(*markerClass)
		Expect(fc.marker).To(Equal("widget"))
	})

	It("should panic on unknown types", func() {
		Expect(func() { ClassFor("no-such-type") }).To(Panic())
		Expect(func() { New("no-such-type") }).To(Panic())
	})

	It("should refuse to instantiate abstract types", func() {
		Expect(func() { New(TypeObject) }).To(Panic())
	})
})

var _ = Describe("Instance lifecycle", func() {
	It("should run instance init once and hold one reference", func() {
		obj := New("test-widget")

		Expect(obj.(*widget).initCount).To(Equal(1))
		Expect(Refs(obj)).To(Equal(1))
	})

	It("should run parent instance inits on derived instances", func() {
		obj := New("test-fancy-widget")

		Expect(obj.(*fancyWidget).initCount).To(Equal(1))
	})

	It("should finalize when the last reference is released", func() {
		obj := New("test-widget")
		before := widgetFinalized

		Ref(obj)
		Unref(obj)
		Expect(widgetFinalized).To(Equal(before))

		Unref(obj)
		Expect(widgetFinalized).To(Equal(before + 1))
	})

	It("should detach finalized children from the parent", func() {
		parent := New("test-widget")
		child := New("test-widget")

		SetParent(child, parent)
		Expect(parent.ObjectBase().Children()).To(HaveLen(1))
		Expect(child.ObjectBase().Parent()).To(BeIdenticalTo(parent))

		Unref(child)
		Expect(parent.ObjectBase().Children()).To(BeEmpty())
	})
})

var _ = Describe("Owned handles", func() {
	It("should add a reference per handle and free on the last release", func() {
		obj := New("test-widget")
		before := widgetFinalized

		h1 := NewOwned(obj)
		h2 := h1.Clone()
		Expect(Refs(obj)).To(Equal(3))

		h1.Release()
		h2.Release()
		Expect(Refs(obj)).To(Equal(1))
		Expect(widgetFinalized).To(Equal(before))

		Unref(obj)
		Expect(widgetFinalized).To(Equal(before + 1))
	})

	It("should panic on double release", func() {
		obj := New("test-widget")
		h := NewOwned(obj)

		h.Release()
		Expect(func() { h.Release() }).To(Panic())
	})

	It("should adopt an existing reference without taking a new one", func() {
		obj := New("test-widget")

		h := AdoptOwned(obj)
		Expect(Refs(obj)).To(Equal(1))
		Expect(h.Get()).To(BeIdenticalTo(obj))
	})
})

var _ = Describe("Big lock", func() {
	It("should report held only while locked", func() {
		lk := BigLock()

		Expect(lk.Held()).To(BeFalse())

		lk.Lock()
		Expect(lk.Held()).To(BeTrue())
		lk.Unlock()

		Expect(lk.Held()).To(BeFalse())
	})

	It("should panic when a mutating operation asserts an unheld lock", func() {
		Expect(AssertBigLockHeld).To(Panic())
	})
})
