package datarecording

import (
	"fmt"

	"github.com/rs/xid"

	"github.com/virtlab/gom/hooking"
	"github.com/virtlab/gom/object"
)

// LifecycleTable is the table lifecycle rows are recorded into.
const LifecycleTable = "lifecycle"

// A LifecycleEntry is one recorded lifecycle event.
type LifecycleEntry struct {
	ID     string
	Object string
	Pos    string
	Item   string
	Detail string
}

// A LifecycleRecorder is a hook that records every lifecycle event of
// the objects it is attached to.
type LifecycleRecorder struct {
	recorder DataRecorder
}

// NewLifecycleRecorder creates a recorder writing into backend and
// creates the lifecycle table.
func NewLifecycleRecorder(backend DataRecorder) *LifecycleRecorder {
	backend.CreateTable(LifecycleTable, LifecycleEntry{})

	return &LifecycleRecorder{recorder: backend}
}

// Func records one lifecycle event.
func (r *LifecycleRecorder) Func(ctx hooking.Ctx) {
	entry := LifecycleEntry{
		ID:  xid.New().String(),
		Pos: ctx.Pos.Name,
	}

	if obj, ok := ctx.Domain.(object.Object); ok {
		entry.Object = obj.Name()
	}

	if ctx.Item != nil {
		entry.Item = stringify(ctx.Item)
	}

	if ctx.Detail != nil {
		entry.Detail = stringify(ctx.Detail)
	}

	r.recorder.InsertData(LifecycleTable, entry)
}

// Attach registers the recorder on every given object.
func (r *LifecycleRecorder) Attach(objs ...object.Object) {
	for _, obj := range objs {
		obj.AcceptHook(r)
	}
}

func stringify(v any) string {
	if named, ok := v.(object.Object); ok {
		return named.Name()
	}

	return fmt.Sprint(v)
}
