// Package tracing observes object lifecycles through the hook mechanism
// and emits structured log records for them.
package tracing

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/virtlab/gom/hooking"
	"github.com/virtlab/gom/object"
)

// A LifecycleTracer is a hook that logs every lifecycle event of the
// objects it is attached to.
type LifecycleTracer struct {
	logger *zap.Logger
}

// NewLifecycleTracer creates a tracer writing through logger.
func NewLifecycleTracer(logger *zap.Logger) *LifecycleTracer {
	return &LifecycleTracer{logger: logger}
}

// Func logs one lifecycle event.
func (t *LifecycleTracer) Func(ctx hooking.Ctx) {
	fields := []zap.Field{
		zap.String("object", domainName(ctx.Domain)),
	}

	if ctx.Item != nil {
		fields = append(fields, zap.String("item", describe(ctx.Item)))
	}

	if ctx.Detail != nil {
		fields = append(fields, zap.String("detail", describe(ctx.Detail)))
	}

	t.logger.Info(ctx.Pos.Name, fields...)
}

// Attach registers the tracer on every given object.
func Attach(t *LifecycleTracer, objs ...object.Object) {
	for _, obj := range objs {
		obj.AcceptHook(t)
	}
}

func domainName(domain hooking.Hookable) string {
	if named, ok := domain.(object.Object); ok {
		return named.Name()
	}

	return fmt.Sprintf("%T", domain)
}

func describe(v any) string {
	if named, ok := v.(object.Object); ok {
		return named.Name()
	}

	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}

	return fmt.Sprint(v)
}
