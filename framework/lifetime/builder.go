package lifetime

import (
	"context"
	"log"
	"reflect"
	"time"

	"github.com/km-arc/go-lifetime/framework/container"
)

// Factory constructs one managed instance of T. It receives the caller's
// context and the backing container the builder was bound to, so factories
// can resolve their own dependencies:
//
//	func(ctx context.Context, c *container.Container) (*RedisCache, error) {
//	    cfg := container.Resolve[*config.Config](c, "config")
//	    return NewRedisCache(cfg.Redis), nil
//	}
type Factory[T any] func(ctx context.Context, c *container.Container) (T, error)

// Builder collects lifetime registrations and produces an immutable Provider.
// Registering the same type twice overwrites the earlier registration; nothing
// can be added after Build.
type Builder struct {
	container     *container.Container
	slots         map[reflect.Type]slot
	onTeardownErr func(error)
}

// BuilderOption customizes a Builder.
type BuilderOption func(*Builder)

// WithTeardownLogger overrides where teardown failures of retired instances
// are reported. The default writes to the standard logger.
func WithTeardownLogger(fn func(error)) BuilderOption {
	return func(b *Builder) {
		b.onTeardownErr = fn
	}
}

// NewBuilder creates a Builder whose factories construct through c.
func NewBuilder(c *container.Container, opts ...BuilderOption) *Builder {
	b := &Builder{
		container: c,
		slots:     make(map[reflect.Type]slot),
		onTeardownErr: func(err error) {
			log.Printf("lifetime: %v", err)
		},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddTimed registers T with a timed lifetime: every instance is retired
// interval after its creation, eagerly torn down by the slot's timer, and
// rebuilt on the next access.
func AddTimed[T any](b *Builder, interval time.Duration, factory Factory[T]) *Builder {
	t := typeOf[T]()
	b.slots[t] = newTimedSlot(t.String(), interval, wrapFactory(b.container, factory), b.onTeardownErr)
	return b
}

// AddConditional registers T with a conditional lifetime: on every access the
// existing instance's own predicate (Expirable or ExpirableContext) decides
// whether it is replaced. Types implementing neither interface behave like
// lazily-created singletons.
func AddConditional[T any](b *Builder, factory Factory[T]) *Builder {
	t := typeOf[T]()
	b.slots[t] = newConditionalSlot(t.String(), wrapFactory(b.container, factory), b.onTeardownErr)
	return b
}

// Build freezes the registrations into a Provider. The Builder should not be
// used afterwards.
func (b *Builder) Build() *Provider {
	slots := make(map[reflect.Type]slot, len(b.slots))
	for t, s := range b.slots {
		slots[t] = s
	}
	return &Provider{reg: &registry{slots: slots}}
}

func wrapFactory[T any](c *container.Container, f Factory[T]) factoryFunc {
	return func(ctx context.Context) (any, error) {
		v, err := f(ctx, c)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}
