package lifetime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// Provider is the front door for managed-lifetime services. It resolves a
// requested type to its slot and forwards; it holds no instance state of its
// own. Safe for concurrent use.
//
// Because Go methods cannot take type parameters, resolution goes through
// top-level generic functions:
//
//	token, err := lifetime.GetRequiredService[*ApiToken](provider)
type Provider struct {
	reg       *registry
	disposed  atomic.Bool
	closeOnce sync.Once
}

// GetService returns the current instance of T, creating it if needed.
// An unregistered T yields the zero value and a nil error.
func GetService[T any](p *Provider) (T, error) {
	return resolve[T](context.Background(), p, false)
}

// GetRequiredService is GetService except that an unregistered T fails with
// NotRegisteredError.
func GetRequiredService[T any](p *Provider) (T, error) {
	return resolve[T](context.Background(), p, true)
}

// GetServiceContext is the context-aware GetService. A context that is
// already done fails fast with CancelledError before any creation happens;
// otherwise ctx flows into the factory and the instance's expiry predicate.
func GetServiceContext[T any](ctx context.Context, p *Provider) (T, error) {
	return resolve[T](ctx, p, false)
}

// GetRequiredServiceContext is the context-aware GetRequiredService.
func GetRequiredServiceContext[T any](ctx context.Context, p *Provider) (T, error) {
	return resolve[T](ctx, p, true)
}

func resolve[T any](ctx context.Context, p *Provider, required bool) (T, error) {
	var zero T

	if p.disposed.Load() {
		return zero, &DisposedError{}
	}
	if err := ctx.Err(); err != nil {
		return zero, &CancelledError{Err: err}
	}

	t := typeOf[T]()
	sl, ok := p.reg.lookup(t)
	if !ok {
		if required {
			return zero, &NotRegisteredError{Type: t.String()}
		}
		return zero, nil
	}

	v, err := sl.get(ctx)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, &ConstructionError{Type: t.String(), Err: fmt.Errorf("factory produced %T", v)}
	}
	return typed, nil
}

// GetToken returns the expiry token of T's current instance. It fails with
// NotRegisteredError for unknown types and with NotInitializedError when no
// instance of T was ever created. The returned token may already report
// fired if the instance expired between creation and this call.
func GetToken[T any](p *Provider) (Token, error) {
	if p.disposed.Load() {
		return Token{}, &DisposedError{}
	}
	t := typeOf[T]()
	sl, ok := p.reg.lookup(t)
	if !ok {
		return Token{}, &NotRegisteredError{Type: t.String()}
	}
	return sl.token()
}

// Close retires every slot: current instances are torn down and their signals
// fired. Every operation on the provider afterwards fails with DisposedError.
// Teardown failures are collected, not short-circuited. Idempotent.
func (p *Provider) Close() error {
	var errs []error
	p.closeOnce.Do(func() {
		p.disposed.Store(true)
		for _, sl := range p.reg.slots {
			if err := sl.close(); err != nil {
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}
