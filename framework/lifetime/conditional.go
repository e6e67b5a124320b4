package lifetime

import (
	"context"
	"sync"
)

// Expirable is implemented by managed values that decide their own
// invalidation. The slot evaluates Expired on the existing instance on every
// access; a true result retires it and a replacement is built.
type Expirable interface {
	Expired() bool
}

// ExpirableContext is the context-aware predicate. It is preferred over
// Expirable when a value implements both. A non-nil error surfaces to the
// caller as a ConditionError and leaves the existing instance installed.
type ExpirableContext interface {
	ExpiredContext(ctx context.Context) (bool, error)
}

// checkExpired runs the instance's own predicate. Values implementing neither
// interface never self-invalidate and behave like lazily-created singletons.
func checkExpired(ctx context.Context, v any) (bool, error) {
	switch c := v.(type) {
	case ExpirableContext:
		return c.ExpiredContext(ctx)
	case Expirable:
		return c.Expired(), nil
	}
	return false, nil
}

// conditionalSlot retires its instance when the instance's own predicate
// reports expiry. There is no timer: the signal fires only when the instance
// is replaced or the slot closed.
//
// A freshly created instance is handed out without a predicate check; the
// predicate only ever judges the instance that was already installed.
type conditionalSlot struct {
	name          string
	factory       factoryFunc
	onTeardownErr func(error)

	mu     sync.RWMutex
	cur    *scope
	sig    *Signal
	closed bool
}

func newConditionalSlot(name string, factory factoryFunc, onTeardownErr func(error)) *conditionalSlot {
	return &conditionalSlot{
		name:          name,
		factory:       factory,
		onTeardownErr: onTeardownErr,
	}
}

func (s *conditionalSlot) get(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, &CancelledError{Err: err}
	}

	// Fast path: evaluate the predicate under the read lock so other readers
	// keep flowing while it runs.
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, &DisposedError{}
	}
	if s.cur != nil {
		if v, verr := s.cur.value(); verr == nil {
			expired, err := checkExpired(ctx, v)
			if err != nil {
				s.mu.RUnlock()
				return nil, &ConditionError{Type: s.name, Err: err}
			}
			if !expired {
				s.mu.RUnlock()
				return v, nil
			}
		}
	}
	s.mu.RUnlock()

	return s.replace(ctx)
}

// replace re-checks under the write lock and swaps in a fresh instance if the
// slot is still empty or the predicate still reports expiry.
func (s *conditionalSlot) replace(ctx context.Context) (any, error) {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		return nil, &DisposedError{}
	}

	// Double-check: another goroutine may already have replaced the instance
	// while we waited for the lock, in which case the predicate is run again
	// before deciding anything.
	if s.cur != nil {
		if v, verr := s.cur.value(); verr == nil {
			expired, err := checkExpired(ctx, v)
			if err != nil {
				s.mu.Unlock()
				return nil, &ConditionError{Type: s.name, Err: err}
			}
			if !expired {
				s.mu.Unlock()
				return v, nil
			}
		}
	}

	old := s.cur
	if s.sig != nil {
		s.sig.Fire()
	}
	s.cur = nil

	instance, err := s.factory(ctx)
	if err != nil {
		s.mu.Unlock()
		s.disposeRetired(old)
		return nil, &ConstructionError{Type: s.name, Err: err}
	}

	s.cur = newScope(instance)
	s.sig = newSignal()
	s.mu.Unlock()

	s.disposeRetired(old)
	return instance, nil
}

func (s *conditionalSlot) token() (Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return Token{}, &DisposedError{}
	}
	if s.sig == nil {
		return Token{}, &NotInitializedError{Type: s.name}
	}
	return s.sig.Token(), nil
}

func (s *conditionalSlot) close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	old := s.cur
	if s.sig != nil {
		s.sig.Fire()
	}
	s.cur = nil
	s.sig = nil
	s.mu.Unlock()

	if old != nil {
		if err := old.dispose(context.Background()); err != nil {
			return &TeardownError{Type: s.name, Err: err}
		}
	}
	return nil
}

func (s *conditionalSlot) disposeRetired(old *scope) {
	if old == nil {
		return
	}
	if err := old.dispose(context.Background()); err != nil {
		s.onTeardownErr(&TeardownError{Type: s.name, Err: err})
	}
}
