package lifetime

import (
	"context"
	"sync"
	"time"
)

// timedSlot retires its instance after a fixed interval. Expiry is driven by
// a timer whose callback takes the same write lock as a direct replacement,
// so the two paths can never race: whichever runs second observes the other's
// result and backs off.
//
// State invariant: cur and timer are set and cleared together. sig outlives
// cur by one step: after expiry the fired signal stays behind until the next
// replacement installs a fresh one, so token() can still report the expiry to
// late observers.
type timedSlot struct {
	name          string
	interval      time.Duration
	factory       factoryFunc
	onTeardownErr func(error)

	mu     sync.RWMutex
	cur    *scope
	sig    *Signal
	timer  *time.Timer
	closed bool
}

func newTimedSlot(name string, interval time.Duration, factory factoryFunc, onTeardownErr func(error)) *timedSlot {
	return &timedSlot{
		name:          name,
		interval:      interval,
		factory:       factory,
		onTeardownErr: onTeardownErr,
	}
}

func (s *timedSlot) get(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, &CancelledError{Err: err}
	}

	for {
		// Fast path: a live, unexpired instance under the read lock.
		s.mu.RLock()
		if s.closed {
			s.mu.RUnlock()
			return nil, &DisposedError{}
		}
		if s.cur != nil && !s.sig.Fired() {
			if v, err := s.cur.value(); err == nil {
				s.mu.RUnlock()
				return v, nil
			}
		}
		s.mu.RUnlock()

		v, ok, err := s.replace(ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			return v, nil
		}
		// The pair installed for us expired before we could hand it out
		// (interval ≈ 0). Try again rather than returning a torn-down value.
	}
}

// replace takes the write lock, re-checks staleness and swaps in a fresh
// (scope, signal, timer) triple. It returns ok=false only when the instance
// it would return is already expired, in which case the caller retries.
func (s *timedSlot) replace(ctx context.Context) (any, bool, error) {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		return nil, false, &DisposedError{}
	}

	// Double-check: another goroutine may have replaced the pair while we
	// waited for the lock.
	if s.cur != nil && !s.sig.Fired() {
		if v, err := s.cur.value(); err == nil {
			s.mu.Unlock()
			return v, true, nil
		}
	}

	// Retire the stale pair. The timer callback no-ops once it sees a signal
	// pointer it does not own.
	old := s.cur
	if s.sig != nil {
		s.sig.Fire()
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.cur = nil

	instance, err := s.factory(ctx)
	if err != nil {
		s.mu.Unlock()
		s.disposeRetired(old)
		return nil, false, &ConstructionError{Type: s.name, Err: err}
	}

	sig := newSignal()
	s.cur = newScope(instance)
	s.sig = sig
	s.timer = time.AfterFunc(s.interval, func() { s.expire(sig) })

	live := !sig.Fired()
	s.mu.Unlock()

	s.disposeRetired(old)
	return instance, live, nil
}

// expire is the timer callback. It takes the slot's write lock before
// touching any state; if the pair it was armed for has already been replaced
// or the slot closed, it does nothing.
func (s *timedSlot) expire(sig *Signal) {
	s.mu.Lock()
	if s.closed || s.sig != sig {
		s.mu.Unlock()
		return
	}
	sig.Fire()
	old := s.cur
	s.cur = nil
	s.timer = nil
	s.mu.Unlock()

	s.disposeRetired(old)
}

func (s *timedSlot) token() (Token, error) {
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

func (s *timedSlot) close() error {
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
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
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

// disposeRetired tears down a superseded scope outside the lock. Failures are
// reported but never abort the replacement that retired the scope.
func (s *timedSlot) disposeRetired(old *scope) {
	if old == nil {
		return
	}
	if err := old.dispose(context.Background()); err != nil {
		s.onTeardownErr(&TeardownError{Type: s.name, Err: err})
	}
}
