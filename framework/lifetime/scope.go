package lifetime

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
)

// Shutdowner is implemented by managed values that need context-aware
// teardown. It takes precedence over io.Closer when both are implemented.
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

// scope owns exactly one constructed instance together with its teardown.
// A scope is exclusively owned by its slot and is destroyed at most once.
type scope struct {
	instance any
	once     sync.Once
	disposed atomic.Bool
}

func newScope(instance any) *scope {
	return &scope{instance: instance}
}

// value returns the owned instance, or an error if the scope was already
// destroyed.
func (s *scope) value() (any, error) {
	if s.disposed.Load() {
		return nil, &DisposedError{}
	}
	return s.instance, nil
}

// dispose tears the instance down exactly once: Shutdown if the instance
// implements it, otherwise Close, otherwise nothing. Repeat calls are no-ops
// and return nil.
func (s *scope) dispose(ctx context.Context) error {
	var err error
	s.once.Do(func() {
		s.disposed.Store(true)
		switch v := s.instance.(type) {
		case Shutdowner:
			err = v.Shutdown(ctx)
		case io.Closer:
			err = v.Close()
		}
	})
	return err
}
