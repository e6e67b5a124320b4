package lifetime_test

import (
	"errors"
	"sync/atomic"
)

// tracked is a managed test value that counts its teardowns.
type tracked struct {
	id     int32
	closes atomic.Int32
}

func (s *tracked) Close() error {
	s.closes.Add(1)
	return nil
}

// trackedFactory builds tracked values and counts factory invocations.
type trackedFactory struct {
	creations atomic.Int32
}

func (f *trackedFactory) build() *tracked {
	return &tracked{id: f.creations.Add(1)}
}

// conditional is a managed test value whose expiry is script-controlled.
type conditional struct {
	tracked
	expire atomic.Bool
	checks atomic.Int32
}

func (s *conditional) Expired() bool {
	s.checks.Add(1)
	return s.expire.Load()
}

// failingCloser expires on demand and always fails its teardown.
type failingCloser struct {
	expire atomic.Bool
}

func (s *failingCloser) Expired() bool {
	return s.expire.Load()
}

func (s *failingCloser) Close() error {
	return errors.New("close failed")
}
