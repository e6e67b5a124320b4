package lifetime

import "sync"

// Signal is the one-shot expiry notifier tied to a managed instance. The
// owning slot fires it exactly when the instance is retired. Firing is
// idempotent and terminal: a fired Signal never resets.
type Signal struct {
	once sync.Once
	done chan struct{}
}

func newSignal() *Signal {
	return &Signal{done: make(chan struct{})}
}

// Fire marks the signal as expired. Safe to call any number of times from any
// goroutine; only the first call has an effect.
func (s *Signal) Fire() {
	s.once.Do(func() {
		close(s.done)
	})
}

// Fired reports whether the signal has expired.
func (s *Signal) Fired() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Token returns the observer half of the signal.
func (s *Signal) Token() Token {
	return Token{sig: s}
}

// Token lets callers observe an instance's retirement without being able to
// trigger it. Tokens are small values and safe to copy.
//
// The zero Token reports not-fired and a nil Done channel.
type Token struct {
	sig *Signal
}

// Fired reports whether the instance this token was issued for has been
// retired.
func (t Token) Fired() bool {
	return t.sig != nil && t.sig.Fired()
}

// Done returns a channel that is closed when the instance is retired.
//
//	select {
//	case <-token.Done():
//	    // re-resolve the service
//	case <-ctx.Done():
//	}
func (t Token) Done() <-chan struct{} {
	if t.sig == nil {
		return nil
	}
	return t.sig.done
}
