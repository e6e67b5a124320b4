package lifetime_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-lifetime/framework/container"
	"github.com/km-arc/go-lifetime/framework/lifetime"
)

func buildConditional(t *testing.T, build func() *conditional) (*lifetime.Provider, *trackedFactory) {
	t.Helper()
	f := &trackedFactory{}
	b := lifetime.NewBuilder(container.New())
	lifetime.AddConditional(b, func(ctx context.Context, c *container.Container) (*conditional, error) {
		f.creations.Add(1)
		return build(), nil
	})
	p := b.Build()
	t.Cleanup(func() { _ = p.Close() })
	return p, f
}

func TestConditional_StableWhilePredicateFalse(t *testing.T) {
	p, f := buildConditional(t, func() *conditional { return &conditional{} })

	first, err := lifetime.GetRequiredService[*conditional](p)
	require.NoError(t, err)
	second, err := lifetime.GetRequiredService[*conditional](p)
	require.NoError(t, err)
	third, err := lifetime.GetRequiredService[*conditional](p)
	require.NoError(t, err)

	require.Same(t, first, second)
	require.Same(t, first, third)
	require.Equal(t, int32(1), f.creations.Load())
}

func TestConditional_AlwaysExpiredReplacesEveryCall(t *testing.T) {
	p, f := buildConditional(t, func() *conditional {
		c := &conditional{}
		c.expire.Store(true)
		return c
	})

	first, err := lifetime.GetRequiredService[*conditional](p)
	require.NoError(t, err)
	second, err := lifetime.GetRequiredService[*conditional](p)
	require.NoError(t, err)
	third, err := lifetime.GetRequiredService[*conditional](p)
	require.NoError(t, err)

	require.NotSame(t, first, second)
	require.NotSame(t, second, third)
	require.Equal(t, int32(3), f.creations.Load())

	// Each superseded instance was torn down exactly once.
	require.Equal(t, int32(1), first.closes.Load())
	require.Equal(t, int32(1), second.closes.Load())
	require.Equal(t, int32(0), third.closes.Load())
}

// A freshly created instance is handed out without running its predicate on
// the call that created it. The predicate only ever judges the instance that
// was already installed. Deliberate behavior, not an accident of ordering.
func TestConditional_FreshInstanceNotChecked(t *testing.T) {
	p, _ := buildConditional(t, func() *conditional { return &conditional{} })

	first, err := lifetime.GetRequiredService[*conditional](p)
	require.NoError(t, err)
	require.Equal(t, int32(0), first.checks.Load(), "creating call must not predicate-check the new instance")

	_, err = lifetime.GetRequiredService[*conditional](p)
	require.NoError(t, err)
	require.Equal(t, int32(1), first.checks.Load(), "second call checks the installed instance once")
}

func TestConditional_ReplacementFiresPreviousToken(t *testing.T) {
	p, _ := buildConditional(t, func() *conditional { return &conditional{} })

	first, err := lifetime.GetRequiredService[*conditional](p)
	require.NoError(t, err)
	tok, err := lifetime.GetToken[*conditional](p)
	require.NoError(t, err)
	require.False(t, tok.Fired())

	first.expire.Store(true)

	second, err := lifetime.GetRequiredService[*conditional](p)
	require.NoError(t, err)
	require.NotSame(t, first, second)
	require.True(t, tok.Fired(), "replacement must fire the retired instance's token")
}

func TestConditional_ConcurrentAccessCreatesOnce(t *testing.T) {
	p, f := buildConditional(t, func() *conditional { return &conditional{} })

	const n = 50
	var wg sync.WaitGroup
	instances := make([]*conditional, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := lifetime.GetRequiredService[*conditional](p)
			require.NoError(t, err)
			instances[i] = v
		}(i)
	}
	wg.Wait()

	require.Equal(t, int32(1), f.creations.Load())
	for i := 1; i < n; i++ {
		require.Same(t, instances[0], instances[i])
	}
}

// ctxCond drives the context-aware predicate from the test.
type ctxCond struct {
	tracked
	expired func(ctx context.Context) (bool, error)
}

func (s *ctxCond) ExpiredContext(ctx context.Context) (bool, error) {
	return s.expired(ctx)
}

func TestConditional_ContextPredicatePreferred(t *testing.T) {
	calls := 0
	svc := &ctxCond{expired: func(ctx context.Context) (bool, error) {
		calls++
		return false, nil
	}}

	b := lifetime.NewBuilder(container.New())
	lifetime.AddConditional(b, func(ctx context.Context, c *container.Container) (*ctxCond, error) {
		return svc, nil
	})
	p := b.Build()
	t.Cleanup(func() { _ = p.Close() })

	first, err := lifetime.GetRequiredServiceContext[*ctxCond](context.Background(), p)
	require.NoError(t, err)
	second, err := lifetime.GetRequiredServiceContext[*ctxCond](context.Background(), p)
	require.NoError(t, err)

	require.Same(t, first, second)
	require.Equal(t, 1, calls)
}

func TestConditional_PredicateErrorKeepsInstance(t *testing.T) {
	boom := errors.New("probe failed")
	failing := false
	svc := &ctxCond{}
	svc.expired = func(ctx context.Context) (bool, error) {
		if failing {
			return false, boom
		}
		return false, nil
	}

	b := lifetime.NewBuilder(container.New())
	lifetime.AddConditional(b, func(ctx context.Context, c *container.Container) (*ctxCond, error) {
		return svc, nil
	})
	p := b.Build()
	t.Cleanup(func() { _ = p.Close() })

	first, err := lifetime.GetRequiredService[*ctxCond](p)
	require.NoError(t, err)

	failing = true
	_, err = lifetime.GetRequiredService[*ctxCond](p)
	var condErr *lifetime.ConditionError
	require.ErrorAs(t, err, &condErr)
	require.ErrorIs(t, err, boom)
	require.Equal(t, int32(0), first.closes.Load(), "a failing predicate must not retire the instance")

	failing = false
	again, err := lifetime.GetRequiredService[*ctxCond](p)
	require.NoError(t, err)
	require.Same(t, first, again)
}

// Values implementing neither predicate interface behave like lazily-created
// singletons under a conditional lifetime.
func TestConditional_PlainValueActsAsSingleton(t *testing.T) {
	f := &trackedFactory{}
	b := lifetime.NewBuilder(container.New())
	lifetime.AddConditional(b, func(ctx context.Context, c *container.Container) (*tracked, error) {
		return f.build(), nil
	})
	p := b.Build()
	t.Cleanup(func() { _ = p.Close() })

	first, err := lifetime.GetRequiredService[*tracked](p)
	require.NoError(t, err)
	second, err := lifetime.GetRequiredService[*tracked](p)
	require.NoError(t, err)

	require.Same(t, first, second)
	require.Equal(t, int32(1), f.creations.Load())
}
