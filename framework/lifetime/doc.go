// Package lifetime provides managed-lifetime service slots.
//
// A slot lazily creates an instance of a registered type through a factory,
// hands that same instance to every concurrent caller, and transparently
// replaces it with a fresh one when its invalidation policy fires. Two
// policies exist:
//
//   - Timed: the instance is retired after a fixed interval.
//   - Conditional: the instance is asked, on every access, whether it has
//     expired (via the Expirable / ExpirableContext interfaces).
//
// Each live instance carries a one-shot expiry Signal. Callers can obtain the
// observer half (a Token) and react to retirement without polling.
//
// # Usage
//
//	c := container.New()
//	b := lifetime.NewBuilder(c)
//
//	lifetime.AddTimed(b, 5*time.Minute, func(ctx context.Context, c *container.Container) (*ApiToken, error) {
//	    return NewApiToken(), nil
//	})
//	lifetime.AddConditional(b, func(ctx context.Context, c *container.Container) (*RedisCache, error) {
//	    return NewRedisCache(cfg.Redis), nil
//	})
//
//	provider := b.Build()
//	defer provider.Close()
//
//	token, err := lifetime.GetRequiredService[*ApiToken](provider)
//	expiry, err := lifetime.GetToken[*ApiToken](provider)
//	<-expiry.Done() // fires when the token is reissued
//
// All operations are safe for concurrent use. Readers proceed in parallel;
// replacement of an instance is serialized per slot, so a burst of callers
// hitting an empty or expired slot triggers exactly one factory invocation.
package lifetime
