package app

import (
	"context"
	"log"

	"github.com/km-arc/go-lifetime/framework/config"
	"github.com/km-arc/go-lifetime/framework/container"
	"github.com/km-arc/go-lifetime/framework/lifetime"
)

// LifetimeServiceProvider wires the application's managed services into a
// lifetime.Provider and binds it into the container.
//
// Bound abstracts:
//   - "lifetime" → *lifetime.Provider
//
// Policies come from the optional LIFETIME_POLICIES YAML file, falling back
// to the TTLs in config.
type LifetimeServiceProvider struct {
	container.BaseProvider
}

func (p *LifetimeServiceProvider) Register(app *container.Container) {
	app.Singleton("lifetime", func(c *container.Container) any {
		cfg := container.Resolve[*config.Config](c, "config")

		policies, err := config.LoadPolicies(cfg.Lifetime.PolicyFile)
		if err != nil {
			log.Printf("lifetime policies: %v (using defaults)", err)
			policies = config.Policies{}
		}

		b := lifetime.NewBuilder(c)

		lifetime.AddTimed(b, policies.TTL("api-token", cfg.Lifetime.TokenTTL),
			func(ctx context.Context, c *container.Container) (*ApiToken, error) {
				return NewApiToken(), nil
			})

		lifetime.AddConditional(b,
			func(ctx context.Context, c *container.Container) (*RedisCache, error) {
				cfg := container.Resolve[*config.Config](c, "config")
				return NewRedisCache(cfg.Redis), nil
			})

		return b.Build()
	})
}

// Lifetime resolves the bound *lifetime.Provider.
func Lifetime(c *container.Container) *lifetime.Provider {
	return container.Resolve[*lifetime.Provider](c, "lifetime")
}
