// Package container provides a small IoC container and service-provider
// system. It is the construction backbone of the framework: providers bind
// factories under string keys, and the lifetime package hands the container
// to its own factories so managed services can resolve their dependencies.
//
// # Lifecycle
//
//  1. Create: c := container.New()
//  2. Register providers: registry.Register(&MyProvider{})
//  3. Boot: registry.Boot(); safe to resolve everything after this
//  4. Serve
//
// # Bindings
//
//	// Transient: new value every Make
//	c.Bind("clock", func(c *container.Container) any { return NewClock() })
//
//	// Singleton: created once, reused
//	c.Singleton("config", func(c *container.Container) any { return config.Load() })
//
//	// Pre-built value
//	c.Instance("config", cfg)
//
//	// Alias
//	c.Alias("config", "cfg")
//
// # Resolving
//
//	raw := c.Make("config")
//	cfg := container.Resolve[*config.Config](c, "config") // typed, panics on mismatch
//	cfg, ok := container.MustResolve[*config.Config](c, "config")
//
// # Deferred providers
//
// A provider reporting IsDeferred() true is not registered until one of its
// Provides() keys is first resolved.
package container
