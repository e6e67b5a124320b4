package app_test

import (
	"testing"
	"time"

	"github.com/km-arc/go-lifetime/app"
	"github.com/km-arc/go-lifetime/framework/config"
	"github.com/km-arc/go-lifetime/framework/container"
	"github.com/km-arc/go-lifetime/framework/lifetime"
)

func TestNewApiToken_Random(t *testing.T) {
	a := app.NewApiToken()
	b := app.NewApiToken()

	if a.Value == "" || len(a.Value) != 48 {
		t.Errorf("token value %q: want 48 hex chars", a.Value)
	}
	if a.Value == b.Value {
		t.Error("two issued tokens should differ")
	}
	if a.IssuedAt.IsZero() {
		t.Error("IssuedAt should be set")
	}
}

func TestLifetimeServiceProvider_WiresApiToken(t *testing.T) {
	c := container.New()
	c.Instance("config", &config.Config{
		Lifetime: config.LifetimeConfig{TokenTTL: time.Hour},
	})

	reg := container.NewProviderRegistry(c)
	reg.Register(&app.LifetimeServiceProvider{})
	reg.Boot()

	lt := app.Lifetime(c)
	t.Cleanup(func() { _ = lt.Close() })

	first, err := lifetime.GetRequiredService[*app.ApiToken](lt)
	if err != nil {
		t.Fatalf("GetRequiredService: %v", err)
	}
	second, err := lifetime.GetRequiredService[*app.ApiToken](lt)
	if err != nil {
		t.Fatalf("GetRequiredService: %v", err)
	}

	if first != second {
		t.Error("within the TTL every caller should share one token")
	}

	tok, err := lifetime.GetToken[*app.ApiToken](lt)
	if err != nil {
		t.Fatalf("GetToken: %v", err)
	}
	if tok.Fired() {
		t.Error("freshly issued token should not report expired")
	}
}
