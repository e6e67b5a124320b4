package main

import (
	"net/http"
	"time"

	"github.com/km-arc/go-lifetime/app"
	fwapp "github.com/km-arc/go-lifetime/framework/app"
	gohttp "github.com/km-arc/go-lifetime/framework/http"
	"github.com/km-arc/go-lifetime/framework/lifetime"
	"github.com/km-arc/go-lifetime/framework/routing"
)

func main() {
	application := fwapp.New() // loads .env automatically
	application.Register(&app.LifetimeServiceProvider{})
	application.Boot()

	lt := app.Lifetime(application.Container)
	r := application.Router()

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		res := gohttp.NewResponse(w)
		res.Success(map[string]any{
			"name":      application.Config().App.Name,
			"endpoints": []string{"/api/token", "/api/cache/{key}", "/healthz"},
		})
	})

	r.Prefix("/api", func(api *routing.Router) {
		api.Middleware(routing.Throttle(50, 100))

		// GET /api/token returns the current managed bearer token. The same value
		// is served to everyone until its TTL elapses; "expired" flips to
		// true on a token retrieved just before the rollover.
		api.Get("/token", func(w http.ResponseWriter, req *http.Request) {
			res := gohttp.NewResponse(w)

			tok, err := lifetime.GetRequiredServiceContext[*app.ApiToken](req.Context(), lt)
			if err != nil {
				res.ServerError(err.Error())
				return
			}
			expiry, err := lifetime.GetToken[*app.ApiToken](lt)
			if err != nil {
				res.ServerError(err.Error())
				return
			}
			res.Success(map[string]any{
				"token":     tok.Value,
				"issued_at": tok.IssuedAt,
				"expired":   expiry.Fired(),
			})
		})

		// GET /api/cache/{key}
		api.Get("/cache/{key}", func(w http.ResponseWriter, req *http.Request) {
			res := gohttp.NewResponse(w)

			cache, err := lifetime.GetRequiredServiceContext[*app.RedisCache](req.Context(), lt)
			if err != nil {
				res.Unavailable(err.Error())
				return
			}
			key := routing.Param(req, "key")
			value, ok, err := cache.Get(req.Context(), key)
			if err != nil {
				res.Unavailable(err.Error())
				return
			}
			if !ok {
				res.NotFound()
				return
			}
			res.Success(map[string]any{"key": key, "value": value})
		})

		// PUT /api/cache/{key}
		api.Put("/cache/{key}", func(w http.ResponseWriter, req *http.Request) {
			request := gohttp.NewRequest(req)
			res := gohttp.NewResponse(w)

			var body struct {
				Value      string `json:"value"`
				TTLSeconds int    `json:"ttl_seconds"`
			}
			if err := request.Bind(&body); err != nil {
				res.Error(http.StatusBadRequest, err.Error())
				return
			}

			cache, err := lifetime.GetRequiredServiceContext[*app.RedisCache](req.Context(), lt)
			if err != nil {
				res.Unavailable(err.Error())
				return
			}
			key := routing.Param(req, "key")
			ttl := time.Duration(body.TTLSeconds) * time.Second
			if err := cache.Put(req.Context(), key, body.Value, ttl); err != nil {
				res.Unavailable(err.Error())
				return
			}
			res.Created(map[string]any{"key": key})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		res := gohttp.NewResponse(w)

		// GetService: a construction failure should degrade the report, not
		// fail the endpoint.
		status := "ok"
		cache, err := lifetime.GetServiceContext[*app.RedisCache](req.Context(), lt)
		if err != nil || cache == nil {
			status = "degraded"
		} else if expired, _ := cache.ExpiredContext(req.Context()); expired {
			status = "degraded"
		}
		res.Success(map[string]any{"status": status})
	})

	application.Run()
}
