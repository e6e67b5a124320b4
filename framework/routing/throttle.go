package routing

import (
	"net/http"

	"golang.org/x/time/rate"
)

// Throttle returns a middleware that limits the wrapped routes to rps
// requests per second with the given burst, answering 429 when exceeded.
// The limiter is shared by every request passing through the middleware.
//
//	api.Middleware(routing.Throttle(50, 100))
func Throttle(rps float64, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
