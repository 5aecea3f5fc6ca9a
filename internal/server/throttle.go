package server

import (
	"math"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"
)

// ThrottleMiddleware simulates the platform's concurrency budget with a
// token bucket. Exhausted requests get 429 and a Retry-After hint
// instead of queueing, which is how the real platform answers throttled
// invocations.
func ThrottleMiddleware(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := limiter.Reserve()
			if delay := res.Delay(); delay > 0 {
				res.Cancel()
				seconds := int(math.Ceil(delay.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
