package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/baechuer/credential-service/internal/domain"
)

// RateLimit limits requests per client IP within window. Rejections use the
// standard error envelope. A non-positive limit disables limiting.
func RateLimit(limit int, window time.Duration, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		limit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			writeErr(w, r, domain.ErrRateLimited("ip"))
		}),
	)
}
