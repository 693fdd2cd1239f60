package response

import (
	"net/http"

	appCtx "github.com/baechuer/credential-service/internal/pkg/context"
)

// RequestIDFromContext extracts the id set by the RequestID middleware.
func RequestIDFromContext(r *http.Request) string {
	return appCtx.GetRequestID(r.Context())
}
