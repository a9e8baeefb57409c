package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/fhuszti/content-engine-go/internal/api_context"
	"github.com/fhuszti/content-engine-go/internal/db"
	"github.com/fhuszti/content-engine-go/internal/handler/api"
	"github.com/fhuszti/content-engine-go/internal/logger"
)

type TokenVerifier interface {
	Verify(raw string) (db.UUID, error)
}

// WithCallbackAuth requires a callback token, taken from the "token" query
// parameter or a Bearer header, and stores the workflow it was issued for.
// A nil verifier lets every request through.
func WithCallbackAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	if verifier == nil {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.URL.Query().Get("token")
			if raw == "" {
				if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
					raw = strings.TrimPrefix(auth, "Bearer ")
				}
			}
			if raw == "" {
				api.WriteError(w, http.StatusUnauthorized, "missing callback token", nil)
				return
			}

			id, err := verifier.Verify(raw)
			if err != nil {
				logger.Warnf(r.Context(), "rejected callback token: %v", err)
				api.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}

			ctx := context.WithValue(r.Context(), api_context.CallbackWorkflowIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
