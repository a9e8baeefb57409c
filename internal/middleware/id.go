package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fhuszti/content-engine-go/internal/api_context"
	"github.com/fhuszti/content-engine-go/internal/db"
	"github.com/fhuszti/content-engine-go/internal/handler/api"
	"github.com/go-chi/chi/v5"
)

// WithID parses the {id} route parameter into a db.UUID stored under api_context.IDKey.
func WithID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			if id == "" {
				api.WriteError(w, http.StatusBadRequest, "ID is required", nil)
				return
			}
			parsedID, err := db.ParseUUID(id)
			if err != nil {
				api.WriteError(w, http.StatusBadRequest, fmt.Sprintf("ID %q is not a valid UUID", id), nil)
				return
			}

			ctx := context.WithValue(r.Context(), api_context.IDKey, parsedID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
