package api_context

import (
	"context"

	"github.com/fhuszti/content-engine-go/internal/db"
)

type ctxKey string

const (
	IDKey                 ctxKey = "id"
	CallbackWorkflowIDKey ctxKey = "callbackWorkflowID"
)

func IDFromContext(ctx context.Context) (db.UUID, bool) {
	id, ok := ctx.Value(IDKey).(db.UUID)
	return id, ok
}

// CallbackWorkflowIDFromContext returns the workflow a verified callback token was issued for.
func CallbackWorkflowIDFromContext(ctx context.Context) (db.UUID, bool) {
	id, ok := ctx.Value(CallbackWorkflowIDKey).(db.UUID)
	return id, ok
}
