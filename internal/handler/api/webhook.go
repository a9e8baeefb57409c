package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fhuszti/content-engine-go/internal/api_context"
	"github.com/fhuszti/content-engine-go/internal/db"
	"github.com/fhuszti/content-engine-go/internal/logger"
	"github.com/fhuszti/content-engine-go/internal/model"
	"github.com/fhuszti/content-engine-go/internal/port"
	"github.com/fhuszti/content-engine-go/internal/usecase/workflow"
)

const maxResumeBody = 1 << 20

type TriggerWorkflowRequest struct {
	Type    string        `json:"type" validate:"required,max=64"`
	AssetID string        `json:"assetId" validate:"omitempty,uuid"`
	Payload model.JSONMap `json:"payload"`
}

// TriggerWorkflowHandler starts a workflow on the automation engine. The
// callback address handed to the engine is built on publicBaseURL, or on the
// address the request came in on when it is empty. X-Forwarded-* headers only
// count when trustProxyHeaders is set.
func TriggerWorkflowHandler(svc port.WorkflowTriggerer, publicBaseURL string, trustProxyHeaders bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TriggerWorkflowRequest
		if !decodeRequest(w, r, &req) {
			return
		}

		base := publicBaseURL
		if base == "" {
			base = requestBaseURL(r, trustProxyHeaders)
		}

		out, err := svc.TriggerWorkflow(r.Context(), port.TriggerWorkflowInput{
			Type:            req.Type,
			AssetID:         optionalID(req.AssetID),
			Payload:         req.Payload,
			CallbackBaseURL: base,
		})
		if err != nil {
			if errors.Is(err, workflow.ErrMissingType) {
				WriteError(w, http.StatusBadRequest, "Workflow type is required", nil)
				return
			}
			WriteError(w, http.StatusInternalServerError, "Failed to trigger workflow", err)
			return
		}

		RespondJSON(w, http.StatusOK, out)
		logger.Infof(r.Context(), "✅  Triggered %q workflow #%s", req.Type, out.WorkflowID)
	}
}

type WorkflowCallbackRequest struct {
	WorkflowID db.UUID       `json:"workflowId" validate:"required"`
	Status     string        `json:"status" validate:"required,max=32"`
	Result     model.JSONMap `json:"result"`
	Error      *string       `json:"error"`
	AssetID    string        `json:"assetId" validate:"omitempty,uuid"`
}

// WorkflowCallbackHandler receives the engine's completion report. When the
// request carries a verified token it must have been issued for the same workflow.
func WorkflowCallbackHandler(svc port.CallbackHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req WorkflowCallbackRequest
		if !decodeRequest(w, r, &req) {
			return
		}

		if tokenID, ok := api_context.CallbackWorkflowIDFromContext(r.Context()); ok && tokenID != req.WorkflowID {
			WriteError(w, http.StatusForbidden, "Callback token was not issued for this workflow", nil)
			return
		}

		err := svc.HandleCallback(r.Context(), port.WorkflowCallbackInput{
			WorkflowID: req.WorkflowID,
			Status:     model.WorkflowStatus(req.Status),
			Result:     req.Result,
			Error:      req.Error,
			AssetID:    optionalID(req.AssetID),
		})
		if err != nil {
			if errors.Is(err, workflow.ErrAssetMismatch) {
				WriteError(w, http.StatusForbidden, "Asset does not belong to this workflow", err)
				return
			}
			WriteError(w, http.StatusInternalServerError, "Failed to record workflow callback", err)
			return
		}

		RespondJSON(w, http.StatusOK, SuccessResponse{Success: true})
		logger.Infof(r.Context(), "✅  Recorded callback for workflow #%s", req.WorkflowID)
	}
}

// ResumeWorkflowHandler forwards the raw request body to the workflow's paused execution.
func ResumeWorkflowHandler(svc port.WorkflowResumer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.IDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxResumeBody))
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid request", fmt.Errorf("read body: %w", err))
			return
		}
		if len(body) > 0 && !json.Valid(body) {
			WriteError(w, http.StatusBadRequest, "Invalid request", errors.New("body is not valid JSON"))
			return
		}

		if err := svc.ResumeWorkflow(r.Context(), port.ResumeWorkflowInput{WorkflowID: id, Data: body}); err != nil {
			if errors.Is(err, workflow.ErrWorkflowNotFound) {
				WriteError(w, http.StatusNotFound, "Workflow not found", nil)
				return
			}
			WriteError(w, http.StatusInternalServerError, "Failed to resume workflow", err)
			return
		}

		RespondJSON(w, http.StatusOK, SuccessResponse{Success: true})
		logger.Infof(r.Context(), "✅  Resumed workflow #%s", id)
	}
}

func requestBaseURL(r *http.Request, trustProxyHeaders bool) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if !trustProxyHeaders {
		return scheme + "://" + r.Host
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.SplitN(proto, ",", 2)[0])
	}
	host := r.Host
	if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
		host = strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	return scheme + "://" + host
}

// optionalID parses an already validated id; empty means absent.
func optionalID(s string) *db.UUID {
	if s == "" {
		return nil
	}
	id, err := db.ParseUUID(s)
	if err != nil {
		return nil
	}
	return &id
}
