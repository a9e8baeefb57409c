package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fhuszti/content-engine-go/internal/logger"
	"github.com/fhuszti/content-engine-go/internal/validation"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

func WriteError(w http.ResponseWriter, status int, msg string, err error) {
	ctx := context.Background()
	if err != nil {
		logger.Errorf(ctx, "❌  %s: %v", msg, err)
	} else {
		logger.Error(ctx, "❌  "+msg)
	}
	w.Header().Set("Cache-Control", "no-store, max-age=0, must-revalidate")
	RespondJSON(w, status, ErrorResponse{Error: msg})
}

func RespondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf(context.Background(), "❌  Failed to encode JSON response: %v", err)
	}
}

func RespondRawJSON(w http.ResponseWriter, status int, raw []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(raw); err != nil {
		logger.Errorf(context.Background(), "❌  Failed to write JSON payload: %v", err)
	}
}

// decodeRequest reads a JSON body into dst and validates it.
// On failure the response is already written and false is returned.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request", fmt.Errorf("invalid JSON: %w", err))
		return false
	}

	if errs := validation.ValidateStruct(dst); errs != nil {
		errsJSON, err := validation.ErrorsToJson(errs)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Validation error (could not encode details)", fmt.Errorf("encoding validation errors: %w", err))
			return false
		}

		RespondRawJSON(w, http.StatusBadRequest, []byte(errsJSON))
		logger.Warnf(r.Context(), "❌  Validation failed: %s", errsJSON)
		return false
	}
	return true
}

func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		RespondJSON(w, http.StatusNotFound, ErrorResponse{Error: "This endpoint does not exist"})
	}
}

func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		RespondJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "This method is not allowed"})
	}
}
