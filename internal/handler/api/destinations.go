package api

import (
	"errors"
	"net/http"

	"github.com/fhuszti/content-engine-go/internal/api_context"
	"github.com/fhuszti/content-engine-go/internal/db"
	"github.com/fhuszti/content-engine-go/internal/logger"
	"github.com/fhuszti/content-engine-go/internal/model"
	"github.com/fhuszti/content-engine-go/internal/port"
	"github.com/fhuszti/content-engine-go/internal/usecase/destination"
)

func writeDestinationError(w http.ResponseWriter, fallback string, err error) {
	switch {
	case errors.Is(err, destination.ErrDestinationNotFound),
		errors.Is(err, destination.ErrAssetNotFound),
		errors.Is(err, destination.ErrAssetDestinationNotFound):
		WriteError(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, destination.ErrAlreadyAttached):
		WriteError(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, destination.ErrInvalidPublishStatus),
		errors.Is(err, destination.ErrMissingFields):
		WriteError(w, http.StatusBadRequest, err.Error(), nil)
	default:
		WriteError(w, http.StatusInternalServerError, fallback, err)
	}
}

func ListDestinationsHandler(svc port.DestinationManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListDestinations(r.Context())
		if err != nil {
			writeDestinationError(w, "Failed to list destinations", err)
			return
		}
		RespondJSON(w, http.StatusOK, list)
	}
}

type CreateDestinationRequest struct {
	Name          string        `json:"name" validate:"required,max=255"`
	Platform      string        `json:"platform" validate:"required,max=64"`
	AccountHandle string        `json:"accountHandle" validate:"required,max=255"`
	IsActive      *bool         `json:"isActive"`
	Config        model.JSONMap `json:"config"`
}

func CreateDestinationHandler(svc port.DestinationManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateDestinationRequest
		if !decodeRequest(w, r, &req) {
			return
		}

		out, err := svc.CreateDestination(r.Context(), port.CreateDestinationInput(req))
		if err != nil {
			writeDestinationError(w, "Failed to create destination", err)
			return
		}

		RespondJSON(w, http.StatusCreated, out)
		logger.Infof(r.Context(), "✅  Created destination #%s (%s)", out.ID, out.Platform)
	}
}

type UpdateDestinationRequest struct {
	Name          *string       `json:"name" validate:"omitempty,min=1,max=255"`
	Platform      *string       `json:"platform" validate:"omitempty,min=1,max=64"`
	AccountHandle *string       `json:"accountHandle" validate:"omitempty,min=1,max=255"`
	IsActive      *bool         `json:"isActive"`
	Config        model.JSONMap `json:"config"`
}

func UpdateDestinationHandler(svc port.DestinationManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.IDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		var req UpdateDestinationRequest
		if !decodeRequest(w, r, &req) {
			return
		}

		out, err := svc.UpdateDestination(r.Context(), port.UpdateDestinationInput{
			ID:            id,
			Name:          req.Name,
			Platform:      req.Platform,
			AccountHandle: req.AccountHandle,
			IsActive:      req.IsActive,
			Config:        req.Config,
		})
		if err != nil {
			writeDestinationError(w, "Failed to update destination", err)
			return
		}

		RespondJSON(w, http.StatusOK, out)
		logger.Infof(r.Context(), "✅  Updated destination #%s", id)
	}
}

type AttachDestinationRequest struct {
	DestinationID db.UUID `json:"destinationId" validate:"required"`
}

// AttachDestinationHandler starts tracking the publish state of an asset on a destination.
func AttachDestinationHandler(svc port.PublishTracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assetID, ok := api_context.IDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		var req AttachDestinationRequest
		if !decodeRequest(w, r, &req) {
			return
		}

		out, err := svc.AttachDestination(r.Context(), assetID, req.DestinationID)
		if err != nil {
			writeDestinationError(w, "Failed to attach destination", err)
			return
		}

		RespondJSON(w, http.StatusCreated, out)
		logger.Infof(r.Context(), "✅  Attached asset #%s to destination #%s", assetID, req.DestinationID)
	}
}

type UpdatePublishStatusRequest struct {
	Status       model.PublishStatus `json:"status" validate:"required,publish_status"`
	PublishedURL *string             `json:"publishedUrl" validate:"omitempty,url"`
	Error        *string             `json:"error"`
}

func UpdatePublishStatusHandler(svc port.PublishTracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.IDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		var req UpdatePublishStatusRequest
		if !decodeRequest(w, r, &req) {
			return
		}

		out, err := svc.UpdatePublishStatus(r.Context(), port.UpdatePublishStatusInput{
			ID:           id,
			Status:       req.Status,
			PublishedURL: req.PublishedURL,
			Error:        req.Error,
		})
		if err != nil {
			writeDestinationError(w, "Failed to update publish status", err)
			return
		}

		RespondJSON(w, http.StatusOK, out)
		logger.Infof(r.Context(), "✅  Asset destination #%s is now %q", id, req.Status)
	}
}
