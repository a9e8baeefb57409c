package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fhuszti/content-engine-go/internal/api_context"
	"github.com/fhuszti/content-engine-go/internal/logger"
	"github.com/fhuszti/content-engine-go/internal/model"
	"github.com/fhuszti/content-engine-go/internal/port"
	"github.com/fhuszti/content-engine-go/internal/usecase/asset"
)

// writeAssetError maps asset use-case errors to a response.
func writeAssetError(w http.ResponseWriter, fallback string, err error) {
	switch {
	case errors.Is(err, asset.ErrAssetNotFound):
		WriteError(w, http.StatusNotFound, "Asset not found", nil)
	case errors.Is(err, asset.ErrInvalidType),
		errors.Is(err, asset.ErrInvalidStatus),
		errors.Is(err, asset.ErrMissingScheduleAt),
		errors.Is(err, asset.ErrInvalidMediaName):
		WriteError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, port.ErrSchedulingUnavailable),
		errors.Is(err, port.ErrStorageUnavailable):
		WriteError(w, http.StatusServiceUnavailable, err.Error(), nil)
	default:
		WriteError(w, http.StatusInternalServerError, fallback, err)
	}
}

func ListAssetsHandler(svc port.AssetGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryInt(r, "limit")
		if err != nil {
			WriteError(w, http.StatusBadRequest, "limit must be an integer", nil)
			return
		}
		offset, err := queryInt(r, "offset")
		if err != nil {
			WriteError(w, http.StatusBadRequest, "offset must be an integer", nil)
			return
		}

		list, err := svc.ListAssets(r.Context(), limit, offset)
		if err != nil {
			writeAssetError(w, "Failed to list assets", err)
			return
		}
		RespondJSON(w, http.StatusOK, list)
	}
}

func GetAssetHandler(svc port.AssetGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.IDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		out, err := svc.GetAsset(r.Context(), id)
		if err != nil {
			writeAssetError(w, "Failed to get asset", err)
			return
		}
		RespondJSON(w, http.StatusOK, out)
	}
}

type CreateAssetRequest struct {
	Type         model.AssetType   `json:"type" validate:"required,asset_type"`
	Status       model.AssetStatus `json:"status" validate:"omitempty,asset_status"`
	Title        *string           `json:"title" validate:"omitempty,max=255"`
	Caption      *string           `json:"caption"`
	MediaURL     *string           `json:"mediaUrl" validate:"omitempty,url"`
	ThumbnailURL *string           `json:"thumbnailUrl" validate:"omitempty,url"`
	Duration     *int              `json:"duration" validate:"omitempty,gte=0"`
	FileSize     *int64            `json:"fileSize" validate:"omitempty,gte=0"`
	OwnerID      string            `json:"ownerId" validate:"omitempty,uuid"`
	ScheduledAt  *time.Time        `json:"scheduledAt"`
	Metadata     model.JSONMap     `json:"metadata"`
}

func CreateAssetHandler(svc port.AssetCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateAssetRequest
		if !decodeRequest(w, r, &req) {
			return
		}

		out, err := svc.CreateAsset(r.Context(), port.CreateAssetInput{
			Type:         req.Type,
			Status:       req.Status,
			Title:        req.Title,
			Caption:      req.Caption,
			MediaURL:     req.MediaURL,
			ThumbnailURL: req.ThumbnailURL,
			Duration:     req.Duration,
			FileSize:     req.FileSize,
			OwnerID:      optionalID(req.OwnerID),
			ScheduledAt:  req.ScheduledAt,
			Metadata:     req.Metadata,
		})
		if err != nil {
			writeAssetError(w, "Failed to create asset", err)
			return
		}

		RespondJSON(w, http.StatusCreated, out)
		logger.Infof(r.Context(), "✅  Created asset %s (#%s)", out.Serial, out.ID)
	}
}

type UpdateAssetRequest struct {
	Type         *model.AssetType   `json:"type" validate:"omitempty,asset_type"`
	Status       *model.AssetStatus `json:"status" validate:"omitempty,asset_status"`
	Title        *string            `json:"title" validate:"omitempty,max=255"`
	Caption      *string            `json:"caption"`
	MediaURL     *string            `json:"mediaUrl" validate:"omitempty,url"`
	ThumbnailURL *string            `json:"thumbnailUrl" validate:"omitempty,url"`
	Duration     *int               `json:"duration" validate:"omitempty,gte=0"`
	FileSize     *int64             `json:"fileSize" validate:"omitempty,gte=0"`
	ScheduledAt  *time.Time         `json:"scheduledAt"`
	Metadata     model.JSONMap      `json:"metadata"`
}

func UpdateAssetHandler(svc port.AssetUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.IDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		var req UpdateAssetRequest
		if !decodeRequest(w, r, &req) {
			return
		}

		out, err := svc.UpdateAsset(r.Context(), port.UpdateAssetInput{
			ID:           id,
			Type:         req.Type,
			Status:       req.Status,
			Title:        req.Title,
			Caption:      req.Caption,
			MediaURL:     req.MediaURL,
			ThumbnailURL: req.ThumbnailURL,
			Duration:     req.Duration,
			FileSize:     req.FileSize,
			ScheduledAt:  req.ScheduledAt,
			Metadata:     req.Metadata,
		})
		if err != nil {
			writeAssetError(w, "Failed to update asset", err)
			return
		}

		RespondJSON(w, http.StatusOK, out)
		logger.Infof(r.Context(), "✅  Updated asset #%s", id)
	}
}

func DeleteAssetHandler(svc port.AssetDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.IDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		if err := svc.DeleteAsset(r.Context(), id); err != nil {
			writeAssetError(w, "Failed to delete asset", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
		logger.Infof(r.Context(), "✅  Deleted asset #%s", id)
	}
}

type ScheduleAssetRequest struct {
	ScheduledAt *time.Time    `json:"scheduledAt" validate:"required"`
	Payload     model.JSONMap `json:"payload"`
}

func ScheduleAssetHandler(svc port.AssetScheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.IDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		var req ScheduleAssetRequest
		if !decodeRequest(w, r, &req) {
			return
		}

		out, err := svc.ScheduleAsset(r.Context(), port.ScheduleAssetInput{
			ID:          id,
			ScheduledAt: *req.ScheduledAt,
			Payload:     req.Payload,
		})
		if err != nil {
			writeAssetError(w, "Failed to schedule asset", err)
			return
		}

		RespondJSON(w, http.StatusOK, out)
		logger.Infof(r.Context(), "✅  Scheduled asset #%s for %s", id, req.ScheduledAt.UTC().Format(time.RFC3339))
	}
}

type GenerateMediaLinkRequest struct {
	Name string `json:"name" validate:"required,max=80"`
}

func GenerateMediaLinkHandler(svc port.MediaLinkGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.IDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		var req GenerateMediaLinkRequest
		if !decodeRequest(w, r, &req) {
			return
		}

		out, err := svc.GenerateMediaLink(r.Context(), port.GenerateMediaLinkInput{AssetID: id, Name: req.Name})
		if err != nil {
			writeAssetError(w, "Could not generate upload link", err)
			return
		}

		RespondJSON(w, http.StatusCreated, out)
		logger.Infof(r.Context(), "✅  Generated upload link for asset #%s", id)
	}
}

func DashboardStatsHandler(svc port.DashboardStatsGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := svc.GetDashboardStats(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to compute dashboard stats", err)
			return
		}
		RespondJSON(w, http.StatusOK, out)
	}
}

// queryInt returns 0 when the parameter is absent.
func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
