package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fhuszti/content-engine-go/internal/db"
	"github.com/fhuszti/content-engine-go/internal/mock"
	"github.com/fhuszti/content-engine-go/internal/model"
	"github.com/fhuszti/content-engine-go/internal/port"
	"github.com/fhuszti/content-engine-go/internal/usecase/asset"
)

func TestListAssetsHandler(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		svcErr     error
		wantStatus int
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", query: "", wantStatus: http.StatusOK},
		{name: "explicit paging", query: "?limit=10&offset=20", wantStatus: http.StatusOK, wantLimit: 10, wantOffset: 20},
		{name: "bad limit", query: "?limit=ten", wantStatus: http.StatusBadRequest},
		{name: "bad offset", query: "?offset=x", wantStatus: http.StatusBadRequest},
		{name: "service error", query: "", svcErr: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mock.MockAssetGetter{ListOut: []*model.Asset{{ID: db.NewUUID(), Serial: "ABC"}}, ListErr: tc.svcErr}
			rec := httptest.NewRecorder()

			ListAssetsHandler(svc)(rec, httptest.NewRequest(http.MethodGet, "/api/assets"+tc.query, nil))

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d", rec.Code, tc.wantStatus)
			}
			if tc.wantStatus != http.StatusOK {
				return
			}
			if svc.ListedLimit != tc.wantLimit || svc.ListedOff != tc.wantOffset {
				t.Errorf("paging = (%d, %d); want (%d, %d)", svc.ListedLimit, svc.ListedOff, tc.wantLimit, tc.wantOffset)
			}
			var got []model.Asset
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(got) != 1 || got[0].Serial != "ABC" {
				t.Errorf("body = %+v; want one asset ABC", got)
			}
		})
	}
}

func TestGetAssetHandler(t *testing.T) {
	id := db.NewUUID()

	tests := []struct {
		name       string
		svcErr     error
		wantStatus int
	}{
		{name: "found", wantStatus: http.StatusOK},
		{name: "not found", svcErr: asset.ErrAssetNotFound, wantStatus: http.StatusNotFound},
		{name: "service error", svcErr: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mock.MockAssetGetter{
				GetOut: &model.AssetDetails{Asset: &model.Asset{ID: id}, Destinations: []*model.AssetDestinationDetails{}, Workflows: []*model.Workflow{}},
				GetErr: tc.svcErr,
			}
			rec := httptest.NewRecorder()

			GetAssetHandler(svc)(rec, withID(httptest.NewRequest(http.MethodGet, "/api/assets/x", nil), id))

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d", rec.Code, tc.wantStatus)
			}
			if svc.GetID != id {
				t.Errorf("id = %v; want %v", svc.GetID, id)
			}
			if tc.wantStatus == http.StatusOK && !strings.Contains(rec.Body.String(), `"workflows":[]`) {
				t.Errorf("body = %q; want empty workflows list", rec.Body.String())
			}
		})
	}
}

func TestCreateAssetHandler(t *testing.T) {
	owner := db.NewUUID()

	tests := []struct {
		name         string
		body         string
		svcErr       error
		wantStatus   int
		wantCalled   bool
		wantErrorMap map[string]string
	}{
		{
			name:       "happy path",
			body:       `{"type":"reel","title":"Launch","ownerId":"` + owner.String() + `","metadata":{"tags":["a"]}}`,
			wantStatus: http.StatusCreated,
			wantCalled: true,
		},
		{
			name:         "unknown type",
			body:         `{"type":"story"}`,
			wantStatus:   http.StatusBadRequest,
			wantErrorMap: map[string]string{"type": "asset_type"},
		},
		{
			name:         "unknown status and negative duration",
			body:         `{"type":"post","status":"archived","duration":-1}`,
			wantStatus:   http.StatusBadRequest,
			wantErrorMap: map[string]string{"status": "asset_status", "duration": "gte"},
		},
		{
			name:       "serials exhausted",
			body:       `{"type":"carousel"}`,
			svcErr:     asset.ErrSerialExhausted,
			wantStatus: http.StatusInternalServerError,
			wantCalled: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mock.MockAssetCreator{Out: &model.Asset{ID: db.NewUUID(), Serial: "LWW29HC0XYZ"}, Err: tc.svcErr}
			rec := httptest.NewRecorder()

			CreateAssetHandler(svc)(rec, httptest.NewRequest(http.MethodPost, "/api/assets", strings.NewReader(tc.body)))

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d (body=%s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if svc.Called != tc.wantCalled {
				t.Fatalf("service called = %v; want %v", svc.Called, tc.wantCalled)
			}
			if tc.wantErrorMap != nil {
				var errs map[string]string
				if err := json.Unmarshal(rec.Body.Bytes(), &errs); err != nil {
					t.Fatalf("error JSON: %v", err)
				}
				for k, want := range tc.wantErrorMap {
					if errs[k] != want {
						t.Errorf("errs[%q] = %q; want %q", k, errs[k], want)
					}
				}
			}
			if tc.name == "happy path" {
				if svc.In.Type != model.AssetTypeReel || svc.In.Title == nil || *svc.In.Title != "Launch" {
					t.Errorf("input = %+v; want reel titled Launch", svc.In)
				}
				if svc.In.OwnerID == nil || *svc.In.OwnerID != owner {
					t.Errorf("owner = %v; want %v", svc.In.OwnerID, owner)
				}
			}
		})
	}
}

func TestUpdateAssetHandler(t *testing.T) {
	id := db.NewUUID()

	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
	}{
		{name: "status change", body: `{"status":"ready"}`, wantStatus: http.StatusOK},
		{name: "invalid status", body: `{"status":"nope"}`, wantStatus: http.StatusBadRequest},
		{name: "not found", body: `{"title":"x"}`, svcErr: asset.ErrAssetNotFound, wantStatus: http.StatusNotFound},
		{name: "service rejects", body: `{"title":"x"}`, svcErr: asset.ErrInvalidStatus, wantStatus: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mock.MockAssetUpdater{Out: &model.Asset{ID: id}, Err: tc.svcErr}
			rec := httptest.NewRecorder()

			UpdateAssetHandler(svc)(rec, withID(httptest.NewRequest(http.MethodPatch, "/api/assets/x", strings.NewReader(tc.body)), id))

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d (body=%s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if tc.name == "status change" {
				if svc.In.ID != id || svc.In.Status == nil || *svc.In.Status != model.AssetStatusReady {
					t.Errorf("input = %+v; want status ready for %v", svc.In, id)
				}
			}
		})
	}
}

func TestDeleteAssetHandler(t *testing.T) {
	id := db.NewUUID()

	tests := []struct {
		name       string
		svcErr     error
		wantStatus int
	}{
		{name: "deleted", wantStatus: http.StatusNoContent},
		{name: "not found", svcErr: asset.ErrAssetNotFound, wantStatus: http.StatusNotFound},
		{name: "service error", svcErr: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mock.MockAssetDeleter{Err: tc.svcErr}
			rec := httptest.NewRecorder()

			DeleteAssetHandler(svc)(rec, withID(httptest.NewRequest(http.MethodDelete, "/api/assets/x", nil), id))

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d", rec.Code, tc.wantStatus)
			}
			if svc.ID != id {
				t.Errorf("id = %v; want %v", svc.ID, id)
			}
		})
	}
}

func TestScheduleAssetHandler(t *testing.T) {
	id := db.NewUUID()
	at := time.Date(2026, 11, 1, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
		wantCalled bool
	}{
		{
			name:       "scheduled",
			body:       fmt.Sprintf(`{"scheduledAt":%q,"payload":{"platforms":["ig"]}}`, at.Format(time.RFC3339)),
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
		{name: "missing scheduledAt", body: `{}`, wantStatus: http.StatusBadRequest},
		{
			name:       "no queue configured",
			body:       fmt.Sprintf(`{"scheduledAt":%q}`, at.Format(time.RFC3339)),
			svcErr:     fmt.Errorf("enqueue: %w", port.ErrSchedulingUnavailable),
			wantStatus: http.StatusServiceUnavailable,
			wantCalled: true,
		},
		{
			name:       "unknown asset",
			body:       fmt.Sprintf(`{"scheduledAt":%q}`, at.Format(time.RFC3339)),
			svcErr:     asset.ErrAssetNotFound,
			wantStatus: http.StatusNotFound,
			wantCalled: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mock.MockAssetScheduler{Out: &model.Asset{ID: id, Status: model.AssetStatusQueued}, Err: tc.svcErr}
			rec := httptest.NewRecorder()

			ScheduleAssetHandler(svc)(rec, withID(httptest.NewRequest(http.MethodPost, "/api/assets/x/schedule", strings.NewReader(tc.body)), id))

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d (body=%s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if svc.Called != tc.wantCalled {
				t.Fatalf("service called = %v; want %v", svc.Called, tc.wantCalled)
			}
			if tc.wantCalled && !svc.In.ScheduledAt.Equal(at) {
				t.Errorf("scheduledAt = %v; want %v", svc.In.ScheduledAt, at)
			}
		})
	}
}

func TestGenerateMediaLinkHandler(t *testing.T) {
	id := db.NewUUID()

	tests := []struct {
		name             string
		body             string
		svcErr           error
		wantStatus       int
		wantBodyContains string
	}{
		{name: "happy path", body: `{"name":"clip.mp4"}`, wantStatus: http.StatusCreated, wantBodyContains: `"uploadUrl":"https://minio/presigned"`},
		{name: "invalid JSON", body: `{"name":`, wantStatus: http.StatusBadRequest, wantBodyContains: "Invalid request"},
		{name: "name too long", body: fmt.Sprintf(`{"name":"%s"}`, strings.Repeat("a", 81)), wantStatus: http.StatusBadRequest, wantBodyContains: `"name":"max"`},
		{name: "storage not configured", body: `{"name":"a.png"}`, svcErr: port.ErrStorageUnavailable, wantStatus: http.StatusServiceUnavailable},
		{name: "bad media name", body: `{"name":".."}`, svcErr: asset.ErrInvalidMediaName, wantStatus: http.StatusBadRequest},
		{name: "service error", body: `{"name":"a.png"}`, svcErr: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantBodyContains: "Could not generate upload link"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mock.MockMediaLinkGenerator{
				Out: port.GenerateMediaLinkOutput{UploadURL: "https://minio/presigned", MediaURL: "https://minio/assets/a.png"},
				Err: tc.svcErr,
			}
			rec := httptest.NewRecorder()

			GenerateMediaLinkHandler(svc)(rec, withID(httptest.NewRequest(http.MethodPost, "/api/assets/x/upload_link", strings.NewReader(tc.body)), id))

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d (body=%s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q; want application/json", ct)
			}
			if tc.wantBodyContains != "" && !strings.Contains(rec.Body.String(), tc.wantBodyContains) {
				t.Errorf("body = %q; want to contain %q", rec.Body.String(), tc.wantBodyContains)
			}
		})
	}
}

func TestDashboardStatsHandler(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		svc := &mock.MockDashboardStatsGetter{Out: &port.DashboardStats{TotalAssets: 4, Published: 1, SuccessRate: 25}}
		rec := httptest.NewRecorder()
		DashboardStatsHandler(svc)(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; want 200", rec.Code)
		}
		var got port.DashboardStats
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.TotalAssets != 4 || got.SuccessRate != 25 {
			t.Errorf("stats = %+v", got)
		}
	})

	t.Run("error", func(t *testing.T) {
		svc := &mock.MockDashboardStatsGetter{Err: errors.New("db down")}
		rec := httptest.NewRecorder()
		DashboardStatsHandler(svc)(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d; want 500", rec.Code)
		}
	})
}
