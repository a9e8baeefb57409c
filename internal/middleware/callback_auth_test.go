package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fhuszti/content-engine-go/internal/api_context"
	"github.com/fhuszti/content-engine-go/internal/callback"
	"github.com/fhuszti/content-engine-go/internal/db"
)

func TestWithCallbackAuth(t *testing.T) {
	signer := callback.NewSigner("s3cret", time.Hour)
	other := callback.NewSigner("other", time.Hour)
	wfID := db.NewUUID()

	good, err := signer.Sign(wfID)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	forged, err := other.Sign(wfID)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	tests := []struct {
		name           string
		target         string
		authHeader     string
		wantStatus     int
		expectNextCall bool
	}{
		{"missing token", "/cb", "", http.StatusUnauthorized, false},
		{"wrong prefix", "/cb", "Token " + good, http.StatusUnauthorized, false},
		{"forged token", "/cb?token=" + forged, "", http.StatusUnauthorized, false},
		{"garbage token", "/cb?token=abc", "", http.StatusUnauthorized, false},
		{"query token", "/cb?token=" + good, "", http.StatusNoContent, true},
		{"bearer token", "/cb", "Bearer " + good, http.StatusNoContent, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				id, ok := api_context.CallbackWorkflowIDFromContext(r.Context())
				if !ok || id != wfID {
					t.Errorf("workflow id in context = %v (%v); want %v", id, ok, wfID)
				}
				w.WriteHeader(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodPost, tc.target, nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rec := httptest.NewRecorder()
			WithCallbackAuth(signer)(next).ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d", rec.Code, tc.wantStatus)
			}
			if nextCalled != tc.expectNextCall {
				t.Fatalf("nextCalled = %v; want %v", nextCalled, tc.expectNextCall)
			}
		})
	}
}

func TestWithCallbackAuth_NoVerifier(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := api_context.CallbackWorkflowIDFromContext(r.Context()); ok {
			t.Error("no workflow id expected without a verifier")
		}
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	WithCallbackAuth(nil)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cb", nil))

	if !called || rec.Code != http.StatusNoContent {
		t.Fatalf("called = %v, status = %d; want passthrough", called, rec.Code)
	}
}
