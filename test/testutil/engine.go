package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/fhuszti/content-engine-go/internal/port"
)

// FakeEngine is an automation engine stand-in recording every intake call.
type FakeEngine struct {
	*httptest.Server

	mu       sync.Mutex
	requests []port.EngineTriggerRequest
	resumed  []json.RawMessage
}

func StartFakeEngine() *FakeEngine {
	e := &FakeEngine{}
	mux := http.NewServeMux()
	mux.HandleFunc("/webhook/intake", func(w http.ResponseWriter, r *http.Request) {
		var req port.EngineTriggerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		e.mu.Lock()
		e.requests = append(e.requests, req)
		e.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(port.EngineExecution{
			ExecutionID: "exec-" + req.WorkflowID.String(),
			ResumeURL:   e.URL + "/webhook/resume/" + req.WorkflowID.String(),
		})
	})
	mux.HandleFunc("/webhook/resume/", func(w http.ResponseWriter, r *http.Request) {
		var raw json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		e.mu.Lock()
		e.resumed = append(e.resumed, raw)
		e.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})
	e.Server = httptest.NewServer(mux)
	return e
}

// IntakeURL is the address to configure as the engine webhook.
func (e *FakeEngine) IntakeURL() string {
	return e.URL + "/webhook/intake"
}

func (e *FakeEngine) Requests() []port.EngineTriggerRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]port.EngineTriggerRequest(nil), e.requests...)
}

func (e *FakeEngine) Resumed() []json.RawMessage {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]json.RawMessage(nil), e.resumed...)
}
