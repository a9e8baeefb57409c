package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/fhuszti/content-engine-go/internal/api_context"
	"github.com/fhuszti/content-engine-go/internal/db"
	"github.com/go-chi/chi/v5/middleware"
)

func TestNew_ContextAttributes(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Options{Format: "json", Level: slog.LevelInfo})

	wfID := db.NewUUID()
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	ctx = context.WithValue(ctx, api_context.CallbackWorkflowIDKey, wfID)
	l.InfoContext(ctx, "hello")
	l.InfoContext(context.Background(), "background")
	l.DebugContext(context.Background(), "filtered out")

	dec := json.NewDecoder(&buf)
	var first, second map[string]any
	if err := dec.Decode(&first); err != nil {
		t.Fatalf("decode first record: %v", err)
	}
	if err := dec.Decode(&second); err != nil {
		t.Fatalf("decode second record: %v", err)
	}
	if dec.More() {
		t.Error("debug record should have been filtered at info level")
	}

	if first["req_id"] != "req-42" {
		t.Errorf("req_id = %v; want req-42", first["req_id"])
	}
	if first["workflow_id"] != wfID.String() {
		t.Errorf("workflow_id = %v; want %s", first["workflow_id"], wfID)
	}
	if first["svc"] != service {
		t.Errorf("svc = %v; want %s", first["svc"], service)
	}
	if second["req_id"] != "system" {
		t.Errorf("req_id = %v; want system", second["req_id"])
	}
	if _, ok := second["workflow_id"]; ok {
		t.Error("workflow_id should be absent outside callbacks")
	}
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, Options{Format: "text", Level: slog.LevelDebug}).DebugContext(context.Background(), "sweep")

	out := buf.String()
	if !strings.Contains(out, "msg=sweep") || !strings.Contains(out, "req_id=system") {
		t.Errorf("unexpected text record: %q", out)
	}
}

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv("LOG_FORMAT", "TEXT")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_SOURCE", "true")

	o := OptionsFromEnv()
	if o.Format != "text" || o.Level.Level() != slog.LevelWarn || !o.AddSource {
		t.Errorf("unexpected options: %+v", o)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in).Level(); got != want {
			t.Errorf("parseLevel(%q) = %v; want %v", in, got, want)
		}
	}
}
