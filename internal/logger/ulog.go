package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/fhuszti/content-engine-go/internal/api_context"
	"github.com/go-chi/chi/v5/middleware"
)

const service = "content-engine"

var std *slog.Logger

// contextHandler tags every record with the chi request id, or "system" for
// background work, and with the workflow a verified callback was issued for.
type contextHandler struct{ next slog.Handler }

func (h contextHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.next.Enabled(ctx, lvl)
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	reqID := middleware.GetReqID(ctx)
	if reqID == "" {
		reqID = "system"
	}
	r.AddAttrs(slog.String("req_id", reqID))
	if wfID, ok := api_context.CallbackWorkflowIDFromContext(ctx); ok {
		r.AddAttrs(slog.String("workflow_id", wfID.String()))
	}
	return h.next.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(a []slog.Attr) slog.Handler {
	return contextHandler{next: h.next.WithAttrs(a)}
}

func (h contextHandler) WithGroup(n string) slog.Handler {
	return contextHandler{next: h.next.WithGroup(n)}
}

// Options selects the output of New.
type Options struct {
	Format    string // json or text
	Level     slog.Leveler
	AddSource bool
}

// OptionsFromEnv reads LOG_FORMAT (json|text, default json), LOG_LEVEL
// (debug|info|warn|error, default info) and LOG_SOURCE (default false).
func OptionsFromEnv() Options {
	return Options{
		Format:    strings.ToLower(os.Getenv("LOG_FORMAT")),
		Level:     parseLevel(os.Getenv("LOG_LEVEL")),
		AddSource: parseBool(os.Getenv("LOG_SOURCE")),
	}
}

// New builds the service logger writing to w.
func New(w io.Writer, o Options) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: o.Level, AddSource: o.AddSource}

	var base slog.Handler
	if o.Format == "text" {
		base = slog.NewTextHandler(w, hopts)
	} else {
		base = slog.NewJSONHandler(w, hopts)
	}
	return slog.New(contextHandler{next: base}).With("svc", service)
}

// Init installs the environment-configured logger as the process default.
// Output of the standard log package (asynq, cron) is routed through it too.
func Init() {
	std = New(os.Stdout, OptionsFromEnv())
	slog.SetDefault(std)

	log.SetFlags(0)
	log.SetOutput(slog.NewLogLogger(std.Handler(), slog.LevelInfo).Writer())
}

func parseLevel(s string) slog.Leveler {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}

func current() *slog.Logger {
	if std != nil {
		return std
	}
	return slog.Default()
}

func Info(ctx context.Context, msg string, attrs ...any) {
	current().InfoContext(ctx, msg, attrs...)
}
func Warn(ctx context.Context, msg string, attrs ...any) {
	current().WarnContext(ctx, msg, attrs...)
}
func Error(ctx context.Context, msg string, attrs ...any) {
	current().ErrorContext(ctx, msg, attrs...)
}
func Debug(ctx context.Context, msg string, attrs ...any) {
	current().DebugContext(ctx, msg, attrs...)
}

func Infof(ctx context.Context, format string, a ...any) {
	current().InfoContext(ctx, fmt.Sprintf(format, a...))
}
func Errorf(ctx context.Context, format string, a ...any) {
	current().ErrorContext(ctx, fmt.Sprintf(format, a...))
}
func Warnf(ctx context.Context, format string, a ...any) {
	current().WarnContext(ctx, fmt.Sprintf(format, a...))
}
func Debugf(ctx context.Context, format string, a ...any) {
	current().DebugContext(ctx, fmt.Sprintf(format, a...))
}
