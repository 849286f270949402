package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	t.Run("attaches request logger and logs completion", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		var sawLogger bool
		handler := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sawLogger = LoggerFromContext(r.Context()) != nil
			w.WriteHeader(http.StatusTeapot)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profiles", nil))

		if !sawLogger {
			t.Fatal("expected request scoped logger in context")
		}
		if rec.Code != http.StatusTeapot {
			t.Fatalf("status = %d", rec.Code)
		}

		var completed map[string]any
		for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
			var entry map[string]any
			if err := json.Unmarshal([]byte(line), &entry); err != nil {
				t.Fatalf("decode log line %q: %v", line, err)
			}
			if entry["msg"] == "request completed" {
				completed = entry
			}
		}
		if completed == nil {
			t.Fatalf("no completion entry in %s", buf.String())
		}
		if completed["status"] != float64(http.StatusTeapot) || completed["path"] != "/profiles" || completed["request_id"] != float64(1) {
			t.Fatalf("completion entry = %v", completed)
		}
	})

	t.Run("server errors log at error level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		base := slog.New(slog.NewTextHandler(&buf, nil))
		handler := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/forecasts", nil))
		if !strings.Contains(buf.String(), "level=ERROR") {
			t.Fatalf("expected error level entry, got %s", buf.String())
		}
	})
}

func TestRecoverer(t *testing.T) {
	t.Parallel()

	t.Run("converts panics into 500 responses", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		handler := Recoverer(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("unexpected")
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", rec.Code)
		}
		var resp errorResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Message != localizedStatusMessage(http.StatusInternalServerError) {
			t.Fatalf("message = %q", resp.Message)
		}
		if !strings.Contains(buf.String(), "handler panicked") {
			t.Fatalf("panic not logged: %s", buf.String())
		}
	})

	t.Run("re-panics on aborted handlers", func(t *testing.T) {
		t.Parallel()

		handler := Recoverer(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic(http.ErrAbortHandler)
		}))

		defer func() {
			if p := recover(); p != http.ErrAbortHandler {
				t.Fatalf("recovered %v, want ErrAbortHandler", p)
			}
		}()
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestUserIDContext(t *testing.T) {
	t.Parallel()

	ctx := ContextWithUserID(httptest.NewRequest(http.MethodGet, "/", nil).Context(), "u-1")
	if id, ok := UserIDFromContext(ctx); !ok || id != "u-1" {
		t.Fatalf("UserIDFromContext = %q, %v", id, ok)
	}
}

func TestHandlerLoggerAttachesPathUserID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := ContextWithUserID(ContextWithLogger(httptest.NewRequest(http.MethodGet, "/", nil).Context(), logger), "u-7")

	handlerLogger(ctx, nil, "ProfileHandler", "Get").Info("hello")

	out := buf.String()
	for _, want := range []string{"handler=ProfileHandler", "operation=Get", "user_id=u-7"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}
