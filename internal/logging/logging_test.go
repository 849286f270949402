package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := ContextWithLogger(context.Background(), logger)
	if FromContext(ctx) != logger {
		t.Fatalf("expected logger to be retrievable from context")
	}
	if FromContext(context.Background()) != nil {
		t.Fatalf("expected nil logger for bare context")
	}
	if got := ContextWithLogger(ctx, nil); got != ctx {
		t.Fatalf("expected nil logger to leave context unchanged")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"trace":   slog.LevelInfo,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestNew_SelectsHandler(t *testing.T) {
	t.Parallel()

	var jsonOut bytes.Buffer
	New("json", "info", &jsonOut).Info("hello", "k", "v")
	var record map[string]any
	if err := json.Unmarshal(jsonOut.Bytes(), &record); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", jsonOut.String(), err)
	}
	if record["msg"] != "hello" || record["k"] != "v" {
		t.Fatalf("unexpected record %v", record)
	}

	var textOut bytes.Buffer
	New("text", "info", &textOut).Info("hello")
	if !strings.Contains(textOut.String(), "msg=hello") {
		t.Fatalf("expected text output, got %q", textOut.String())
	}

	var autoOut bytes.Buffer
	New("auto", "info", &autoOut).Info("hello")
	if !strings.HasPrefix(strings.TrimSpace(autoOut.String()), "{") {
		t.Fatalf("expected non-terminal writer to get JSON, got %q", autoOut.String())
	}

	var filtered bytes.Buffer
	New("json", "warn", &filtered).Info("dropped")
	if filtered.Len() != 0 {
		t.Fatalf("expected info record to be filtered at warn level, got %q", filtered.String())
	}
}
