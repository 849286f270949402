package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/capacity-planner/internal/config"
	"github.com/example/capacity-planner/internal/forecast"
	"github.com/example/capacity-planner/internal/persistence/sqlite"
	"github.com/example/capacity-planner/internal/profile"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	storage, err := sqlite.Open(filepath.Join(t.TempDir(), "planner.db"))
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	t.Cleanup(func() { _ = storage.Close() })
	if _, err := storage.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := config.Config{
		Location:            time.UTC,
		ForecastTTL:         24 * time.Hour,
		CacheSize:           16,
		ForecastConcurrency: 2,
	}
	srv, err := buildServer(cfg, storage, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("buildServer: %v", err)
	}

	server := httptest.NewServer(srv.handler)
	t.Cleanup(server.Close)
	return server
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestBuildServer_EndToEnd(t *testing.T) {
	server := newTestServer(t)

	if resp := do(t, http.MethodGet, server.URL+"/healthz", ""); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("healthz status = %d", resp.StatusCode)
	}

	resp := do(t, http.MethodPost, server.URL+"/profiles/u-1/preset", `{"userType":"employee"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("preset status = %d", resp.StatusCode)
	}
	var stored profile.ResourceProfile
	if err := json.NewDecoder(resp.Body).Decode(&stored); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if stored.UserID != "u-1" || stored.UserType != profile.UserTypeEmployee {
		t.Fatalf("profile = %+v", stored)
	}

	base := time.Now().UTC().Format(time.DateOnly)
	resp = do(t, http.MethodPost, server.URL+"/forecasts", `{"userId":"u-1","baseDate":"`+base+`","parameters":{"analysisDepth":"basic","forecastPeriod":1,"riskTolerance":"medium"}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("forecast status = %d", resp.StatusCode)
	}
	var prediction forecast.FuturePrediction
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		t.Fatalf("decode prediction: %v", err)
	}
	if len(prediction.WeeklyCapacityPrediction) != 1 {
		t.Fatalf("weeks = %d, want 1", len(prediction.WeeklyCapacityPrediction))
	}

	resp = do(t, http.MethodGet, server.URL+"/forecasts/u-1/latest", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("latest status = %d", resp.StatusCode)
	}

	resp = do(t, http.MethodPost, server.URL+"/schedules/generate", `{"userId":"u-1","date":"`+base+`","tasks":[{"id":"t1","title":"Report","priority":"HIGH","estimatedHours":1,"status":"TODO"}]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("schedule status = %d", resp.StatusCode)
	}
	var schedule struct {
		Metadata struct {
			ScheduledTasks int `json:"scheduledTasks"`
		} `json:"metadata"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&schedule); err != nil {
		t.Fatalf("decode schedule: %v", err)
	}
	if schedule.Metadata.ScheduledTasks != 1 {
		t.Fatalf("scheduled tasks = %d, want 1", schedule.Metadata.ScheduledTasks)
	}
}
