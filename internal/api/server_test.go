package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aerolith-io/groundwatch/internal/mavlink"
	"github.com/aerolith-io/groundwatch/internal/monitor"
)

type idleReceiver struct{}

func (idleReceiver) TryReceive() (mavlink.Message, error) { return nil, nil }

func testServer(t *testing.T) (*Server, *monitor.Core) {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	core := monitor.NewCore(log, idleReceiver{}, monitor.NewLogSink(log), 100)
	return NewServer(log, "127.0.0.1:0", core), core
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.router().ServeHTTP(rec, req)
	return rec
}

func TestLiveAndReady(t *testing.T) {
	t.Parallel()

	s, _ := testServer(t)
	for _, path := range []string{"/live", "/ready"} {
		if rec := get(t, s, path); rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}

func TestSnapshotEndpoint(t *testing.T) {
	t.Parallel()

	s, core := testServer(t)
	core.State().ApplyHeartbeat(&mavlink.Heartbeat{
		Type:       2,
		BaseMode:   mavlink.ModeFlagSafetyArmed | mavlink.ModeFlagCustomModeEnabled,
		CustomMode: 4,
	})
	core.State().ApplySysStatus(&mavlink.SysStatus{VoltageBattery: 12600, Load: 550})

	rec := get(t, s, "/v1/snapshot")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /v1/snapshot = %d, want 200", rec.Code)
	}

	var snap monitor.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !snap.Armed {
		t.Error("Armed = false, want true")
	}
	if snap.ModeLabel != "GUIDED" {
		t.Errorf("ModeLabel = %q, want GUIDED", snap.ModeLabel)
	}
	if snap.BatteryVolts == nil || *snap.BatteryVolts != 12.60 {
		t.Errorf("BatteryVolts = %v, want 12.60", snap.BatteryVolts)
	}
}

func TestLogEndpoint(t *testing.T) {
	t.Parallel()

	s, core := testServer(t)
	core.StatusLog().Insert(3, "Low battery")
	core.StatusLog().Insert(6, "EKF ready")

	rec := get(t, s, "/v1/log")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /v1/log = %d, want 200", rec.Code)
	}

	var resp LogResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 {
		t.Fatalf("Count = %d, want 2", resp.Count)
	}
	if resp.Entries[0].Text != "EKF ready" {
		t.Errorf("entries not newest-first: %+v", resp.Entries)
	}
}

func TestHealthUnhealthyWithoutTelemetry(t *testing.T) {
	t.Parallel()

	s, core := testServer(t)
	s.AddChecker(NewLinkHealthChecker(core.LastMessageAt, 5*time.Second))

	rec := get(t, s, "/health")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("GET /health = %d, want 503", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != StatusUnhealthy {
		t.Errorf("Status = %q, want %q", resp.Status, StatusUnhealthy)
	}
}

func TestHealthHealthyWithFreshTelemetry(t *testing.T) {
	t.Parallel()

	s, _ := testServer(t)
	s.AddChecker(NewLinkHealthChecker(func() time.Time { return time.Now() }, 5*time.Second))

	rec := get(t, s, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health = %d, want 200", rec.Code)
	}
}

func TestHealthDegradedWhenStale(t *testing.T) {
	t.Parallel()

	s, _ := testServer(t)
	stale := time.Now().Add(-time.Minute)
	s.AddChecker(NewLinkHealthChecker(func() time.Time { return stale }, 5*time.Second))

	rec := get(t, s, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health = %d, want 200 for degraded", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != StatusDegraded {
		t.Errorf("Status = %q, want %q", resp.Status, StatusDegraded)
	}
}
