package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestChecker_ReadinessAllHealthy(t *testing.T) {
	c := New(time.Second)
	c.Register("catalog", func(ctx context.Context) error { return nil })
	c.Register("history", func(ctx context.Context) error { return nil })

	status := c.Readiness(context.Background())
	if status.Status != "ready" {
		t.Errorf("status = %q, want ready", status.Status)
	}
	if len(status.Checks) != 2 {
		t.Errorf("expected 2 check results, got %d", len(status.Checks))
	}
	for name, result := range status.Checks {
		if result.Status != "ok" {
			t.Errorf("check %s = %q, want ok", name, result.Status)
		}
	}
}

func TestChecker_ReadinessDegraded(t *testing.T) {
	c := New(time.Second)
	c.Register("catalog", func(ctx context.Context) error { return nil })
	c.Register("history", func(ctx context.Context) error {
		return errors.New("database locked")
	})

	status := c.Readiness(context.Background())
	if status.Status != "degraded" {
		t.Errorf("status = %q, want degraded", status.Status)
	}
	if status.Checks["history"].Message != "database locked" {
		t.Errorf("failure detail lost: %+v", status.Checks["history"])
	}
}

func TestChecker_CheckTimeout(t *testing.T) {
	c := New(50 * time.Millisecond)
	c.Register("slow", func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
			return nil
		}
	})

	status := c.Readiness(context.Background())
	if status.Status != "degraded" {
		t.Errorf("slow check should degrade readiness, got %q", status.Status)
	}
}

func TestLivenessHandler(t *testing.T) {
	c := New(0)
	srv := httptest.NewServer(c.LivenessHandler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	var status Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if status.Status != "ok" {
		t.Errorf("body status = %q, want ok", status.Status)
	}
}

func TestReadinessHandler_Unavailable(t *testing.T) {
	c := New(time.Second)
	c.Register("catalog", func(ctx context.Context) error {
		return errors.New("no such table: assets")
	})

	srv := httptest.NewServer(c.ReadinessHandler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestVersionHandler(t *testing.T) {
	srv := httptest.NewServer(VersionHandler("1.0.0", "abc123", "2026-08-24"))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var info VersionInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if info.Version != "1.0.0" || info.Commit != "abc123" {
		t.Errorf("unexpected version info: %+v", info)
	}
	if info.GoVersion == "" {
		t.Error("go version missing")
	}
}
