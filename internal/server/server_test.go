package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"media-screensaver/internal/session"
)

type staticStatus session.Status

func (s staticStatus) Status() session.Status {
	return session.Status(s)
}

func TestStatusEndpoint(t *testing.T) {
	srv := New("127.0.0.1:0", staticStatus{
		Current:   "/photos/a.jpg",
		Index:     3,
		Count:     10,
		ScanState: "complete",
		Algorithm: "random",
		Volume:    0.5,
	})

	req := httptest.NewRequest("GET", "/status", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON content type, got %q", ct)
	}

	var got session.Status
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if got.Current != "/photos/a.jpg" || got.Count != 10 || got.Algorithm != "random" {
		t.Errorf("Unexpected status: %+v", got)
	}
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name      string
		scanState string
		want      string
	}{
		{"Scanning", "in_progress", "starting"},
		{"Complete", "complete", "healthy"},
		{"Cancelled", "cancelled", "healthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := New("127.0.0.1:0", staticStatus{ScanState: tt.scanState, Count: 4})

			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

			var got HealthResponse
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if got.Status != tt.want {
				t.Errorf("Status = %q, want %q", got.Status, tt.want)
			}
			if got.Entries != 4 {
				t.Errorf("Entries = %d, want 4", got.Entries)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := New("127.0.0.1:0", staticStatus{})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("POST", "/status", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for POST /status, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := New("127.0.0.1:0", staticStatus{})
	if err := srv.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer srv.Shutdown(context.Background())

	resp, err := http.Get("http://" + srv.Addr() + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain") {
		t.Errorf("Unexpected content type %q", resp.Header.Get("Content-Type"))
	}
}

func TestSanitizeLogField(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/status", "/status"},
		{"/a\nb", "/a b"},
		{"/a\x1b[31m", "/a[31m"},
		{"/a\x00b", "/ab"},
		{"/a\tb", "/a\tb"},
	}

	for _, tt := range tests {
		if got := sanitizeLogField(tt.input); got != tt.want {
			t.Errorf("sanitizeLogField(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
