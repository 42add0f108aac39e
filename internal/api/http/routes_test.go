package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/airwatchhq/airwatch/internal/airq"
	"github.com/airwatchhq/airwatch/internal/airq/providers"
	"github.com/airwatchhq/airwatch/internal/assistant"
	"github.com/airwatchhq/airwatch/internal/store"
)

func newTestApp() (*fiber.App, *store.MemoryStore) {
	app := fiber.New()

	memStore := store.NewMemoryStore(0, 0)
	airSvc := airq.NewService(memStore, airq.NewCityRegistry(""),
		[]airq.Provider{providers.NewMockProvider()}, "Bengaluru Central")
	chatSvc := assistant.NewService(nil, memStore)

	RegisterRoutes(app, airSvc, chatSvc, memStore)
	return app, memStore
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return resp
}

// TestCompareValidation verifies the comparison endpoint rejects missing,
// empty, and oversized city lists.
func TestCompareValidation(t *testing.T) {
	app, _ := newTestApp()

	for _, body := range []string{
		`{}`,
		`{"cities": []}`,
	} {
		resp := postJSON(t, app, "/api/cities/compare", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %s: expected status %d, got %d", body, http.StatusBadRequest, resp.StatusCode)
		}
	}

	cities := make([]string, 11)
	for i := range cities {
		cities[i] = fmt.Sprintf("City %d", i)
	}
	payload, _ := json.Marshal(map[string]any{"cities": cities})

	resp := postJSON(t, app, "/api/cities/compare", string(payload))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("11 cities: expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestCompareReturnsSnapshotPerCity(t *testing.T) {
	app, memStore := newTestApp()

	resp := postJSON(t, app, "/api/cities/compare", `{"cities": ["Delhi"]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var result struct {
		Cities []airq.CitySnapshot `json:"cities"`
		Total  int                 `json:"total"`
	}
	decodeBody(t, resp, &result)

	if result.Total != 1 || len(result.Cities) != 1 {
		t.Fatalf("expected 1 snapshot, got total=%d len=%d", result.Total, len(result.Cities))
	}
	if result.Cities[0].Location != "Delhi" {
		t.Errorf("Location = %q, want Delhi", result.Cities[0].Location)
	}
	if result.Cities[0].AQI <= 0 {
		t.Errorf("AQI = %d, want positive", result.Cities[0].AQI)
	}

	// Comparison snapshots are persisted as readings.
	if _, err := memStore.LatestAQI("Delhi"); err != nil {
		t.Errorf("snapshot was not stored: %v", err)
	}
}

func TestCurrentAQIFallback(t *testing.T) {
	app, _ := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/aqi", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var ctx airq.AQIContext
	decodeBody(t, resp, &ctx)

	if ctx.CurrentAQI != 125 {
		t.Errorf("CurrentAQI = %d, want fallback 125", ctx.CurrentAQI)
	}
	if ctx.Location != "Bengaluru Central" {
		t.Errorf("Location = %q, want default", ctx.Location)
	}
	if ctx.Classification.Category == "" {
		t.Error("fallback context is missing a classification")
	}
}

func TestChatRequiresMessageAndSession(t *testing.T) {
	app, _ := newTestApp()

	for _, body := range []string{
		`{"sessionId": "sess-1"}`,
		`{"message": "hello"}`,
	} {
		resp := postJSON(t, app, "/api/chat", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %s: expected status %d, got %d", body, http.StatusBadRequest, resp.StatusCode)
		}
	}

	resp := postJSON(t, app, "/api/chat", `{"message": "what is the air quality", "sessionId": "sess-1"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}

func TestExportRequiresParameters(t *testing.T) {
	app, _ := newTestApp()

	resp := postJSON(t, app, "/api/export", `{"format": "csv"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	body := `{
		"format": "json",
		"dateRange": {"from": "2026-08-01T00:00:00Z", "to": "2026-08-02T00:00:00Z"},
		"dataTypes": {"aqi": true}
	}`
	resp = postJSON(t, app, "/api/export", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var result struct {
		TotalRecords int `json:"totalRecords"`
	}
	decodeBody(t, resp, &result)
	if result.TotalRecords != 100 {
		t.Errorf("TotalRecords = %d, want 100 demo rows for an empty range", result.TotalRecords)
	}
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	if err := json.Unmarshal(buf.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response %q: %v", buf.String(), err)
	}
}
