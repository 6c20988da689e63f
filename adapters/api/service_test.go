package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"qrnglab/app"
	"qrnglab/internal/testkit"
)

func newTestService() *Service {
	source := testkit.NewSeededSource(42)
	repo := testkit.NewInMemoryRunRepository()
	return NewService(
		app.NewPipelineService(source, repo),
		app.NewSweepService(source, repo),
	)
}

func doJSON(t *testing.T, service *Service, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	service.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	rec := doJSON(t, newTestService(), http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("unexpected health body: %v", body)
	}
}

func TestCreateRun(t *testing.T) {
	service := newTestService()

	rec := doJSON(t, service, http.MethodPost, "/api/runs", `{"width":4,"samples":1000}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp RunResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Width != 4 || resp.Source != "seeded" {
		t.Errorf("unexpected run metadata: width=%d source=%q", resp.Width, resp.Source)
	}
	if len(resp.Samples) != 1000 {
		t.Errorf("expected 1000 inline samples, got %d", len(resp.Samples))
	}
	if len(resp.Counts) != 16 {
		t.Errorf("expected 16 frequency buckets, got %d", len(resp.Counts))
	}
	if resp.Report.DegreesFreedom != 15 {
		t.Errorf("expected 15 degrees of freedom, got %d", resp.Report.DegreesFreedom)
	}
	if resp.RunID == "" {
		t.Error("run id missing from response")
	}

	// The finished run shows up in the history listing.
	rec = doJSON(t, service, http.MethodGet, "/api/runs", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list struct {
		Runs []json.RawMessage `json:"runs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(list.Runs) != 1 {
		t.Errorf("expected 1 run in history, got %d", len(list.Runs))
	}

	rec = doJSON(t, service, http.MethodGet, "/api/runs/"+resp.RunID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 fetching run %s, got %d", resp.RunID, rec.Code)
	}
}

func TestCreateRun_InvalidInput(t *testing.T) {
	service := newTestService()

	cases := []struct {
		name string
		body string
	}{
		{"width too small", `{"width":1,"samples":100}`},
		{"width too large", `{"width":9,"samples":100}`},
		{"zero samples", `{"width":4,"samples":0}`},
		{"malformed body", `{"width":`},
	}
	for _, tc := range cases {
		rec := doJSON(t, service, http.MethodPost, "/api/runs", tc.body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tc.name, rec.Code)
		}
	}
}

func TestCreateRun_SourceFailureIs502(t *testing.T) {
	source := testkit.NewFailingSource(0)
	service := NewService(
		app.NewPipelineService(source, nil),
		app.NewSweepService(source, nil),
	)

	rec := doJSON(t, service, http.MethodPost, "/api/runs", `{"width":4,"samples":100}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetRun_NotFound(t *testing.T) {
	rec := doJSON(t, newTestService(), http.MethodGet, "/api/runs/018f0000-0000-7000-8000-000000000000", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSweepEndpoint(t *testing.T) {
	service := newTestService()

	rec := doJSON(t, service, http.MethodPost, "/api/sweeps", `{"widths":[2,3,4],"samples":500}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Runs []RunResponse `json:"runs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(body.Runs) != 3 {
		t.Fatalf("expected 3 sweep results, got %d", len(body.Runs))
	}
	for i, want := range []int{2, 3, 4} {
		if body.Runs[i].Width != want {
			t.Errorf("result %d: width %d, want %d", i, body.Runs[i].Width, want)
		}
	}

	rec = doJSON(t, service, http.MethodPost, "/api/sweeps", `{"widths":[],"samples":500}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty widths: expected 400, got %d", rec.Code)
	}
}
