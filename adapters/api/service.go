package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"qrnglab/app"
	"qrnglab/domain/core"
	"qrnglab/domain/qrng"
	"qrnglab/internal"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Raw samples above this size are dropped from JSON responses; the
// frequency table carries the distribution either way.
const maxInlineSamples = 5000

// Service is the JSON API over the sampling pipeline
type Service struct {
	router   *chi.Mux
	pipeline *app.PipelineService
	sweep    *app.SweepService
	logger   *internal.Logger
}

// NewService creates the API service and mounts its routes
func NewService(pipeline *app.PipelineService, sweep *app.SweepService) *Service {
	s := &Service{
		router:   chi.NewRouter(),
		pipeline: pipeline,
		sweep:    sweep,
		logger:   internal.DefaultLogger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Service) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

func (s *Service) setupRoutes() {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Post("/api/runs", s.handleCreateRun)
	s.router.Get("/api/runs", s.handleListRuns)
	s.router.Get("/api/runs/{id}", s.handleGetRun)
	s.router.Post("/api/sweeps", s.handleSweep)
}

// ServeHTTP implements http.Handler
func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start runs the API server on the given port
func (s *Service) Start(port string) error {
	s.logger.Info("API server listening on :%s", port)
	return http.ListenAndServe(":"+port, s.router)
}

// RunRequest is the body of POST /api/runs
type RunRequest struct {
	Width   int `json:"width"`
	Samples int `json:"samples"`
}

// SweepRequest is the body of POST /api/sweeps
type SweepRequest struct {
	Widths  []int `json:"widths"`
	Samples int   `json:"samples"`
}

// RunResponse is the JSON shape of one finished run
type RunResponse struct {
	RunID      string                `json:"run_id"`
	Width      int                   `json:"width"`
	Source     string                `json:"source"`
	Samples    []qrng.Sample         `json:"samples,omitempty"`
	Counts     []int                 `json:"counts"`
	Report     qrng.UniformityReport `json:"report"`
	Uniform    bool                  `json:"consistent_with_uniform"`
	DurationMs int64                 `json:"duration_ms"`
}

func newRunResponse(result *app.RunResult) RunResponse {
	resp := RunResponse{
		RunID:      result.RunID.String(),
		Width:      int(result.Width),
		Source:     result.Source,
		Counts:     result.Table.Counts,
		Report:     result.Report,
		Uniform:    result.Report.ConsistentWithUniform(),
		DurationMs: result.Duration.Milliseconds(),
	}
	if result.Samples.Len() <= maxInlineSamples {
		resp.Samples = result.Samples.Values
	}
	return resp
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Service) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	result, err := s.pipeline.Run(r.Context(), qrng.Width(req.Width), req.Samples)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newRunResponse(result))
}

func (s *Service) handleListRuns(w http.ResponseWriter, r *http.Request) {
	records, err := s.pipeline.History(r.Context(), 50)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if records == nil {
		records = []qrng.RunRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"runs": records})
}

func (s *Service) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	record, err := s.pipeline.GetRun(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Service) handleSweep(w http.ResponseWriter, r *http.Request) {
	var req SweepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if len(req.Widths) == 0 {
		writeJSONError(w, http.StatusBadRequest, "widths must not be empty")
		return
	}

	widths := make([]qrng.Width, len(req.Widths))
	for i, wv := range req.Widths {
		widths[i] = qrng.Width(wv)
	}

	results, err := s.sweep.Sweep(r.Context(), widths, req.Samples)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	responses := make([]RunResponse, len(results))
	for i, result := range results {
		responses[i] = newRunResponse(result)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"runs": responses})
}

// writeDomainError maps the pipeline's error taxonomy onto HTTP status
// codes: InvalidInput -> 400, SourceFailure -> 502, not found -> 404.
func (s *Service) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case core.IsInvalidInput(err):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case core.IsSourceFailure(err):
		writeJSONError(w, http.StatusBadGateway, err.Error())
	case core.IsNotFoundError(err):
		writeJSONError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error("unhandled API error: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		internal.DefaultLogger.Error("failed to encode response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
