package ui

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"qrnglab/adapters/excel"
	"qrnglab/app"
	"qrnglab/internal"
	"qrnglab/internal/config"

	"github.com/gin-gonic/gin"
)

//go:embed templates/* docs/*
var embeddedFiles embed.FS

// How many finished runs stay exportable from memory
const resultCacheSize = 20

// Server represents the web server for the QRNG lab UI
type Server struct {
	router   *gin.Engine
	pipeline *app.PipelineService
	sweep    *app.SweepService
	writer   *excel.ReportWriter
	defaults config.DefaultsConfig
	logger   *internal.Logger
	docsHTML template.HTML

	// Recently finished runs, kept so export endpoints can serve the
	// raw samples without re-running the pipeline
	resultMu    sync.RWMutex
	results     map[string]*app.RunResult
	resultOrder []string
}

// NewServer creates the UI server and parses the embedded templates
func NewServer(cfg *config.Config, pipeline *app.PipelineService, sweep *app.SweepService) (*Server, error) {
	gin.SetMode(cfg.Server.GinMode)

	s := &Server{
		router:   gin.Default(),
		pipeline: pipeline,
		sweep:    sweep,
		writer:   excel.NewReportWriter(),
		defaults: cfg.Defaults,
		logger:   internal.DefaultLogger,
		results:  make(map[string]*app.RunResult),
	}

	docsHTML, err := renderDocs(embeddedFiles, "docs/about.md")
	if err != nil {
		return nil, fmt.Errorf("failed to render docs: %w", err)
	}
	s.docsHTML = docsHTML

	funcMap := template.FuncMap{
		"mul": func(a, b float64) float64 { return a * b },
		"div": func(a, b float64) float64 {
			if b == 0 {
				return 0
			}
			return a / b
		},
		"add":   func(a, b int) int { return a + b },
		"upper": strings.ToUpper,
		"pct": func(v float64) string {
			return fmt.Sprintf("%.2f%%", v*100)
		},
	}

	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	s.router.SetHTMLTemplate(templates)

	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.POST("/generate", s.handleGenerate)
	s.router.GET("/runs/:id/export/txt", s.handleExportTXT)
	s.router.GET("/runs/:id/export/csv", s.handleExportCSV)
	s.router.GET("/runs/:id/export/xlsx", s.handleExportXLSX)
}

// Run starts the UI server on the given port
func (s *Server) Run(port string) error {
	s.logger.Info("UI server listening on :%s", port)
	return s.router.Run(":" + port)
}

// cacheResult keeps a finished run exportable, evicting the oldest
// once the cache is full
func (s *Server) cacheResult(result *app.RunResult) {
	s.resultMu.Lock()
	defer s.resultMu.Unlock()

	id := result.RunID.String()
	if _, exists := s.results[id]; !exists {
		s.resultOrder = append(s.resultOrder, id)
	}
	s.results[id] = result

	for len(s.resultOrder) > resultCacheSize {
		oldest := s.resultOrder[0]
		s.resultOrder = s.resultOrder[1:]
		delete(s.results, oldest)
	}
}

// cachedResult fetches a finished run by ID
func (s *Server) cachedResult(id string) (*app.RunResult, bool) {
	s.resultMu.RLock()
	defer s.resultMu.RUnlock()
	result, ok := s.results[id]
	return result, ok
}
