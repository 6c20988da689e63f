package ui

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"qrnglab/domain/core"
	"qrnglab/domain/qrng"

	"github.com/gin-gonic/gin"
)

// handleIndex renders the control panel, the docs tab and recent runs
func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", s.pageData(c, nil, ""))
}

// handleGenerate runs the pipeline with the submitted parameters and
// renders the results dashboard
func (s *Server) handleGenerate(c *gin.Context) {
	width, err := strconv.Atoi(c.PostForm("width"))
	if err != nil {
		c.HTML(http.StatusBadRequest, "index.html", s.pageData(c, nil, "width must be a number"))
		return
	}
	count, err := strconv.Atoi(c.PostForm("samples"))
	if err != nil {
		c.HTML(http.StatusBadRequest, "index.html", s.pageData(c, nil, "sample count must be a number"))
		return
	}

	result, err := s.pipeline.Run(c.Request.Context(), qrng.Width(width), count)
	if err != nil {
		status := http.StatusInternalServerError
		if core.IsInvalidInput(err) {
			status = http.StatusBadRequest
		} else if core.IsSourceFailure(err) {
			status = http.StatusBadGateway
		}
		c.HTML(status, "index.html", s.pageData(c, nil, err.Error()))
		return
	}

	s.cacheResult(result)
	c.HTML(http.StatusOK, "index.html", s.pageData(c, newResultView(result), ""))
}

func (s *Server) pageData(c *gin.Context, result *ResultView, errMsg string) PageData {
	widthOptions := make([]int, 0, qrng.MaxWidth-qrng.MinWidth+1)
	for w := qrng.MinWidth; w <= qrng.MaxWidth; w++ {
		widthOptions = append(widthOptions, w)
	}

	data := PageData{
		MinWidth:     qrng.MinWidth,
		MaxWidth:     qrng.MaxWidth,
		DefaultWidth: s.defaults.Width,
		MinSamples:   500,
		MaxSamples:   5000,
		DefaultCount: s.defaults.SampleCount,
		WidthOptions: widthOptions,
		Result:       result,
		Docs:         s.docsHTML,
		ErrorMessage: errMsg,
	}

	recent, err := s.pipeline.History(c.Request.Context(), 10)
	if err != nil {
		s.logger.Warn("failed to load run history: %v", err)
	} else {
		data.Recent = recent
		data.HistoryActive = recent != nil
	}

	return data
}

// handleExportTXT serves the raw samples, one decimal value per line
func (s *Server) handleExportTXT(c *gin.Context) {
	result, ok := s.cachedResult(c.Param("id"))
	if !ok {
		c.String(http.StatusNotFound, "run not found or expired")
		return
	}

	var buf bytes.Buffer
	for _, v := range result.Samples.Values {
		fmt.Fprintf(&buf, "%d\n", v)
	}

	c.Header("Content-Disposition", "attachment; filename="+exportFilename(result.Width, result.Samples.Len(), "txt"))
	c.Data(http.StatusOK, "text/plain", buf.Bytes())
}

// handleExportCSV serves index,value pairs
func (s *Server) handleExportCSV(c *gin.Context) {
	result, ok := s.cachedResult(c.Param("id"))
	if !ok {
		c.String(http.StatusNotFound, "run not found or expired")
		return
	}

	var buf bytes.Buffer
	buf.WriteString("index,value\n")
	for i, v := range result.Samples.Values {
		fmt.Fprintf(&buf, "%d,%d\n", i, v)
	}

	c.Header("Content-Disposition", "attachment; filename="+exportFilename(result.Width, result.Samples.Len(), "csv"))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// handleExportXLSX serves the full workbook (report, frequencies,
// samples)
func (s *Server) handleExportXLSX(c *gin.Context) {
	result, ok := s.cachedResult(c.Param("id"))
	if !ok {
		c.String(http.StatusNotFound, "run not found or expired")
		return
	}

	var buf bytes.Buffer
	if err := s.writer.Write(&buf, result); err != nil {
		s.logger.Error("xlsx export failed: %v", err)
		c.String(http.StatusInternalServerError, "export failed")
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+exportFilename(result.Width, result.Samples.Len(), "xlsx"))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func exportFilename(width qrng.Width, count int, ext string) string {
	return fmt.Sprintf("qrng_%dbits_%dsamples.%s", width, count, ext)
}
