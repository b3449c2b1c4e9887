package http

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cespare/xxhash"
	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/sentlog/sentlog/internal/errors"
	"github.com/sentlog/sentlog/internal/report"
)

func (s *Service) initRouter() {
	s.router.GET("/health", func(ctx *gin.Context) { ctx.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	s.router.NoRoute(func(c *gin.Context) {
		errors.Err(c, errors.NotFound(c.Request.URL.Path))
	})

	api := s.router.Group("/api/v1")
	{
		api.GET("/tally", s.handleTally)
		api.GET("/report", s.handleReport)
		api.GET("/status", s.handleStatus)
	}
}

// GET /api/v1/tally
func (s *Service) handleTally(c *gin.Context) {
	c.JSON(http.StatusOK, s.source.Snapshot())
}

// GET /api/v1/report?format=xlsx|csv|json
func (s *Service) handleReport(c *gin.Context) {
	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", report.FormatXLSX)))
	if !s.conf.ServesFormat(format) {
		errors.Err(c, errors.InvalidArg("format"))
		return
	}

	snap := s.source.Snapshot()
	rows := s.reporter.Rows(snap)

	etag := rowsETag(format, rows)
	c.Header("ETag", etag)
	c.Header("Cache-Control", "no-cache")
	if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
		c.Status(http.StatusNotModified)
		return
	}

	if format == "json" {
		c.JSON(http.StatusOK, rows)
		return
	}

	w, err := report.NewWriter(format)
	if err != nil {
		errors.Err(c, errors.InvalidArg("format"))
		return
	}
	var buf bytes.Buffer
	if err := w.Write(&buf, rows, s.reporter.Meta(snap)); err != nil {
		errors.Err(c, errors.ExportFailed(err))
		return
	}

	name := fmt.Sprintf("sentlog_%s%s", snap.TakenAt.Format("20060102_150405"), w.Ext())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", name))
	c.Data(http.StatusOK, w.ContentType(), buf.Bytes())
}

// rowsETag hashes the rendered cell values; the file bytes themselves carry
// creation timestamps and would never match.
func rowsETag(format string, rows [][]any) string {
	h := xxhash.New()
	h.Write([]byte(format))
	for _, row := range rows {
		for _, cell := range row {
			fmt.Fprintf(h, "\x1f%v", cell)
		}
		h.Write([]byte{'\n'})
	}
	return fmt.Sprintf(`"%016x"`, h.Sum64())
}

// GET /api/v1/status
func (s *Service) handleStatus(c *gin.Context) {
	type ProcessStats struct {
		PID   int32   `json:"pid"`
		RSSMB float64 `json:"rss_mb"`
		CPU   float64 `json:"cpu_percent"`
	}
	type Status struct {
		RunID    string        `json:"run_id"`
		State    string        `json:"state"`
		Uptime   string        `json:"uptime"`
		Messages int64         `json:"messages"`
		Chats    int           `json:"chats"`
		Process  *ProcessStats `json:"process,omitempty"`
	}

	snap := s.source.Snapshot()
	st := Status{
		RunID:    s.source.RunID(),
		State:    s.source.State().String(),
		Uptime:   time.Since(s.started).Truncate(time.Second).String(),
		Messages: snap.Totals.Count,
		Chats:    len(snap.Order),
	}

	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		ps := &ProcessStats{PID: p.Pid}
		if mem, err := p.MemoryInfo(); err == nil {
			ps.RSSMB = float64(mem.RSS) / (1024 * 1024)
		}
		if cpu, err := p.CPUPercent(); err == nil {
			ps.CPU = cpu
		}
		st.Process = ps
	}

	c.JSON(http.StatusOK, st)
}
