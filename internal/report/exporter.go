package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sentlog/sentlog/internal/model"
)

// DefaultPath is the fixed output file, overwritten by every export.
const DefaultPath = "mensagens_enviadas.xlsx"

// Exporter writes snapshots to a fixed path.
type Exporter struct {
	path   string
	sheet  string
	writer Writer
	format *Formatter
}

func NewExporter(path, sheet string, w Writer, f *Formatter) *Exporter {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	if sheet == "" {
		sheet = f.Labels.Sheet
	}
	return &Exporter{path: path, sheet: sheet, writer: w, format: f}
}

func (e *Exporter) Path() string {
	return e.path
}

// Rows builds the report rows for snap.
func (e *Exporter) Rows(snap *model.Snapshot) [][]any {
	return Build(snap, e.format)
}

// Meta describes snap for the writer.
func (e *Exporter) Meta(snap *model.Snapshot) Meta {
	m := Meta{Sheet: e.sheet}
	if snap != nil {
		m.RunID = snap.RunID
		m.Created = snap.TakenAt
	}
	return m
}

func (e *Exporter) Writer() Writer {
	return e.writer
}

// Export writes snap to the configured path, replacing any existing file.
func (e *Exporter) Export(snap *model.Snapshot) error {
	dir := filepath.Dir(e.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(e.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	rows := e.Rows(snap)
	if err := e.writer.Write(tmp, rows, e.Meta(snap)); err != nil {
		tmp.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	if err := os.Rename(tmpPath, e.path); err != nil {
		return fmt.Errorf("replace %s: %w", e.path, err)
	}

	log.Info().Str("path", e.path).Int("rows", len(rows)-1).Msg("report saved")
	return nil
}
