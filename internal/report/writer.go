package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Meta is written into the file where the format supports it.
type Meta struct {
	RunID   string
	Sheet   string
	Created time.Time
}

// Writer serializes report rows into one file format.
type Writer interface {
	Write(w io.Writer, rows [][]any, meta Meta) error
	Ext() string
	ContentType() string
}

const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// NewWriter returns the writer for format ("xlsx" or "csv").
func NewWriter(format string) (Writer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatXLSX:
		return XLSXWriter{}, nil
	case FormatCSV:
		return CSVWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// XLSXWriter writes a single-sheet workbook.
type XLSXWriter struct{}

func (XLSXWriter) Ext() string { return ".xlsx" }

func (XLSXWriter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (XLSXWriter) Write(w io.Writer, rows [][]any, meta Meta) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := meta.Sheet
	if sheet == "" {
		sheet = labelsPtBR.Sheet
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if len(rows) > 0 {
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return err
		}
		last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
			return err
		}
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 32); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "C", 16); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "D", "D", 44); err != nil {
		return err
	}

	created := meta.Created
	if created.IsZero() {
		created = time.Now()
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Creator:    "sentlog",
		Title:      sheet,
		Identifier: meta.RunID,
		Created:    created.UTC().Format(time.RFC3339),
	}); err != nil {
		return err
	}

	_, err := f.WriteTo(w)
	return err
}

// CSVWriter writes the rows as comma separated values.
type CSVWriter struct{}

func (CSVWriter) Ext() string { return ".csv" }

func (CSVWriter) ContentType() string { return "text/csv; charset=utf-8" }

func (CSVWriter) Write(w io.Writer, rows [][]any, _ Meta) error {
	cw := csv.NewWriter(w)
	for _, row := range rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = fmt.Sprint(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
