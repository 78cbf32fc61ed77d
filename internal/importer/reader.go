package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"catalog-service/internal/models"
)

// RowReader is a streaming iterator over the data rows of an uploaded file.
// Next returns io.EOF after the last row. Structural failures (malformed
// CSV, unreadable workbook) surface as errors and abort the whole import;
// no partial result is produced from a broken stream.
type RowReader interface {
	Next() (*ImportRow, error)
	Close() error
}

// ErrTooManyRows is returned when a file exceeds the configured row cap.
type ErrTooManyRows struct {
	Limit int
}

func (e *ErrTooManyRows) Error() string {
	return fmt.Sprintf("file exceeds the maximum of %d data rows", e.Limit)
}

// NewReader opens a streaming reader for the given format. maxRows caps the
// number of data rows; 0 means unlimited.
func NewReader(r io.Reader, format models.ImportFormat, maxRows int) (RowReader, error) {
	switch format {
	case models.ImportFormatCSV:
		return newCSVReader(r, maxRows)
	case models.ImportFormatXLSX:
		return newXLSXReader(r, maxRows)
	default:
		return nil, fmt.Errorf("unsupported import format %q", format)
	}
}

type csvRowReader struct {
	reader  *csv.Reader
	line    int
	maxRows int
}

// newCSVReader validates the header row up front so a file without one fails
// before any data is processed.
func newCSVReader(r io.Reader, maxRows int) (*csvRowReader, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) == 0 || strings.TrimSpace(header[0]) == "" {
		return nil, fmt.Errorf("CSV header row is missing")
	}

	return &csvRowReader{reader: reader, line: 1, maxRows: maxRows}, nil
}

func (r *csvRowReader) Next() (*ImportRow, error) {
	record, err := r.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("error reading line %d: %w", r.line+1, err)
	}

	r.line++
	if r.maxRows > 0 && r.line-1 > r.maxRows {
		return nil, &ErrTooManyRows{Limit: r.maxRows}
	}

	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}
	return rowFromCells(record, r.line), nil
}

func (r *csvRowReader) Close() error {
	return nil
}

type xlsxRowReader struct {
	file    *excelize.File
	rows    *excelize.Rows
	line    int
	maxRows int
}

// newXLSXReader reads the first sheet only. Row 0 is the header and is
// skipped.
func newXLSXReader(r io.Reader, maxRows int) (*xlsxRowReader, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, fmt.Errorf("no sheets found in workbook")
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	// Consume the header row.
	if !rows.Next() {
		rows.Close()
		f.Close()
		return nil, fmt.Errorf("workbook must have a header row")
	}
	if _, err := rows.Columns(); err != nil {
		rows.Close()
		f.Close()
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	return &xlsxRowReader{file: f, rows: rows, line: 1, maxRows: maxRows}, nil
}

func (r *xlsxRowReader) Next() (*ImportRow, error) {
	if !r.rows.Next() {
		if err := r.rows.Error(); err != nil {
			return nil, fmt.Errorf("error reading sheet: %w", err)
		}
		return nil, io.EOF
	}

	cells, err := r.rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("error reading row %d: %w", r.line+1, err)
	}

	r.line++
	if r.maxRows > 0 && r.line-1 > r.maxRows {
		return nil, &ErrTooManyRows{Limit: r.maxRows}
	}

	for i := range cells {
		cells[i] = coerceCell(cells[i])
	}
	return rowFromCells(cells, r.line), nil
}

func (r *xlsxRowReader) Close() error {
	r.rows.Close()
	return r.file.Close()
}

// coerceCell normalizes spreadsheet cell text: boolean cells render as
// "true"/"false", everything else passes through as displayed.
func coerceCell(cell string) string {
	cell = strings.TrimSpace(cell)
	switch cell {
	case "TRUE":
		return "true"
	case "FALSE":
		return "false"
	}
	return cell
}
