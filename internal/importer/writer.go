package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const exportSheetName = "Products"

// WriteCSV serializes export rows as UTF-8 comma-separated text, header row
// first.
func WriteCSV(w io.Writer, rows []*ExportRow) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(headerRow()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(recordCells(row)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteXLSX serializes export rows into a single-sheet workbook with a bold
// header row. Stock is written as a numeric cell; every other column is
// text so prices and barcodes round-trip byte-for-byte.
func WriteXLSX(w io.Writer, rows []*ExportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, name := range headerRow() {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheetName, cell, name)
		f.SetCellStyle(exportSheetName, cell, cell, headerStyle)

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(exportSheetName, colName, colName, 20)
	}

	for rowIdx, row := range rows {
		cells := recordCells(row)
		for colIdx, value := range cells {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if columns[colIdx].Name == "Stock" {
				if n, err := strconv.Atoi(value); err == nil {
					f.SetCellValue(exportSheetName, cell, n)
					continue
				}
			}
			f.SetCellValue(exportSheetName, cell, value)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
