// Package ingest turns uploaded or dropped export files into raw tables.
// Structural failures (unreadable file, no header row) are the only hard
// errors; cell-level garbage is the normalizer's problem.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/xuri/excelize/v2"

	"github.com/pixellab01/dashboard/internal/domain"
	"github.com/pixellab01/dashboard/internal/domain/entity"
)

// Read parses an export file into a raw table based on its extension.
// Supported formats: .csv, .xlsx/.xls, .json.
func Read(r io.Reader, filename string) (entity.RawTable, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ReadCSV(r)
	case ".xlsx", ".xls":
		return ReadXLSX(r)
	case ".json":
		return ReadJSON(r)
	default:
		return entity.RawTable{}, domain.NewInvalidInputError(
			fmt.Sprintf("unsupported file type %q, expected .csv, .xlsx or .json", filepath.Ext(filename)))
	}
}

// ReadCSV parses a comma-separated export. The first record is the header;
// short rows are padded, long rows truncated to the header width.
func ReadCSV(r io.Reader) (entity.RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return entity.RawTable{}, domain.NewInvalidInputError(fmt.Sprintf("malformed CSV: %v", err))
	}
	return tableFromRecords(records)
}

// ReadXLSX parses the first sheet of an Excel workbook.
func ReadXLSX(r io.Reader) (entity.RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return entity.RawTable{}, domain.NewInvalidInputError(fmt.Sprintf("malformed workbook: %v", err))
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return entity.RawTable{}, domain.NewInvalidInputError("workbook has no sheets")
	}
	records, err := f.GetRows(sheet)
	if err != nil {
		return entity.RawTable{}, domain.NewInvalidInputError(fmt.Sprintf("read sheet %q: %v", sheet, err))
	}
	return tableFromRecords(records)
}

// ReadJSON parses a JSON array of objects. Headers are collected across all
// rows; keys sort alphabetically within the row that introduces them.
func ReadJSON(r io.Reader) (entity.RawTable, error) {
	payload, err := io.ReadAll(r)
	if err != nil {
		return entity.RawTable{}, fmt.Errorf("read body: %w", err)
	}

	var rows []entity.RawRow
	if err := sonic.Unmarshal(payload, &rows); err != nil {
		return entity.RawTable{}, domain.NewInvalidInputError(fmt.Sprintf("malformed JSON: %v", err))
	}
	if len(rows) == 0 {
		return entity.RawTable{}, domain.ErrEmptyDataset
	}

	var headers []string
	seen := map[string]bool{}
	for _, row := range rows {
		keys := make([]string, 0, len(row))
		for k := range row {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		headers = append(headers, keys...)
	}
	return entity.RawTable{Headers: headers, Rows: rows}, nil
}

func tableFromRecords(records [][]string) (entity.RawTable, error) {
	if len(records) == 0 {
		return entity.RawTable{}, domain.NewInvalidInputError("file has no header row")
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([]entity.RawRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(entity.RawRow, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(rec) {
				row[h] = rec[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return entity.RawTable{}, domain.ErrEmptyDataset
	}
	return entity.RawTable{Headers: headers, Rows: rows}, nil
}
