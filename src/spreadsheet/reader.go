// Package spreadsheet reads custodian statement files (.xlsx and .csv) into
// raw tables and writes the canonical output tables.
package spreadsheet

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadTable loads a statement file into a Table. The first non-empty row is
// taken as the header; everything below it is data. Some custodians put a
// title banner above the real header, so rows before the first row with at
// least two non-empty cells are skipped.
func ReadTable(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readXLSX(path)
	case ".csv":
		return readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported statement format: %s", filepath.Ext(path))
	}
}

func readXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheets[0], path, err)
	}
	return tableFromRows(rows, path)
}

func readCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV records from %s: %w", path, err)
	}
	return tableFromRows(records, path)
}

func tableFromRows(rows [][]string, path string) (*Table, error) {
	headerIdx := -1
	for i, row := range rows {
		if countNonEmpty(row) >= 2 {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, fmt.Errorf("no header row found in %s", path)
	}
	t := &Table{Headers: rows[headerIdx]}
	for _, row := range rows[headerIdx+1:] {
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func countNonEmpty(row []string) int {
	n := 0
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			n++
		}
	}
	return n
}
