package spreadsheet

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/models"
)

// WriteSecurities writes the canonical securities table. The extension picks
// the format (.xlsx or .csv).
func WriteSecurities(path string, records []models.SecurityRecord) error {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, models.SecurityHeaders)
	for _, rec := range records {
		rows = append(rows, models.SecurityRow(rec))
	}
	return writeRows(path, "securities", rows)
}

// WriteTransactions writes the canonical transactions table.
func WriteTransactions(path string, records []models.TransactionRecord) error {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, models.TransactionHeaders)
	for _, rec := range records {
		rows = append(rows, models.TransactionRow(rec))
	}
	return writeRows(path, "transactions", rows)
}

// ReadSecurities parses a canonical securities file back into records.
func ReadSecurities(path string) ([]models.SecurityRecord, error) {
	t, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	out := make([]models.SecurityRecord, 0, len(t.Rows))
	for i := range t.Rows {
		rec, err := models.ParseSecurityRow(padded(t.Rows[i], len(models.SecurityHeaders)))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// ReadTransactions parses a canonical transactions file back into records.
func ReadTransactions(path string) ([]models.TransactionRecord, error) {
	t, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	out := make([]models.TransactionRecord, 0, len(t.Rows))
	for i := range t.Rows {
		rec, err := models.ParseTransactionRow(padded(t.Rows[i], len(models.TransactionHeaders)))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func padded(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

func writeRows(path, sheet string, rows [][]string) error {
	if strings.HasSuffix(strings.ToLower(path), ".csv") {
		return writeCSV(path, rows)
	}
	return writeXLSX(path, sheet, rows)
}

func writeCSV(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	writer.Flush()
	return writer.Error()
}

func writeXLSX(path, sheet string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet in %s: %w", path, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, path, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
