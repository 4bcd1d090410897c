package spreadsheet

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingColumn marks a schema failure: a transformer's required column is
// absent from the file. It fails that file only, never the whole batch.
var ErrMissingColumn = errors.New("required column missing")

// Table is the raw tabular content of one statement file: a header row plus
// data rows, all cells as strings. Transformers own a Table exclusively for
// the duration of their call.
type Table struct {
	Headers []string
	Rows    [][]string

	// index maps normalized header text to column position, built lazily.
	index map[string]int
}

func (t *Table) buildIndex() {
	if t.index != nil {
		return
	}
	t.index = make(map[string]int, len(t.Headers))
	for i, h := range t.Headers {
		key := normalizeHeader(h)
		if _, exists := t.index[key]; !exists {
			t.index[key] = i
		}
	}
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}

// ColumnIndex resolves a canonical field against its accepted source header
// aliases, first match wins. Returns -1 when no alias is present.
func (t *Table) ColumnIndex(aliases ...string) int {
	t.buildIndex()
	for _, alias := range aliases {
		if idx, ok := t.index[normalizeHeader(alias)]; ok {
			return idx
		}
	}
	return -1
}

// RequireColumns validates once per file that every required canonical field
// has a matching source column.
func (t *Table) RequireColumns(fields map[string][]string) error {
	var missing []string
	for field, aliases := range fields {
		if t.ColumnIndex(aliases...) < 0 {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

// Cell returns the trimmed cell at (row, col); out-of-range reads yield "",
// which matches how short rows behave in real exports.
func (t *Table) Cell(row, col int) string {
	if col < 0 || row < 0 || row >= len(t.Rows) || col >= len(t.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][col])
}

// Column collects every value of one column, used for locale detection
// sampling.
func (t *Table) Column(col int) []string {
	if col < 0 {
		return nil
	}
	out := make([]string, 0, len(t.Rows))
	for i := range t.Rows {
		out = append(out, t.Cell(i, col))
	}
	return out
}
