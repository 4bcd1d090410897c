// Package combiner merges the per-client/account statement files that
// multi-file custodians (JPM, Morgan Stanley) export into one table per
// institution per date, tagging each row with its client and account and
// filtering out disclaimer/footer rows.
package combiner

import (
	"fmt"
	"strings"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/logger"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/spreadsheet"
)

// SourceFile is one per-client/account statement to combine.
type SourceFile struct {
	Path    string
	Client  string
	Account string
}

// Options hold the empirically tuned filter thresholds. They are config-fed,
// not hardcoded, so they can be recalibrated against a statement corpus.
type Options struct {
	EmptyRatio     float64 // fraction of empty cells that flags a row (default 0.9)
	MinTextLen     int     // single-cell length that flags a merged footer (default 100)
	BoundaryWindow int     // rows near a file boundary needing two signals
}

// DefaultOptions mirror the tuned values.
func DefaultOptions() Options {
	return Options{EmptyRatio: 0.9, MinTextLen: 100, BoundaryWindow: 10}
}

// ClientColumn and AccountColumn are the headers the combiner appends.
const (
	ClientColumn  = "combined_client"
	AccountColumn = "combined_account"
)

// disclaimerPhrases flag legal/footer boilerplate wherever it appears.
var disclaimerPhrases = []string{
	"past performance",
	"this report is for informational purposes",
	"not a substitute for official statements",
	"securities are not fdic insured",
	"prices shown are indicative",
	"end of report",
}

// Combine concatenates all files into one table. The first file's header
// defines the layout; later files must match it column-for-column (case and
// spacing insensitive) or the combine fails, which fails this institution for
// the batch without touching the others.
func Combine(files []SourceFile, opts Options) (*spreadsheet.Table, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files to combine")
	}

	var combined *spreadsheet.Table
	dropped := 0
	for _, sf := range files {
		t, err := spreadsheet.ReadTable(sf.Path)
		if err != nil {
			return nil, fmt.Errorf("combine: %w", err)
		}
		if combined == nil {
			combined = &spreadsheet.Table{
				Headers: append(append([]string{}, t.Headers...), ClientColumn, AccountColumn),
			}
		} else if !headersMatch(combined.Headers[:len(combined.Headers)-2], t.Headers) {
			return nil, fmt.Errorf("combine: %s has a different column layout than %s", sf.Path, files[0].Path)
		}

		kept := filterRows(t.Rows, opts)
		dropped += len(t.Rows) - len(kept)
		for _, row := range kept {
			tagged := make([]string, len(combined.Headers))
			copy(tagged, row)
			tagged[len(tagged)-2] = sf.Client
			tagged[len(tagged)-1] = sf.Account
			combined.Rows = append(combined.Rows, tagged)
		}
	}

	logger.L.Info("Combined multi-file statements",
		"files", len(files), "rows", len(combined.Rows), "droppedRows", dropped)
	return combined, nil
}

// filterRows drops disclaimer/footer rows. Filtering is deliberately lossy in
// the keep direction: a wrongly kept row beats a wrongly dropped one, so rows
// inside the boundary window need two independent signals, and a lone
// mostly-empty signal never drops a row anywhere.
func filterRows(rows [][]string, opts Options) [][]string {
	kept := make([][]string, 0, len(rows))
	for i, row := range rows {
		signals := rowSignals(row, opts)
		nearBoundary := i < opts.BoundaryWindow || i >= len(rows)-opts.BoundaryWindow
		drop := false
		switch {
		case signals >= 2:
			drop = true
		case signals == 1 && !nearBoundary:
			// Away from boundaries a disclaimer phrase alone is decisive;
			// the structural signals alone are not.
			drop = hasDisclaimerPhrase(row)
		}
		if !drop {
			kept = append(kept, row)
		}
	}
	return kept
}

func rowSignals(row []string, opts Options) int {
	signals := 0
	if emptyRatio(row) >= opts.EmptyRatio {
		signals++
	}
	if hasDisclaimerPhrase(row) {
		signals++
	}
	if isSingleLongCell(row, opts.MinTextLen) {
		signals++
	}
	return signals
}

func emptyRatio(row []string) float64 {
	if len(row) == 0 {
		return 1
	}
	empty := 0
	for _, cell := range row {
		if strings.TrimSpace(cell) == "" {
			empty++
		}
	}
	return float64(empty) / float64(len(row))
}

func hasDisclaimerPhrase(row []string) bool {
	for _, cell := range row {
		lower := strings.ToLower(cell)
		for _, phrase := range disclaimerPhrases {
			if strings.Contains(lower, phrase) {
				return true
			}
		}
	}
	return false
}

// isSingleLongCell spots merged header/footer cells: exactly one non-empty
// cell, long free text, in an otherwise empty row.
func isSingleLongCell(row []string, minLen int) bool {
	nonEmpty := 0
	longest := 0
	for _, cell := range row {
		if s := strings.TrimSpace(cell); s != "" {
			nonEmpty++
			if len(s) > longest {
				longest = len(s)
			}
		}
	}
	return nonEmpty == 1 && longest >= minLen
}

func headersMatch(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	norm := func(s string) string {
		return strings.ToLower(strings.Join(strings.Fields(s), " "))
	}
	for i := range a {
		if norm(a[i]) != norm(b[i]) {
			return false
		}
	}
	return true
}
