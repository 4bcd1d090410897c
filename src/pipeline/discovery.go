package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/combiner"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/detector"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/logger"
)

// statementSet is everything discovered for one institution and date: the
// files backing each document type. Multi-file institutions can have several
// files per type, one per client/account.
type statementSet struct {
	institution  string
	date         time.Time
	securities   []combiner.SourceFile
	transactions []combiner.SourceFile
}

// discover scans the statements directory, detects every file and groups the
// detections by institution. Files the detector cannot place are skipped with
// a log line, never an error.
func discover(dir string) (map[string]map[string]*statementSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("statements directory unreadable: %w", err)
	}

	// date token -> institution -> set
	byDate := make(map[string]map[string]*statementSet)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		det, err := detector.Detect(entry.Name())
		if err != nil {
			logger.L.Debug("Skipping file, source not detected", "file", entry.Name(), "reason", err)
			continue
		}

		token := detector.DateToken(det.Date)
		if byDate[token] == nil {
			byDate[token] = make(map[string]*statementSet)
		}
		set := byDate[token][det.Institution]
		if set == nil {
			set = &statementSet{institution: det.Institution, date: det.Date}
			byDate[token][det.Institution] = set
		}

		sf := combiner.SourceFile{
			Path:    filepath.Join(dir, entry.Name()),
			Client:  det.Client,
			Account: det.Account,
		}
		switch det.DocType {
		case detector.DocSecurities:
			set.securities = append(set.securities, sf)
		case detector.DocTransactions:
			set.transactions = append(set.transactions, sf)
		}
	}
	return byDate, nil
}

// latestDate picks the most recent statement date present.
func latestDate(byDate map[string]map[string]*statementSet) (string, bool) {
	var best string
	var bestTime time.Time
	for token := range byDate {
		t, err := time.Parse("02_01_2006", token)
		if err != nil {
			continue
		}
		if best == "" || t.After(bestTime) {
			best, bestTime = token, t
		}
	}
	return best, best != ""
}
