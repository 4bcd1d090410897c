// Package detector infers which custodian produced a statement file, and for
// which date, from the file name alone. Expected name shape:
//
//	Institution[_Client_Account]_{securities|transactions}_DD_MM_YYYY.ext
//
// Detection failure is never fatal: the pipeline just skips the file.
package detector

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var ErrNotDetected = errors.New("source not detected")

// DocType distinguishes the two statement families a custodian exports.
type DocType string

const (
	DocSecurities   DocType = "securities"
	DocTransactions DocType = "transactions"
)

// Detection is the result of matching one file name.
type Detection struct {
	Institution string
	Client      string // only for multi-file institutions
	Account     string // only for multi-file institutions
	DocType     DocType
	Date        time.Time
	MultiFile   bool
}

// institutionPrefixes maps a file-name prefix (lowercased) to the institution
// code. Order matters only for prefixes that share a leading token; the
// longest prefix is tried first.
var institutionPrefixes = []struct {
	prefix string
	code   string
}{
	{"jpmorgan", "jpm"},
	{"jpm", "jpm"},
	{"morganstanley", "ms"},
	{"ms", "ms"},
	{"charlesschwab", "cs"},
	{"csc", "csc"},
	{"cs", "cs"},
	{"pershing", "pershing"},
	{"juliusbaer", "jb"},
	{"jb", "jb"},
	{"lombard", "lombard"},
	{"safra", "safra"},
	{"valley", "valley"},
	{"idb", "idb"},
	{"hsbc", "hsbc"},
	{"banchile", "banchile"},
	{"citi", "citi"},
	{"santander", "santander"},
	{"pictet", "pictet"},
}

// multiFileInstitutions export one spreadsheet per client/account and need the
// combiner step before transformation.
var multiFileInstitutions = map[string]bool{
	"jpm": true,
	"ms":  true,
}

var (
	dateTokenRe = regexp.MustCompile(`(\d{2})_(\d{2})_(\d{4})`)
	docTypeRe   = regexp.MustCompile(`(?i)_(securities|transactions)_`)
)

// Institutions returns every supported institution code in a stable order.
func Institutions() []string {
	return []string{
		"jpm", "ms", "cs", "csc", "pershing", "jb", "lombard", "safra",
		"valley", "idb", "hsbc", "banchile", "citi", "santander", "pictet",
	}
}

// IsMultiFile reports whether an institution needs the combiner step.
func IsMultiFile(code string) bool {
	return multiFileInstitutions[code]
}

// Detect matches a file name against the institution prefix table and
// extracts the statement date and document type.
func Detect(filename string) (Detection, error) {
	base := filepath.Base(filename)
	lower := strings.ToLower(base)

	var det Detection
	matched := false
	for _, entry := range institutionPrefixes {
		if strings.HasPrefix(lower, entry.prefix) {
			det.Institution = entry.code
			det.MultiFile = multiFileInstitutions[entry.code]
			matched = true
			break
		}
	}
	if !matched {
		return Detection{}, fmt.Errorf("%w: %q", ErrNotDetected, base)
	}

	dt := docTypeRe.FindStringSubmatch(base)
	if dt == nil {
		return Detection{}, fmt.Errorf("%w: %q has no securities/transactions marker", ErrNotDetected, base)
	}
	det.DocType = DocType(strings.ToLower(dt[1]))

	dm := dateTokenRe.FindStringSubmatch(base)
	if dm == nil {
		return Detection{}, fmt.Errorf("%w: %q has no DD_MM_YYYY date token", ErrNotDetected, base)
	}
	date, err := time.Parse("02_01_2006", dm[0])
	if err != nil {
		return Detection{}, fmt.Errorf("%w: %q has invalid date token %q", ErrNotDetected, base, dm[0])
	}
	det.Date = date

	if det.MultiFile {
		det.Client, det.Account = clientAccount(base)
	}
	return det, nil
}

// clientAccount pulls the client and account tokens out of
// Institution_Client_Account_type_date names. Missing tokens stay empty; the
// combiner tolerates that and tags what it has.
func clientAccount(base string) (client, account string) {
	name := strings.TrimSuffix(base, filepath.Ext(base))
	parts := strings.Split(name, "_")
	// Institution, Client, Account, doctype, DD, MM, YYYY
	if len(parts) >= 7 {
		return parts[1], parts[2]
	}
	return "", ""
}

// DateToken renders a statement date in the file-name convention.
func DateToken(date time.Time) string {
	return date.Format("02_01_2006")
}
