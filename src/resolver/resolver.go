// Package resolver obtains a security identifier (CUSIP/ISIN) for a record
// through a fixed fallback chain, and offers a description-matching variant
// for custodians whose transaction exports carry no identifier column at all.
package resolver

import (
	"regexp"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/logger"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/models"
)

// Resolve walks the identifier priority chain. Each stage is tried only when
// the previous one produced nothing:
//
//	1. explicit CUSIP/ISIN field
//	2. alternate identifier ("security ID") present in some exports
//	3. ticker symbol, used verbatim as a last resort
//	4. the "0" sentinel
//
// The result is deterministic for a given input tuple.
func Resolve(cusip, isin, altID, ticker string) string {
	for _, candidate := range []string{cusip, isin, altID, ticker} {
		if id := clean(candidate); id != "" {
			return id
		}
	}
	return models.UnresolvedIdentifier
}

func clean(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || id == "-" || id == "0" || strings.EqualFold(id, "n/a") {
		return ""
	}
	return strings.ToUpper(id)
}

// NameMatcher resolves identifiers by matching free-text position
// descriptions against the known security names of the current run. Used for
// custodians without any reliable identifier column on transactions.
type NameMatcher struct {
	threshold float64
	// normalized name -> identifier
	names map[string]string
	// insertion order kept so substring matching is deterministic
	ordered []string
}

// NewNameMatcher builds a matcher over the run's securities. threshold is the
// minimum similarity ratio accepted when substring containment fails.
func NewNameMatcher(securities []models.SecurityRecord, threshold float64) *NameMatcher {
	m := &NameMatcher{
		threshold: threshold,
		names:     make(map[string]string, len(securities)),
	}
	for _, sec := range securities {
		if sec.Identifier == models.UnresolvedIdentifier {
			continue
		}
		key := NormalizeName(sec.Name)
		if key == "" {
			continue
		}
		if _, exists := m.names[key]; !exists {
			m.names[key] = sec.Identifier
			m.ordered = append(m.ordered, key)
		}
	}
	return m
}

var (
	maturityTokenRe = regexp.MustCompile(`\b\d{2}[A-Z]{3}\d{2,4}\b|\b\d{2}[/.-]\d{2}[/.-]\d{2,4}\b`)
	punctRe         = regexp.MustCompile(`[^\pL\pN ]+`)
)

// NormalizeName strips maturity-date tokens, drops punctuation and collapses
// whitespace so that statement descriptions and security-master names compare
// cleanly.
func NormalizeName(name string) string {
	s := strings.ToUpper(strings.TrimSpace(name))
	s = maturityTokenRe.ReplaceAllString(s, " ")
	s = punctRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// Match returns the identifier for a transaction description, or the "0"
// sentinel when nothing clears the threshold. Substring containment is tried
// first; the similarity ratio only decides when containment fails. Below the
// threshold the identifier stays unresolved and is logged, never guessed.
func (m *NameMatcher) Match(description string) string {
	desc := NormalizeName(description)
	if desc == "" {
		return models.UnresolvedIdentifier
	}

	for _, name := range m.ordered {
		if strings.Contains(desc, name) || strings.Contains(name, desc) {
			return m.names[name]
		}
	}

	bestRatio := 0.0
	bestName := ""
	for _, name := range m.ordered {
		ratio := levenshtein.RatioForStrings([]rune(desc), []rune(name), levenshtein.DefaultOptions)
		if ratio > bestRatio {
			bestRatio = ratio
			bestName = name
		}
	}
	if bestRatio >= m.threshold {
		return m.names[bestName]
	}

	logger.L.Warn("Identifier unresolved by description matching",
		"description", description, "bestRatio", bestRatio, "bestCandidate", bestName)
	return models.UnresolvedIdentifier
}
