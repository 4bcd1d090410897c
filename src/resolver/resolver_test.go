package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/models"
)

func TestResolveChain(t *testing.T) {
	tests := []struct {
		name                      string
		cusip, isin, alt, ticker string
		want                     string
	}{
		{"cusip wins", "037833100", "US0378331005", "X1", "AAPL", "037833100"},
		{"isin when no cusip", "", "US0378331005", "X1", "AAPL", "US0378331005"},
		{"alt id third", "", "", "X1", "AAPL", "X1"},
		{"ticker last", "", "", "", "AAPL", "AAPL"},
		{"nothing resolves to sentinel", "", "", "", "", models.UnresolvedIdentifier},
		{"placeholders are empty", "-", "N/A", "0", "", models.UnresolvedIdentifier},
		{"identifiers are uppercased", "", "us0378331005", "", "", "US0378331005"},
		{"whitespace trimmed", "  037833100  ", "", "", "", "037833100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.cusip, tt.isin, tt.alt, tt.ticker))
		})
	}
}

func TestResolveDeterministic(t *testing.T) {
	first := Resolve("912828XY1", "US912828XY12", "", "T")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Resolve("912828XY1", "US912828XY12", "", "T"))
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"US TREASURY N/B 4.25% 15NOV25", "US TREASURY N B 4 25"},
		{"APPLE INC.", "APPLE INC"},
		{"  apple   inc  ", "APPLE INC"},
		{"BOND XYZ 15/11/2025", "BOND XYZ"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeName(tt.in), "input %q", tt.in)
	}
}

func matcherFixture(threshold float64) *NameMatcher {
	securities := []models.SecurityRecord{
		{Name: "APPLE INC", Identifier: "037833100"},
		{Name: "MICROSOFT CORP", Identifier: "594918104"},
		{Name: "US TREASURY N/B 4.25 15NOV25", Identifier: "912828XY1"},
		{Name: "MYSTERY HOLDING", Identifier: models.UnresolvedIdentifier}, // never a match target
	}
	return NewNameMatcher(securities, threshold)
}

func TestNameMatcherSubstring(t *testing.T) {
	m := matcherFixture(0.6)
	// Containment in either direction resolves without a similarity pass.
	assert.Equal(t, "037833100", m.Match("DIVIDEND APPLE INC ORD SHS"))
	assert.Equal(t, "594918104", m.Match("MICROSOFT"))
}

func TestNameMatcherSimilarity(t *testing.T) {
	m := matcherFixture(0.6)
	// Typo: no containment, but well above the ratio threshold.
	assert.Equal(t, "594918104", m.Match("MICROSFT CORP"))
}

func TestNameMatcherBelowThreshold(t *testing.T) {
	m := matcherFixture(0.6)
	assert.Equal(t, models.UnresolvedIdentifier, m.Match("ZZZZQQQQXXXXJJJJWWWWKKKK"))
	assert.Equal(t, models.UnresolvedIdentifier, m.Match(""))
}

func TestNameMatcherIgnoresUnresolvedSecurities(t *testing.T) {
	m := matcherFixture(0.6)
	assert.Equal(t, models.UnresolvedIdentifier, m.Match("MYSTERY HOLDING"))
}

func TestNameMatcherThresholdIsConfigurable(t *testing.T) {
	strict := matcherFixture(0.99)
	assert.Equal(t, models.UnresolvedIdentifier, strict.Match("MICROSFT CORP"))
}
