package refdata

import (
	"errors"
	"strings"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/logger"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/models"
)

var (
	errNotFound = errors.New("identifier not found in security master")
	errNoAPIKey = errors.New("no reference-data API key configured")
)

// mapSecurityType folds the service's security-type vocabulary into the
// canonical enum.
func mapSecurityType(serviceType string) models.AssetType {
	switch strings.ToUpper(strings.TrimSpace(serviceType)) {
	case "BOND", "CORP", "GOVT", "MUNI", "FIXED INCOME", "NOTE", "BILL":
		return models.AssetFixedIncome
	case "EQUITY", "COMMON STOCK", "ADR", "ETP", "ETF", "REIT":
		return models.AssetEquities
	case "MONEY MARKET", "MMF":
		return models.AssetMoneyMarket
	case "CASH", "CURRENCY":
		return models.AssetCash
	case "COMMODITY", "HEDGE FUND", "PRIVATE EQUITY", "STRUCTURED":
		return models.AssetAlternative
	default:
		return models.AssetUnknown
	}
}

// keywordClasses back the final static classification stage. Patterns are
// matched against the uppercased security name, first hit wins.
var keywordClasses = []struct {
	keyword string
	asset   models.AssetType
}{
	{"TREASURY", models.AssetFixedIncome},
	{"T-BILL", models.AssetFixedIncome},
	{"TSY", models.AssetFixedIncome},
	{"BOND", models.AssetFixedIncome},
	{"NOTE", models.AssetFixedIncome},
	{"CD ", models.AssetFixedIncome},
	{"MONEY MARKET", models.AssetMoneyMarket},
	{"MONEY MKT", models.AssetMoneyMarket},
	{"MMF", models.AssetMoneyMarket},
	{"SWEEP", models.AssetMoneyMarket},
	{"GOLD", models.AssetAlternative},
	{"SILVER", models.AssetAlternative},
	{"COMMODITY", models.AssetAlternative},
	{"HEDGE", models.AssetAlternative},
	{"PRIVATE EQUITY", models.AssetAlternative},
	{"REAL ESTATE", models.AssetAlternative},
	{"STRUCTURED", models.AssetAlternative},
	{"CASH", models.AssetCash},
	{"ETF", models.AssetEquities},
	{"FUND", models.AssetEquities},
	{"SHS", models.AssetEquities},
	{"ORD", models.AssetEquities},
}

// ClassifyByKeyword is the static pattern stage of the degradation chain.
// Returns AssetUnknown when no keyword matches.
func ClassifyByKeyword(name string) models.AssetType {
	upper := strings.ToUpper(name)
	for _, kc := range keywordClasses {
		if strings.Contains(upper, kc.keyword) {
			return kc.asset
		}
	}
	return models.AssetUnknown
}

// Enrich runs the full degradation chain for one security:
// identifier lookup -> name search -> keyword classification -> default.
// Each stage runs only when the previous produced no usable result, and the
// final classification is never left empty.
func (c *Client) Enrich(identifier, name string) models.LookupResult {
	if identifier != "" && identifier != models.UnresolvedIdentifier {
		if results := c.LookupBatch([]string{identifier}); len(results) > 0 {
			if res, ok := results[identifier]; ok && res.Err == nil && res.AssetType != models.AssetUnknown {
				return res
			}
		}
	}

	if res, ok := c.LookupByName(name); ok && res.AssetType != models.AssetUnknown {
		res.Identifier = identifier
		return res
	}

	c.count(func(s *Stats) { s.FallbackUses++ })
	if asset := ClassifyByKeyword(name); asset != models.AssetUnknown {
		return models.LookupResult{Identifier: identifier, Name: name, AssetType: asset}
	}

	logger.L.Debug("Reference enrichment fell through to default classification",
		"identifier", identifier, "name", name)
	return models.LookupResult{Identifier: identifier, Name: name, AssetType: models.AssetUnknown}
}
