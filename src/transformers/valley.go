package transformers

import (
	"regexp"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/models"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/numeric"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/refdata"
)

// ValleyTransformer handles Valley Bank exports, which carry no asset
// classification columns at all. Every position is classified through the
// reference-data client's degradation chain (identifier lookup, name search,
// keyword table, default), so the canonical output is still fully classified
// even when the service is unreachable.
type ValleyTransformer struct {
	*engine
}

func NewValleyTransformer(client *refdata.Client, threshold float64) *ValleyTransformer {
	s := spec{
		institution: "valley",
		convention:  numeric.ConventionPoint,
		secFields: fieldMap{
			fName:        {"Description", "Asset Description"},
			fTicker:      {"Symbol", "Ticker"},
			fCusip:       {"CUSIP"},
			fQuantity:    {"Units", "Quantity"},
			fPrice:       {"Price", "Market Price"},
			fMarketValue: {"Market Value", "Current Value"},
			fCostBasis:   {"Cost", "Book Value"},
			fDescription: {"Description", "Asset Description"},
			fClient:      {"Client"},
			fAccount:     {"Account Number", "Account"},
		},
		secRequired: []string{fName, fQuantity, fMarketValue},
		txFields: fieldMap{
			fDate:        {"Posting Date", "Date"},
			fType:        {"Transaction Description", "Description"},
			fAmount:      {"Amount"},
			fPrice:       {"Price"},
			fQuantity:    {"Units", "Quantity"},
			fCusip:       {"CUSIP"},
			fTicker:      {"Symbol"},
			fClient:      {"Client"},
			fAccount:     {"Account Number", "Account"},
			fDescription: {"Transaction Description", "Description"},
		},
		txRequired: []string{fDate, fType, fAmount},
		// No asset rules on purpose: classification comes from enrichment.
		enrichWithRefData: true,
		isBond: func(asset models.AssetType, text string) bool {
			return bondByAssetType(asset, text) || bondByDescription(asset, text)
		},
		couponRe:    regexp.MustCompile(`\b(\d+(?:\.\d+)?)%`),
		maturityRe:  regexp.MustCompile(`\b(\d{2}[A-Z]{3}\d{2})\b`),
		dateLayouts: []string{"01/02/2006", "2006-01-02"},
	}
	return &ValleyTransformer{newEngine(s, client, threshold)}
}
