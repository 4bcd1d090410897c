package transformers

import (
	"regexp"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/models"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/numeric"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/refdata"
)

// IDBTransformer handles IDB Bank exports. The asset column is a coarse
// product bucket, so bond detection relies on the description instead: a
// coupon percent token or a DDMMMYY maturity marks the row as a bond.
type IDBTransformer struct {
	*engine
}

func NewIDBTransformer(client *refdata.Client, threshold float64) *IDBTransformer {
	s := spec{
		institution: "idb",
		convention:  numeric.ConventionPoint,
		secFields: fieldMap{
			fName:        {"Security Description", "Description"},
			fTicker:      {"Symbol"},
			fCusip:       {"CUSIP"},
			fIsin:        {"ISIN"},
			fQuantity:    {"Quantity", "Face Value"},
			fPrice:       {"Price", "Market Price"},
			fMarketValue: {"Market Value", "Value"},
			fCostBasis:   {"Cost"},
			fAssetClass:  {"Product", "Category"},
			fDescription: {"Security Description", "Description"},
			fClient:      {"Client"},
			fAccount:     {"Account"},
		},
		secRequired: []string{fName, fQuantity, fMarketValue},
		txFields: fieldMap{
			fDate:        {"Date", "Value Date"},
			fType:        {"Transaction", "Description"},
			fAmount:      {"Amount", "Net Amount"},
			fPrice:       {"Price"},
			fQuantity:    {"Quantity"},
			fCusip:       {"CUSIP"},
			fIsin:        {"ISIN"},
			fClient:      {"Client"},
			fAccount:     {"Account"},
			fDescription: {"Description"},
		},
		txRequired: []string{fDate, fType, fAmount},
		assetRules: []assetRule{
			{Category: "DEPOSITS", Asset: models.AssetCash},
			{Category: "CURRENT ACCOUNT", Asset: models.AssetCash},
			{Category: "SECURITIES", Keyword: "BOND", Asset: models.AssetFixedIncome},
			{Category: "SECURITIES", Keyword: "TREASURY", Asset: models.AssetFixedIncome},
			{Category: "SECURITIES", Keyword: "NOTE", Asset: models.AssetFixedIncome},
			{Category: "SECURITIES", Asset: models.AssetEquities},
			{Category: "OTHER", Asset: models.AssetAlternative},
		},
		isBond: func(asset models.AssetType, text string) bool {
			return asset == models.AssetFixedIncome || bondByDescription(asset, text)
		},
		couponRe:    regexp.MustCompile(`\b(\d+(?:\.\d+)?)%`),
		maturityRe:  regexp.MustCompile(`\b(\d{2}[A-Z]{3}\d{2})\b`),
		dateLayouts: []string{"01/02/2006", "02/01/2006", "2006-01-02"},
	}
	return &IDBTransformer{newEngine(s, client, threshold)}
}
