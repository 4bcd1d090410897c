package transformers

import (
	"regexp"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/models"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/numeric"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/refdata"
)

// PershingTransformer handles Pershing exports. Bond prices arrive as raw
// percent-of-par digits with no decimal point at all ("99875", "101500"), so
// the positional decoder applies to every Fixed Income row. Maturities are
// DDMMMYY tokens in the description.
type PershingTransformer struct {
	*engine
}

func NewPershingTransformer(client *refdata.Client, threshold float64) *PershingTransformer {
	s := spec{
		institution: "pershing",
		convention:  numeric.ConventionPoint,
		secFields: fieldMap{
			fName:        {"Security Name", "Description"},
			fTicker:      {"Symbol"},
			fCusip:       {"CUSIP"},
			fIsin:        {"ISIN"},
			fQuantity:    {"Quantity", "Share Quantity"},
			fPrice:       {"Price"},
			fMarketValue: {"Market Value", "Market Value USD"},
			fCostBasis:   {"Cost Basis"},
			fAssetClass:  {"Asset Classification", "Product Type"},
			fDescription: {"Security Name", "Description"},
			fClient:      {"Client"},
			fAccount:     {"Account Number", "Account"},
		},
		secRequired: []string{fName, fQuantity, fMarketValue, fAssetClass},
		txFields: fieldMap{
			fDate:        {"Process Date", "Date"},
			fType:        {"Activity Description", "Transaction Type"},
			fAmount:      {"Net Amount", "Amount"},
			fPrice:       {"Price"},
			fQuantity:    {"Quantity"},
			fCusip:       {"CUSIP"},
			fTicker:      {"Symbol"},
			fClient:      {"Client"},
			fAccount:     {"Account Number", "Account"},
			fDescription: {"Activity Description"},
		},
		txRequired: []string{fDate, fType, fAmount},
		assetRules: []assetRule{
			{Category: "CASH", Asset: models.AssetCash},
			{Category: "CASH EQUIVALENTS", Asset: models.AssetMoneyMarket},
			{Category: "MONEY FUND", Asset: models.AssetMoneyMarket},
			{Category: "FIXED INCOME", Asset: models.AssetFixedIncome},
			{Category: "CORPORATE BOND", Asset: models.AssetFixedIncome},
			{Category: "GOVERNMENT BOND", Asset: models.AssetFixedIncome},
			{Category: "EQUITY", Asset: models.AssetEquities},
			{Category: "MUTUAL FUND", Asset: models.AssetEquities},
			{Category: "ALTERNATIVE", Asset: models.AssetAlternative},
		},
		isBond:           bondByAssetType,
		bondDecodeAlways: true,
		couponRe:         regexp.MustCompile(`\b(\d+(?:\.\d+)?)%`),
		maturityRe:       regexp.MustCompile(`\b(\d{2}[A-Z]{3}\d{2})\b`),
		dateLayouts:      []string{"01/02/2006", "20060102"},
	}
	return &PershingTransformer{newEngine(s, client, threshold)}
}
