package transformers

import (
	"regexp"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/models"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/numeric"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/refdata"
)

// HSBCTransformer handles HSBC Private Bank exports. Decimal-comma locale.
// The asset table is two-dimensional: the coarse category plus a free-text
// keyword in the holding description decides the canonical type (the "Funds"
// category alone is ambiguous between bond and equity funds).
type HSBCTransformer struct {
	*engine
}

func NewHSBCTransformer(client *refdata.Client, threshold float64) *HSBCTransformer {
	s := spec{
		institution: "hsbc",
		convention:  numeric.ConventionComma,
		secFields: fieldMap{
			fName:        {"Holding Description", "Description"},
			fIsin:        {"ISIN"},
			fTicker:      {"Symbol"},
			fQuantity:    {"Holding", "Quantity"},
			fPrice:       {"Price", "Market Price"},
			fMarketValue: {"Market Value", "Valuation", "Market Value (USD)"},
			fCostBasis:   {"Book Cost", "Cost"},
			fAssetClass:  {"Asset Class", "Category"},
			fDescription: {"Holding Description", "Description"},
			fMaturity:    {"Maturity Date"},
			fClient:      {"Client"},
			fAccount:     {"Portfolio", "Account"},
		},
		secRequired: []string{fName, fQuantity, fMarketValue, fAssetClass},
		txFields: fieldMap{
			fDate:        {"Value Date", "Booking Date"},
			fType:        {"Narrative", "Transaction Type"},
			fAmount:      {"Amount", "Credit/Debit Amount"},
			fPrice:       {"Price"},
			fQuantity:    {"Quantity"},
			fIsin:        {"ISIN"},
			fClient:      {"Client"},
			fAccount:     {"Portfolio", "Account"},
			fDescription: {"Narrative"},
		},
		txRequired: []string{fDate, fType, fAmount},
		assetRules: []assetRule{
			{Category: "CASH", Asset: models.AssetCash},
			{Category: "DEPOSITS", Asset: models.AssetCash},
			{Category: "MONEY MARKET", Asset: models.AssetMoneyMarket},
			{Category: "BONDS", Asset: models.AssetFixedIncome},
			{Category: "FIXED INCOME", Asset: models.AssetFixedIncome},
			{Category: "FUNDS", Keyword: "BOND", Asset: models.AssetFixedIncome},
			{Category: "FUNDS", Keyword: "INCOME", Asset: models.AssetFixedIncome},
			{Category: "FUNDS", Keyword: "EQUITY", Asset: models.AssetEquities},
			{Category: "FUNDS", Keyword: "HEDGE", Asset: models.AssetAlternative},
			{Category: "EQUITIES", Asset: models.AssetEquities},
			{Category: "ALTERNATIVES", Asset: models.AssetAlternative},
			{Category: "STRUCTURED PRODUCTS", Asset: models.AssetAlternative},
		},
		isBond:          bondByAssetType,
		couponRe:        regexp.MustCompile(`\b(\d+(?:[.,]\d+)?)\s?%`),
		maturityRe:      regexp.MustCompile(`\b(\d{2}/\d{2}/\d{4})\b`),
		maturityLayouts: []string{"02/01/2006"},
		dateLayouts:     []string{"02/01/2006", "02.01.2006"},
	}
	return &HSBCTransformer{newEngine(s, client, threshold)}
}
