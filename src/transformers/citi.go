package transformers

import (
	"regexp"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/models"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/numeric"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/refdata"
)

// CitiTransformer handles Citi Private Bank exports. US locale with
// parenthesized negatives throughout, which the numeric converter handles
// uniformly.
type CitiTransformer struct {
	*engine
}

func NewCitiTransformer(client *refdata.Client, threshold float64) *CitiTransformer {
	s := spec{
		institution: "citi",
		convention:  numeric.ConventionPoint,
		secFields: fieldMap{
			fName:        {"Description", "Position Description"},
			fTicker:      {"Ticker"},
			fCusip:       {"CUSIP"},
			fIsin:        {"ISIN"},
			fQuantity:    {"Quantity", "Nominal Amount"},
			fPrice:       {"Price", "Market Price"},
			fMarketValue: {"Market Value", "USD Market Value"},
			fCostBasis:   {"Cost Basis", "Average Cost"},
			fAssetClass:  {"Asset Class"},
			fSubClass:    {"Asset Sub Class"},
			fDescription: {"Description", "Position Description"},
			fCoupon:      {"Coupon Rate"},
			fMaturity:    {"Maturity Date"},
			fClient:      {"Client"},
			fAccount:     {"Account Number", "Account"},
		},
		secRequired: []string{fName, fQuantity, fMarketValue, fAssetClass},
		txFields: fieldMap{
			fDate:        {"Transaction Date", "Date"},
			fType:        {"Transaction Type", "Activity"},
			fAmount:      {"Amount", "USD Amount"},
			fPrice:       {"Price"},
			fQuantity:    {"Quantity"},
			fCusip:       {"CUSIP"},
			fIsin:        {"ISIN"},
			fTicker:      {"Ticker"},
			fClient:      {"Client"},
			fAccount:     {"Account Number", "Account"},
			fDescription: {"Description"},
		},
		txRequired: []string{fDate, fType, fAmount},
		assetRules: []assetRule{
			{Category: "CASH", Asset: models.AssetCash},
			{Category: "CASH AND SHORT TERM", Subcategory: "MONEY MARKET", Asset: models.AssetMoneyMarket},
			{Category: "CASH AND SHORT TERM", Asset: models.AssetCash},
			{Category: "FIXED INCOME", Asset: models.AssetFixedIncome},
			{Category: "EQUITY", Asset: models.AssetEquities},
			{Category: "EQUITIES", Asset: models.AssetEquities},
			{Category: "HEDGE FUNDS", Asset: models.AssetAlternative},
			{Category: "PRIVATE EQUITY", Asset: models.AssetAlternative},
			{Category: "REAL ESTATE", Asset: models.AssetAlternative},
			{Category: "COMMODITIES", Asset: models.AssetAlternative},
		},
		isBond:          bondByAssetType,
		couponRe:        regexp.MustCompile(`\b(\d+(?:\.\d+)?)%`),
		maturityRe:      regexp.MustCompile(`\b(\d{2}/\d{2}/\d{2,4})\b`),
		maturityLayouts: []string{"01/02/2006", "01/02/06"},
		dateLayouts:     []string{"01/02/2006", "2006-01-02"},
	}
	return &CitiTransformer{newEngine(s, client, threshold)}
}
