package transformers

import (
	"regexp"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/combiner"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/models"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/numeric"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/refdata"
)

// JPMTransformer handles J.P. Morgan exports. Multi-file custodian: one
// workbook per client/account, combined upstream. Asset classification is a
// two-dimensional table (Asset Class × Sub-Asset Class); bonds are flagged by
// asset class and carry coupon/maturity inside the description
// ("US TREASURY 4.25% 15NOV28").
type JPMTransformer struct {
	*engine
}

func NewJPMTransformer(client *refdata.Client, threshold float64) *JPMTransformer {
	s := spec{
		institution: "jpm",
		convention:  numeric.ConventionPoint,
		secFields: fieldMap{
			fName:        {"Description", "Security Description"},
			fTicker:      {"Ticker"},
			fCusip:       {"CUSIP", "Cusip"},
			fIsin:        {"ISIN"},
			fQuantity:    {"Quantity", "Shares", "Shares/Par"},
			fPrice:       {"Price", "Unit Price", "Price ($)"},
			fMarketValue: {"Value", "Market Value", "Value ($)"},
			fCostBasis:   {"Cost", "Tax Cost"},
			fAssetClass:  {"Asset Class"},
			fSubClass:    {"Sub Asset Class", "Asset Strategy Detail"},
			fDescription: {"Description", "Security Description"},
			fClient:      {combiner.ClientColumn},
			fAccount:     {combiner.AccountColumn, "Account Number"},
		},
		secRequired: []string{fName, fQuantity, fMarketValue, fAssetClass},
		txFields: fieldMap{
			fDate:        {"Settlement Date", "Trade Date", "Post Date"},
			fType:        {"Transaction Type", "Type"},
			fAmount:      {"Amount", "Net Amount", "Amount USD"},
			fPrice:       {"Price"},
			fQuantity:    {"Quantity"},
			fCusip:       {"CUSIP", "Cusip"},
			fIsin:        {"ISIN"},
			fTicker:      {"Ticker"},
			fClient:      {combiner.ClientColumn},
			fAccount:     {combiner.AccountColumn, "Account Number"},
			fDescription: {"Description"},
		},
		txRequired: []string{fDate, fType, fAmount},
		assetRules: []assetRule{
			{Category: "CASH", Asset: models.AssetCash},
			{Category: "CASH & CASH EQUIVALENTS", Subcategory: "MONEY MARKET", Asset: models.AssetMoneyMarket},
			{Category: "CASH & CASH EQUIVALENTS", Asset: models.AssetCash},
			{Category: "FIXED INCOME", Asset: models.AssetFixedIncome},
			{Category: "FIXED INCOME & CASH", Subcategory: "CASH", Asset: models.AssetCash},
			{Category: "FIXED INCOME & CASH", Asset: models.AssetFixedIncome},
			{Category: "EQUITIES", Asset: models.AssetEquities},
			{Category: "EQUITY", Asset: models.AssetEquities},
			{Category: "ALTERNATIVES", Asset: models.AssetAlternative},
			{Category: "HEDGE FUNDS", Asset: models.AssetAlternative},
			{Category: "OTHER", Keyword: "STRUCTURED", Asset: models.AssetAlternative},
		},
		isBond:      bondByAssetType,
		couponRe:    regexp.MustCompile(`\b(\d+(?:\.\d+)?)%`),
		maturityRe:  regexp.MustCompile(`\b(\d{2}[A-Z]{3}\d{2})\b`),
		dateLayouts: []string{"01/02/2006", "01/02/06", "2006-01-02"},
	}
	return &JPMTransformer{newEngine(s, client, threshold)}
}
