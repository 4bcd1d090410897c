package transformers

import (
	"regexp"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/models"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/numeric"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/refdata"
)

// CSTransformer handles Charles Schwab exports. Unified custodian: one
// workbook per date covering all accounts, with the account number as a
// column. csc (the corporate-account variant) shares the decision tables but
// uses its own column vocabulary.
type CSTransformer struct {
	*engine
}

var csAssetRules = []assetRule{
	{Category: "CASH AND CASH INVESTMENTS", Subcategory: "MONEY MARKET", Asset: models.AssetMoneyMarket},
	{Category: "CASH AND CASH INVESTMENTS", Asset: models.AssetCash},
	{Category: "CASH", Asset: models.AssetCash},
	{Category: "MONEY MARKET", Asset: models.AssetMoneyMarket},
	{Category: "FIXED INCOME", Asset: models.AssetFixedIncome},
	{Category: "BOND FUNDS", Asset: models.AssetFixedIncome},
	{Category: "EQUITIES", Asset: models.AssetEquities},
	{Category: "EQUITY FUNDS", Asset: models.AssetEquities},
	{Category: "ETFS", Asset: models.AssetEquities},
	{Category: "OTHER ASSETS", Keyword: "GOLD", Asset: models.AssetAlternative},
	{Category: "OTHER ASSETS", Keyword: "COMMODITY", Asset: models.AssetAlternative},
	{Category: "OTHER ASSETS", Asset: models.AssetAlternative},
}

func NewCSTransformer(client *refdata.Client, threshold float64) *CSTransformer {
	s := spec{
		institution: "cs",
		convention:  numeric.ConventionPoint,
		secFields: fieldMap{
			fName:        {"Description", "Security Description"},
			fTicker:      {"Symbol"},
			fCusip:       {"CUSIP"},
			fQuantity:    {"Quantity", "Qty"},
			fPrice:       {"Price"},
			fMarketValue: {"Market Value", "Mkt Val"},
			fCostBasis:   {"Cost Basis", "Cost"},
			fAssetClass:  {"Security Type", "Asset Class"},
			fSubClass:    {"Sub Type"},
			fDescription: {"Description"},
			fCoupon:      {"Rate"},
			fMaturity:    {"Maturity"},
			fClient:      {"Client"},
			fAccount:     {"Account", "Account Number"},
		},
		secRequired: []string{fName, fQuantity, fMarketValue, fAssetClass},
		txFields: fieldMap{
			fDate:        {"Date", "Trade Date"},
			fType:        {"Action", "Transaction Type"},
			fAmount:      {"Amount"},
			fPrice:       {"Price"},
			fQuantity:    {"Quantity"},
			fCusip:       {"CUSIP"},
			fTicker:      {"Symbol"},
			fClient:      {"Client"},
			fAccount:     {"Account"},
			fDescription: {"Description"},
		},
		txRequired:      []string{fDate, fType, fAmount},
		assetRules:      csAssetRules,
		isBond:          bondByAssetType,
		couponRe:        regexp.MustCompile(`\b(\d+(?:\.\d+)?)%`),
		maturityRe:      regexp.MustCompile(`\b(\d{2}/\d{2}/\d{4})\b`),
		maturityLayouts: []string{"01/02/2006"},
		dateLayouts:     []string{"01/02/2006", "2006-01-02"},
	}
	return &CSTransformer{newEngine(s, client, threshold)}
}

// CSCTransformer is the Schwab corporate-account variant: same decision
// tables, different export vocabulary.
type CSCTransformer struct {
	*engine
}

func NewCSCTransformer(client *refdata.Client, threshold float64) *CSCTransformer {
	s := spec{
		institution: "csc",
		convention:  numeric.ConventionPoint,
		secFields: fieldMap{
			fName:        {"Security Name", "Description"},
			fTicker:      {"Ticker Symbol", "Symbol"},
			fCusip:       {"CUSIP Number", "CUSIP"},
			fQuantity:    {"Units", "Quantity"},
			fPrice:       {"Unit Price", "Price"},
			fMarketValue: {"Total Value", "Market Value"},
			fCostBasis:   {"Total Cost", "Cost Basis"},
			fAssetClass:  {"Investment Type", "Security Type"},
			fDescription: {"Security Name", "Description"},
			fCoupon:      {"Interest Rate"},
			fMaturity:    {"Maturity Date"},
			fClient:      {"Entity", "Client"},
			fAccount:     {"Account Number", "Account"},
		},
		secRequired: []string{fName, fQuantity, fMarketValue, fAssetClass},
		txFields: fieldMap{
			fDate:        {"Transaction Date", "Date"},
			fType:        {"Transaction Description", "Action"},
			fAmount:      {"Net Amount", "Amount"},
			fPrice:       {"Unit Price", "Price"},
			fQuantity:    {"Units", "Quantity"},
			fCusip:       {"CUSIP Number", "CUSIP"},
			fTicker:      {"Ticker Symbol", "Symbol"},
			fClient:      {"Entity", "Client"},
			fAccount:     {"Account Number", "Account"},
			fDescription: {"Transaction Description"},
		},
		txRequired:      []string{fDate, fType, fAmount},
		assetRules:      csAssetRules,
		isBond:          bondByAssetType,
		couponRe:        regexp.MustCompile(`\b(\d+(?:\.\d+)?)%`),
		maturityRe:      regexp.MustCompile(`\b(\d{2}/\d{2}/\d{4})\b`),
		maturityLayouts: []string{"01/02/2006"},
		dateLayouts:     []string{"01/02/2006", "2006-01-02"},
	}
	return &CSCTransformer{newEngine(s, client, threshold)}
}
