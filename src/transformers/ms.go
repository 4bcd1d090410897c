package transformers

import (
	"regexp"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/combiner"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/models"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/numeric"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/refdata"
)

// MSTransformer handles Morgan Stanley exports. Multi-file custodian. The
// statements carry an alternate "Security ID" column that feeds the resolver
// when CUSIP is blank, and the transaction-type cell embeds a trailing
// quantity/price clause ("SOLD 1,500 @ 42.10") which the cash-flow taxonomy
// strips before lookup.
type MSTransformer struct {
	*engine
}

func NewMSTransformer(client *refdata.Client, threshold float64) *MSTransformer {
	s := spec{
		institution: "ms",
		convention:  numeric.ConventionPoint,
		secFields: fieldMap{
			fName:        {"Security Description", "Description"},
			fTicker:      {"Symbol", "Ticker"},
			fCusip:       {"CUSIP"},
			fAltID:       {"Security ID", "Sec ID"},
			fQuantity:    {"Quantity", "Shares/Par", "Shares/Par Value"},
			fPrice:       {"Price", "Market Price", "Price ($)"},
			fMarketValue: {"Market Value", "Market Value ($)", "Value"},
			fCostBasis:   {"Cost Basis", "Total Cost"},
			fAssetClass:  {"Security Type", "Asset Type"},
			fDescription: {"Security Description", "Description"},
			fCoupon:      {"Coupon Rate", "Interest Rate"},
			fMaturity:    {"Maturity Date"},
			fClient:      {combiner.ClientColumn},
			fAccount:     {combiner.AccountColumn, "Account"},
		},
		secRequired: []string{fName, fQuantity, fMarketValue, fAssetClass},
		txFields: fieldMap{
			fDate:        {"Activity Date", "Date", "Entry Date"},
			fType:        {"Activity", "Transaction Type", "Activity Type"},
			fAmount:      {"Amount", "Net Amount", "Amount ($)"},
			fPrice:       {"Price"},
			fQuantity:    {"Quantity"},
			fCusip:       {"CUSIP"},
			fAltID:       {"Security ID", "Sec ID"},
			fTicker:      {"Symbol"},
			fClient:      {combiner.ClientColumn},
			fAccount:     {combiner.AccountColumn, "Account"},
			fDescription: {"Description"},
		},
		txRequired: []string{fDate, fType, fAmount},
		assetRules: []assetRule{
			{Category: "CASH", Asset: models.AssetCash},
			{Category: "CASH, MMF AND BDP", Asset: models.AssetMoneyMarket},
			{Category: "MONEY MARKET FUNDS", Asset: models.AssetMoneyMarket},
			{Category: "GOVERNMENT SECURITIES", Asset: models.AssetFixedIncome},
			{Category: "CORPORATE FIXED INCOME", Asset: models.AssetFixedIncome},
			{Category: "MUNICIPAL BONDS", Asset: models.AssetFixedIncome},
			{Category: "CERTIFICATES OF DEPOSIT", Asset: models.AssetFixedIncome},
			{Category: "STOCKS", Asset: models.AssetEquities},
			{Category: "EQUITIES", Asset: models.AssetEquities},
			{Category: "EXCHANGE TRADED FUNDS", Asset: models.AssetEquities},
			{Category: "MUTUAL FUNDS", Asset: models.AssetEquities},
			{Category: "ALTERNATIVE INVESTMENTS", Asset: models.AssetAlternative},
			{Category: "STRUCTURED INVESTMENTS", Asset: models.AssetAlternative},
		},
		isBond:          bondByAssetType,
		couponRe:        regexp.MustCompile(`\b(\d+(?:\.\d+)?)%`),
		maturityRe:      regexp.MustCompile(`\b(\d{2}/\d{2}/\d{2,4})\b`),
		maturityLayouts: []string{"01/02/2006", "01/02/06"},
		dateLayouts:     []string{"01/02/2006", "2006-01-02"},
	}
	return &MSTransformer{newEngine(s, client, threshold)}
}
