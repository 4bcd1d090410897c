package transformers

import (
	"regexp"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/models"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/numeric"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/refdata"
)

// SafraTransformer handles Safra exports. CUSIPs are frequently blank, so
// the ticker-as-identifier fallback in the resolver chain is the norm rather
// than the exception here.
type SafraTransformer struct {
	*engine
}

func NewSafraTransformer(client *refdata.Client, threshold float64) *SafraTransformer {
	s := spec{
		institution: "safra",
		convention:  numeric.ConventionPoint,
		secFields: fieldMap{
			fName:        {"Description", "Security"},
			fTicker:      {"Ticker", "Symbol"},
			fCusip:       {"CUSIP"},
			fIsin:        {"ISIN"},
			fQuantity:    {"Quantity"},
			fPrice:       {"Price"},
			fMarketValue: {"Market Value", "Market Value USD"},
			fCostBasis:   {"Original Cost", "Cost"},
			fAssetClass:  {"Asset Type", "Type"},
			fDescription: {"Description"},
			fCoupon:      {"Coupon"},
			fMaturity:    {"Maturity"},
			fClient:      {"Client"},
			fAccount:     {"Account"},
		},
		secRequired: []string{fName, fQuantity, fMarketValue, fAssetClass},
		txFields: fieldMap{
			fDate:        {"Date", "Transaction Date"},
			fType:        {"Description", "Transaction Type"},
			fAmount:      {"Amount", "Net Amount"},
			fPrice:       {"Price"},
			fQuantity:    {"Quantity"},
			fCusip:       {"CUSIP"},
			fTicker:      {"Ticker", "Symbol"},
			fClient:      {"Client"},
			fAccount:     {"Account"},
			fDescription: {"Description"},
		},
		txRequired: []string{fDate, fType, fAmount},
		assetRules: []assetRule{
			{Category: "CASH", Asset: models.AssetCash},
			{Category: "TIME DEPOSIT", Asset: models.AssetMoneyMarket},
			{Category: "MONEY MARKET", Asset: models.AssetMoneyMarket},
			{Category: "BOND", Asset: models.AssetFixedIncome},
			{Category: "FIXED INCOME", Asset: models.AssetFixedIncome},
			{Category: "STOCK", Asset: models.AssetEquities},
			{Category: "EQUITY", Asset: models.AssetEquities},
			{Category: "FUND", Asset: models.AssetEquities},
			{Category: "ALTERNATIVE", Asset: models.AssetAlternative},
		},
		isBond:          bondByAssetType,
		couponRe:        regexp.MustCompile(`\b(\d+(?:\.\d+)?)%`),
		maturityRe:      regexp.MustCompile(`\b(\d{2}/\d{2}/\d{2,4})\b`),
		maturityLayouts: []string{"01/02/2006", "01/02/06"},
		dateLayouts:     []string{"01/02/2006", "2006-01-02"},
	}
	return &SafraTransformer{newEngine(s, client, threshold)}
}
