package transformers

import (
	"regexp"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/models"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/numeric"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/refdata"
)

// JBTransformer handles Julius Baer exports: European decimal-comma locale,
// ISIN as the primary identifier, coupon as a leading percent token in the
// position description ("4.625% EIB 2029").
type JBTransformer struct {
	*engine
}

func NewJBTransformer(client *refdata.Client, threshold float64) *JBTransformer {
	s := spec{
		institution: "jb",
		convention:  numeric.ConventionComma,
		secFields: fieldMap{
			fName:        {"Designation", "Description"},
			fIsin:        {"ISIN"},
			fTicker:      {"Symbol"},
			fQuantity:    {"Number/Nominal", "Quantity"},
			fPrice:       {"Price", "Market Price"},
			fMarketValue: {"Valuation", "Market Value", "Valuation in USD"},
			fCostBasis:   {"Purchase Value", "Cost"},
			fAssetClass:  {"Asset Category", "Category"},
			fDescription: {"Designation", "Description"},
			fMaturity:    {"Maturity", "Redemption Date"},
			fClient:      {"Client"},
			fAccount:     {"Portfolio", "Account"},
		},
		secRequired: []string{fName, fQuantity, fMarketValue, fAssetClass},
		txFields: fieldMap{
			fDate:        {"Booking Date", "Value Date"},
			fType:        {"Transaction Type", "Text"},
			fAmount:      {"Amount", "Credit/Debit", "Amount in Account Currency"},
			fPrice:       {"Price"},
			fQuantity:    {"Quantity"},
			fIsin:        {"ISIN"},
			fClient:      {"Client"},
			fAccount:     {"Portfolio", "Account"},
			fDescription: {"Text"},
		},
		txRequired: []string{fDate, fType, fAmount},
		assetRules: []assetRule{
			{Category: "LIQUIDITY", Asset: models.AssetCash},
			{Category: "ACCOUNTS", Asset: models.AssetCash},
			{Category: "MONEY MARKET", Asset: models.AssetMoneyMarket},
			{Category: "BONDS", Asset: models.AssetFixedIncome},
			{Category: "CONVERTIBLE BONDS", Asset: models.AssetFixedIncome},
			{Category: "EQUITIES", Asset: models.AssetEquities},
			{Category: "FUNDS", Asset: models.AssetEquities},
			{Category: "PRECIOUS METALS", Asset: models.AssetAlternative},
			{Category: "HEDGE FUNDS", Asset: models.AssetAlternative},
			{Category: "STRUCTURED PRODUCTS", Asset: models.AssetAlternative},
		},
		isBond:          bondByAssetType,
		couponRe:        regexp.MustCompile(`^(\d+(?:[.,]\d+)?)%`),
		maturityRe:      regexp.MustCompile(`\b(\d{2}\.\d{2}\.\d{4})\b`),
		maturityLayouts: []string{"02.01.2006", "02/01/2006"},
		dateLayouts:     []string{"02.01.2006", "02/01/2006"},
	}
	return &JBTransformer{newEngine(s, client, threshold)}
}
