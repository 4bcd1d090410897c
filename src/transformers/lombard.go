package transformers

import (
	"regexp"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/models"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/numeric"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/refdata"
)

// LombardTransformer handles Lombard Odier exports. Decimal-comma locale.
// The transaction export has no identifier column at all, so identifiers are
// resolved by matching each transaction's position description against the
// run's known security names (substring first, similarity ratio fallback).
type LombardTransformer struct {
	*engine
}

func NewLombardTransformer(client *refdata.Client, threshold float64) *LombardTransformer {
	s := spec{
		institution: "lombard",
		convention:  numeric.ConventionComma,
		secFields: fieldMap{
			fName:        {"Description", "Instrument"},
			fIsin:        {"ISIN"},
			fQuantity:    {"Quantity", "Nominal", "Quantity/Nominal"},
			fPrice:       {"Market Price", "Price"},
			fMarketValue: {"Market Value", "Valuation"},
			fCostBasis:   {"Cost Price Value", "Cost Value"},
			fAssetClass:  {"Asset Class"},
			fDescription: {"Description", "Instrument"},
			fMaturity:    {"Maturity Date"},
			fClient:      {"Client"},
			fAccount:     {"Portfolio Number", "Account"},
		},
		secRequired: []string{fName, fQuantity, fMarketValue, fAssetClass},
		txFields: fieldMap{
			fDate:        {"Operation Date", "Value Date"},
			fType:        {"Operation Type", "Type"},
			fAmount:      {"Net Amount", "Amount", "Amount in CCY"},
			fPrice:       {"Price"},
			fQuantity:    {"Quantity"},
			fClient:      {"Client"},
			fAccount:     {"Portfolio Number", "Account"},
			fDescription: {"Position Description", "Description"},
		},
		txRequired: []string{fDate, fType, fAmount},
		assetRules: []assetRule{
			{Category: "CASH & EQUIVALENTS", Asset: models.AssetCash},
			{Category: "LIQUIDITIES", Asset: models.AssetCash},
			{Category: "MONETARY", Asset: models.AssetMoneyMarket},
			{Category: "BONDS", Asset: models.AssetFixedIncome},
			{Category: "FIXED INCOME", Asset: models.AssetFixedIncome},
			{Category: "EQUITIES", Asset: models.AssetEquities},
			{Category: "SHARES", Asset: models.AssetEquities},
			{Category: "COMMODITIES", Asset: models.AssetAlternative},
			{Category: "ALTERNATIVE INVESTMENTS", Asset: models.AssetAlternative},
		},
		isBond:             bondByAssetType,
		couponRe:           regexp.MustCompile(`\b(\d+(?:[.,]\d+)?)\s?%`),
		maturityRe:         regexp.MustCompile(`\b(\d{2}\.\d{2}\.\d{4})\b`),
		maturityLayouts:    []string{"02.01.2006"},
		dateLayouts:        []string{"02.01.2006", "02/01/2006"},
		matchByDescription: true,
	}
	return &LombardTransformer{newEngine(s, client, threshold)}
}
