package transformers

import (
	"regexp"
	"strings"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/logger"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/models"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/numeric"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/refdata"
)

// BanchileTransformer handles Banchile Inversiones exports: Chilean locale
// (thousands '.', decimal ','), local asset vocabulary, and cash rows
// denominated in CLP which are converted to USD through the
// currency-indicator service so the canonical table stays in one currency.
type BanchileTransformer struct {
	*engine
}

func NewBanchileTransformer(client *refdata.Client, threshold float64) *BanchileTransformer {
	s := spec{
		institution: "banchile",
		convention:  numeric.ConventionComma,
		secFields: fieldMap{
			fName:        {"Nombre Instrumento", "Instrumento"},
			fTicker:      {"Nemo", "Nemotecnico"},
			fIsin:        {"ISIN"},
			fQuantity:    {"Cantidad", "Nominales"},
			fPrice:       {"Precio", "Precio Mercado"},
			fMarketValue: {"Monto Valorizado", "Valor Mercado", "Valorizacion"},
			fCostBasis:   {"Monto Invertido", "Costo"},
			fAssetClass:  {"Tipo Instrumento", "Familia"},
			fDescription: {"Nombre Instrumento", "Instrumento"},
			fClient:      {"Cliente"},
			fAccount:     {"Cuenta"},
		},
		secRequired: []string{fName, fQuantity, fMarketValue, fAssetClass},
		txFields: fieldMap{
			fDate:        {"Fecha", "Fecha Movimiento"},
			fType:        {"Tipo Movimiento", "Movimiento"},
			fAmount:      {"Monto", "Monto CLP"},
			fPrice:       {"Precio"},
			fQuantity:    {"Cantidad"},
			fIsin:        {"ISIN"},
			fTicker:      {"Nemo"},
			fClient:      {"Cliente"},
			fAccount:     {"Cuenta"},
			fDescription: {"Descripcion", "Detalle"},
		},
		txRequired: []string{fDate, fType, fAmount},
		assetRules: []assetRule{
			{Category: "CAJA", Asset: models.AssetCash},
			{Category: "SALDOS", Asset: models.AssetCash},
			{Category: "DEPOSITO A PLAZO", Asset: models.AssetMoneyMarket},
			{Category: "FONDOS MUTUOS", Keyword: "MONEY MARKET", Asset: models.AssetMoneyMarket},
			{Category: "RENTA FIJA", Asset: models.AssetFixedIncome},
			{Category: "BONOS", Asset: models.AssetFixedIncome},
			{Category: "ACCIONES", Asset: models.AssetEquities},
			{Category: "FONDOS MUTUOS", Asset: models.AssetEquities},
			{Category: "FONDOS DE INVERSION", Asset: models.AssetAlternative},
		},
		isBond:          bondByAssetType,
		couponRe:        regexp.MustCompile(`\b(\d+(?:,\d+)?)\s?%`),
		maturityRe:      regexp.MustCompile(`\b(\d{2}-\d{2}-\d{4})\b`),
		maturityLayouts: []string{"02-01-2006", "02/01/2006"},
		dateLayouts:     []string{"02-01-2006", "02/01/2006"},
	}

	// CLP cash rows are restated in USD at the day's observed dollar rate.
	s.postSecurity = func(rec *models.SecurityRecord) *models.RowError {
		if rec.AssetType != models.AssetCash || !strings.Contains(strings.ToUpper(rec.Name), "CLP") {
			return nil
		}
		rate, err := client.CurrencyIndicator("dolar")
		if err != nil || rate.IsZero() {
			logger.L.Warn("CLP conversion unavailable, keeping original amounts", "error", err)
			return &models.RowError{Field: fMarketValue, Reason: "CLP/USD rate unavailable, amounts left in CLP"}
		}
		rec.MarketValue = rec.MarketValue.DivRound(rate, 6)
		rec.CostBasis = rec.CostBasis.DivRound(rate, 6)
		rec.Price = rec.Price.DivRound(rate, 6)
		return nil
	}
	return &BanchileTransformer{newEngine(s, client, threshold)}
}
