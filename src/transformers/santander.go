package transformers

import (
	"regexp"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/models"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/numeric"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/refdata"
)

// SantanderTransformer handles Santander Private Banking exports.
// Decimal-comma locale; empty positions arrive as dash cells, which decode
// to zero rather than failing the row.
type SantanderTransformer struct {
	*engine
}

func NewSantanderTransformer(client *refdata.Client, threshold float64) *SantanderTransformer {
	s := spec{
		institution: "santander",
		convention:  numeric.ConventionComma,
		secFields: fieldMap{
			fName:        {"Descripcion", "Description"},
			fIsin:        {"ISIN"},
			fTicker:      {"Ticker"},
			fQuantity:    {"Titulos", "Cantidad"},
			fPrice:       {"Cotizacion", "Precio"},
			fMarketValue: {"Valor de Mercado", "Valoracion"},
			fCostBasis:   {"Coste", "Valor de Coste"},
			fAssetClass:  {"Tipo de Activo", "Familia"},
			fDescription: {"Descripcion", "Description"},
			fMaturity:    {"Vencimiento"},
			fClient:      {"Cliente"},
			fAccount:     {"Contrato", "Cuenta"},
		},
		secRequired: []string{fName, fQuantity, fMarketValue, fAssetClass},
		txFields: fieldMap{
			fDate:        {"Fecha Operacion", "Fecha"},
			fType:        {"Concepto", "Tipo"},
			fAmount:      {"Importe", "Importe Liquido"},
			fPrice:       {"Cotizacion", "Precio"},
			fQuantity:    {"Titulos", "Cantidad"},
			fIsin:        {"ISIN"},
			fClient:      {"Cliente"},
			fAccount:     {"Contrato", "Cuenta"},
			fDescription: {"Concepto"},
		},
		txRequired: []string{fDate, fType, fAmount},
		assetRules: []assetRule{
			{Category: "TESORERIA", Asset: models.AssetCash},
			{Category: "CUENTAS", Asset: models.AssetCash},
			{Category: "MONETARIO", Asset: models.AssetMoneyMarket},
			{Category: "RENTA FIJA", Asset: models.AssetFixedIncome},
			{Category: "BONOS", Asset: models.AssetFixedIncome},
			{Category: "RENTA VARIABLE", Asset: models.AssetEquities},
			{Category: "ACCIONES", Asset: models.AssetEquities},
			{Category: "FONDOS", Keyword: "RENTA FIJA", Asset: models.AssetFixedIncome},
			{Category: "FONDOS", Asset: models.AssetEquities},
			{Category: "ALTERNATIVOS", Asset: models.AssetAlternative},
			{Category: "ESTRUCTURADOS", Asset: models.AssetAlternative},
		},
		isBond:          bondByAssetType,
		couponRe:        regexp.MustCompile(`\b(\d+(?:,\d+)?)\s?%`),
		maturityRe:      regexp.MustCompile(`\b(\d{2}/\d{2}/\d{4})\b`),
		maturityLayouts: []string{"02/01/2006"},
		dateLayouts:     []string{"02/01/2006", "02-01-2006"},
	}
	return &SantanderTransformer{newEngine(s, client, threshold)}
}
