package transformers

import (
	"regexp"
	"strings"
	"time"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/models"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/numeric"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/refdata"
)

// PictetTransformer handles Pictet exports. Decimal-comma locale. Structured
// notes are classified Alternatives but still carry a maturity date, so the
// post hook re-extracts the maturity the engine cleared for non-bond rows.
type PictetTransformer struct {
	*engine
}

var pictetMaturityRe = regexp.MustCompile(`\b(\d{2}\.\d{2}\.\d{4})\b`)

func NewPictetTransformer(client *refdata.Client, threshold float64) *PictetTransformer {
	s := spec{
		institution: "pictet",
		convention:  numeric.ConventionComma,
		secFields: fieldMap{
			fName:        {"Description", "Instrument"},
			fIsin:        {"ISIN"},
			fTicker:      {"Symbol"},
			fQuantity:    {"Quantity", "Nominal"},
			fPrice:       {"Price", "Market Price"},
			fMarketValue: {"Valuation", "Market Value"},
			fCostBasis:   {"Cost Value", "Acquisition Value"},
			fAssetClass:  {"Asset Class", "Investment Category"},
			fDescription: {"Description", "Instrument"},
			fMaturity:    {"Maturity", "Maturity Date", "Redemption"},
			fClient:      {"Client"},
			fAccount:     {"Portfolio", "Account"},
		},
		secRequired: []string{fName, fQuantity, fMarketValue, fAssetClass},
		txFields: fieldMap{
			fDate:        {"Value Date", "Booking Date"},
			fType:        {"Transaction Type", "Operation"},
			fAmount:      {"Net Amount", "Amount"},
			fPrice:       {"Price"},
			fQuantity:    {"Quantity"},
			fIsin:        {"ISIN"},
			fClient:      {"Client"},
			fAccount:     {"Portfolio", "Account"},
			fDescription: {"Operation"},
		},
		txRequired: []string{fDate, fType, fAmount},
		assetRules: []assetRule{
			{Category: "LIQUIDITY", Asset: models.AssetCash},
			{Category: "CASH", Asset: models.AssetCash},
			{Category: "MONEY MARKET", Asset: models.AssetMoneyMarket},
			{Category: "BONDS", Asset: models.AssetFixedIncome},
			{Category: "FIXED INCOME", Asset: models.AssetFixedIncome},
			{Category: "EQUITIES", Asset: models.AssetEquities},
			{Category: "STRUCTURED PRODUCTS", Asset: models.AssetAlternative},
			{Category: "PRIVATE EQUITY", Asset: models.AssetAlternative},
			{Category: "PRECIOUS METALS", Asset: models.AssetAlternative},
		},
		isBond:          bondByAssetType,
		couponRe:        regexp.MustCompile(`\b(\d+(?:[.,]\d+)?)\s?%`),
		maturityRe:      pictetMaturityRe,
		maturityLayouts: []string{"02.01.2006"},
		dateLayouts:     []string{"02.01.2006", "02/01/2006"},
	}

	// Structured notes keep their maturity despite not being Fixed Income.
	s.postSecurity = func(rec *models.SecurityRecord) *models.RowError {
		if rec.AssetType != models.AssetAlternative || rec.MaturityDate != "" {
			return nil
		}
		upper := strings.ToUpper(rec.Name)
		if !strings.Contains(upper, "NOTE") && !strings.Contains(upper, "CERTIFICATE") {
			return nil
		}
		if m := pictetMaturityRe.FindStringSubmatch(upper); m != nil {
			if d, err := time.Parse("02.01.2006", m[1]); err == nil {
				rec.MaturityDate = d.Format(models.CanonicalDateLayout)
			} else {
				rec.MaturityDate = m[1]
			}
		}
		return nil
	}
	return &PictetTransformer{newEngine(s, client, threshold)}
}
