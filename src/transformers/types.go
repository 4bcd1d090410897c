// Package transformers converts each custodian's raw tabular export into the
// canonical securities/transactions schema. Every custodian is a fixed
// variant implementing the Transformer interface, selected by the detector's
// institution code; adding a custodian means adding a variant, never touching
// shared code.
package transformers

import (
	"regexp"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/models"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/numeric"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/spreadsheet"
)

// Transformer is the common contract. The two transforms are independently
// capable of partial failure: one failing does not block the other.
type Transformer interface {
	Institution() string
	TransformSecurities(t *spreadsheet.Table) ([]models.SecurityRecord, []models.RowError, error)
	TransformTransactions(t *spreadsheet.Table) ([]models.TransactionRecord, []models.RowError, error)
}

// DescriptionMatcher is implemented by variants whose transaction exports
// carry no identifier column; the pipeline feeds them the run's securities
// before transforming transactions.
type DescriptionMatcher interface {
	SetKnownSecurities(securities []models.SecurityRecord)
}

// Canonical field names used by the column maps.
const (
	fName        = "name"
	fTicker      = "ticker"
	fCusip       = "cusip"
	fIsin        = "isin"
	fAltID       = "security_id"
	fQuantity    = "quantity"
	fPrice       = "price"
	fMarketValue = "market_value"
	fCostBasis   = "cost_basis"
	fAssetClass  = "asset_class"
	fSubClass    = "sub_asset_class"
	fDescription = "description"
	fCoupon      = "coupon"
	fMaturity    = "maturity"
	fClient      = "client"
	fAccount     = "account"
	fDate        = "date"
	fType        = "transaction_type"
	fAmount      = "amount"
)

// fieldMap maps a canonical field to its accepted source column names, first
// match wins.
type fieldMap map[string][]string

// assetRule is one row of a custodian's asset reclassification table.
// Category matches the raw classification cell exactly (case-insensitive);
// Subcategory, when set, must also match; Keyword, when set, must appear in
// the description/name. First matching rule wins; no match means Unknown.
type assetRule struct {
	Category    string
	Subcategory string
	Keyword     string
	Asset       models.AssetType
}

// bondDetector decides per row whether the bond price decoder applies.
type bondDetector func(asset models.AssetType, text string) bool

// spec is a variant's full configuration: column aliases, locale, asset
// table, bond criteria and embedded-metadata patterns.
type spec struct {
	institution string
	convention  numeric.Convention

	secFields   fieldMap
	secRequired []string
	txFields    fieldMap
	txRequired  []string

	assetRules []assetRule
	// enrichWithRefData classifies every position through the reference-data
	// client (custodians that export no asset classification at all).
	enrichWithRefData bool

	isBond bondDetector
	// bondDecodeAlways marks custodians that quote bond prices exclusively
	// as raw percent-of-par digits: a cell the decoder cannot handle is a
	// decode failure (zero + diagnostic) instead of falling back to plain
	// locale conversion.
	bondDecodeAlways bool

	couponRe        *regexp.Regexp // anchored, first submatch is the rate
	maturityRe      *regexp.Regexp // anchored, first submatch is the date token
	maturityLayouts []string

	dateLayouts []string

	// matchByDescription resolves transaction identifiers against the run's
	// security names instead of identifier columns.
	matchByDescription bool

	// postSecurity runs after a security record is assembled, for custodian
	// quirks (e.g. CLP cash conversion). A returned RowError is recorded but
	// keeps the row.
	postSecurity func(rec *models.SecurityRecord) *models.RowError
}

func bondByAssetType(asset models.AssetType, _ string) bool {
	return asset == models.AssetFixedIncome
}

// couponOrMaturityPattern spots bond-like descriptions for custodians whose
// asset columns are unreliable: a percent token or a DDMMMYY maturity.
var couponOrMaturityPattern = regexp.MustCompile(`\d+(?:\.\d+)?%|\b\d{2}[A-Z]{3}\d{2}\b`)

func bondByDescription(_ models.AssetType, text string) bool {
	return couponOrMaturityPattern.MatchString(text)
}
