package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AssetType is the canonical asset classification every custodian's raw
// vocabulary is mapped into. Ambiguous inputs map to AssetUnknown, never to a
// guessed type.
type AssetType string

const (
	AssetCash        AssetType = "Cash"
	AssetMoneyMarket AssetType = "Money Market"
	AssetFixedIncome AssetType = "Fixed Income"
	AssetEquities    AssetType = "Equities"
	AssetAlternative AssetType = "Alternatives"
	AssetUnknown     AssetType = "Unknown"
)

// UnresolvedIdentifier is the sentinel stored when no CUSIP/ISIN/ticker could
// be obtained for a record.
const UnresolvedIdentifier = "0"

// SecurityRecord is the canonical position row all custodian exports are
// normalized into.
type SecurityRecord struct {
	Institution  string          `json:"institution"`
	Client       string          `json:"client"`
	Account      string          `json:"account"`
	AssetType    AssetType       `json:"asset_type"`
	Name         string          `json:"name"`
	Ticker       string          `json:"ticker,omitempty"`
	Identifier   string          `json:"identifier"` // CUSIP/ISIN, "0" when unresolved
	Quantity     decimal.Decimal `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	MarketValue  decimal.Decimal `json:"market_value"`
	CostBasis    decimal.Decimal `json:"cost_basis"`
	CouponRate   string          `json:"coupon_rate,omitempty"`   // bonds only
	MaturityDate string          `json:"maturity_date,omitempty"` // bonds only, DD/MM/YYYY
}

// TransactionRecord is the canonical transaction row.
type TransactionRecord struct {
	Institution     string          `json:"institution"`
	Client          string          `json:"client"`
	Account         string          `json:"account"`
	Date            time.Time       `json:"date"`
	TransactionType string          `json:"transaction_type"` // source-specific free text
	Identifier      string          `json:"identifier,omitempty"`
	Price           decimal.Decimal `json:"price"`
	Quantity        decimal.Decimal `json:"quantity"`
	Amount          decimal.Decimal `json:"amount"` // signed: inflow positive
}

// RowError records a single expected per-row failure (bad cell, unresolved
// identifier, dropped row) without aborting the transform.
type RowError struct {
	Row    int
	Field  string
	Reason string
}

func (e RowError) String() string {
	if e.Field == "" {
		return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
	}
	return fmt.Sprintf("row %d field %s: %s", e.Row, e.Field, e.Reason)
}

// LookupResult is the reference-data service's answer for one identifier (or
// cleaned name). Err is set when every lookup stage failed; AssetType is still
// populated then, from the static fallback.
type LookupResult struct {
	Identifier string
	AssetType  AssetType
	Ticker     string
	Name       string
	CouponRate string
	Maturity   string
	Err        error
}

// IsBondLike reports whether a record should carry coupon/maturity fields:
// either classified Fixed Income or explicitly carrying a maturity (structured
// notes at some custodians).
func (r *SecurityRecord) IsBondLike() bool {
	return r.AssetType == AssetFixedIncome || r.MaturityDate != ""
}
