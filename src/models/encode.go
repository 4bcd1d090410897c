package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// The canonical files use one explicit numeric convention regardless of what
// the source statement used: comma as decimal separator, no thousands
// separator. FormatAmount/ParseAmount are the only code allowed to touch that
// convention, so round-tripping a canonical table is lossless.

// FormatAmount renders a decimal in the canonical convention. The value's
// scale is preserved, so "1000.50" parsed from a statement renders "1000,50",
// not "1000,5".
func FormatAmount(d decimal.Decimal) string {
	s := d.String()
	if exp := d.Exponent(); exp < 0 {
		s = d.StringFixed(-exp)
	}
	return strings.Replace(s, ".", ",", 1)
}

// ParseAmount parses a canonical-convention numeric string.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return decimal.Zero, fmt.Errorf("canonical amount %q: %w", s, err)
	}
	return d, nil
}

// CanonicalDateLayout is the date format used in canonical transaction files.
const CanonicalDateLayout = "02/01/2006"

// SecurityHeaders is the fixed column set of the canonical securities table.
var SecurityHeaders = []string{
	"bank", "client", "account", "asset_type", "name", "ticker", "cusip",
	"quantity", "price", "market_value", "cost_basis", "coupon_rate", "maturity_date",
}

// TransactionHeaders is the fixed column set of the canonical transactions table.
var TransactionHeaders = []string{
	"bank", "client", "account", "date", "transaction_type", "cusip",
	"price", "quantity", "amount",
}

// SecurityRow serializes a record in SecurityHeaders order.
func SecurityRow(r SecurityRecord) []string {
	return []string{
		r.Institution, r.Client, r.Account, string(r.AssetType), r.Name,
		r.Ticker, r.Identifier,
		FormatAmount(r.Quantity), FormatAmount(r.Price),
		FormatAmount(r.MarketValue), FormatAmount(r.CostBasis),
		r.CouponRate, r.MaturityDate,
	}
}

// ParseSecurityRow is the inverse of SecurityRow.
func ParseSecurityRow(cells []string) (SecurityRecord, error) {
	if len(cells) < len(SecurityHeaders) {
		return SecurityRecord{}, fmt.Errorf("securities row has %d cells, want %d", len(cells), len(SecurityHeaders))
	}
	var rec SecurityRecord
	var err error
	rec.Institution, rec.Client, rec.Account = cells[0], cells[1], cells[2]
	rec.AssetType = AssetType(cells[3])
	rec.Name, rec.Ticker, rec.Identifier = cells[4], cells[5], cells[6]
	if rec.Quantity, err = ParseAmount(cells[7]); err != nil {
		return rec, err
	}
	if rec.Price, err = ParseAmount(cells[8]); err != nil {
		return rec, err
	}
	if rec.MarketValue, err = ParseAmount(cells[9]); err != nil {
		return rec, err
	}
	if rec.CostBasis, err = ParseAmount(cells[10]); err != nil {
		return rec, err
	}
	rec.CouponRate, rec.MaturityDate = cells[11], cells[12]
	return rec, nil
}

// TransactionRow serializes a record in TransactionHeaders order. A zero
// date (a cell that failed decoding upstream) serializes as an empty cell.
func TransactionRow(r TransactionRecord) []string {
	date := ""
	if !r.Date.IsZero() {
		date = r.Date.Format(CanonicalDateLayout)
	}
	return []string{
		r.Institution, r.Client, r.Account,
		date, r.TransactionType, r.Identifier,
		FormatAmount(r.Price), FormatAmount(r.Quantity), FormatAmount(r.Amount),
	}
}

// ParseTransactionRow is the inverse of TransactionRow.
func ParseTransactionRow(cells []string) (TransactionRecord, error) {
	if len(cells) < len(TransactionHeaders) {
		return TransactionRecord{}, fmt.Errorf("transactions row has %d cells, want %d", len(cells), len(TransactionHeaders))
	}
	var rec TransactionRecord
	var err error
	rec.Institution, rec.Client, rec.Account = cells[0], cells[1], cells[2]
	if cells[3] != "" {
		if rec.Date, err = time.Parse(CanonicalDateLayout, cells[3]); err != nil {
			return rec, fmt.Errorf("canonical date %q: %w", cells[3], err)
		}
	}
	rec.TransactionType, rec.Identifier = cells[4], cells[5]
	if rec.Price, err = ParseAmount(cells[6]); err != nil {
		return rec, err
	}
	if rec.Quantity, err = ParseAmount(cells[7]); err != nil {
		return rec, err
	}
	if rec.Amount, err = ParseAmount(cells[8]); err != nil {
		return rec, err
	}
	return rec, nil
}
