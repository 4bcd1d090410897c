package models

// CashFlowCategory is the economic category a raw transaction-type string maps
// into. Derived per (institution, text) pair from the static taxonomy tables
// in src/cashflow.
type CashFlowCategory string

const (
	CategoryDividendIncome CashFlowCategory = "DIVIDEND_INCOME"
	CategoryInterestIncome CashFlowCategory = "INTEREST_INCOME"
	CategoryOtherIncome    CashFlowCategory = "OTHER_INCOME"
	CategoryTaxFee         CashFlowCategory = "TAX_FEE"
	CategoryServiceFee     CashFlowCategory = "SERVICE_FEE"
	CategoryTradingBuy     CashFlowCategory = "TRADING_BUY"
	CategoryTradingSell    CashFlowCategory = "TRADING_SELL"
	CategoryExternalFlow   CashFlowCategory = "EXTERNAL_FLOW"
	CategoryOtherExcluded  CashFlowCategory = "OTHER_EXCLUDED"
	CategoryUnrecognized   CashFlowCategory = "UNRECOGNIZED"
)

// IncludedInNetCashFlow reports whether amounts in this category count toward
// net investment cash flow. Trading activity and external transfers are
// movements of capital, not investment income, and are always excluded.
func (c CashFlowCategory) IncludedInNetCashFlow() bool {
	switch c {
	case CategoryDividendIncome, CategoryInterestIncome, CategoryOtherIncome,
		CategoryTaxFee, CategoryServiceFee:
		return true
	}
	return false
}

// IsIncome reports whether the category adds to net cash flow (as opposed to
// fees/taxes, which subtract).
func (c CashFlowCategory) IsIncome() bool {
	switch c {
	case CategoryDividendIncome, CategoryInterestIncome, CategoryOtherIncome:
		return true
	}
	return false
}
