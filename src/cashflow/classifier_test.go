package cashflow

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		institution string
		text        string
		want        models.CashFlowCategory
	}{
		{"cs", "CASH DIVIDEND", models.CategoryDividendIncome},
		{"cs", "cash dividend", models.CategoryDividendIncome}, // case-insensitive
		{"cs", "  Bond   Interest  ", models.CategoryInterestIncome},
		{"csc", "CASH DIVIDEND", models.CategoryDividendIncome}, // shares the cs table
		{"jpm", "WIRE TRANSFER OUT", models.CategoryExternalFlow},
		{"jpm", "CAPITAL GAIN DISTRIBUTION", models.CategoryOtherIncome},
		{"ms", "AUTOMATIC INVESTMENT", models.CategoryTradingBuy},
		{"pershing", "W/H TAX INTEREST", models.CategoryTaxFee},
		{"hsbc", "FIXED DEPOSIT INTEREST", models.CategoryInterestIncome},
		{"banchile", "PAGO DE CUPON", models.CategoryInterestIncome},
		{"banchile", "GASTOS DE CUSTODIA", models.CategoryServiceFee},
		{"santander", "TRANSFERENCIA EMITIDA", models.CategoryExternalFlow},
		{"santander", "AMORTIZACION", models.CategoryTradingSell},
		{"pictet", "FIDUCIARY DEPOSIT", models.CategoryOtherExcluded},
	}
	for _, tt := range tests {
		c := NewClassifier()
		assert.Equal(t, tt.want, c.Classify(tt.institution, tt.text),
			"%s / %q", tt.institution, tt.text)
	}
}

// Extractors strip per-custodian noise before the table lookup.
func TestClassifyExtractors(t *testing.T) {
	c := NewClassifier()
	assert.Equal(t, models.CategoryTradingBuy, c.Classify("ms", "BOUGHT 100 SHS @ 150.25"))
	assert.Equal(t, models.CategoryTradingSell, c.Classify("pershing", "SOLD 50 @ 21.00"))
	assert.Equal(t, models.CategoryDividendIncome, c.Classify("jpm", "28/02 DIVIDEND"))
	assert.Equal(t, models.CategoryInterestIncome, c.Classify("lombard", "Coupon (Ref: 4471-A)"))
}

// Classification is total: anything unknown still gets a category.
func TestClassifyTotality(t *testing.T) {
	c := NewClassifier()
	inputs := []struct{ institution, text string }{
		{"cs", "SOMETHING NEVER SEEN"},
		{"nosuchbank", "DIVIDEND"},
		{"jpm", ""},
	}
	for _, in := range inputs {
		got := c.Classify(in.institution, in.text)
		assert.Equal(t, models.CategoryUnrecognized, got)
	}
}

func TestGapsAccumulate(t *testing.T) {
	c := NewClassifier()
	c.Classify("cs", "MYSTERY CREDIT")
	c.Classify("cs", "mystery   credit") // same after normalization
	c.Classify("cs", "ANOTHER ONE")
	c.Classify("cs", "CASH DIVIDEND") // recognized, not a gap

	gaps := c.Gaps()
	require.Len(t, gaps, 2)
	assert.Equal(t, "MYSTERY CREDIT", gaps[0].Text)
	assert.Equal(t, 2, gaps[0].Count)
	assert.Equal(t, "ANOTHER ONE", gaps[1].Text)
	assert.Equal(t, 1, gaps[1].Count)
}

func tx(institution, txType, amount string) models.TransactionRecord {
	return models.TransactionRecord{
		Institution:     institution,
		TransactionType: txType,
		Amount:          decimal.RequireFromString(amount),
	}
}

func TestNetInvestmentCashFlow(t *testing.T) {
	c := NewClassifier()
	txs := []models.TransactionRecord{
		tx("cs", "CASH DIVIDEND", "125.40"),   // +125.40
		tx("cs", "BOND INTEREST", "300"),      // +300
		tx("cs", "NRA WITHHOLDING", "-37.62"), // -37.62 (abs)
		tx("cs", "MGMT FEE", "50"),            // -50 even when reported positive
		tx("cs", "BUY", "-10000"),             // excluded
		tx("cs", "SELL", "9500"),              // excluded
		tx("cs", "WIRE RECEIVED", "100000"),   // excluded
		tx("cs", "TOTALLY UNKNOWN", "77"),     // excluded, recorded as gap
	}
	net := c.NetInvestmentCashFlow(txs)
	assert.Equal(t, "337.78", net.String())
	require.Len(t, c.Gaps(), 1)
}

// Trading and external flows never move net cash flow no matter their size.
func TestNetCashFlowExcludesCapitalMovements(t *testing.T) {
	c := NewClassifier()
	txs := []models.TransactionRecord{
		tx("jpm", "PURCHASE", "-500000"),
		tx("jpm", "SALE", "750000"),
		tx("jpm", "WIRE TRANSFER IN", "1000000"),
		tx("jpm", "WIRE TRANSFER OUT", "-250000"),
		tx("jpm", "SWEEP", "12345"),
	}
	assert.True(t, c.NetInvestmentCashFlow(txs).IsZero())
}
