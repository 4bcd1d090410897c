package transformers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/models"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/refdata"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/spreadsheet"
)

// offlineClient is keyless: every lookup degrades to the static fallback, so
// no test touches the network.
func offlineClient() *refdata.Client {
	return refdata.NewClient(refdata.Config{})
}

func table(headers []string, rows ...[]string) *spreadsheet.Table {
	return &spreadsheet.Table{Headers: headers, Rows: rows}
}

func TestCSTransformSecurities(t *testing.T) {
	tr := NewCSTransformer(offlineClient(), 0.6)

	tbl := table(
		[]string{"Symbol", "Description", "CUSIP", "Quantity", "Price", "Market Value", "Cost Basis", "Security Type", "Rate", "Maturity", "Account"},
		[]string{"AAPL", "APPLE INC", "037833100", "100", "150.25", "15,025.00", "12,000.00", "Equities", "", "", "A1"},
		[]string{"", "US TREASURY N/B", "912828XY1", "250,000", "99.875", "249,687.50", "248,000.00", "Fixed Income", "4.25%", "11/15/2025", "A1"},
	)

	recs, rowErrs, err := tr.TransformSecurities(tbl)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Empty(t, rowErrs)

	equity := recs[0]
	assert.Equal(t, "cs", equity.Institution)
	assert.Equal(t, models.AssetEquities, equity.AssetType)
	assert.Equal(t, "037833100", equity.Identifier)
	assert.Equal(t, "150.25", equity.Price.String())
	assert.Equal(t, "15025", equity.MarketValue.String())
	// Equities never carry bond fields.
	assert.Empty(t, equity.CouponRate)
	assert.Empty(t, equity.MaturityDate)

	bond := recs[1]
	assert.Equal(t, models.AssetFixedIncome, bond.AssetType)
	// Percent-of-par decode: below par, digits become the fraction.
	assert.Equal(t, "0.99875", bond.Price.String())
	assert.Equal(t, "250000", bond.Quantity.String())
	assert.Equal(t, "4.25", bond.CouponRate)
	assert.Equal(t, "15/11/2025", bond.MaturityDate) // US column date rendered DD/MM/YYYY
}

func TestTransformSecuritiesBadCellsSubstituteZero(t *testing.T) {
	tr := NewCSTransformer(offlineClient(), 0.6)

	tbl := table(
		[]string{"Description", "CUSIP", "Quantity", "Market Value", "Security Type"},
		[]string{"BROKEN ROW", "912828XY1", "garbage", "1,000.00", "Equities"},
		[]string{"NO IDENTIFIER", "", "5", "500.00", "Equities"},
	)

	recs, rowErrs, err := tr.TransformSecurities(tbl)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.True(t, recs[0].Quantity.IsZero())
	assert.Equal(t, "1000", recs[0].MarketValue.String())
	assert.Equal(t, models.UnresolvedIdentifier, recs[1].Identifier)

	// One substituted cell plus one unresolved identifier.
	require.Len(t, rowErrs, 2)
	assert.Equal(t, 0, rowErrs[0].Row)
	assert.Contains(t, rowErrs[0].Reason, "substituted with zero")
	assert.Equal(t, 1, rowErrs[1].Row)
	assert.Contains(t, rowErrs[1].Reason, "unresolved")
}

func TestTransformSecuritiesSchemaFailure(t *testing.T) {
	tr := NewCSTransformer(offlineClient(), 0.6)
	tbl := table([]string{"Description", "Quantity"}, []string{"APPLE INC", "100"})

	_, _, err := tr.TransformSecurities(tbl)
	require.Error(t, err)
	assert.ErrorIs(t, err, spreadsheet.ErrMissingColumn)
}

func TestTransformSecuritiesSkipsBlankRows(t *testing.T) {
	tr := NewCSTransformer(offlineClient(), 0.6)
	tbl := table(
		[]string{"Description", "CUSIP", "Quantity", "Market Value", "Security Type"},
		[]string{"", "", "", "", ""},
		[]string{"APPLE INC", "037833100", "100", "15,025.00", "Equities"},
	)
	recs, _, err := tr.TransformSecurities(tbl)
	require.NoError(t, err)
	require.Len(t, recs, 1)
}

func TestCSTransformTransactions(t *testing.T) {
	tr := NewCSTransformer(offlineClient(), 0.6)

	tbl := table(
		[]string{"Date", "Action", "Amount", "CUSIP", "Account"},
		[]string{"02/28/2025", "CASH DIVIDEND", "125.40", "037833100", "A1"},
		[]string{"not-a-date", "BUY", "-10,000.00", "037833100", "A1"},
		[]string{"02/14/2025", "WIRE SENT", "(5,000.00)", "", "A1"},
	)

	recs, rowErrs, err := tr.TransformTransactions(tbl)
	require.NoError(t, err)
	require.Len(t, recs, 3, "unparseable date keeps the row with a zero date")

	assert.Equal(t, "28/02/2025", recs[0].Date.Format("02/01/2006"))
	assert.Equal(t, "CASH DIVIDEND", recs[0].TransactionType)
	assert.Equal(t, "125.4", recs[0].Amount.String())
	assert.Equal(t, "037833100", recs[0].Identifier)

	// Bad-date row is retained with its amount intact so cash-flow totals
	// still see it; the date cell is flagged and zeroed.
	assert.True(t, recs[1].Date.IsZero())
	assert.Equal(t, "BUY", recs[1].TransactionType)
	assert.Equal(t, "-10000", recs[1].Amount.String())

	assert.Equal(t, "-5000", recs[2].Amount.String())
	assert.Equal(t, models.UnresolvedIdentifier, recs[2].Identifier)

	// Substituted date and the unresolved wire.
	require.Len(t, rowErrs, 2)
	assert.Equal(t, fDate, rowErrs[0].Field)
	assert.Contains(t, rowErrs[0].Reason, "substituted empty")
	assert.Equal(t, "", models.TransactionRow(recs[1])[3])
}

func TestPershingBondDecodeAlways(t *testing.T) {
	tr := NewPershingTransformer(offlineClient(), 0.6)

	tbl := table(
		[]string{"Security Name", "CUSIP", "Quantity", "Price", "Market Value", "Asset Classification"},
		[]string{"CORP BOND XYZ 5.00% 15NOV25", "12345ABC9", "100,000", "101500", "101,500.00", "Fixed Income"},
		[]string{"T-BILL ZERO 15JAN26", "912796XX1", "50,000", "998750", "49,937.50", "Government Bond"},
	)

	recs, rowErrs, err := tr.TransformSecurities(tbl)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Empty(t, rowErrs)

	assert.Equal(t, "1.015", recs[0].Price.String())
	assert.Equal(t, "5.00", recs[0].CouponRate)
	assert.Equal(t, "15/11/2025", recs[0].MaturityDate) // DDMMMYY token from the name

	assert.Equal(t, "0.99875", recs[1].Price.String())
	assert.Equal(t, "15/01/2026", recs[1].MaturityDate)
}

func TestBondDecodeFailurePaths(t *testing.T) {
	// Raw-digit custodians treat an undecodable bond price as a decode
	// failure; the rest fall back to plain locale conversion first.
	pershing := NewPershingTransformer(offlineClient(), 0.6)
	tbl := table(
		[]string{"Security Name", "CUSIP", "Quantity", "Price", "Market Value", "Asset Classification"},
		[]string{"CORP BOND XYZ 5.00% 15NOV25", "12345ABC9", "100,000", "102 3/8", "102,375.00", "Fixed Income"},
	)
	recs, rowErrs, err := pershing.TransformSecurities(tbl)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].Price.IsZero())
	require.Len(t, rowErrs, 1)
	assert.Equal(t, fPrice, rowErrs[0].Field)
	assert.Contains(t, rowErrs[0].Reason, "not decodable")

	cs := NewCSTransformer(offlineClient(), 0.6)
	tbl = table(
		[]string{"Description", "CUSIP", "Quantity", "Price", "Market Value", "Security Type"},
		[]string{"CORP BOND XYZ 5.00%", "12345ABC9", "100000", "102 3/8", "102,375.00", "Fixed Income"},
	)
	recs, rowErrs, err = cs.TransformSecurities(tbl)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].Price.IsZero())
	require.Len(t, rowErrs, 1)
	assert.Contains(t, rowErrs[0].Reason, "substituted with zero",
		"fallback path reports the plain-conversion diagnostic")
}

func TestMSAlternateHeaderVocabulary(t *testing.T) {
	// Same statement, exported with the alternate column captions.
	tr := NewMSTransformer(offlineClient(), 0.6)

	tbl := table(
		[]string{"Security Description", "CUSIP", "Shares/Par Value", "Price ($)", "Market Value ($)", "Security Type"},
		[]string{"MICROSOFT CORP", "594918104", "1,200", "54.30", "65,160.00", "STOCKS"},
	)

	recs, rowErrs, err := tr.TransformSecurities(tbl)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Empty(t, rowErrs)
	assert.Equal(t, models.AssetEquities, recs[0].AssetType)
	assert.Equal(t, "1200", recs[0].Quantity.String())
	assert.Equal(t, "65160", recs[0].MarketValue.String())
	assert.Equal(t, "594918104", recs[0].Identifier)
}

func TestLombardCommaConvention(t *testing.T) {
	tr := NewLombardTransformer(offlineClient(), 0.6)

	tbl := table(
		[]string{"Description", "ISIN", "Quantity", "Market Price", "Market Value", "Asset Class", "Portfolio Number"},
		[]string{"NESTLE SA", "CH0038863350", "1.000", "95,50", "95.500,00", "Equities", "P-100"},
	)

	recs, rowErrs, err := tr.TransformSecurities(tbl)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Empty(t, rowErrs)

	assert.Equal(t, "CH0038863350", recs[0].Identifier)
	assert.Equal(t, "1000", recs[0].Quantity.String())
	assert.Equal(t, "95.5", recs[0].Price.String())
	assert.Equal(t, "95500", recs[0].MarketValue.String())
}

func TestLombardTransactionsMatchByDescription(t *testing.T) {
	tr := NewLombardTransformer(offlineClient(), 0.6)
	tr.SetKnownSecurities([]models.SecurityRecord{
		{Name: "NESTLE SA", Identifier: "CH0038863350"},
		{Name: "ROCHE HOLDING AG", Identifier: "CH0012032048"},
	})

	tbl := table(
		[]string{"Operation Date", "Operation Type", "Net Amount", "Position Description", "Portfolio Number"},
		[]string{"28.02.2025", "Dividend", "1.250,00", "NESTLE SA ORD SHS", "P-100"},
		[]string{"14.02.2025", "Fee", "-120,00", "", "P-100"},
	)

	recs, rowErrs, err := tr.TransformTransactions(tbl)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "CH0038863350", recs[0].Identifier)
	assert.Equal(t, "1250", recs[0].Amount.String())
	assert.Equal(t, "28/02/2025", recs[0].Date.Format("02/01/2006"))

	// Fee rows have no position; identifier stays unresolved and is reported.
	assert.Equal(t, models.UnresolvedIdentifier, recs[1].Identifier)
	require.Len(t, rowErrs, 1)
}

// Without SetKnownSecurities the matcher is absent and every transaction stays
// unresolved rather than panicking.
func TestLombardTransactionsWithoutKnownSecurities(t *testing.T) {
	tr := NewLombardTransformer(offlineClient(), 0.6)
	tbl := table(
		[]string{"Operation Date", "Operation Type", "Net Amount"},
		[]string{"28.02.2025", "Dividend", "1.250,00"},
	)
	recs, _, err := tr.TransformTransactions(tbl)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, models.UnresolvedIdentifier, recs[0].Identifier)
}

func TestBanchileConvertsCLPCash(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"codigo": "dolar",
			"serie":  []map[string]any{{"fecha": "2025-02-28T03:00:00.000Z", "valor": 1000.0}},
		})
	}))
	defer server.Close()

	client := refdata.NewClient(refdata.Config{
		FxIndicatorURL: server.URL,
		RateInterval:   time.Millisecond,
		CacheTTL:       time.Hour,
		FxCacheTTL:     time.Hour,
	})
	tr := NewBanchileTransformer(client, 0.6)

	tbl := table(
		[]string{"Nombre Instrumento", "ISIN", "Cantidad", "Precio", "Monto Valorizado", "Tipo Instrumento"},
		[]string{"SALDO CLP", "", "1", "1", "1.000.000,00", "Caja"},
		[]string{"FALABELLA", "CL0000000035", "500", "2.500,00", "1.250.000,00", "Acciones"},
	)

	recs, _, err := tr.TransformSecurities(tbl)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	// The CLP cash balance is restated in USD at the indicator rate.
	assert.Equal(t, models.AssetCash, recs[0].AssetType)
	assert.Equal(t, "1000", recs[0].MarketValue.String())
	// Equity rows keep their original amounts.
	assert.Equal(t, "1250000", recs[1].MarketValue.String())
}

func TestGetTransformerCoversAllInstitutions(t *testing.T) {
	client := offlineClient()
	for _, code := range []string{
		"jpm", "ms", "cs", "csc", "pershing", "jb", "lombard", "safra",
		"valley", "idb", "hsbc", "banchile", "citi", "santander", "pictet",
	} {
		tr, err := GetTransformer(code, client, 0.6)
		require.NoError(t, err, code)
		assert.Equal(t, code, tr.Institution())
	}

	_, err := GetTransformer("nosuchbank", client, 0.6)
	assert.Error(t, err)
}
