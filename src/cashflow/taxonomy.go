package cashflow

import (
	"regexp"
	"strings"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/models"
)

// Per-institution text extraction applied before the table lookup. Some
// custodians embed a trailing quantity/price clause or a reference number in
// the transaction-type cell; the extractor strips it so the table can stay a
// table of exact strings.
var (
	trailingQtyPriceRe = regexp.MustCompile(`(?i)\s+[\d.,]+\s*(?:SHS?|SHARES|UNITS)?\s*@\s*[\d.,]+\s*$`)
	trailingRefRe      = regexp.MustCompile(`\s*\(REF[ :#][^)]*\)\s*$`)
	leadingDateRe      = regexp.MustCompile(`^\d{2}/\d{2}(?:/\d{2,4})?\s+`)
)

var extractors = map[string]func(string) string{
	"ms": func(s string) string {
		return trailingQtyPriceRe.ReplaceAllString(s, "")
	},
	"jpm": func(s string) string {
		return leadingDateRe.ReplaceAllString(strings.TrimSpace(s), "")
	},
	"lombard": func(s string) string {
		return trailingRefRe.ReplaceAllString(strings.ToUpper(s), "")
	},
	"pershing": func(s string) string {
		return trailingQtyPriceRe.ReplaceAllString(s, "")
	},
}

// Shorthand to keep the tables readable.
const (
	divIn = models.CategoryDividendIncome
	intIn = models.CategoryInterestIncome
	othIn = models.CategoryOtherIncome
	taxF  = models.CategoryTaxFee
	svcF  = models.CategoryServiceFee
	buy   = models.CategoryTradingBuy
	sell  = models.CategoryTradingSell
	extFl = models.CategoryExternalFlow
	excl  = models.CategoryOtherExcluded
)

// taxonomies are the static per-institution tables. Keys are the extracted,
// normalized transaction-type strings. New transaction types show up in the
// gap report; extending a table here is the only change they need.
var taxonomies = map[string]map[string]models.CashFlowCategory{
	"jpm": {
		"DIVIDEND":                  divIn,
		"QUALIFIED DIVIDEND":        divIn,
		"ORDINARY DIVIDEND":         divIn,
		"DIVIDEND REINVESTMENT":     divIn,
		"INTEREST":                  intIn,
		"BOND INTEREST RECEIVED":    intIn,
		"CREDIT INTEREST":           intIn,
		"INTEREST ADJUSTMENT":       intIn,
		"MISC CREDIT":               othIn,
		"CAPITAL GAIN DISTRIBUTION": othIn,
		"FOREIGN TAX WITHHELD":      taxF,
		"NRA TAX WITHHELD":          taxF,
		"ADVISORY FEE":              svcF,
		"ACCOUNT MAINTENANCE FEE":   svcF,
		"WIRE FEE":                  svcF,
		"PURCHASE":                  buy,
		"SALE":                      sell,
		"REDEMPTION":                sell,
		"WIRE TRANSFER IN":          extFl,
		"WIRE TRANSFER OUT":         extFl,
		"CHECK DEPOSIT":             extFl,
		"ACH DEPOSIT":               extFl,
		"ACH WITHDRAWAL":            extFl,
		"JOURNAL ENTRY":             excl,
		"SWEEP":                     excl,
		"CORPORATE ACTION":          excl,
	},
	"ms": {
		"DIVIDEND":              divIn,
		"DIVIDEND REINVESTMENT": divIn,
		"QUALIFIED DIVIDEND":    divIn,
		"INTEREST INCOME":       intIn,
		"ACCRUED INTEREST":      intIn,
		"BOND INTEREST":         intIn,
		"OTHER CREDIT":          othIn,
		"TAX WITHHOLDING":       taxF,
		"FOREIGN TAX WITHHELD":  taxF,
		"SERVICE FEE":           svcF,
		"MANAGED ACCOUNT FEE":   svcF,
		"ADVISORY FEE":          svcF,
		"BOUGHT":                buy,
		"AUTOMATIC INVESTMENT":  buy,
		"SOLD":                  sell,
		"REDEMPTION":            sell,
		"FUNDS RECEIVED":        extFl,
		"FUNDS SENT":            extFl,
		"TRANSFER":              extFl,
		"WIRE TRANSFER":         extFl,
		"REORG":                 excl,
		"JOURNAL":               excl,
	},
	"cs": {
		"CASH DIVIDEND":           divIn,
		"QUALIFIED DIVIDEND":      divIn,
		"SPECIAL DIVIDEND":        divIn,
		"ORDINARY DIVIDEND":       divIn,
		"REINVEST DIVIDEND":       divIn,
		"BOND INTEREST":           intIn,
		"CREDIT INTEREST":         intIn,
		"BANK INTEREST":           intIn,
		"SECURITY LENDING INCOME": othIn,
		"LONG TERM CAP GAIN":      othIn,
		"SHORT TERM CAP GAIN":     othIn,
		"NRA WITHHOLDING":         taxF,
		"FOREIGN TAX PAID":        taxF,
		"ADR MGMT FEE":            taxF,
		"MGMT FEE":                svcF,
		"WIRE FEE":                svcF,
		"SERVICE FEE":             svcF,
		"BUY":                     buy,
		"REINVEST SHARES":         buy,
		"SELL":                    sell,
		"FULL REDEMPTION":         sell,
		"MONEYLINK DEPOSIT":       extFl,
		"MONEYLINK TRANSFER":      extFl,
		"WIRE RECEIVED":           extFl,
		"WIRE SENT":               extFl,
		"CHECK PAID":              extFl,
		"JOURNAL":                 excl,
		"SECURITY TRANSFER":       excl,
		"STOCK SPLIT":             excl,
	},
	"pershing": {
		"DIVIDEND":                 divIn,
		"CASH DIVIDEND":            divIn,
		"QUALIFIED DIVIDEND":       divIn,
		"MONEY FUND DIVIDEND":      divIn,
		"INTEREST":                 intIn,
		"BOND INTEREST":            intIn,
		"CAPITAL GAINS":            othIn,
		"CAPITAL GAINS LONG TERM":  othIn,
		"CAPITAL GAINS SHORT TERM": othIn,
		"W/H TAX DIVIDENDS":        taxF,
		"W/H TAX INTEREST":         taxF,
		"FOREIGN TAX":              taxF,
		"ACCOUNT FEE":              svcF,
		"POSTAGE AND HANDLING":     svcF,
		"PURCHASED":                buy,
		"SOLD":                     sell,
		"MATURED":                  sell,
		"RECEIVED":                 extFl,
		"DELIVERED":                extFl,
		"FED FUNDS WIRE IN":        extFl,
		"FED FUNDS WIRE OUT":       extFl,
		"CASH JOURNAL":             excl,
		"EXCHANGED":                excl,
	},
	"jb": {
		"DIVIDEND PAYMENT":    divIn,
		"COUPON PAYMENT":      intIn,
		"INTEREST CREDIT":     intIn,
		"FIDUCIARY INTEREST":  intIn,
		"RETROCESSION":        othIn,
		"WITHHOLDING TAX":     taxF,
		"STAMP DUTY":          taxF,
		"VAT":                 taxF,
		"CUSTODY FEE":         svcF,
		"MANAGEMENT FEE":      svcF,
		"BROKERAGE FEE":       svcF,
		"SECURITIES PURCHASE": buy,
		"SUBSCRIPTION":        buy,
		"SECURITIES SALE":     sell,
		"REDEMPTION":          sell,
		"INCOMING PAYMENT":    extFl,
		"OUTGOING PAYMENT":    extFl,
		"CASH DEPOSIT":        extFl,
		"CASH WITHDRAWAL":     extFl,
		"FX SPOT":             excl,
		"CORPORATE ACTION":    excl,
	},
	"lombard": {
		"DIVIDEND":            divIn,
		"COUPON":              intIn,
		"INTEREST":            intIn,
		"BOND COUPON":         intIn,
		"FIDUCIARY INTEREST":  intIn,
		"COMMISSION REBATE":   othIn,
		"TAX DEDUCTION":       taxF,
		"WITHHOLDING TAX":     taxF,
		"SAFEKEEPING FEE":     svcF,
		"ADVISORY FEE":        svcF,
		"MANAGEMENT FEE":      svcF,
		"PURCHASE":            buy,
		"SUBSCRIPTION":        buy,
		"SALE":                sell,
		"REDEMPTION":          sell,
		"CASH TRANSFER IN":    extFl,
		"CASH TRANSFER OUT":   extFl,
		"CORPORATE ACTION":    excl,
		"FX SPOT":             excl,
		"SECURITIES TRANSFER": excl,
	},
	"safra": {
		"DIVIDEND RECEIVED": divIn,
		"CASH DIVIDEND":     divIn,
		"INTEREST RECEIVED": intIn,
		"COUPON PAYMENT":    intIn,
		"OTHER INCOME":      othIn,
		"TAX WITHHELD":      taxF,
		"NRA TAX":           taxF,
		"BANK CHARGES":      svcF,
		"CUSTODY FEE":       svcF,
		"BUY":               buy,
		"SELL":              sell,
		"REDEMPTION":        sell,
		"DEPOSIT":           extFl,
		"WITHDRAWAL":        extFl,
		"WIRE IN":           extFl,
		"WIRE OUT":          extFl,
		"CORPORATE ACTION":  excl,
	},
	"valley": {
		"DIVIDEND":          divIn,
		"INTEREST CREDIT":   intIn,
		"BOND INTEREST":     intIn,
		"MISC INCOME":       othIn,
		"TAX LEVY":          taxF,
		"SERVICE CHARGE":    svcF,
		"MAINTENANCE FEE":   svcF,
		"NSF FEE":           svcF,
		"PURCHASE":          buy,
		"SALE":              sell,
		"ACH CREDIT":        extFl,
		"ACH DEBIT":         extFl,
		"CHECK PAID":        extFl,
		"DEPOSIT":           extFl,
		"WIRE TRANSFER IN":  extFl,
		"WIRE TRANSFER OUT": extFl,
	},
	"idb": {
		"DIVIDEND":         divIn,
		"CASH DIVIDEND":    divIn,
		"BOND COUPON":      intIn,
		"DEPOSIT INTEREST": intIn,
		"INTEREST PAYMENT": intIn,
		"TAX CHARGE":       taxF,
		"WITHHOLDING TAX":  taxF,
		"CUSTODY CHARGE":   svcF,
		"WIRE FEE":         svcF,
		"SECURITY BOUGHT":  buy,
		"SECURITY SOLD":    sell,
		"SECURITY MATURED": sell,
		"FUNDS IN":         extFl,
		"FUNDS OUT":        extFl,
		"TRANSFER IN":      extFl,
		"TRANSFER OUT":     extFl,
		"FX CONVERSION":    excl,
	},
	"hsbc": {
		"DIVIDEND":               divIn,
		"SCRIP DIVIDEND":         divIn,
		"CASH DIVIDEND":          divIn,
		"BOND INTEREST":          intIn,
		"DEPOSIT INTEREST":       intIn,
		"FIXED DEPOSIT INTEREST": intIn,
		"FEE REBATE":             othIn,
		"WITHHOLDING TAX":        taxF,
		"STAMP DUTY":             taxF,
		"SAFE CUSTODY FEE":       svcF,
		"SERVICE CHARGE":         svcF,
		"PURCHASE OF SECURITIES": buy,
		"SUBSCRIPTION":           buy,
		"SALE OF SECURITIES":     sell,
		"REDEMPTION":             sell,
		"INWARD REMITTANCE":      extFl,
		"OUTWARD REMITTANCE":     extFl,
		"SWEEP TRANSFER":         excl,
		"FX CONVERSION":          excl,
	},
	"banchile": {
		"DIVIDENDO":                  divIn,
		"PAGO DE DIVIDENDO":          divIn,
		"DIVIDENDO DEFINITIVO":       divIn,
		"INTERES":                    intIn,
		"INTERES GANADO":             intIn,
		"PAGO DE CUPON":              intIn,
		"OTROS ABONOS":               othIn,
		"IMPUESTO":                   taxF,
		"RETENCION DE IMPUESTO":      taxF,
		"COMISION":                   svcF,
		"COMISION DE ADMINISTRACION": svcF,
		"GASTOS DE CUSTODIA":         svcF,
		"COMPRA":                     buy,
		"INVERSION":                  buy,
		"VENTA":                      sell,
		"RESCATE":                    sell,
		"VENCIMIENTO":                sell,
		"ABONO":                      extFl,
		"CARGO":                      extFl,
		"APORTE":                     extFl,
		"GIRO":                       extFl,
		"TRASPASO":                   excl,
	},
	"citi": {
		"DIVIDEND":               divIn,
		"QUALIFIED DIVIDEND":     divIn,
		"INTEREST":               intIn,
		"BOND INTEREST":          intIn,
		"OTHER CREDITS":          othIn,
		"TAX WITHHELD AT SOURCE": taxF,
		"FOREIGN TAX":            taxF,
		"ACCOUNT FEE":            svcF,
		"CUSTODY FEE":            svcF,
		"BOUGHT":                 buy,
		"PURCHASE":               buy,
		"SOLD":                   sell,
		"REDEMPTION":             sell,
		"FUNDS TRANSFER IN":      extFl,
		"FUNDS TRANSFER OUT":     extFl,
		"ACH CREDIT":             extFl,
		"ACH DEBIT":              extFl,
		"JOURNAL ENTRY":          excl,
	},
	"santander": {
		"DIVIDENDO":                divIn,
		"DIVIDENDO EXTRAORDINARIO": divIn,
		"CUPON":                    intIn,
		"INTERESES":                intIn,
		"ABONO DE INTERESES":       intIn,
		"OTROS INGRESOS":           othIn,
		"RETENCION":                taxF,
		"IMPUESTO":                 taxF,
		"COMISION":                 svcF,
		"COMISION DE CUSTODIA":     svcF,
		"SUSCRIPCION":              buy,
		"COMPRA":                   buy,
		"VENTA":                    sell,
		"REEMBOLSO":                sell,
		"AMORTIZACION":             sell,
		"TRANSFERENCIA RECIBIDA":   extFl,
		"TRANSFERENCIA EMITIDA":    extFl,
		"INGRESO DE EFECTIVO":      extFl,
		"SALIDA DE EFECTIVO":       extFl,
		"CANJE":                    excl,
	},
	"pictet": {
		"DIVIDEND":           divIn,
		"COUPON":             intIn,
		"INTEREST":           intIn,
		"FIDUCIARY INTEREST": intIn,
		"RETROCESSION":       othIn,
		"WITHHOLDING TAX":    taxF,
		"STAMP DUTY":         taxF,
		"CUSTODY FEES":       svcF,
		"MANAGEMENT FEE":     svcF,
		"BROKERAGE":          svcF,
		"SUBSCRIPTION":       buy,
		"PURCHASE":           buy,
		"SALE":               sell,
		"REDEMPTION":         sell,
		"TRANSFER IN":        extFl,
		"TRANSFER OUT":       extFl,
		"CASH DEPOSIT":       extFl,
		"CASH WITHDRAWAL":    extFl,
		"FIDUCIARY DEPOSIT":  excl,
		"CORPORATE ACTION":   excl,
	},
}

func init() {
	// csc shares the Schwab vocabulary.
	taxonomies["csc"] = taxonomies["cs"]
}
