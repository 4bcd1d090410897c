package transformers

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/logger"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/models"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/numeric"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/refdata"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/resolver"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/spreadsheet"
)

// engine is the shared transform machinery every variant embeds. All
// custodian-specific behavior lives in the embedded spec struct; the engine
// owns the loop:
// column resolution, locale handling, per-row decode with zero-substitution
// on bad cells, identifier resolution and reference-data enrichment.
type engine struct {
	spec
	client    *refdata.Client
	threshold float64
	matcher   *resolver.NameMatcher
}

func newEngine(s spec, client *refdata.Client, threshold float64) *engine {
	return &engine{spec: s, client: client, threshold: threshold}
}

func (e *engine) Institution() string { return e.institution }

// SetKnownSecurities builds the description matcher for variants that resolve
// transaction identifiers by name.
func (e *engine) SetKnownSecurities(securities []models.SecurityRecord) {
	e.matcher = resolver.NewNameMatcher(securities, e.threshold)
}

// allFields lists every canonical field so column maps are total: a field the
// variant does not declare resolves to -1, which Cell reads as empty.
var allFields = []string{
	fName, fTicker, fCusip, fIsin, fAltID, fQuantity, fPrice, fMarketValue,
	fCostBasis, fAssetClass, fSubClass, fDescription, fCoupon, fMaturity,
	fClient, fAccount, fDate, fType, fAmount,
}

// columns resolves a field map against the table once per file.
func columns(t *spreadsheet.Table, fields fieldMap) map[string]int {
	out := make(map[string]int, len(allFields))
	for _, field := range allFields {
		out[field] = -1
	}
	for field, aliases := range fields {
		out[field] = t.ColumnIndex(aliases...)
	}
	return out
}

func required(fields fieldMap, names []string) map[string][]string {
	out := make(map[string][]string, len(names))
	for _, n := range names {
		out[n] = fields[n]
	}
	return out
}

// TransformSecurities converts a raw positions table into canonical records.
// Schema failures abort the file; value failures substitute zero and keep the
// row, recorded as RowErrors.
func (e *engine) TransformSecurities(t *spreadsheet.Table) ([]models.SecurityRecord, []models.RowError, error) {
	if err := t.RequireColumns(required(e.secFields, e.secRequired)); err != nil {
		return nil, nil, fmt.Errorf("%s securities: %w", e.institution, err)
	}
	cols := columns(t, e.secFields)

	conv := e.convention
	if conv == numeric.ConventionUnknown {
		conv = numeric.DetectConvention(t.Column(cols[fMarketValue]))
	}

	var records []models.SecurityRecord
	var rowErrs []models.RowError

	// Pre-pass: collect the file's unique identifiers so the reference
	// client can batch its outbound requests.
	if e.enrichWithRefData {
		ids := make([]string, 0, len(t.Rows))
		for i := range t.Rows {
			id := resolver.Resolve(t.Cell(i, cols[fCusip]), t.Cell(i, cols[fIsin]),
				t.Cell(i, cols[fAltID]), t.Cell(i, cols[fTicker]))
			if id != models.UnresolvedIdentifier {
				ids = append(ids, id)
			}
		}
		e.client.LookupBatch(ids)
	}

	for i := range t.Rows {
		name := t.Cell(i, cols[fName])
		if name == "" && t.Cell(i, cols[fMarketValue]) == "" {
			continue // blank filler row
		}

		rec := models.SecurityRecord{
			Institution: e.institution,
			Client:      t.Cell(i, cols[fClient]),
			Account:     t.Cell(i, cols[fAccount]),
			Name:        name,
			Ticker:      strings.ToUpper(t.Cell(i, cols[fTicker])),
		}

		desc := t.Cell(i, cols[fDescription])
		if desc == "" {
			desc = name
		}

		rec.AssetType = e.classifyAsset(t.Cell(i, cols[fAssetClass]), t.Cell(i, cols[fSubClass]), desc)
		rec.Identifier = resolver.Resolve(t.Cell(i, cols[fCusip]), t.Cell(i, cols[fIsin]),
			t.Cell(i, cols[fAltID]), rec.Ticker)

		if e.enrichWithRefData {
			lookup := e.client.Enrich(rec.Identifier, name)
			if rec.AssetType == models.AssetUnknown {
				rec.AssetType = lookup.AssetType
			}
			if rec.Ticker == "" {
				rec.Ticker = lookup.Ticker
			}
			if lookup.CouponRate != "" {
				rec.CouponRate = lookup.CouponRate
			}
			if lookup.Maturity != "" {
				rec.MaturityDate = lookup.Maturity
			}
		}

		bond := e.detectBond(rec.AssetType, desc)

		rec.Quantity = e.parseCell(t, i, cols[fQuantity], fQuantity, conv, &rowErrs)
		rec.MarketValue = e.parseCell(t, i, cols[fMarketValue], fMarketValue, conv, &rowErrs)
		rec.CostBasis = e.parseCell(t, i, cols[fCostBasis], fCostBasis, conv, &rowErrs)
		rec.Price = e.parsePrice(t, i, cols[fPrice], conv, bond, &rowErrs)

		if bond {
			e.fillBondMetadata(&rec, t, i, cols, desc)
		}
		// Non-bond records never carry bond fields unless the custodian's
		// post hook explicitly re-adds a maturity (structured notes).
		if !bond {
			rec.CouponRate, rec.MaturityDate = "", ""
		}

		if e.postSecurity != nil {
			if rerr := e.postSecurity(&rec); rerr != nil {
				rerr.Row = i
				rowErrs = append(rowErrs, *rerr)
			}
		}

		if rec.Identifier == models.UnresolvedIdentifier {
			rowErrs = append(rowErrs, models.RowError{Row: i, Field: fCusip, Reason: "identifier unresolved"})
		}
		records = append(records, rec)
	}
	return records, rowErrs, nil
}

// TransformTransactions converts a raw transactions table.
func (e *engine) TransformTransactions(t *spreadsheet.Table) ([]models.TransactionRecord, []models.RowError, error) {
	if err := t.RequireColumns(required(e.txFields, e.txRequired)); err != nil {
		return nil, nil, fmt.Errorf("%s transactions: %w", e.institution, err)
	}
	cols := columns(t, e.txFields)

	conv := e.convention
	if conv == numeric.ConventionUnknown {
		conv = numeric.DetectConvention(t.Column(cols[fAmount]))
	}

	var records []models.TransactionRecord
	var rowErrs []models.RowError

	for i := range t.Rows {
		typeText := t.Cell(i, cols[fType])
		dateText := t.Cell(i, cols[fDate])
		if typeText == "" && dateText == "" {
			continue
		}

		date, ok := e.parseDate(dateText)
		if !ok {
			// Row kept with a zero date so the amount still reaches the
			// canonical table and the net cash-flow total.
			rowErrs = append(rowErrs, models.RowError{Row: i, Field: fDate,
				Reason: fmt.Sprintf("unparseable date %q, substituted empty", dateText)})
			logger.L.Warn("transaction date decode failed",
				"institution", e.institution, "row", i, "value", dateText)
			date = time.Time{}
		}

		rec := models.TransactionRecord{
			Institution:     e.institution,
			Client:          t.Cell(i, cols[fClient]),
			Account:         t.Cell(i, cols[fAccount]),
			Date:            date,
			TransactionType: typeText,
		}

		rec.Amount = e.parseCell(t, i, cols[fAmount], fAmount, conv, &rowErrs)
		rec.Price = e.parseCell(t, i, cols[fPrice], fPrice, conv, &rowErrs)
		rec.Quantity = e.parseCell(t, i, cols[fQuantity], fQuantity, conv, &rowErrs)

		if e.matchByDescription {
			desc := t.Cell(i, cols[fDescription])
			if desc == "" {
				desc = typeText
			}
			if e.matcher != nil {
				rec.Identifier = e.matcher.Match(desc)
			} else {
				rec.Identifier = models.UnresolvedIdentifier
			}
		} else {
			rec.Identifier = resolver.Resolve(t.Cell(i, cols[fCusip]), t.Cell(i, cols[fIsin]),
				t.Cell(i, cols[fAltID]), t.Cell(i, cols[fTicker]))
		}
		if rec.Identifier == models.UnresolvedIdentifier {
			rowErrs = append(rowErrs, models.RowError{Row: i, Field: fCusip, Reason: "identifier unresolved"})
		}

		records = append(records, rec)
	}
	return records, rowErrs, nil
}

// classifyAsset walks the variant's decision table. Ambiguous or unknown
// inputs map to Unknown, never to a guessed type.
func (e *engine) classifyAsset(category, subcategory, text string) models.AssetType {
	cat := strings.ToUpper(strings.TrimSpace(category))
	sub := strings.ToUpper(strings.TrimSpace(subcategory))
	upperText := strings.ToUpper(text)
	for _, rule := range e.assetRules {
		if rule.Category != "" && rule.Category != cat {
			continue
		}
		if rule.Subcategory != "" && rule.Subcategory != sub {
			continue
		}
		if rule.Keyword != "" && !strings.Contains(upperText, rule.Keyword) {
			continue
		}
		return rule.Asset
	}
	return models.AssetUnknown
}

func (e *engine) detectBond(asset models.AssetType, text string) bool {
	if e.isBond == nil {
		return asset == models.AssetFixedIncome
	}
	return e.isBond(asset, text)
}

// parseCell decodes one numeric cell, substituting zero and recording a
// RowError on failure. The row is always retained.
func (e *engine) parseCell(t *spreadsheet.Table, row, col int, field string, conv numeric.Convention, rowErrs *[]models.RowError) decimal.Decimal {
	if col < 0 {
		return decimal.Zero
	}
	raw := t.Cell(row, col)
	d, err := numeric.Parse(raw, conv)
	if err != nil {
		*rowErrs = append(*rowErrs, models.RowError{Row: row, Field: field,
			Reason: fmt.Sprintf("value %q substituted with zero", raw)})
		return decimal.Zero
	}
	return d
}

// parsePrice applies the bond percent-of-par decoder for bonds and the plain
// locale conversion otherwise. On a failed decode, custodians that quote raw
// digits (bondDecodeAlways) treat the cell as a decode failure; the rest fall
// back to the plain conversion before giving up.
func (e *engine) parsePrice(t *spreadsheet.Table, row, col int, conv numeric.Convention, bond bool, rowErrs *[]models.RowError) decimal.Decimal {
	if col < 0 {
		return decimal.Zero
	}
	raw := t.Cell(row, col)
	if bond {
		if d, err := numeric.DecodeBondPrice(raw); err == nil {
			return d
		}
		if e.bondDecodeAlways {
			*rowErrs = append(*rowErrs, models.RowError{Row: row, Field: fPrice,
				Reason: fmt.Sprintf("bond price %q not decodable, substituted with zero", raw)})
			return decimal.Zero
		}
		logger.L.Debug("Bond price decode failed, falling back to plain conversion",
			"institution", e.institution, "raw", raw)
	}
	return e.parseCell(t, row, col, fPrice, conv, rowErrs)
}

// fillBondMetadata populates coupon/maturity from dedicated columns when the
// custodian has them, otherwise from anchored patterns in the description.
func (e *engine) fillBondMetadata(rec *models.SecurityRecord, t *spreadsheet.Table, row int, cols map[string]int, desc string) {
	if rec.CouponRate == "" {
		if v := t.Cell(row, cols[fCoupon]); v != "" {
			rec.CouponRate = strings.TrimSuffix(v, "%")
		} else if e.couponRe != nil {
			if m := e.couponRe.FindStringSubmatch(desc); m != nil {
				rec.CouponRate = m[1]
			}
		}
	}
	if rec.MaturityDate == "" {
		if v := t.Cell(row, cols[fMaturity]); v != "" {
			rec.MaturityDate = e.normalizeMaturity(v)
		} else if e.maturityRe != nil {
			if m := e.maturityRe.FindStringSubmatch(strings.ToUpper(desc)); m != nil {
				rec.MaturityDate = e.normalizeMaturity(m[1])
			}
		}
	}
}

// normalizeMaturity renders a source maturity token in the canonical
// DD/MM/YYYY form; unrecognized tokens pass through untouched rather than
// being dropped.
func (e *engine) normalizeMaturity(token string) string {
	layouts := e.maturityLayouts
	if len(layouts) == 0 {
		layouts = []string{"02Jan06", "01/02/2006", "02/01/2006", "2006-01-02"}
	}
	cleaned := strings.TrimSpace(token)
	for _, layout := range layouts {
		if d, err := time.Parse(layout, cleaned); err == nil {
			return d.Format(models.CanonicalDateLayout)
		}
		// DDMMMYY tokens arrive uppercased; time.Parse wants "02Jan06".
		if d, err := time.Parse(layout, titleMonth(cleaned)); err == nil {
			return d.Format(models.CanonicalDateLayout)
		}
	}
	return cleaned
}

func titleMonth(token string) string {
	lower := strings.ToLower(token)
	out := []byte(lower)
	for i := 0; i < len(out); i++ {
		if out[i] >= 'a' && out[i] <= 'z' && (i == 0 || out[i-1] >= '0' && out[i-1] <= '9') {
			out[i] = out[i] - 'a' + 'A'
		}
	}
	return string(out)
}

func (e *engine) parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	layouts := e.dateLayouts
	if len(layouts) == 0 {
		layouts = []string{"01/02/2006", "2006-01-02"}
	}
	for _, layout := range layouts {
		if d, err := time.Parse(layout, raw); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}
