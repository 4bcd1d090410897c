// Package cashflow maps raw transaction-type text into economic categories
// through static per-institution taxonomy tables, and computes net investment
// cash flow over a set of canonical transactions.
package cashflow

import (
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/logger"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/models"
)

// Gap is one (institution, transaction-type) pair the taxonomy does not cover
// yet, with how often it was seen in the run.
type Gap struct {
	Institution string
	Text        string
	Count       int
}

// Classifier classifies transaction text and accumulates taxonomy gaps for
// the run. Classification itself is a pure table lookup; only the gap
// accumulator is mutable, and it is safe for concurrent transformers.
type Classifier struct {
	mu   sync.Mutex
	gaps map[string]*Gap
}

func NewClassifier() *Classifier {
	return &Classifier{gaps: make(map[string]*Gap)}
}

// Classify is total: every (institution, text) pair yields exactly one
// category, defaulting to Unrecognized. Unrecognized pairs are accumulated
// for later taxonomy extension, never silently dropped.
func (c *Classifier) Classify(institution, rawText string) models.CashFlowCategory {
	category, recognized := lookup(institution, rawText)
	if !recognized {
		c.recordGap(institution, rawText)
	}
	return category
}

// lookup applies the institution's text extraction and consults its table.
func lookup(institution, rawText string) (models.CashFlowCategory, bool) {
	text := rawText
	if extract, ok := extractors[institution]; ok {
		text = extract(text)
	}
	text = normalizeType(text)
	if text == "" {
		return models.CategoryUnrecognized, false
	}
	table, ok := taxonomies[institution]
	if !ok {
		return models.CategoryUnrecognized, false
	}
	if category, ok := table[text]; ok {
		return category, true
	}
	return models.CategoryUnrecognized, false
}

func normalizeType(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(strings.TrimSpace(s))), " ")
}

func (c *Classifier) recordGap(institution, text string) {
	key := institution + "\x00" + normalizeType(text)
	c.mu.Lock()
	defer c.mu.Unlock()
	if g, ok := c.gaps[key]; ok {
		g.Count++
		return
	}
	c.gaps[key] = &Gap{Institution: institution, Text: normalizeType(text), Count: 1}
}

// Gaps returns the run's unrecognized pairs, most frequent first. These are
// reported distinctly from recognized-but-excluded categories so the taxonomy
// can be extended without new transaction types silently counting as zero.
func (c *Classifier) Gaps() []Gap {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Gap, 0, len(c.gaps))
	for _, g := range c.gaps {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].Institution != out[j].Institution {
			return out[i].Institution < out[j].Institution
		}
		return out[i].Text < out[j].Text
	})
	return out
}

// NetInvestmentCashFlow computes the run's net investment cash flow:
// income categories add their signed amounts, fee/tax categories subtract
// their absolute amounts, everything else (trading, external transfers,
// unrecognized) is excluded entirely.
func (c *Classifier) NetInvestmentCashFlow(txs []models.TransactionRecord) decimal.Decimal {
	net := decimal.Zero
	for _, tx := range txs {
		category := c.Classify(tx.Institution, tx.TransactionType)
		switch {
		case category.IsIncome():
			net = net.Add(tx.Amount)
		case category == models.CategoryTaxFee, category == models.CategoryServiceFee:
			net = net.Sub(tx.Amount.Abs())
		}
	}
	return net
}

// LogGaps emits the run's taxonomy gaps through the structured logger.
func (c *Classifier) LogGaps() {
	for _, g := range c.Gaps() {
		logger.L.Warn("Unrecognized transaction type",
			"institution", g.Institution, "text", g.Text, "count", g.Count)
	}
}
