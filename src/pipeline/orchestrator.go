// Package pipeline drives a full normalization run: discover statement files,
// pick the statement date, combine multi-file banks, run every institution's
// transformer in parallel and write the canonical outputs. One institution
// failing never aborts the run; it is reported in the summary instead.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/cashflow"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/combiner"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/config"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/database"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/detector"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/logger"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/models"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/refdata"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/services"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/spreadsheet"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/transformers"
)

// Options selects what a run processes.
type Options struct {
	// Date is a DD_MM_YYYY token. Empty means the most recent date found.
	Date string
	// Institutions restricts the run to the given codes. Empty means every
	// institution discovered for the date.
	Institutions []string
	// DryRun transforms and reports but writes no output files and persists
	// nothing.
	DryRun bool
}

const (
	StatusOK      = "ok"
	StatusPartial = "partial"
	StatusFailed  = "failed"
	StatusTimeout = "timeout"
)

// InstitutionResult is one institution's outcome within a run.
type InstitutionResult struct {
	Institution  string
	Status       string
	Securities   int
	Transactions int
	RowErrors    int
	Err          string
}

// RunSummary is the complete outcome of one pipeline run.
type RunSummary struct {
	RunID        string
	DateToken    string
	Started      time.Time
	Duration     time.Duration
	DryRun       bool
	Results      []InstitutionResult
	Securities   int
	Transactions int
	NetCashFlow  decimal.Decimal
	Gaps         []cashflow.Gap
	Stats        refdata.Stats
}

// Failed reports whether any institution ended in a non-ok status.
func (s *RunSummary) Failed() bool {
	for _, r := range s.Results {
		if r.Status != StatusOK {
			return true
		}
	}
	return false
}

type Orchestrator struct {
	client      *refdata.Client
	notifier    services.NotificationService
	inputDir    string
	outputDir   string
	threshold   float64
	combineOpts combiner.Options
	timeout     time.Duration
}

func NewOrchestrator(client *refdata.Client, notifier services.NotificationService) *Orchestrator {
	opts := combiner.DefaultOptions()
	opts.EmptyRatio = config.Cfg.DisclaimerEmptyRatio
	opts.MinTextLen = config.Cfg.DisclaimerMinTextLen
	return &Orchestrator{
		client:      client,
		notifier:    notifier,
		inputDir:    config.Cfg.StatementsDir,
		outputDir:   config.Cfg.OutputDir,
		threshold:   config.Cfg.NameMatchThreshold,
		combineOpts: opts,
		timeout:     config.Cfg.TransformTimeout,
	}
}

// institutionOutput is what one transformer goroutine hands back for merging.
type institutionOutput struct {
	result       InstitutionResult
	securities   []models.SecurityRecord
	transactions []models.TransactionRecord
}

// Run executes one full pipeline run and returns its summary. The returned
// error is reserved for conditions that prevent the run from happening at
// all; per-institution problems land in the summary instead.
func (o *Orchestrator) Run(opts Options) (*RunSummary, error) {
	started := time.Now()

	byDate, err := discover(o.inputDir)
	if err != nil {
		return nil, err
	}
	token := opts.Date
	if token == "" {
		latest, ok := latestDate(byDate)
		if !ok {
			return nil, fmt.Errorf("no detectable statement files in %s", o.inputDir)
		}
		token = latest
		logger.L.Info("No date requested, using most recent statement date", "date", token)
	}
	sets, ok := byDate[token]
	if !ok {
		return nil, fmt.Errorf("no statement files for date %s in %s", token, o.inputDir)
	}
	sets, err = restrict(sets, opts.Institutions)
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{
		RunID:     uuid.NewString(),
		DateToken: token,
		Started:   started,
		DryRun:    opts.DryRun,
	}
	logger.L.Info("Starting pipeline run",
		"run_id", summary.RunID, "date", token, "institutions", len(sets), "dry_run", opts.DryRun)

	if !opts.DryRun {
		if err := database.InsertRun(summary.RunID, token, opts.DryRun); err != nil {
			logger.L.Error("Failed to persist run record", "error", err)
		}
	}

	classifier := cashflow.NewClassifier()
	outputs := o.transformAll(sets)

	var allSecurities []models.SecurityRecord
	var allTransactions []models.TransactionRecord
	for _, out := range outputs {
		summary.Results = append(summary.Results, out.result)
		allSecurities = append(allSecurities, out.securities...)
		allTransactions = append(allTransactions, out.transactions...)
	}
	summary.Securities = len(allSecurities)
	summary.Transactions = len(allTransactions)
	summary.NetCashFlow = classifier.NetInvestmentCashFlow(allTransactions)
	summary.Gaps = classifier.Gaps()
	classifier.LogGaps()

	if !opts.DryRun {
		if err := o.writeOutputs(token, allSecurities, allTransactions); err != nil {
			return summary, err
		}
	}

	summary.Stats = o.client.Snapshot()
	summary.Duration = time.Since(started)

	if !opts.DryRun {
		o.persist(summary)
	}
	if summary.Failed() {
		o.notify(summary)
	}

	logger.L.Info("Pipeline run finished",
		"run_id", summary.RunID,
		"securities", summary.Securities,
		"transactions", summary.Transactions,
		"net_cash_flow", models.FormatAmount(summary.NetCashFlow),
		"api_calls", summary.Stats.APICalls,
		"cache_hits", summary.Stats.CacheHits,
		"duration", summary.Duration.Round(time.Millisecond).String())
	return summary, nil
}

// restrict filters the discovered sets down to the requested institutions.
func restrict(sets map[string]*statementSet, codes []string) (map[string]*statementSet, error) {
	if len(codes) == 0 {
		return sets, nil
	}
	out := make(map[string]*statementSet, len(codes))
	for _, code := range codes {
		code = strings.ToLower(strings.TrimSpace(code))
		set, ok := sets[code]
		if !ok {
			return nil, fmt.Errorf("institution %q has no statement files for this date", code)
		}
		out[code] = set
	}
	return out, nil
}

// transformAll runs every institution concurrently and waits for them all,
// up to the configured timeout. Institutions still running when the timeout
// fires are reported as timed out; their goroutines finish in the background
// but their output is discarded.
func (o *Orchestrator) transformAll(sets map[string]*statementSet) []institutionOutput {
	var (
		mu      sync.Mutex
		outputs = make(map[string]institutionOutput, len(sets))
		wg      sync.WaitGroup
	)
	for _, set := range sets {
		wg.Add(1)
		go func(set *statementSet) {
			defer wg.Done()
			out := o.transformInstitution(set)
			mu.Lock()
			outputs[set.institution] = out
			mu.Unlock()
		}(set)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(o.timeout):
		logger.L.Error("Pipeline run timed out", "timeout", o.timeout.String())
	}

	mu.Lock()
	defer mu.Unlock()
	ordered := make([]institutionOutput, 0, len(sets))
	codes := make([]string, 0, len(sets))
	for code := range sets {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		if out, ok := outputs[code]; ok {
			ordered = append(ordered, out)
			continue
		}
		ordered = append(ordered, institutionOutput{result: InstitutionResult{
			Institution: code,
			Status:      StatusTimeout,
			Err:         "transform did not finish before timeout",
		}})
	}
	return ordered
}

// transformInstitution runs both document types for one institution. The two
// transforms fail independently: a broken securities file still lets the
// transactions through, and vice versa.
func (o *Orchestrator) transformInstitution(set *statementSet) institutionOutput {
	out := institutionOutput{result: InstitutionResult{Institution: set.institution}}

	transformer, err := transformers.GetTransformer(set.institution, o.client, o.threshold)
	if err != nil {
		out.result.Status = StatusFailed
		out.result.Err = err.Error()
		logger.L.Error("No transformer for institution", "institution", set.institution, "error", err)
		return out
	}

	var errs []string

	if len(set.securities) > 0 {
		table, err := o.loadTable(set.institution, set.securities)
		if err == nil {
			var rowErrs []models.RowError
			out.securities, rowErrs, err = transformer.TransformSecurities(table)
			out.result.RowErrors += len(rowErrs)
			logRowErrors(set.institution, "securities", rowErrs)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("securities: %v", err))
			logger.L.Error("Securities transform failed",
				"institution", set.institution, "error", err)
		}
		out.result.Securities = len(out.securities)
	}

	// Variants without identifier columns match transactions against the
	// securities just produced.
	if m, ok := transformer.(transformers.DescriptionMatcher); ok {
		m.SetKnownSecurities(out.securities)
	}

	if len(set.transactions) > 0 {
		table, err := o.loadTable(set.institution, set.transactions)
		if err == nil {
			var rowErrs []models.RowError
			out.transactions, rowErrs, err = transformer.TransformTransactions(table)
			out.result.RowErrors += len(rowErrs)
			logRowErrors(set.institution, "transactions", rowErrs)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("transactions: %v", err))
			logger.L.Error("Transactions transform failed",
				"institution", set.institution, "error", err)
		}
		out.result.Transactions = len(out.transactions)
	}

	switch len(errs) {
	case 0:
		out.result.Status = StatusOK
	case 1:
		out.result.Status = StatusPartial
		out.result.Err = errs[0]
	default:
		out.result.Status = StatusFailed
		out.result.Err = strings.Join(errs, "; ")
	}
	return out
}

// loadTable reads one institution's files for a document type. Multi-file
// institutions get the combine-and-filter step; everyone else must have
// exactly one file.
func (o *Orchestrator) loadTable(institution string, files []combiner.SourceFile) (*spreadsheet.Table, error) {
	if detector.IsMultiFile(institution) {
		return combiner.Combine(files, o.combineOpts)
	}
	if len(files) > 1 {
		return nil, fmt.Errorf("%d files for single-file institution %s", len(files), institution)
	}
	return spreadsheet.ReadTable(files[0].Path)
}

func logRowErrors(institution, docType string, rowErrs []models.RowError) {
	for _, re := range rowErrs {
		logger.L.Warn("Row problem", "institution", institution, "doc_type", docType,
			"row", re.Row, "field", re.Field, "reason", re.Reason)
	}
}

// writeOutputs writes the merged canonical records, each document type in
// both xlsx and csv.
func (o *Orchestrator) writeOutputs(token string, securities []models.SecurityRecord, transactions []models.TransactionRecord) error {
	if err := os.MkdirAll(o.outputDir, 0o755); err != nil {
		return fmt.Errorf("output directory: %w", err)
	}
	for _, ext := range []string{".xlsx", ".csv"} {
		path := filepath.Join(o.outputDir, "securities_"+token+ext)
		if err := spreadsheet.WriteSecurities(path, securities); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		path = filepath.Join(o.outputDir, "transactions_"+token+ext)
		if err := spreadsheet.WriteTransactions(path, transactions); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	logger.L.Info("Canonical outputs written", "dir", o.outputDir, "date", token)
	return nil
}

func (o *Orchestrator) persist(s *RunSummary) {
	for _, r := range s.Results {
		if err := database.InsertInstitutionResult(s.RunID, r.Institution, r.Status,
			r.Securities, r.Transactions, r.RowErrors, r.Err); err != nil {
			logger.L.Error("Failed to persist institution result",
				"institution", r.Institution, "error", err)
		}
	}
	if err := database.UpsertTaxonomyGaps(s.RunID, s.Gaps); err != nil {
		logger.L.Error("Failed to persist taxonomy gaps", "error", err)
	}
	if err := database.FinishRun(s.RunID, s.Securities, s.Transactions,
		s.Stats.APICalls, s.Stats.CacheHits); err != nil {
		logger.L.Error("Failed to finalize run record", "error", err)
	}
}

func (o *Orchestrator) notify(s *RunSummary) {
	subject := fmt.Sprintf("Statement pipeline run %s had failures (%s)", s.RunID, s.DateToken)
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s for statement date %s finished in %s.\n\n",
		s.RunID, s.DateToken, s.Duration.Round(time.Second))
	for _, r := range s.Results {
		fmt.Fprintf(&b, "  %-10s %-8s securities=%d transactions=%d row_errors=%d",
			r.Institution, r.Status, r.Securities, r.Transactions, r.RowErrors)
		if r.Err != "" {
			fmt.Fprintf(&b, "  (%s)", r.Err)
		}
		b.WriteString("\n")
	}
	if err := o.notifier.SendRunSummary(subject, b.String()); err != nil {
		logger.L.Error("Failed to send run notification", "error", err)
	}
}
