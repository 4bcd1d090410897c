package main

import (
	"flag"
	"os"
	"strings"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/config"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/database"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/logger"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/pipeline"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/refdata"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/services"
)

func main() {
	date := flag.String("date", "", "statement date to process as DD_MM_YYYY (default: most recent found)")
	institutions := flag.String("institutions", "", "comma-separated institution codes to process (default: all)")
	dryRun := flag.Bool("dry-run", false, "transform and report without writing outputs or persisting")
	input := flag.String("input", "", "statements directory (overrides STATEMENTS_DIR)")
	output := flag.String("output", "", "output directory (overrides OUTPUT_DIR)")
	flag.Parse()

	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	if *input != "" {
		config.Cfg.StatementsDir = *input
	}
	if *output != "" {
		config.Cfg.OutputDir = *output
	}

	if info, err := os.Stat(config.Cfg.StatementsDir); err != nil || !info.IsDir() {
		logger.L.Error("Statements directory does not exist", "dir", config.Cfg.StatementsDir)
		os.Exit(1)
	}

	if !*dryRun {
		database.InitDB(config.Cfg.DatabasePath)
		defer func() {
			if database.DB != nil {
				database.DB.Close()
			}
		}()
	}

	client := refdata.NewClient(refdata.Config{
		BaseURL:        config.Cfg.RefDataBaseURL,
		APIKey:         config.Cfg.RefDataAPIKey,
		FxIndicatorURL: config.Cfg.FxIndicatorURL,
		RateInterval:   config.Cfg.RefDataRateInterval,
		CacheTTL:       config.Cfg.RefDataCacheTTL,
		FxCacheTTL:     config.Cfg.FxCacheTTL,
		BatchSize:      config.Cfg.RefDataBatchSize,
	})

	orchestrator := pipeline.NewOrchestrator(client, services.NewNotificationService())

	opts := pipeline.Options{Date: *date, DryRun: *dryRun}
	if *institutions != "" {
		opts.Institutions = strings.Split(*institutions, ",")
	}

	summary, err := orchestrator.Run(opts)
	if err != nil {
		logger.L.Error("Pipeline run failed", "error", err)
		os.Exit(1)
	}
	if summary.Failed() {
		logger.L.Warn("Pipeline run finished with institution failures", "run_id", summary.RunID)
	}
}
