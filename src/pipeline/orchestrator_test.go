package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/config"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/database"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/refdata"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/services"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/spreadsheet"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// testConfig wires a throwaway configuration; the orchestrator reads the
// global the same way main does.
func testConfig(t *testing.T) (statements, output string) {
	t.Helper()
	statements = t.TempDir()
	output = t.TempDir()
	config.Cfg = &config.AppConfig{
		LogLevel:             "error",
		StatementsDir:        statements,
		OutputDir:            output,
		NameMatchThreshold:   0.6,
		DisclaimerEmptyRatio: 0.9,
		DisclaimerMinTextLen: 100,
		TransformTimeout:     time.Minute,
	}
	return statements, output
}

func testOrchestrator() *Orchestrator {
	client := refdata.NewClient(refdata.Config{CacheTTL: time.Hour, BatchSize: 100})
	return NewOrchestrator(client, services.NewNotificationService())
}

const csSecuritiesCSV = "Description,Symbol,CUSIP,Quantity,Price,Market Value,Security Type,Account\n" +
	"APPLE INC,AAPL,037833100,100,150.25,\"15,025.00\",Equities,A1\n" +
	"US TREASURY N/B,,912828XY1,\"250,000\",99.875,\"249,687.50\",Fixed Income,A1\n"

const csTransactionsCSV = "Date,Action,Amount,CUSIP,Account\n" +
	"02/28/2025,CASH DIVIDEND,125.40,037833100,A1\n" +
	"02/14/2025,MGMT FEE,-50.00,,A1\n"

func TestRunDryRun(t *testing.T) {
	statements, output := testConfig(t)
	writeFile(t, statements, "CS_securities_28_02_2025.csv", csSecuritiesCSV)
	writeFile(t, statements, "CS_transactions_28_02_2025.csv", csTransactionsCSV)
	writeFile(t, statements, "notes.txt", "ignore me")

	summary, err := testOrchestrator().Run(Options{DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, "28_02_2025", summary.DateToken)
	assert.NotEmpty(t, summary.RunID)
	require.Len(t, summary.Results, 1)
	assert.Equal(t, "cs", summary.Results[0].Institution)
	assert.Equal(t, StatusOK, summary.Results[0].Status)
	assert.Equal(t, 2, summary.Securities)
	assert.Equal(t, 2, summary.Transactions)
	// Dividend counts, the fee subtracts.
	assert.Equal(t, "75.4", summary.NetCashFlow.String())
	assert.False(t, summary.Failed())

	// Dry run writes nothing.
	entries, err := os.ReadDir(output)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunWritesOutputsAndPersists(t *testing.T) {
	statements, output := testConfig(t)
	config.Cfg.DatabasePath = filepath.Join(t.TempDir(), "runs.db")
	database.InitDB(config.Cfg.DatabasePath)
	defer database.DB.Close()

	writeFile(t, statements, "CS_securities_28_02_2025.csv", csSecuritiesCSV)
	writeFile(t, statements, "CS_transactions_28_02_2025.csv", csTransactionsCSV)

	summary, err := testOrchestrator().Run(Options{})
	require.NoError(t, err)
	require.False(t, summary.Failed())

	for _, name := range []string{
		"securities_28_02_2025.csv", "securities_28_02_2025.xlsx",
		"transactions_28_02_2025.csv", "transactions_28_02_2025.xlsx",
	} {
		_, err := os.Stat(filepath.Join(output, name))
		assert.NoError(t, err, name)
	}

	secs, err := spreadsheet.ReadSecurities(filepath.Join(output, "securities_28_02_2025.csv"))
	require.NoError(t, err)
	require.Len(t, secs, 2)
	assert.Equal(t, "APPLE INC", secs[0].Name)
	assert.Equal(t, "0.99875", secs[1].Price.String())

	var count int
	require.NoError(t, database.DB.QueryRow(
		`SELECT COUNT(*) FROM pipeline_runs WHERE id = ?`, summary.RunID).Scan(&count))
	assert.Equal(t, 1, count)
	require.NoError(t, database.DB.QueryRow(
		`SELECT COUNT(*) FROM institution_results WHERE run_id = ?`, summary.RunID).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestRunPicksLatestDate(t *testing.T) {
	statements, _ := testConfig(t)
	writeFile(t, statements, "CS_securities_31_01_2025.csv", csSecuritiesCSV)
	writeFile(t, statements, "CS_securities_28_02_2025.csv", csSecuritiesCSV)

	summary, err := testOrchestrator().Run(Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, "28_02_2025", summary.DateToken)
}

func TestRunExplicitDate(t *testing.T) {
	statements, _ := testConfig(t)
	writeFile(t, statements, "CS_securities_31_01_2025.csv", csSecuritiesCSV)
	writeFile(t, statements, "CS_securities_28_02_2025.csv", csSecuritiesCSV)

	summary, err := testOrchestrator().Run(Options{Date: "31_01_2025", DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, "31_01_2025", summary.DateToken)

	_, err = testOrchestrator().Run(Options{Date: "30_06_2025", DryRun: true})
	assert.Error(t, err, "date with no files is a run-level error")
}

func TestRunInstitutionFilter(t *testing.T) {
	statements, _ := testConfig(t)
	writeFile(t, statements, "CS_securities_28_02_2025.csv", csSecuritiesCSV)
	writeFile(t, statements, "pershing_securities_28_02_2025.csv",
		"Security Name,CUSIP,Quantity,Price,Market Value,Asset Classification\n"+
			"CORP BOND XYZ 5.00% 15NOV25,12345ABC9,\"100,000\",101500,\"101,500.00\",Fixed Income\n")

	summary, err := testOrchestrator().Run(Options{Institutions: []string{"pershing"}, DryRun: true})
	require.NoError(t, err)
	require.Len(t, summary.Results, 1)
	assert.Equal(t, "pershing", summary.Results[0].Institution)

	_, err = testOrchestrator().Run(Options{Institutions: []string{"hsbc"}, DryRun: true})
	assert.Error(t, err)
}

// A broken institution is isolated: the others complete and the run reports
// the failure instead of aborting.
func TestRunIsolatesInstitutionFailure(t *testing.T) {
	statements, _ := testConfig(t)
	writeFile(t, statements, "CS_securities_28_02_2025.csv", csSecuritiesCSV)
	// Missing required columns: schema failure for pershing only.
	writeFile(t, statements, "pershing_securities_28_02_2025.csv", "Foo,Bar\n1,2\n")

	summary, err := testOrchestrator().Run(Options{DryRun: true})
	require.NoError(t, err)
	require.Len(t, summary.Results, 2)

	byInstitution := map[string]InstitutionResult{}
	for _, r := range summary.Results {
		byInstitution[r.Institution] = r
	}
	assert.Equal(t, StatusOK, byInstitution["cs"].Status)
	assert.Equal(t, StatusFailed, byInstitution["pershing"].Status)
	assert.Contains(t, byInstitution["pershing"].Err, "required column missing")
	assert.True(t, summary.Failed())
	assert.Equal(t, 2, summary.Securities, "cs output survives the pershing failure")
}

func TestRunCombinesMultiFileInstitution(t *testing.T) {
	statements, _ := testConfig(t)
	header := "Description,Symbol,CUSIP,Quantity,Price,Market Value,Asset Class\n"
	writeFile(t, statements, "JPM_ACME_A1_securities_28_02_2025.csv",
		header+"APPLE INC,AAPL,037833100,100,150.25,\"15,025.00\",Equities\n")
	writeFile(t, statements, "JPM_BETA_B7_securities_28_02_2025.csv",
		header+"MICROSOFT CORP,MSFT,594918104,50,420.00,\"21,000.00\",Equities\n")

	summary, err := testOrchestrator().Run(Options{DryRun: true})
	require.NoError(t, err)
	require.Len(t, summary.Results, 1)
	assert.Equal(t, "jpm", summary.Results[0].Institution)
	assert.Equal(t, StatusOK, summary.Results[0].Status)
	assert.Equal(t, 2, summary.Securities)
}

func TestRunEmptyDirectory(t *testing.T) {
	testConfig(t)
	_, err := testOrchestrator().Run(Options{DryRun: true})
	require.Error(t, err)
}
