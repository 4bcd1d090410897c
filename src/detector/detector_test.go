package detector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		institution string
		docType     DocType
		date        string
		multiFile   bool
		client      string
		account     string
	}{
		{
			name:        "single file securities",
			file:        "pershing_securities_28_02_2025.xlsx",
			institution: "pershing",
			docType:     DocSecurities,
			date:        "28/02/2025",
		},
		{
			name:        "single file transactions",
			file:        "Lombard_transactions_31_01_2025.xlsx",
			institution: "lombard",
			docType:     DocTransactions,
			date:        "31/01/2025",
		},
		{
			name:        "multi file with client and account",
			file:        "JPM_ACME_A1234_securities_28_02_2025.xlsx",
			institution: "jpm",
			docType:     DocSecurities,
			date:        "28/02/2025",
			multiFile:   true,
			client:      "ACME",
			account:     "A1234",
		},
		{
			name:        "long prefix wins over short",
			file:        "JPMorgan_ACME_A1_transactions_31_12_2024.csv",
			institution: "jpm",
			docType:     DocTransactions,
			date:        "31/12/2024",
			multiFile:   true,
			client:      "ACME",
			account:     "A1",
		},
		{
			name:        "csc is not cs",
			file:        "CSC_securities_28_02_2025.xlsx",
			institution: "csc",
			docType:     DocSecurities,
			date:        "28/02/2025",
		},
		{
			name:        "morgan stanley",
			file:        "MS_Smith_9981_transactions_28_02_2025.xlsx",
			institution: "ms",
			docType:     DocTransactions,
			date:        "28/02/2025",
			multiFile:   true,
			client:      "Smith",
			account:     "9981",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			det, err := Detect(tt.file)
			require.NoError(t, err)
			assert.Equal(t, tt.institution, det.Institution)
			assert.Equal(t, tt.docType, det.DocType)
			assert.Equal(t, tt.date, det.Date.Format("02/01/2006"))
			assert.Equal(t, tt.multiFile, det.MultiFile)
			assert.Equal(t, tt.client, det.Client)
			assert.Equal(t, tt.account, det.Account)
		})
	}
}

func TestDetectFailures(t *testing.T) {
	files := []string{
		"unknownbank_securities_28_02_2025.xlsx",
		"pershing_holdings_28_02_2025.xlsx",   // no doc-type marker
		"pershing_securities_feb2025.xlsx",    // no date token
		"pershing_securities_99_99_2025.xlsx", // impossible date
	}
	for _, file := range files {
		_, err := Detect(file)
		assert.ErrorIs(t, err, ErrNotDetected, "file %q", file)
	}
}

func TestDetectUsesBaseName(t *testing.T) {
	det, err := Detect("/data/statements/hsbc_securities_31_03_2025.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "hsbc", det.Institution)
}

func TestIsMultiFile(t *testing.T) {
	assert.True(t, IsMultiFile("jpm"))
	assert.True(t, IsMultiFile("ms"))
	for _, code := range []string{"cs", "csc", "pershing", "lombard", "banchile"} {
		assert.False(t, IsMultiFile(code), code)
	}
}

func TestDateToken(t *testing.T) {
	date := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "28_02_2025", DateToken(date))
}
