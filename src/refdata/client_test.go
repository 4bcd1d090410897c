package refdata

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/models"
)

// lookupServer answers /securities/lookup for every identifier it receives and
// counts requests per endpoint.
func lookupServer(t *testing.T) (*httptest.Server, *int32, *int32) {
	t.Helper()
	var lookupCalls, searchCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/securities/lookup", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&lookupCalls, 1)
		var req lookupRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		var resp lookupResponse
		for _, id := range req.Identifiers {
			resp.Results = append(resp.Results, lookupEntry{
				Identifier:   id,
				SecurityType: "EQUITY",
				Ticker:       "TCK",
				Name:         "SECURITY " + id,
			})
		}
		json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("/securities/search", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&searchCalls, 1)
		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(lookupResponse{Results: []lookupEntry{{
			Identifier:   "FOUND1",
			SecurityType: "BOND",
			Name:         req.Query,
		}}})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &lookupCalls, &searchCalls
}

func testClient(baseURL string) *Client {
	return NewClient(Config{
		BaseURL:      baseURL,
		APIKey:       "test-key",
		RateInterval: time.Millisecond,
		CacheTTL:     time.Hour,
		FxCacheTTL:   time.Hour,
		BatchSize:    100,
	})
}

// 95 unique identifiers fit in one batch; repeating the call must be served
// entirely from cache with no further requests.
func TestLookupBatchSingleRequestThenCached(t *testing.T) {
	server, lookupCalls, _ := lookupServer(t)
	client := testClient(server.URL)

	ids := make([]string, 0, 95)
	for i := 0; i < 95; i++ {
		ids = append(ids, fmt.Sprintf("ID%03d", i))
	}

	results := client.LookupBatch(ids)
	require.Len(t, results, 95)
	assert.EqualValues(t, 1, atomic.LoadInt32(lookupCalls))
	assert.Equal(t, models.AssetEquities, results["ID000"].AssetType)

	again := client.LookupBatch(ids)
	require.Len(t, again, 95)
	assert.EqualValues(t, 1, atomic.LoadInt32(lookupCalls), "second call must not hit the network")

	stats := client.Snapshot()
	assert.EqualValues(t, 1, stats.APICalls)
	assert.EqualValues(t, 95, stats.CacheHits)
}

func TestLookupBatchPartitions(t *testing.T) {
	server, lookupCalls, _ := lookupServer(t)
	client := NewClient(Config{
		BaseURL:      server.URL,
		APIKey:       "test-key",
		RateInterval: time.Millisecond,
		CacheTTL:     time.Hour,
		BatchSize:    40,
	})

	ids := make([]string, 0, 95)
	for i := 0; i < 95; i++ {
		ids = append(ids, fmt.Sprintf("ID%03d", i))
	}
	results := client.LookupBatch(ids)
	require.Len(t, results, 95)
	assert.EqualValues(t, 3, atomic.LoadInt32(lookupCalls)) // 40+40+15
}

func TestLookupBatchDeduplicatesAndSkipsSentinel(t *testing.T) {
	server, lookupCalls, _ := lookupServer(t)
	client := testClient(server.URL)

	results := client.LookupBatch([]string{"AAA", "AAA", "", models.UnresolvedIdentifier, "BBB"})
	require.Len(t, results, 2)
	assert.EqualValues(t, 1, atomic.LoadInt32(lookupCalls))
}

func TestLookupBatchKeyless(t *testing.T) {
	client := NewClient(Config{
		BaseURL:   "http://unreachable.invalid",
		APIKey:    "",
		CacheTTL:  time.Hour,
		BatchSize: 100,
	})
	results := client.LookupBatch([]string{"AAA"})
	require.Len(t, results, 1)
	assert.Error(t, results["AAA"].Err)
	assert.Equal(t, models.AssetUnknown, results["AAA"].AssetType)
	assert.EqualValues(t, 0, client.Snapshot().APICalls)
}

func TestLookupBatchServerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := testClient(server.URL)
	results := client.LookupBatch([]string{"AAA", "BBB"})
	require.Len(t, results, 2)
	for _, res := range results {
		assert.Error(t, res.Err)
		assert.Equal(t, models.AssetUnknown, res.AssetType)
	}
}

func TestLookupByName(t *testing.T) {
	server, _, searchCalls := lookupServer(t)
	client := testClient(server.URL)

	res, ok := client.LookupByName("US TREASURY")
	require.True(t, ok)
	assert.Equal(t, models.AssetFixedIncome, res.AssetType)
	assert.Equal(t, "FOUND1", res.Identifier)

	_, ok = client.LookupByName("US TREASURY")
	require.True(t, ok)
	assert.EqualValues(t, 1, atomic.LoadInt32(searchCalls))
}

func TestEnrichDegradesToKeyword(t *testing.T) {
	// No API key: both lookup stages are skipped and the static keyword
	// classifier decides.
	client := NewClient(Config{CacheTTL: time.Hour, BatchSize: 100})

	res := client.Enrich("912828XY1", "US TREASURY N/B 4.25")
	assert.Equal(t, models.AssetFixedIncome, res.AssetType)
	assert.Equal(t, "912828XY1", res.Identifier)

	res = client.Enrich("", "SOMETHING ENTIRELY ELSE")
	assert.Equal(t, models.AssetUnknown, res.AssetType)
	assert.True(t, client.Snapshot().FallbackUses >= 2)
}

func TestClassifyByKeyword(t *testing.T) {
	tests := []struct {
		name string
		want models.AssetType
	}{
		{"US TREASURY N/B", models.AssetFixedIncome},
		{"CORPORATE BOND 5%", models.AssetFixedIncome},
		{"FIDELITY MONEY MARKET", models.AssetMoneyMarket},
		{"SPDR GOLD TRUST", models.AssetAlternative},
		{"CASH BALANCE", models.AssetCash},
		{"VANGUARD S&P 500 ETF", models.AssetEquities},
		{"XYZ 123", models.AssetUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyByKeyword(tt.name), tt.name)
	}
}

func TestCurrencyIndicator(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/dolar", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"codigo": "dolar",
			"serie": []map[string]any{
				{"fecha": "2025-02-28T03:00:00.000Z", "valor": 945.73},
			},
		})
	}))
	defer server.Close()

	client := NewClient(Config{
		FxIndicatorURL: server.URL,
		RateInterval:   time.Millisecond,
		CacheTTL:       time.Hour,
		FxCacheTTL:     time.Hour,
	})

	rate, err := client.CurrencyIndicator("dolar")
	require.NoError(t, err)
	assert.Equal(t, "945.73", rate.String())

	_, err = client.CurrencyIndicator("dolar")
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}
