// Package refdata resolves security identifiers (or cleaned names) to
// enriched metadata through an external security-master service, with
// batching, caching and rate limiting, plus a static classification fallback
// so the pipeline still produces a total asset classification offline.
package refdata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/logger"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/models"
)

// Config is the injected client configuration. No ambient globals: callers
// construct a Client explicitly and pass it down.
type Config struct {
	BaseURL        string
	APIKey         string
	FxIndicatorURL string
	RateInterval   time.Duration
	CacheTTL       time.Duration // security lookups
	FxCacheTTL     time.Duration // currency indicators
	BatchSize      int
}

// Stats are running diagnostics counters, read via Snapshot.
type Stats struct {
	APICalls      int64
	CacheHits     int64
	LookupHits    int64
	LookupMisses  int64
	FallbackUses  int64
}

// Client talks to the security-master and currency-indicator services. The
// cache and the request-timing gate are the only shared mutable state in the
// pipeline; the gate is serialized through the limiter while cache reads rely
// on go-cache's own locking and proceed concurrently.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *cache.Cache
	fxCache    *cache.Cache

	mu    sync.Mutex
	stats Stats
}

// NewClient builds a client. An empty API key is allowed: identifier and name
// lookups then short-circuit straight to the static fallback.
func NewClient(cfg Config) *Client {
	if cfg.BatchSize <= 0 || cfg.BatchSize > 100 {
		cfg.BatchSize = 100
	}
	if cfg.RateInterval <= 0 {
		cfg.RateInterval = 350 * time.Millisecond
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		logger.L.Error("Failed to create cookie jar", "error", err)
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: 20 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(cfg.RateInterval), 1),
		cache:   cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		fxCache: cache.New(cfg.FxCacheTTL, 2*cfg.FxCacheTTL),
	}
}

// Snapshot returns a copy of the running counters.
func (c *Client) Snapshot() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *Client) count(f func(*Stats)) {
	c.mu.Lock()
	f(&c.stats)
	c.mu.Unlock()
}

// wait blocks until the minimum inter-request interval has elapsed. Applied
// before every outbound call, not just batches.
func (c *Client) wait() {
	if err := c.limiter.Wait(context.Background()); err != nil {
		logger.L.Warn("Rate limiter wait interrupted", "error", err)
	}
}

// --- Security-master wire format ---

type lookupRequest struct {
	Identifiers []string `json:"identifiers"`
}

type lookupResponse struct {
	Results []lookupEntry `json:"results"`
}

type lookupEntry struct {
	Identifier   string `json:"identifier"`
	SecurityType string `json:"security_type"`
	Ticker       string `json:"ticker"`
	Name         string `json:"name"`
	Coupon       string `json:"coupon"`
	Maturity     string `json:"maturity"`
	Error        string `json:"error,omitempty"`
}

type searchRequest struct {
	Query string `json:"query"`
}

// LookupBatch resolves the full unique-identifier set for a run, partitioning
// it into batches of at most BatchSize identifiers. Cached entries (including
// cached failures) never trigger a network call.
func (c *Client) LookupBatch(identifiers []string) map[string]models.LookupResult {
	results := make(map[string]models.LookupResult, len(identifiers))

	var uncached []string
	seen := make(map[string]bool, len(identifiers))
	for _, id := range identifiers {
		if id == "" || id == models.UnresolvedIdentifier || seen[id] {
			continue
		}
		seen[id] = true
		if hit, ok := c.cache.Get(cacheKeyLookup + id); ok {
			c.count(func(s *Stats) { s.CacheHits++ })
			results[id] = hit.(models.LookupResult)
			continue
		}
		uncached = append(uncached, id)
	}

	if len(uncached) == 0 {
		return results
	}
	if c.cfg.APIKey == "" {
		// Keyless mode: record a miss per identifier so the caller's
		// degradation chain takes over, and cache it to keep the run
		// deterministic.
		for _, id := range uncached {
			res := models.LookupResult{Identifier: id, AssetType: models.AssetUnknown, Err: errNoAPIKey}
			c.cache.Set(cacheKeyLookup+id, res, cache.DefaultExpiration)
			results[id] = res
		}
		return results
	}

	for start := 0; start < len(uncached); start += c.cfg.BatchSize {
		end := start + c.cfg.BatchSize
		if end > len(uncached) {
			end = len(uncached)
		}
		batch := uncached[start:end]
		for id, res := range c.lookupOneBatch(batch) {
			c.cache.Set(cacheKeyLookup+id, res, cache.DefaultExpiration)
			results[id] = res
		}
	}
	return results
}

func (c *Client) lookupOneBatch(batch []string) map[string]models.LookupResult {
	out := make(map[string]models.LookupResult, len(batch))
	fail := func(err error) {
		for _, id := range batch {
			out[id] = models.LookupResult{Identifier: id, AssetType: models.AssetUnknown, Err: err}
		}
		c.count(func(s *Stats) { s.LookupMisses += int64(len(batch)) })
	}

	body, err := json.Marshal(lookupRequest{Identifiers: batch})
	if err != nil {
		fail(err)
		return out
	}

	c.wait()
	c.count(func(s *Stats) { s.APICalls++ })

	req, err := http.NewRequest(http.MethodPost, c.cfg.BaseURL+"/securities/lookup", bytes.NewReader(body))
	if err != nil {
		fail(err)
		return out
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.L.Warn("Security-master batch lookup failed", "batchSize", len(batch), "error", err)
		fail(err)
		return out
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("security-master returned status %d", resp.StatusCode)
		logger.L.Warn("Security-master batch lookup failed", "batchSize", len(batch), "status", resp.StatusCode)
		fail(err)
		return out
	}

	var decoded lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		fail(fmt.Errorf("failed to decode security-master response: %w", err))
		return out
	}

	byID := make(map[string]lookupEntry, len(decoded.Results))
	for _, entry := range decoded.Results {
		byID[entry.Identifier] = entry
	}
	for _, id := range batch {
		entry, ok := byID[id]
		if !ok || entry.Error != "" {
			out[id] = models.LookupResult{Identifier: id, AssetType: models.AssetUnknown, Err: errNotFound}
			c.count(func(s *Stats) { s.LookupMisses++ })
			continue
		}
		out[id] = models.LookupResult{
			Identifier: id,
			AssetType:  mapSecurityType(entry.SecurityType),
			Ticker:     entry.Ticker,
			Name:       entry.Name,
			CouponRate: entry.Coupon,
			Maturity:   entry.Maturity,
		}
		c.count(func(s *Stats) { s.LookupHits++ })
	}
	return out
}

// LookupByName searches the security master by cleaned security name. Single
// outbound request, cached under the normalized name.
func (c *Client) LookupByName(name string) (models.LookupResult, bool) {
	if name == "" {
		return models.LookupResult{}, false
	}
	if hit, ok := c.cache.Get(cacheKeySearch + name); ok {
		c.count(func(s *Stats) { s.CacheHits++ })
		res := hit.(models.LookupResult)
		return res, res.Err == nil
	}
	if c.cfg.APIKey == "" {
		return models.LookupResult{}, false
	}

	body, err := json.Marshal(searchRequest{Query: name})
	if err != nil {
		return models.LookupResult{}, false
	}

	c.wait()
	c.count(func(s *Stats) { s.APICalls++ })

	req, err := http.NewRequest(http.MethodPost, c.cfg.BaseURL+"/securities/search", bytes.NewReader(body))
	if err != nil {
		return models.LookupResult{}, false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.L.Warn("Security-master name search failed", "name", name, "error", err)
		return models.LookupResult{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.L.Warn("Security-master name search failed", "name", name, "status", resp.StatusCode)
		return models.LookupResult{}, false
	}

	var decoded lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil || len(decoded.Results) == 0 {
		res := models.LookupResult{Name: name, AssetType: models.AssetUnknown, Err: errNotFound}
		c.cache.Set(cacheKeySearch+name, res, cache.DefaultExpiration)
		c.count(func(s *Stats) { s.LookupMisses++ })
		return res, false
	}

	entry := decoded.Results[0]
	res := models.LookupResult{
		Identifier: entry.Identifier,
		AssetType:  mapSecurityType(entry.SecurityType),
		Ticker:     entry.Ticker,
		Name:       entry.Name,
		CouponRate: entry.Coupon,
		Maturity:   entry.Maturity,
	}
	c.cache.Set(cacheKeySearch+name, res, cache.DefaultExpiration)
	c.count(func(s *Stats) { s.LookupHits++ })
	return res, true
}

const (
	cacheKeyLookup = "lookup_"
	cacheKeySearch = "search_"
	cacheKeyFx     = "fx_"
)
