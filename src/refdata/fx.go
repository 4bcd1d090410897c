package refdata

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/logger"
)

// The currency-indicator service returns one value per indicator code, e.g.
// the observed USD/CLP rate for Chilean statements. Responses follow the
// mindicador.cl shape: a serie of dated observations, newest first.
type fxResponse struct {
	Codigo string `json:"codigo"`
	Serie  []struct {
		Fecha string  `json:"fecha"`
		Valor float64 `json:"valor"`
	} `json:"serie"`
}

// CurrencyIndicator fetches the latest value for one indicator code
// ("dolar", "euro", "uf"). Results are cached with the FX TTL; cached values
// never trigger a network call.
func (c *Client) CurrencyIndicator(code string) (decimal.Decimal, error) {
	if hit, ok := c.fxCache.Get(cacheKeyFx + code); ok {
		c.count(func(s *Stats) { s.CacheHits++ })
		return hit.(decimal.Decimal), nil
	}

	c.wait()
	c.count(func(s *Stats) { s.APICalls++ })

	url := fmt.Sprintf("%s/%s", c.cfg.FxIndicatorURL, code)
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return decimal.Zero, fmt.Errorf("currency indicator %q: %w", code, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("currency indicator %q: status %d", code, resp.StatusCode)
	}

	var decoded fxResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return decimal.Zero, fmt.Errorf("currency indicator %q: decode: %w", code, err)
	}
	if len(decoded.Serie) == 0 {
		return decimal.Zero, fmt.Errorf("currency indicator %q: empty serie", code)
	}

	value := decimal.NewFromFloat(decoded.Serie[0].Valor)
	c.fxCache.Set(cacheKeyFx+code, value, cache.DefaultExpiration)
	logger.L.Debug("Currency indicator fetched", "code", code, "value", value)
	return value, nil
}
