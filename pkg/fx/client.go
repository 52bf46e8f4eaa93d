// Package fx fetches exchange rates against a base currency.
package fx

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/molisha70-dotcom/Economic/internal/resilience"
)

const defaultBaseURL = "https://open.er-api.com/v6"

// Cache stores raw responses. Implemented by internal/store.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Client fetches exchange rates.
type Client interface {
	Rates(ctx context.Context, base string) (*Rates, error)
	Rate(ctx context.Context, base, quote string) (float64, error)
}

// Rates is a snapshot of quote-currency units per one unit of Base.
type Rates struct {
	Base    string             `json:"base_code"`
	Updated string             `json:"time_last_update_utc"`
	Rates   map[string]float64 `json:"rates"`
}

type apiResponse struct {
	Rates
	Result    string `json:"result"`
	ErrorType string `json:"error-type"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

// WithRetry sets the retry policy.
func WithRetry(p resilience.Policy) Option {
	return func(c *httpClient) { c.retry = p }
}

// WithCache enables response caching.
func WithCache(cache Cache) Option {
	return func(c *httpClient) { c.cache = cache }
}

type httpClient struct {
	baseURL string
	http    *http.Client
	retry   resilience.Policy
	cache   Cache
}

// NewClient creates an exchange-rate client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		retry:   resilience.DefaultPolicy(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.retry.OnRetry == nil {
		c.retry.OnRetry = resilience.LogRetries("fx", "rates")
	}
	return c
}

func (c *httpClient) Rates(ctx context.Context, base string) (*Rates, error) {
	base = strings.ToUpper(strings.TrimSpace(base))
	if base == "" {
		base = "USD"
	}
	key := "fx:latest:" + base

	if c.cache != nil {
		if body, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			if r, err := decode(body); err == nil {
				return r, nil
			}
		}
	}

	body, err := resilience.Retry(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/latest/"+url.PathEscape(base), nil)
		if err != nil {
			return nil, eris.Wrap(err, "fx: create request")
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, resilience.NewTransientError(eris.Wrap(err, "fx: send request"), 0)
		}
		defer resp.Body.Close()
		if err := resilience.CheckResponse("fx", resp); err != nil {
			return nil, err
		}
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrap(err, "fx: read response")
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}

	r, err := decode(body)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		if err := c.cache.Set(ctx, key, body); err != nil {
			zap.L().Debug("fx: cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return r, nil
}

func decode(body []byte) (*Rates, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, eris.Wrap(err, "fx: unmarshal response")
	}
	if resp.Result != "" && resp.Result != "success" {
		return nil, eris.Errorf("fx: api error: %s", resp.ErrorType)
	}
	if len(resp.Rates.Rates) == 0 {
		return nil, eris.New("fx: no rates in response")
	}
	return &resp.Rates, nil
}

// Rate returns quote units per one base unit.
func (c *httpClient) Rate(ctx context.Context, base, quote string) (float64, error) {
	quote = strings.ToUpper(strings.TrimSpace(quote))
	if strings.EqualFold(strings.TrimSpace(base), quote) {
		return 1, nil
	}
	r, err := c.Rates(ctx, base)
	if err != nil {
		return 0, err
	}
	v, ok := r.Rates[quote]
	if !ok || v <= 0 {
		return 0, eris.Errorf("fx: no rate for %s/%s", r.Base, quote)
	}
	return v, nil
}

// CurrencyForISO3 maps a country code to its currency, "" if unknown.
func CurrencyForISO3(iso3 string) string {
	return currencies[strings.ToUpper(strings.TrimSpace(iso3))]
}

var currencies = map[string]string{
	"USA": "USD",
	"JPN": "JPY",
	"GBR": "GBP",
	"DEU": "EUR",
	"FRA": "EUR",
	"ITA": "EUR",
	"ESP": "EUR",
	"NLD": "EUR",
	"CHN": "CNY",
	"KOR": "KRW",
	"IND": "INR",
	"VNM": "VND",
	"IDN": "IDR",
	"THA": "THB",
	"PHL": "PHP",
	"MYS": "MYR",
	"BRA": "BRL",
	"MEX": "MXN",
	"CAN": "CAD",
	"AUS": "AUD",
	"ZAF": "ZAR",
	"NGA": "NGN",
	"KEN": "KES",
	"EGY": "EGP",
	"TUR": "TRY",
}
