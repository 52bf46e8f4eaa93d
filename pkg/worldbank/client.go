// Package worldbank fetches country metadata and macro indicators from the
// World Bank v2 API.
package worldbank

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
	"golang.org/x/time/rate"

	"github.com/molisha70-dotcom/Economic/internal/resilience"
)

const defaultBaseURL = "https://api.worldbank.org/v2"

// Indicator codes used to build a country profile.
const (
	IndicatorGDP          = "NY.GDP.MKTP.CD"
	IndicatorGDPPerCapita = "NY.GDP.PCAP.CD"
	IndicatorInvestment   = "NE.GDI.FTOT.ZS"
	IndicatorOpenness     = "NE.TRD.GNFS.ZS"
	IndicatorInflation    = "FP.CPI.TOTL.ZG"
	IndicatorPopGrowth    = "SP.POP.GROW"
)

// ErrNotFound is returned when a country name cannot be resolved.
var ErrNotFound = eris.New("worldbank: country not found")

// Cache stores raw API responses keyed by request path.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Client fetches country data.
type Client interface {
	ResolveISO3(ctx context.Context, country string) (string, error)
	Country(ctx context.Context, iso3 string) (*Country, error)
	Latest(ctx context.Context, iso3, indicator string) (*float64, error)
	Profile(ctx context.Context, country string) (*Profile, error)
}

// Country is the metadata row for one economy.
type Country struct {
	ID          string `json:"id"`
	ISO2Code    string `json:"iso2Code"`
	Name        string `json:"name"`
	IncomeLevel struct {
		ID    string `json:"id"`
		Value string `json:"value"`
	} `json:"incomeLevel"`
}

// Profile is the set of indicators a country profile is built from. Ratios
// reported in percent by the API (investment, openness) are converted to
// fractions; inflation and population growth stay in percent.
type Profile struct {
	DisplayName    string
	ISO3           string
	IncomeLevel    string
	GDPUSD         *float64
	GDPPerCapita   *float64
	InvestmentRate *float64
	OpennessRatio  *float64
	InflationPct   *float64
	PopGrowthPct   *float64
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

// WithRateLimit sets requests per second (burst equal to the rate).
func WithRateLimit(perSec float64) Option {
	return func(c *httpClient) {
		if perSec > 0 {
			burst := int(perSec)
			if burst < 1 {
				burst = 1
			}
			c.limiter = rate.NewLimiter(rate.Limit(perSec), burst)
		}
	}
}

// WithRetry sets the retry policy for transient failures.
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
	limiter *rate.Limiter
	retry   resilience.Policy
	cache   Cache
}

// NewClient creates a World Bank API client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 20 * time.Second},
		limiter: rate.NewLimiter(5, 5),
		retry:   resilience.DefaultPolicy(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.retry.OnRetry == nil {
		c.retry.OnRetry = resilience.LogRetries("worldbank", "get")
	}
	return c
}

// get performs a rate-limited, retried, optionally cached GET and returns the
// data page (the second element of the API's [meta, data] envelope).
func (c *httpClient) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	query.Set("format", "json")
	key := path + "?" + query.Encode()

	if c.cache != nil {
		if body, ok, err := c.cache.Get(ctx, "worldbank:"+key); err == nil && ok {
			return decodeEnvelope(body)
		} else if err != nil {
			zap.L().Debug("worldbank: cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	body, err := resilience.Retry(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "worldbank: rate limiter wait")
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+key, nil)
		if err != nil {
			return nil, eris.Wrap(err, "worldbank: create request")
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, resilience.NewTransientError(eris.Wrap(err, "worldbank: send request"), 0)
		}
		defer resp.Body.Close()
		if err := resilience.CheckResponse("worldbank", resp); err != nil {
			return nil, err
		}
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrap(err, "worldbank: read response")
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}

	data, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		if err := c.cache.Set(ctx, "worldbank:"+key, body); err != nil {
			zap.L().Debug("worldbank: cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return data, nil
}

// decodeEnvelope splits the [meta, data] array. Errors come back as a
// single-element array holding a "message" list.
func decodeEnvelope(body []byte) (json.RawMessage, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(body, &parts); err != nil {
		return nil, eris.Wrap(err, "worldbank: unmarshal envelope")
	}
	if len(parts) == 0 {
		return nil, eris.New("worldbank: empty envelope")
	}
	if len(parts) == 1 {
		var apiErr struct {
			Message []struct {
				ID    string `json:"id"`
				Key   string `json:"key"`
				Value string `json:"value"`
			} `json:"message"`
		}
		if err := json.Unmarshal(parts[0], &apiErr); err == nil && len(apiErr.Message) > 0 {
			m := apiErr.Message[0]
			return nil, eris.Errorf("worldbank: api error %s: %s", m.ID, strings.TrimSpace(m.Value))
		}
		return nil, eris.New("worldbank: missing data page")
	}
	return parts[1], nil
}

func (c *httpClient) ResolveISO3(ctx context.Context, country string) (string, error) {
	key := cleanName(country)
	if key == "" {
		return "", ErrNotFound
	}
	if iso, ok := iso3Fallback[key]; ok {
		return iso, nil
	}

	data, err := c.get(ctx, "/country", url.Values{"per_page": {"400"}})
	if err != nil {
		return "", err
	}
	var rows []Country
	if err := json.Unmarshal(data, &rows); err != nil {
		return "", eris.Wrap(err, "worldbank: unmarshal countries")
	}
	if iso := matchCountry(rows, key); iso != "" {
		return iso, nil
	}
	return "", eris.Wrapf(ErrNotFound, "country=%q", country)
}

// matchCountry tries exact name/ISO2/ISO3 matches first, then a name prefix
// or substring match. Aggregates (income groups, regions) are skipped.
func matchCountry(rows []Country, key string) string {
	for _, r := range rows {
		if r.IncomeLevel.ID == "NA" {
			continue
		}
		if strings.ToLower(r.Name) == key || strings.ToLower(r.ISO2Code) == key || strings.ToLower(r.ID) == key {
			return r.ID
		}
	}
	for _, r := range rows {
		if r.IncomeLevel.ID == "NA" {
			continue
		}
		if strings.Contains(strings.ToLower(r.Name), key) {
			return r.ID
		}
	}
	return ""
}

func (c *httpClient) Country(ctx context.Context, iso3 string) (*Country, error) {
	data, err := c.get(ctx, "/country/"+url.PathEscape(iso3), url.Values{})
	if err != nil {
		return nil, err
	}
	var rows []Country
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, eris.Wrap(err, "worldbank: unmarshal country")
	}
	if len(rows) == 0 {
		return nil, eris.Wrapf(ErrNotFound, "iso3=%s", iso3)
	}
	return &rows[0], nil
}

type observation struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// Latest returns the most recent non-null observation, or nil when the
// series has no values.
func (c *httpClient) Latest(ctx context.Context, iso3, indicator string) (*float64, error) {
	path := "/country/" + url.PathEscape(iso3) + "/indicator/" + url.PathEscape(indicator)
	data, err := c.get(ctx, path, url.Values{"per_page": {"60"}})
	if err != nil {
		return nil, err
	}
	var rows []observation
	if len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, eris.Wrapf(err, "worldbank: unmarshal %s", indicator)
		}
	}
	return latestNonNull(rows), nil
}

func latestNonNull(rows []observation) *float64 {
	var best *observation
	for i := range rows {
		r := &rows[i]
		if r.Value == nil {
			continue
		}
		if best == nil || r.Date > best.Date {
			best = r
		}
	}
	if best == nil {
		return nil
	}
	v := *best.Value
	return &v
}

// Profile resolves the country and fetches every indicator. A failing
// indicator is logged and left nil; only resolution failures are errors.
func (c *httpClient) Profile(ctx context.Context, country string) (*Profile, error) {
	iso3, err := c.ResolveISO3(ctx, country)
	if err != nil {
		return nil, err
	}
	log := zap.L().With(zap.String("iso3", iso3))

	p := &Profile{ISO3: iso3, DisplayName: strings.TrimSpace(country)}
	if meta, err := c.Country(ctx, iso3); err != nil {
		log.Warn("worldbank: country metadata unavailable", zap.Error(err))
	} else {
		p.DisplayName = meta.Name
		p.IncomeLevel = meta.IncomeLevel.ID
	}

	fetch := func(code string) *float64 {
		v, err := c.Latest(ctx, iso3, code)
		if err != nil {
			log.Warn("worldbank: indicator unavailable", zap.String("indicator", code), zap.Error(err))
			return nil
		}
		return v
	}
	p.GDPUSD = fetch(IndicatorGDP)
	p.GDPPerCapita = fetch(IndicatorGDPPerCapita)
	p.InvestmentRate = percentToRatio(fetch(IndicatorInvestment))
	p.OpennessRatio = percentToRatio(fetch(IndicatorOpenness))
	p.InflationPct = fetch(IndicatorInflation)
	p.PopGrowthPct = fetch(IndicatorPopGrowth)
	return p, nil
}

func percentToRatio(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := *v / 100
	return &r
}

func cleanName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	return strings.ToLower(strings.TrimSpace(s))
}

var iso3Fallback = map[string]string{
	"japan":          "JPN",
	"日本":             "JPN",
	"united states":  "USA",
	"usa":            "USA",
	"アメリカ":           "USA",
	"米国":             "USA",
	"united kingdom": "GBR",
	"uk":             "GBR",
	"イギリス":           "GBR",
	"germany":        "DEU",
	"ドイツ":            "DEU",
	"france":         "FRA",
	"フランス":           "FRA",
	"italy":          "ITA",
	"spain":          "ESP",
	"vietnam":        "VNM",
	"ベトナム":           "VNM",
	"india":          "IND",
	"インド":            "IND",
	"china":          "CHN",
	"中国":             "CHN",
	"korea":          "KOR",
	"south korea":    "KOR",
	"韓国":             "KOR",
}
