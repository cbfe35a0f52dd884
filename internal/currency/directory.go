// Package currency lists the currencies offered for the invoice's currency
// symbol field.
package currency

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/rezonia/invoice-composer/internal/cache"
	"github.com/rezonia/invoice-composer/internal/logger"
	"github.com/rezonia/invoice-composer/internal/metrics"
)

// DefaultURL is the country directory queried for currencies
const DefaultURL = "https://restcountries.com/v3.1/all?fields=name,currencies,cca3"

const (
	defaultTTL     = 24 * time.Hour
	defaultTimeout = 10 * time.Second
	maxBody        = 8 << 20
	cacheKey       = "all"
)

// Currency is one selectable option. Symbol is the value written into the
// invoice; the rest is display text.
type Currency struct {
	Code    string `json:"code"`
	Symbol  string `json:"symbol"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

// Label renders the option text, e.g. "USD ($) - United States Dollar - United States"
func (c Currency) Label() string {
	return fmt.Sprintf("%s (%s) - %s - %s", c.Code, c.Symbol, c.Name, c.Country)
}

var fallback = []Currency{
	{Code: "USD", Symbol: "$", Name: "United States Dollar", Country: "United States"},
	{Code: "NGN", Symbol: "₦", Name: "Nigerian Naira", Country: "Nigeria"},
	{Code: "ZAR", Symbol: "R", Name: "South African Rand", Country: "South Africa"},
	{Code: "KES", Symbol: "KSh", Name: "Kenyan Shilling", Country: "Kenya"},
	{Code: "GHS", Symbol: "₵", Name: "Ghanaian Cedi", Country: "Ghana"},
	{Code: "ETB", Symbol: "Br", Name: "Ethiopian Birr", Country: "Ethiopia"},
	{Code: "EUR", Symbol: "€", Name: "Euro", Country: "Eurozone"},
	{Code: "GBP", Symbol: "£", Name: "British Pound", Country: "United Kingdom"},
	{Code: "JPY", Symbol: "¥", Name: "Japanese Yen", Country: "Japan"},
}

// Fallback returns the built-in list used when the directory is unreachable
func Fallback() []Currency {
	return append([]Currency(nil), fallback...)
}

// Directory fetches the currency list from a remote country directory and
// caches successful results.
type Directory struct {
	url     string
	client  *http.Client
	ttl     time.Duration
	cache   *cache.Expiring[string, []Currency]
	metrics *metrics.Metrics
	log     *zap.Logger
}

// Option configures a Directory
type Option func(*Directory)

// WithURL overrides the directory endpoint
func WithURL(url string) Option {
	return func(d *Directory) {
		d.url = url
	}
}

// WithHTTPClient sets the client used for lookups
func WithHTTPClient(c *http.Client) Option {
	return func(d *Directory) {
		d.client = c
	}
}

// WithTTL sets how long a fetched list is reused
func WithTTL(ttl time.Duration) Option {
	return func(d *Directory) {
		d.ttl = ttl
	}
}

// WithClock sets the clock used for cache expiry
func WithClock(clock clockwork.Clock) Option {
	return func(d *Directory) {
		d.cache = cache.NewExpiring[string, []Currency](clock)
	}
}

// WithMetrics records lookup sources
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Directory) {
		d.metrics = m
	}
}

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(d *Directory) {
		d.log = log
	}
}

// NewDirectory creates a directory client
func NewDirectory(opts ...Option) *Directory {
	d := &Directory{
		url:    DefaultURL,
		client: &http.Client{Timeout: defaultTimeout},
		ttl:    defaultTTL,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.cache == nil {
		d.cache = cache.NewExpiring[string, []Currency](nil)
	}
	d.log = logger.OrNop(d.log).Named("currency")
	return d
}

// List returns the currencies sorted by code. It never fails: when the
// directory cannot be reached or parsed the fallback list is returned.
func (d *Directory) List(ctx context.Context) []Currency {
	if cached, ok := d.cache.Get(cacheKey); ok {
		d.metrics.ObserveCurrencyLookup("cache")
		return append([]Currency(nil), cached...)
	}

	list, err := d.fetch(ctx)
	if err != nil {
		d.log.Warn("currency directory unavailable, using fallback", zap.Error(err))
		d.metrics.ObserveCurrencyLookup("fallback")
		return Fallback()
	}

	d.cache.Set(cacheKey, list, d.ttl)
	d.metrics.ObserveCurrencyLookup("remote")
	return append([]Currency(nil), list...)
}

func (d *Directory) fetch(ctx context.Context) ([]Currency, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch directory: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch directory: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}
	return Parse(body)
}

// Parse extracts currencies from a restcountries-style response. Only
// currencies carrying both a symbol and a name are kept.
func Parse(body []byte) ([]Currency, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("parse directory: invalid JSON")
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, fmt.Errorf("parse directory: expected an array of countries")
	}

	var out []Currency
	root.ForEach(func(_, country gjson.Result) bool {
		name := country.Get("name.common").String()
		country.Get("currencies").ForEach(func(code, details gjson.Result) bool {
			symbol := details.Get("symbol").String()
			currencyName := details.Get("name").String()
			if symbol == "" || currencyName == "" {
				return true
			}
			out = append(out, Currency{
				Code:    code.String(),
				Symbol:  symbol,
				Name:    currencyName,
				Country: name,
			})
			return true
		})
		return true
	})

	sort.SliceStable(out, func(i, j int) bool {
		return strings.Compare(out[i].Code, out[j].Code) < 0
	})
	return out, nil
}
