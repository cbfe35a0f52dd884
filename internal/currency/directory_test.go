package currency_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-composer/internal/currency"
)

const countries = `[
  {"name": {"common": "Nigeria"}, "cca3": "NGA", "currencies": {"NGN": {"name": "Nigerian naira", "symbol": "₦"}}},
  {"name": {"common": "Antarctica"}, "cca3": "ATA", "currencies": {}},
  {"name": {"common": "Germany"}, "cca3": "DEU", "currencies": {"EUR": {"name": "Euro", "symbol": "€"}}},
  {"name": {"common": "Nowhere"}, "cca3": "NWH", "currencies": {"XXX": {"name": "No symbol"}}},
  {"name": {"common": "Bhutan"}, "cca3": "BTN", "currencies": {"BTN": {"name": "Bhutanese ngultrum", "symbol": "Nu."}, "INR": {"name": "Indian rupee", "symbol": "₹"}}},
  {"name": {"common": "France"}, "cca3": "FRA", "currencies": {"EUR": {"name": "Euro", "symbol": "€"}}}
]`

func TestParse(t *testing.T) {
	list, err := currency.Parse([]byte(countries))
	require.NoError(t, err)

	var codes, places []string
	for _, c := range list {
		codes = append(codes, c.Code)
		places = append(places, c.Country)
	}
	assert.Equal(t, []string{"BTN", "EUR", "EUR", "INR", "NGN"}, codes)
	assert.Equal(t, []string{"Bhutan", "Germany", "France", "Bhutan", "Nigeria"}, places)
	assert.Equal(t, "NGN (₦) - Nigerian naira - Nigeria", list[4].Label())
}

func TestParse_Invalid(t *testing.T) {
	for _, body := range []string{"", "not json", `{"a": 1}`} {
		_, err := currency.Parse([]byte(body))
		assert.Error(t, err, body)
	}
}

func TestDirectory_FetchesAndCaches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(countries))
	}))
	defer srv.Close()

	clock := clockwork.NewFakeClock()
	d := currency.NewDirectory(currency.WithURL(srv.URL), currency.WithClock(clock), currency.WithTTL(time.Hour))

	first := d.List(context.Background())
	require.Len(t, first, 5)
	second := d.List(context.Background())
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), hits.Load())

	clock.Advance(time.Hour)
	d.List(context.Background())
	assert.Equal(t, int32(2), hits.Load())
}

func TestDirectory_Fallback(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			list := currency.NewDirectory(currency.WithURL(srv.URL)).List(context.Background())
			assert.Equal(t, currency.Fallback(), list)
		})
	}
}

func TestDirectory_FallbackNotCached(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(countries))
	}))
	defer srv.Close()

	d := currency.NewDirectory(currency.WithURL(srv.URL))
	assert.Len(t, d.List(context.Background()), 9)

	fail.Store(false)
	assert.Len(t, d.List(context.Background()), 5)
}

func TestFallback(t *testing.T) {
	list := currency.Fallback()
	require.Len(t, list, 9)
	assert.Equal(t, "USD", list[0].Code)
	assert.Equal(t, "JPY", list[8].Code)

	list[0].Code = "changed"
	assert.Equal(t, "USD", currency.Fallback()[0].Code)
}
