package fx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molisha70-dotcom/Economic/internal/resilience"
)

type mapCache map[string][]byte

func (m mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m mapCache) Set(_ context.Context, key string, value []byte) error {
	m[key] = value
	return nil
}

const okBody = `{"result":"success","base_code":"USD","time_last_update_utc":"Mon, 12 Oct 2026 00:00:01 +0000","rates":{"USD":1,"JPY":149.5,"EUR":0.92}}`

func TestRates(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/latest/USD", r.URL.Path)
		_, _ = w.Write([]byte(okBody))
	}))
	defer srv.Close()

	cache := mapCache{}
	c := NewClient(WithBaseURL(srv.URL), WithCache(cache))

	r, err := c.Rates(context.Background(), "usd")
	require.NoError(t, err)
	assert.Equal(t, "USD", r.Base)
	assert.InDelta(t, 149.5, r.Rates["JPY"], 1e-9)

	jpy, err := c.Rate(context.Background(), "USD", "jpy")
	require.NoError(t, err)
	assert.InDelta(t, 149.5, jpy, 1e-9)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "second lookup served from cache")
}

func TestRate_SameCurrency(t *testing.T) {
	v, err := NewClient(WithBaseURL("http://127.0.0.1:1")).Rate(context.Background(), "USD", "usd")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
}

func TestRate_Missing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(okBody))
	}))
	defer srv.Close()

	_, err := NewClient(WithBaseURL(srv.URL)).Rate(context.Background(), "USD", "XXX")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no rate for USD/XXX")
}

func TestRates_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "api_error", status: 200, body: `{"result":"error","error-type":"unsupported-code"}`, wantErr: "unsupported-code"},
		{name: "empty", status: 200, body: `{"result":"success","rates":{}}`, wantErr: "no rates"},
		{name: "malformed", status: 200, body: `{`, wantErr: "unmarshal"},
		{name: "not_found", status: 404, body: `nope`, wantErr: "unexpected status 404"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(WithBaseURL(srv.URL), WithRetry(resilience.Policy{
				MaxAttempts: 1, InitialBackoff: time.Millisecond,
			})).Rates(context.Background(), "USD")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCurrencyForISO3(t *testing.T) {
	assert.Equal(t, "JPY", CurrencyForISO3("jpn"))
	assert.Equal(t, "EUR", CurrencyForISO3(" DEU "))
	assert.Equal(t, "", CurrencyForISO3("ZZZ"))
}
