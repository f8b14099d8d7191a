package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetZECRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/simple/price", r.URL.Path)
		require.Equal(t, "zcash", r.URL.Query().Get("ids"))
		require.Equal(t, "eur", r.URL.Query().Get("vs_currencies"))
		w.Write([]byte(`{"zcash":{"eur":31.456}}`))
	}))
	defer srv.Close()

	rate, err := NewCoinGeckoClient(srv.URL+"/").GetZECRate(context.Background(), "EUR")
	require.NoError(t, err)
	require.Equal(t, "31.46", rate)
}

func TestGetZECRateErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("vs_currencies") == "xyz" {
			w.Write([]byte(`{"zcash":{}}`))
			return
		}
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewCoinGeckoClient(srv.URL)

	_, err := c.GetZECRate(context.Background(), "usd")
	require.ErrorContains(t, err, "status 429")

	_, err = c.GetZECRate(context.Background(), "xyz")
	require.Error(t, err)
}
