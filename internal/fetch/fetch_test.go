package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fundsift/fundsift/internal/config"
)

func testFetcher(retryMax int) *Fetcher {
	return New(config.FetchConfig{
		Timeout:           5 * time.Second,
		RetryMax:          retryMax,
		RetryWaitMin:      time.Millisecond,
		RetryWaitMax:      5 * time.Millisecond,
		RequestsPerSecond: 1000,
		Burst:             1000,
	}, zap.NewNop(), nil)
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := testFetcher(3)
	_, err := f.Fetch(context.Background(), srv.URL+"/mutual-funds/abc")

	require.Error(t, err)
	assert.Equal(t, int32(4), requests.Load())
}

func TestFetchRecoversAfterTransientError(t *testing.T) {
	page := fullPage()
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if requests.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(page))
	}))
	defer srv.Close()

	f := testFetcher(3)
	html, err := f.Fetch(context.Background(), srv.URL+"/mutual-funds/abc")

	require.NoError(t, err)
	assert.Equal(t, page, html)
	assert.Equal(t, int32(3), requests.Load())
}

func fullPage() string {
	return "<html><head><title>Fund</title></head><body>" +
		strings.Repeat("<p>net asset value data</p>", 100) +
		"</body></html>"
}

func TestBlocked(t *testing.T) {
	page := fullPage()

	tests := []struct {
		name   string
		status int
		body   string
		want   bool
	}{
		{"forbidden", 403, page, true},
		{"rate limited", 429, page, true},
		{"tiny ok body", 200, "<html></html>", true},
		{"captcha interstitial", 200, page + "please solve this CAPTCHA to continue", true},
		{"unusual traffic notice", 200, page + "we detected Unusual Traffic from your network", true},
		{"full page", 200, page, false},
		{"server error passes through", 500, page, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, blocked(tt.status, tt.body))
		})
	}
}

func TestIsHTML(t *testing.T) {
	assert.True(t, isHTML("text/html; charset=utf-8", ""))
	assert.True(t, isHTML("application/xhtml+xml", ""))
	assert.True(t, isHTML("", "<!DOCTYPE html><html><body>hi</body></html>"))
	assert.False(t, isHTML("application/json", `{"nav": 45.67}`))
}

func TestBreakerTripsAfterConsecutiveFailures(t *testing.T) {
	b := NewHostBreaker(3, time.Minute)
	host := "funds.example.com"

	for i := 0; i < 2; i++ {
		require.NoError(t, b.Allow(host))
		b.Record(host, false)
	}
	require.NoError(t, b.Allow(host))
	b.Record(host, false)

	assert.True(t, b.Open(host))
	assert.ErrorIs(t, b.Allow(host), ErrHostOpen)
}

func TestBreakerSuccessResetsCount(t *testing.T) {
	b := NewHostBreaker(3, time.Minute)
	host := "funds.example.com"

	b.Record(host, false)
	b.Record(host, false)
	b.Record(host, true)
	b.Record(host, false)
	b.Record(host, false)

	assert.False(t, b.Open(host))
	assert.NoError(t, b.Allow(host))
}

func TestBreakerIsPerHost(t *testing.T) {
	b := NewHostBreaker(3, time.Minute)

	for i := 0; i < 3; i++ {
		b.Record("blocked.example.com", false)
	}

	assert.ErrorIs(t, b.Allow("blocked.example.com"), ErrHostOpen)
	assert.NoError(t, b.Allow("healthy.example.com"))
}

func TestBreakerHalfOpenProbe(t *testing.T) {
	b := NewHostBreaker(3, 50*time.Millisecond)
	host := "funds.example.com"

	for i := 0; i < 3; i++ {
		b.Record(host, false)
	}
	require.ErrorIs(t, b.Allow(host), ErrHostOpen)

	time.Sleep(100 * time.Millisecond)

	// One probe is let through after the cooldown, further requests
	// wait for its outcome.
	require.NoError(t, b.Allow(host))
	assert.ErrorIs(t, b.Allow(host), ErrHostOpen)

	b.Record(host, true)
	assert.NoError(t, b.Allow(host))
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	b := NewHostBreaker(3, 50*time.Millisecond)
	host := "funds.example.com"

	for i := 0; i < 3; i++ {
		b.Record(host, false)
	}
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, b.Allow(host))

	b.Record(host, false)

	assert.True(t, b.Open(host))
	assert.ErrorIs(t, b.Allow(host), ErrHostOpen)
}