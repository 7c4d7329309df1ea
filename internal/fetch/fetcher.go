// Package fetch downloads fund pages with retries, rate limiting and
// per-host circuit breaking.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fundsift/fundsift/internal/config"
	"github.com/fundsift/fundsift/internal/monitoring"
)

var (
	// ErrBlocked marks a response that looks like a bot wall rather
	// than a fund page.
	ErrBlocked = errors.New("fetch blocked by target")
	// ErrNotHTML marks a response whose content is not an HTML page.
	ErrNotHTML = errors.New("response is not html")
)

// Browser-shaped headers; fund pages serve stripped markup or a
// captcha interstitial to obvious bot agents.
var defaultHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
}

var blockedMarkers = []string{"captcha", "access denied", "unusual traffic", "are you a robot"}

// minPageSize is the smallest body plausibly holding a full fund page.
const minPageSize = 1000

// Fetcher wraps resty with rate limiting and a per-host breaker.
type Fetcher struct {
	client  *resty.Client
	limiter *rate.Limiter
	breaker *HostBreaker
	metrics *monitoring.Metrics
	log     *zap.Logger
}

// New builds a fetcher from cfg. metrics may be nil.
func New(cfg config.FetchConfig, log *zap.Logger, metrics *monitoring.Metrics) *Fetcher {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryMax
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.Logger = nil

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryMax).
		SetRetryWaitTime(cfg.RetryWaitMin).
		SetRetryMaxWaitTime(cfg.RetryWaitMax).
		SetTransport(retryClient.HTTPClient.Transport)
	// Resty only retries transport errors on its own; transient server
	// statuses need an explicit condition.
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return r.StatusCode() >= 500 && r.StatusCode() != 501
	})
	for k, v := range defaultHeaders {
		client.SetHeader(k, v)
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &Fetcher{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		breaker: NewHostBreaker(3, time.Minute),
		metrics: metrics,
		log:     log,
	}
}

// Fetch downloads one page and returns its HTML. Responses that fail
// the HTML or block heuristics return an error, never partial markup.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	start := time.Now()
	html, err := f.fetch(ctx, rawURL)
	if f.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		f.metrics.RecordFetch(status, time.Since(start))
	}
	return html, err
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	host := u.Hostname()

	if err := f.breaker.Allow(host); err != nil {
		return "", fmt.Errorf("%s: %w", host, err)
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	resp, err := f.client.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		f.breaker.Record(host, false)
		return "", fmt.Errorf("get %s: %w", rawURL, err)
	}

	body := resp.String()
	if blocked(resp.StatusCode(), body) {
		f.breaker.Record(host, false)
		f.log.Warn("fetch blocked",
			zap.String("url", rawURL),
			zap.Int("status", resp.StatusCode()),
			zap.Int("size", len(body)))
		return "", fmt.Errorf("%s: %w", rawURL, ErrBlocked)
	}
	if resp.StatusCode() != 200 {
		f.breaker.Record(host, false)
		return "", fmt.Errorf("get %s: status %d", rawURL, resp.StatusCode())
	}
	if !isHTML(resp.Header().Get("Content-Type"), body) {
		f.breaker.Record(host, false)
		return "", fmt.Errorf("%s: %w", rawURL, ErrNotHTML)
	}

	f.breaker.Record(host, true)
	f.log.Debug("page fetched", zap.String("url", rawURL), zap.Int("size", len(body)))
	return body, nil
}

// blocked decides whether a response is a bot wall. Small bodies and
// interstitial phrases both count; fund pages are never tiny.
func blocked(status int, body string) bool {
	if status == 403 || status == 429 {
		return true
	}
	if status == 200 && len(body) < minPageSize {
		return true
	}
	lower := strings.ToLower(body)
	for _, marker := range blockedMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func isHTML(contentType, body string) bool {
	if strings.Contains(strings.ToLower(contentType), "html") {
		return true
	}
	return mimetype.Detect([]byte(body)).Is("text/html")
}
