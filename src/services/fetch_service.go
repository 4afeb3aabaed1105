package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"github.com/chapati23/morning-briefing/src/config"
	"github.com/chapati23/morning-briefing/src/logger"
	"github.com/chapati23/morning-briefing/src/metrics"
	"github.com/chapati23/morning-briefing/src/security/validation"
)

const ckHTMLBody = "html:%s"

// FetchOptions tunes the HTTP client, retries and rate limiting of the fetch service.
type FetchOptions struct {
	Timeout       time.Duration
	MaxRetries    int
	Backoff       time.Duration
	MaxBackoff    time.Duration
	RatePerSecond float64
	Burst         int
	UserAgent     string
	MaxBodyBytes  int64
	CacheTTL      time.Duration
}

// FetchOptionsFromConfig maps the application config onto FetchOptions.
func FetchOptionsFromConfig(cfg *config.AppConfig) FetchOptions {
	return FetchOptions{
		Timeout:       cfg.FetchTimeout,
		MaxRetries:    cfg.FetchMaxRetries,
		Backoff:       cfg.FetchBackoff,
		MaxBackoff:    cfg.FetchMaxBackoff,
		RatePerSecond: cfg.FetchRatePerSecond,
		Burst:         cfg.FetchBurst,
		UserAgent:     cfg.FetchUserAgent,
		MaxBodyBytes:  cfg.FetchMaxBodyBytes,
		CacheTTL:      cfg.HTMLCacheTTL,
	}
}

// --- Service Implementation ---

type fetchServiceImpl struct {
	httpClient http.Client
	limiter    *rate.Limiter
	htmlCache  *cache.Cache
	opts       FetchOptions
	metrics    *metrics.Metrics
}

// NewFetchService creates a Fetcher with a cookie-aware client. htmlCache may be shared with
// other services; m may be nil.
func NewFetchService(opts FetchOptions, htmlCache *cache.Cache, m *metrics.Metrics) Fetcher {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		logger.L.Error("Failed to create cookie jar", "error", err)
	}

	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 500 * time.Millisecond
	}
	if opts.MaxBackoff < opts.Backoff {
		opts.MaxBackoff = opts.Backoff
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}
	if htmlCache == nil {
		htmlCache = cache.New(opts.CacheTTL, 10*time.Minute)
	}

	return &fetchServiceImpl{
		httpClient: http.Client{Jar: jar, Timeout: opts.Timeout},
		limiter:    rate.NewLimiter(limit, opts.Burst),
		htmlCache:  htmlCache,
		opts:       opts,
		metrics:    m,
	}
}

// Fetch returns the body of url, from cache when fresh. Transport errors, 5xx, 408 and 429
// responses are retried with exponential backoff; other failures end the attempt loop at once.
func (s *fetchServiceImpl) Fetch(ctx context.Context, url string) (string, error) {
	cacheKey := fmt.Sprintf(ckHTMLBody, url)
	if cached, found := s.htmlCache.Get(cacheKey); found {
		logger.L.Debug("Serving fetched page from cache", "url", url)
		return cached.(string), nil
	}

	var lastErr error
	attempts := 0
	for attempt := 0; attempt <= s.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := s.backoff(attempt)
			logger.L.Warn("Retrying fetch", "url", url, "attempt", attempt+1, "wait", wait, "error", lastErr)
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %s: %v", ErrFetchFailed, url, ctx.Err())
			case <-time.After(wait):
			}
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: %s: rate limiter: %v", ErrFetchFailed, url, err)
		}

		attempts++
		body, retryable, err := s.fetchOnce(ctx, url)
		if err == nil {
			s.observe("ok")
			s.htmlCache.Set(cacheKey, body, s.opts.CacheTTL)
			return body, nil
		}
		lastErr = err
		if !retryable || ctx.Err() != nil {
			break
		}
		s.observe("retry")
	}

	s.observe("error")
	logger.L.Error("Fetch failed", "url", url, "attempts", attempts, "error", lastErr)
	return "", fmt.Errorf("%w: %s after %d attempt(s): %v", ErrFetchFailed, url, attempts, lastErr)
}

func (s *fetchServiceImpl) Invalidate(url string) {
	s.htmlCache.Delete(fmt.Sprintf(ckHTMLBody, url))
}

func (s *fetchServiceImpl) fetchOnce(ctx context.Context, url string) (body string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		retry := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusRequestTimeout
		return "", retry, fmt.Errorf("unexpected status %s", resp.Status)
	}

	reader := io.Reader(resp.Body)
	if s.opts.MaxBodyBytes > 0 {
		reader = io.LimitReader(resp.Body, s.opts.MaxBodyBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", true, fmt.Errorf("read body: %w", err)
	}
	if s.opts.MaxBodyBytes > 0 && int64(len(data)) > s.opts.MaxBodyBytes {
		return "", false, fmt.Errorf("body exceeds %d bytes", s.opts.MaxBodyBytes)
	}
	if _, err := validation.ValidateHTMLContent(data); err != nil {
		return "", false, err
	}
	return string(data), false, nil
}

// backoff doubles the base delay per retry, capped at MaxBackoff.
func (s *fetchServiceImpl) backoff(attempt int) time.Duration {
	d := s.opts.Backoff
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= s.opts.MaxBackoff {
			return s.opts.MaxBackoff
		}
	}
	return d
}

func (s *fetchServiceImpl) observe(outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveFetch(outcome)
	}
}
