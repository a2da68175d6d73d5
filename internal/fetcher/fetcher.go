// Package fetcher retrieves JSON documents over HTTP with bounded retries.
package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

const (
	defaultUserAgent   = "chess-schema-crawler/1.0 (+https://github.com/JakeFAU/chess-schema-crawler)"
	defaultTimeout     = 20 * time.Second
	defaultMaxAttempts = 3
)

// Config controls collector and retry behavior.
type Config struct {
	UserAgent     string
	Timeout       time.Duration
	MaxAttempts   int
	MaxBodyBytes  int
	RespectRobots bool

	// RetryHook, when set, observes every backoff: the failing URL, the
	// 1-based attempt that failed, the wait before the next attempt, and
	// the cause.
	RetryHook func(url string, attempt int, wait time.Duration, err error)
}

// Client fetches URLs through a Colly collector, retrying failed attempts
// per its retry policy.
type Client struct {
	cfg           Config
	retry         RetryPolicy
	baseCollector *colly.Collector
	logger        *zap.Logger
	sleep         func(ctx context.Context, d time.Duration)
}

// New builds a Client. Zero config fields fall back to defaults.
func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = defaultMaxAttempts
	}

	c := colly.NewCollector(
		colly.Async(false),
		colly.UserAgent(cfg.UserAgent),
	)
	// Retries revisit the same URL; colly must not dedupe them.
	c.AllowURLRevisit = true
	c.IgnoreRobotsTxt = !cfg.RespectRobots
	c.MaxBodySize = cfg.MaxBodyBytes
	c.SetRequestTimeout(cfg.Timeout)
	c.WithTransport(newHTTPTransport())

	return &Client{
		cfg:           cfg,
		retry:         NewLinearRetryPolicy(cfg.MaxAttempts),
		baseCollector: c,
		logger:        logger,
		sleep:         sleepContext,
	}
}

// Fetch executes HTTP GETs against url until one succeeds or the attempt
// budget runs out, returning the raw body or a *NetworkError.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	var (
		attempts int
		lastErr  error
	)
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		attempts = attempt
		body, err := c.fetchOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !c.retry.ShouldRetry(err, attempt) || ctx.Err() != nil {
			break
		}
		wait := c.retry.Backoff(attempt)
		if c.cfg.RetryHook != nil {
			c.cfg.RetryHook(url, attempt, wait, err)
		}
		c.logger.Warn("Fetch attempt failed; backing off",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", wait),
			zap.Error(err),
		)
		c.sleep(ctx, wait)
	}
	return nil, &NetworkError{URL: url, Attempts: attempts, Err: lastErr}
}

// FetchJSON fetches url and decodes the body into an untyped document.
// Invalid UTF-8 or malformed JSON yields a *DecodeError.
func (c *Client) FetchJSON(ctx context.Context, url string) (any, error) {
	raw, err := c.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(raw) {
		return nil, &DecodeError{URL: url, Err: errors.New("body is not valid UTF-8")}
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, &DecodeError{URL: url, Err: err}
	}
	return decoded, nil
}

func (c *Client) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	collector := c.baseCollector.Clone()

	var (
		body     []byte
		fetchErr error
	)
	collector.OnResponse(func(r *colly.Response) {
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return nil, fmt.Errorf("visit %s: %w", url, err)
		}
		if fetchErr != nil {
			return nil, fmt.Errorf("request %s: %w", url, fetchErr)
		}
	}
	return body, nil
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
