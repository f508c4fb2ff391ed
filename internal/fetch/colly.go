package fetch

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/agrilens/price-scraper/internal/ratelimit"
)

// CollyConfig controls collector behavior. An optional Limiter paces
// requests per domain on top of each adapter's own politeness delay.
type CollyConfig struct {
	UserAgent string
	Timeout   time.Duration
	Limiter   *ratelimit.Limiter
}

// Colly implements Fetcher using a Colly collector. Each Fetch clones the
// base collector so per-request headers and timeouts never leak between
// calls.
type Colly struct {
	cfg           CollyConfig
	transport     http.RoundTripper
	baseCollector *colly.Collector
}

// NewColly builds a Colly fetcher with a pooled HTTP transport.
func NewColly(cfg CollyConfig) *Colly {
	c := colly.NewCollector(colly.Async(false))
	transport := newHTTPTransport()
	c.WithTransport(transport)
	return &Colly{
		cfg:           cfg,
		transport:     transport,
		baseCollector: c,
	}
}

// Fetch executes a single HTTP GET and parses the response body.
func (f *Colly) Fetch(ctx context.Context, req Request) (*goquery.Document, error) {
	if f.cfg.Limiter != nil {
		if err := f.cfg.Limiter.Wait(ctx, req.URL); err != nil {
			return nil, err
		}
	}

	var (
		body     []byte
		status   int
		fetchErr error
	)

	collector := f.baseCollector.Clone()
	collector.WithTransport(f.transport)
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}
	timeout := req.Timeout
	if timeout == 0 {
		timeout = f.cfg.Timeout
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	collector.SetRequestTimeout(timeout)
	collector.IgnoreRobotsTxt = true

	collector.OnRequest(func(r *colly.Request) {
		for key, value := range req.Headers {
			r.Headers.Set(key, value)
		}
	})
	collector.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(req.URL)
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", req.URL, err)
		}
	}
	if fetchErr != nil {
		return nil, fmt.Errorf("fetch %s: %w", req.URL, fetchErr)
	}
	if status >= http.StatusBadRequest {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", req.URL, status)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", req.URL, err)
	}
	return doc, nil
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
