package fetcher

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/nDmitry/iainsufeed/internal/entity"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"
	acceptHeader     = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptLanguage   = "id-ID,id;q=0.9,en-US;q=0.8,en;q=0.7"
	requestTimeout   = 30 * time.Second
)

var httpTransport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 60 * time.Second,
	}).DialContext,
	MaxIdleConns:        100,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     90 * time.Second,
	TLSHandshakeTimeout: 10 * time.Second,
	DisableCompression:  false,
}

type HTTPOptions struct {
	UserAgent string
	Proxy     entity.Proxy
	Timeout   time.Duration
}

// HTTPTransport fetches pages with a plain HTTP client driven by colly.
type HTTPTransport struct {
	collector *colly.Collector
}

func NewHTTPTransport(opts HTTPOptions) (*HTTPTransport, error) {
	userAgent := opts.UserAgent

	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	options := []colly.CollectorOption{
		colly.UserAgent(userAgent),
		// Retries revisit the same URL.
		colly.AllowURLRevisit(),
		// Hand non-2xx responses to OnResponse so the status can be inspected.
		colly.ParseHTTPErrorResponse(),
	}

	c := colly.NewCollector(options...)
	c.WithTransport(httpTransport.Clone())

	timeout := opts.Timeout

	if timeout <= 0 {
		timeout = requestTimeout
	}

	c.SetRequestTimeout(timeout)

	if opts.Proxy.Enabled() {
		if err := c.SetProxy(opts.Proxy.URL()); err != nil {
			return nil, fmt.Errorf("could not set proxy: %w", err)
		}
	}

	return &HTTPTransport{collector: c}, nil
}

func (t *HTTPTransport) Get(ctx context.Context, url string) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var page *Page

	// A clone shares the HTTP backend but starts without callbacks.
	c := t.collector.Clone()

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", acceptHeader)
		r.Headers.Set("Accept-Language", acceptLanguage)
	})

	c.OnResponse(func(r *colly.Response) {
		page = &Page{StatusCode: r.StatusCode, Body: string(r.Body)}
	})

	if err := c.Visit(url); err != nil {
		return nil, fmt.Errorf("could not visit %s: %w", url, err)
	}

	if page == nil {
		return nil, fmt.Errorf("no response received from %s", url)
	}

	return page, nil
}

func (t *HTTPTransport) Close() error {
	return nil
}
