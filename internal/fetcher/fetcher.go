// Package fetcher retrieves page markup, retrying transient failures and
// tolerating bot challenges, over a pluggable transport.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nDmitry/iainsufeed/internal/app"
)

const (
	DefaultRetries       = 3
	DefaultDelay         = 2 * time.Second
	DefaultChallengeWait = 10 * time.Second
)

// ErrUnavailable is returned once every attempt to fetch a page has failed.
var ErrUnavailable = errors.New("page unavailable")

// DefaultChallengeMarkers are looked for in a rendered page after a challenge
// response; any of them means the real content has loaded.
var DefaultChallengeMarkers = []string{"<article"}

// Page is a single transport response.
type Page struct {
	StatusCode int
	Body       string
}

// Transport performs one GET request.
type Transport interface {
	Get(ctx context.Context, url string) (*Page, error)
	Close() error
}

// Rechecker is implemented by transports that keep the last page rendered
// and can read it again, e.g. after a challenge script has run.
type Rechecker interface {
	Rendered(ctx context.Context) (string, error)
}

type Options struct {
	Retries int
	// Base delay; attempts are spaced by twice this value.
	Delay            time.Duration
	ChallengeWait    time.Duration
	ChallengeMarkers []string
	Logger           *slog.Logger
	// Sleep defaults to app.Sleep.
	Sleep func(ctx context.Context, d time.Duration) error
}

type Fetcher struct {
	transport     Transport
	retries       int
	delay         time.Duration
	challengeWait time.Duration
	markers       []string
	logger        *slog.Logger
	sleep         func(ctx context.Context, d time.Duration) error
}

func New(transport Transport, opts Options) *Fetcher {
	f := &Fetcher{
		transport:     transport,
		retries:       opts.Retries,
		delay:         opts.Delay,
		challengeWait: opts.ChallengeWait,
		markers:       opts.ChallengeMarkers,
		logger:        opts.Logger,
		sleep:         opts.Sleep,
	}

	if f.retries <= 0 {
		f.retries = DefaultRetries
	}

	if len(f.markers) == 0 {
		f.markers = DefaultChallengeMarkers
	}

	if f.logger == nil {
		f.logger = app.Logger()
	}

	if f.sleep == nil {
		f.sleep = app.Sleep
	}

	return f
}

// Fetch returns the markup of url. After the retry budget is spent it returns
// an error wrapping ErrUnavailable; callers should skip the resource.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	for attempt := 1; attempt <= f.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		f.logger.Debug("Fetching page", "url", url, "attempt", attempt)

		body, err := f.attempt(ctx, url)

		if err == nil {
			f.logger.Info("Fetched page", "url", url, "chars", utf8.RuneCountInString(body))
			return body, nil
		}

		f.logger.Warn("Fetch attempt failed",
			"url", url,
			"attempt", attempt,
			"retries", f.retries,
			"error", err)

		if attempt < f.retries {
			if err := f.sleep(ctx, 2*f.delay); err != nil {
				return "", err
			}
		}
	}

	return "", fmt.Errorf("%w: %s after %d attempts", ErrUnavailable, url, f.retries)
}

// Close releases the underlying transport.
func (f *Fetcher) Close() error {
	return f.transport.Close()
}

func (f *Fetcher) attempt(ctx context.Context, url string) (string, error) {
	page, err := f.transport.Get(ctx, url)

	if err != nil {
		return "", err
	}

	switch page.StatusCode {
	case http.StatusOK:
		return page.Body, nil
	case http.StatusForbidden, http.StatusServiceUnavailable:
		if rc, ok := f.transport.(Rechecker); ok {
			return f.awaitChallenge(ctx, rc, page.StatusCode)
		}
	}

	return "", fmt.Errorf("unexpected status code: %d", page.StatusCode)
}

func (f *Fetcher) awaitChallenge(ctx context.Context, rc Rechecker, status int) (string, error) {
	f.logger.Info("Bot challenge detected, waiting for it to resolve",
		"status", status,
		"wait", f.challengeWait.String())

	if err := f.sleep(ctx, f.challengeWait); err != nil {
		return "", err
	}

	html, err := rc.Rendered(ctx)

	if err != nil {
		return "", fmt.Errorf("could not read rendered page: %w", err)
	}

	if !challengeResolved(html, f.markers) {
		return "", fmt.Errorf("challenge unresolved after status %d", status)
	}

	f.logger.Info("Bot challenge passed", "status", status)

	return html, nil
}

func challengeResolved(html string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(html, m) {
			return true
		}
	}

	return false
}
