package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/nDmitry/iainsufeed/internal/entity"
)

const (
	browserTimeout = 60 * time.Second
	timezone       = "Asia/Jakarta"
	locale         = "id-ID"
)

// Runs before any page script to hide the usual automation giveaways.
const stealthScript = `Object.defineProperty(navigator, 'webdriver', {get: () => undefined});
Object.defineProperty(navigator, 'languages', {get: () => ['id-ID', 'id', 'en-US', 'en']});
Object.defineProperty(navigator, 'plugins', {get: () => [1, 2, 3, 4, 5]});
window.chrome = window.chrome || {runtime: {}};`

type BrowserOptions struct {
	UserAgent string
	// Chrome binary, empty uses the one found in PATH.
	ExecPath string
	Proxy    entity.Proxy
	Timeout  time.Duration
}

// BrowserTransport renders pages in a single headless Chrome tab that lives
// until Close is called.
type BrowserTransport struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	timeout     time.Duration
}

func NewBrowserTransport(ctx context.Context, opts BrowserOptions) (*BrowserTransport, error) {
	userAgent := opts.UserAgent

	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(userAgent),
		chromedp.WindowSize(1366, 768),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("lang", locale),
	)

	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	if opts.Proxy.Enabled() {
		allocOpts = append(allocOpts, chromedp.ProxyServer(opts.Proxy.Server()))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)

	t := &BrowserTransport{
		ctx:         browserCtx,
		cancel:      cancel,
		allocCancel: allocCancel,
		timeout:     opts.Timeout,
	}

	if t.timeout <= 0 {
		t.timeout = browserTimeout
	}

	actions := []chromedp.Action{
		emulation.SetTimezoneOverride(timezone),
		emulation.SetLocaleOverride().WithLocale(locale),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
			return err
		}),
	}

	if opts.Proxy.Enabled() && opts.Proxy.HasCredentials() {
		chromedp.ListenTarget(browserCtx, proxyAuthListener(browserCtx, opts.Proxy))
		actions = append(actions, fetch.Enable().WithHandleAuthRequests(true))
	}

	if err := chromedp.Run(browserCtx, actions...); err != nil {
		t.Close()
		return nil, fmt.Errorf("could not start browser: %w", err)
	}

	return t, nil
}

func (t *BrowserTransport) Get(ctx context.Context, url string) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runCtx, cancel := runContext(ctx, t.ctx, t.timeout)
	defer cancel()

	resp, err := chromedp.RunResponse(runCtx, chromedp.Navigate(url))

	if err != nil {
		return nil, fmt.Errorf("could not navigate to %s: %w", url, err)
	}

	if resp == nil {
		return nil, fmt.Errorf("no response received from %s", url)
	}

	html, err := t.outerHTML(runCtx)

	if err != nil {
		return nil, err
	}

	return &Page{StatusCode: int(resp.Status), Body: html}, nil
}

// Rendered returns the current document of the tab.
func (t *BrowserTransport) Rendered(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	runCtx, cancel := runContext(ctx, t.ctx, t.timeout)
	defer cancel()

	return t.outerHTML(runCtx)
}

// Close shuts the browser down.
func (t *BrowserTransport) Close() error {
	t.cancel()
	t.allocCancel()

	return nil
}

// runContext derives a per-call context from the browser session that is also
// cancelled as soon as the caller's ctx is done.
func runContext(ctx, session context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithTimeout(session, timeout)
	stop := context.AfterFunc(ctx, cancel)

	return runCtx, func() {
		stop()
		cancel()
	}
}

func (t *BrowserTransport) outerHTML(ctx context.Context) (string, error) {
	var html string

	if err := chromedp.Run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("could not read page markup: %w", err)
	}

	return html, nil
}

// proxyAuthListener answers proxy authentication challenges. With the Fetch
// domain enabled every request is paused and has to be continued explicitly.
func proxyAuthListener(ctx context.Context, proxy entity.Proxy) func(ev interface{}) {
	return func(ev interface{}) {
		switch ev := ev.(type) {
		case *fetch.EventRequestPaused:
			go func() {
				execCtx := cdp.WithExecutor(ctx, chromedp.FromContext(ctx).Target)
				_ = fetch.ContinueRequest(ev.RequestID).Do(execCtx)
			}()
		case *fetch.EventAuthRequired:
			go func() {
				execCtx := cdp.WithExecutor(ctx, chromedp.FromContext(ctx).Target)
				_ = fetch.ContinueWithAuth(ev.RequestID, &fetch.AuthChallengeResponse{
					Response: fetch.AuthChallengeResponseResponseProvideCredentials,
					Username: proxy.Username,
					Password: proxy.Password,
				}).Do(execCtx)
			}()
		}
	}
}
