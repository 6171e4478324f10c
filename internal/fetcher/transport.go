package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/nDmitry/iainsufeed/internal/entity"
)

// NewTransport builds the transport selected by cfg.Transport.
func NewTransport(ctx context.Context, cfg *entity.Config) (Transport, error) {
	switch cfg.Transport {
	case entity.TransportBrowser:
		return NewBrowserTransport(ctx, BrowserOptions{
			UserAgent: cfg.UserAgent,
			ExecPath:  cfg.ChromePath,
			Proxy:     cfg.Proxy,
		})
	case entity.TransportHTTP, "":
		// Redirects to other hosts are followed.
		return NewHTTPTransport(HTTPOptions{
			UserAgent: cfg.UserAgent,
			Proxy:     cfg.Proxy,
		})
	default:
		return nil, fmt.Errorf("unsupported transport: %s", cfg.Transport)
	}
}

// NewFromConfig wires a Fetcher with the retry settings of cfg.
func NewFromConfig(transport Transport, cfg *entity.Config) *Fetcher {
	return New(transport, Options{
		Retries:          cfg.Retries,
		Delay:            time.Duration(cfg.RequestDelay) * time.Second,
		ChallengeWait:    time.Duration(cfg.ChallengeWait) * time.Second,
		ChallengeMarkers: cfg.ChallengeMarkers,
	})
}
