package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/nDmitry/iainsufeed/internal/cache"
	"github.com/nDmitry/iainsufeed/internal/entity"
	"github.com/nDmitry/iainsufeed/internal/feed"
	"github.com/nDmitry/iainsufeed/internal/fetcher"
	"github.com/nDmitry/iainsufeed/internal/publish"
	"github.com/nDmitry/iainsufeed/internal/pubdate"
	"github.com/nDmitry/iainsufeed/internal/scraper"
)

type publisher interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// job is one feed generation run: scrape, render, save, then the optional
// alternates and upload.
type job struct {
	cfg    *entity.Config
	logger *slog.Logger
	now    func() time.Time

	newTransport func(ctx context.Context, cfg *entity.Config) (fetcher.Transport, error)
	openCache    func(ctx context.Context, cfg *entity.Config) cache.Cache
	newPublisher func(ctx context.Context, cfg *entity.Config) (publisher, error)
}

func newJob(cfg *entity.Config, logger *slog.Logger) *job {
	j := &job{
		cfg:          cfg,
		logger:       logger,
		now:          pubdate.Now,
		newTransport: fetcher.NewTransport,
		newPublisher: func(ctx context.Context, cfg *entity.Config) (publisher, error) {
			return publish.NewS3(ctx, cfg.S3.Bucket, cfg.S3.Region)
		},
	}

	j.openCache = j.redisOrNop

	return j
}

func (j *job) Run(ctx context.Context) error {
	start := time.Now()
	cfg := j.cfg

	j.logger.Info("Starting feed generation",
		"title", cfg.Feed.Title,
		"output", cfg.OutputPath,
		"maxArticles", cfg.MaxArticles,
		"source", cfg.HomepageURL,
		"transport", cfg.Transport)

	if err := ensureOutputDir(cfg.OutputPath); err != nil {
		return fmt.Errorf("could not create output directory: %w", err)
	}

	j.warnAboutProxy()

	transport, err := j.newTransport(ctx, cfg)

	if err != nil {
		return fmt.Errorf("could not create %s transport: %w", cfg.Transport, err)
	}

	defer func() {
		if err := transport.Close(); err != nil {
			j.logger.Error("Failed to close transport", "error", err)
		}
	}()

	pages := fetcher.NewFromConfig(transport, cfg)
	var articles scraper.Source = pages

	if cfg.CacheTTL > 0 {
		c := j.openCache(ctx, cfg)
		defer c.Close()

		articles = fetcher.Cached(pages, c, time.Duration(cfg.CacheTTL)*time.Minute).
			WithValidator(scraper.HasContainer)
	}

	s := scraper.New(pages, articles, scraper.Options{
		HomepageURL: cfg.HomepageURL,
		BaseURL:     cfg.BaseURL,
		MaxArticles: cfg.MaxArticles,
		Delay:       time.Duration(cfg.RequestDelay) * time.Second,
		Category:    cfg.Category,
		Logger:      j.logger,
	})

	items, err := s.Scrape(ctx)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if errors.Is(err, scraper.ErrNoArticles) {
		j.logger.Warn("No articles found, the feed was not written", "error", err)
		return nil
	}

	if err != nil {
		return fmt.Errorf("could not scrape articles: %w", err)
	}

	doc := &feed.Document{
		Meta:       cfg.Feed.Meta(),
		Articles:   items,
		BuiltAt:    j.now(),
		StrictGUID: cfg.StrictGUID,
	}

	j.warnAboutGUIDs(doc)

	rss, err := feed.RenderRSS(doc)

	if err != nil {
		return err
	}

	if err := feed.Verify(rss, len(items)); err != nil {
		j.logger.Warn("Generated feed did not pass verification", "error", err)
	}

	if err := feed.Save(cfg.OutputPath, rss); err != nil {
		return err
	}

	uploads := []upload{{format: entity.FormatRSS, data: rss, contentType: contentTypes[entity.FormatRSS]}}
	uploads = append(uploads, j.writeAlternates(doc)...)

	j.publish(ctx, uploads)

	j.logger.Info("Feed generated",
		"articles", len(items),
		"output", cfg.OutputPath,
		"bytes", len(rss),
		"duration", time.Since(start).Round(time.Millisecond).String())

	return nil
}

func (j *job) warnAboutProxy() {
	p := j.cfg.Proxy

	switch {
	case !p.Enabled() && (p.Host != "" || p.Port != "" || p.HasCredentials()):
		j.logger.Warn("Proxy config is incomplete, requests go direct",
			"hostSet", p.Host != "",
			"portSet", p.Port != "")
	case !p.Enabled() && j.cfg.Transport == entity.TransportBrowser:
		j.logger.Warn("No proxy configured for the browser transport, requests go direct")
	case p.Enabled():
		j.logger.Info("Using proxy", "server", p.Server(), "auth", p.HasCredentials())
	}
}

func (j *job) warnAboutGUIDs(doc *feed.Document) {
	if doc.StrictGUID {
		return
	}

	for _, a := range doc.Articles {
		if a.Link == "" {
			j.logger.Warn("Article without link gets a digest GUID marked as permalink", "title", a.Title)
		}
	}
}

// upload is a rendered feed waiting to be published.
type upload struct {
	format      string
	data        []byte
	contentType string
}

var contentTypes = map[string]string{
	entity.FormatRSS:  publish.ContentTypeRSS,
	entity.FormatAtom: publish.ContentTypeAtom,
	entity.FormatJSON: publish.ContentTypeJSON,
}

// writeAlternates saves the configured Atom and JSON feeds and returns the
// ones that were written.
func (j *job) writeAlternates(doc *feed.Document) []upload {
	alternates := []struct {
		format string
		path   string
	}{
		{entity.FormatAtom, j.cfg.AtomPath},
		{entity.FormatJSON, j.cfg.JSONPath},
	}

	var written []upload

	for _, alt := range alternates {
		if alt.path == "" {
			continue
		}

		data, err := feed.Generate(doc, alt.format)

		if err != nil {
			j.logger.Error("Failed to generate feed", "format", alt.format, "error", err)
			continue
		}

		if err := feed.Save(alt.path, data); err != nil {
			j.logger.Error("Failed to save feed", "format", alt.format, "error", err)
			continue
		}

		j.logger.Info("Alternate feed written", "format", alt.format, "output", alt.path)

		written = append(written, upload{format: alt.format, data: data, contentType: contentTypes[alt.format]})
	}

	return written
}

func (j *job) publish(ctx context.Context, uploads []upload) {
	if j.cfg.S3.Bucket == "" {
		return
	}

	p, err := j.newPublisher(ctx, j.cfg)

	if err != nil {
		j.logger.Error("Failed to create S3 publisher", "error", err)
		return
	}

	for _, u := range uploads {
		key := objectKey(j.cfg.S3.Key, u.format)

		if err := p.Put(ctx, key, u.data, u.contentType); err != nil {
			j.logger.Error("Failed to publish feed", "format", u.format, "error", err)
			continue
		}

		j.logger.Info("Feed published", "bucket", j.cfg.S3.Bucket, "key", key)
	}
}

// objectKey derives the key of an alternate from the RSS key by swapping the
// extension, e.g. iainsu/feed.xml becomes iainsu/feed.atom.
func objectKey(rssKey, format string) string {
	if format == entity.FormatRSS {
		return rssKey
	}

	return strings.TrimSuffix(rssKey, path.Ext(rssKey)) + "." + format
}

// redisOrNop connects to Redis when an address is configured. Failures
// degrade to the no-op cache.
func (j *job) redisOrNop(ctx context.Context, cfg *entity.Config) cache.Cache {
	if cfg.RedisAddr == "" {
		return cache.Nop{}
	}

	c, err := cache.NewRedisClient(ctx, cfg.RedisAddr)

	if err != nil {
		j.logger.Warn("Redis is unavailable, page cache disabled", "addr", cfg.RedisAddr, "error", err)
		return cache.Nop{}
	}

	return c
}

func ensureOutputDir(outputPath string) error {
	return os.MkdirAll(filepath.Dir(outputPath), 0o755)
}
