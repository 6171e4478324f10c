package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nDmitry/iainsufeed/internal/app"
	"github.com/nDmitry/iainsufeed/internal/entity"
	"github.com/nDmitry/iainsufeed/internal/pubdate"
)

const (
	DefaultMaxArticles = 10
	DefaultDelay       = 2 * time.Second
	// PlaceholderBody stands in for the body of an article that could not be fetched.
	PlaceholderBody = "(Konten tidak dapat diambil)"
)

// ErrNoArticles is returned when the homepage yields no article stubs.
var ErrNoArticles = errors.New("no articles found on the homepage")

// Source returns the markup of a URL.
type Source interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type Options struct {
	HomepageURL string
	// Relative article links are resolved against it, defaults to HomepageURL.
	BaseURL     string
	MaxArticles int
	// Pause between two article fetches.
	Delay    time.Duration
	Category string
	Logger   *slog.Logger
	// Sleep defaults to app.Sleep.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Scraper walks the homepage and its articles one at a time.
type Scraper struct {
	homepage    Source
	articles    Source
	homepageURL string
	baseURL     string
	maxArticles int
	delay       time.Duration
	category    string
	logger      *slog.Logger
	sleep       func(ctx context.Context, d time.Duration) error
}

// New creates a scraper. The homepage and article pages may come from
// different sources, e.g. to cache articles but not the homepage.
func New(homepage Source, articles Source, opts Options) *Scraper {
	s := &Scraper{
		homepage:    homepage,
		articles:    articles,
		homepageURL: opts.HomepageURL,
		baseURL:     opts.BaseURL,
		maxArticles: opts.MaxArticles,
		delay:       opts.Delay,
		category:    opts.Category,
		logger:      opts.Logger,
		sleep:       opts.Sleep,
	}

	if s.baseURL == "" {
		s.baseURL = s.homepageURL
	}

	if s.maxArticles <= 0 {
		s.maxArticles = DefaultMaxArticles
	}

	if s.category == "" {
		s.category = DefaultCategory
	}

	if s.logger == nil {
		s.logger = app.Logger()
	}

	if s.sleep == nil {
		s.sleep = app.Sleep
	}

	return s
}

// Scrape returns the homepage articles in homepage order. Articles that cannot
// be fetched or parsed are replaced with placeholders; only a homepage without
// articles is an error (ErrNoArticles).
func (s *Scraper) Scrape(ctx context.Context) ([]entity.Article, error) {
	s.logger.Info("Scraping homepage", "url", s.homepageURL)

	html, err := s.homepage.Fetch(ctx, s.homepageURL)

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoArticles, err)
	}

	stubs, err := ParseHomepage(html, s.baseURL, s.maxArticles)

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoArticles, err)
	}

	if len(stubs) == 0 {
		return nil, ErrNoArticles
	}

	s.logger.Info("Found articles on the homepage", "count", len(stubs))

	articles := make([]entity.Article, 0, len(stubs))

	for i, stub := range stubs {
		if i > 0 {
			if err := s.sleep(ctx, s.delay); err != nil {
				return nil, err
			}
		}

		s.logger.Info("Processing article",
			"index", i+1,
			"total", len(stubs),
			"url", stub.Link)

		articles = append(articles, s.scrapeArticle(ctx, stub))
	}

	return articles, nil
}

func (s *Scraper) scrapeArticle(ctx context.Context, stub entity.ArticleStub) entity.Article {
	html, err := s.articles.Fetch(ctx, stub.Link)

	if err != nil {
		s.logger.Warn("Could not fetch article, using placeholder", "url", stub.Link, "error", err)
		return s.placeholder(stub)
	}

	article, err := ParseArticle(html, s.category)

	if err != nil {
		s.logger.Warn("Could not parse article, using placeholder", "url", stub.Link, "error", err)
		return s.placeholder(stub)
	}

	article.Link = stub.Link

	if article.Title == "" {
		article.Title = stub.Title
	}

	if article.ImageURL == "" {
		article.ImageURL = stub.Thumbnail
	}

	return *article
}

func (s *Scraper) placeholder(stub entity.ArticleStub) entity.Article {
	return entity.Article{
		Title:     stub.Title,
		Link:      stub.Link,
		Published: pubdate.Now(),
		ImageURL:  stub.Thumbnail,
		Body:      []entity.ContentBlock{entity.Paragraph(PlaceholderBody)},
		Category:  s.category,
		Tags:      []string{},
	}
}
