package scraper

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nDmitry/iainsufeed/internal/entity"
	"github.com/nDmitry/iainsufeed/internal/pubdate"
)

// DefaultCategory labels every article; the site has no taxonomy of its own.
const DefaultCategory = "Artikel"

// Separates the date phrase from the reporter name, e.g.
// "Rabu, 25 Februari 2026 oleh journal".
const reporterSeparator = " oleh "

// ErrNoContainer is returned when an article page has no content container.
var ErrNoContainer = errors.New("article content container not found")

// ParseArticle extracts an article from its page. Link is left for the caller to set.
func ParseArticle(html string, category string) (*entity.Article, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))

	if err != nil {
		return nil, fmt.Errorf("could not parse article page: %w", err)
	}

	container := findContainer(doc)

	if container == nil {
		return nil, ErrNoContainer
	}

	if category == "" {
		category = DefaultCategory
	}

	datePhrase, reporter := splitMeta(textOf(container.Find("p small em").First()))

	return &entity.Article{
		Title:     textOf(container.Find("h1").First()),
		Reporter:  reporter,
		Published: pubdate.Parse(datePhrase),
		ImageURL:  heroImage(doc, container),
		Body:      ExtractContent(container),
		Category:  category,
		Tags:      []string{},
	}, nil
}

// HasContainer reports whether the page holds an article container that
// ParseArticle can work with.
func HasContainer(html string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))

	return err == nil && findContainer(doc) != nil
}

func findContainer(doc *goquery.Document) *goquery.Selection {
	if s := doc.Find("article#article_content").First(); s.Length() > 0 {
		return s
	}

	if s := doc.Find("article").First(); s.Length() > 0 {
		return s
	}

	return nil
}

// splitMeta splits the byline into the date phrase and the reporter name.
// Without the separator the whole text is the date phrase.
func splitMeta(text string) (datePhrase string, reporter string) {
	before, after, found := strings.Cut(text, reporterSeparator)

	if !found {
		return text, ""
	}

	return strings.TrimSpace(before), strings.TrimSpace(after)
}

func heroImage(doc *goquery.Document, container *goquery.Selection) string {
	if og := strings.TrimSpace(doc.Find(`meta[property="og:image"]`).First().AttrOr("content", "")); og != "" {
		return og
	}

	return strings.TrimSpace(container.Find("img.v-cover").First().AttrOr("src", ""))
}
