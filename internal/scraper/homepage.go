package scraper

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nDmitry/iainsufeed/internal/entity"
)

const homepageLinkSelector = "article h3 a"

// ParseHomepage collects article stubs in document order. Links are resolved
// against baseURL and de-duplicated, the first occurrence wins. At most limit
// stubs are returned; limit <= 0 means no limit.
func ParseHomepage(html string, baseURL string, limit int) ([]entity.ArticleStub, error) {
	base, err := url.Parse(baseURL)

	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))

	if err != nil {
		return nil, fmt.Errorf("could not parse homepage: %w", err)
	}

	var stubs []entity.ArticleStub
	seen := make(map[string]bool)

	doc.Find(homepageLinkSelector).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if limit > 0 && len(stubs) >= limit {
			return false
		}

		title := textOf(a)
		link := resolveURL(base, a.AttrOr("href", ""))

		if title == "" || link == "" || seen[link] {
			return true
		}

		seen[link] = true

		thumb, _ := a.Closest("article").Find("img").First().Attr("src")

		stubs = append(stubs, entity.ArticleStub{
			Title:     title,
			Link:      link,
			Thumbnail: resolveURL(base, thumb),
		})

		return true
	})

	return stubs, nil
}
