package scraper

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Paragraphs this short are marker remnants or stray whitespace.
const minParagraphLength = 5

var multipleSpacesRegex = regexp.MustCompile(`[\s\p{Zs}]+`)

// textOf returns the text of the selection with whitespace collapsed and trimmed.
func textOf(s *goquery.Selection) string {
	return cleanText(s.Text())
}

func cleanText(text string) string {
	return strings.TrimSpace(multipleSpacesRegex.ReplaceAllString(text, " "))
}

func longEnough(text string) bool {
	return utf8.RuneCountInString(text) > minParagraphLength
}

// resolveURL makes href absolute against base; unparsable values resolve to "".
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)

	if href == "" {
		return ""
	}

	ref, err := url.Parse(href)

	if err != nil {
		return ""
	}

	return base.ResolveReference(ref).String()
}
