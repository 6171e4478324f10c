package scraper

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/nDmitry/iainsufeed/internal/entity"
)

// ExtractContent converts the direct children of the article container into
// content blocks, keeping document order.
func ExtractContent(container *goquery.Selection) []entity.ContentBlock {
	var blocks []entity.ContentBlock

	firstParagraph := true

	container.Children().Each(func(_ int, el *goquery.Selection) {
		switch goquery.NodeName(el) {
		case "p":
			isFirst := firstParagraph
			firstParagraph = false

			// The byline paragraph is metadata, not body
			if isFirst && el.Find("small em").Length() > 0 {
				return
			}

			if text := textOf(el); longEnough(text) {
				blocks = append(blocks, entity.Paragraph(text))
			}
		case "h2", "h3":
			if text := textOf(el); text != "" {
				blocks = append(blocks, entity.ContentBlock{Kind: entity.BlockHeading, Text: text})
			}
		case "h4", "h5", "h6":
			if text := textOf(el); text != "" {
				blocks = append(blocks, entity.ContentBlock{Kind: entity.BlockSubheading, Text: text})
			}
		case "ol":
			blocks = append(blocks, orderedList(el)...)
		case "ul":
			blocks = append(blocks, unorderedList(el)...)
		}
		// h1 is the title, center wraps a copy of the hero image and section
		// holds related posts; those and anything else are dropped.
	})

	return blocks
}

func orderedList(list *goquery.Selection) []entity.ContentBlock {
	var blocks []entity.ContentBlock

	list.ChildrenFiltered("li").Each(func(i int, li *goquery.Selection) {
		if title := textOf(li.Find("strong").First()); title != "" {
			blocks = append(blocks, entity.ContentBlock{
				Kind:  entity.BlockNumberedTitle,
				Text:  title,
				Index: i + 1,
			})
		}

		li.Find("p").Each(func(_ int, p *goquery.Selection) {
			if text := textOf(p); longEnough(text) {
				blocks = append(blocks, entity.Paragraph(text))
			}
		})
	})

	return blocks
}

func unorderedList(list *goquery.Selection) []entity.ContentBlock {
	var blocks []entity.ContentBlock

	list.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		if text := textOf(li); text != "" {
			blocks = append(blocks, entity.ContentBlock{Kind: entity.BlockBullet, Text: text})
		}
	})

	return blocks
}
