package feed

import (
	"fmt"
	"html"
	"strings"

	"github.com/nDmitry/iainsufeed/internal/entity"
)

const (
	reporterLabel = "Penulis:"
	bulletGlyph   = "• "
)

// ItemHTML renders the HTML body of a feed item: hero image, reporter, then
// the content blocks in order, one element per line.
func ItemHTML(a entity.Article) string {
	var b strings.Builder

	if a.ImageURL != "" {
		fmt.Fprintf(&b, `<p><img src="%s" alt="%s" style="max-width:100%%;" /></p>`+"\n",
			html.EscapeString(a.ImageURL),
			html.EscapeString(a.Title))
	}

	if a.Reporter != "" {
		fmt.Fprintf(&b, "<p><strong>%s</strong> %s</p>\n", reporterLabel, html.EscapeString(a.Reporter))
	}

	for _, block := range a.Body {
		b.WriteString(BlockHTML(block))
		b.WriteByte('\n')
	}

	return b.String()
}

// BlockHTML renders a single content block.
func BlockHTML(block entity.ContentBlock) string {
	text := html.EscapeString(block.Text)

	switch block.Kind {
	case entity.BlockHeading:
		return "<h3>" + text + "</h3>"
	case entity.BlockSubheading:
		return "<h4>" + text + "</h4>"
	case entity.BlockNumberedTitle:
		return fmt.Sprintf("<p><strong>%d. %s</strong></p>", block.Index, text)
	case entity.BlockBullet:
		return "<p>" + bulletGlyph + text + "</p>"
	default:
		return "<p>" + text + "</p>"
	}
}
