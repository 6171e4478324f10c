package entity

import (
	"fmt"
	"strings"
	"time"
)

// ArticleStub is a homepage reference to an article before its page is fetched.
type ArticleStub struct {
	Title string
	// Absolute URL of the article page.
	Link      string
	Thumbnail string
}

type Article struct {
	Title    string
	Link     string
	Reporter string
	// Publication time in WIB (UTC+7).
	Published time.Time
	ImageURL  string
	Body      []ContentBlock
	Category  string
	// Always empty, the site has no tags.
	Tags []string
}

type BlockKind int

const (
	BlockParagraph BlockKind = iota
	// h2 and h3
	BlockHeading
	// h4 to h6
	BlockSubheading
	// Bold lead phrase of an ordered list item.
	BlockNumberedTitle
	BlockBullet
)

// ContentBlock is one semantic unit of an article body.
type ContentBlock struct {
	Kind BlockKind
	Text string
	// 1-based position inside the ordered list, only set for BlockNumberedTitle.
	Index int
}

func Paragraph(text string) ContentBlock {
	return ContentBlock{Kind: BlockParagraph, Text: text}
}

// Flatten renders the block as its intermediate text form.
func (b ContentBlock) Flatten() string {
	switch b.Kind {
	case BlockHeading:
		return "### " + b.Text
	case BlockSubheading:
		return "#### " + b.Text
	case BlockNumberedTitle:
		return fmt.Sprintf("**%d. %s**", b.Index, b.Text)
	case BlockBullet:
		return "• " + b.Text
	default:
		return b.Text
	}
}

// FlattenBlocks joins blocks with a blank line between them.
func FlattenBlocks(blocks []ContentBlock) string {
	parts := make([]string, 0, len(blocks))

	for _, b := range blocks {
		parts = append(parts, b.Flatten())
	}

	return strings.Join(parts, "\n\n")
}
