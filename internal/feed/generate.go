package feed

import (
	"fmt"

	"github.com/gorilla/feeds"
	"github.com/nDmitry/iainsufeed/internal/entity"
)

// Generate renders the document in the given format. RSS goes through
// RenderRSS; Atom and JSON are produced by gorilla/feeds.
func Generate(doc *Document, format string) ([]byte, error) {
	if format == entity.FormatRSS {
		return RenderRSS(doc)
	}

	meta := doc.Meta

	feed := &feeds.Feed{
		Title:       meta.Title,
		Description: meta.Description,
		Link:        &feeds.Link{Href: meta.Link},
		Id:          meta.Link,
		Updated:     doc.BuiltAt,
	}

	for _, a := range doc.Articles {
		id, _ := guid(a)
		created := published(a, doc.BuiltAt)

		item := &feeds.Item{
			Id:          id,
			Title:       itemTitle(a),
			Link:        &feeds.Link{Href: a.Link},
			Description: entity.FlattenBlocks(a.Body),
			Content:     ItemHTML(a),
			Created:     created,
		}

		if a.Reporter != "" {
			item.Author = &feeds.Author{Name: a.Reporter}
		}

		if a.ImageURL != "" {
			item.Enclosure = &feeds.Enclosure{
				Url:    a.ImageURL,
				Type:   imageType(a.ImageURL),
				Length: "0",
			}
		}

		feed.Items = append(feed.Items, item)

		if feed.Created.IsZero() || created.After(feed.Created) {
			feed.Created = created
		}
	}

	var content string
	var err error

	switch format {
	case entity.FormatAtom:
		content, err = feed.ToAtom()
	case entity.FormatJSON:
		content, err = feed.ToJSON()
	default:
		return nil, fmt.Errorf("unsupported feed format: %s", format)
	}

	if err != nil {
		return nil, fmt.Errorf("could not marshal feed to %s: %w", format, err)
	}

	return []byte(content), nil
}
