package feed

import (
	"encoding/xml"
	"fmt"

	"github.com/nDmitry/iainsufeed/internal/pubdate"
)

const (
	nsDublinCore = "http://purl.org/dc/elements/1.1/"
	nsContent    = "http://purl.org/rss/1.0/modules/content/"
	nsAtom       = "http://www.w3.org/2005/Atom"
	nsMedia      = "http://search.yahoo.com/mrss/"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	DC      string     `xml:"xmlns:dc,attr"`
	Content string     `xml:"xmlns:content,attr"`
	Atom    string     `xml:"xmlns:atom,attr"`
	Media   string     `xml:"xmlns:media,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Description   string    `xml:"description"`
	Link          string    `xml:"link"`
	Language      string    `xml:"language"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Generator     string    `xml:"generator,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       cdata         `xml:"title"`
	Link        string        `xml:"link"`
	GUID        rssGUID       `xml:"guid"`
	PubDate     string        `xml:"pubDate"`
	Category    *cdata        `xml:"category,omitempty"`
	Media       *mediaContent `xml:"media:content,omitempty"`
	Description cdata         `xml:"description"`
	Content     cdata         `xml:"content:encoded"`
}

type cdata struct {
	Text string `xml:",cdata"`
}

type rssGUID struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type mediaContent struct {
	URL    string `xml:"url,attr"`
	Medium string `xml:"medium,attr"`
	Type   string `xml:"type,attr,omitempty"`
}

// RenderRSS renders the document as RSS 2.0. The item HTML goes verbatim into
// CDATA sections of both description and content:encoded.
func RenderRSS(doc *Document) ([]byte, error) {
	meta := doc.Meta

	rss := rssXML{
		Version: "2.0",
		DC:      nsDublinCore,
		Content: nsContent,
		Atom:    nsAtom,
		Media:   nsMedia,
		Channel: rssChannel{
			Title:         xmlSafe(meta.Title),
			Description:   xmlSafe(meta.Description),
			Link:          xmlSafe(meta.Link),
			Language:      meta.Language,
			LastBuildDate: pubdate.Format(doc.BuiltAt),
			Generator:     xmlSafe(meta.Generator),
		},
	}

	for _, a := range doc.Articles {
		id, isLink := guid(a)
		body := xmlSafe(ItemHTML(a))

		item := rssItem{
			Title:       cdata{Text: xmlSafe(itemTitle(a))},
			Link:        xmlSafe(a.Link),
			GUID:        rssGUID{IsPermaLink: "true", Value: xmlSafe(id)},
			PubDate:     pubdate.Format(published(a, doc.BuiltAt)),
			Description: cdata{Text: body},
			Content:     cdata{Text: body},
		}

		if !isLink && doc.StrictGUID {
			item.GUID.IsPermaLink = "false"
		}

		if a.Category != "" {
			item.Category = &cdata{Text: xmlSafe(a.Category)}
		}

		if a.ImageURL != "" {
			item.Media = &mediaContent{
				URL:    xmlSafe(a.ImageURL),
				Medium: "image",
				Type:   imageType(a.ImageURL),
			}
		}

		rss.Channel.Items = append(rss.Channel.Items, item)
	}

	data, err := xml.MarshalIndent(rss, "", "  ")

	if err != nil {
		return nil, fmt.Errorf("could not marshal feed to RSS: %w", err)
	}

	return append([]byte(xml.Header), data...), nil
}
