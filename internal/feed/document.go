package feed

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"

	"github.com/nDmitry/iainsufeed/internal/entity"
)

// Title used for articles that have none.
const untitled = "Tanpa Judul"

// Document is everything rendered into one feed file.
type Document struct {
	Meta     entity.FeedMeta
	Articles []entity.Article
	BuiltAt  time.Time
	// StrictGUID marks digest based GUIDs as non-permalinks.
	StrictGUID bool
}

func itemTitle(a entity.Article) string {
	if a.Title == "" {
		return untitled
	}

	return a.Title
}

// guid returns the article link, or the md5 hex digest of the title for
// articles without one. The second value reports whether the link was used.
func guid(a entity.Article) (string, bool) {
	if a.Link != "" {
		return a.Link, true
	}

	sum := md5.Sum([]byte(a.Title))

	return hex.EncodeToString(sum[:]), false
}

func published(a entity.Article, fallback time.Time) time.Time {
	if a.Published.IsZero() {
		return fallback
	}

	return a.Published
}

// xmlSafe drops characters that are not allowed in XML 1.0 documents.
func xmlSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t', r == '\n', r == '\r':
			return r
		case r >= 0x20 && r <= 0xD7FF,
			r >= 0xE000 && r <= 0xFFFD,
			r >= 0x10000 && r <= 0x10FFFF:
			return r
		default:
			return -1
		}
	}, s)
}
