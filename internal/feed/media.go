package feed

import (
	"net/url"
	"path"
	"strings"
)

// imageType guesses the MIME type from the URL path extension.
func imageType(rawURL string) string {
	p := rawURL

	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}

	switch strings.ToLower(path.Ext(p)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return ""
	}
}
