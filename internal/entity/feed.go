package entity

const (
	FormatAtom = "atom"
	FormatRSS  = "rss"
	FormatJSON = "json"
)

// FeedMeta holds channel level metadata of the generated feed.
type FeedMeta struct {
	Title       string
	Description string
	Link        string
	Language    string
	Generator   string
}
