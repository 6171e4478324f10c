package feed

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mmcdole/gofeed"
)

var ErrInvalidFeed = errors.New("generated feed is invalid")

// Verify parses a rendered feed back and checks it holds the expected
// number of items.
func Verify(data []byte, items int) error {
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(data))

	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFeed, err)
	}

	if len(parsed.Items) != items {
		return fmt.Errorf("%w: has %d items, expected %d", ErrInvalidFeed, len(parsed.Items), items)
	}

	return nil
}
