package integrations

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mmcdole/gofeed"
)

// NewsItem is one music news article pulled from an RSS source.
type NewsItem struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Description string    `json:"description,omitempty"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}

// NewsClient aggregates music news from a set of RSS feeds.
type NewsClient struct {
	parser *gofeed.Parser
	feeds  []string
}

// NewNewsClient creates a news client over the given feed URLs.
func NewNewsClient(feeds []string) *NewsClient {
	return &NewsClient{parser: gofeed.NewParser(), feeds: feeds}
}

// Fetch pulls the latest items across all configured feeds, newest first.
// A feed that fails to parse is skipped; Fetch only errors when every
// feed fails.
func (c *NewsClient) Fetch(ctx context.Context, limit int) ([]NewsItem, error) {
	var items []NewsItem
	var lastErr error
	failed := 0

	for _, url := range c.feeds {
		feed, err := c.parser.ParseURLWithContext(url, ctx)
		if err != nil {
			failed++
			lastErr = err
			continue
		}
		for _, article := range feed.Items {
			item := NewsItem{
				Title:       article.Title,
				Link:        article.Link,
				Description: article.Description,
				Source:      feed.Title,
			}
			if article.PublishedParsed != nil {
				item.PublishedAt = *article.PublishedParsed
			}
			items = append(items, item)
		}
	}

	if failed == len(c.feeds) && failed > 0 {
		return nil, fmt.Errorf("fetch news: all %d feeds failed: %w", failed, lastErr)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
