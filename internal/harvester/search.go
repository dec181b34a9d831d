package harvester

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"jdeprez/immoharvester/helpers"
	"jdeprez/immoharvester/pkg/errors"
)

// listingLinkSelector matches the title anchor of each result card
const listingLinkSelector = "a.card__title-link"

// SearchPage extracts listing URLs from paginated search results
type SearchPage struct {
	query SearchQuery
	fetch FetchFunc
}

var _ LinkExtractor = (*SearchPage)(nil)

// NewSearchPage creates a link extractor for the given query. A nil fetch
// function uses the default HTTP fetch.
func NewSearchPage(query SearchQuery, fetch FetchFunc) *SearchPage {
	if fetch == nil {
		fetch = helpers.FetchWithBrowserHeaders
	}
	return &SearchPage{
		query: query,
		fetch: fetch,
	}
}

// Links fetches the search page for the given page number and returns every
// listing URL on it, in document order. An empty result means the page is
// past the last listing.
func (s *SearchPage) Links(ctx context.Context, page int) ([]string, error) {
	url := fmt.Sprintf("%s&page=%d&orderBy=relevance", s.query.BaseURL, page)

	body, err := s.fetch(ctx, url)
	if err != nil {
		return nil, errors.NewTransport(url, "failed to fetch search page", err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, errors.NewTransport(url, "failed to parse search page", err)
	}

	var links []string
	doc.Find(listingLinkSelector).Each(func(i int, sel *goquery.Selection) {
		if href, exists := sel.Attr("href"); exists && href != "" {
			links = append(links, href)
		}
	})

	return links, nil
}
