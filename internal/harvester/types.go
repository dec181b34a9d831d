package harvester

import (
	"context"
	"io"
)

// SaleType selects which transaction branch of a listing payload applies
type SaleType string

const (
	SaleTypeSale SaleType = "sale"
	SaleTypeRent SaleType = "rent"
)

// SearchQuery identifies one paginated search. Immutable for a run.
type SearchQuery struct {
	BaseURL  string
	SaleType SaleType
}

// FetchFunc fetches a URL and returns its body as a UTF-8 reader
type FetchFunc func(ctx context.Context, url string) (io.Reader, error)

// LinkExtractor returns the listing URLs found on one search-results page.
// An empty slice with a nil error means the page has no listings, which is
// the pagination termination signal.
type LinkExtractor interface {
	Links(ctx context.Context, page int) ([]string, error)
}

// PayloadExtractor fetches a listing detail page and extracts the embedded
// classified payload from it.
type PayloadExtractor interface {
	Payload(ctx context.Context, url string) (Payload, error)
}
