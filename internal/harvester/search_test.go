package harvester

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	pkgerrors "jdeprez/immoharvester/pkg/errors"
)

const searchHTML = `<html><body>
	<div class="card">
		<a class="card__title-link" href="https://example.com/classified/house/1">House 1</a>
	</div>
	<div class="card">
		<a class="card__title-link" href="https://example.com/classified/house/2">House 2</a>
	</div>
	<div class="card">
		<a class="card__other-link" href="https://example.com/ad">Not a listing</a>
	</div>
</body></html>`

func staticFetch(html string) FetchFunc {
	return func(ctx context.Context, url string) (io.Reader, error) {
		return strings.NewReader(html), nil
	}
}

func TestSearchPageLinks(t *testing.T) {
	var fetchedURL string
	fetch := func(ctx context.Context, url string) (io.Reader, error) {
		fetchedURL = url
		return strings.NewReader(searchHTML), nil
	}

	query := SearchQuery{BaseURL: "https://example.com/search?countries=BE", SaleType: SaleTypeSale}
	search := NewSearchPage(query, fetch)

	links, err := search.Links(context.Background(), 3)
	assert.NoError(t, err)
	assert.Equal(t, "https://example.com/search?countries=BE&page=3&orderBy=relevance", fetchedURL)
	assert.Equal(t, []string{
		"https://example.com/classified/house/1",
		"https://example.com/classified/house/2",
	}, links)
}

func TestSearchPageLinksEmpty(t *testing.T) {
	search := NewSearchPage(SearchQuery{BaseURL: "https://example.com/s?x=1"}, staticFetch("<html><body></body></html>"))

	links, err := search.Links(context.Background(), 1)
	assert.NoError(t, err)
	assert.Empty(t, links)
}

func TestSearchPageLinksTransportError(t *testing.T) {
	fetch := func(ctx context.Context, url string) (io.Reader, error) {
		return nil, errors.New("connection refused")
	}
	search := NewSearchPage(SearchQuery{BaseURL: "https://example.com/s?x=1"}, fetch)

	_, err := search.Links(context.Background(), 1)
	assert.Error(t, err)

	var herr *pkgerrors.HarvestError
	assert.ErrorAs(t, err, &herr)
	assert.Equal(t, pkgerrors.ErrorTypeTransport, herr.Type)
	assert.False(t, herr.IsFatal())
}
