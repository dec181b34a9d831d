package harvester

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jdeprez/immoharvester/helpers"
	"jdeprez/immoharvester/pkg/errors"
)

const (
	// classifiedScriptSelector matches the script block carrying the
	// embedded listing data
	classifiedScriptSelector = "div.classified script"
	// classifiedVariable is the variable the listing payload is assigned to
	classifiedVariable = "window.classified"
)

// DetailExtractor extracts the embedded classified payload from listing
// detail pages
type DetailExtractor struct {
	fetch FetchFunc
}

var _ PayloadExtractor = (*DetailExtractor)(nil)

// NewDetailExtractor creates a payload extractor. A nil fetch function uses
// the default HTTP fetch.
func NewDetailExtractor(fetch FetchFunc) *DetailExtractor {
	if fetch == nil {
		fetch = helpers.FetchWithBrowserHeaders
	}
	return &DetailExtractor{fetch: fetch}
}

// Payload fetches the detail page at url and decodes the object assigned to
// window.classified inside its script block. Every failure here is a
// per-listing failure; the caller skips the listing and continues.
func (d *DetailExtractor) Payload(ctx context.Context, url string) (Payload, error) {
	body, err := d.fetch(ctx, url)
	if err != nil {
		return nil, errors.NewTransport(url, "failed to fetch detail page", err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, errors.NewExtraction(url, "failed to parse detail page", err)
	}

	var script string
	doc.Find(classifiedScriptSelector).EachWithBreak(func(i int, sel *goquery.Selection) bool {
		text := sel.Text()
		if strings.Contains(text, classifiedVariable) {
			script = text
			return false
		}
		return true
	})
	if script == "" {
		return nil, errors.NewExtraction(url, "no classified script block found", nil)
	}

	object, err := extractAssignedObject(script, classifiedVariable)
	if err != nil {
		return nil, errors.NewExtraction(url, "no object assigned to "+classifiedVariable, err)
	}

	var payload Payload
	if err := json.Unmarshal([]byte(object), &payload); err != nil {
		return nil, errors.NewExtraction(url, "classified payload is not valid JSON", err)
	}

	return payload, nil
}

// extractAssignedObject returns the object literal assigned to variable in
// script. The payload is a large nested object, so the end is found by
// tracking brace depth (honoring string literals and escapes), not by a
// non-greedy match that would stop at the first close brace.
func extractAssignedObject(script, variable string) (string, error) {
	idx := strings.Index(script, variable)
	if idx < 0 {
		return "", fmt.Errorf("variable %q not found", variable)
	}
	rest := script[idx+len(variable):]

	eq := strings.Index(rest, "=")
	if eq < 0 {
		return "", fmt.Errorf("no assignment to %q", variable)
	}
	rest = rest[eq+1:]

	start := strings.Index(rest, "{")
	if start < 0 {
		return "", fmt.Errorf("no object literal assigned to %q", variable)
	}
	rest = rest[start:]

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return rest[:i+1], nil
			}
		}
	}

	return "", fmt.Errorf("unterminated object assigned to %q", variable)
}
