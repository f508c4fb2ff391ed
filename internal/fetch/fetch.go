// Package fetch abstracts single-page retrieval and parsing. The pipeline
// only ever needs one listing page per product query; crawling concerns such
// as pagination or link following live outside this service.
package fetch

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Request describes one page fetch.
type Request struct {
	URL     string
	Headers map[string]string
	Timeout time.Duration
}

// Fetcher retrieves a page and returns its parsed document.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (*goquery.Document, error)
}
