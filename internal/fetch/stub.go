package fetch

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// Stub is a Fetcher for tests: it serves canned HTML keyed by URL and
// records the requests it sees.
type Stub struct {
	mu       sync.Mutex
	Pages    map[string]string
	Err      error
	requests []Request
}

// NewStub builds a Stub serving the given URL→HTML pages.
func NewStub(pages map[string]string) *Stub {
	return &Stub{Pages: pages}
}

// Fetch parses the canned page for the URL, or fails when none is registered.
func (s *Stub) Fetch(_ context.Context, req Request) (*goquery.Document, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	html, ok := s.Pages[req.URL]
	if !ok {
		return nil, fmt.Errorf("no canned page for %s", req.URL)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// Requests returns the fetches seen so far.
func (s *Stub) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}
