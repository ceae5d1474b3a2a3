// Package controller holds the request/state machines behind the UI: one
// controller per user-facing action, each owning only its own state. The
// controllers are plain types with no UI dependency; the terminal layer
// drives them and renders whatever they expose.
//
// Every controller tags outbound work with a monotonically increasing
// generation. A completion is applied only when its generation matches the
// latest issued one, so an out-of-order response from a superseded request
// is discarded instead of clobbering newer state.
package controller

import (
	"fmt"

	"github.com/kiran-cloud/tubedex/internal/normalize"
)

// Search owns the query text, the result list, and the in-flight flag for
// the search tab.
type Search struct {
	topK      int
	gen       uint64
	query     string
	searching bool
	items     []normalize.Item
	alert     string
}

// NewSearch creates a search controller requesting topK results per query.
func NewSearch(topK int) *Search {
	return &Search{topK: topK}
}

// SetQuery replaces the query text. Called on every keystroke; it never
// triggers a request by itself.
func (s *Search) SetQuery(q string) { s.query = q }

// Query returns the current query text.
func (s *Search) Query() string { return s.query }

// TopK returns the fixed result-count parameter sent with every search.
func (s *Search) TopK() int { return s.topK }

// Start begins a new search: prior results are cleared immediately and the
// in-flight flag is set. The returned generation must be passed back to
// Resolve. Starting while a search is in flight is allowed; the older
// request's completion will be discarded.
func (s *Search) Start() uint64 {
	s.gen++
	s.items = nil
	s.searching = true
	s.alert = ""
	return s.gen
}

// Resolve applies a completed search. Stale generations are discarded and
// false is returned. A transport failure leaves the result list empty and
// surfaces an alert; either way the controller returns to idle.
func (s *Search) Resolve(gen uint64, payloads []normalize.VideoPayload, err error) bool {
	if gen != s.gen {
		return false
	}
	s.searching = false
	if err != nil {
		s.items = nil
		s.alert = fmt.Sprintf("Search failed: %v", err)
		return true
	}
	s.items = normalize.NormalizeAll(payloads)
	return true
}

// Searching reports whether a request is in flight.
func (s *Search) Searching() bool { return s.searching }

// Items returns the normalized results of the latest completed search.
func (s *Search) Items() []normalize.Item { return s.items }

// Alert returns the pending user-visible failure notice, if any.
func (s *Search) Alert() string { return s.alert }

// ClearAlert acknowledges the failure notice.
func (s *Search) ClearAlert() { s.alert = "" }
