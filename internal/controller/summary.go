package controller

import (
	"fmt"

	"github.com/kiran-cloud/tubedex/internal/backend"
	"github.com/kiran-cloud/tubedex/internal/normalize"
)

// Summary owns the modal state for on-demand summaries: visibility, target
// title, summary text, and the in-flight flag. There is exactly one modal;
// the struct is owned by whoever composes the controllers and is reset, not
// destroyed, on close.
type Summary struct {
	gen     uint64
	visible bool
	loading bool
	title   string
	text    string
}

// NewSummary creates a summary controller with the modal closed.
func NewSummary() *Summary {
	return &Summary{}
}

// Open snapshots the item into a request, shows the modal with the item's
// title and a cleared body, and marks it loading. The snapshot is taken at
// invocation time: later mutations of the result list cannot leak into an
// in-flight request.
func (s *Summary) Open(item normalize.Item) (backend.SummaryRequest, uint64) {
	s.gen++
	s.visible = true
	s.loading = true
	s.title = item.Title
	s.text = ""
	return backend.NewSummaryRequest(item.Payload), s.gen
}

// Resolve applies a completed summarize call. Completions from superseded
// or closed requests are discarded. Failures do not close the modal: the
// synthesized message is displayed in place of a summary.
func (s *Summary) Resolve(gen uint64, text string, err error) bool {
	if gen != s.gen || !s.visible {
		return false
	}
	s.loading = false
	if err != nil {
		s.text = fmt.Sprintf("Could not load summary: %v", err)
		return true
	}
	s.text = text
	return true
}

// Close hides the modal and resets its content. It does not cancel an
// in-flight request; a response arriving afterwards is discarded because
// Close invalidates the current generation.
func (s *Summary) Close() {
	s.gen++
	s.visible = false
	s.loading = false
	s.title = ""
	s.text = ""
}

// Visible reports whether the modal is shown.
func (s *Summary) Visible() bool { return s.visible }

// Loading reports whether a summarize call is in flight.
func (s *Summary) Loading() bool { return s.loading }

// Title returns the title of the summarized item.
func (s *Summary) Title() string { return s.title }

// Text returns the summary body, or the failure message standing in for it.
func (s *Summary) Text() string { return s.text }
