package backend

import "github.com/kiran-cloud/tubedex/internal/normalize"

// SummaryRequest is the body for POST /summarize. It is a snapshot of one
// video record taken at the moment the user asks for a summary, not a live
// reference to the result list.
type SummaryRequest struct {
	Title        string `json:"title"`
	Transcript   string `json:"transcript"`
	CombinedText string `json:"combined_text"`
	Description  string `json:"description"`
}

// NewSummaryRequest snapshots a payload into a request. When the record has
// no combined text the description stands in for it; the description field
// itself is always carried verbatim.
func NewSummaryRequest(p normalize.VideoPayload) SummaryRequest {
	combined := p.CombinedText
	if combined == "" {
		combined = p.Description
	}
	return SummaryRequest{
		Title:        p.Title,
		Transcript:   p.Transcript,
		CombinedText: combined,
		Description:  p.Description,
	}
}
