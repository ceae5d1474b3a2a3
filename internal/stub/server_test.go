package stub

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kiran-cloud/tubedex/internal/backend"
)

func newTestBackend(t *testing.T) *backend.Client {
	t.Helper()

	srv := NewServer(NewCorpus(), &ExtractiveSummarizer{MaxSentences: 2}, nil)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	c, err := backend.New(ts.URL)
	if err != nil {
		t.Fatalf("backend.New: %v", err)
	}
	return c
}

func TestRoundTrip_IngestThenSearch(t *testing.T) {
	c := newTestBackend(t)
	ctx := context.Background()

	res, err := c.IngestCSV(ctx, "videos.csv", strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if res.RowsInserted != 3 {
		t.Errorf("rows inserted = %d, want 3", res.RowsInserted)
	}

	payloads, err := c.Search(ctx, "cat grooming", 8)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(payloads) == 0 {
		t.Fatal("expected hits for seeded corpus")
	}
	if payloads[0].Title != "Cat Grooming" {
		t.Errorf("top hit = %q", payloads[0].Title)
	}
}

func TestRoundTrip_SearchEmptyCorpus(t *testing.T) {
	c := newTestBackend(t)

	payloads, err := c.Search(context.Background(), "anything", 8)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(payloads) != 0 {
		t.Errorf("expected empty result, got %d", len(payloads))
	}
}

func TestRoundTrip_Summarize(t *testing.T) {
	c := newTestBackend(t)

	summary, err := c.Summarize(context.Background(), backend.SummaryRequest{
		Title:        "Cats 101",
		CombinedText: "Cats sleep a lot. They groom themselves. They hunt small prey. They purr.",
	})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summary != "Cats sleep a lot. They groom themselves." {
		t.Errorf("summary = %q", summary)
	}
}

func TestRoundTrip_SummarizeNothingToSummarize(t *testing.T) {
	c := newTestBackend(t)

	_, err := c.Summarize(context.Background(), backend.SummaryRequest{Title: "empty"})
	var httpErr *backend.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %T: %v", err, err)
	}
	if httpErr.Status != 500 {
		t.Errorf("status = %d, want 500", httpErr.Status)
	}
	if !strings.Contains(httpErr.Body, "nothing to summarize") {
		t.Errorf("body = %q", httpErr.Body)
	}
}

func TestRoundTrip_IngestBadCSVIsReportedFailure(t *testing.T) {
	c := newTestBackend(t)

	_, err := c.IngestCSV(context.Background(), "bad.csv", strings.NewReader(""))
	var repErr *backend.ReportedError
	if !errors.As(err, &repErr) {
		t.Fatalf("expected *ReportedError, got %T: %v", err, err)
	}
	if !strings.Contains(repErr.Message, "csv") {
		t.Errorf("message = %q", repErr.Message)
	}
}

func TestHandlersLogThroughRequestContext(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	srv := NewServer(NewCorpus(), &ExtractiveSummarizer{MaxSentences: 2}, zap.New(core))
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	c, err := backend.New(ts.URL)
	if err != nil {
		t.Fatalf("backend.New: %v", err)
	}

	if _, err := c.Search(context.Background(), "cats", 8); err != nil {
		t.Fatalf("search: %v", err)
	}
	if logs.FilterMessage("search served").Len() != 1 {
		t.Errorf("expected one 'search served' entry, got %d", logs.FilterMessage("search served").Len())
	}

	if _, err := c.IngestCSV(context.Background(), "videos.csv", strings.NewReader(sampleCSV)); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if logs.FilterMessage("csv ingested").Len() != 1 {
		t.Errorf("expected one 'csv ingested' entry, got %d", logs.FilterMessage("csv ingested").Len())
	}
}

func TestExtractiveSummarizer(t *testing.T) {
	s := &ExtractiveSummarizer{MaxSentences: 3}

	got, err := s.Summarize(context.Background(), "t", "One. Two! Three? Four.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "One. Two! Three?" {
		t.Errorf("summary = %q", got)
	}

	if _, err := s.Summarize(context.Background(), "t", "   "); err == nil {
		t.Error("expected error for blank text")
	}
}
