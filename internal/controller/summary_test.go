package controller

import (
	"errors"
	"strings"
	"testing"

	"github.com/kiran-cloud/tubedex/internal/backend"
	"github.com/kiran-cloud/tubedex/internal/normalize"
)

var errTest = errors.New("boom")

func itemFromPayload(p normalize.VideoPayload) normalize.Item {
	return normalize.Normalize(p)
}

func TestSummary_OpenSnapshotsRequest(t *testing.T) {
	s := NewSummary()
	item := itemFromPayload(normalize.VideoPayload{
		Title:       "Cats 101",
		Description: "short",
	})

	req, _ := s.Open(item)
	if req.Title != "Cats 101" {
		t.Errorf("request title = %q", req.Title)
	}
	if req.CombinedText != "short" {
		t.Errorf("combined_text = %q, want description fallback", req.CombinedText)
	}
	if !s.Visible() || !s.Loading() {
		t.Error("modal must open in the loading state")
	}
	if s.Title() != "Cats 101" {
		t.Errorf("title = %q; it must be set before the response returns", s.Title())
	}
	if s.Text() != "" {
		t.Error("previous text must be cleared on open")
	}
}

func TestSummary_ResolveSuccess(t *testing.T) {
	s := NewSummary()
	_, gen := s.Open(itemFromPayload(normalize.VideoPayload{Title: "t"}))

	if !s.Resolve(gen, "the summary", nil) {
		t.Fatal("resolve should apply")
	}
	if s.Loading() {
		t.Error("loading must clear")
	}
	if s.Text() != "the summary" {
		t.Errorf("text = %q", s.Text())
	}
	if !s.Visible() {
		t.Error("modal stays open")
	}
}

func TestSummary_FailureIsContentNotDialog(t *testing.T) {
	s := NewSummary()
	_, gen := s.Open(itemFromPayload(normalize.VideoPayload{Title: "t"}))

	err := &backend.HTTPError{Status: 500, Body: "server overloaded"}
	if !s.Resolve(gen, "", err) {
		t.Fatal("resolve should apply")
	}
	if !s.Visible() {
		t.Error("failure must not close the modal")
	}
	if s.Loading() {
		t.Error("loading must clear on failure")
	}
	if !strings.Contains(s.Text(), "500") || !strings.Contains(s.Text(), "server overloaded") {
		t.Errorf("text = %q, want status and body embedded", s.Text())
	}
}

func TestSummary_ResponseAfterCloseDiscarded(t *testing.T) {
	s := NewSummary()
	_, gen := s.Open(itemFromPayload(normalize.VideoPayload{Title: "t"}))
	s.Close()

	if s.Resolve(gen, "late", nil) {
		t.Error("response arriving after close must be discarded")
	}
	if s.Visible() || s.Text() != "" || s.Title() != "" {
		t.Error("close must reset the modal state")
	}
}

func TestSummary_StaleResponseAfterReopenDiscarded(t *testing.T) {
	s := NewSummary()
	_, firstGen := s.Open(itemFromPayload(normalize.VideoPayload{Title: "first"}))
	_, secondGen := s.Open(itemFromPayload(normalize.VideoPayload{Title: "second"}))

	if s.Resolve(firstGen, "stale text", nil) {
		t.Error("stale response must not overwrite the new item's state")
	}
	if s.Title() != "second" {
		t.Errorf("title = %q, want second", s.Title())
	}
	if !s.Loading() {
		t.Error("still loading the second item")
	}

	if !s.Resolve(secondGen, "fresh text", nil) {
		t.Fatal("latest response must apply")
	}
	if s.Text() != "fresh text" {
		t.Errorf("text = %q", s.Text())
	}
}
