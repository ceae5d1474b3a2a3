package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kiran-cloud/tubedex/internal/normalize"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, srv
}

func TestSearch_ParsesResultsInOrder(t *testing.T) {
	var gotBody string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %q, want /search", r.URL.Path)
		}
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"results": [
			{"payload": {"title": "first"}},
			{"payload": {"title": "second"}}
		]}`)
	})

	payloads, err := c.Search(context.Background(), "cats", 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(gotBody, `"query":"cats"`) || !strings.Contains(gotBody, `"top_k":8`) {
		t.Errorf("request body = %s", gotBody)
	}
	if len(payloads) != 2 || payloads[0].Title != "first" || payloads[1].Title != "second" {
		t.Errorf("unexpected payloads: %+v", payloads)
	}
}

func TestSearch_MissingResultsFieldIsEmpty(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{}`)
	})

	payloads, err := c.Search(context.Background(), "cats", 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(payloads) != 0 {
		t.Errorf("expected empty result, got %d payloads", len(payloads))
	}
}

func TestSearch_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // refuse connections

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = c.Search(context.Background(), "cats", 8)
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected *NetworkError, got %T: %v", err, err)
	}
	if netErr.Op != "search" {
		t.Errorf("op = %q, want search", netErr.Op)
	}
}

func TestSummarize_SummaryField(t *testing.T) {
	var gotBody string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		io.WriteString(w, `{"summary": "a concise summary"}`)
	})

	got, err := c.Summarize(context.Background(), SummaryRequest{Title: "t", CombinedText: "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "a concise summary" {
		t.Errorf("summary = %q", got)
	}
	if !strings.Contains(gotBody, `"combined_text":"c"`) {
		t.Errorf("request body = %s", gotBody)
	}
}

func TestSummarize_FallbackChain(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"summary wins", `{"summary": "s", "error": "e"}`, "s"},
		{"error when no summary", `{"error": "model unavailable"}`, "model unavailable"},
		{"sentinel when both absent", `{}`, SummaryNotAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				io.WriteString(w, tt.body)
			})
			got, err := c.Summarize(context.Background(), SummaryRequest{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("summary = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSummarize_HTTPErrorCarriesStatusAndBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "server overloaded")
	})

	_, err := c.Summarize(context.Background(), SummaryRequest{})
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %T: %v", err, err)
	}
	if httpErr.Status != 500 {
		t.Errorf("status = %d, want 500", httpErr.Status)
	}
	if httpErr.Body != "server overloaded" {
		t.Errorf("body = %q", httpErr.Body)
	}
	if !strings.Contains(httpErr.Error(), "500") || !strings.Contains(httpErr.Error(), "server overloaded") {
		t.Errorf("error text = %q", httpErr.Error())
	}
}

func TestIngestCSV_Success(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer f.Close()
		if hdr.Filename != "videos.csv" {
			t.Errorf("filename = %q", hdr.Filename)
		}
		b, _ := io.ReadAll(f)
		if string(b) != "title\nCats 101\n" {
			t.Errorf("file content = %q", b)
		}
		io.WriteString(w, `{"status": "success", "rows_inserted": 42}`)
	})

	res, err := c.IngestCSV(context.Background(), "videos.csv", strings.NewReader("title\nCats 101\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.RowsInserted != 42 {
		t.Errorf("rows inserted = %d, want 42", res.RowsInserted)
	}
}

func TestIngestCSV_ReportedFailureDetailPriority(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"error field first", `{"status": "failed", "error": "bad header", "message": "other"}`, "bad header"},
		{"message field next", `{"status": "failed", "message": "row 3 malformed"}`, "row 3 malformed"},
		{"whole body last", `{"status": "failed", "detail": "??"}`, `{"status": "failed", "detail": "??"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				io.WriteString(w, tt.body)
			})
			_, err := c.IngestCSV(context.Background(), "v.csv", strings.NewReader("x"))
			var repErr *ReportedError
			if !errors.As(err, &repErr) {
				t.Fatalf("expected *ReportedError, got %T: %v", err, err)
			}
			if repErr.Message != tt.want {
				t.Errorf("message = %q, want %q", repErr.Message, tt.want)
			}
		})
	}
}

func TestIngestCSV_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = c.IngestCSV(context.Background(), "v.csv", strings.NewReader("x"))
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected *NetworkError, got %T: %v", err, err)
	}
}

func TestNewSummaryRequest_CombinedTextFallback(t *testing.T) {
	// No combined text: the description stands in.
	req := NewSummaryRequest(normalize.VideoPayload{Title: "t", Description: "short"})
	if req.CombinedText != "short" {
		t.Errorf("combined_text = %q, want %q", req.CombinedText, "short")
	}
	if req.Description != "short" {
		t.Errorf("description = %q, want %q", req.Description, "short")
	}

	// Both present: combined text carried verbatim, description ignored for it.
	req = NewSummaryRequest(normalize.VideoPayload{CombinedText: "full text", Description: "desc"})
	if req.CombinedText != "full text" {
		t.Errorf("combined_text = %q, want %q", req.CombinedText, "full text")
	}
	if req.Description != "desc" {
		t.Errorf("description = %q, want %q", req.Description, "desc")
	}
}
