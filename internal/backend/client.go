// Package backend is the HTTP façade over the remote video index service.
// It issues the three request types the client needs — search, summarize,
// CSV ingest — and parses their responses. Each call is a single round
// trip: no retry, no client-side timeout beyond the caller's context.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kiran-cloud/tubedex/internal/normalize"
)

// SummaryNotAvailable is returned when the service reports neither a
// summary nor an error for a summarize call.
const SummaryNotAvailable = "Summary not available."

// Client talks to the video index service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	obs        *observer

	metricsReg prometheus.Registerer
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger attaches a logger for per-operation diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithMetrics registers operation counters and latency histograms on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Client) { c.metricsReg = reg }
}

// New creates a backend client for the given base address.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("backend: base URL required")
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}

	obs, err := newObserver(c.logger, c.metricsReg)
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}
	c.obs = obs
	return c, nil
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type searchHit struct {
	Payload normalize.VideoPayload `json:"payload"`
}

type searchResponse struct {
	Results []searchHit `json:"results"`
}

// Search runs a semantic query and returns the raw payloads in the order
// the service ranked them. A body without a results field yields an empty
// slice, not an error. Transport and parse failures return *NetworkError.
func (c *Client) Search(ctx context.Context, query string, topK int) (payloads []normalize.VideoPayload, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	body, err := json.Marshal(searchRequest{Query: query, TopK: topK})
	if err != nil {
		return nil, fmt.Errorf("backend: encode search request: %w", err)
	}

	resp, err := c.post(ctx, "/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, &NetworkError{Op: "search", Err: err}
	}
	defer resp.Body.Close()

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &NetworkError{Op: "search", Err: fmt.Errorf("decode response: %w", err)}
	}

	payloads = make([]normalize.VideoPayload, 0, len(parsed.Results))
	for _, hit := range parsed.Results {
		payloads = append(payloads, hit.Payload)
	}
	return payloads, nil
}

type summarizeResponse struct {
	Summary string `json:"summary"`
	Error   string `json:"error"`
}

// Summarize requests a text summary for one video snapshot. A non-2xx
// status returns *HTTPError carrying the response body; on success the
// summary field is used, falling back to the body's error field, falling
// back to SummaryNotAvailable.
func (c *Client) Summarize(ctx context.Context, req SummaryRequest) (summary string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("summarize", start, err) }()

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("backend: encode summarize request: %w", err)
	}

	resp, err := c.post(ctx, "/summarize", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", &NetworkError{Op: "summarize", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &NetworkError{Op: "summarize", Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &HTTPError{Status: resp.StatusCode, Body: string(raw)}
	}

	var parsed summarizeResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &NetworkError{Op: "summarize", Err: fmt.Errorf("decode response: %w", err)}
	}

	switch {
	case parsed.Summary != "":
		return parsed.Summary, nil
	case parsed.Error != "":
		return parsed.Error, nil
	default:
		return SummaryNotAvailable, nil
	}
}

// IngestResult is the outcome of a successful CSV ingest.
type IngestResult struct {
	RowsInserted int
}

type ingestResponse struct {
	Status       string `json:"status"`
	RowsInserted int    `json:"rows_inserted"`
	Error        string `json:"error"`
	Message      string `json:"message"`
}

// IngestCSV uploads a CSV file as a multipart form. A body whose status
// field is not "success" is a reported failure: the returned
// *ReportedError resolves the detail from the error field, then the
// message field, then the serialized body, in that order.
func (c *Client) IngestCSV(ctx context.Context, filename string, file io.Reader) (res IngestResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ingest_csv", start, err) }()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return IngestResult{}, fmt.Errorf("backend: create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return IngestResult{}, fmt.Errorf("backend: copy file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return IngestResult{}, fmt.Errorf("backend: finish form: %w", err)
	}

	resp, err := c.post(ctx, "/ingest_csv", mw.FormDataContentType(), &buf)
	if err != nil {
		return IngestResult{}, &NetworkError{Op: "ingest_csv", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return IngestResult{}, &NetworkError{Op: "ingest_csv", Err: fmt.Errorf("read response: %w", err)}
	}

	var parsed ingestResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return IngestResult{}, &NetworkError{Op: "ingest_csv", Err: fmt.Errorf("decode response: %w", err)}
	}

	if parsed.Status != "success" {
		return IngestResult{}, &ReportedError{Message: ingestFailureDetail(parsed, raw)}
	}
	return IngestResult{RowsInserted: parsed.RowsInserted}, nil
}

// ingestFailureDetail extracts a human-readable message: error, then
// message, then the whole body.
func ingestFailureDetail(parsed ingestResponse, raw []byte) string {
	if parsed.Error != "" {
		return parsed.Error
	}
	if parsed.Message != "" {
		return parsed.Message
	}
	return string(raw)
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
