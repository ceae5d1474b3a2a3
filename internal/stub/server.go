// Package stub is a development backend implementing the wire contract the
// client speaks: POST /search, POST /summarize, POST /ingest_csv. It lets
// the client run and be integration-tested without the production service.
// Ranking and summarization quality are explicitly not its job.
package stub

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kiran-cloud/tubedex/internal/logger"
	"github.com/kiran-cloud/tubedex/internal/metrics"
	"github.com/kiran-cloud/tubedex/internal/normalize"
)

const maxUploadBytes = 64 << 20

// Server handles the three client-facing endpoints.
type Server struct {
	corpus     *Corpus
	summarizer Summarizer
	logger     *zap.Logger
}

// NewServer creates a stub server around a corpus and a summarizer.
func NewServer(corpus *Corpus, summarizer Summarizer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{corpus: corpus, summarizer: summarizer, logger: logger}
}

// Router builds the chi router with recovery and metrics middleware.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chiMiddleware.Recoverer)
	r.Use(metrics.Middleware())
	r.Use(s.withLogger)

	r.Post("/search", s.handleSearch)
	r.Post("/summarize", s.handleSummarize)
	r.Post("/ingest_csv", s.handleIngestCSV)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return r
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

// withLogger stashes the server logger in the request context so handlers
// pull it from there, mirroring how the client side threads its logger.
func (s *Server) withLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.ContextWithLogger(r.Context(), s.logger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type searchHit struct {
	Payload normalize.VideoPayload `json:"payload"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.TopK <= 0 {
		req.TopK = 8
	}

	payloads := s.corpus.Search(req.Query, req.TopK)
	hits := make([]searchHit, 0, len(payloads))
	for _, p := range payloads {
		hits = append(hits, searchHit{Payload: p})
	}

	logger.FromContext(r.Context()).Debug("search served",
		zap.String("query", req.Query),
		zap.Int("top_k", req.TopK),
		zap.Int("hits", len(hits)),
	)
	writeJSON(w, http.StatusOK, map[string]any{"results": hits})
}

type summarizeRequest struct {
	Title        string `json:"title"`
	Transcript   string `json:"transcript"`
	CombinedText string `json:"combined_text"`
	Description  string `json:"description"`
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	text := req.CombinedText
	if text == "" {
		text = req.Transcript
	}
	if text == "" {
		text = req.Description
	}

	summary, err := s.summarizer.Summarize(r.Context(), req.Title, text)
	if err != nil {
		logger.FromContext(r.Context()).Warn("summarize failed", zap.String("title", req.Title), zap.Error(err))
		// Plain text body: the client embeds it verbatim in its error message.
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "summarize failed: %v", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

func (s *Server) handleIngestCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "error",
			"error":  "invalid multipart form: " + err.Error(),
		})
		return
	}

	file, hdr, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "error",
			"error":  "missing file field: " + err.Error(),
		})
		return
	}
	defer file.Close()

	log := logger.FromContext(r.Context())
	rows, err := s.corpus.AddCSV(file)
	if err != nil {
		log.Warn("csv ingest failed", zap.String("filename", hdr.Filename), zap.Error(err))
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "error",
			"error":  err.Error(),
		})
		return
	}

	log.Info("csv ingested",
		zap.String("filename", hdr.Filename),
		zap.Int("rows", rows),
		zap.Int("corpus_size", s.corpus.Len()),
	)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "success",
		"rows_inserted": rows,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
