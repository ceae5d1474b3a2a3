package tui

import (
	"context"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kiran-cloud/tubedex/internal/backend"
	"github.com/kiran-cloud/tubedex/internal/normalize"
)

// --- Messages ---

// Each completion message carries the generation of the request that
// produced it; the controllers discard completions from superseded requests.

type searchDoneMsg struct {
	gen      uint64
	payloads []normalize.VideoPayload
	err      error
}

type summaryDoneMsg struct {
	gen  uint64
	text string
	err  error
}

type ingestDoneMsg struct {
	gen uint64
	res backend.IngestResult
	err error
}

// --- Commands ---

func searchCmd(ctx context.Context, client *backend.Client, gen uint64, query string, topK int) tea.Cmd {
	return func() tea.Msg {
		payloads, err := client.Search(ctx, query, topK)
		return searchDoneMsg{gen: gen, payloads: payloads, err: err}
	}
}

func summarizeCmd(ctx context.Context, client *backend.Client, gen uint64, req backend.SummaryRequest) tea.Cmd {
	return func() tea.Msg {
		text, err := client.Summarize(ctx, req)
		return summaryDoneMsg{gen: gen, text: text, err: err}
	}
}

func ingestCmd(ctx context.Context, client *backend.Client, gen uint64, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return ingestDoneMsg{gen: gen, err: err}
		}
		defer f.Close()

		res, err := client.IngestCSV(ctx, filepath.Base(path), f)
		return ingestDoneMsg{gen: gen, res: res, err: err}
	}
}
