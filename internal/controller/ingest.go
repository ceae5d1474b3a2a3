package controller

import (
	"errors"
	"fmt"

	"github.com/kiran-cloud/tubedex/internal/backend"
)

// ErrNoFileSelected is returned by Ingest.Start when upload is requested
// without a selected file. It is a local validation failure caught before
// any request is issued.
var ErrNoFileSelected = errors.New("no file selected")

// StatusKind classifies the ingest status line.
type StatusKind int

// Ingest status kinds.
const (
	StatusIdle StatusKind = iota
	StatusUploading
	StatusSuccess
	StatusError
)

// Ingest owns the selected-file reference and the status message for the
// CSV upload tab. Status does not auto-reset; each upload overwrites the
// previous outcome.
type Ingest struct {
	gen      uint64
	filePath string
	kind     StatusKind
	message  string
}

// NewIngest creates an ingest controller in the idle state.
func NewIngest() *Ingest {
	return &Ingest{}
}

// SetFile records the selected file path.
func (i *Ingest) SetFile(path string) { i.filePath = path }

// File returns the selected file path, empty when none is selected.
func (i *Ingest) File() string { return i.filePath }

// Start begins an upload of the selected file. Without a file it fails
// locally with ErrNoFileSelected: no request is issued and the status
// becomes the validation message.
func (i *Ingest) Start() (uint64, error) {
	if i.filePath == "" {
		i.kind = StatusError
		i.message = "✗ No file selected. Choose a CSV file first."
		return 0, ErrNoFileSelected
	}
	i.gen++
	i.kind = StatusUploading
	i.message = "Uploading..."
	return i.gen, nil
}

// Resolve applies a completed upload. Stale generations are discarded.
func (i *Ingest) Resolve(gen uint64, res backend.IngestResult, err error) bool {
	if gen != i.gen {
		return false
	}
	if err != nil {
		i.kind = StatusError
		i.message = fmt.Sprintf("✗ Upload failed: %v", err)
		return true
	}
	i.kind = StatusSuccess
	i.message = fmt.Sprintf("✓ Upload complete: %d rows inserted.", res.RowsInserted)
	return true
}

// Status returns the current status kind and message.
func (i *Ingest) Status() (StatusKind, string) { return i.kind, i.message }
