// Package normalize maps heterogeneous backend video records into a single
// display-safe view model. It is pure: no I/O, no mutation of its input.
//
// The alias precedence implemented here is a contract shared with every
// upstream producer; changing the order silently changes which value wins
// when a record carries several spellings of the same field.
package normalize

import (
	"fmt"
	"strconv"
	"strings"
)

// Sentinels substituted for absent optional fields.
const (
	NotAvailable  = "N/A"
	NoDescription = "No description available."
)

const (
	descriptionPreviewLen = 200
	watchURLPrefix        = "https://www.youtube.com/watch?v="
)

// Item is the canonical view model for one search hit.
type Item struct {
	Title              string
	DescriptionPreview string
	Thumbnail          string // resolved URL; empty means render a placeholder
	Views              int64
	Likes              int64
	Comments           int64
	HasTranscript      bool
	VideoID            string
	WatchURL           string
	PublishDate        string
	Language           string
	Duration           string
	ChannelCountry     string
	Subscribers        int64

	// Payload retains the raw record so a later summarize action can
	// snapshot it without re-fetching.
	Payload VideoPayload
}

// Normalize resolves a raw payload into an Item, substituting sentinels for
// absent fields. It never fails: a zero-value payload yields a fully
// populated Item.
func Normalize(p VideoPayload) Item {
	return Item{
		Title:              orNA(p.Title),
		DescriptionPreview: previewDescription(p.Description),
		Thumbnail:          resolveThumbnail(p),
		Views:              resolveCount(p.ViewCount, p.Views),
		Likes:              resolveCount(p.LikeCount, p.Likes),
		Comments:           resolveCount(p.CommentCount, p.Comments),
		HasTranscript:      transcriptAvailable(p),
		VideoID:            resolveVideoID(p),
		WatchURL:           WatchURL(resolveVideoID(p)),
		PublishDate:        orNA(p.PublishDate),
		Language:           resolveLanguage(p),
		Duration:           formatDuration(string(p.Duration)),
		ChannelCountry:     orNA(p.ChannelCountry),
		Subscribers:        countValue(p.ChannelSubscribers),
		Payload:            p,
	}
}

// NormalizeAll maps a result sequence, preserving the relevance order as
// received. The backend ranks; the client must not re-sort.
func NormalizeAll(payloads []VideoPayload) []Item {
	items := make([]Item, 0, len(payloads))
	for _, p := range payloads {
		items = append(items, Normalize(p))
	}
	return items
}

// WatchURL builds the watch link for a video identifier. An empty identifier
// produces a dead but well-formed link.
func WatchURL(id string) string {
	return watchURLPrefix + id
}

// resolveThumbnail picks the first present thumbnail key:
// thumbnail_high, then thumbnail_default, then thumbnail.
func resolveThumbnail(p VideoPayload) string {
	switch {
	case p.ThumbnailHigh != "":
		return p.ThumbnailHigh
	case p.ThumbnailDefault != "":
		return p.ThumbnailDefault
	default:
		return p.Thumbnail
	}
}

// resolveCount prefers the camel-case count field over the short alias.
func resolveCount(primary, alias *float64) int64 {
	if primary != nil {
		return int64(*primary)
	}
	return countValue(alias)
}

func countValue(v *float64) int64 {
	if v == nil {
		return 0
	}
	return int64(*v)
}

// transcriptAvailable is true when either availability flag is set or the
// transcript text itself is present.
func transcriptAvailable(p VideoPayload) bool {
	if p.TranscriptAvailable != nil && *p.TranscriptAvailable {
		return true
	}
	if p.HasTranscript != nil && *p.HasTranscript {
		return true
	}
	return strings.TrimSpace(p.Transcript) != ""
}

// resolveVideoID tries video_id, then videoId, then id.
func resolveVideoID(p VideoPayload) string {
	switch {
	case p.VideoID != "":
		return p.VideoID
	case p.VideoIDAlt != "":
		return p.VideoIDAlt
	default:
		return p.ID
	}
}

func resolveLanguage(p VideoPayload) string {
	if p.Language != "" {
		return p.Language
	}
	return orNA(p.AudioLanguage)
}

// previewDescription truncates to the first 200 characters.
func previewDescription(desc string) string {
	if desc == "" {
		return NoDescription
	}
	runes := []rune(desc)
	if len(runes) <= descriptionPreviewLen {
		return desc
	}
	return string(runes[:descriptionPreviewLen])
}

// formatDuration renders raw seconds as H:MM:SS / M:SS, passes through
// pre-formatted strings, and falls back to the sentinel when absent.
func formatDuration(raw string) string {
	if raw == "" {
		return NotAvailable
	}
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	total := int64(secs)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func orNA(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}
