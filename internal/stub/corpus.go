package stub

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/kiran-cloud/tubedex/internal/normalize"
)

// Corpus is the stub's in-memory video index. It exists to exercise the
// wire contract, not to approximate the production ranker: relevance is
// plain token overlap.
type Corpus struct {
	mu      sync.RWMutex
	records []normalize.VideoPayload
}

// NewCorpus creates an empty corpus.
func NewCorpus() *Corpus {
	return &Corpus{}
}

// Len returns the number of indexed records.
func (c *Corpus) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// AddCSV parses a header-mapped CSV stream and appends one record per row.
// Unknown columns are ignored. Returns the number of rows inserted.
func (c *Corpus) AddCSV(r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []normalize.VideoPayload
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read csv row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, rowToPayload(header, row))
	}

	c.mu.Lock()
	c.records = append(c.records, rows...)
	c.mu.Unlock()
	return len(rows), nil
}

// rowToPayload maps CSV columns onto payload fields by header name.
func rowToPayload(header, row []string) normalize.VideoPayload {
	var p normalize.VideoPayload
	for i, col := range header {
		if i >= len(row) {
			break
		}
		val := strings.TrimSpace(row[i])
		if val == "" {
			continue
		}
		switch col {
		case "title":
			p.Title = val
		case "description":
			p.Description = val
		case "transcript":
			p.Transcript = val
		case "combined_text":
			p.CombinedText = val
		case "video_id":
			p.VideoID = val
		case "thumbnail_high":
			p.ThumbnailHigh = val
		case "thumbnail_default":
			p.ThumbnailDefault = val
		case "thumbnail":
			p.Thumbnail = val
		case "publish_date":
			p.PublishDate = val
		case "language":
			p.Language = val
		case "duration":
			p.Duration = normalize.FlexString(val)
		case "channel_country":
			p.ChannelCountry = val
		case "viewCount", "views":
			if n, err := strconv.ParseFloat(val, 64); err == nil {
				p.ViewCount = &n
			}
		case "likeCount", "likes":
			if n, err := strconv.ParseFloat(val, 64); err == nil {
				p.LikeCount = &n
			}
		case "commentCount", "comments":
			if n, err := strconv.ParseFloat(val, 64); err == nil {
				p.CommentCount = &n
			}
		case "subscriber_count":
			if n, err := strconv.ParseFloat(val, 64); err == nil {
				p.ChannelSubscribers = &n
			}
		case "transcript_available":
			b := strings.EqualFold(val, "true") || val == "1"
			p.TranscriptAvailable = &b
		}
	}
	return p
}

// Search ranks records by token overlap with the query and returns at most
// topK of them, best first. An empty query matches everything with equal
// score, so insertion order is preserved.
func (c *Corpus) Search(query string, topK int) []normalize.VideoPayload {
	c.mu.RLock()
	defer c.mu.RUnlock()

	terms := tokenize(query)

	type scored struct {
		payload normalize.VideoPayload
		score   int
		order   int
	}

	ranked := make([]scored, 0, len(c.records))
	for i, rec := range c.records {
		ranked = append(ranked, scored{payload: rec, score: overlap(terms, rec), order: i})
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].score > ranked[b].score
	})

	if topK > 0 && len(ranked) > topK {
		ranked = ranked[:topK]
	}
	out := make([]normalize.VideoPayload, 0, len(ranked))
	for _, s := range ranked {
		out = append(out, s.payload)
	}
	return out
}

func overlap(terms []string, rec normalize.VideoPayload) int {
	text := rec.CombinedText
	if text == "" {
		text = rec.Title + " " + rec.Description + " " + rec.Transcript
	}
	text = strings.ToLower(text)

	score := 0
	for _, term := range terms {
		if strings.Contains(text, term) {
			score++
		}
	}
	return score
}

func tokenize(s string) []string {
	return strings.Fields(strings.ToLower(s))
}
