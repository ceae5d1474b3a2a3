package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// VideoPayload is the raw video record nested inside a search hit.
// Upstream producers disagree on key naming, so the same logical field can
// arrive under several keys; every field is optional. Resolution of the
// aliases into a single canonical value happens in Normalize.
type VideoPayload struct {
	Title        string `json:"title,omitempty"`
	Description  string `json:"description,omitempty"`
	Transcript   string `json:"transcript,omitempty"`
	CombinedText string `json:"combined_text,omitempty"`

	ThumbnailHigh    string `json:"thumbnail_high,omitempty"`
	ThumbnailDefault string `json:"thumbnail_default,omitempty"`
	Thumbnail        string `json:"thumbnail,omitempty"`

	ViewCount    *float64 `json:"viewCount,omitempty"`
	Views        *float64 `json:"views,omitempty"`
	LikeCount    *float64 `json:"likeCount,omitempty"`
	Likes        *float64 `json:"likes,omitempty"`
	CommentCount *float64 `json:"commentCount,omitempty"`
	Comments     *float64 `json:"comments,omitempty"`

	TranscriptAvailable *bool `json:"transcript_available,omitempty"`
	HasTranscript       *bool `json:"has_transcript,omitempty"`

	VideoID    string `json:"video_id,omitempty"`
	VideoIDAlt string `json:"videoId,omitempty"`
	ID         string `json:"id,omitempty"`

	PublishDate   string     `json:"publish_date,omitempty"`
	Language      string     `json:"language,omitempty"`
	AudioLanguage string     `json:"audio_language,omitempty"`
	Duration      FlexString `json:"duration,omitempty"`

	ChannelCountry     string   `json:"channel_country,omitempty"`
	ChannelSubscribers *float64 `json:"subscriber_count,omitempty"`
}

// FlexString decodes a JSON string or number into its string form.
// The duration field arrives either as raw seconds or pre-formatted text.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("unmarshal flex string: %w", err)
		}
		*s = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("unmarshal flex number: %w", err)
	}
	*s = FlexString(n.String())
	return nil
}
