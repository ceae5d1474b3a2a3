package stub

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Summarizer produces a text summary for one video record.
type Summarizer interface {
	Summarize(ctx context.Context, title, text string) (string, error)
}

// OpenAIConfig holds the settings for the OpenAI-compatible summarizer.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// OpenAISummarizer generates summaries through an OpenAI-compatible chat
// completion API.
type OpenAISummarizer struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewOpenAISummarizer creates an LLM-backed summarizer.
func NewOpenAISummarizer(cfg OpenAIConfig) *OpenAISummarizer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAISummarizer{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: logger,
	}
}

const summaryPrompt = "Summarize the following video content in a few short paragraphs. " +
	"Focus on the main topics; do not invent details that are not in the text."

// Summarize implements Summarizer.
func (s *OpenAISummarizer) Summarize(ctx context.Context, title, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errors.New("nothing to summarize")
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summaryPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Title: %s\n\n%s", title, text)},
		},
	})
	if err != nil {
		s.logger.Warn("chat completion failed", zap.Error(err))
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

// ExtractiveSummarizer is the no-key fallback: it returns the first few
// sentences of the source text.
type ExtractiveSummarizer struct {
	MaxSentences int
}

// Summarize implements Summarizer.
func (s *ExtractiveSummarizer) Summarize(_ context.Context, _, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("nothing to summarize")
	}

	limit := s.MaxSentences
	if limit <= 0 {
		limit = 3
	}

	sentences := splitSentences(text)
	if len(sentences) > limit {
		sentences = sentences[:limit]
	}
	return strings.Join(sentences, " "), nil
}

// splitSentences is deliberately naive; the stub only needs plausible text.
func splitSentences(text string) []string {
	var out []string
	var b strings.Builder
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(b.String()); s != "" {
				out = append(out, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		out = append(out, s)
	}
	return out
}
