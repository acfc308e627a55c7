package digest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sashabaranov/go-openai"

	"github.com/denprystai/mediamonitor/internal/domain"
)

// ErrDisabled is returned when no API key was configured.
var ErrDisabled = fmt.Errorf("digest disabled")

// OpenAIDigester writes a short digest of a user's saved articles
// through an OpenAI chat completion. Without an API key it stays
// disabled and every call returns ErrDisabled.
type OpenAIDigester struct {
	client  *openai.Client
	prompt  string
	enabled bool
	mu      sync.Mutex
}

// NewOpenAIDigester creates a digester; an empty apiKey disables it.
func NewOpenAIDigester(apiKey, prompt string) *OpenAIDigester {
	return &OpenAIDigester{
		client:  openai.NewClient(apiKey),
		prompt:  prompt,
		enabled: apiKey != "",
	}
}

// Enabled reports whether digests can be produced.
func (d *OpenAIDigester) Enabled() bool {
	return d.enabled
}

// Digest produces a prose digest of the saved articles.
func (d *OpenAIDigester) Digest(ctx context.Context, saved []domain.SavedArticle) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.enabled {
		return "", ErrDisabled
	}

	var sb strings.Builder
	for _, s := range saved {
		sb.WriteString(s.Article.Title)
		if s.Article.Summary != "" {
			sb.WriteString(": ")
			sb.WriteString(s.Article.Summary)
		}
		sb.WriteString("\n")
	}

	request := openai.ChatCompletionRequest{
		Model: openai.GPT3Dot5Turbo,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf("%s\n\n%s", d.prompt, sb.String()),
			},
		},
		MaxTokens:   256,
		Temperature: 0.7,
		TopP:        1,
	}

	resp, err := d.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
