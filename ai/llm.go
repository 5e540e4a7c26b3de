package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"property-ops/config"
)

var ErrEmptyCompletion = errors.New("no response from AI")

// Completer produces free text for a system/user prompt pair.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type OpenAICompleter struct {
	client      openai.Client
	model       string
	timeout     time.Duration
	temperature float64
	maxTokens   int64
}

// NewOpenAICompleter returns nil when no API key is configured.
func NewOpenAICompleter(opts config.OpenAIOptions) *OpenAICompleter {
	if !opts.Enabled() {
		return nil
	}
	requestOptions := []option.RequestOption{option.WithAPIKey(opts.Key)}
	if opts.BaseURL != "" {
		requestOptions = append(requestOptions, option.WithBaseURL(opts.BaseURL))
	}
	return &OpenAICompleter{
		client:      openai.NewClient(requestOptions...),
		model:       opts.Model,
		timeout:     opts.Timeout,
		temperature: 0.2,
		maxTokens:   300,
	}
}

func (c *OpenAICompleter) Complete(ctx context.Context, system, user string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	response, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(c.temperature),
		MaxTokens:   openai.Int(c.maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get AI response: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	text := strings.TrimSpace(response.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
