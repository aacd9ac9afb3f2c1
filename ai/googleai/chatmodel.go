package googleai

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Semara-26/shiki-pilot/ai"
	"github.com/tmc/langchaingo/llms"
)

// ChatModel implements ai.ChatModel using Gemini chat models in streaming mode.
type ChatModel struct {
	client  llms.Model
	timeout time.Duration
	logger  *slog.Logger
}

// newChatModel is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newChatModel(client llms.Model, timeout time.Duration) *ChatModel {
	return &ChatModel{
		client:  client,
		timeout: timeout,
		logger:  slog.Default().With("component", "googleai-chatmodel"),
	}
}

// NewChatModel creates a new chat model using the provided configuration.
//
// Returns ai.ChatModel interface to enforce abstraction.
func NewChatModel(ctx context.Context, config *ai.Config) (ai.ChatModel, error) {
	client, err := newClient(ctx, config)
	if err != nil {
		return nil, err
	}
	return newChatModel(client, config.GenerateTimeout), nil
}

// StreamAnswer invokes the generative model and relays chunks to onToken as
// they are produced. The full answer text is returned on clean completion.
func (m *ChatModel) StreamAnswer(ctx context.Context, system string, history []ai.Turn, onToken ai.StreamFunc) (string, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	content := make([]llms.MessageContent, 0, len(history)+1)
	if system != "" {
		content = append(content, llms.TextParts(llms.ChatMessageTypeSystem, system))
	}
	for _, turn := range history {
		role := llms.ChatMessageTypeHuman
		if turn.Role == "assistant" {
			role = llms.ChatMessageTypeAI
		}
		content = append(content, llms.TextParts(role, turn.Content))
	}

	var full strings.Builder
	opts := []llms.CallOption{
		llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			full.Write(chunk)
			if onToken != nil {
				return onToken(ctx, chunk)
			}
			return nil
		}),
	}

	resp, err := m.client.GenerateContent(ctx, content, opts...)
	if err != nil {
		m.logger.Error("generation failed", "err", err)
		return "", err
	}

	// Some model wrappers only populate the response and never invoke the
	// streaming callback. Fall back to the response content in that case.
	if full.Len() == 0 {
		if resp == nil || len(resp.Choices) == 0 {
			m.logger.Warn("generation returned no choices")
			return "", errors.New("googleai: empty generation response")
		}
		text := resp.Choices[0].Content
		if onToken != nil && text != "" {
			if err := onToken(ctx, []byte(text)); err != nil {
				return "", err
			}
		}
		return text, nil
	}

	return full.String(), nil
}
