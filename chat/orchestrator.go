package chat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Semara-26/shiki-pilot/ai"
	"github.com/Semara-26/shiki-pilot/core"
	"github.com/Semara-26/shiki-pilot/retrieval"
)

// Orchestrator runs one question-answer turn against a store's catalog.
type Orchestrator struct {
	sessions  *SessionManager
	retriever *retrieval.Retriever
	model     ai.ChatModel
	logger    *slog.Logger
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator) error

// WithOrchestratorLogger sets a custom logger.
// Default is slog.Default().
func WithOrchestratorLogger(logger *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// NewOrchestrator creates a new orchestrator.
func NewOrchestrator(sessions *SessionManager, retriever *retrieval.Retriever, model ai.ChatModel, opts ...OrchestratorOption) (*Orchestrator, error) {
	if sessions == nil {
		return nil, ErrSessionManagerRequired
	}
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if model == nil {
		return nil, ErrChatModelRequired
	}

	o := &Orchestrator{
		sessions:  sessions,
		retriever: retriever,
		model:     model,
		logger:    slog.Default().With("component", "orchestrator"),
	}

	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Answer runs one turn: persist the user's question, assemble the grounded
// instruction, stream the model's answer through onToken, then persist the
// finished answer.
//
// The question is durable before the model is called, so an aborted stream
// leaves it in the log with no assistant reply. The assistant message is
// appended only when the stream completed cleanly; if that append fails the
// turn is reported failed even though the caller saw the tokens, because
// the persisted log is the source of truth.
func (o *Orchestrator) Answer(ctx context.Context, storeID core.ID, question string, onToken ai.StreamFunc) (string, error) {
	session, err := o.sessions.GetOrCreate(ctx, storeID)
	if err != nil {
		return "", err
	}

	if _, err := o.sessions.AppendMessage(ctx, storeID, session.Id, core.MessageRoleUser, question); err != nil {
		return "", err
	}

	result, err := o.retriever.Retrieve(ctx, storeID, question)
	if err != nil {
		return "", err
	}
	system := retrieval.BuildSystemPrompt(result)

	history, err := o.sessions.History(ctx, storeID)
	if err != nil {
		return "", err
	}
	turns := make([]ai.Turn, len(history))
	for i, message := range history {
		turns[i] = ai.Turn{Role: message.Role.String(), Content: message.Content}
	}

	answer, err := o.model.StreamAnswer(ctx, system, turns, onToken)
	if err != nil {
		o.logger.Warn("Answer stream failed, nothing persisted",
			"store_id", storeID, "error", err)
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	if _, err := o.sessions.AppendMessage(ctx, storeID, session.Id, core.MessageRoleAssistant, answer); err != nil {
		return "", fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}

	o.logger.Info("Answer turn completed",
		"store_id", storeID,
		"grounded", result != nil && len(result.Candidates) > 0,
		"answer_length", len(answer))

	return answer, nil
}
