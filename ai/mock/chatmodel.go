package mock

import (
	"context"
	"strings"

	"github.com/Semara-26/shiki-pilot/ai"
)

// MockChatModel is a test double for ai.ChatModel.
// It allows custom behavior injection via function fields.
type MockChatModel struct {
	// StreamAnswerFunc is called by StreamAnswer if set.
	// If nil, uses default canned behavior.
	StreamAnswerFunc func(ctx context.Context, system string, history []ai.Turn, onToken ai.StreamFunc) (string, error)

	// Answer is the canned answer streamed by the default behavior.
	// Empty means a fixed placeholder answer.
	Answer string

	callCount int

	// LastSystem records the system instruction of the most recent call.
	LastSystem string

	// LastHistory records the history of the most recent call.
	LastHistory []ai.Turn
}

// NewMockChatModel creates a mock chat model with default canned behavior.
// Note: Returns concrete type to allow test assertions and behavior injection.
func NewMockChatModel() *MockChatModel {
	return &MockChatModel{}
}

// StreamAnswer streams the canned answer word by word through onToken.
func (m *MockChatModel) StreamAnswer(ctx context.Context, system string, history []ai.Turn, onToken ai.StreamFunc) (string, error) {
	m.callCount++
	m.LastSystem = system
	m.LastHistory = history

	if m.StreamAnswerFunc != nil {
		return m.StreamAnswerFunc(ctx, system, history, onToken)
	}

	answer := m.Answer
	if answer == "" {
		answer = "Baik, ada yang bisa saya bantu?"
	}

	if onToken != nil {
		words := strings.SplitAfter(answer, " ")
		for _, w := range words {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			default:
			}
			if err := onToken(ctx, []byte(w)); err != nil {
				return "", err
			}
		}
	}

	return answer, nil
}

// CallCount returns the number of times StreamAnswer was called.
func (m *MockChatModel) CallCount() int {
	return m.callCount
}

// Reset clears the call count, recorded inputs, and injected behavior.
func (m *MockChatModel) Reset() {
	m.callCount = 0
	m.LastSystem = ""
	m.LastHistory = nil
	m.StreamAnswerFunc = nil
}
