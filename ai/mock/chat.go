package mock

import "context"

// MockChat is a test double for ai.ChatModel.
// It allows custom behavior injection via function fields.
type MockChat struct {
	// CompleteFunc is called by Complete if set.
	// If nil, Complete returns Reply.
	CompleteFunc func(ctx context.Context, system, user string, temperature float64) (string, error)

	// Reply is the canned response returned when CompleteFunc is nil.
	Reply string

	// LastSystem and LastUser capture the most recent prompt for
	// assertions.
	LastSystem string
	LastUser   string

	callCount int
}

// NewMockChat creates a mock chat model that echoes the given canned reply.
// Returns the concrete type to allow test assertions.
func NewMockChat(reply string) *MockChat {
	return &MockChat{Reply: reply}
}

// Complete returns the canned reply or delegates to CompleteFunc.
func (m *MockChat) Complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	m.callCount++
	m.LastSystem = system
	m.LastUser = user

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, system, user, temperature)
	}
	return m.Reply, nil
}

// CallCount returns the number of times Complete was called.
func (m *MockChat) CallCount() int {
	return m.callCount
}

// Reset clears the call count, captured prompts, and injected behavior.
func (m *MockChat) Reset() {
	m.callCount = 0
	m.LastSystem = ""
	m.LastUser = ""
	m.CompleteFunc = nil
}
