package mock

import (
	"context"

	"github.com/patter-ai/patter/ai"
)

// MockReranker is a test double for ai.Reranker.
type MockReranker struct {
	// RerankFunc is called by Rerank if set.
	// If nil, documents keep their input order with descending scores.
	RerankFunc func(ctx context.Context, query string, documents []string, topK int) ([]ai.RerankResult, error)

	callCount int
}

// NewMockReranker creates a mock reranker that preserves input order.
// Returns the concrete type to allow test assertions.
func NewMockReranker() *MockReranker {
	return &MockReranker{}
}

// Rerank preserves input order or delegates to RerankFunc.
func (m *MockReranker) Rerank(ctx context.Context, query string, documents []string, topK int) ([]ai.RerankResult, error) {
	m.callCount++

	if m.RerankFunc != nil {
		return m.RerankFunc(ctx, query, documents, topK)
	}

	n := len(documents)
	if topK > 0 && topK < n {
		n = topK
	}
	results := make([]ai.RerankResult, n)
	for i := 0; i < n; i++ {
		results[i] = ai.RerankResult{Index: i, Score: 1.0 - float64(i)*0.01}
	}
	return results, nil
}

// CallCount returns the number of times Rerank was called.
func (m *MockReranker) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockReranker) Reset() {
	m.callCount = 0
	m.RerankFunc = nil
}
