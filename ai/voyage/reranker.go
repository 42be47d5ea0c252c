package voyage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/patter-ai/patter/ai"
)

const defaultEndpoint = "https://api.voyageai.com/v1/rerank"

// Reranker implements ai.Reranker against the Voyage AI rerank endpoint.
// There is no official Go SDK; the wire contract is a single JSON POST.
type Reranker struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// Option configures a Reranker.
type Option func(*Reranker)

// WithEndpoint overrides the rerank endpoint URL. Used in tests.
func WithEndpoint(url string) Option {
	return func(r *Reranker) { r.endpoint = url }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Reranker) { r.client = client }
}

// NewReranker creates a reranker for the given credentials and model.
//
// Returns ai.Reranker interface to enforce abstraction.
func NewReranker(apiKey, model string, opts ...Option) ai.Reranker {
	r := &Reranker{
		apiKey:   apiKey,
		model:    model,
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
		logger:   slog.Default().With("component", "voyage-reranker"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type rerankRequest struct {
	Model     string   `json:"model"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopK      int      `json:"top_k"`
}

type rerankResponse struct {
	Data []ai.RerankResult `json:"data"`
}

// Rerank scores (query, document) pairs and returns index/score results
// referencing positions in the input document list. Missing credentials and
// transport failures surface as ErrProviderUnavailable; callers fail open.
func (r *Reranker) Rerank(ctx context.Context, query string, documents []string, topK int) ([]ai.RerankResult, error) {
	if r.apiKey == "" {
		return nil, fmt.Errorf("%w: rerank API key not configured", ai.ErrProviderUnavailable)
	}
	if len(documents) == 0 {
		return []ai.RerankResult{}, nil
	}

	body, err := json.Marshal(rerankRequest{
		Model:     r.model,
		Query:     query,
		Documents: documents,
		TopK:      topK,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("rerank request failed", "err", err)
		return nil, fmt.Errorf("%w: %v", ai.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		r.logger.Warn("rerank request rejected", "status", resp.StatusCode, "body", string(payload))
		return nil, fmt.Errorf("%w: rerank status %d", ai.ErrProviderUnavailable, resp.StatusCode)
	}

	var parsed rerankResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decoding rerank response: %v", ai.ErrProviderUnavailable, err)
	}

	return parsed.Data, nil
}
