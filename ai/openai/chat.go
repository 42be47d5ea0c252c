// Copyright 2025 Patter AI
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/patter-ai/patter/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Chat implements ai.ChatModel using OpenAI-compatible chat APIs.
type Chat struct {
	client llms.Model
	logger *slog.Logger
}

// newChat is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newChat(config *ai.Config) (*Chat, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(tokenFor(config)),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ai.ErrProviderUnavailable, err)
	}

	return &Chat{
		client: client,
		logger: slog.Default().With("component", "openai-chat"),
	}, nil
}

// NewChat creates a new chat model using the provided configuration.
//
// Returns ai.ChatModel interface to enforce abstraction.
func NewChat(config *ai.Config) (ai.ChatModel, error) {
	return newChat(config)
}

// Complete sends one consolidated prompt to the model and returns the raw
// reply text.
func (c *Chat) Complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	content := make([]llms.MessageContent, 0, 2)
	if system != "" {
		content = append(content, llms.MessageContent{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(system)},
		})
	}
	content = append(content, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(user)},
	})

	response, err := c.client.GenerateContent(ctx, content, llms.WithTemperature(temperature))
	if err != nil {
		c.logger.Error("failed to generate content", "err", err)
		return "", fmt.Errorf("%w: %v", ai.ErrProviderUnavailable, err)
	}

	if len(response.Choices) < 1 {
		c.logger.Debug("no choices returned from model")
		return "", ai.ErrEmptyResponse
	}

	return response.Choices[0].Content, nil
}

// tokenFor returns the configured API key, or "none" for local
// OpenAI-compatible services that do not require authentication.
func tokenFor(config *ai.Config) string {
	if config.APIKey != "" {
		return config.APIKey
	}
	return "none"
}
