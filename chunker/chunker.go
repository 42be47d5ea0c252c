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


package chunker

import (
	"fmt"
	"iter"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// Encodings load from the bundled dictionaries so construction never
// reaches the network.
func init() {
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

const (
	// DefaultModel selects the tokenizer encoding.
	DefaultModel = "gpt-3.5-turbo"

	// DefaultTargetTokens is the window size in tokens.
	DefaultTargetTokens = 500

	// DefaultOverlapTokens is how many tokens consecutive windows share.
	DefaultOverlapTokens = 50
)

// Chunker splits text into overlapping token windows. Windows are cut on
// token boundaries so no window ever splits a token, and consecutive
// windows share their overlap region verbatim.
type Chunker struct {
	targetTokens  int
	overlapTokens int
	encoding      *tiktoken.Tiktoken
}

// Option configures a Chunker.
type Option func(*Chunker) error

// WithTargetTokens sets the window size in tokens.
func WithTargetTokens(n int) Option {
	return func(c *Chunker) error {
		if n <= 0 {
			return fmt.Errorf("%w: target tokens must be positive, got %d", ErrInvalidConfig, n)
		}
		c.targetTokens = n
		return nil
	}
}

// WithOverlapTokens sets how many tokens consecutive windows share.
func WithOverlapTokens(n int) Option {
	return func(c *Chunker) error {
		if n < 0 {
			return fmt.Errorf("%w: overlap tokens must be non-negative, got %d", ErrInvalidConfig, n)
		}
		c.overlapTokens = n
		return nil
	}
}

// WithModel selects the tokenizer encoding by model name.
func WithModel(model string) Option {
	return func(c *Chunker) error {
		encoding, err := tiktoken.EncodingForModel(model)
		if err != nil {
			return fmt.Errorf("%w: unknown model %q: %v", ErrInvalidConfig, model, err)
		}
		c.encoding = encoding
		return nil
	}
}

// New creates a Chunker with the default 500-token windows and 50-token
// overlap, then applies options.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		targetTokens:  DefaultTargetTokens,
		overlapTokens: DefaultOverlapTokens,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.overlapTokens >= c.targetTokens {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than target %d",
			ErrInvalidConfig, c.overlapTokens, c.targetTokens)
	}

	if c.encoding == nil {
		encoding, err := tiktoken.EncodingForModel(DefaultModel)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEncodingUnavailable, err)
		}
		c.encoding = encoding
	}

	return c, nil
}

// Split returns all windows of text as a slice. Empty or whitespace-only
// input yields no windows.
func (c *Chunker) Split(text string) []string {
	var chunks []string
	for chunk := range c.Windows(text) {
		chunks = append(chunks, chunk)
	}
	return chunks
}

// Windows lazily yields overlapping token windows of text. Each window
// holds at most targetTokens tokens; the final window may be shorter.
// The next window starts overlapTokens before the previous end, clamped
// to zero when overlap meets or exceeds the window size.
func (c *Chunker) Windows(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		tokens := c.encoding.Encode(text, nil, nil)

		start := 0
		for start < len(tokens) {
			end := start + c.targetTokens
			if end > len(tokens) {
				end = len(tokens)
			}

			if !yield(c.encoding.Decode(tokens[start:end])) {
				return
			}
			if end == len(tokens) {
				return
			}

			start = end - c.overlapTokens
			if start < 0 {
				start = 0
			}
		}
	}
}

// CountTokens returns the token count of text under the chunker's encoding.
func (c *Chunker) CountTokens(text string) int {
	return len(c.encoding.Encode(text, nil, nil))
}
