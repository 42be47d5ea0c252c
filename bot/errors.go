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


package bot

import "errors"

var (
	// ErrAgentRepositoryRequired indicates an Engine was constructed
	// without an agent repository.
	ErrAgentRepositoryRequired = errors.New("agent repository is required")

	// ErrConversationRepositoryRequired indicates an Engine was
	// constructed without a conversation repository.
	ErrConversationRepositoryRequired = errors.New("conversation repository is required")

	// ErrLeadRepositoryRequired indicates an Engine was constructed
	// without a lead repository.
	ErrLeadRepositoryRequired = errors.New("lead repository is required")

	// ErrChunkRepositoryRequired indicates an Engine was constructed
	// without a chunk repository.
	ErrChunkRepositoryRequired = errors.New("chunk repository is required")

	// ErrEmptyMessage indicates a chat turn was requested with no
	// message text.
	ErrEmptyMessage = errors.New("message text is empty")

	// ErrChatModelRequired indicates a schema build was requested
	// without a chat model.
	ErrChatModelRequired = errors.New("chat model is required")

	// ErrSchemaNotExtracted indicates the model reply contained no
	// parsable schema JSON.
	ErrSchemaNotExtracted = errors.New("no schema could be extracted from model output")

	// ErrInvalidConfig indicates an invalid configuration option.
	ErrInvalidConfig = errors.New("invalid configuration")
)
