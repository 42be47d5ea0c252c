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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidConversation indicates a Conversation failed validation.
	ErrInvalidConversation = errors.New("invalid conversation")

	// ErrInvalidLead indicates a Lead failed validation.
	ErrInvalidLead = errors.New("invalid lead")

	// ErrInvalidVendor indicates a Vendor failed validation.
	ErrInvalidVendor = errors.New("invalid vendor")

	// ErrEmptyContent indicates a required text field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrMissingAgent indicates the owning agent reference is missing.
	ErrMissingAgent = errors.New("agent id is required")

	// ErrInvalidRole indicates an invalid MessageRole value.
	ErrInvalidRole = errors.New("invalid message role")

	// ErrInvalidLeadStatus indicates an invalid LeadStatus value.
	ErrInvalidLeadStatus = errors.New("invalid lead status")
)
