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

import "fmt"

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - AgentId must be set
//   - RawText must not be empty
//
// NOT validated:
//   - ID (generated on insert)
//   - Metadata (free-form)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}
	if doc.AgentId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrMissingAgent)
	}
	if doc.RawText == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyContent)
	}
	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// NOT validated (populated by ingestion):
//   - Embedding (can be empty until embedded)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}
	if chunk.AgentId == "" || chunk.DocumentId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrMissingAgent)
	}
	if chunk.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyContent)
	}
	if chunk.PositionIndex < 0 {
		return fmt.Errorf("%w: negative position index %d", ErrInvalidChunk, chunk.PositionIndex)
	}
	return nil
}

// ValidateMessageRole validates that a MessageRole has a valid value.
func ValidateMessageRole(role MessageRole) error {
	switch role {
	case RoleUser, RoleAssistant, RoleSystem:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidRole, role)
}

// ValidateLeadStatus validates that a LeadStatus has a valid value.
func ValidateLeadStatus(status LeadStatus) error {
	switch status {
	case LeadStatusNew, LeadStatusQualified, LeadStatusContacted,
		LeadStatusConverted, LeadStatusRejected:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidLeadStatus, status)
}

// ValidateLead validates a Lead according to domain rules.
func ValidateLead(lead *Lead) error {
	if lead == nil {
		return fmt.Errorf("%w: lead is nil", ErrInvalidLead)
	}
	if lead.AgentId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidLead, ErrMissingAgent)
	}
	if err := ValidateLeadStatus(lead.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLead, err)
	}
	return nil
}

// ValidateVendor validates a Vendor according to domain rules.
// An empty criteria list is valid: such vendors are always eligible for
// routing at score zero.
func ValidateVendor(vendor *Vendor) error {
	if vendor == nil {
		return fmt.Errorf("%w: vendor is nil", ErrInvalidVendor)
	}
	if vendor.AgentId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVendor, ErrMissingAgent)
	}
	for _, c := range vendor.Criteria {
		if c.Field == "" {
			return fmt.Errorf("%w: criterion with empty field", ErrInvalidVendor)
		}
	}
	return nil
}
