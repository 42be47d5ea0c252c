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

import (
	"encoding/json"
	"strings"

	"github.com/patter-ai/patter/core"
	"github.com/patter-ai/patter/intake"
)

// stateVersion is the current conversation state blob format.
const stateVersion = 1

// State is the per-conversation engine state persisted on the conversation
// metadata blob. The stack is an undo log of answered question ids in
// temporal order; popping it implements "back". The blob is treated as
// untrusted input on load: missing or malformed fields default to the
// agent's base schemas rather than poisoning the turn.
type State struct {
	Version           int            `json:"version"`
	LeadSchema        *intake.Schema `json:"lead_schema"`
	DynSchema         *intake.Schema `json:"dyn_schema"`
	Stack             []string       `json:"stack"`
	CompletedSections []string       `json:"completed_sections"`
}

// LoadState decodes a conversation's state blob, seeding any missing piece
// from the agent's configured base schemas. Reports whether the blob was
// absent, meaning this is the conversation's first turn.
func LoadState(meta string, agent *core.Agent) (*State, bool) {
	fresh := strings.TrimSpace(meta) == ""

	s := &State{}
	if !fresh {
		if err := json.Unmarshal([]byte(meta), s); err != nil {
			fresh = true
			s = &State{}
		}
	}

	if s.LeadSchema == nil || len(s.LeadSchema.Sections) == 0 {
		s.LeadSchema = intake.ParseSchema(agent.LeadSchemaJSON)
	}
	if s.DynSchema == nil || len(s.DynSchema.Sections) == 0 {
		s.DynSchema = intake.ParseSchema(agent.DynSchemaJSON)
	}
	if s.Stack == nil {
		s.Stack = []string{}
	}
	if s.CompletedSections == nil {
		s.CompletedSections = []string{}
	}
	s.Version = stateVersion

	return s, fresh
}

// Encode serializes the state for persistence on the conversation record.
func (s *State) Encode() string {
	raw, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return string(raw)
}

// PopStack removes and returns the most recently answered question id.
// Returns false when the stack is empty.
func (s *State) PopStack() (string, bool) {
	if len(s.Stack) == 0 {
		return "", false
	}
	id := s.Stack[len(s.Stack)-1]
	s.Stack = s.Stack[:len(s.Stack)-1]
	return id, true
}

// PushStack appends an answered question id to the undo log.
func (s *State) PushStack(questionId string) {
	s.Stack = append(s.Stack, questionId)
}

// MarkSectionsDone unions the given section ids into the completed set,
// preserving first-seen order.
func (s *State) MarkSectionsDone(sectionIds []string) {
	seen := make(map[string]struct{}, len(s.CompletedSections))
	for _, id := range s.CompletedSections {
		seen[id] = struct{}{}
	}
	for _, id := range sectionIds {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		s.CompletedSections = append(s.CompletedSections, id)
	}
}
