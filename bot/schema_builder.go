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
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/patter-ai/patter/ai"
	"github.com/patter-ai/patter/core"
	"github.com/patter-ai/patter/intake"
	"github.com/patter-ai/patter/storage"
)

const leadSchemaSystemPrompt = "You convert business owners' free-text descriptions of lead forms " +
	"into a strict JSON schema. Output JSON only with fields: " +
	`{"fields": [{"id": "<snake_case of label>", "label": "<label>", "type": "<type>", "required": <bool>}]}. ` +
	"Types: text, email, tel, number, date, select, boolean. " +
	"Infer required from wording. Never include comments."

const dynSchemaSystemPrompt = "You convert free-text descriptions of additional intake questions " +
	"into a strict JSON schema. Output JSON only with fields: " +
	`{"sections": [{"id": "<id>", "title": "<title>", "questions": [{"id": "<snake_case of label>", "label": "<label>", "type": "<type>", "required": <bool>}]}]}. ` +
	"Types: text, email, tel, number, date, select, boolean. Never include comments."

// SchemaBuilder turns a business owner's free-text description of their
// intake form into a lead or dynamic schema with one model call, and
// stores the result on the agent. The model boundary is best-effort: an
// unextractable reply is an error, never a partial write.
type SchemaBuilder struct {
	agents storage.AgentRepository
	chat   ai.ChatModel
	logger *slog.Logger
}

// NewSchemaBuilder creates a schema builder.
func NewSchemaBuilder(agents storage.AgentRepository, chat ai.ChatModel) (*SchemaBuilder, error) {
	if agents == nil {
		return nil, ErrAgentRepositoryRequired
	}
	if chat == nil {
		return nil, ErrChatModelRequired
	}
	return &SchemaBuilder{
		agents: agents,
		chat:   chat,
		logger: slog.Default().With("component", "schema_builder"),
	}, nil
}

// BuildLeadSchema generates the agent's lead schema from a description and
// persists it. The generated schema has a single "lead" section.
func (b *SchemaBuilder) BuildLeadSchema(ctx context.Context, agentID core.ID, description string) (*intake.Schema, error) {
	schema, err := b.generate(ctx, leadSchemaSystemPrompt, description)
	if err != nil {
		return nil, err
	}

	return schema, b.persist(ctx, agentID, schema, func(agent *core.Agent, encoded string) {
		agent.LeadSchemaJSON = encoded
	})
}

// BuildDynamicSchema generates the agent's dynamic schema from a
// description and persists it.
func (b *SchemaBuilder) BuildDynamicSchema(ctx context.Context, agentID core.ID, description string) (*intake.Schema, error) {
	schema, err := b.generate(ctx, dynSchemaSystemPrompt, description)
	if err != nil {
		return nil, err
	}

	return schema, b.persist(ctx, agentID, schema, func(agent *core.Agent, encoded string) {
		agent.DynSchemaJSON = encoded
	})
}

func (b *SchemaBuilder) generate(ctx context.Context, system, description string) (*intake.Schema, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: description is empty", ErrInvalidConfig)
	}

	user := fmt.Sprintf("Create schema from this description:\n\n%s\n\nOutput only JSON.", description)
	raw, err := b.chat.Complete(ctx, system, user, 0)
	if err != nil {
		return nil, fmt.Errorf("schema model call: %w", err)
	}

	schema, ok := parseGeneratedSchema(raw)
	if !ok {
		return nil, ErrSchemaNotExtracted
	}
	return schema, nil
}

func (b *SchemaBuilder) persist(ctx context.Context, agentID core.ID, schema *intake.Schema, set func(*core.Agent, string)) error {
	agent, err := b.agents.GetAgent(ctx, agentID)
	if err != nil {
		return fmt.Errorf("loading agent %s: %w", agentID, err)
	}

	set(agent, intake.EncodeSchema(schema))
	if _, err := b.agents.UpdateAgent(ctx, agent); err != nil {
		return fmt.Errorf("storing schema on agent %s: %w", agentID, err)
	}

	b.logger.InfoContext(ctx, "schema rebuilt",
		"agent_id", agentID, "sections", len(schema.Sections))
	return nil
}

// parseGeneratedSchema accepts the shapes models actually emit: a full
// {"sections": [...]} schema, or a flat {"fields": [...]} or
// {"questions": [...]} list wrapped into a single section.
func parseGeneratedSchema(raw string) (*intake.Schema, bool) {
	full := &intake.Schema{}
	if extractFirstJSON(raw, full) && len(full.Sections) > 0 {
		return full, true
	}

	flat := &struct {
		Fields    []intake.Question `json:"fields"`
		Questions []intake.Question `json:"questions"`
	}{}
	if !extractFirstJSON(raw, flat) {
		return nil, false
	}

	questions := flat.Fields
	if len(questions) == 0 {
		questions = flat.Questions
	}
	if len(questions) == 0 {
		return nil, false
	}

	return &intake.Schema{Sections: []intake.Section{{
		Id:        "details",
		Title:     "Details",
		Questions: questions,
	}}}, true
}
