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


package patter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patter-ai/patter/ai/mock"
	"github.com/patter-ai/patter/bot"
	"github.com/patter-ai/patter/core"
)

func setupDatabase(t *testing.T, chat *mock.MockChat) *Database {
	t.Helper()

	db, err := NewDatabase("",
		WithInMemory(),
		WithProvider(mock.NewMockProviderWithServices(mock.NewMockEmbedder(), chat)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func TestNewDatabaseWiresRepositories(t *testing.T) {
	db := setupDatabase(t, mock.NewMockChat(""))
	ctx := context.Background()

	agent, err := db.AgentRepository().AddAgent(ctx, &core.Agent{
		Name:   "Acme Movers",
		Status: core.AgentStatusActive,
	})
	require.NoError(t, err)

	loaded, err := db.AgentRepository().GetAgent(ctx, agent.Id)
	require.NoError(t, err)
	assert.Equal(t, "Acme Movers", loaded.Name)

	assert.NotNil(t, db.DocumentRepository())
	assert.NotNil(t, db.ChunkRepository())
	assert.NotNil(t, db.ConversationRepository())
	assert.NotNil(t, db.LeadRepository())
	assert.NotNil(t, db.VendorRepository())
	assert.NotNil(t, db.Retriever())
}

func TestIngestThenChatEndToEnd(t *testing.T) {
	chat := mock.NewMockChat(`{"assistant": "Yes, we move pianos!", "lead_updates": [], "dyn_updates": [], "intake_complete": false, "done_sections": []}`)
	db := setupDatabase(t, chat)
	ctx := context.Background()

	agent, err := db.AgentRepository().AddAgent(ctx, &core.Agent{
		Name:           "Acme Movers",
		Status:         core.AgentStatusActive,
		WelcomeMessage: "Hi there!",
		LeadSchemaJSON: `{"sections":[{"id":"lead","questions":[{"id":"name","label":"Name","type":"text","required":true}]}]}`,
	})
	require.NoError(t, err)

	pipeline, err := db.NewIngestionPipeline()
	require.NoError(t, err)
	defer pipeline.Release()

	doc, err := pipeline.IngestText(ctx, agent.Id, "FAQ", "faq.txt",
		"We move pianos, offices, and apartments across the city. Weekend slots fill up fast, so book early.")
	require.NoError(t, err)

	chunks, err := db.ChunkRepository().GetChunksByDocument(ctx, doc.Id)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	assert.NotEmpty(t, chunks[0].Embedding)

	engine, err := db.NewEngine()
	require.NoError(t, err)
	defer engine.Release()

	reply, err := engine.Chat(ctx, bot.ChatRequest{
		AgentId:  agent.Id,
		ClientId: "client-1",
		Channel:  "inapp",
		Text:     "do you move pianos?",
	})
	require.NoError(t, err)

	assert.Equal(t, "Yes, we move pianos!", reply.Text)
	assert.NotEmpty(t, reply.Citations)
	assert.Contains(t, chat.LastUser, "CONTEXT PASSAGES:")
}

func TestRouterFromDatabase(t *testing.T) {
	db := setupDatabase(t, mock.NewMockChat(""))
	ctx := context.Background()

	agent, err := db.AgentRepository().AddAgent(ctx, &core.Agent{Name: "Acme", Status: core.AgentStatusActive})
	require.NoError(t, err)

	_, err = db.VendorRepository().AddVendor(ctx, &core.Vendor{
		AgentId: agent.Id,
		Name:    "Metro Movers",
		Status:  core.VendorStatusActive,
	})
	require.NoError(t, err)

	conv, err := db.ConversationRepository().GetOrCreateConversation(ctx, agent.Id, "client-1", "inapp")
	require.NoError(t, err)

	lead, err := db.LeadRepository().UpsertLead(ctx, &core.Lead{
		AgentId:        agent.Id,
		ConversationId: conv.Id,
		Payload:        map[string]string{"name": "Dana"},
		Status:         core.LeadStatusQualified,
	})
	require.NoError(t, err)

	router, err := db.NewRouter()
	require.NoError(t, err)

	result, err := router.RouteLead(ctx, lead.Id)
	require.NoError(t, err)
	assert.True(t, result.Routed)

	routed, err := db.LeadRepository().GetLead(ctx, lead.Id)
	require.NoError(t, err)
	assert.Equal(t, core.LeadStatusContacted, routed.Status)
}

func TestSchemaBuilderFromDatabase(t *testing.T) {
	chat := mock.NewMockChat(`{"fields": [{"id": "name", "label": "Name", "type": "text", "required": true}]}`)
	db := setupDatabase(t, chat)
	ctx := context.Background()

	agent, err := db.AgentRepository().AddAgent(ctx, &core.Agent{Name: "Acme", Status: core.AgentStatusActive})
	require.NoError(t, err)

	builder, err := db.NewSchemaBuilder()
	require.NoError(t, err)

	schema, err := builder.BuildLeadSchema(ctx, agent.Id, "Collect the customer's name.")
	require.NoError(t, err)
	assert.NotNil(t, schema.Find("name"))
}
