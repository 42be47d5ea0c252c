package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patter-ai/patter/ai/mock"
	"github.com/patter-ai/patter/core"
	"github.com/patter-ai/patter/intake"
	storagebadger "github.com/patter-ai/patter/storage/badger"
)

func setupSchemaBuilder(t *testing.T, chat *mock.MockChat) (*SchemaBuilder, *storagebadger.MemoryRepositories, *core.Agent) {
	t.Helper()

	repos, err := storagebadger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })

	agent, err := repos.Agents.AddAgent(context.Background(), &core.Agent{
		Name:   "Acme Movers",
		Status: core.AgentStatusActive,
	})
	require.NoError(t, err)

	builder, err := NewSchemaBuilder(repos.Agents, chat)
	require.NoError(t, err)

	return builder, repos, agent
}

func TestNewSchemaBuilderValidation(t *testing.T) {
	_, err := NewSchemaBuilder(nil, mock.NewMockChat(""))
	assert.ErrorIs(t, err, ErrAgentRepositoryRequired)
}

func TestBuildLeadSchemaFromFields(t *testing.T) {
	chat := mock.NewMockChat(`{"fields": [
		{"id": "full_name", "label": "Full Name", "type": "text", "required": true},
		{"id": "email", "label": "Email", "type": "email", "required": true}
	]}`)
	builder, repos, agent := setupSchemaBuilder(t, chat)
	ctx := context.Background()

	schema, err := builder.BuildLeadSchema(ctx, agent.Id, "I need the customer's full name and email address.")
	require.NoError(t, err)

	require.Len(t, schema.Sections, 1)
	require.NotNil(t, schema.Find("full_name"))
	assert.Equal(t, intake.TypeEmail, schema.Find("email").Type)

	stored, err := repos.Agents.GetAgent(ctx, agent.Id)
	require.NoError(t, err)
	parsed := intake.ParseSchema(stored.LeadSchemaJSON)
	assert.NotNil(t, parsed.Find("full_name"))
}

func TestBuildDynamicSchemaFullShape(t *testing.T) {
	chat := mock.NewMockChat("```json\n" + `{"sections": [{"id": "logistics", "title": "Logistics", "questions": [
		{"id": "move_date", "label": "Move Date", "type": "date"}
	]}]}` + "\n```")
	builder, repos, agent := setupSchemaBuilder(t, chat)
	ctx := context.Background()

	schema, err := builder.BuildDynamicSchema(ctx, agent.Id, "Ask about the moving date.")
	require.NoError(t, err)
	require.NotNil(t, schema.Find("move_date"))

	stored, err := repos.Agents.GetAgent(ctx, agent.Id)
	require.NoError(t, err)
	assert.NotNil(t, intake.ParseSchema(stored.DynSchemaJSON).Find("move_date"))
}

func TestBuildLeadSchemaUnextractable(t *testing.T) {
	chat := mock.NewMockChat("I cannot produce a schema for that.")
	builder, _, agent := setupSchemaBuilder(t, chat)

	_, err := builder.BuildLeadSchema(context.Background(), agent.Id, "something")
	assert.ErrorIs(t, err, ErrSchemaNotExtracted)
}

func TestBuildLeadSchemaEmptyDescription(t *testing.T) {
	builder, _, agent := setupSchemaBuilder(t, mock.NewMockChat("{}"))

	_, err := builder.BuildLeadSchema(context.Background(), agent.Id, "   ")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestBuildLeadSchemaModelFailure(t *testing.T) {
	chat := mock.NewMockChat("")
	chat.CompleteFunc = func(ctx context.Context, system, user string, temperature float64) (string, error) {
		return "", errors.New("provider down")
	}
	builder, _, agent := setupSchemaBuilder(t, chat)

	_, err := builder.BuildLeadSchema(context.Background(), agent.Id, "something")
	assert.Error(t, err)
}
