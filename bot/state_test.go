package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patter-ai/patter/core"
)

const testLeadSchemaJSON = `{"sections":[{"id":"lead","title":"Lead","questions":[
	{"id":"name","label":"Full Name","type":"text","required":true},
	{"id":"phone","label":"Phone","type":"tel","required":true}
]}]}`

const testDynSchemaJSON = `{"sections":[{"id":"details","title":"Details","questions":[
	{"id":"move_date","label":"Move Date","type":"date"}
]}]}`

func testAgent() *core.Agent {
	return &core.Agent{
		Id:             core.NewID(),
		Name:           "Acme Movers",
		Status:         core.AgentStatusActive,
		WelcomeMessage: "Hi! How can we help with your move?",
		LeadSchemaJSON: testLeadSchemaJSON,
		DynSchemaJSON:  testDynSchemaJSON,
	}
}

func TestLoadStateFreshSeedsFromAgent(t *testing.T) {
	state, fresh := LoadState("", testAgent())

	assert.True(t, fresh)
	assert.Equal(t, stateVersion, state.Version)
	require.NotNil(t, state.LeadSchema.Find("name"))
	require.NotNil(t, state.DynSchema.Find("move_date"))
	assert.Empty(t, state.Stack)
	assert.Empty(t, state.CompletedSections)
}

func TestLoadStateMalformedBlobDefaults(t *testing.T) {
	state, fresh := LoadState("{not json", testAgent())

	assert.True(t, fresh)
	assert.NotNil(t, state.LeadSchema.Find("name"))
}

func TestStateRoundTrip(t *testing.T) {
	agent := testAgent()
	state, _ := LoadState("", agent)

	q := state.LeadSchema.Find("name")
	require.NotNil(t, q)
	q.Answer = "Dana"
	q.Collected = true
	state.PushStack("name")
	state.MarkSectionsDone([]string{"lead"})

	reloaded, fresh := LoadState(state.Encode(), agent)

	assert.False(t, fresh)
	restored := reloaded.LeadSchema.Find("name")
	require.NotNil(t, restored)
	assert.Equal(t, "Dana", restored.Answer)
	assert.Equal(t, []string{"name"}, reloaded.Stack)
	assert.Equal(t, []string{"lead"}, reloaded.CompletedSections)
}

func TestPopStack(t *testing.T) {
	state, _ := LoadState("", testAgent())

	_, ok := state.PopStack()
	assert.False(t, ok)

	state.PushStack("name")
	state.PushStack("phone")

	id, ok := state.PopStack()
	require.True(t, ok)
	assert.Equal(t, "phone", id)
	assert.Equal(t, []string{"name"}, state.Stack)
}

func TestMarkSectionsDoneDeduplicates(t *testing.T) {
	state, _ := LoadState("", testAgent())

	state.MarkSectionsDone([]string{"lead", "details"})
	state.MarkSectionsDone([]string{"details", "", "lead"})

	assert.Equal(t, []string{"lead", "details"}, state.CompletedSections)
}
