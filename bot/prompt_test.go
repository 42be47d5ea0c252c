package bot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patter-ai/patter/core"
	"github.com/patter-ai/patter/retrieval"
)

func TestBuildSystemPromptContract(t *testing.T) {
	agent := testAgent()
	agent.SpecialInstructions = "Always mention our free quote."

	system := buildSystemPrompt(agent, languageInfo{Name: "English", Direction: "LTR"})

	assert.Contains(t, system, "Acme Movers")
	assert.Contains(t, system, "Reply in English (LTR).")
	assert.Contains(t, system, "Always mention our free quote.")
	for _, key := range []string{`"assistant"`, `"lead_updates"`, `"dyn_updates"`, `"intake_complete"`, `"done_sections"`} {
		assert.Contains(t, system, key)
	}
}

func TestBuildUserPromptLayout(t *testing.T) {
	state, _ := LoadState("", testAgent())
	q := state.LeadSchema.Find("name")
	require.NotNil(t, q)
	q.Answer = "Dana"
	q.Collected = true

	passages := []*retrieval.Result{
		{Chunk: &core.Chunk{Content: "We move apartments across the city."}, Score: 0.9},
		{Chunk: &core.Chunk{Content: "Weekend slots fill up fast."}, Score: 0.5},
	}
	history := []*core.Message{
		{Role: core.RoleUser, Text: "hi"},
		{Role: core.RoleAssistant, Text: "hello, what's your name?"},
	}

	user := buildUserPrompt(state, passages, history, "when are you available?")

	assert.Contains(t, user, "- id: name, label: Full Name, type: text, required: true, collected: true, answer: Dana")
	assert.Contains(t, user, "- id: phone")
	assert.Contains(t, user, "[#1]\nWe move apartments across the city.")
	assert.Contains(t, user, "[#2]\nWeekend slots fill up fast.")
	assert.Contains(t, user, "USER: hi")
	assert.Contains(t, user, "ASSISTANT: hello, what's your name?")
	assert.Contains(t, user, `type "back"`)
	assert.True(t, strings.HasSuffix(user, "when are you available?"))

	// Passage blocks precede history, history precedes the message.
	assert.Less(t, strings.Index(user, "[#1]"), strings.Index(user, "USER: hi"))
	assert.Less(t, strings.Index(user, "USER: hi"), strings.Index(user, "CURRENT USER MESSAGE:"))
}

func TestBuildUserPromptOmitsEmptyBlocks(t *testing.T) {
	state, _ := LoadState("", testAgent())

	user := buildUserPrompt(state, nil, nil, "hi")

	assert.NotContains(t, user, "CONTEXT PASSAGES:")
	assert.NotContains(t, user, "CONVERSATION SO FAR:")
}

func TestSchemaToReadableEmpty(t *testing.T) {
	assert.Equal(t, "(empty)", schemaToReadable(nil))
}
