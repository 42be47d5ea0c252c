package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFirstJSONDirect(t *testing.T) {
	out := &turnOutput{}
	ok := extractFirstJSON(`{"assistant":"hello","intake_complete":true}`, out)

	require.True(t, ok)
	assert.Equal(t, "hello", out.Assistant)
	assert.True(t, out.IntakeComplete)
}

func TestExtractFirstJSONEmbeddedInProse(t *testing.T) {
	out := &turnOutput{}
	text := `Sure, here is the result: {"assistant":"hi","lead_updates":[{"questionId":"name","value":"Dana"}]} hope that helps!`

	require.True(t, extractFirstJSON(text, out))
	assert.Equal(t, "hi", out.Assistant)
	require.Len(t, out.LeadUpdates, 1)
	assert.Equal(t, "name", out.LeadUpdates[0].QuestionId)
}

func TestExtractFirstJSONFencedBlock(t *testing.T) {
	out := &turnOutput{}
	text := "Here you go:\n```json\n{\"assistant\": \"fenced\"}\n```\nDone."

	// The brace slice covers this too; the fence is the last resort when
	// stray braces outside the block break the slice parse.
	require.True(t, extractFirstJSON(text, out))
	assert.Equal(t, "fenced", out.Assistant)
}

func TestExtractFirstJSONFenceBeatsBrokenSlice(t *testing.T) {
	out := &turnOutput{}
	text := "prefix { not json\n```json\n{\"assistant\": \"fenced\"}\n```\ntrailing }"

	require.True(t, extractFirstJSON(text, out))
	assert.Equal(t, "fenced", out.Assistant)
}

func TestExtractFirstJSONUnparsable(t *testing.T) {
	out := &turnOutput{}

	assert.False(t, extractFirstJSON("", out))
	assert.False(t, extractFirstJSON("no json here at all", out))
	assert.False(t, extractFirstJSON("{broken", out))
}

func TestExtractFirstJSONToleratesUnknownKeys(t *testing.T) {
	out := &turnOutput{}
	text := `{"assistant":"hi","confidence":0.9,"next_action":"ask"}`

	require.True(t, extractFirstJSON(text, out))
	assert.Equal(t, "hi", out.Assistant)
	assert.False(t, out.IntakeComplete)
}
