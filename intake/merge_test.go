package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leadSchema() *Schema {
	return &Schema{
		Sections: []Section{
			{
				Id:    "contact",
				Title: "Contact",
				Questions: []Question{
					{Id: "full_name", Label: "Full name", Type: TypeText, Required: true},
					{Id: "phone", Label: "Phone", Type: TypeTel, Required: true},
					{Id: "move_in", Label: "Move-in date", Type: TypeDate},
				},
			},
		},
	}
}

func TestMerge_AppliesUpdatesAndDerivesFlags(t *testing.T) {
	schema := leadSchema()

	merged := Merge(schema, []Update{
		{QuestionId: "full_name", Value: "Ada Lovelace"},
	}, MergeOptions{})

	q := merged.Find("full_name")
	require.NotNil(t, q)
	assert.Equal(t, "Ada Lovelace", q.Answer)
	assert.True(t, q.Collected)
	assert.True(t, q.IsDone)

	phone := merged.Find("phone")
	require.NotNil(t, phone)
	assert.False(t, phone.Collected)
	assert.False(t, phone.IsDone)
}

func TestMerge_DoesNotMutateInput(t *testing.T) {
	schema := leadSchema()

	_ = Merge(schema, []Update{{QuestionId: "full_name", Value: "Ada"}}, MergeOptions{})

	q := schema.Find("full_name")
	require.NotNil(t, q)
	assert.Empty(t, q.Answer, "input schema must not be mutated")
	assert.False(t, q.Collected)
}

func TestMerge_Idempotent(t *testing.T) {
	schema := leadSchema()
	updates := []Update{
		{QuestionId: "full_name", Value: "Ada Lovelace"},
		{QuestionId: "phone", Value: "+1 (415) 555-0100"},
		{QuestionId: "unknown_field", Value: "ignored or appended"},
	}

	for _, opts := range []MergeOptions{{}, {CreateMissing: true}} {
		once := Merge(schema, updates, opts)
		twice := Merge(once, updates, opts)
		assert.Equal(t, once, twice, "merge(merge(S,U),U) must equal merge(S,U)")
	}
}

func TestMerge_PhoneNormalizedToE164(t *testing.T) {
	schema := leadSchema()

	merged := Merge(schema, []Update{{QuestionId: "phone", Value: "+1 (415) 555-0100"}}, MergeOptions{})

	q := merged.Find("phone")
	require.NotNil(t, q)
	assert.Equal(t, "+14155550100", q.Answer)
	assert.True(t, q.Collected)
}

func TestMerge_UnparsablePhoneStoredVerbatim(t *testing.T) {
	schema := leadSchema()

	merged := Merge(schema, []Update{{QuestionId: "phone", Value: "call me maybe"}}, MergeOptions{})

	q := merged.Find("phone")
	require.NotNil(t, q)
	assert.Equal(t, "call me maybe", q.Answer, "unparsable input is kept verbatim")
	assert.True(t, q.Collected, "a raw answer still counts as collected")
}

func TestMerge_DateNormalizedToISO(t *testing.T) {
	schema := leadSchema()

	merged := Merge(schema, []Update{{QuestionId: "move_in", Value: "March 5, 2026"}}, MergeOptions{})

	q := merged.Find("move_in")
	require.NotNil(t, q)
	assert.Equal(t, "2026-03-05", q.Answer)
}

func TestMerge_UnknownIdDroppedWithoutCreateMissing(t *testing.T) {
	schema := leadSchema()

	merged := Merge(schema, []Update{{QuestionId: "pet_name", Value: "Rex"}}, MergeOptions{})

	assert.Nil(t, merged.Find("pet_name"), "lead schema must only contain configured fields")
	assert.Len(t, merged.Sections, 1)
}

func TestMerge_CreateMissingAppendsToExtras(t *testing.T) {
	schema := leadSchema()

	merged := Merge(schema, []Update{{QuestionId: "pet_name", Value: "Rex"}}, MergeOptions{CreateMissing: true})

	q := merged.Find("pet_name")
	require.NotNil(t, q)
	assert.Equal(t, "Pet Name", q.Label)
	assert.Equal(t, TypeText, q.Type)
	assert.False(t, q.Required)
	assert.Equal(t, "Rex", q.Answer)
	assert.True(t, q.Collected)

	extras := merged.Sections[len(merged.Sections)-1]
	assert.Equal(t, ExtrasSectionID, extras.Id)
}

func TestMerge_CreateMissingMultibyteLabel(t *testing.T) {
	schema := leadSchema()

	merged := Merge(schema, []Update{{QuestionId: "étage_souhaité", Value: "3"}}, MergeOptions{CreateMissing: true})

	q := merged.Find("étage_souhaité")
	require.NotNil(t, q)
	assert.Equal(t, "Étage Souhaité", q.Label)
}

func TestMerge_EmptyAnswerNotCollected(t *testing.T) {
	schema := leadSchema()

	merged := Merge(schema, []Update{{QuestionId: "full_name", Value: "   "}}, MergeOptions{})

	q := merged.Find("full_name")
	require.NotNil(t, q)
	assert.False(t, q.Collected, "whitespace-only answers are not collected")
	assert.False(t, q.IsDone)
}

func TestRequiredComplete_CompletionGate(t *testing.T) {
	schema := leadSchema()
	assert.False(t, schema.RequiredComplete())

	merged := Merge(schema, []Update{{QuestionId: "full_name", Value: "Ada"}}, MergeOptions{})
	assert.False(t, merged.RequiredComplete(), "one required question still unanswered")

	merged = Merge(merged, []Update{{QuestionId: "phone", Value: "+14155550100"}}, MergeOptions{})
	assert.True(t, merged.RequiredComplete(), "answering the last required question flips completion")
}

func TestClearAnswer(t *testing.T) {
	merged := Merge(leadSchema(), []Update{
		{QuestionId: "full_name", Value: "Ada"},
		{QuestionId: "phone", Value: "+14155550100"},
	}, MergeOptions{})

	require.True(t, merged.ClearAnswer("phone"))

	phone := merged.Find("phone")
	assert.Empty(t, phone.Answer)
	assert.False(t, phone.Collected)
	assert.False(t, phone.IsDone)

	name := merged.Find("full_name")
	assert.Equal(t, "Ada", name.Answer, "clearing one answer leaves others intact")

	assert.False(t, merged.ClearAnswer("nope"))
}

func TestCollectedAnswers_Flatten(t *testing.T) {
	merged := Merge(leadSchema(), []Update{
		{QuestionId: "full_name", Value: "Ada"},
		{QuestionId: "move_in", Value: "2026-01-15"},
	}, MergeOptions{})

	payload := merged.CollectedAnswers()
	assert.Equal(t, map[string]string{
		"full_name": "Ada",
		"move_in":   "2026-01-15",
	}, payload)
}

func TestParseSchema_ToleratesBadInput(t *testing.T) {
	assert.NotNil(t, ParseSchema(""))
	assert.NotNil(t, ParseSchema("not json"))
	assert.Empty(t, ParseSchema("{}").Sections)

	s := ParseSchema(`{"sections":[{"id":"a","questions":[{"id":"q1","type":"text"}]}]}`)
	require.Len(t, s.Sections, 1)
	assert.Equal(t, "q1", s.Sections[0].Questions[0].Id)
}
