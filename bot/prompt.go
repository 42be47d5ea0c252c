package bot

import (
	"fmt"
	"strings"

	"github.com/patter-ai/patter/core"
	"github.com/patter-ai/patter/intake"
	"github.com/patter-ai/patter/retrieval"
)

// buildSystemPrompt renders the persona header and the JSON reply contract.
func buildSystemPrompt(agent *core.Agent, lang languageInfo) string {
	var b strings.Builder

	name := agent.Name
	if name == "" {
		name = "the business"
	}
	fmt.Fprintf(&b, "You are the conversational assistant for %s.\n", name)
	b.WriteString("You answer questions using only the provided context passages and ")
	b.WriteString("collect the intake fields listed in the schema state, one or two at a time, ")
	b.WriteString("through natural conversation. Never invent facts absent from the passages.\n")
	fmt.Fprintf(&b, "Reply in %s (%s).\n", lang.Name, lang.Direction)

	if agent.SpecialInstructions != "" {
		b.WriteString("\nSpecial instructions:\n")
		b.WriteString(agent.SpecialInstructions)
		b.WriteString("\n")
	}

	b.WriteString("\nRespond with a single JSON object and nothing else:\n")
	b.WriteString(`{"assistant": "<your reply>", "lead_updates": [{"questionId": "<id>", "value": "<answer>"}], "dyn_updates": [{"questionId": "<id>", "value": "<answer>"}], "intake_complete": false, "done_sections": ["<sectionId>"]}` + "\n")
	b.WriteString("lead_updates may only reference ids present in the lead schema state. ")
	b.WriteString("dyn_updates may introduce new snake_case ids for volunteered information. ")
	b.WriteString("Set intake_complete to true once every required question is answered.\n")

	return b.String()
}

// buildUserPrompt renders schema state, retrieved passages, bounded history,
// and the current message into one consolidated prompt body.
func buildUserPrompt(state *State, passages []*retrieval.Result, history []*core.Message, userMessage string) string {
	var b strings.Builder

	b.WriteString("LEAD SCHEMA STATE:\n")
	b.WriteString(schemaToReadable(state.LeadSchema))
	b.WriteString("\n\nDYNAMIC SCHEMA STATE:\n")
	b.WriteString(schemaToReadable(state.DynSchema))

	if block := formatPassages(passages); block != "" {
		b.WriteString("\n\nCONTEXT PASSAGES:\n")
		b.WriteString(block)
	}

	if block := formatHistory(history); block != "" {
		b.WriteString("\n\nCONVERSATION SO FAR:\n")
		b.WriteString(block)
	}

	b.WriteString("\n\nUsers may type \"back\" to revisit the previous question or \"skip\" to skip the current one.")
	b.WriteString("\n\nCURRENT USER MESSAGE:\n")
	b.WriteString(userMessage)

	return b.String()
}

// schemaToReadable renders a schema as one line per question so the model
// sees ids, types, and what is already collected.
func schemaToReadable(schema *intake.Schema) string {
	if schema == nil || len(schema.Sections) == 0 {
		return "(empty)"
	}

	var lines []string
	for _, sec := range schema.Sections {
		title := sec.Title
		if title == "" {
			title = sec.Id
		}
		lines = append(lines, fmt.Sprintf("Section: %s", title))
		for _, q := range sec.Questions {
			parts := []string{fmt.Sprintf("- id: %s", q.Id)}
			if q.Label != "" {
				parts = append(parts, fmt.Sprintf("label: %s", q.Label))
			}
			if q.Type != "" {
				parts = append(parts, fmt.Sprintf("type: %s", q.Type))
			}
			if q.Required {
				parts = append(parts, "required: true")
			}
			parts = append(parts, fmt.Sprintf("collected: %t", q.Collected))
			if q.Answer != "" {
				parts = append(parts, fmt.Sprintf("answer: %s", q.Answer))
			}
			lines = append(lines, strings.Join(parts, ", "))
		}
	}
	return strings.Join(lines, "\n")
}

// formatPassages renders retrieved passages as numbered [#n] blocks the
// model can cite.
func formatPassages(passages []*retrieval.Result) string {
	var blocks []string
	for i, p := range passages {
		if p == nil || p.Chunk == nil {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("[#%d]\n%s", i+1, p.Chunk.Content))
	}
	return strings.Join(blocks, "\n\n")
}

// formatHistory renders recent messages as ROLE: text lines, oldest first.
func formatHistory(history []*core.Message) string {
	var lines []string
	for _, m := range history {
		if m == nil || m.Text == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", strings.ToUpper(string(m.Role)), m.Text))
	}
	return strings.Join(lines, "\n")
}
