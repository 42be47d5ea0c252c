package intake

import "strings"

// MergeOptions controls merge behavior.
type MergeOptions struct {
	// CreateMissing appends a new non-required text question to the
	// "extras" section when an update references an unknown question id.
	// Used for the dynamic schema; the lead schema must only ever contain
	// its configured fields, so unknown ids are silently dropped there.
	CreateMissing bool
}

// Merge applies proposed updates onto a schema and rederives per-question
// completion flags. The input schema is never mutated; the returned schema
// is a deep copy. Merging the same updates twice yields the same result.
func Merge(schema *Schema, updates []Update, opts MergeOptions) *Schema {
	merged := schema.Clone()

	byId := make(map[string]string, len(updates))
	order := make([]string, 0, len(updates))
	for _, u := range updates {
		if u.QuestionId == "" {
			continue
		}
		if _, seen := byId[u.QuestionId]; !seen {
			order = append(order, u.QuestionId)
		}
		byId[u.QuestionId] = u.Value
	}

	for i := range merged.Sections {
		sec := &merged.Sections[i]
		for j := range sec.Questions {
			q := &sec.Questions[j]
			if value, ok := byId[q.Id]; ok {
				q.Answer = NormalizeAnswer(q.Type, value)
				delete(byId, q.Id)
			}
			deriveFlags(q)
		}
	}

	if opts.CreateMissing && len(byId) > 0 {
		extras := findOrAppendExtras(merged)
		for _, id := range order {
			value, ok := byId[id]
			if !ok {
				continue
			}
			q := Question{
				Id:     id,
				Label:  titleCase(id),
				Type:   TypeText,
				Answer: value,
			}
			deriveFlags(&q)
			extras.Questions = append(extras.Questions, q)
		}
	}

	return merged
}

// deriveFlags recomputes Collected and IsDone from the current answer.
// These flags are never trusted from input.
func deriveFlags(q *Question) {
	q.Collected = strings.TrimSpace(q.Answer) != ""
	if q.Required {
		q.IsDone = q.Collected
	}
}

func findOrAppendExtras(s *Schema) *Section {
	for i := range s.Sections {
		if s.Sections[i].Id == ExtrasSectionID {
			return &s.Sections[i]
		}
	}
	s.Sections = append(s.Sections, Section{
		Id:        ExtrasSectionID,
		Title:     "Extras",
		Questions: []Question{},
	})
	return &s.Sections[len(s.Sections)-1]
}
