package intake

import (
	"encoding/json"
	"strings"
	"unicode"
	"unicode/utf8"
)

// QuestionType is the closed set of per-question value types. Each type may
// carry its own answer normalizer; see normalizers in normalize.go.
type QuestionType string

const (
	TypeText    QuestionType = "text"
	TypeEmail   QuestionType = "email"
	TypeTel     QuestionType = "tel"
	TypeNumber  QuestionType = "number"
	TypeDate    QuestionType = "date"
	TypeSelect  QuestionType = "select"
	TypeBoolean QuestionType = "boolean"
)

// ExtrasSectionID is the catch-all section that receives questions created
// for unknown slot ids when merging with CreateMissing enabled.
const ExtrasSectionID = "extras"

// Question is a single intake slot. Collected and IsDone are always derived
// from Answer presence during merge, never set independently.
type Question struct {
	Id        string       `json:"id"`
	Label     string       `json:"label,omitempty"`
	Type      QuestionType `json:"type,omitempty"`
	Required  bool         `json:"required,omitempty"`
	Answer    string       `json:"answer,omitempty"`
	Collected bool         `json:"collected"`
	IsDone    bool         `json:"isDone,omitempty"`
}

// Section groups related questions.
type Section struct {
	Id        string     `json:"id"`
	Title     string     `json:"title,omitempty"`
	Questions []Question `json:"questions"`
}

// Schema is a lead or dynamic intake question set.
type Schema struct {
	Sections []Section `json:"sections"`
}

// Update proposes a new answer for one question.
type Update struct {
	QuestionId string `json:"questionId"`
	Value      string `json:"value"`
}

// Clone returns a deep copy of the schema.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return &Schema{Sections: []Section{}}
	}
	out := &Schema{Sections: make([]Section, len(s.Sections))}
	for i, sec := range s.Sections {
		copied := sec
		copied.Questions = make([]Question, len(sec.Questions))
		copy(copied.Questions, sec.Questions)
		out.Sections[i] = copied
	}
	return out
}

// Find returns a pointer to the question with the given id, or nil.
func (s *Schema) Find(questionId string) *Question {
	if s == nil {
		return nil
	}
	for i := range s.Sections {
		for j := range s.Sections[i].Questions {
			if s.Sections[i].Questions[j].Id == questionId {
				return &s.Sections[i].Questions[j]
			}
		}
	}
	return nil
}

// ClearAnswer removes the answer for the given question id and rederives its
// flags. Reports whether the question was found.
func (s *Schema) ClearAnswer(questionId string) bool {
	q := s.Find(questionId)
	if q == nil {
		return false
	}
	q.Answer = ""
	q.Collected = false
	q.IsDone = false
	return true
}

// RequiredComplete reports whether every required question has an answer.
func (s *Schema) RequiredComplete() bool {
	if s == nil {
		return true
	}
	for _, sec := range s.Sections {
		for _, q := range sec.Questions {
			if q.Required && !q.Collected {
				return false
			}
		}
	}
	return true
}

// CollectedAnswers flattens every collected answer into a questionId→answer
// map, the shape persisted on the lead payload.
func (s *Schema) CollectedAnswers() map[string]string {
	out := make(map[string]string)
	if s == nil {
		return out
	}
	for _, sec := range s.Sections {
		for _, q := range sec.Questions {
			if q.Collected {
				out[q.Id] = q.Answer
			}
		}
	}
	return out
}

// ParseSchema decodes a JSON-encoded schema, tolerating empty input.
// Malformed or absent input yields an empty schema rather than an error so
// persisted blobs never poison a conversation turn.
func ParseSchema(raw string) *Schema {
	s := &Schema{}
	if strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), s); err != nil {
			return &Schema{Sections: []Section{}}
		}
	}
	if s.Sections == nil {
		s.Sections = []Section{}
	}
	return s
}

// EncodeSchema encodes a schema to its persisted JSON form.
func EncodeSchema(s *Schema) string {
	if s == nil {
		s = &Schema{Sections: []Section{}}
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return `{"sections":[]}`
	}
	return string(raw)
}

// titleCase converts a snake_case or kebab-case id into a human label,
// e.g. "preferred_city" -> "Preferred City".
func titleCase(id string) string {
	parts := strings.FieldsFunc(id, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	for i, p := range parts {
		first, width := utf8.DecodeRuneInString(p)
		if first == utf8.RuneError && width <= 1 {
			continue
		}
		parts[i] = string(unicode.ToUpper(first)) + p[width:]
	}
	return strings.Join(parts, " ")
}
