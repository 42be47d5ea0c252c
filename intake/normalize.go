package intake

import (
	"strings"

	"github.com/araddon/dateparse"
	"github.com/nyaruka/phonenumbers"
)

// Normalizer canonicalizes a raw answer for one question type. The second
// return value reports whether normalization succeeded; on failure the raw
// input is stored verbatim.
type Normalizer func(raw string) (string, bool)

// normalizers dispatches per QuestionType. Types without an entry store
// answers as-is; adding a type is a single table entry.
var normalizers = map[QuestionType]Normalizer{
	TypeTel:   normalizePhone,
	TypeDate:  normalizeDate,
	TypeEmail: normalizeEmail,
}

// NormalizeAnswer applies the type's normalizer when one exists, otherwise
// returns the raw value unchanged.
func NormalizeAnswer(qtype QuestionType, raw string) string {
	if fn, ok := normalizers[qtype]; ok {
		if normalized, ok := fn(raw); ok {
			return normalized
		}
	}
	return raw
}

// normalizePhone converts a phone number to E.164. The region hint "ZZ"
// restricts parsing to internationally formatted numbers, matching
// libphonenumber's parse-without-region behavior.
func normalizePhone(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	num, err := phonenumbers.Parse(trimmed, "ZZ")
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return "", false
	}
	return phonenumbers.Format(num, phonenumbers.E164), true
}

// normalizeDate converts a free-form date string to ISO-8601 (YYYY-MM-DD).
func normalizeDate(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	t, err := dateparse.ParseAny(trimmed)
	if err != nil {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

// normalizeEmail lowercases and trims. Addresses without an "@" are left to
// the caller verbatim.
func normalizeEmail(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if !strings.Contains(trimmed, "@") {
		return "", false
	}
	return strings.ToLower(trimmed), true
}
