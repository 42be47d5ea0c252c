package bot

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// languageInfo describes the language the assistant should reply in.
type languageInfo struct {
	Name      string
	Direction string // "LTR" or "RTL"
}

var rtlLanguages = map[whatlanggo.Lang]struct{}{
	whatlanggo.Arb: {},
	whatlanggo.Heb: {},
	whatlanggo.Pes: {},
	whatlanggo.Urd: {},
	whatlanggo.Ydd: {},
}

// detectLanguage guesses the language of the user's message so the model
// can be instructed to reply in kind. Unreliable detections fall back to
// English rather than guessing wrong on short inputs.
func detectLanguage(text string) languageInfo {
	english := languageInfo{Name: "English", Direction: "LTR"}

	if strings.TrimSpace(text) == "" {
		return english
	}

	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return english
	}

	direction := "LTR"
	if _, rtl := rtlLanguages[info.Lang]; rtl {
		direction = "RTL"
	}

	return languageInfo{Name: info.Lang.String(), Direction: direction}
}
