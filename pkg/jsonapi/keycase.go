package jsonapi

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// KeyCase selects how attribute keys are rewritten.
type KeyCase string

// Supported key cases.
const (
	KeyCaseNone  KeyCase = "none"
	KeyCaseCamel KeyCase = "camel"
	KeyCaseKebab KeyCase = "kebab"
	KeyCaseSnake KeyCase = "snake"
)

// ParseKeyCase validates a key case name. The empty string means none.
func ParseKeyCase(s string) (KeyCase, error) {
	switch kc := KeyCase(strings.ToLower(strings.TrimSpace(s))); kc {
	case "":
		return KeyCaseNone, nil
	case KeyCaseNone, KeyCaseCamel, KeyCaseKebab, KeyCaseSnake:
		return kc, nil
	default:
		return "", fmt.Errorf("unknown attribute case %q (want none, camel, kebab or snake)", s)
	}
}

// Convert rewrites key into the selected case. Words are split on
// underscores, hyphens, spaces and lower-to-upper transitions.
func (kc KeyCase) Convert(key string) string {
	switch kc {
	case KeyCaseCamel, KeyCaseKebab, KeyCaseSnake:
	default:
		return key
	}

	words := splitWords(key)
	if len(words) == 0 {
		return key
	}

	// Casers are stateful and not safe for concurrent use.
	lower := cases.Lower(language.Und)
	switch kc {
	case KeyCaseCamel:
		title := cases.Title(language.Und)
		var b strings.Builder
		b.WriteString(lower.String(words[0]))
		for _, w := range words[1:] {
			b.WriteString(title.String(w))
		}
		return b.String()
	case KeyCaseKebab:
		return lower.String(strings.Join(words, "-"))
	default:
		return lower.String(strings.Join(words, "_"))
	}
}

func splitWords(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	var prev rune
	for _, r := range s {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
		prev = r
	}
	flush()
	return words
}
