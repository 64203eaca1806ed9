package moderation

import "strings"

// Match reports whether any banned word occurs as a case-insensitive
// substring of text, returning the first word that does. The check is
// deliberately not word-boundary aware: a banned word embedded inside a
// longer word still matches. An empty word set never matches.
func Match(text string, words []string) (string, bool) {
	if text == "" || len(words) == 0 {
		return "", false
	}

	lowered := strings.ToLower(text)
	for _, word := range words {
		trimmed := strings.TrimSpace(strings.ToLower(word))
		if trimmed == "" {
			continue
		}
		if strings.Contains(lowered, trimmed) {
			return trimmed, true
		}
	}

	return "", false
}
