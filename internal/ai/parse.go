package ai

import (
	"encoding/json"
	"strings"
)

const fence = "```"

// StripFences removes a leading code fence line (with or without a language
// tag), a trailing fence and surrounding whitespace.
func StripFences(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, fence) {
		s = strings.TrimPrefix(s, fence)
		if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.ContainsAny(s[:nl], "{[") {
			s = s[nl+1:]
		} else {
			s = strings.TrimLeft(s, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, fence)
	return strings.TrimSpace(s)
}

// ParseJSON decodes model text into T. On any failure it returns fallback and
// false; the decode error is discarded.
func ParseJSON[T any](text string, fallback T) (T, bool) {
	var out T
	if err := json.Unmarshal([]byte(StripFences(text)), &out); err != nil {
		return fallback, false
	}
	return out, true
}
