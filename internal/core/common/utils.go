package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrNoJSON = errors.New("no JSON value found in response")

// ParseJSON decodes the JSON value embedded in an LLM reply into T. Markdown fences and text
// around the outermost object or array are ignored.
func ParseJSON[T any](response string) (T, error) {
	var out T
	body, ok := extractJSON(response)
	if !ok {
		return out, ErrNoJSON
	}
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return out, fmt.Errorf("failed to unmarshal JSON: %w\nData: %s", err, body)
	}
	return out, nil
}

func extractJSON(s string) (string, bool) {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", false
	}
	closer := "}"
	if s[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(s, closer)
	if end < start {
		return "", false
	}
	return s[start : end+1], true
}
