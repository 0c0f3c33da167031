package aivalidate

import (
	"encoding/json"
	"errors"
	"strings"
)

// ExtractJSON pulls a JSON object out of a model response. Providers do not
// reliably honor "JSON only" instructions, so the attempts run in a fixed
// order, each side-effect-free, stopping at the first success:
//  1. direct parse of the whole text
//  2. contents of a fenced code block
//  3. first balanced-brace substring
func ExtractJSON(text string) ([]byte, bool) {
	trimmed := strings.TrimSpace(text)
	if json.Valid([]byte(trimmed)) {
		return []byte(trimmed), true
	}
	if inner, ok := fencedBlock(trimmed); ok && json.Valid([]byte(inner)) {
		return []byte(inner), true
	}
	if inner, ok := balancedBraces(trimmed); ok && json.Valid([]byte(inner)) {
		return []byte(inner), true
	}
	return nil, false
}

func fencedBlock(text string) (string, bool) {
	for _, fence := range []string{"```json", "```"} {
		start := strings.Index(text, fence)
		if start < 0 {
			continue
		}
		rest := text[start+len(fence):]
		end := strings.Index(rest, "```")
		if end < 0 {
			continue
		}
		return strings.TrimSpace(rest[:end]), true
	}
	return "", false
}

// balancedBraces returns the first {...} span with matched braces, skipping
// braces inside JSON string literals.
func balancedBraces(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1], true
				}
			}
		}
	}
	return "", false
}

type batchResponse struct {
	Secrets []Score `json:"secrets"`
}

// parseBatchResponse extracts the per-item scores from raw model output.
func parseBatchResponse(text string) ([]Score, error) {
	raw, ok := ExtractJSON(text)
	if !ok {
		return nil, errors.New("no JSON object in model response")
	}
	var resp batchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}
	if resp.Secrets == nil {
		return nil, errors.New("model response missing secrets array")
	}
	return resp.Secrets, nil
}
