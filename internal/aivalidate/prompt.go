package aivalidate

import (
	"encoding/json"
	"fmt"
	"strings"
)

const systemPrompt = "You are a security expert analyzing potential secrets. Respond only with valid JSON."

const (
	maxPromptValueLen   = 50
	maxPromptContextLen = 200
)

// batchPrompt serializes a batch into one structured prompt asking for a
// confidence and justification per positional id, in a strict
// machine-parseable format.
func batchPrompt(items []Item) string {
	trimmed := make([]Item, len(items))
	for i, it := range items {
		it.Value = truncate(it.Value, maxPromptValueLen)
		it.Context = truncate(it.Context, maxPromptContextLen)
		trimmed[i] = it
	}
	payload, _ := json.MarshalIndent(trimmed, "", "  ")

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze these %d potential secrets and determine which are real credentials vs false positives.\n\n", len(items))
	b.WriteString("Secrets to analyze:\n")
	b.Write(payload)
	b.WriteString("\n\nFor each secret, determine:\n")
	b.WriteString("1. Is it a real secret or a test/example/placeholder?\n")
	b.WriteString("2. Confidence level (0-100)\n")
	b.WriteString("3. Brief reasoning\n\n")
	b.WriteString("IMPORTANT: Respond ONLY with valid JSON in this exact format:\n")
	b.WriteString(`{"secrets": [{"id": 0, "confidence": 85, "reasoning": "brief explanation"}]}`)
	b.WriteString("\n\nDo not include any other text, only the JSON object.\n")
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
