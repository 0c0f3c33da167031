package aivalidate

import "testing"

func TestExtractJSONDirect(t *testing.T) {
	raw, ok := ExtractJSON(`{"secrets": []}`)
	if !ok || string(raw) != `{"secrets": []}` {
		t.Fatalf("direct parse failed: %q %v", raw, ok)
	}
}

func TestExtractJSONFenced(t *testing.T) {
	text := "Here you go:\n```json\n{\"secrets\": [{\"id\": 0, \"confidence\": 90, \"reasoning\": \"x\"}]}\n```\nHope that helps."
	raw, ok := ExtractJSON(text)
	if !ok {
		t.Fatalf("fenced parse failed")
	}
	scores, err := parseBatchResponse(string(raw))
	if err != nil || len(scores) != 1 || scores[0].Confidence != 90 {
		t.Fatalf("unexpected scores: %v %v", scores, err)
	}
}

func TestExtractJSONEmbeddedProse(t *testing.T) {
	text := `Sure! The result is {"secrets": [{"id": 1, "confidence": 40, "reasoning": "has {braces} in string"}]} as requested.`
	raw, ok := ExtractJSON(text)
	if !ok {
		t.Fatalf("balanced-brace parse failed")
	}
	scores, err := parseBatchResponse(string(raw))
	if err != nil || len(scores) != 1 || scores[0].ID != 1 {
		t.Fatalf("unexpected scores: %v %v", scores, err)
	}
}

func TestExtractJSONFailure(t *testing.T) {
	if _, ok := ExtractJSON("I cannot help with that."); ok {
		t.Fatalf("expected failure on non-JSON text")
	}
	if _, err := parseBatchResponse("{}"); err == nil {
		t.Fatalf("missing secrets array must be an error")
	}
}
