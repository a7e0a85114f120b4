package verify

import (
	"strings"
	"testing"
)

func TestExtractJSONFencedBlock(t *testing.T) {
	raw := "Here is my assessment:\n```json\n{\"is_misinformation\": true, \"confidence\": 0.9}\n```\nDone."
	parsed, err := ExtractJSON(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed["is_misinformation"] != true {
		t.Fatalf("expected is_misinformation=true, got %v", parsed["is_misinformation"])
	}
	if parsed["confidence"] != 0.9 {
		t.Fatalf("expected confidence=0.9, got %v", parsed["confidence"])
	}
}

func TestExtractJSONBareFence(t *testing.T) {
	raw := "```\n{\"summary\": \"checked\"}\n```"
	parsed, err := ExtractJSON(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed["summary"] != "checked" {
		t.Fatalf("expected summary=checked, got %v", parsed["summary"])
	}
}

func TestExtractJSONEmbeddedInProse(t *testing.T) {
	raw := "Based on my research, the verdict is {\"is_misinformation\": false, \"confidence\": 0.8} as shown above."
	parsed, err := ExtractJSON(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed["is_misinformation"] != false {
		t.Fatalf("expected is_misinformation=false, got %v", parsed["is_misinformation"])
	}
}

func TestExtractJSONRawObject(t *testing.T) {
	parsed, err := ExtractJSON(`{"confidence": 0.5}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed["confidence"] != 0.5 {
		t.Fatalf("expected confidence=0.5, got %v", parsed["confidence"])
	}
}

func TestExtractJSONFailures(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"prose only", "I could not reach a conclusion about this claim."},
		{"unbalanced braces", "result: { not json at all"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExtractJSON(tc.raw)
			if err == nil {
				t.Fatal("expected extraction error")
			}
			if _, ok := err.(*ExtractionError); !ok {
				t.Fatalf("expected *ExtractionError, got %T", err)
			}
		})
	}
}

func TestExtractJSONErrorSummaryTruncated(t *testing.T) {
	raw := strings.Repeat("x", 2000)
	_, err := ExtractJSON(raw)
	exErr, ok := err.(*ExtractionError)
	if !ok {
		t.Fatalf("expected *ExtractionError, got %T", err)
	}
	if len(exErr.Summary) != 500 {
		t.Fatalf("expected 500-char summary, got %d", len(exErr.Summary))
	}
}
