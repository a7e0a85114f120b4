package verify

import (
	"encoding/json"
	"strings"
)

const extractionSummaryLimit = 500

// ExtractionError reports that no JSON object could be recovered from model
// output. Summary carries the head of the raw text for diagnostics and for
// the degraded Verdict.
type ExtractionError struct {
	Summary string
}

func (e *ExtractionError) Error() string {
	return "no JSON object found in model output"
}

// extractStrategy returns a candidate JSON substring from raw model output.
type extractStrategy func(string) (string, bool)

// Ordered from most to least specific: a fenced block is a stronger signal
// than a bare brace span.
var extractStrategies = []extractStrategy{
	fencedBlock("```json"),
	fencedBlock("```"),
	braceSpan,
	rawText,
}

// ExtractJSON recovers a JSON object from model-completion text that may wrap
// it in prose or code fences. It never panics and never returns a partial
// parse: the first strategy whose candidate unmarshals cleanly wins.
func ExtractJSON(raw string) (map[string]any, error) {
	for _, strategy := range extractStrategies {
		candidate, ok := strategy(raw)
		if !ok {
			continue
		}
		var parsed map[string]any
		if err := json.Unmarshal([]byte(candidate), &parsed); err == nil {
			return parsed, nil
		}
	}

	summary := strings.TrimSpace(raw)
	if len(summary) > extractionSummaryLimit {
		summary = summary[:extractionSummaryLimit]
	}
	return nil, &ExtractionError{Summary: summary}
}

// fencedBlock extracts the content between a fence marker and the next ```.
func fencedBlock(marker string) extractStrategy {
	return func(raw string) (string, bool) {
		start := strings.Index(raw, marker)
		if start < 0 {
			return "", false
		}
		rest := raw[start+len(marker):]
		end := strings.Index(rest, "```")
		if end < 0 {
			return "", false
		}
		return strings.TrimSpace(rest[:end]), true
	}
}

// braceSpan extracts the substring between the first { and the last }.
func braceSpan(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

func rawText(raw string) (string, bool) {
	return strings.TrimSpace(raw), true
}
