package verify

// Assemble normalizes whatever the extractor produced into a complete
// Verdict. It is pure and total: every field is read from the extracted map
// when present and well-typed, and substituted with its default otherwise.
// When the gate rejected the claim, the extracted map is not consulted at all.
func Assemble(extracted map[string]any, extractErr error, gate GateResult) Verdict {
	if !gate.IsNews {
		return notApplicableVerdict(gate)
	}

	if extractErr != nil || extracted == nil {
		summary := "Could not complete analysis"
		if exErr, ok := extractErr.(*ExtractionError); ok && exErr.Summary != "" {
			summary = exErr.Summary
		}
		return Verdict{
			IsMisinformation: false,
			Confidence:       defaultConfidence,
			IsNews:           true,
			Summary:          summary,
			Evidence:         []string{},
			SourcesChecked:   []string{},
			Recommendation:   failureRecommendation,
		}
	}

	return Verdict{
		IsMisinformation: boolField(extracted, "is_misinformation", false),
		Confidence:       clamp01(floatField(extracted, "confidence", defaultConfidence)),
		IsNews:           true,
		Summary:          stringField(extracted, "summary", ""),
		Evidence:         stringListField(extracted, "evidence"),
		SourcesChecked:   stringListField(extracted, "sources_checked"),
		Recommendation:   stringField(extracted, "recommendation", defaultRecommendation),
	}
}

func boolField(m map[string]any, key string, def bool) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return def
}

func floatField(m map[string]any, key string, def float64) float64 {
	if v, ok := m[key].(float64); ok {
		return v
	}
	return def
}

func stringField(m map[string]any, key string, def string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return def
}

// stringListField keeps only string entries, preserving order. A missing or
// mistyped field yields an empty, non-nil slice.
func stringListField(m map[string]any, key string) []string {
	out := []string{}
	list, ok := m[key].([]any)
	if !ok {
		return out
	}
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
