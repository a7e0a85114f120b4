package verify

import (
	"reflect"
	"testing"
)

func TestAssembleCompleteOutput(t *testing.T) {
	extracted := map[string]any{
		"is_misinformation": true,
		"confidence":        0.85,
		"summary":           "The claim was debunked by multiple fact checkers.",
		"evidence":          []any{"Reuters rated the claim false."},
		"sources_checked":   []any{"reuters.com", "snopes.com"},
		"recommendation":    "Do not share this claim.",
	}
	v := Assemble(extracted, nil, GateResult{IsNews: true, Reason: "news claim"})
	if !v.IsMisinformation {
		t.Fatal("expected is_misinformation=true")
	}
	if v.Confidence != 0.85 {
		t.Fatalf("expected confidence 0.85, got %v", v.Confidence)
	}
	if !v.IsNews {
		t.Fatal("expected is_news=true")
	}
	if v.Summary != "The claim was debunked by multiple fact checkers." {
		t.Fatalf("unexpected summary %q", v.Summary)
	}
	if !reflect.DeepEqual(v.Evidence, []string{"Reuters rated the claim false."}) {
		t.Fatalf("unexpected evidence %v", v.Evidence)
	}
	if !reflect.DeepEqual(v.SourcesChecked, []string{"reuters.com", "snopes.com"}) {
		t.Fatalf("unexpected sources %v", v.SourcesChecked)
	}
	if v.Recommendation != "Do not share this claim." {
		t.Fatalf("unexpected recommendation %q", v.Recommendation)
	}
}

func TestAssembleDefaultsMissingFields(t *testing.T) {
	v := Assemble(map[string]any{}, nil, GateResult{IsNews: true})
	if v.IsMisinformation {
		t.Fatal("expected is_misinformation default false")
	}
	if v.Confidence != defaultConfidence {
		t.Fatalf("expected default confidence, got %v", v.Confidence)
	}
	if v.Evidence == nil || v.SourcesChecked == nil {
		t.Fatal("expected non-nil slices")
	}
	if v.Recommendation != defaultRecommendation {
		t.Fatalf("unexpected recommendation %q", v.Recommendation)
	}
}

func TestAssembleIgnoresWrongTypes(t *testing.T) {
	extracted := map[string]any{
		"is_misinformation": "yes",
		"confidence":        "high",
		"summary":           42,
		"evidence":          "not a list",
		"sources_checked":   []any{"ok.com", 7, nil},
	}
	v := Assemble(extracted, nil, GateResult{IsNews: true})
	if v.IsMisinformation {
		t.Fatal("string value should not coerce to true")
	}
	if v.Confidence != defaultConfidence {
		t.Fatalf("expected default confidence, got %v", v.Confidence)
	}
	if !reflect.DeepEqual(v.SourcesChecked, []string{"ok.com"}) {
		t.Fatalf("expected non-string entries dropped, got %v", v.SourcesChecked)
	}
}

func TestAssembleClampsConfidence(t *testing.T) {
	for in, want := range map[float64]float64{-0.5: 0, 1.7: 1, 0.3: 0.3} {
		v := Assemble(map[string]any{"confidence": in}, nil, GateResult{IsNews: true})
		if v.Confidence != want {
			t.Fatalf("confidence %v: expected %v, got %v", in, want, v.Confidence)
		}
	}
}

func TestAssembleNotNews(t *testing.T) {
	extracted := map[string]any{"is_misinformation": true, "confidence": 0.99}
	v := Assemble(extracted, nil, GateResult{IsNews: false, Reason: "casual greeting"})
	if v.IsMisinformation {
		t.Fatal("non-news verdict must never flag misinformation")
	}
	if v.Confidence != 0 {
		t.Fatalf("expected confidence 0, got %v", v.Confidence)
	}
	if v.IsNews {
		t.Fatal("expected is_news=false")
	}
	if v.Summary != "casual greeting" {
		t.Fatalf("expected gate reason as summary, got %q", v.Summary)
	}
	if v.Recommendation != notNewsRecommendation {
		t.Fatalf("unexpected recommendation %q", v.Recommendation)
	}
}

func TestAssembleExtractionFailure(t *testing.T) {
	v := Assemble(nil, &ExtractionError{Summary: "The model rambled without JSON."}, GateResult{IsNews: true})
	if v.IsMisinformation {
		t.Fatal("degraded verdict must not flag misinformation")
	}
	if v.Confidence != defaultConfidence {
		t.Fatalf("expected default confidence, got %v", v.Confidence)
	}
	if v.Summary != "The model rambled without JSON." {
		t.Fatalf("unexpected summary %q", v.Summary)
	}
	if v.Recommendation != failureRecommendation {
		t.Fatalf("unexpected recommendation %q", v.Recommendation)
	}
}
