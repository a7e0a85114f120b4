package verify

// Claim is the unit of work: raw text submitted for verification. For image
// input this is the concatenation of on-image text and an image description.
type Claim struct {
	Text string
}

// GateResult is the relevance gate's decision on whether a claim is
// fact-checkable at all.
type GateResult struct {
	IsNews bool   `json:"is_news"`
	Reason string `json:"reason"`
}

// Verdict is the canonical terminal output. Every field has a default, so
// callers never see partial or absent data.
type Verdict struct {
	IsMisinformation bool     `json:"is_misinformation"`
	Confidence       float64  `json:"confidence"`
	IsNews           bool     `json:"is_news"`
	Summary          string   `json:"summary"`
	Evidence         []string `json:"evidence"`
	SourcesChecked   []string `json:"sources_checked"`
	Recommendation   string   `json:"recommendation"`
}

const (
	defaultConfidence     = 0.5
	defaultRecommendation = "Verify with trusted sources."
	notNewsRecommendation = "No fact-check needed for this type of message."
	failureRecommendation = "Manual verification recommended."
)

// notApplicableVerdict is the short-circuit result for non-news input. The
// pipeline must never claim a non-substantive message is misinformation.
func notApplicableVerdict(gate GateResult) Verdict {
	summary := gate.Reason
	if summary == "" {
		summary = "This doesn't appear to be news or a fact-checkable claim."
	}
	return Verdict{
		IsMisinformation: false,
		Confidence:       0.0,
		IsNews:           false,
		Summary:          summary,
		Evidence:         []string{},
		SourcesChecked:   []string{},
		Recommendation:   notNewsRecommendation,
	}
}
