package evidence

// Card is a single claim produced by a specialist role, backed by 1-indexed
// citation references into the run's citation list. Cards are read-only once
// created and live only for the duration of one run.
type Card struct {
	Claim      string  `json:"claim"`
	Confidence float64 `json:"confidence"`
	Citations  []int   `json:"citations"`
	Rationale  string  `json:"rationale"`
	Role       string  `json:"role,omitempty"`
}

// NewCard builds a Card, clamping confidence into [0,1]. Confidence is never
// re-validated after creation.
func NewCard(claim string, confidence float64, citations []int, rationale, role string) Card {
	return Card{
		Claim:      claim,
		Confidence: ClampConfidence(confidence),
		Citations:  citations,
		Rationale:  rationale,
		Role:       role,
	}
}

// ClampConfidence forces v into the closed interval [0,1].
func ClampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
