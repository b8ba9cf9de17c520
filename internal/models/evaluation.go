package models

// EvaluationResult represents the graded outcome of a submission.
// The JSON field names match the structure the grading model is asked to
// return, so the same type is used for parsing and for the API response.
type EvaluationResult struct {
	CombinedScore int    `json:"combined_score"`
	IsApproved    bool   `json:"is_approved"`
	Feedback      string `json:"feedback"`
}
