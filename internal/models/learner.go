package models

// Learner represents a student enrolled in the course
type Learner struct {
	ID          int    `json:"id"`
	DisplayName string `json:"displayName"`
}
