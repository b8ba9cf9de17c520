package models

// CompletionRecord represents a learner's completion state for one lesson.
// Unique per (learner, lesson); once completed it is never reset.
type CompletionRecord struct {
	LearnerID   int  `json:"learnerId"`
	LessonID    int  `json:"lessonId"`
	IsCompleted bool `json:"isCompleted"`
}

// ProgressSummary represents a learner's progress across the course
type ProgressSummary struct {
	Student          string `json:"student"`
	CompletedLessons int    `json:"completed_lessons"`
	TotalLessons     int    `json:"total_lessons"`
}
