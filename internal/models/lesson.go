package models

// Lesson represents a video lesson with its cached transcript
type Lesson struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	SourceURL     string `json:"sourceUrl"`
	Transcript    string `json:"-"`
	SequenceIndex int    `json:"sequenceIndex"`
}

// LessonListItem represents a lesson in list responses with progression status
type LessonListItem struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"is_completed"`
	IsLocked    bool   `json:"is_locked"`
}

// LessonDetailResponse represents a single lesson with a freshly generated quiz
type LessonDetailResponse struct {
	ID        int        `json:"id"`
	Title     string     `json:"title"`
	SourceURL string     `json:"sourceUrl"`
	Quiz      []QuizItem `json:"quiz"`
}

// CreateLessonRequest represents a request to add a lesson
type CreateLessonRequest struct {
	Title     string `json:"title"`
	SourceURL string `json:"sourceUrl"`
}
