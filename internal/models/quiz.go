package models

// QuizItem represents one multiple-choice question with four options.
// Quizzes are generated fresh on every lesson-detail fetch and never persisted.
type QuizItem struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// QuizAnswer represents a learner's selected answer for one quiz question
type QuizAnswer struct {
	Question       string `json:"question"`
	SelectedAnswer string `json:"selectedAnswer"`
}
