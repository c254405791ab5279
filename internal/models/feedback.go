package models

// FeedbackItem is one strength, weakness or improvement the scoring
// service identified
type FeedbackItem struct {
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Suggestion  string `json:"suggestion,omitempty"`
}

// CategoryScores holds the per-skill scores. The service reports them on a
// 1-10 scale; callers rescale for display.
type CategoryScores struct {
	Communication  float64 `json:"communication"`
	Technical      float64 `json:"technical"`
	ProblemSolving float64 `json:"problem_solving"`
	Behavioral     float64 `json:"behavioral"`
}

// QuestionScore is the per-question breakdown
type QuestionScore struct {
	QuestionIndex int      `json:"question_index"`
	Score         float64  `json:"score"`
	Feedback      string   `json:"feedback"`
	Suggestions   []string `json:"suggestions,omitempty"`
}

// InterviewFeedback is the aggregate result for a completed session
type InterviewFeedback struct {
	OverallScore   float64         `json:"overall_score"`
	Summary        string          `json:"summary"`
	Strengths      []FeedbackItem  `json:"strengths"`
	Weaknesses     []FeedbackItem  `json:"weaknesses"`
	Improvements   []FeedbackItem  `json:"improvements"`
	CategoryScores CategoryScores  `json:"category_scores"`
	QuestionScores []QuestionScore `json:"question_scores,omitempty"`
}
