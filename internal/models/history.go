package models

import "time"

// InterviewRecord is a completed interview as stored in user history,
// both on the server and in the local cache.
type InterviewRecord struct {
	ID                  int64      `json:"id,omitempty"`
	SessionID           string     `json:"session_id"`
	JobTitle            string     `json:"job_title,omitempty"`
	CompanyName         string     `json:"company_name,omitempty"`
	JobLevel            string     `json:"job_level,omitempty"`
	InterviewType       string     `json:"interview_type"`
	Difficulty          string     `json:"difficulty"`
	Questions           []string   `json:"questions"`
	Answers             []string   `json:"answers"`
	OverallScore        float64    `json:"overall_score,omitempty"`
	CommunicationScore  float64    `json:"communication_score,omitempty"`
	TechnicalScore      float64    `json:"technical_score,omitempty"`
	ProblemSolvingScore float64    `json:"problem_solving_score,omitempty"`
	BehavioralScore     float64    `json:"behavioral_score,omitempty"`
	FeedbackSummary     string     `json:"feedback_summary,omitempty"`
	Strengths           []string   `json:"strengths,omitempty"`
	Improvements        []string   `json:"improvements,omitempty"`
	CreatedAt           time.Time  `json:"created_at,omitempty"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
}

// InterviewSummary is the list-view shape returned by the history service
type InterviewSummary struct {
	ID            int64     `json:"id"`
	JobTitle      string    `json:"job_title"`
	CompanyName   string    `json:"company_name"`
	InterviewType string    `json:"interview_type"`
	Difficulty    string    `json:"difficulty"`
	OverallScore  float64   `json:"overall_score"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}
