package models

import (
	"errors"
	"fmt"
)

// InterviewType categorizes the question style for a session
type InterviewType string

const (
	TypeTechnical  InterviewType = "Technical"
	TypeBehavioral InterviewType = "Behavioral"
	TypeResume     InterviewType = "Resume"
	TypeMixed      InterviewType = "Mixed"
)

// Difficulty levels match the values the question service expects
type Difficulty string

const (
	DifficultyEasy     Difficulty = "Easy"
	DifficultyModerate Difficulty = "Moderate"
	DifficultyHard     Difficulty = "Hard"
)

const (
	// MaxQuestionCount is the upper bound the question service accepts
	MaxQuestionCount = 10

	// DefaultAnswerTimeSeconds is the fixed answer-phase duration
	DefaultAnswerTimeSeconds = 180

	// RealisticPrepTimeSeconds replaces the configured prep time when
	// realistic mode is on
	RealisticPrepTimeSeconds = 30
)

var (
	ErrInvalidQuestionCount = errors.New("question count must be between 1 and 10")
	ErrInvalidAnswerTime    = errors.New("answer time must be positive")
)

// InterviewSetup is the immutable configuration for one interview attempt
type InterviewSetup struct {
	JobTitle          string        `json:"job_title"`
	CompanyName       string        `json:"company_name"`
	JobDescription    string        `json:"job_description"`
	JobLevel          string        `json:"job_level"`
	InterviewType     InterviewType `json:"interview_type"`
	Difficulty        Difficulty    `json:"difficulty"`
	QuestionCount     int           `json:"number_of_questions"`
	AnswerLength      string        `json:"answer_length"`
	PrepTimeSeconds   int           `json:"prep_time"`
	AnswerTimeSeconds int           `json:"answer_time"`
	VoiceEnabled      bool          `json:"voice_enabled"`
	TTSEnabled        bool          `json:"tts_enabled"`
	RealisticMode     bool          `json:"realistic_mode"`
	ResumeText        string        `json:"-"`
}

// Normalize fills defaults and applies the realistic-mode overrides:
// fixed prep time, voice and TTS force-enabled.
func (s *InterviewSetup) Normalize() {
	if s.InterviewType == "" {
		s.InterviewType = TypeMixed
	}
	if s.Difficulty == "" {
		s.Difficulty = DifficultyModerate
	}
	if s.AnswerLength == "" {
		s.AnswerLength = "Medium"
	}
	if s.AnswerTimeSeconds <= 0 {
		s.AnswerTimeSeconds = DefaultAnswerTimeSeconds
	}
	if s.RealisticMode {
		s.PrepTimeSeconds = RealisticPrepTimeSeconds
		s.VoiceEnabled = true
		s.TTSEnabled = true
	}
}

// Validate checks that the setup can start a session
func (s *InterviewSetup) Validate() error {
	if s.QuestionCount < 1 || s.QuestionCount > MaxQuestionCount {
		return ErrInvalidQuestionCount
	}
	if s.AnswerTimeSeconds <= 0 {
		return ErrInvalidAnswerTime
	}
	if s.PrepTimeSeconds < 0 {
		return fmt.Errorf("prep time must not be negative: %d", s.PrepTimeSeconds)
	}
	switch s.InterviewType {
	case TypeTechnical, TypeBehavioral, TypeResume, TypeMixed:
	default:
		return fmt.Errorf("unknown interview type: %q", s.InterviewType)
	}
	switch s.Difficulty {
	case DifficultyEasy, DifficultyModerate, DifficultyHard:
	default:
		return fmt.Errorf("unknown difficulty: %q", s.Difficulty)
	}
	return nil
}
