package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mockmate/internal/database"
	"mockmate/internal/models"
)

// HistoryRepository handles the local interview history cache and the
// save-once markers that prevent duplicate history writes.
type HistoryRepository struct {
	db *database.DB
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *database.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// HasSavedMarker reports whether the session has already been written to
// history.
func (r *HistoryRepository) HasSavedMarker(sessionID string) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM saved_markers WHERE session_id = ?"
	if err := r.db.QueryRow(query, sessionID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// SaveInterview writes the completed interview and its save-once marker in
// one transaction. A session that already carries a marker is skipped.
func (r *HistoryRepository) SaveInterview(record *models.InterviewRecord) (int64, error) {
	saved, err := r.HasSavedMarker(record.SessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to check saved marker: %w", err)
	}
	if saved {
		return 0, nil
	}

	questions, err := json.Marshal(record.Questions)
	if err != nil {
		return 0, fmt.Errorf("failed to encode questions: %w", err)
	}
	answers, err := json.Marshal(record.Answers)
	if err != nil {
		return 0, fmt.Errorf("failed to encode answers: %w", err)
	}
	strengths, err := json.Marshal(record.Strengths)
	if err != nil {
		return 0, fmt.Errorf("failed to encode strengths: %w", err)
	}
	improvements, err := json.Marshal(record.Improvements)
	if err != nil {
		return 0, fmt.Errorf("failed to encode improvements: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO interview_history (
			session_id, job_title, company_name, job_level, interview_type,
			difficulty, questions, answers, overall_score, communication_score,
			technical_score, problem_solving_score, behavioral_score,
			feedback_summary, strengths, improvements, completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	completedAt := record.CompletedAt
	if completedAt == nil {
		now := time.Now()
		completedAt = &now
	}

	id, err := tx.ExecReturningID(query,
		record.SessionID,
		record.JobTitle,
		record.CompanyName,
		record.JobLevel,
		record.InterviewType,
		record.Difficulty,
		string(questions),
		string(answers),
		record.OverallScore,
		record.CommunicationScore,
		record.TechnicalScore,
		record.ProblemSolvingScore,
		record.BehavioralScore,
		record.FeedbackSummary,
		string(strengths),
		string(improvements),
		*completedAt,
	)
	if err != nil {
		return 0, err
	}

	if _, err := tx.Exec("INSERT INTO saved_markers (session_id) VALUES (?)", record.SessionID); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListRecent returns the most recent cached interviews
func (r *HistoryRepository) ListRecent(limit int) ([]models.InterviewSummary, error) {
	query := `
		SELECT id, job_title, company_name, interview_type, difficulty,
		       overall_score, questions, created_at
		FROM interview_history
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []models.InterviewSummary
	for rows.Next() {
		var s models.InterviewSummary
		var questionsJSON string

		if err := rows.Scan(
			&s.ID,
			&s.JobTitle,
			&s.CompanyName,
			&s.InterviewType,
			&s.Difficulty,
			&s.OverallScore,
			&questionsJSON,
			&s.CreatedAt,
		); err != nil {
			return nil, err
		}

		var questions []string
		if err := json.Unmarshal([]byte(questionsJSON), &questions); err == nil {
			s.QuestionCount = len(questions)
		}

		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// GetBySessionID retrieves a cached interview by session id
func (r *HistoryRepository) GetBySessionID(sessionID string) (*models.InterviewRecord, error) {
	query := `
		SELECT id, session_id, job_title, company_name, job_level,
		       interview_type, difficulty, questions, answers, overall_score,
		       communication_score, technical_score, problem_solving_score,
		       behavioral_score, feedback_summary, strengths, improvements,
		       created_at, completed_at
		FROM interview_history
		WHERE session_id = ?
	`

	record := &models.InterviewRecord{}
	var questionsJSON, answersJSON, strengthsJSON, improvementsJSON string
	var completedAt sql.NullTime

	err := r.db.QueryRow(query, sessionID).Scan(
		&record.ID,
		&record.SessionID,
		&record.JobTitle,
		&record.CompanyName,
		&record.JobLevel,
		&record.InterviewType,
		&record.Difficulty,
		&questionsJSON,
		&answersJSON,
		&record.OverallScore,
		&record.CommunicationScore,
		&record.TechnicalScore,
		&record.ProblemSolvingScore,
		&record.BehavioralScore,
		&record.FeedbackSummary,
		&strengthsJSON,
		&improvementsJSON,
		&record.CreatedAt,
		&completedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		record.CompletedAt = &completedAt.Time
	}
	if err := json.Unmarshal([]byte(questionsJSON), &record.Questions); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}
	if err := json.Unmarshal([]byte(answersJSON), &record.Answers); err != nil {
		return nil, fmt.Errorf("failed to decode answers: %w", err)
	}
	_ = json.Unmarshal([]byte(strengthsJSON), &record.Strengths)
	_ = json.Unmarshal([]byte(improvementsJSON), &record.Improvements)

	return record, nil
}

// Delete removes a cached interview and its save marker
func (r *HistoryRepository) Delete(sessionID string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM interview_history WHERE session_id = ?", sessionID); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM saved_markers WHERE session_id = ?", sessionID); err != nil {
		return err
	}

	return tx.Commit()
}
