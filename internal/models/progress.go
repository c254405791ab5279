package models

import "time"

// ProgressExpiry is how long a saved snapshot stays resumable
const ProgressExpiry = 24 * time.Hour

// ProgressSnapshot is a full copy of an in-progress session, written after
// every answer mutation and index transition so a crash or reload loses
// nothing. The in-memory session always wins over the snapshot except at
// initial load.
type ProgressSnapshot struct {
	SessionID       string         `json:"session_id"`
	Setup           InterviewSetup `json:"setup"`
	Questions       []string       `json:"questions"`
	Answers         []string       `json:"answers"`
	CurrentQuestion int            `json:"current_question"`
	Phase           string         `json:"phase"`
	SavedAt         time.Time      `json:"saved_at"`
}

// Expired reports whether the snapshot is older than the expiry window
func (p *ProgressSnapshot) Expired(now time.Time) bool {
	return now.Sub(p.SavedAt) > ProgressExpiry
}
