package history

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mockmate/internal/models"
)

var (
	ErrNoToken      = errors.New("no auth token configured")
	ErrTokenExpired = errors.New("auth token is expired")
)

// LocalCache mirrors saved interviews for offline listing and holds the
// save-once markers. Satisfied by repository.HistoryRepository.
type LocalCache interface {
	HasSavedMarker(sessionID string) (bool, error)
	SaveInterview(record *models.InterviewRecord) (int64, error)
	ListRecent(limit int) ([]models.InterviewSummary, error)
	Delete(sessionID string) error
}

// Client talks to the user-history endpoints with a bearer token and
// mirrors saved interviews into the local cache for offline listing.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	repo       LocalCache
}

// NewClient creates a history client. repo may be nil when no local
// database is available; the client then works purely against the
// service.
func NewClient(baseURL, token string, timeout time.Duration, repo LocalCache) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		repo:       repo,
	}
}

// checkToken rejects missing or expired tokens before any request goes
// out. The signature is not verified here; the service does that.
func (c *Client) checkToken() error {
	if c.token == "" {
		return ErrNoToken
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(c.token, jwt.MapClaims{})
	if err != nil {
		return fmt.Errorf("failed to parse auth token: %w", err)
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil {
		return fmt.Errorf("failed to read token expiry: %w", err)
	}
	if exp != nil && exp.Before(time.Now()) {
		return ErrTokenExpired
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	if err := c.checkToken(); err != nil {
		return nil, err
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

// SaveInterview uploads a completed interview. A session id that is
// already marked as saved in the local cache is skipped, so retries and
// re-entry of the results screen never duplicate records.
func (c *Client) SaveInterview(ctx context.Context, record *models.InterviewRecord) error {
	if c.repo != nil {
		saved, err := c.repo.HasSavedMarker(record.SessionID)
		if err != nil {
			return fmt.Errorf("failed to check save marker: %w", err)
		}
		if saved {
			return nil
		}
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/user/save-interview", record)
	if err != nil {
		return fmt.Errorf("failed to save interview: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("history service returned status %d", resp.StatusCode)
	}

	if c.repo != nil {
		if _, err := c.repo.SaveInterview(record); err != nil {
			log.Printf("Failed to cache interview locally: %v", err)
		}
	}
	return nil
}

// ListInterviews fetches the user's interview summaries. When the
// service is unreachable the local cache serves the list instead.
func (c *Client) ListInterviews(ctx context.Context, limit int) ([]models.InterviewSummary, error) {
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/user/interviews?limit=%d", limit), nil)
	if err != nil {
		return c.listFromCache(limit, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.listFromCache(limit, fmt.Errorf("history service returned status %d", resp.StatusCode))
	}

	var result struct {
		Interviews []models.InterviewSummary `json:"interviews"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode interview list: %w", err)
	}
	return result.Interviews, nil
}

func (c *Client) listFromCache(limit int, cause error) ([]models.InterviewSummary, error) {
	if c.repo == nil {
		return nil, fmt.Errorf("failed to list interviews: %w", cause)
	}

	log.Printf("History service unavailable, listing from local cache: %v", cause)
	summaries, err := c.repo.ListRecent(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list cached interviews: %w", err)
	}
	return summaries, nil
}

// GetInterview fetches one interview's full record by its server id
func (c *Client) GetInterview(ctx context.Context, id int64) (*models.InterviewRecord, error) {
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/user/interview/%d", id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("history service returned status %d", resp.StatusCode)
	}

	var record models.InterviewRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("failed to decode interview: %w", err)
	}
	return &record, nil
}

// DeleteInterview removes an interview from the service and, when the
// session id is known, from the local cache.
func (c *Client) DeleteInterview(ctx context.Context, id int64, sessionID string) error {
	resp, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/user/interview/%d", id), nil)
	if err != nil {
		return fmt.Errorf("failed to delete interview: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("history service returned status %d", resp.StatusCode)
	}

	if c.repo != nil && sessionID != "" {
		if err := c.repo.Delete(sessionID); err != nil {
			log.Printf("Failed to drop cached interview: %v", err)
		}
	}
	return nil
}

// BuildRecord assembles a history record from a completed session's
// parts. Scores stay on the service's 1-10 scale.
func BuildRecord(sessionID string, setup models.InterviewSetup, questions, answers []string, feedback *models.InterviewFeedback) *models.InterviewRecord {
	now := time.Now()
	record := &models.InterviewRecord{
		SessionID:     sessionID,
		JobTitle:      setup.JobTitle,
		CompanyName:   setup.CompanyName,
		JobLevel:      setup.JobLevel,
		InterviewType: string(setup.InterviewType),
		Difficulty:    string(setup.Difficulty),
		Questions:     questions,
		Answers:       answers,
		CreatedAt:     now,
		CompletedAt:   &now,
	}

	if feedback != nil {
		record.OverallScore = feedback.OverallScore
		record.CommunicationScore = feedback.CategoryScores.Communication
		record.TechnicalScore = feedback.CategoryScores.Technical
		record.ProblemSolvingScore = feedback.CategoryScores.ProblemSolving
		record.BehavioralScore = feedback.CategoryScores.Behavioral
		record.FeedbackSummary = feedback.Summary
		for _, item := range feedback.Strengths {
			record.Strengths = append(record.Strengths, item.Title)
		}
		for _, item := range feedback.Improvements {
			record.Improvements = append(record.Improvements, item.Title)
		}
	}
	return record
}
