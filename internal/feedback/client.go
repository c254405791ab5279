package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"mockmate/internal/models"
)

// Client submits collected answers to the scoring service and retrieves
// aggregate feedback. Answer submission is best-effort; feedback fetch
// degrades to a fixed fallback payload so the results view never renders
// undefined.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a feedback client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// answerPayload is the per-question submission body
type answerPayload struct {
	QuestionID int    `json:"question_id"`
	Answer     string `json:"answer"`
	Question   string `json:"question"`
}

// SubmitAnswers posts each answer individually, index-addressed. Failures
// are logged and not retried; they never block the caller.
func (c *Client) SubmitAnswers(ctx context.Context, questions, answers []string) {
	for i, question := range questions {
		answer := ""
		if i < len(answers) {
			answer = answers[i]
		}

		if err := c.submitAnswer(ctx, i, question, answer); err != nil {
			log.Printf("Failed to submit answer %d: %v", i, err)
		}
	}
}

func (c *Client) submitAnswer(ctx context.Context, index int, question, answer string) error {
	body, err := json.Marshal(answerPayload{
		QuestionID: index,
		Answer:     answer,
		Question:   question,
	})
	if err != nil {
		return fmt.Errorf("failed to encode answer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/submit-answer", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach scoring service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("scoring service returned status %d", resp.StatusCode)
	}
	return nil
}

// Fetch retrieves the aggregate feedback. Unlike FetchWithFallback it
// surfaces the error so callers can offer a manual retry.
func (c *Client) Fetch(ctx context.Context) (*models.InterviewFeedback, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/get-feedback", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach feedback service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feedback service returned status %d", resp.StatusCode)
	}

	var feedback models.InterviewFeedback
	if err := json.NewDecoder(resp.Body).Decode(&feedback); err != nil {
		return nil, fmt.Errorf("failed to decode feedback: %w", err)
	}

	return &feedback, nil
}

// FetchWithFallback retrieves the aggregate feedback, substituting the
// fixed fallback payload on any failure.
func (c *Client) FetchWithFallback(ctx context.Context) *models.InterviewFeedback {
	feedback, err := c.Fetch(ctx)
	if err != nil {
		log.Printf("Feedback fetch failed, using fallback feedback: %v", err)
		return FallbackFeedback()
	}
	return feedback
}

// FallbackFeedback is the deterministic payload shown when the scoring
// service is unavailable. Fixed text, fixed scores.
func FallbackFeedback() *models.InterviewFeedback {
	return &models.InterviewFeedback{
		OverallScore: 7,
		Summary: "Good overall performance. Continue practicing and focus on " +
			"providing more specific examples in your responses.",
		Strengths: []models.FeedbackItem{
			{
				Category:    "strength",
				Title:       "Good Communication",
				Description: "Clear and articulate responses",
			},
		},
		Weaknesses: []models.FeedbackItem{
			{
				Category:    "weakness",
				Title:       "Could Use More Examples",
				Description: "Consider providing more specific examples in your responses",
				Suggestion:  "Practice with the STAR method (Situation, Task, Action, Result)",
			},
		},
		Improvements: []models.FeedbackItem{
			{
				Category:    "improvement",
				Title:       "Practice More",
				Description: "Continue practicing to build confidence",
				Suggestion:  "Try more mock interviews to improve",
			},
		},
		CategoryScores: models.CategoryScores{
			Communication:  7,
			Technical:      7,
			ProblemSolving: 7,
			Behavioral:     7,
		},
	}
}
