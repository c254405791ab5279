package questions

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

// Client requests interview questions from the generation service. It
// never fails past its boundary: any transport or server error degrades
// to the static fallback bank so the session controller always receives
// a usable list.
type Client struct {
	baseURL    string
	httpClient *http.Client
	bank       Bank
}

// NewClient creates a question source client
func NewClient(baseURL string, timeout time.Duration, bank Bank) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		bank:       bank,
	}
}

// settingsPayload mirrors the shape the generation service expects
type settingsPayload struct {
	JobTitle       string `json:"job_title"`
	CompanyName    string `json:"company_name"`
	JobDescription string `json:"job_description"`
	JobLevel       string `json:"job_level"`
	InterviewType  string `json:"interview_type"`
	Difficulty     string `json:"difficulty"`
	QuestionCount  int    `json:"number_of_questions"`
	AnswerLength   string `json:"answer_length"`
	PrepTime       int    `json:"prep_time"`
}

type generateRequest struct {
	Settings   settingsPayload `json:"settings"`
	ResumeText string          `json:"resume_text,omitempty"`
}

type generateResponse struct {
	Questions []json.RawMessage `json:"questions"`
}

// questionObject is the object form some responses use for entries
type questionObject struct {
	Question string `json:"question"`
}

// Generate returns an ordered question list of at most setup.QuestionCount
// entries. On failure the per-type fallback bank is substituted; the
// result is indistinguishable in shape from a service response.
func (c *Client) Generate(ctx context.Context, setup *models.InterviewSetup) []string {
	list, err := c.fetch(ctx, setup)
	if err != nil {
		log.Printf("Question generation failed, using fallback bank: %v", err)
		return c.bank.Fallback(setup)
	}
	if len(list) == 0 {
		log.Printf("Question generation returned no questions, using fallback bank")
		return c.bank.Fallback(setup)
	}
	if len(list) > setup.QuestionCount {
		list = list[:setup.QuestionCount]
	}
	return list
}

// fetch calls the generation endpoint and normalizes the response
func (c *Client) fetch(ctx context.Context, setup *models.InterviewSetup) ([]string, error) {
	payload := generateRequest{
		Settings: settingsPayload{
			JobTitle:       setup.JobTitle,
			CompanyName:    setup.CompanyName,
			JobDescription: setup.JobDescription,
			JobLevel:       setup.JobLevel,
			InterviewType:  string(setup.InterviewType),
			Difficulty:     string(setup.Difficulty),
			QuestionCount:  setup.QuestionCount,
			AnswerLength:   setup.AnswerLength,
			PrepTime:       setup.PrepTimeSeconds,
		},
		ResumeText: setup.ResumeText,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate-questions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach question service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("question service returned status %d", resp.StatusCode)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return normalize(decoded.Questions), nil
}

// normalize flattens the service's question entries to plain strings.
// Entries arrive either as bare strings or as {"question": "..."} objects
// depending on the generation path; the rest of the application only ever
// sees strings.
func normalize(entries []json.RawMessage) []string {
	questions := make([]string, 0, len(entries))
	for _, entry := range entries {
		var text string
		if err := json.Unmarshal(entry, &text); err == nil {
			if text != "" {
				questions = append(questions, text)
			}
			continue
		}

		var obj questionObject
		if err := json.Unmarshal(entry, &obj); err == nil && obj.Question != "" {
			questions = append(questions, obj.Question)
		}
	}
	return questions
}
