package feedback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestRescaleScore(t *testing.T) {
	tests := []struct {
		raw  float64
		want int
	}{
		{raw: 1, want: 1},
		{raw: 2, want: 12},
		{raw: 3, want: 23},
		{raw: 5, want: 45},
		{raw: 5.5, want: 51},
		{raw: 7, want: 67},
		{raw: 8, want: 78},
		{raw: 9, want: 89},
		{raw: 10, want: 100},
	}

	for _, tt := range tests {
		if got := RescaleScore(tt.raw); got != tt.want {
			t.Errorf("RescaleScore(%v) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestSubmitAnswersPostsEachIndex(t *testing.T) {
	var mu sync.Mutex
	var received []answerPayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/submit-answer" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var payload answerPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		mu.Lock()
		received = append(received, payload)
		mu.Unlock()
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	questions := []string{"q0", "q1", "q2"}
	answers := []string{"a0", "a1"}

	client.SubmitAnswers(context.Background(), questions, answers)

	if len(received) != 3 {
		t.Fatalf("received %d submissions, want 3", len(received))
	}
	for i, payload := range received {
		if payload.QuestionID != i {
			t.Errorf("submission %d has question_id %d", i, payload.QuestionID)
		}
		if payload.Question != questions[i] {
			t.Errorf("submission %d question = %q, want %q", i, payload.Question, questions[i])
		}
	}
	// Missing answers submit as empty, not skipped
	if received[2].Answer != "" {
		t.Errorf("submission 2 answer = %q, want empty", received[2].Answer)
	}
}

func TestSubmitAnswersToleratesFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	// Must not panic or block; failures are logged only
	client.SubmitAnswers(context.Background(), []string{"q0"}, []string{"a0"})
}

func TestFetchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/get-feedback" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"overall_score": 8,
			"summary": "Strong performance.",
			"strengths": [{"category": "strength", "title": "Depth", "description": "Detailed answers"}],
			"weaknesses": [],
			"improvements": [],
			"category_scores": {"communication": 8, "technical": 7, "problem_solving": 9, "behavioral": 6},
			"question_scores": [{"question_index": 0, "score": 8, "feedback": "Solid."}]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	feedback, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if feedback.OverallScore != 8 {
		t.Errorf("OverallScore = %v, want 8", feedback.OverallScore)
	}
	if feedback.CategoryScores.ProblemSolving != 9 {
		t.Errorf("ProblemSolving = %v, want 9", feedback.CategoryScores.ProblemSolving)
	}
	if len(feedback.QuestionScores) != 1 || feedback.QuestionScores[0].QuestionIndex != 0 {
		t.Errorf("QuestionScores = %v, want one entry for index 0", feedback.QuestionScores)
	}
}

func TestFetchWithFallbackOnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	feedback := client.FetchWithFallback(context.Background())

	fallback := FallbackFeedback()
	if feedback.OverallScore != fallback.OverallScore {
		t.Errorf("OverallScore = %v, want fallback %v", feedback.OverallScore, fallback.OverallScore)
	}
	if feedback.Summary != fallback.Summary {
		t.Errorf("Summary = %q, want fallback text", feedback.Summary)
	}
	if len(feedback.Strengths) == 0 || len(feedback.Weaknesses) == 0 || len(feedback.Improvements) == 0 {
		t.Error("fallback feedback missing fixed items")
	}
}

func TestFetchSurfacesErrorForManualRetry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	if _, err := client.Fetch(context.Background()); err == nil {
		t.Error("Fetch() returned nil error on server failure")
	}
}
