package service

import (
	"context"
	"strings"
	"testing"

	"mockmate/internal/models"
)

func sampleFeedback() *models.InterviewFeedback {
	return &models.InterviewFeedback{
		OverallScore: 7,
		Summary:      "Solid performance with room to grow.",
		Strengths: []models.FeedbackItem{
			{Title: "Good Communication", Description: "Clear and structured answers."},
		},
		Improvements: []models.FeedbackItem{
			{Title: "Could Use More Examples", Description: "Back up claims with concrete stories."},
		},
		CategoryScores: models.CategoryScores{
			Communication:  8,
			Technical:      6,
			ProblemSolving: 7,
			Behavioral:     7,
		},
	}
}

func TestDisabledServiceSkipsSend(t *testing.T) {
	svc, err := NewReportService("eu-west-1", "", "MockMate", false)
	if err != nil {
		t.Fatalf("NewReportService failed: %v", err)
	}
	if svc.IsEnabled() {
		t.Error("service without a from address must be disabled")
	}

	setup := models.InterviewSetup{JobTitle: "Backend Engineer"}
	if err := svc.SendFeedbackReport(context.Background(), "user@example.com", setup, sampleFeedback()); err != nil {
		t.Errorf("disabled send returned error: %v", err)
	}
}

func TestTextReportContents(t *testing.T) {
	body := buildTextReport("Backend Engineer at Initech", sampleFeedback())

	for _, want := range []string{
		"Backend Engineer at Initech",
		"Overall score: 67 / 100",
		"Good Communication",
		"Could Use More Examples",
		"Communication: 78",
		"Technical: 56",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("text report missing %q\n%s", want, body)
		}
	}
}

func TestHTMLReportContents(t *testing.T) {
	body := buildHTMLReport("SRE", sampleFeedback())

	for _, want := range []string{
		"<strong>Good Communication</strong>",
		"67 / 100",
		"Solid performance with room to grow.",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("html report missing %q", want)
		}
	}
}
