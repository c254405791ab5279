package questions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"mockmate/internal/models"
)

func testSetup(interviewType models.InterviewType, count int) *models.InterviewSetup {
	return &models.InterviewSetup{
		JobTitle:          "Backend Engineer",
		InterviewType:     interviewType,
		Difficulty:        models.DifficultyModerate,
		QuestionCount:     count,
		AnswerTimeSeconds: models.DefaultAnswerTimeSeconds,
	}
}

func TestGenerateSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate-questions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Settings.InterviewType != "Technical" {
			t.Errorf("interview_type = %q, want Technical", req.Settings.InterviewType)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"questions": []map[string]string{
				{"question": "What is a goroutine?"},
				{"question": "Explain channels."},
				{"question": "What does the race detector do?"},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, DefaultBank())
	got := client.Generate(context.Background(), testSetup(models.TypeTechnical, 3))

	want := []string{"What is a goroutine?", "Explain channels.", "What does the race detector do?"}
	if len(got) != len(want) {
		t.Fatalf("Generate() returned %d questions, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("question[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestGenerateNormalizesBareStrings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Some generation paths return plain strings instead of objects
		w.Write([]byte(`{"questions": ["Tell me about yourself.", {"question": "Why us?"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, DefaultBank())
	got := client.Generate(context.Background(), testSetup(models.TypeMixed, 2))

	if len(got) != 2 {
		t.Fatalf("Generate() returned %d questions, want 2", len(got))
	}
	if got[0] != "Tell me about yourself." || got[1] != "Why us?" {
		t.Errorf("Generate() = %v, want normalized mixed shapes", got)
	}
}

func TestGenerateTruncatesToRequestedCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"questions": ["q1", "q2", "q3", "q4", "q5"]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, DefaultBank())
	got := client.Generate(context.Background(), testSetup(models.TypeMixed, 3))

	if len(got) != 3 {
		t.Errorf("Generate() returned %d questions, want 3", len(got))
	}
}

func TestGenerateFallbackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	bank := DefaultBank()
	client := NewClient(server.URL, time.Second, bank)

	for _, interviewType := range []models.InterviewType{
		models.TypeTechnical, models.TypeBehavioral, models.TypeResume, models.TypeMixed,
	} {
		t.Run(string(interviewType), func(t *testing.T) {
			setup := testSetup(interviewType, 3)
			got := client.Generate(context.Background(), setup)

			bankSize := len(bank[interviewType])
			wantLen := setup.QuestionCount
			if bankSize < wantLen {
				wantLen = bankSize
			}
			if len(got) != wantLen {
				t.Errorf("fallback returned %d questions, want %d", len(got), wantLen)
			}
			if len(got) == 0 {
				t.Error("fallback returned no questions")
			}
			if got[0] != bank[interviewType][0] {
				t.Errorf("fallback[0] = %q, want bank entry %q", got[0], bank[interviewType][0])
			}
		})
	}
}

func TestGenerateFallbackOnTransportError(t *testing.T) {
	// Point at a closed server to force a connection failure
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, time.Second, DefaultBank())
	got := client.Generate(context.Background(), testSetup(models.TypeBehavioral, 5))

	if len(got) != 5 {
		t.Errorf("fallback returned %d questions, want 5", len(got))
	}
}

func TestGenerateFallbackOnEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"questions": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, DefaultBank())
	got := client.Generate(context.Background(), testSetup(models.TypeMixed, 2))

	if len(got) != 2 {
		t.Errorf("fallback returned %d questions, want 2", len(got))
	}
}

func TestFallbackBankTrimming(t *testing.T) {
	bank := DefaultBank()

	tests := []struct {
		name    string
		count   int
		wantLen int
	}{
		{name: "fewer than bank size", count: 2, wantLen: 2},
		{name: "exactly bank size", count: 5, wantLen: 5},
		{name: "more than bank size", count: 10, wantLen: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bank.Fallback(testSetup(models.TypeTechnical, tt.count))
			if len(got) != tt.wantLen {
				t.Errorf("Fallback() returned %d questions, want %d", len(got), tt.wantLen)
			}
		})
	}
}

func TestLoadBankMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/bank.yaml"

	content := []byte("technical:\n  - \"Custom question one?\"\n  - \"Custom question two?\"\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write bank file: %v", err)
	}

	bank, err := LoadBank(path)
	if err != nil {
		t.Fatalf("LoadBank() error = %v", err)
	}

	if len(bank[models.TypeTechnical]) != 2 {
		t.Errorf("technical bank = %d entries, want 2 from file", len(bank[models.TypeTechnical]))
	}
	if bank[models.TypeTechnical][0] != "Custom question one?" {
		t.Errorf("technical[0] = %q, want file entry", bank[models.TypeTechnical][0])
	}

	// Types missing from the file keep their defaults
	if len(bank[models.TypeBehavioral]) != 5 {
		t.Errorf("behavioral bank = %d entries, want 5 defaults", len(bank[models.TypeBehavioral]))
	}
}

func TestLoadBankEmptyPath(t *testing.T) {
	bank, err := LoadBank("")
	if err != nil {
		t.Fatalf("LoadBank(\"\") error = %v", err)
	}
	for _, interviewType := range []models.InterviewType{
		models.TypeTechnical, models.TypeBehavioral, models.TypeResume, models.TypeMixed,
	} {
		if len(bank[interviewType]) == 0 {
			t.Errorf("default bank for %s is empty", interviewType)
		}
	}
}
