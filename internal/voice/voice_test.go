package voice

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCaptureTranscript(t *testing.T) {
	tests := []struct {
		name    string
		interim string
		final   string
		want    string
	}{
		{name: "final only", final: "my answer", want: "my answer"},
		{name: "interim only", interim: "partial words", want: "partial words"},
		{name: "final wins over interim", interim: "part", final: "complete answer", want: "complete answer"},
		{name: "nothing captured", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capture := NewCapture(nil)
			if tt.interim != "" {
				capture.SetInterim(tt.interim)
			}
			if tt.final != "" {
				capture.AppendFinal(tt.final)
			}

			got, err := capture.Stop()
			if err != nil {
				t.Fatalf("Stop() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Stop() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCaptureFinalSegmentsAccumulate(t *testing.T) {
	capture := NewCapture(nil)
	capture.AppendFinal("first segment ")
	capture.SetInterim("trailing interim")
	capture.AppendFinal("second segment")

	got, err := capture.Stop()
	if err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if got != "first segment second segment" {
		t.Errorf("Stop() = %q, want accumulated final segments", got)
	}
}

func TestCaptureBenignErrors(t *testing.T) {
	for _, benign := range []error{ErrNoSpeech, ErrNoAudioDevice} {
		t.Run(benign.Error(), func(t *testing.T) {
			capture := NewCapture(nil)
			capture.SetInterim("partial")
			capture.Fail(benign)

			got, err := capture.Stop()
			if err != nil {
				t.Fatalf("Stop() error = %v, want benign resolution", err)
			}
			if got != "partial" {
				t.Errorf("Stop() = %q, want partial transcript", got)
			}
		})
	}
}

func TestCaptureFatalError(t *testing.T) {
	capture := NewCapture(nil)
	capture.AppendFinal("some text")
	capture.Fail(errors.New("recognizer crashed"))

	if _, err := capture.Stop(); err == nil {
		t.Error("Stop() returned nil error for non-benign failure")
	}
}

func TestCaptureStopRunsTeardownOnce(t *testing.T) {
	calls := 0
	capture := NewCapture(func() { calls++ })

	capture.Stop()
	capture.Stop()

	if calls != 1 {
		t.Errorf("teardown ran %d times, want 1", calls)
	}
}

func TestCaptureIgnoresUpdatesAfterStop(t *testing.T) {
	capture := NewCapture(nil)
	capture.AppendFinal("kept")
	capture.Stop()
	capture.AppendFinal(" dropped")

	got, _ := capture.Stop()
	if got != "kept" {
		t.Errorf("transcript = %q, want %q", got, "kept")
	}
}

func TestScriptedRecognizerSingleLiveCapture(t *testing.T) {
	recognizer := NewScriptedRecognizer("one", "two")

	first, err := recognizer.StartCapture()
	if err != nil {
		t.Fatalf("StartCapture() error = %v", err)
	}

	// Starting a second capture tears the first down
	second, err := recognizer.StartCapture()
	if err != nil {
		t.Fatalf("StartCapture() error = %v", err)
	}

	if first.Active() {
		t.Error("first capture still active after second start")
	}
	if recognizer.ActiveCount() != 1 {
		t.Errorf("ActiveCount() = %d, want 1", recognizer.ActiveCount())
	}

	got, _ := second.Stop()
	if got != "two" {
		t.Errorf("second transcript = %q, want %q", got, "two")
	}
}

func TestTTSClientPlayQuestion(t *testing.T) {
	audio := []byte("fake-mp3-bytes")
	requests := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tts/synthesize" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		requests++
		w.Write([]byte(`{"success": true, "audio": "` + base64.StdEncoding.EncodeToString(audio) + `", "format": "mp3"}`))
	}))
	defer server.Close()

	dir := t.TempDir()
	client := NewTTSClient(server.URL, time.Second, dir, "")

	if err := client.PlayQuestion(context.Background(), "Tell me about yourself."); err != nil {
		t.Fatalf("PlayQuestion() error = %v", err)
	}

	files, err := filepath.Glob(filepath.Join(dir, "question_*.mp3"))
	if err != nil || len(files) != 1 {
		t.Fatalf("expected one cached clip, got %v (err %v)", files, err)
	}
	written, _ := os.ReadFile(files[0])
	if string(written) != string(audio) {
		t.Error("cached clip does not match synthesized audio")
	}

	// Second play of the same text reuses the cached clip
	if err := client.PlayQuestion(context.Background(), "Tell me about yourself."); err != nil {
		t.Fatalf("PlayQuestion() error = %v", err)
	}
	if requests != 1 {
		t.Errorf("synthesize requests = %d, want 1 (cache hit)", requests)
	}
}

func TestTTSClientServiceFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false}`))
	}))
	defer server.Close()

	client := NewTTSClient(server.URL, time.Second, t.TempDir(), "")
	if err := client.PlayQuestion(context.Background(), "anything"); err == nil {
		t.Error("PlayQuestion() returned nil error on service failure")
	}
}
