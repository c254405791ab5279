package resume

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestUploadFileSendsMultipart(t *testing.T) {
	var gotFilename, gotContent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/upload-resume" {
			t.Errorf("path = %s", r.URL.Path)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("failed to read form file: %v", err)
		}
		defer file.Close()
		gotFilename = header.Filename
		content, _ := io.ReadAll(file)
		gotContent = string(content)

		json.NewEncoder(w).Encode(Upload{
			ResumeText: "Five years of Go and Kubernetes.",
			AISummary:  "Experienced backend engineer.",
		})
	}))
	defer server.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "resume.txt")
	if err := os.WriteFile(path, []byte("Five years of Go and Kubernetes."), 0644); err != nil {
		t.Fatalf("failed to write resume file: %v", err)
	}

	client := NewClient(server.URL, time.Second)
	upload, err := client.UploadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}

	if gotFilename != "resume.txt" {
		t.Errorf("uploaded filename = %q, want resume.txt", gotFilename)
	}
	if gotContent != "Five years of Go and Kubernetes." {
		t.Errorf("uploaded content = %q", gotContent)
	}
	if upload.ResumeText == "" || upload.AISummary == "" {
		t.Errorf("upload = %+v, want extracted text and summary", upload)
	}
	if upload.Filename != "resume.txt" {
		t.Errorf("filename = %q, want resume.txt", upload.Filename)
	}
}

func TestUploadFileMissingFile(t *testing.T) {
	client := NewClient("http://unused", time.Second)
	if _, err := client.UploadFile(context.Background(), "/no/such/file.pdf"); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestUploadServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnsupportedMediaType)
	}))
	defer server.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "resume.docx")
	if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
		t.Fatalf("failed to write resume file: %v", err)
	}

	client := NewClient(server.URL, time.Second)
	if _, err := client.UploadFile(context.Background(), path); err == nil {
		t.Error("expected an error for a rejected upload")
	}
}
