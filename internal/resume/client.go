package resume

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Upload is the extracted content the service returns for a resume file
type Upload struct {
	ResumeText string `json:"resume_text"`
	AISummary  string `json:"ai_summary"`
	Filename   string `json:"filename"`
}

// Client uploads resume files for text extraction. Parsing happens on
// the service side; this client only transports the file.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// UploadFile reads the resume at path and sends it as multipart form
// data, returning the extracted text and summary.
func (c *Client) UploadFile(ctx context.Context, path string) (*Upload, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open resume file: %w", err)
	}
	defer file.Close()

	return c.upload(ctx, filepath.Base(path), file)
}

func (c *Client) upload(ctx context.Context, filename string, content io.Reader) (*Upload, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to read resume content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload-resume", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload resume: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("resume service returned status %d", resp.StatusCode)
	}

	var result Upload
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode resume response: %w", err)
	}
	if result.Filename == "" {
		result.Filename = filename
	}
	return &result, nil
}
