package voice

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

const (
	defaultLanguageCode = "en-US"
	defaultVoice        = "en-US-Chirp3-HD-Laomedeia"
)

// TTSClient synthesizes question audio via the remote TTS service and
// plays it through a configurable player command. Clips are cached on
// disk keyed by the question text.
type TTSClient struct {
	baseURL       string
	httpClient    *http.Client
	audioDir      string
	playerCommand string
	languageCode  string
	voice         string
}

// NewTTSClient creates a TTS client. playerCommand is the executable used
// to play a clip (invoked with the file path as its argument); when empty
// the clip is synthesized and cached but not played.
func NewTTSClient(baseURL string, timeout time.Duration, audioDir, playerCommand string) *TTSClient {
	return &TTSClient{
		baseURL:       baseURL,
		httpClient:    &http.Client{Timeout: timeout},
		audioDir:      audioDir,
		playerCommand: playerCommand,
		languageCode:  defaultLanguageCode,
		voice:         defaultVoice,
	}
}

type synthesizeRequest struct {
	Text         string `json:"text"`
	LanguageCode string `json:"language_code"`
	Voice        string `json:"voice"`
}

type synthesizeResponse struct {
	Success bool   `json:"success"`
	Audio   string `json:"audio"`
	Format  string `json:"format,omitempty"`
}

// PlayQuestion synthesizes and plays audio for the given text, returning
// once playback ends. Synthesis or playback failure is returned to the
// caller, which treats it as non-fatal for the session.
func (c *TTSClient) PlayQuestion(ctx context.Context, text string) error {
	path, err := c.synthesizeToFile(ctx, text)
	if err != nil {
		return err
	}
	return c.play(ctx, path)
}

// synthesizeToFile fetches the clip for text, reusing a cached file when
// one exists. Returns the clip path.
func (c *TTSClient) synthesizeToFile(ctx context.Context, text string) (string, error) {
	filename := fmt.Sprintf("question_%x.mp3", sha1.Sum([]byte(text)))
	path := filepath.Join(c.audioDir, filename)

	// Reuse a previously synthesized clip
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	body, err := json.Marshal(synthesizeRequest{
		Text:         text,
		LanguageCode: c.languageCode,
		Voice:        c.voice,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/tts/synthesize", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach TTS service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("TTS service returned status %d", resp.StatusCode)
	}

	var decoded synthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if !decoded.Success || decoded.Audio == "" {
		return "", fmt.Errorf("TTS service reported failure")
	}

	audio, err := base64.StdEncoding.DecodeString(decoded.Audio)
	if err != nil {
		return "", fmt.Errorf("failed to decode audio payload: %w", err)
	}

	if err := os.MkdirAll(c.audioDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create audio directory: %w", err)
	}
	if err := os.WriteFile(path, audio, 0644); err != nil {
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}

	return path, nil
}

// play runs the player command and waits for it to finish. Cancelling the
// context kills playback.
func (c *TTSClient) play(ctx context.Context, path string) error {
	if c.playerCommand == "" {
		return nil
	}

	cmd := exec.CommandContext(ctx, c.playerCommand, path)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("failed to play audio: %w", err)
	}
	return nil
}
