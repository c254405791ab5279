package voice

import (
	"context"
	"errors"
	"sync"
)

// Benign capture failures: the caller treats these as an empty transcript
// rather than an error.
var (
	ErrNoSpeech      = errors.New("no speech detected")
	ErrNoAudioDevice = errors.New("no audio capture device")
)

// IsBenign reports whether a capture error should resolve to whatever
// partial transcript exists instead of failing the attempt.
func IsBenign(err error) bool {
	return errors.Is(err, ErrNoSpeech) || errors.Is(err, ErrNoAudioDevice)
}

// Synthesizer turns question text into audible playback. PlayQuestion
// returns once playback has finished or the context is cancelled.
type Synthesizer interface {
	PlayQuestion(ctx context.Context, text string) error
}

// Recognizer starts speech-to-text capture sessions. Implementations must
// tear down any previous live capture before starting a new one, so at
// most one capture is ever active.
type Recognizer interface {
	StartCapture() (*Capture, error)
}

// Capture is one live speech-recognition session. The backend feeds
// interim and finalized text as it arrives; Stop ends the session and
// returns the transcript.
type Capture struct {
	mu      sync.Mutex
	interim string
	final   string
	stopped bool
	err     error

	// teardown stops the backend session; may be nil
	teardown func()
}

// NewCapture creates a capture whose backend is stopped via teardown
func NewCapture(teardown func()) *Capture {
	return &Capture{teardown: teardown}
}

// SetInterim replaces the interim (not yet finalized) transcript text
func (c *Capture) SetInterim(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.interim = text
}

// AppendFinal appends a finalized transcript segment. Finalized text is
// never discarded once received.
func (c *Capture) AppendFinal(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.final += text
}

// Fail records a backend error to be surfaced from Stop
func (c *Capture) Fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.err = err
}

// Active reports whether the capture is still running
func (c *Capture) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.stopped
}

// Stop ends the session and returns the final transcript. Interim text is
// used only when no finalized segment arrived. Benign backend errors
// resolve to the partial transcript; any other error is returned.
func (c *Capture) Stop() (string, error) {
	c.mu.Lock()
	if c.stopped {
		transcript := c.transcriptLocked()
		c.mu.Unlock()
		return transcript, nil
	}
	c.stopped = true
	teardown := c.teardown
	err := c.err
	transcript := c.transcriptLocked()
	c.mu.Unlock()

	if teardown != nil {
		teardown()
	}

	if err != nil && !IsBenign(err) {
		return "", err
	}
	return transcript, nil
}

// transcriptLocked returns final text, falling back to interim. Callers
// must hold c.mu.
func (c *Capture) transcriptLocked() string {
	if c.final != "" {
		return c.final
	}
	return c.interim
}
