package voice

import "sync"

// ScriptedRecognizer is an in-memory Recognizer. Each StartCapture hands
// out the next scripted transcript as finalized text. It backs tests and
// text-only operation where no audio hardware is involved.
type ScriptedRecognizer struct {
	mu          sync.Mutex
	transcripts []string
	next        int
	active      *Capture

	// StartErr, when set, is returned from StartCapture
	StartErr error
}

// NewScriptedRecognizer creates a recognizer that replays the given
// transcripts in order. Once exhausted, captures produce empty text.
func NewScriptedRecognizer(transcripts ...string) *ScriptedRecognizer {
	return &ScriptedRecognizer{transcripts: transcripts}
}

// StartCapture begins a capture session. Any previous live session is
// torn down first so at most one capture is ever active.
func (r *ScriptedRecognizer) StartCapture() (*Capture, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.StartErr != nil {
		return nil, r.StartErr
	}

	if r.active != nil && r.active.Active() {
		r.active.Stop()
	}

	capture := NewCapture(nil)
	if r.next < len(r.transcripts) {
		capture.AppendFinal(r.transcripts[r.next])
		r.next++
	}

	r.active = capture
	return capture, nil
}

// ActiveCount reports how many captures are currently live; used by tests
// to verify the single-capture guard.
func (r *ScriptedRecognizer) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active != nil && r.active.Active() {
		return 1
	}
	return 0
}
