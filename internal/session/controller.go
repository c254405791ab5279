package session

import (
	"context"
	"errors"
	"log"
	"sync"

	"mockmate/internal/models"
	"mockmate/internal/progress"
	"mockmate/internal/utils"
	"mockmate/internal/voice"
)

var (
	ErrNoQuestions    = errors.New("cannot start: no questions loaded")
	ErrAlreadyStarted = errors.New("session already started")
	ErrWrongPhase     = errors.New("action not valid in current phase")
	ErrNotLastAnswer  = errors.New("finish is only valid on the last question")
)

// QuestionSource provides the ordered question list for a setup
type QuestionSource interface {
	Generate(ctx context.Context, setup *models.InterviewSetup) []string
}

// Scorer submits answers and retrieves aggregate feedback
type Scorer interface {
	SubmitAnswers(ctx context.Context, questions, answers []string)
	Fetch(ctx context.Context) (*models.InterviewFeedback, error)
	FetchWithFallback(ctx context.Context) *models.InterviewFeedback
}

// Deps are the controller's collaborators. Synthesizer and Recognizer may
// be nil when TTS or voice capture is disabled.
type Deps struct {
	Source      QuestionSource
	Scorer      Scorer
	Store       progress.Store
	Synthesizer voice.Synthesizer
	Recognizer  voice.Recognizer
}

// Controller owns one interview attempt: the question list, the per-index
// answers, the active phase and its countdown, and the voice side
// effects. All methods are safe for use from the driving goroutine plus
// the internal playback callback.
type Controller struct {
	mu sync.Mutex

	sessionID string
	setup     models.InterviewSetup
	questions []string
	answers   []string

	phase         Phase
	index         int
	timeRemaining int

	// played tracks which question indexes have auto-played, so a
	// revisit never replays automatically
	played map[int]bool

	// playback bookkeeping: gen invalidates stale completions after a
	// cancel or index change
	playbackGen    int
	playbackCancel context.CancelFunc

	capture *voice.Capture

	feedback  *models.InterviewFeedback
	submitted bool
	disposed  bool

	deps Deps
}

// New creates a controller for the given setup. The setup is normalized
// (realistic-mode overrides applied) and validated.
func New(setup models.InterviewSetup, deps Deps) (*Controller, error) {
	setup.Normalize()
	if err := setup.Validate(); err != nil {
		return nil, err
	}

	return &Controller{
		sessionID: utils.GenerateSessionID(),
		setup:     setup,
		phase:     PhaseNotStarted,
		index:     -1,
		played:    make(map[int]bool),
		deps:      deps,
	}, nil
}

// LoadQuestions fetches the question list. The source never fails: it
// returns either usable questions or an empty list, which keeps Start
// blocked.
func (c *Controller) LoadQuestions(ctx context.Context) {
	questions := c.deps.Source.Generate(ctx, &c.setup)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.questions = questions
	c.answers = make([]string, len(questions))
}

// Restore loads a saved snapshot into a not-yet-started controller,
// jumping to the saved index with a phase-appropriate timer reset.
func (c *Controller) Restore(snapshot *models.ProgressSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseNotStarted {
		return ErrAlreadyStarted
	}
	if len(snapshot.Questions) == 0 {
		return ErrNoQuestions
	}

	c.sessionID = snapshot.SessionID
	c.setup = snapshot.Setup
	c.setup.Normalize()
	c.questions = append([]string(nil), snapshot.Questions...)
	c.answers = make([]string, len(c.questions))
	copy(c.answers, snapshot.Answers)

	index := snapshot.CurrentQuestion
	if index < 0 {
		index = 0
	}
	if index >= len(c.questions) {
		index = len(c.questions) - 1
	}
	c.index = index

	if phaseFromString(snapshot.Phase) == PhasePreparing && c.setup.PrepTimeSeconds > 0 {
		c.phase = PhasePreparing
		c.timeRemaining = c.setup.PrepTimeSeconds
		c.startAutoPlaybackLocked()
	} else {
		c.phase = PhaseAnswering
		c.timeRemaining = c.setup.AnswerTimeSeconds
		c.startCaptureLocked()
	}

	return nil
}

// Start begins the interview at the first question. It is guarded until
// questions have loaded.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseNotStarted {
		return ErrAlreadyStarted
	}
	if len(c.questions) == 0 {
		return ErrNoQuestions
	}

	c.enterQuestionLocked(0)
	c.autosaveLocked()
	return nil
}

// Tick advances the countdown by one second. Phase changes triggered by
// reaching zero happen on the tick itself; there is no separate blocking
// wait.
func (c *Controller) Tick(ctx context.Context) {
	c.mu.Lock()

	if c.phase != PhasePreparing && c.phase != PhaseAnswering {
		c.mu.Unlock()
		return
	}

	if c.timeRemaining > 0 {
		c.timeRemaining--
	}
	if c.timeRemaining > 0 {
		c.mu.Unlock()
		return
	}

	switch c.phase {
	case PhasePreparing:
		// Prep expiry is the backstop maximum: it ends prep even when
		// realistic-mode playback is still in flight, cancelling the
		// audio.
		c.cancelPlaybackLocked()
		c.enterAnsweringLocked()
		c.autosaveLocked()
		c.mu.Unlock()
	case PhaseAnswering:
		c.advanceLocked(ctx)
	default:
		c.mu.Unlock()
	}
}

// SkipPrep ends the preparation phase early
func (c *Controller) SkipPrep() error {
	c.mu.Lock()

	if c.phase != PhasePreparing {
		c.mu.Unlock()
		return ErrWrongPhase
	}

	c.cancelPlaybackLocked()
	c.enterAnsweringLocked()
	c.autosaveLocked()
	c.mu.Unlock()
	return nil
}

// SetAnswerText commits the current editor text for the active question.
// Every mutation is mirrored to the progress store.
func (c *Controller) SetAnswerText(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseAnswering {
		return ErrWrongPhase
	}

	c.answers[c.index] = text
	c.autosaveLocked()
	return nil
}

// AnswerText returns the stored answer for the active question
func (c *Controller) AnswerText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index < 0 || c.index >= len(c.answers) {
		return ""
	}
	return c.answers[c.index]
}

// Next commits the current answer and moves forward: to the next
// question's prep phase, or to completion when on the last question.
func (c *Controller) Next(ctx context.Context) error {
	c.mu.Lock()

	if c.phase != PhaseAnswering {
		c.mu.Unlock()
		return ErrWrongPhase
	}

	c.advanceLocked(ctx)
	return nil
}

// Previous returns to the prior question's answer phase. It is only
// valid while answering and never re-triggers automatic playback for the
// index being returned to.
func (c *Controller) Previous() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseAnswering {
		return ErrWrongPhase
	}
	if c.index == 0 {
		return ErrWrongPhase
	}

	c.stopCaptureLocked()
	c.cancelPlaybackLocked()
	c.index--
	c.enterAnsweringLocked()
	c.autosaveLocked()
	return nil
}

// Finish completes the session from the last question's answer phase
func (c *Controller) Finish(ctx context.Context) error {
	c.mu.Lock()

	if c.phase != PhaseAnswering {
		c.mu.Unlock()
		return ErrWrongPhase
	}
	if c.index != len(c.questions)-1 {
		c.mu.Unlock()
		return ErrNotLastAnswer
	}

	c.advanceLocked(ctx)
	return nil
}

// PlayQuestion replays the active question's audio on explicit user
// request. Manual replays are not counted against the once-per-index
// automatic playback rule.
func (c *Controller) PlayQuestion(ctx context.Context) error {
	c.mu.Lock()
	if c.deps.Synthesizer == nil || c.index < 0 {
		c.mu.Unlock()
		return ErrWrongPhase
	}
	text := c.questions[c.index]
	c.mu.Unlock()

	return c.deps.Synthesizer.PlayQuestion(ctx, text)
}

// StartVoiceCapture begins speech capture for the active question. A
// capture that is already live is returned as-is, so repeated invocation
// never creates a second concurrent session.
func (c *Controller) StartVoiceCapture() (*voice.Capture, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseAnswering {
		return nil, ErrWrongPhase
	}
	if c.capture != nil && c.capture.Active() {
		return c.capture, nil
	}

	c.startCaptureLocked()
	return c.capture, nil
}

// StopVoiceCapture ends the live capture and folds the transcript into
// the current answer.
func (c *Controller) StopVoiceCapture() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture == nil {
		return "", nil
	}

	transcript := c.stopCaptureLocked()
	if transcript != "" {
		c.autosaveLocked()
	}
	return transcript, nil
}

// Feedback returns the result gathered at completion, nil before then
func (c *Controller) Feedback() *models.InterviewFeedback {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.feedback
}

// RetryFeedback re-requests feedback after a failed fetch. On success the
// stored result is replaced; on failure the previous (fallback) result
// stays.
func (c *Controller) RetryFeedback(ctx context.Context) error {
	c.mu.Lock()
	if c.phase != PhaseCompleted {
		c.mu.Unlock()
		return ErrWrongPhase
	}
	c.mu.Unlock()

	feedback, err := c.deps.Scorer.Fetch(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.feedback = feedback
	c.mu.Unlock()
	return nil
}

// Dispose tears down the timer, any playing audio and any live capture.
// Used when leaving the session view without completing.
func (c *Controller) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.disposed = true
	c.cancelPlaybackLocked()
	c.stopCaptureLocked()
}

// SessionID returns the attempt's unique id
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Setup returns the session's (normalized) configuration
func (c *Controller) Setup() models.InterviewSetup {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setup
}

// Phase returns the active phase
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// CurrentIndex returns the active question index, -1 before start
func (c *Controller) CurrentIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// TimeRemaining returns the countdown value in seconds
func (c *Controller) TimeRemaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timeRemaining
}

// Questions returns a copy of the question list
func (c *Controller) Questions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.questions...)
}

// Answers returns a copy of the answer set
func (c *Controller) Answers() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.answers...)
}

// CurrentQuestion returns the active question text
func (c *Controller) CurrentQuestion() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index < 0 || c.index >= len(c.questions) {
		return ""
	}
	return c.questions[c.index]
}

// enterQuestionLocked makes index the active question, entering prep when
// configured and the answer phase otherwise.
func (c *Controller) enterQuestionLocked(index int) {
	c.index = index

	if c.setup.PrepTimeSeconds > 0 {
		c.phase = PhasePreparing
		c.timeRemaining = c.setup.PrepTimeSeconds
		c.startAutoPlaybackLocked()
		return
	}

	c.enterAnsweringLocked()
}

// enterAnsweringLocked switches the active question into the answer
// phase: answer countdown, capture start, and (when prep was skipped by
// configuration) the automatic playback.
func (c *Controller) enterAnsweringLocked() {
	c.phase = PhaseAnswering
	c.timeRemaining = c.setup.AnswerTimeSeconds
	c.startAutoPlaybackLocked()
	c.startCaptureLocked()
}

// advanceLocked commits the current answer and moves to the next
// question or completes the session. Callers hold the lock; it is
// released here because completion performs network calls.
func (c *Controller) advanceLocked(ctx context.Context) {
	// The answer for the active index is already committed by
	// SetAnswerText; fold in any live capture transcript before moving.
	c.stopCaptureLocked()
	c.cancelPlaybackLocked()

	if c.index >= len(c.questions)-1 {
		c.completeLocked(ctx)
		return
	}

	c.enterQuestionLocked(c.index + 1)
	c.autosaveLocked()
	c.mu.Unlock()
}

// completeLocked finishes the session: stop everything, clear the saved
// snapshot, and submit for scoring exactly once. The lock is released
// before the network calls.
func (c *Controller) completeLocked(ctx context.Context) {
	c.phase = PhaseCompleted
	c.timeRemaining = 0

	alreadySubmitted := c.submitted
	c.submitted = true
	questions := append([]string(nil), c.questions...)
	answers := append([]string(nil), c.answers...)
	c.mu.Unlock()

	if err := c.deps.Store.Clear(); err != nil {
		log.Printf("Failed to clear progress snapshot: %v", err)
	}

	if alreadySubmitted {
		return
	}

	c.deps.Scorer.SubmitAnswers(ctx, questions, answers)
	feedback := c.deps.Scorer.FetchWithFallback(ctx)

	c.mu.Lock()
	c.feedback = feedback
	c.mu.Unlock()
}

// startAutoPlaybackLocked plays the active question's audio if TTS is on
// and this index has not auto-played before. Completion feeds back
// through playbackDone; a stale generation is ignored there.
func (c *Controller) startAutoPlaybackLocked() {
	if !c.setup.TTSEnabled || c.deps.Synthesizer == nil {
		return
	}
	if c.played[c.index] {
		return
	}
	c.played[c.index] = true

	c.cancelPlaybackLocked()
	c.playbackGen++
	gen := c.playbackGen

	ctx, cancel := context.WithCancel(context.Background())
	c.playbackCancel = cancel
	text := c.questions[c.index]

	go func() {
		err := c.deps.Synthesizer.PlayQuestion(ctx, text)
		c.playbackDone(gen, err)
	}()
}

// playbackDone handles playback completion. In realistic mode a finished
// question read ends the prep phase immediately; the prep countdown only
// acts as a backstop.
func (c *Controller) playbackDone(gen int, err error) {
	c.mu.Lock()

	if gen != c.playbackGen || c.disposed {
		c.mu.Unlock()
		return
	}
	c.playbackCancel = nil

	if err != nil {
		// Playback failure disables nothing beyond this turn; the
		// countdown still governs the phase.
		log.Printf("Question playback failed: %v", err)
		c.mu.Unlock()
		return
	}

	if c.setup.RealisticMode && c.phase == PhasePreparing {
		c.enterAnsweringLocked()
		c.autosaveLocked()
	}
	c.mu.Unlock()
}

// cancelPlaybackLocked stops any in-flight playback and invalidates its
// completion callback.
func (c *Controller) cancelPlaybackLocked() {
	if c.playbackCancel != nil {
		c.playbackCancel()
		c.playbackCancel = nil
	}
	c.playbackGen++
}

// startCaptureLocked begins voice capture for the active question,
// tearing down any previous session first.
func (c *Controller) startCaptureLocked() {
	if !c.setup.VoiceEnabled || c.deps.Recognizer == nil {
		return
	}

	c.stopCaptureLocked()

	capture, err := c.deps.Recognizer.StartCapture()
	if err != nil {
		log.Printf("Failed to start voice capture: %v", err)
		return
	}
	c.capture = capture
}

// stopCaptureLocked ends the live capture and appends its transcript to
// the active answer. Returns the transcript.
func (c *Controller) stopCaptureLocked() string {
	if c.capture == nil {
		return ""
	}

	transcript, err := c.capture.Stop()
	c.capture = nil
	if err != nil {
		log.Printf("Voice capture failed: %v", err)
		return ""
	}

	if transcript != "" && c.index >= 0 && c.index < len(c.answers) {
		if c.answers[c.index] != "" {
			c.answers[c.index] += " "
		}
		c.answers[c.index] += transcript
	}
	return transcript
}

// autosaveLocked mirrors the full session state to the progress store.
// Failures are logged and never propagate to the caller.
func (c *Controller) autosaveLocked() {
	snapshot := &models.ProgressSnapshot{
		SessionID:       c.sessionID,
		Setup:           c.setup,
		Questions:       append([]string(nil), c.questions...),
		Answers:         append([]string(nil), c.answers...),
		CurrentQuestion: c.index,
		Phase:           c.phase.String(),
	}

	if err := c.deps.Store.Save(snapshot); err != nil {
		log.Printf("Failed to autosave progress: %v", err)
	}
}
