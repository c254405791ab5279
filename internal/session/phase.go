package session

// Phase is the session's lifecycle state. Exactly one phase is active at
// a time; transitions are driven by countdown expiry or explicit user
// action.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhasePreparing
	PhaseAnswering
	PhaseCompleted
)

// String returns the stable marker used in persisted snapshots
func (p Phase) String() string {
	switch p {
	case PhasePreparing:
		return "preparing"
	case PhaseAnswering:
		return "answering"
	case PhaseCompleted:
		return "completed"
	default:
		return "not_started"
	}
}

// phaseFromString maps a snapshot marker back to a phase
func phaseFromString(s string) Phase {
	switch s {
	case "preparing":
		return PhasePreparing
	case "answering":
		return PhaseAnswering
	case "completed":
		return PhaseCompleted
	default:
		return PhaseNotStarted
	}
}
