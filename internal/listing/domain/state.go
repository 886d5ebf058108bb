package domain

// State is a step of the submission state machine.
type State string

const (
	StateIdle                State = "idle"
	StateValidating          State = "validating"
	StateResolvingAddress    State = "resolving_address"
	StateUploading           State = "uploading"
	StateComposing           State = "composing"
	StateCommitting          State = "committing"
	StateSucceeded           State = "succeeded"
	StateValidationFailed    State = "validation_failed"
	StateAddressUnresolvable State = "address_unresolvable"
	StateUploadFailed        State = "upload_failed"
	StateCommitFailed        State = "commit_failed"
)

var transitions = map[State][]State{
	StateIdle:             {StateValidating},
	StateValidating:       {StateResolvingAddress, StateUploading, StateValidationFailed},
	StateResolvingAddress: {StateUploading, StateAddressUnresolvable},
	StateUploading:        {StateComposing, StateUploadFailed},
	StateComposing:        {StateCommitting},
	StateCommitting:       {StateSucceeded, StateCommitFailed},
}

// CanTransition reports whether the machine may move from one state to another.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s ends a submission. Every terminal state lets the
// caller start over from Idle.
func (s State) IsTerminal() bool {
	switch s {
	case StateSucceeded, StateValidationFailed, StateAddressUnresolvable, StateUploadFailed, StateCommitFailed:
		return true
	}
	return false
}
