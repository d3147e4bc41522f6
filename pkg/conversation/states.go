package conversation

// State is one step of the task-creation dialogue. Transitions move
// monotonically toward the terminal states; the only way back is an
// explicit correction turn that re-runs the current step.
type State string

const (
	StateStarted                       State = "STARTED"
	StateExtractingActions             State = "EXTRACTING_ACTIONS"
	StateAwaitingProjectSelection      State = "AWAITING_PROJECT_SELECTION"
	StateAwaitingProjectCreationConfirm State = "AWAITING_PROJECT_CREATION_CONFIRM"
	StateAwaitingDateInput             State = "AWAITING_DATE_INPUT"
	StateAwaitingFinalConfirmation     State = "AWAITING_FINAL_CONFIRMATION"
	StateCompleted                     State = "COMPLETED"
	StateCancelled                     State = "CANCELLED"
	StateTimedOut                      State = "TIMED_OUT"
)

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	switch s {
	case StateCompleted, StateCancelled, StateTimedOut:
		return true
	}
	return false
}

// Awaiting reports whether the state is blocked on user input.
func (s State) Awaiting() bool {
	switch s {
	case StateAwaitingProjectSelection, StateAwaitingProjectCreationConfirm,
		StateAwaitingDateInput, StateAwaitingFinalConfirmation:
		return true
	}
	return false
}
