package agent

import "errors"

// The four error kinds the dispatcher converts into chat messages. None of
// them propagate past Dispatch; handlers wrap collaborator failures with
// ErrAPI and report missing state with ErrPrecondition.
var (
	// ErrClassification indicates the LLM output did not conform to the
	// action schema (unknown action tag, missing required field).
	ErrClassification = errors.New("unrecognized action")

	// ErrAPI indicates an external Gmail/Calendar/LLM call failed.
	ErrAPI = errors.New("external call failed")

	// ErrPrecondition indicates an action was invoked without the state it
	// requires, e.g. send_email with no pending draft.
	ErrPrecondition = errors.New("precondition not met")

	// ErrNotFound indicates a referenced email could not be resolved.
	ErrNotFound = errors.New("email not found")
)
