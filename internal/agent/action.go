package agent

import (
	"encoding/json"
	"fmt"
)

// ActionType enumerates the closed set of intents the classifier may select.
type ActionType string

const (
	ActionFetchEmails    ActionType = "fetch_emails"
	ActionReadEmail      ActionType = "read_email"
	ActionDraftReply     ActionType = "draft_reply"
	ActionReviseDraft    ActionType = "revise_draft"
	ActionSendEmail      ActionType = "send_email"
	ActionCancelDraft    ActionType = "cancel_draft"
	ActionSummarizeInbox ActionType = "summarize_inbox"
	ActionCheckCalendar  ActionType = "check_calendar"
	ActionChat           ActionType = "chat"
)

// Action is one classified user intent with its parameters. EmailID is only
// meaningful on read_email and draft_reply; ChatResponse only on chat.
type Action struct {
	Type         ActionType `json:"action"`
	EmailID      string     `json:"email_id,omitempty"`
	Instructions string     `json:"instructions,omitempty"`
	ChatResponse string     `json:"chat_response,omitempty"`
}

var knownActions = map[ActionType]bool{
	ActionFetchEmails:    true,
	ActionReadEmail:      true,
	ActionDraftReply:     true,
	ActionReviseDraft:    true,
	ActionSendEmail:      true,
	ActionCancelDraft:    true,
	ActionSummarizeInbox: true,
	ActionCheckCalendar:  true,
	ActionChat:           true,
}

// ParseAction decodes and validates a classifier payload. Any non-conforming
// payload is ErrClassification, never a silently accepted partial action.
func ParseAction(raw []byte) (Action, error) {
	var a Action
	if err := json.Unmarshal(raw, &a); err != nil {
		return Action{}, fmt.Errorf("%w: %v", ErrClassification, err)
	}

	return a, a.Validate()
}

// Validate checks the action against the schema.
func (a Action) Validate() error {
	if !knownActions[a.Type] {
		return fmt.Errorf("%w: unknown action %q", ErrClassification, a.Type)
	}
	if a.Type == ActionChat && a.ChatResponse == "" {
		return fmt.Errorf("%w: chat action without chat_response", ErrClassification)
	}

	return nil
}
