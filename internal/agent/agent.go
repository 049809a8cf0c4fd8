// Package agent implements the conversational core: the action schema the
// classifier produces, the per-session conversation state, and the dispatcher
// that executes actions against the mail, calendar and text-generation
// collaborators.
package agent

import (
	"context"
)

// EmailSummary is the short form of a message shown in inbox listings.
type EmailSummary struct {
	ID      string
	From    string
	Subject string
	Snippet string
	Date    string
	Unread  bool
}

// Email is a fully fetched message.
type Email struct {
	ID       string
	ThreadID string
	From     string
	Subject  string
	Body     string
	Date     string
}

// Draft is a reply pending user approval.
type Draft struct {
	EmailID  string
	ThreadID string
	To       string
	Subject  string
	Body     string
}

// Event is a single upcoming calendar entry.
type Event struct {
	Title string
	Start string
}

// Mailbox is the mail collaborator consumed by the dispatcher.
type Mailbox interface {
	ListRecent(ctx context.Context, limit int64) ([]EmailSummary, error)
	Get(ctx context.Context, id string) (*Email, error)
	SendReply(ctx context.Context, d Draft) (string, error)
}

// Calendar is the schedule collaborator consumed by the dispatcher.
type Calendar interface {
	UpcomingEvents(ctx context.Context, days int) ([]Event, error)
}

// TextGenerator produces free text for drafting, revising and summarizing.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
