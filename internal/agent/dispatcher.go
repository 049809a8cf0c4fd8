package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
)

const defaultListLimit = 5

// Dispatcher executes classified actions against the collaborators and
// mutates the session state. Every external failure is converted into a
// chat-visible message at this boundary; Dispatch never returns an error and
// leaves the state untouched when a handler fails.
type Dispatcher struct {
	mail Mailbox
	cal  Calendar
	gen  TextGenerator

	listLimit int64
}

// NewDispatcher creates a dispatcher over the given collaborators.
func NewDispatcher(mail Mailbox, cal Calendar, gen TextGenerator) *Dispatcher {
	return &Dispatcher{
		mail:      mail,
		cal:       cal,
		gen:       gen,
		listLimit: defaultListLimit,
	}
}

// Dispatch runs one action to completion and returns the assistant's reply.
func (d *Dispatcher) Dispatch(ctx context.Context, a Action, st *State) string {
	text, err := d.dispatch(ctx, a, st)
	if err != nil {
		log.Printf("dispatch %s failed: %v", a.Type, err)

		return userMessage(err)
	}

	return text
}

func (d *Dispatcher) dispatch(ctx context.Context, a Action, st *State) (string, error) {
	if err := a.Validate(); err != nil {
		return "", err
	}

	switch a.Type {
	case ActionFetchEmails:
		return d.fetchEmails(ctx, st)
	case ActionReadEmail:
		return d.readEmail(ctx, a, st)
	case ActionDraftReply:
		return d.draftReply(ctx, a, st)
	case ActionReviseDraft:
		return d.reviseDraft(ctx, a, st)
	case ActionSendEmail:
		return d.sendEmail(ctx, st)
	case ActionCancelDraft:
		return d.cancelDraft(st)
	case ActionSummarizeInbox:
		return d.summarizeInbox(ctx, st)
	case ActionCheckCalendar:
		return d.checkCalendar(ctx)
	case ActionChat:
		return a.ChatResponse, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrClassification, a.Type)
	}
}

func (d *Dispatcher) fetchEmails(ctx context.Context, st *State) (string, error) {
	emails, err := d.mail.ListRecent(ctx, d.listLimit)
	if err != nil {
		return "", fmt.Errorf("%w: mail.ListRecent failed: %v", ErrAPI, err)
	}

	st.CacheInbox(emails)

	return formatEmailList(emails), nil
}

func (d *Dispatcher) readEmail(ctx context.Context, a Action, st *State) (string, error) {
	id, err := st.ResolveEmailID(a.EmailID)
	if err != nil {
		return "", err
	}

	email, err := d.mail.Get(ctx, id)
	if err != nil {
		return "", wrapMailErr(err)
	}

	st.FocusedEmail = email

	return formatFullEmail(email), nil
}

func (d *Dispatcher) draftReply(ctx context.Context, a Action, st *State) (string, error) {
	email, err := d.resolveReplyTarget(ctx, a, st)
	if err != nil {
		return "", err
	}

	prompt := draftPrompt(email, a.Instructions, d.calendarContext(ctx))
	body, err := d.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: gen.Generate failed: %v", ErrAPI, err)
	}

	st.FocusedEmail = email
	st.PendingDraft = &Draft{
		EmailID:  email.ID,
		ThreadID: email.ThreadID,
		To:       email.From,
		Subject:  replySubject(email.Subject),
		Body:     body,
	}

	return formatDraft(st.PendingDraft), nil
}

// resolveReplyTarget picks the email to reply to: an explicit reference wins,
// otherwise the email in focus, otherwise the most recent fetched one.
func (d *Dispatcher) resolveReplyTarget(ctx context.Context, a Action, st *State) (*Email, error) {
	if a.EmailID == "" && st.FocusedEmail != nil {
		return st.FocusedEmail, nil
	}

	id, err := st.ResolveEmailID(a.EmailID)
	if err != nil {
		return nil, err
	}

	if st.FocusedEmail != nil && st.FocusedEmail.ID == id {
		return st.FocusedEmail, nil
	}

	email, err := d.mail.Get(ctx, id)
	if err != nil {
		return nil, wrapMailErr(err)
	}

	return email, nil
}

func (d *Dispatcher) reviseDraft(ctx context.Context, a Action, st *State) (string, error) {
	if st.PendingDraft == nil {
		return "", &userError{kind: ErrPrecondition, msg: "No draft to revise. Ask me to draft a reply first."}
	}

	body, err := d.gen.Generate(ctx, revisePrompt(st.PendingDraft.Body, a.Instructions))
	if err != nil {
		return "", fmt.Errorf("%w: gen.Generate failed: %v", ErrAPI, err)
	}

	revised := *st.PendingDraft
	revised.Body = body
	st.PendingDraft = &revised

	return formatDraft(st.PendingDraft), nil
}

func (d *Dispatcher) sendEmail(ctx context.Context, st *State) (string, error) {
	if st.PendingDraft == nil {
		return "", &userError{kind: ErrPrecondition, msg: "No draft to send. Ask me to draft a reply first."}
	}

	msgID, err := d.mail.SendReply(ctx, *st.PendingDraft)
	if err != nil {
		return "", fmt.Errorf("%w: mail.SendReply failed: %v", ErrAPI, err)
	}

	sent := st.PendingDraft
	st.PendingDraft = nil

	return fmt.Sprintf("Email sent to %s (subject: %s, message id: %s).", sent.To, sent.Subject, msgID), nil
}

func (d *Dispatcher) cancelDraft(st *State) (string, error) {
	if st.PendingDraft == nil {
		return "", &userError{kind: ErrPrecondition, msg: "No draft to discard."}
	}

	st.PendingDraft = nil

	return "Draft discarded.", nil
}

func (d *Dispatcher) summarizeInbox(ctx context.Context, st *State) (string, error) {
	emails := st.Inbox()
	if len(emails) == 0 {
		fetched, err := d.mail.ListRecent(ctx, d.listLimit)
		if err != nil {
			return "", fmt.Errorf("%w: mail.ListRecent failed: %v", ErrAPI, err)
		}
		st.CacheInbox(fetched)
		emails = fetched
	}

	if len(emails) == 0 {
		return "Your inbox is empty.", nil
	}

	summary, err := d.gen.Generate(ctx, summarizePrompt(emails))
	if err != nil {
		return "", fmt.Errorf("%w: gen.Generate failed: %v", ErrAPI, err)
	}

	return "Inbox summary:\n\n" + summary, nil
}

func (d *Dispatcher) checkCalendar(ctx context.Context) (string, error) {
	events, err := d.cal.UpcomingEvents(ctx, 7)
	if err != nil {
		return "", fmt.Errorf("%w: cal.UpcomingEvents failed: %v", ErrAPI, err)
	}

	return formatSchedule(events), nil
}

// calendarContext fetches the schedule for the drafting prompt. Drafting
// still works when the calendar is unavailable.
func (d *Dispatcher) calendarContext(ctx context.Context) string {
	events, err := d.cal.UpcomingEvents(ctx, 7)
	if err != nil {
		log.Printf("cal.UpcomingEvents failed, drafting without calendar context: %v", err)

		return ""
	}

	return formatSchedule(events)
}

func wrapMailErr(err error) error {
	if errors.Is(err, ErrNotFound) {
		return err
	}

	return fmt.Errorf("%w: mail.Get failed: %v", ErrAPI, err)
}

func replySubject(subject string) string {
	if strings.HasPrefix(strings.ToLower(subject), "re:") {
		return subject
	}

	return "Re: " + subject
}

// userError carries a message already phrased for the chat window.
type userError struct {
	kind error
	msg  string
}

func (e *userError) Error() string { return e.msg }
func (e *userError) Unwrap() error { return e.kind }

func userMessage(err error) string {
	var ue *userError
	if errors.As(err, &ue) {
		return ue.msg
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return "I couldn't find that email. Ask me to show your emails first, then refer to one by number."
	case errors.Is(err, ErrClassification):
		return `Sorry, I didn't understand that. Try "show my emails", "reply to 1" or "check my calendar".`
	case errors.Is(err, ErrAPI):
		return "Sorry, that didn't work: " + err.Error()
	default:
		return "Sorry, something went wrong: " + err.Error()
	}
}
