// Package gservice wraps the Gmail and Calendar APIs behind the agent's
// collaborator interfaces.
package gservice

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/sakethbandi007/email-chat-agent/internal/agent"
	"github.com/sakethbandi007/email-chat-agent/internal/auth"
)

const gmailUserID = "me"

type htmlConverter interface {
	HTML2MD(raw []byte) (string, error)
}

// NewGMail creates a Gmail-backed mailbox.
func NewGMail(cfg *oauth2.Config, tok *auth.Token, conv htmlConverter) *GMail {
	return &GMail{
		cfg:  cfg,
		tok:  tok,
		conv: conv,
	}
}

// GMail implements agent.Mailbox over the Gmail REST API.
type GMail struct {
	cfg  *oauth2.Config
	tok  *auth.Token
	conv htmlConverter
}

// ListRecent returns the newest inbox messages as summaries.
func (m *GMail) ListRecent(ctx context.Context, limit int64) ([]agent.EmailSummary, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	result, err := svc.Users.Messages.List(gmailUserID).
		LabelIds("INBOX").
		MaxResults(limit).
		Do()
	if err != nil {
		return nil, fmt.Errorf("messages.List failed: %w", err)
	}

	summaries := make([]agent.EmailSummary, 0, len(result.Messages))
	for _, ref := range result.Messages {
		msg, err := svc.Users.Messages.Get(gmailUserID, ref.Id).
			Format("METADATA").
			MetadataHeaders("From", "Subject", "Date").
			Do()
		if err != nil {
			return nil, fmt.Errorf("messages.Get %s failed: %w", ref.Id, err)
		}

		summary := agent.EmailSummary{
			ID:      msg.Id,
			Snippet: msg.Snippet,
			Unread:  hasLabel(msg, "UNREAD"),
		}
		applyHeaders(msg, &summary.From, &summary.Subject, &summary.Date)
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// Get fetches a full message including its decoded body.
func (m *GMail) Get(ctx context.Context, id string) (*agent.Email, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	msg, err := svc.Users.Messages.Get(gmailUserID, id).Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", agent.ErrNotFound, id)
		}

		return nil, fmt.Errorf("messages.Get failed: %w", err)
	}

	email := &agent.Email{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
	}
	applyHeaders(msg, &email.From, &email.Subject, &email.Date)

	email.Body, err = m.bodyText(msg)
	if err != nil {
		return nil, fmt.Errorf("bodyText failed: %w", err)
	}
	if email.Body == "" {
		email.Body = msg.Snippet
	}

	return email, nil
}

// SendReply sends the draft on its thread and returns the new message ID.
// Reply headers are taken from the thread's last message so clients keep the
// conversation grouped.
func (m *GMail) SendReply(ctx context.Context, d agent.Draft) (string, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return "", fmt.Errorf("newSvc failed: %w", err)
	}

	messageID, references := replyHeaders(svc, d.ThreadID)
	raw := buildRawReply(d, messageID, references)

	msg := &gmail.Message{
		Raw:      base64.URLEncoding.EncodeToString([]byte(raw)),
		ThreadId: d.ThreadID,
	}

	sent, err := svc.Users.Messages.Send(gmailUserID, msg).Do()
	if err != nil {
		return "", fmt.Errorf("messages.Send failed: %w", err)
	}

	return sent.Id, nil
}

func (m *GMail) bodyText(msg *gmail.Message) (string, error) {
	if msg.Payload == nil {
		return "", nil
	}

	textBody, htmlBody := extractBodies(msg.Payload)
	if textBody != "" {
		return textBody, nil
	}
	if htmlBody == "" {
		return "", nil
	}

	converted, err := m.conv.HTML2MD([]byte(htmlBody))
	if err != nil {
		return "", fmt.Errorf("conv.HTML2MD failed: %w", err)
	}

	return converted, nil
}

func (m *GMail) newSvc(ctx context.Context) (*gmail.Service, error) {
	t, err := m.tok.OAuthToken()
	if err != nil {
		return nil, fmt.Errorf("tok.OAuthToken failed: %w", err)
	}

	clt := m.cfg.Client(ctx, t)

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(clt))
	if err != nil {
		return nil, fmt.Errorf("gmail.NewService failed: %w", err)
	}

	return svc, nil
}

// replyHeaders looks up In-Reply-To/References values from the last message
// on the thread. Best effort: an empty result still produces a valid send.
func replyHeaders(svc *gmail.Service, threadID string) (messageID, references string) {
	if threadID == "" {
		return "", ""
	}

	thread, err := svc.Users.Threads.Get(gmailUserID, threadID).Do()
	if err != nil || len(thread.Messages) == 0 {
		return "", ""
	}

	last := thread.Messages[len(thread.Messages)-1]
	if last.Payload == nil {
		return "", ""
	}

	for _, h := range last.Payload.Headers {
		switch h.Name {
		case "Message-ID":
			messageID = h.Value
		case "References":
			references = h.Value
		}
	}

	return messageID, references
}

func buildRawReply(d agent.Draft, messageID, references string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "To: %s\r\n", d.To)
	fmt.Fprintf(&sb, "Subject: %s\r\n", d.Subject)
	if messageID != "" {
		fmt.Fprintf(&sb, "In-Reply-To: %s\r\n", messageID)
		if references != "" {
			fmt.Fprintf(&sb, "References: %s %s\r\n", references, messageID)
		} else {
			fmt.Fprintf(&sb, "References: %s\r\n", messageID)
		}
	}
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(d.Body)

	return sb.String()
}

func applyHeaders(msg *gmail.Message, from, subject, date *string) {
	if msg.Payload == nil {
		return
	}

	for _, h := range msg.Payload.Headers {
		switch h.Name {
		case "From":
			*from = h.Value
		case "Subject":
			*subject = h.Value
		case "Date":
			*date = h.Value
		}
	}
}

func hasLabel(msg *gmail.Message, label string) bool {
	for _, l := range msg.LabelIds {
		if l == label {
			return true
		}
	}

	return false
}
