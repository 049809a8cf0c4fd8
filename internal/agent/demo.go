package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// DemoMailbox is an in-memory mailbox with canned messages, used when no
// Google credentials are configured. Sends are recorded, not delivered.
type DemoMailbox struct {
	mu     sync.Mutex
	emails []Email
	sent   []Draft
}

// NewDemoMailbox returns a mailbox pre-loaded with sample messages.
func NewDemoMailbox() *DemoMailbox {
	return &DemoMailbox{emails: demoEmails()}
}

// ListRecent returns up to limit sample messages, newest first.
func (m *DemoMailbox) ListRecent(_ context.Context, limit int64) ([]EmailSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := int(limit)
	if n <= 0 || n > len(m.emails) {
		n = len(m.emails)
	}

	summaries := make([]EmailSummary, 0, n)
	for _, e := range m.emails[:n] {
		summaries = append(summaries, EmailSummary{
			ID:      e.ID,
			From:    e.From,
			Subject: e.Subject,
			Snippet: truncate(strings.ReplaceAll(strings.TrimSpace(e.Body), "\n", " "), 80),
			Date:    e.Date,
			Unread:  true,
		})
	}

	return summaries, nil
}

// Get returns a sample message by ID.
func (m *DemoMailbox) Get(_ context.Context, id string) (*Email, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.emails {
		if m.emails[i].ID == id {
			e := m.emails[i]

			return &e, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// SendReply records the draft and returns a fake message ID.
func (m *DemoMailbox) SendReply(_ context.Context, d Draft) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = append(m.sent, d)

	return fmt.Sprintf("demo-sent-%03d", len(m.sent)), nil
}

// Sent returns every draft sent so far.
func (m *DemoMailbox) Sent() []Draft {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]Draft(nil), m.sent...)
}

// DemoCalendar serves a canned weekly schedule.
type DemoCalendar struct{}

// UpcomingEvents returns the sample schedule.
func (DemoCalendar) UpcomingEvents(_ context.Context, _ int) ([]Event, error) {
	return []Event{
		{Title: "Team standup", Start: "Mon 10:00 AM"},
		{Title: "Client presentation", Start: "Tue 2:00 PM"},
		{Title: "Budget review", Start: "Wed 11:00 AM"},
		{Title: "Project deadline review", Start: "Thu 3:00 PM"},
	}, nil
}

func demoEmails() []Email {
	return []Email{
		{
			ID:       "demo-001",
			ThreadID: "demo-thread-001",
			From:     "john.doe@company.com",
			Subject:  "Q4 Project Meeting Request",
			Date:     "Dec 12, 2024 10:30 AM",
			Body: `Hi,

I would like to schedule a meeting next week to discuss the Q4 project timeline and deliverables.
Do you have availability on Tuesday or Wednesday afternoon?

We need to review:
- Current progress on Phase 1
- Budget allocation for Phase 2
- Team resource planning

Looking forward to hearing from you.

Best regards,
John Doe
Senior Project Manager`,
		},
		{
			ID:       "demo-002",
			ThreadID: "demo-thread-002",
			From:     "sarah.smith@startup.io",
			Subject:  "Partnership Opportunity",
			Date:     "Dec 12, 2024 9:15 AM",
			Body: `Hello,

We're interested in exploring a potential partnership with your team. Our startup focuses on
AI-powered solutions and we believe there could be great synergy.

Would you be available for a 30-minute call next week?

Best,
Sarah Smith`,
		},
		{
			ID:       "demo-003",
			ThreadID: "demo-thread-003",
			From:     "newsletter@techdigest.com",
			Subject:  "Weekly Tech Digest: AI Updates",
			Date:     "Dec 11, 2024 6:00 PM",
			Body:     "Weekly Tech Digest\n\nThis week in AI:\n- New breakthroughs in language models\n- Tooling updates across the ecosystem\n\nUnsubscribe | Manage Preferences",
		},
		{
			ID:       "demo-004",
			ThreadID: "demo-thread-004",
			From:     "hr@mycompany.com",
			Subject:  "Holiday Schedule Reminder",
			Date:     "Dec 11, 2024 2:30 PM",
			Body:     "Dear Team,\n\nPlease note the office will be closed from December 24-26 for the holidays.\n\nHappy Holidays!\nHR Team",
		},
		{
			ID:       "demo-005",
			ThreadID: "demo-thread-005",
			From:     "mike.wilson@client.com",
			Subject:  "Invoice #1234 - Urgent",
			Date:     "Dec 11, 2024 11:00 AM",
			Body: `Hi,

Please review and approve the attached invoice for November services.

Invoice Details:
- Invoice #: 1234
- Amount: $5,450.00
- Due Date: December 20, 2024

Thanks,
Mike Wilson`,
		},
	}
}
