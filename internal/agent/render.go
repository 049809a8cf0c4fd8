package agent

import (
	"fmt"
	"strings"
)

func formatEmailList(emails []EmailSummary) string {
	if len(emails) == 0 {
		return "Your inbox is empty."
	}

	var sb strings.Builder
	sb.WriteString("Here are your latest emails:\n\n")
	for i, e := range emails {
		marker := " "
		if e.Unread {
			marker = "*"
		}
		fmt.Fprintf(&sb, "%s %d. %s\n     from %s", marker, i+1, e.Subject, e.From)
		if e.Date != "" {
			fmt.Fprintf(&sb, " on %s", e.Date)
		}
		sb.WriteString("\n")
		if e.Snippet != "" {
			fmt.Fprintf(&sb, "     %s\n", truncate(e.Snippet, 100))
		}
	}
	sb.WriteString("\nSay \"read 1\" to open one, or \"reply to 2\" to draft a response.")

	return sb.String()
}

func formatFullEmail(e *Email) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Subject: %s\n", e.Subject)
	fmt.Fprintf(&sb, "From:    %s\n", e.From)
	if e.Date != "" {
		fmt.Fprintf(&sb, "Date:    %s\n", e.Date)
	}
	sb.WriteString("\n")
	sb.WriteString(strings.TrimSpace(e.Body))
	sb.WriteString("\n\nSay \"reply\" to draft a response.")

	return sb.String()
}

func formatDraft(d *Draft) string {
	var sb strings.Builder
	sb.WriteString("Draft reply:\n\n")
	fmt.Fprintf(&sb, "To:      %s\n", d.To)
	fmt.Fprintf(&sb, "Subject: %s\n", d.Subject)
	sb.WriteString("\n")
	sb.WriteString(strings.TrimSpace(d.Body))
	sb.WriteString("\n\nSay \"send\" to send it, give feedback to revise, or \"cancel\" to discard.")

	return sb.String()
}

func formatSchedule(events []Event) string {
	if len(events) == 0 {
		return "No upcoming events in the next 7 days."
	}

	var sb strings.Builder
	sb.WriteString("Upcoming events:\n")
	for _, ev := range events {
		fmt.Fprintf(&sb, "- %s: %s\n", ev.Start, ev.Title)
	}

	return strings.TrimRight(sb.String(), "\n")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n] + "..."
}
