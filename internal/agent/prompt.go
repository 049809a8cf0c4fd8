package agent

import (
	"fmt"
	"strings"
)

func draftPrompt(email *Email, instructions, calendarContext string) string {
	var sb strings.Builder

	sb.WriteString("Draft a professional email reply.\n\n")
	sb.WriteString("Original email:\n")
	fmt.Fprintf(&sb, "From: %s\n", email.From)
	fmt.Fprintf(&sb, "Subject: %s\n", email.Subject)
	fmt.Fprintf(&sb, "Body:\n%s\n", email.Body)

	if calendarContext != "" {
		fmt.Fprintf(&sb, "\nMy calendar:\n%s\n", calendarContext)
	}

	if instructions != "" {
		fmt.Fprintf(&sb, "\nInstructions: %s\n", instructions)
	}

	sb.WriteString("\nWrite a professional, helpful reply. ")
	sb.WriteString("Suggest specific times from the calendar when scheduling is requested. ")
	sb.WriteString("Return only the email body text, no subject line.")

	return sb.String()
}

func revisePrompt(draft, feedback string) string {
	var sb strings.Builder

	sb.WriteString("Revise this email draft based on feedback.\n\n")
	fmt.Fprintf(&sb, "Current draft:\n%s\n", draft)
	fmt.Fprintf(&sb, "\nFeedback: %s\n", feedback)
	sb.WriteString("\nReturn only the revised email body text.")

	return sb.String()
}

func summarizePrompt(emails []EmailSummary) string {
	var sb strings.Builder

	sb.WriteString("Summarize these emails briefly, grouping by priority ")
	sb.WriteString("(urgent, action needed, FYI):\n")
	for _, e := range emails {
		fmt.Fprintf(&sb, "- From: %s, Subject: %s", e.From, e.Subject)
		if e.Snippet != "" {
			fmt.Fprintf(&sb, ", Preview: %s", e.Snippet)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
