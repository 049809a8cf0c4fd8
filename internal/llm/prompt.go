package llm

import (
	"fmt"
	"strings"

	"github.com/sakethbandi007/email-chat-agent/internal/agent"
)

const classifySystemPrompt = `You are an email assistant. Analyze the user's message and decide what action to take.
Return a single JSON object and nothing else, with these fields:
- action: one of fetch_emails, read_email, draft_reply, revise_draft, send_email, cancel_draft, summarize_inbox, check_calendar, chat
- email_id: (optional) for read_email/draft_reply. Use "latest" OR a numeric index ("1", "2", "3") from the email list.
- instructions: (optional) for draft_reply/revise_draft, the user's instructions or feedback
- chat_response: (required for chat) your helpful response

Always pick the email that best matches the user's intent based on subject and sender from the email list.
If the user mentions a phrase from a subject, set email_id to that email's numeric index.

Examples:
- "show my emails" -> {"action": "fetch_emails"}
- "read the latest" -> {"action": "read_email", "email_id": "latest"}
- "reply to first email saying thanks" -> {"action": "draft_reply", "email_id": "1", "instructions": "say thanks"}
- "make it shorter" -> {"action": "revise_draft", "instructions": "make it shorter"}
- "send it" -> {"action": "send_email"}
- "never mind, cancel that" -> {"action": "cancel_draft"}
- "summarize my inbox" -> {"action": "summarize_inbox"}
- "what's on my calendar?" -> {"action": "check_calendar"}
- "what can you do?" -> {"action": "chat", "chat_response": "I can help you..."}`

const generateSystemPrompt = "You are a helpful email assistant. Follow the instructions exactly and return only the requested text."

func classifyUserPrompt(history []agent.Turn, stateSummary, userMsg string) string {
	var sb strings.Builder

	sb.WriteString(stateSummary)

	if transcript := recentTranscript(history); transcript != "" {
		sb.WriteString("\nRecent conversation:\n")
		sb.WriteString(transcript)
	}

	fmt.Fprintf(&sb, "\nUser message: %q\n", userMsg)

	return sb.String()
}

// recentTranscript renders the last few turns, excluding the message being
// classified.
func recentTranscript(history []agent.Turn) string {
	if len(history) < 2 {
		return ""
	}

	turns := history[:len(history)-1]
	if len(turns) > historyWindow {
		turns = turns[len(turns)-historyWindow:]
	}

	var sb strings.Builder
	for _, t := range turns {
		text := t.Text
		if len(text) > 200 {
			text = text[:200] + "..."
		}
		fmt.Fprintf(&sb, "%s: %s\n", t.Speaker, text)
	}

	return sb.String()
}
