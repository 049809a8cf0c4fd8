package agent

import (
	"fmt"
	"strings"
)

// Speaker identifies who produced a turn.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Turn is one entry in the conversation history.
type Turn struct {
	Speaker Speaker
	Text    string
}

// State holds everything the session remembers between turns: the transcript,
// the email currently in focus, the draft pending approval, and a cache of
// the last fetched inbox listing used to resolve positional references
// ("reply to 3"). It lives for one session and is never persisted.
type State struct {
	History      []Turn
	FocusedEmail *Email
	PendingDraft *Draft

	inbox []EmailSummary
}

// NewState returns an empty session state.
func NewState() *State {
	return &State{}
}

// Append records a turn. History is append-only.
func (s *State) Append(speaker Speaker, text string) {
	s.History = append(s.History, Turn{Speaker: speaker, Text: text})
}

// CacheInbox replaces the cached listing after a fetch.
func (s *State) CacheInbox(emails []EmailSummary) {
	s.inbox = emails
}

// Inbox returns the cached listing from the last fetch.
func (s *State) Inbox() []EmailSummary {
	return s.inbox
}

// ResolveEmailID maps a classifier-provided reference onto a concrete message
// ID. Accepted forms: "" or "latest" (first cached email), a 1-based index
// ("1", "first", ...), a raw Gmail ID present in the cache, or a phrase
// matching a cached subject. Anything else is ErrNotFound.
func (s *State) ResolveEmailID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)

	if ref == "" || strings.EqualFold(ref, "latest") {
		if len(s.inbox) == 0 {
			return "", fmt.Errorf("%w: no emails loaded", ErrNotFound)
		}

		return s.inbox[0].ID, nil
	}

	if idx, ok := ordinalIndex(ref); ok {
		if idx < 1 || idx > len(s.inbox) {
			return "", fmt.Errorf("%w: no email number %d in the last listing", ErrNotFound, idx)
		}

		return s.inbox[idx-1].ID, nil
	}

	for _, e := range s.inbox {
		if e.ID == ref {
			return e.ID, nil
		}
	}

	if id := s.matchSubject(ref); id != "" {
		return id, nil
	}

	return "", fmt.Errorf("%w: %q", ErrNotFound, ref)
}

// matchSubject finds the cached email whose subject best matches the phrase,
// preferring the longest containment either way.
func (s *State) matchSubject(phrase string) string {
	phrase = strings.ToLower(phrase)

	bestID := ""
	bestLen := 0
	for _, e := range s.inbox {
		subject := strings.ToLower(e.Subject)
		if subject == "" {
			continue
		}
		if strings.Contains(phrase, subject) || strings.Contains(subject, phrase) {
			if len(subject) > bestLen {
				bestLen = len(subject)
				bestID = e.ID
			}
		}
	}

	return bestID
}

var ordinals = map[string]int{
	"first":  1,
	"second": 2,
	"third":  3,
	"fourth": 4,
	"fifth":  5,
}

func ordinalIndex(ref string) (int, bool) {
	if n, ok := ordinals[strings.ToLower(ref)]; ok {
		return n, true
	}

	n := 0
	for _, r := range ref {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	if n == 0 {
		return 0, false
	}

	return n, true
}

// Summary describes the session state for the classifier prompt: the numbered
// inbox listing and whether a draft is pending.
func (s *State) Summary() string {
	var sb strings.Builder

	if len(s.inbox) == 0 {
		sb.WriteString("Email list: none loaded yet.\n")
	} else {
		sb.WriteString("Email list (use these indices in email_id):\n")
		for i, e := range s.inbox {
			fmt.Fprintf(&sb, "%d. id=%s | from=%s | subject=%s\n", i+1, e.ID, e.From, e.Subject)
		}
	}

	if s.PendingDraft != nil {
		fmt.Fprintf(&sb, "Current draft exists: yes (to %s)\n", s.PendingDraft.To)
	} else {
		sb.WriteString("Current draft exists: no\n")
	}

	if s.FocusedEmail != nil {
		fmt.Fprintf(&sb, "Email in focus: %q from %s\n", s.FocusedEmail.Subject, s.FocusedEmail.From)
	}

	return sb.String()
}
