// Package chat runs the turn-taking loop between the user, the intent
// classifier and the action dispatcher.
package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/sakethbandi007/email-chat-agent/internal/agent"
)

const apology = `Sorry, I didn't understand that. Try "show my emails", "reply to 1" or "check my calendar".`

const welcome = `Hi! I'm your email assistant. I can:
  - show and summarize your latest emails
  - read one ("read 2")
  - draft and revise replies ("reply to 1 saying thanks", "make it shorter")
  - send or cancel the draft ("send", "cancel")
  - check your calendar
Type "quit" to leave.`

type classifier interface {
	Classify(ctx context.Context, history []agent.Turn, stateSummary string) (agent.Action, error)
}

type dispatcher interface {
	Dispatch(ctx context.Context, a agent.Action, st *agent.State) string
}

// Loop is the single-threaded chat session. One user message is fully
// resolved, including any LLM and API calls, before the next is read.
type Loop struct {
	cls classifier
	dsp dispatcher
	in  io.Reader
	out io.Writer
}

// NewLoop wires a session over the given input and output streams.
func NewLoop(cls classifier, dsp dispatcher, in io.Reader, out io.Writer) *Loop {
	return &Loop{
		cls: cls,
		dsp: dsp,
		in:  in,
		out: out,
	}
}

// Run reads messages until EOF or a quit command. Session state lives and
// dies with this call.
func (l *Loop) Run(ctx context.Context) error {
	st := agent.NewState()

	fmt.Fprintln(l.out, welcome)

	scanner := bufio.NewScanner(l.in)
	for {
		fmt.Fprint(l.out, "\nyou> ")

		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if isQuit(input) {
			fmt.Fprintln(l.out, "Bye!")
			break
		}

		reply := l.handleTurn(ctx, st, input)
		fmt.Fprintf(l.out, "\n%s\n", reply)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner.Err: %w", err)
	}

	return nil
}

// handleTurn resolves one user message: record, classify, dispatch, record.
// A failed classification degrades to an apology; the turn is still part of
// the transcript.
func (l *Loop) handleTurn(ctx context.Context, st *agent.State, input string) string {
	st.Append(agent.SpeakerUser, input)

	var reply string

	action, err := l.cls.Classify(ctx, st.History, st.Summary())
	if err != nil {
		log.Printf("classify failed: %v", err)
		reply = apology
	} else {
		reply = l.dsp.Dispatch(ctx, action, st)
	}

	st.Append(agent.SpeakerAssistant, reply)

	return reply
}

func isQuit(input string) bool {
	switch strings.ToLower(input) {
	case "quit", "exit", "bye":
		return true
	}

	return false
}
