package chat_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakethbandi007/email-chat-agent/internal/agent"
	"github.com/sakethbandi007/email-chat-agent/internal/chat"
)

type classifierMock struct {
	ClassifyFunc func(ctx context.Context, history []agent.Turn, stateSummary string) (agent.Action, error)
}

func (m *classifierMock) Classify(ctx context.Context, history []agent.Turn, stateSummary string) (agent.Action, error) {
	return m.ClassifyFunc(ctx, history, stateSummary)
}

type dispatcherMock struct {
	DispatchFunc func(ctx context.Context, a agent.Action, st *agent.State) string

	calls []agent.Action
}

func (m *dispatcherMock) Dispatch(ctx context.Context, a agent.Action, st *agent.State) string {
	m.calls = append(m.calls, a)
	return m.DispatchFunc(ctx, a, st)
}

func TestRunDispatchesClassifiedAction(t *testing.T) {
	cls := &classifierMock{
		ClassifyFunc: func(_ context.Context, history []agent.Turn, _ string) (agent.Action, error) {
			require.NotEmpty(t, history)
			assert.Equal(t, agent.SpeakerUser, history[len(history)-1].Speaker)
			return agent.Action{Type: agent.ActionFetchEmails}, nil
		},
	}
	dsp := &dispatcherMock{
		DispatchFunc: func(_ context.Context, _ agent.Action, _ *agent.State) string {
			return "Here are your latest emails."
		},
	}

	in := strings.NewReader("show my emails\nquit\n")
	var out strings.Builder

	err := chat.NewLoop(cls, dsp, in, &out).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, dsp.calls, 1)
	assert.Equal(t, agent.ActionFetchEmails, dsp.calls[0].Type)
	assert.Contains(t, out.String(), "Here are your latest emails.")
	assert.Contains(t, out.String(), "Bye!")
}

func TestRunClassifyFailureSkipsDispatcher(t *testing.T) {
	var histories [][]agent.Turn
	cls := &classifierMock{
		ClassifyFunc: func(_ context.Context, history []agent.Turn, _ string) (agent.Action, error) {
			histories = append(histories, append([]agent.Turn(nil), history...))
			return agent.Action{}, errors.New("openai: 429")
		},
	}
	dsp := &dispatcherMock{
		DispatchFunc: func(_ context.Context, _ agent.Action, _ *agent.State) string {
			return "should not happen"
		},
	}

	in := strings.NewReader("blorp\nblorp again\n")
	var out strings.Builder

	err := chat.NewLoop(cls, dsp, in, &out).Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, dsp.calls, "a failed classification must not reach the dispatcher")
	assert.Contains(t, out.String(), "Sorry, I didn't understand that")

	require.Len(t, histories, 2)
	require.Len(t, histories[1], 3, "the failed turn and its apology stay in the transcript")
	assert.Equal(t, agent.SpeakerAssistant, histories[1][1].Speaker)
}

func TestRunHistoryAccumulatesAcrossTurns(t *testing.T) {
	var seen [][]agent.Turn
	cls := &classifierMock{
		ClassifyFunc: func(_ context.Context, history []agent.Turn, _ string) (agent.Action, error) {
			seen = append(seen, append([]agent.Turn(nil), history...))
			return agent.Action{Type: agent.ActionChat, ChatResponse: "ok"}, nil
		},
	}
	dsp := &dispatcherMock{
		DispatchFunc: func(_ context.Context, a agent.Action, _ *agent.State) string {
			return a.ChatResponse
		},
	}

	in := strings.NewReader("hello\nhow are you\nexit\n")
	var out strings.Builder

	err := chat.NewLoop(cls, dsp, in, &out).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Len(t, seen[0], 1, "first turn sees only the first user message")
	require.Len(t, seen[1], 3, "second turn sees user, assistant, user")
	assert.Equal(t, agent.SpeakerAssistant, seen[1][1].Speaker)
}

func TestRunSkipsBlankLines(t *testing.T) {
	cls := &classifierMock{
		ClassifyFunc: func(_ context.Context, _ []agent.Turn, _ string) (agent.Action, error) {
			return agent.Action{Type: agent.ActionChat, ChatResponse: "ok"}, nil
		},
	}
	dsp := &dispatcherMock{
		DispatchFunc: func(_ context.Context, a agent.Action, _ *agent.State) string {
			return a.ChatResponse
		},
	}

	in := strings.NewReader("\n   \nbye\n")
	var out strings.Builder

	err := chat.NewLoop(cls, dsp, in, &out).Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, dsp.calls)
}
