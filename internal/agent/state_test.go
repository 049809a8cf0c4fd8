package agent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakethbandi007/email-chat-agent/internal/agent"
)

func TestResolveEmailID(t *testing.T) {
	inbox := []agent.EmailSummary{
		{ID: "m-1", From: "ann@example.com", Subject: "Quarterly report"},
		{ID: "m-2", From: "bob@example.com", Subject: "Lunch?"},
		{ID: "m-3", From: "hr@example.com", Subject: "Holiday schedule reminder"},
	}

	cases := []struct {
		name        string
		ref         string
		expected    string
		expectedErr error
	}{
		{name: "empty means latest", ref: "", expected: "m-1"},
		{name: "latest keyword", ref: "latest", expected: "m-1"},
		{name: "latest keyword case insensitive", ref: "Latest", expected: "m-1"},
		{name: "numeric index", ref: "2", expected: "m-2"},
		{name: "ordinal word", ref: "third", expected: "m-3"},
		{name: "index out of range", ref: "9", expectedErr: agent.ErrNotFound},
		{name: "zero is not an index", ref: "0", expectedErr: agent.ErrNotFound},
		{name: "raw message id", ref: "m-2", expected: "m-2"},
		{name: "subject phrase", ref: "holiday schedule", expectedErr: nil, expected: "m-3"},
		{name: "phrase containing subject", ref: "the one about lunch?", expected: "m-2"},
		{name: "no match", ref: "pigeons", expectedErr: agent.ErrNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := agent.NewState()
			st.CacheInbox(inbox)

			id, err := st.ResolveEmailID(tc.ref)
			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, id)
		})
	}
}

func TestResolveEmailIDEmptyCache(t *testing.T) {
	st := agent.NewState()

	_, err := st.ResolveEmailID("latest")
	require.ErrorIs(t, err, agent.ErrNotFound)

	_, err = st.ResolveEmailID("1")
	require.ErrorIs(t, err, agent.ErrNotFound)
}

func TestStateSummary(t *testing.T) {
	st := agent.NewState()

	summary := st.Summary()
	assert.Contains(t, summary, "none loaded yet")
	assert.Contains(t, summary, "Current draft exists: no")

	st.CacheInbox([]agent.EmailSummary{
		{ID: "m-1", From: "ann@example.com", Subject: "Quarterly report"},
	})
	st.PendingDraft = &agent.Draft{To: "ann@example.com"}
	st.FocusedEmail = &agent.Email{ID: "m-1", From: "ann@example.com", Subject: "Quarterly report"}

	summary = st.Summary()
	assert.Contains(t, summary, "1. id=m-1 | from=ann@example.com | subject=Quarterly report")
	assert.Contains(t, summary, "Current draft exists: yes (to ann@example.com)")
	assert.Contains(t, summary, `Email in focus: "Quarterly report"`)
}

func TestAppendHistory(t *testing.T) {
	st := agent.NewState()
	st.Append(agent.SpeakerUser, "show my emails")
	st.Append(agent.SpeakerAssistant, "Here they are.")

	require.Len(t, st.History, 2)
	assert.Equal(t, agent.SpeakerUser, st.History[0].Speaker)
	assert.Equal(t, "Here they are.", st.History[1].Text)
}
