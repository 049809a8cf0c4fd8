package gservice

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/gmail/v1"

	"github.com/sakethbandi007/email-chat-agent/internal/agent"
)

func TestBuildRawReply(t *testing.T) {
	cases := []struct {
		name       string
		draft      agent.Draft
		messageID  string
		references string
		expected   string
	}{
		{
			name:     "no thread headers",
			draft:    agent.Draft{To: "ann@example.com", Subject: "Re: Report", Body: "On it."},
			expected: "To: ann@example.com\r\nSubject: Re: Report\r\nContent-Type: text/plain; charset=utf-8\r\n\r\nOn it.",
		},
		{
			name:      "first reply on thread",
			draft:     agent.Draft{To: "ann@example.com", Subject: "Re: Report", Body: "On it."},
			messageID: "<orig@mail.example.com>",
			expected: "To: ann@example.com\r\nSubject: Re: Report\r\n" +
				"In-Reply-To: <orig@mail.example.com>\r\nReferences: <orig@mail.example.com>\r\n" +
				"Content-Type: text/plain; charset=utf-8\r\n\r\nOn it.",
		},
		{
			name:       "appends to existing references",
			draft:      agent.Draft{To: "ann@example.com", Subject: "Re: Report", Body: "On it."},
			messageID:  "<second@mail.example.com>",
			references: "<first@mail.example.com>",
			expected: "To: ann@example.com\r\nSubject: Re: Report\r\n" +
				"In-Reply-To: <second@mail.example.com>\r\n" +
				"References: <first@mail.example.com> <second@mail.example.com>\r\n" +
				"Content-Type: text/plain; charset=utf-8\r\n\r\nOn it.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, buildRawReply(tc.draft, tc.messageID, tc.references))
		})
	}
}

func TestExtractBodies(t *testing.T) {
	plain := base64.URLEncoding.EncodeToString([]byte("plain body"))
	html := base64.URLEncoding.EncodeToString([]byte("<b>html body</b>"))

	cases := []struct {
		name         string
		payload      *gmail.MessagePart
		expectedText string
		expectedHTML string
	}{
		{
			name: "single part plain",
			payload: &gmail.MessagePart{
				MimeType: "text/plain",
				Body:     &gmail.MessagePartBody{Data: plain},
			},
			expectedText: "plain body",
		},
		{
			name: "multipart alternative",
			payload: &gmail.MessagePart{
				MimeType: "multipart/alternative",
				Parts: []*gmail.MessagePart{
					{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: plain}},
					{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: html}},
				},
			},
			expectedText: "plain body",
			expectedHTML: "<b>html body</b>",
		},
		{
			name: "nested multipart",
			payload: &gmail.MessagePart{
				MimeType: "multipart/mixed",
				Parts: []*gmail.MessagePart{
					{
						MimeType: "multipart/alternative",
						Parts: []*gmail.MessagePart{
							{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: html}},
						},
					},
				},
			},
			expectedHTML: "<b>html body</b>",
		},
		{
			name:    "no body",
			payload: &gmail.MessagePart{MimeType: "multipart/mixed"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			textBody, htmlBody := extractBodies(tc.payload)
			assert.Equal(t, tc.expectedText, textBody)
			assert.Equal(t, tc.expectedHTML, htmlBody)
		})
	}
}

func TestDecodeBase64URL(t *testing.T) {
	padded := base64.URLEncoding.EncodeToString([]byte("hello"))
	raw := base64.RawURLEncoding.EncodeToString([]byte("hello"))

	assert.Equal(t, "hello", decodeBase64URL(padded))
	assert.Equal(t, "hello", decodeBase64URL(raw))
	assert.Equal(t, "%%%not-base64", decodeBase64URL("%%%not-base64"))
}

func TestApplyHeaders(t *testing.T) {
	msg := &gmail.Message{
		Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{
				{Name: "From", Value: "Ann <ann@example.com>"},
				{Name: "Subject", Value: "Quarterly report"},
				{Name: "Date", Value: "Mon, 01 Dec 2025 10:00:00 +0000"},
				{Name: "To", Value: "me@example.com"},
			},
		},
	}

	var from, subject, date string
	applyHeaders(msg, &from, &subject, &date)

	assert.Equal(t, "Ann <ann@example.com>", from)
	assert.Equal(t, "Quarterly report", subject)
	assert.Equal(t, "Mon, 01 Dec 2025 10:00:00 +0000", date)
}

func TestHasLabel(t *testing.T) {
	msg := &gmail.Message{LabelIds: []string{"INBOX", "UNREAD"}}

	assert.True(t, hasLabel(msg, "UNREAD"))
	assert.False(t, hasLabel(msg, "STARRED"))
}
