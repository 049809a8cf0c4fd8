// Package llm adapts the OpenAI chat completions API to the agent's
// classifier and text-generator contracts.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/sakethbandi007/email-chat-agent/internal/agent"
)

const (
	// Classification wants deterministic output; drafting benefits from a
	// little variety.
	classifyTemperature = 0.2
	generateTemperature = 0.7

	historyWindow = 10
)

// NewClient creates an OpenAI-backed classifier and generator.
func NewClient(apiKey, model string) *Client {
	m := shared.ChatModelGPT4o
	if model != "" {
		m = shared.ChatModel(model)
	}

	return &Client{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  m,
	}
}

// Client calls the OpenAI chat completions API.
type Client struct {
	client openai.Client
	model  shared.ChatModel
}

// Classify maps the latest user message onto exactly one action. The model
// is asked for a bare JSON object; any payload that doesn't validate against
// the action schema is ErrClassification.
func (c *Client) Classify(ctx context.Context, history []agent.Turn, stateSummary string) (agent.Action, error) {
	userMsg := latestUserMessage(history)
	if userMsg == "" {
		return agent.Action{}, fmt.Errorf("%w: empty message", agent.ErrClassification)
	}

	content, err := c.complete(ctx, classifySystemPrompt, classifyUserPrompt(history, stateSummary, userMsg), classifyTemperature)
	if err != nil {
		return agent.Action{}, fmt.Errorf("%w: %v", agent.ErrAPI, err)
	}

	payload := extractJSON(content)
	if payload == "" {
		return agent.Action{}, fmt.Errorf("%w: no JSON object in %q", agent.ErrClassification, content)
	}

	return agent.ParseAction([]byte(payload))
}

// Generate produces free text for drafting, revising and summarizing.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	content, err := c.complete(ctx, generateSystemPrompt, prompt, generateTemperature)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	return strings.TrimSpace(content), nil
}

func (c *Client) complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Model:       c.model,
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		return "", fmt.Errorf("completions.New failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", errors.New("no response choices")
	}

	return completion.Choices[0].Message.Content, nil
}

func latestUserMessage(history []agent.Turn) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Speaker == agent.SpeakerUser {
			return history[i].Text
		}
	}

	return ""
}

// extractJSON pulls the first JSON object out of a model response, tolerating
// code fences and surrounding prose.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}

	return content[start : end+1]
}
