package llm

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"

	"github.com/CharlesKozel/linpeas-agent-test/pkg/logger"
)

// DefaultModel is used when OPENAI_MODEL is unset.
const DefaultModel = "gpt-4"

const (
	// Keep the last 8 messages (4 exchanges) under normal conditions.
	historyWindow = 8
	// Fall back to the last 4 messages when the character budget is exceeded.
	historyWindowTight = 4
	// Retain at most 10 messages between calls.
	historyCap = 10
	// Rough stand-in for a token limit.
	promptCharBudget = 12000

	temperature = 0.3
)

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client wraps one chat-completion backend and carries a bounded conversation
// history between calls. Not safe for concurrent use.
type Client struct {
	model   string
	api     chatCompleter
	history []openai.ChatCompletionMessage
	log     *logger.Logger
}

// NewClient builds a client for the given model and API key. An empty model
// falls back to DefaultModel; an empty key is an error.
func NewClient(model, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key not provided")
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		model: model,
		api:   openai.NewClient(apiKey),
		log:   logger.Get(),
	}, nil
}

// NewClientFromEnv loads .env if present and reads OPENAI_MODEL and
// OPENAI_API_KEY from the environment.
func NewClientFromEnv() (*Client, error) {
	_ = godotenv.Load()
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("OpenAI API key not provided, set OPENAI_API_KEY")
	}
	return NewClient(os.Getenv("OPENAI_MODEL"), apiKey)
}

// Prompt sends one user message under the given system prompt and returns the
// model's reply. API failures never surface as errors; they come back as fixed
// operator-readable strings so callers handle one uniform result shape.
func (c *Client) Prompt(ctx context.Context, userPrompt, systemPrompt string) string {
	messages := c.buildMessages(userPrompt, systemPrompt)

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
	})
	if err != nil {
		return c.describeFailure(err)
	}
	if len(resp.Choices) == 0 {
		c.log.Error("model returned no choices")
		return "Error communicating with LLM: empty response"
	}

	content := resp.Choices[0].Message.Content
	c.remember(userPrompt, content)
	c.log.Info("received model response", logger.Int("chars", len(content)))
	return content
}

// HistoryLen reports the number of retained history messages.
func (c *Client) HistoryLen() int {
	return len(c.history)
}

func (c *Client) buildMessages(userPrompt, systemPrompt string) []openai.ChatCompletionMessage {
	messages := assemble(systemPrompt, tail(c.history, historyWindow), userPrompt)

	totalChars := 0
	for _, msg := range messages {
		totalChars += len(msg.Content)
	}
	if totalChars > promptCharBudget {
		messages = assemble(systemPrompt, tail(c.history, historyWindowTight), userPrompt)
	}
	return messages
}

func assemble(systemPrompt string, history []openai.ChatCompletionMessage, userPrompt string) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	messages = append(messages, history...)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userPrompt,
	})
	return messages
}

func (c *Client) remember(userPrompt, reply string) {
	c.history = append(c.history,
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: reply},
	)
	c.history = tail(c.history, historyCap)
}

func (c *Client) describeFailure(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 429:
			c.log.Error("rate limit exceeded", logger.Error(err))
			return "Rate limit exceeded. Please wait and try again."
		case 401:
			c.log.Error("authentication failed", logger.Error(err))
			return "Authentication failed. Check your API key."
		}
	}
	c.log.Error("model request failed", logger.Error(err))
	return fmt.Sprintf("Error communicating with LLM: %v", err)
}

func tail(messages []openai.ChatCompletionMessage, n int) []openai.ChatCompletionMessage {
	if len(messages) <= n {
		return messages
	}
	return messages[len(messages)-n:]
}
