package llm

import (
	"context"
	"fmt"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
	"github.com/openai/openai-go/v3/shared"

	"github.com/saralabs/sara-agent/internal/domain"
)

// OpenAIClient implements domain.LLMClient against the OpenAI chat
// completions API.
type OpenAIClient struct {
	client openaigo.Client
	model  string
}

// NewOpenAIClient builds a client for the given model. baseURL is optional
// and overrides the default endpoint (useful for proxies and compatible
// providers).
func NewOpenAIClient(apiKey, model, baseURL string) *OpenAIClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIClient{
		client: openaigo.NewClient(opts...),
		model:  model,
	}
}

// Complete sends one chat completion request and normalizes the response
// into the domain shape: assistant text plus any requested tool calls.
func (c *OpenAIClient) Complete(ctx context.Context, messages []domain.ChatMessage, tools []domain.ToolDefinition) (*domain.Completion, error) {
	params := openaigo.ChatCompletionNewParams{
		Model:    openaigo.ChatModel(c.model),
		Messages: toMessageParams(messages),
	}
	if len(tools) > 0 {
		params.Tools = toToolParams(tools)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	msg := resp.Choices[0].Message
	completion := &domain.Completion{Text: msg.Content}
	for _, tc := range msg.ToolCalls {
		if tc.Type != "function" {
			continue
		}
		call := tc.AsFunction()
		completion.ToolCalls = append(completion.ToolCalls, domain.ToolCall{
			ID:        tc.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}
	return completion, nil
}

func toMessageParams(messages []domain.ChatMessage) []openaigo.ChatCompletionMessageParamUnion {
	out := make([]openaigo.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case domain.ChatRoleSystem:
			out = append(out, openaigo.SystemMessage(m.Content))
		case domain.ChatRoleAssistant:
			out = append(out, openaigo.AssistantMessage(m.Content))
		default:
			out = append(out, openaigo.UserMessage(m.Content))
		}
	}
	return out
}

func toToolParams(tools []domain.ToolDefinition) []openaigo.ChatCompletionToolUnionParam {
	out := make([]openaigo.ChatCompletionToolUnionParam, 0, len(tools))
	for _, t := range tools {
		out = append(out, openaigo.ChatCompletionFunctionTool(shared.FunctionDefinitionParam{
			Name:        t.Name,
			Description: param.NewOpt(t.Description),
			Parameters:  shared.FunctionParameters(t.Parameters),
		}))
	}
	return out
}
