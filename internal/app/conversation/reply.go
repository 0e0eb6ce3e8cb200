package conversation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/saralabs/sara-agent/internal/app/tools"
	"github.com/saralabs/sara-agent/internal/domain"
	"github.com/saralabs/sara-agent/internal/observability"
)

// Orchestrator runs the two-pass reply flow: one completion with the tool
// catalogue, sequential tool execution, then a second completion that turns
// the raw tool results into user-facing prose.
type Orchestrator struct {
	llm        domain.LLMClient
	dispatcher *tools.Dispatcher
}

func NewOrchestrator(llm domain.LLMClient, dispatcher *tools.Dispatcher) *Orchestrator {
	return &Orchestrator{
		llm:        llm,
		dispatcher: dispatcher,
	}
}

type toolResultEntry struct {
	ToolName string `json:"toolName"`
	Result   any    `json:"result,omitempty"`
	Error    string `json:"error,omitempty"`
}

// GenerateReply produces one assistant turn for the given user text.
// Individual tool failures are folded into the tool results and never abort
// the turn; only completion-endpoint failures propagate as errors.
func (o *Orchestrator) GenerateReply(
	ctx context.Context,
	text string,
	profile domain.LLMUserProfile,
	history []*domain.Message,
	tctx tools.Context,
) (string, error) {
	log := observability.LoggerFromContext(ctx).With("user_id", tctx.UserID)

	systemMsg := buildSystemMessage(tctx.Mode)
	contextMsg, err := buildContextMessage(profile, history)
	if err != nil {
		return "", err
	}
	userMsg := domain.ChatMessage{Role: domain.ChatRoleUser, Content: text}

	initial, err := o.llm.Complete(ctx, []domain.ChatMessage{systemMsg, contextMsg, userMsg}, tools.Catalogue())
	if err != nil {
		return "", fmt.Errorf("first completion: %w", err)
	}

	if len(initial.ToolCalls) == 0 {
		if initial.Text == "" {
			return fallbackReply, nil
		}
		return initial.Text, nil
	}

	log.Info("executing tool calls", "count", len(initial.ToolCalls))

	// Tool calls run in emission order: later calls may depend on the side
	// effects of earlier ones.
	results := make([]toolResultEntry, 0, len(initial.ToolCalls))
	for _, call := range initial.ToolCalls {
		result, err := o.dispatcher.Execute(ctx, call.Name, call.Arguments, tctx)
		if err != nil {
			log.Warn("tool call failed", "tool", call.Name, "error", err)
			results = append(results, toolResultEntry{ToolName: call.Name, Error: err.Error()})
			continue
		}
		results = append(results, toolResultEntry{ToolName: call.Name, Result: result})
	}

	resultsJSON, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serializing tool results: %w", err)
	}

	assistantText := initial.Text
	if assistantText == "" {
		assistantText = "I have performed the requested tool actions. Summarize what changed for the user."
	}

	followUp, err := o.llm.Complete(ctx, []domain.ChatMessage{
		systemMsg,
		contextMsg,
		userMsg,
		{Role: domain.ChatRoleAssistant, Content: assistantText},
		{
			Role: domain.ChatRoleUser,
			Content: "Here are the raw tool results, which you should summarize in natural language for the user:\nTOOL_RESULTS:\n" +
				string(resultsJSON),
		},
	}, nil)
	if err != nil {
		return "", fmt.Errorf("second completion: %w", err)
	}

	if followUp.Text == "" {
		if initial.Text == "" {
			return fallbackReply, nil
		}
		return initial.Text, nil
	}
	return followUp.Text, nil
}
