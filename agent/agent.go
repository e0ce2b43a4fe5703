// Package agent implements the tool-calling agent loop against an
// OpenAI-compatible chat-completions API.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/vietharvest/agrichat/domain"
	"github.com/vietharvest/agrichat/policy"
	"github.com/vietharvest/agrichat/tools"
)

const defaultMaxRounds = 8

// Config holds the agent configuration.
type Config struct {
	BaseURL   string
	APIKey    string
	Model     string
	MaxRounds int
}

// Agent runs conversations against the model, executing tool calls through
// the registry until the model produces a final answer.
type Agent struct {
	client    openai.Client
	model     string
	registry  *tools.Registry
	policy    *policy.Engine
	maxRounds int
}

// New creates an agent bound to a tool registry and policy engine.
func New(cfg Config, registry *tools.Registry, policyEngine *policy.Engine) *Agent {
	maxRounds := cfg.MaxRounds
	if maxRounds <= 0 {
		maxRounds = defaultMaxRounds
	}
	client := openai.NewClient(
		option.WithBaseURL(cfg.BaseURL),
		option.WithAPIKey(cfg.APIKey),
	)
	return &Agent{
		client:    client,
		model:     cfg.Model,
		registry:  registry,
		policy:    policyEngine,
		maxRounds: maxRounds,
	}
}

// Invoke submits the conversation to the model and runs the tool loop. It
// returns the conversation extended with every assistant and tool-result
// message produced during the turn. The returned conversation is valid even
// when an error is returned; it holds whatever was produced before the
// failure.
func (a *Agent) Invoke(ctx context.Context, conv domain.Conversation) (domain.Conversation, error) {
	out := make(domain.Conversation, len(conv), len(conv)+4)
	copy(out, conv)

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(a.model),
		Messages: toMessageParams(conv),
	}
	if defs := a.registry.Definitions(); len(defs) > 0 {
		params.Tools = toToolParams(defs)
	}

	for round := 0; round < a.maxRounds; round++ {
		resp, err := a.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return out, fmt.Errorf("chat completion failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return out, fmt.Errorf("model returned no choices")
		}
		msg := resp.Choices[0].Message

		out = append(out, domain.Message{
			Role:      domain.RoleAssistant,
			Content:   msg.Content,
			ToolCalls: convertToolCalls(msg.ToolCalls),
		})
		params.Messages = append(params.Messages, msg.ToParam())

		if len(msg.ToolCalls) == 0 {
			return out, nil
		}

		for _, tc := range msg.ToolCalls {
			result := a.runTool(ctx, tc.Function.Name, tc.Function.Arguments)
			out = append(out, domain.NewToolResult(tc.ID, result))
			params.Messages = append(params.Messages, openai.ToolMessage(result, tc.ID))
		}
	}

	return out, fmt.Errorf("tool loop exceeded %d rounds", a.maxRounds)
}

// runTool evaluates the policy and executes one tool call. Failures are
// converted to content returned to the model, never propagated: the model
// is expected to react to them in natural language.
func (a *Agent) runTool(ctx context.Context, name, rawArgs string) string {
	args := parseToolArguments(rawArgs)

	// The user id fed to the policy comes from the request context, never
	// from the tool arguments: the model writes those and could claim any
	// identity it likes.
	decision, err := a.policy.Evaluate(ctx, policy.Input{
		ToolName: name,
		Args:     args,
		UserID:   domain.CallerID(ctx),
	})
	if err != nil {
		log.Printf("ERROR: policy evaluation for %s failed: %v", name, err)
		return errorContent(fmt.Errorf("policy evaluation failed"))
	}
	if decision != "allow" {
		log.Printf("WARN: tool %s blocked by policy", name)
		return errorContent(fmt.Errorf("tool call blocked by policy"))
	}

	payload, err := a.registry.Execute(ctx, name, json.RawMessage(rawArgs))
	if err != nil {
		return fmt.Sprintf("Tool error: Please check your input and try again. (%v)", err)
	}
	return string(payload)
}

func errorContent(err error) string {
	payload, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(payload)
}

// parseToolArguments parses the model's JSON argument string into a map.
func parseToolArguments(argsJSON string) map[string]any {
	var args map[string]any
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return make(map[string]any)
	}
	return args
}

// toMessageParams converts the conversation to SDK message params.
func toMessageParams(conv domain.Conversation) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(conv))
	for _, msg := range conv {
		switch msg.Role {
		case domain.RoleSystem:
			result = append(result, openai.SystemMessage(msg.Text()))
		case domain.RoleAssistant:
			result = append(result, openai.AssistantMessage(msg.Text()))
		case domain.RoleTool:
			result = append(result, openai.ToolMessage(msg.Text(), msg.ToolCallID))
		default:
			result = append(result, openai.UserMessage(msg.Text()))
		}
	}
	return result
}

// toToolParams converts registry definitions to SDK function tools.
func toToolParams(defs []tools.Definition) []openai.ChatCompletionToolUnionParam {
	result := make([]openai.ChatCompletionToolUnionParam, len(defs))
	for i, def := range defs {
		result[i] = openai.ChatCompletionFunctionTool(
			openai.FunctionDefinitionParam{
				Name:        def.Name,
				Description: openai.String(def.Description),
				Parameters:  openai.FunctionParameters(def.Parameters),
			},
		)
	}
	return result
}

// convertToolCalls converts SDK tool calls to domain tool calls.
func convertToolCalls(calls []openai.ChatCompletionMessageToolCallUnion) []domain.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	result := make([]domain.ToolCall, len(calls))
	for i, call := range calls {
		result[i] = domain.ToolCall{
			ID:   call.ID,
			Name: call.Function.Name,
			Args: parseToolArguments(call.Function.Arguments),
		}
	}
	return result
}
