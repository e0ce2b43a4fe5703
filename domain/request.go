package domain

import "fmt"

// InputMessage is one prior turn supplied inline by the caller.
type InputMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the inbound payload for POST /invoke. Either Message or
// Messages must be present; when both are set the inline Messages list wins.
type ChatRequest struct {
	Message   string         `json:"message,omitempty"`
	Messages  []InputMessage `json:"messages,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
	UserID    string         `json:"user_id,omitempty"`
}

// Validate checks that the request carries at least one non-empty turn.
func (r *ChatRequest) Validate() error {
	if r.Message != "" {
		return nil
	}
	for _, m := range r.Messages {
		if m.Content != "" {
			return nil
		}
	}
	return fmt.Errorf("either message or a non-empty messages list is required")
}

// ChatResponse is the outbound payload for POST /invoke. ToolCalls is null
// when the turn made no tool calls.
type ChatResponse struct {
	AssistantMessage string     `json:"assistant_message"`
	ToolCalls        []ToolCall `json:"tool_calls,omitempty"`
}
