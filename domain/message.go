// Package domain defines the core domain models for the chat gateway.
package domain

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// ContentPart is a single element of structured assistant content. Some
// models return a list of parts instead of a plain string; the first part's
// text is taken as the effective message text.
type ContentPart struct {
	Type string `json:"type,omitempty"`
	Text string `json:"text"`
}

// Message is a single conversational turn. It is immutable once constructed:
// either Content or Parts carries the text, resolved through Text().
type Message struct {
	Role       Role          `json:"role"`
	Content    string        `json:"content"`
	Parts      []ContentPart `json:"parts,omitempty"`
	ToolCalls  []ToolCall    `json:"tool_calls,omitempty"`
	ToolCallID string        `json:"tool_call_id,omitempty"`
}

// Text returns the effective text of the message, normalizing the two
// content shapes at one place instead of ad hoc checks in extraction logic.
func (m Message) Text() string {
	if m.Content != "" {
		return m.Content
	}
	if len(m.Parts) > 0 {
		return m.Parts[0].Text
	}
	return ""
}

// Conversation is an ordered message sequence, oldest first. It is owned by
// a single request's processing lifetime and never shared across requests.
type Conversation []Message

// ToolCall is a tool invocation emitted by the model on an assistant
// message. Collected by the extraction layer, never interpreted there.
type ToolCall struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// NewToolResult creates a tool-result message answering the given call.
func NewToolResult(toolCallID, content string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallID: toolCallID}
}
