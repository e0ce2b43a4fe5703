package chat

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/vietharvest/agrichat/domain"
)

// RunTurn runs one chat turn: assemble, invoke the agent once, extract the
// reply. It never returns an error; any agent failure (including a deadline
// breach) degrades to a response carrying an error-tagged message.
func (s *Service) RunTurn(ctx context.Context, req *domain.ChatRequest) *domain.ChatResponse {
	conv := s.Assemble(ctx, req)

	invokeCtx := domain.WithCallerID(ctx, req.UserID)
	if s.agentTimeout > 0 {
		var cancel context.CancelFunc
		invokeCtx, cancel = context.WithTimeout(invokeCtx, s.agentTimeout)
		defer cancel()
	}

	extended, err := s.invoker.Invoke(invokeCtx, conv)
	if err != nil {
		log.Printf("ERROR: agent invocation failed: %v", err)
		return &domain.ChatResponse{AssistantMessage: "AI error: " + err.Error()}
	}

	resp := Extract(extended)
	s.persistTurn(ctx, req, resp)
	return resp
}

// Extract pulls the final answer and the turn's tool calls out of the
// extended conversation. The final answer is the newest assistant message
// with non-empty content; empty assistant messages (tool-call carriers) are
// skipped. Tool calls are concatenated in emission order.
func Extract(conv domain.Conversation) *domain.ChatResponse {
	final := ""
	for i := len(conv) - 1; i >= 0; i-- {
		if conv[i].Role != domain.RoleAssistant {
			continue
		}
		if text := conv[i].Text(); text != "" {
			final = text
			break
		}
	}

	var toolCalls []domain.ToolCall
	for _, msg := range conv {
		toolCalls = append(toolCalls, msg.ToolCalls...)
	}

	return &domain.ChatResponse{
		AssistantMessage: final,
		ToolCalls:        toolCalls,
	}
}

// persistTurn saves the new user turn and the assistant answer when the
// request is session-based. Storage failures never block the response.
func (s *Service) persistTurn(ctx context.Context, req *domain.ChatRequest, resp *domain.ChatResponse) {
	if s.history == nil || req.SessionID == "" || len(req.Messages) > 0 {
		return
	}

	if _, err := s.history.GetOrCreateSession(ctx, req.SessionID, req.UserID); err != nil {
		log.Printf("ERROR: failed to get/create session %s: %v", req.SessionID, err)
		return
	}

	now := time.Now()
	userMsg := &domain.StoredMessage{
		MessageID: "msg_" + uuid.New().String()[:8],
		SessionID: req.SessionID,
		Sender:    string(domain.RoleUser),
		Content:   req.Message,
		CreatedAt: now,
	}
	if err := s.history.CreateMessage(ctx, userMsg); err != nil {
		log.Printf("ERROR: failed to save user message: %v", err)
	}

	if resp.AssistantMessage == "" {
		return
	}
	botMsg := &domain.StoredMessage{
		MessageID: "msg_" + uuid.New().String()[:8],
		SessionID: req.SessionID,
		Sender:    "bot",
		Content:   resp.AssistantMessage,
		CreatedAt: now.Add(time.Millisecond),
	}
	if err := s.history.CreateMessage(ctx, botMsg); err != nil {
		log.Printf("ERROR: failed to save assistant message: %v", err)
	}
}
