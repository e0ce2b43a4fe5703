// Package chat implements the chat-turn orchestration: request validation,
// history assembly, a single agent invocation and response extraction.
package chat

import (
	"context"
	"log"
	"time"

	"github.com/vietharvest/agrichat/domain"
	"github.com/vietharvest/agrichat/store"
)

const historyLimit = 50

// Invoker is the opaque agent operation: it takes a conversation and
// returns the same conversation extended with the turn's messages, or an
// error.
type Invoker interface {
	Invoke(ctx context.Context, conv domain.Conversation) (domain.Conversation, error)
}

// Service orchestrates one chat turn per request. It holds no per-request
// state; the history store is the only shared resource and is optional.
type Service struct {
	invoker      Invoker
	history      store.Store
	systemPrompt string
	agentTimeout time.Duration
}

// New creates a chat service. historyStore may be nil when no persistence
// is configured; systemPrompt may be empty to disable the system message.
func New(invoker Invoker, historyStore store.Store, systemPrompt string, agentTimeout time.Duration) *Service {
	return &Service{
		invoker:      invoker,
		history:      historyStore,
		systemPrompt: systemPrompt,
		agentTimeout: agentTimeout,
	}
}

// Assemble builds the conversation for one turn: the system message (when
// configured), then either the caller's inline prior turns or the persisted
// session history, then the new user message. Order is preserved; history
// comes back oldest first.
func (s *Service) Assemble(ctx context.Context, req *domain.ChatRequest) domain.Conversation {
	var conv domain.Conversation
	if s.systemPrompt != "" {
		conv = append(conv, domain.NewSystemMessage(buildSystemPrompt(s.systemPrompt, req.UserID)))
	}

	if len(req.Messages) > 0 {
		for _, m := range req.Messages {
			if m.Role == string(domain.RoleUser) {
				conv = append(conv, domain.NewUserMessage(m.Content))
			} else {
				conv = append(conv, domain.NewAssistantMessage(m.Content))
			}
		}
		return conv
	}

	if req.SessionID != "" && s.history != nil {
		history, err := s.history.GetMessages(ctx, req.SessionID, historyLimit)
		if err != nil {
			// Degrade to an empty history rather than failing the turn.
			log.Printf("ERROR: failed to load history for session %s: %v", req.SessionID, err)
			history = nil
		}
		for _, m := range history {
			if m.Sender == string(domain.RoleUser) {
				conv = append(conv, domain.NewUserMessage(m.Content))
			} else {
				conv = append(conv, domain.NewAssistantMessage(m.Content))
			}
		}
	}

	return append(conv, domain.NewUserMessage(req.Message))
}
