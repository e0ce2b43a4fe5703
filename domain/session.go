package domain

import "time"

// Session groups the persisted turns of one caller-supplied session id.
type Session struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// StoredMessage is one persisted chat turn. Sender is "user" for caller
// turns; anything else is treated as the assistant when history is replayed.
type StoredMessage struct {
	MessageID string    `json:"message_id"`
	SessionID string    `json:"session_id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
