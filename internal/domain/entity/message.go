package entity

import "time"

// LineMessage is the append-only audit record of every inbound chat
// message. Only the Processed flag is ever mutated; no business logic
// reads these rows back.
type LineMessage struct {
	ID        int64     `json:"id"`
	Type      string    `json:"message_type"`
	Content   string    `json:"message_content"`
	UserID    string    `json:"user_id"`
	GroupID   string    `json:"group_id,omitempty"`
	Processed bool      `json:"processed"`
	CreatedAt time.Time `json:"created_at"`
}
