package domain

import "time"

// MessageID is unique within a session and increases with creation time.
type MessageID int64

// ChatMessage is immutable once created; deletion removes it from the log.
// Role is the author's role at send time, not live-linked.
type ChatMessage struct {
	ID        MessageID     `json:"id"`
	AuthorID  ParticipantID `json:"authorId"`
	Username  string        `json:"username"`
	Role      Role          `json:"role"`
	Text      string        `json:"text"`
	Timestamp time.Time     `json:"timestamp"`
}
