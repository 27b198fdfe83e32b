package core

import (
	"sync"
	"time"

	"github.com/dkeye/Classroom/internal/domain"
)

// ChatLog is the transcript of the current session. Append-only except for
// admin deletion; cleared entirely on session reset.
type ChatLog struct {
	mu      sync.RWMutex
	entries []domain.ChatMessage
	lastID  domain.MessageID
}

func NewChatLog() *ChatLog {
	return &ChatLog{}
}

// Append records a message authored by the given participant. The id comes
// from the creation time, bumped when two messages land on the same tick.
func (l *ChatLog) Append(author domain.Participant, text string) domain.ChatMessage {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	id := domain.MessageID(now.UnixMilli())
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id

	msg := domain.ChatMessage{
		ID:        id,
		AuthorID:  author.ID,
		Username:  author.Name,
		Role:      author.Role,
		Text:      text,
		Timestamp: now,
	}
	l.entries = append(l.entries, msg)
	return msg
}

// Delete removes the entry with the matching id, leaving the rest untouched.
func (l *ChatLog) Delete(id domain.MessageID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.entries {
		if e.ID == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (l *ChatLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

func (l *ChatLog) Snapshot() []domain.ChatMessage {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.ChatMessage, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *ChatLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}
