package signal

import (
	"sync"
	"time"

	"github.com/dkeye/Classroom/internal/domain"
)

// ChatRateLimiter is a sliding-window limiter on chat traffic. Over-limit
// messages are dropped silently, same as any other invalid action.
type ChatRateLimiter struct {
	mu       sync.Mutex
	history  map[domain.ParticipantID][]time.Time
	limit    int
	interval time.Duration
}

func NewChatRateLimiter(limit int, interval time.Duration) *ChatRateLimiter {
	return &ChatRateLimiter{
		history:  make(map[domain.ParticipantID][]time.Time),
		limit:    limit,
		interval: interval,
	}
}

func (rl *ChatRateLimiter) Allow(id domain.ParticipantID) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.interval)

	attempts := rl.history[id]
	fresh := make([]time.Time, 0, len(attempts))
	for _, t := range attempts {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= rl.limit {
		rl.history[id] = fresh
		return false
	}

	fresh = append(fresh, now)
	rl.history[id] = fresh
	return true
}

// Forget drops a participant's window when they leave the session.
func (rl *ChatRateLimiter) Forget(id domain.ParticipantID) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.history, id)
}

// Reset drops every window; used when the whole session ends.
func (rl *ChatRateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.history = make(map[domain.ParticipantID][]time.Time)
}
