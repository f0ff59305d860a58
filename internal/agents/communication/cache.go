package communication

import (
	"sync"

	"go-plandy/pkg/models"
)

const defaultHistoryLimit = 50

// HistoryCache keeps a bounded per-user conversation history so replies stay
// coherent across separate pipeline runs. When a user's history exceeds the
// limit the oldest entries are dropped.
type HistoryCache struct {
	mu     sync.Mutex
	byUser map[int64][]models.Message
	limit  int
}

func NewHistoryCache() *HistoryCache {
	return &HistoryCache{
		byUser: make(map[int64][]models.Message),
		limit:  defaultHistoryLimit,
	}
}

// Append records messages for a user, evicting the oldest past the limit.
func (c *HistoryCache) Append(userID int64, msgs ...models.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	history := append(c.byUser[userID], msgs...)
	if over := len(history) - c.limit; over > 0 {
		history = history[over:]
	}
	c.byUser[userID] = history
}

// History returns a copy of the user's recorded conversation.
func (c *HistoryCache) History(userID int64) []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	history := c.byUser[userID]
	out := make([]models.Message, len(history))
	copy(out, history)
	return out
}

// Len reports how many messages are recorded for a user.
func (c *HistoryCache) Len(userID int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.byUser[userID])
}
