package runs

import (
	"sync"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Cache maps run IDs to their actor PIDs so status requests can find the
// right actor after the spawning HTTP request has returned.
type Cache struct {
	mu   sync.RWMutex
	pids map[uuid.UUID]*actor.PID
}

func NewCache() *Cache {
	return &Cache{pids: make(map[uuid.UUID]*actor.PID)}
}

func (c *Cache) Put(id uuid.UUID, pid *actor.PID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pids[id] = pid
}

func (c *Cache) Get(id uuid.UUID) (*actor.PID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	pid, ok := c.pids[id]
	return pid, ok
}

func (c *Cache) Delete(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pids, id)
}
