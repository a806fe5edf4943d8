package detect

import (
	"context"
	"sync"

	"GoalWatcher/internal/ports"
)

// MemoryCache is the process-local last-seen score map. It starts empty and
// is lost on restart.
type MemoryCache struct {
	mu     sync.Mutex
	scores map[string]string
}

var _ ports.ScoreCache = (*MemoryCache)(nil)

// NewMemoryCache returns an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{scores: map[string]string{}}
}

func (c *MemoryCache) Get(_ context.Context, matchID string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	score, ok := c.scores[matchID]
	return score, ok, nil
}

func (c *MemoryCache) Set(_ context.Context, matchID, score string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scores[matchID] = score
	return nil
}

// Len reports how many matches have been seen.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.scores)
}
