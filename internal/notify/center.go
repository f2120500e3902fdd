// Package notify keeps the dashboard's in-memory notification list. The
// list is deliberately not persisted; it is bounded by age and count and
// rebuilt from activity on restart if anyone cares.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/minhdang/planboard/internal/models"
)

// Center owns the notification list. Constructed once per process and passed
// to its consumers; there is no package-level state.
type Center struct {
	mu    sync.Mutex
	items []models.Notification
}

// NewCenter creates an empty notification center.
func NewCenter() *Center {
	return &Center{}
}

// Add appends a notification and returns it.
func (c *Center) Add(message, menuID string) models.Notification {
	n := models.Notification{
		ID:        uuid.NewString(),
		Message:   message,
		MenuID:    menuID,
		CreatedAt: time.Now(),
	}
	c.mu.Lock()
	c.items = append(c.items, n)
	c.mu.Unlock()
	return n
}

// List returns notifications newest first, unread before read.
func (c *Center) List() []models.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Notification, 0, len(c.items))
	for i := len(c.items) - 1; i >= 0; i-- {
		if !c.items[i].Read {
			out = append(out, c.items[i])
		}
	}
	for i := len(c.items) - 1; i >= 0; i-- {
		if c.items[i].Read {
			out = append(out, c.items[i])
		}
	}
	return out
}

// MarkRead flags a notification as read. Returns false if the ID is unknown.
func (c *Center) MarkRead(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Read = true
			return true
		}
	}
	return false
}

// Prune removes notifications older than maxAge and trims the list to
// maxCount, oldest first. Zero values disable the respective bound.
// Returns the number removed.
func (c *Center) Prune(maxAge time.Duration, maxCount int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	pruned := 0
	if maxAge > 0 {
		cutoff := time.Now().Add(-maxAge)
		filtered := c.items[:0]
		for _, n := range c.items {
			if n.CreatedAt.After(cutoff) {
				filtered = append(filtered, n)
			} else {
				pruned++
			}
		}
		c.items = filtered
	}
	if maxCount > 0 && len(c.items) > maxCount {
		excess := len(c.items) - maxCount
		c.items = append(c.items[:0], c.items[excess:]...)
		pruned += excess
	}
	return pruned
}

// Len returns the current number of held notifications.
func (c *Center) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
