package catalogue

import (
	"sync"

	"github.com/lushplayer/catalogue/internal/models"
)

// Cache holds the most recently fetched programme lists, keyed by media type
// and by channel tag. It lives for the process lifetime, has no eviction,
// and only ever holds the result of the last successful fetch per key: a
// failed fetch never touches it. Reads never trigger fetches; that
// orchestration belongs to the client.
type Cache struct {
	mu        sync.RWMutex
	byMedia   map[models.Media][]models.Programme
	byChannel map[string][]models.Programme
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		byMedia:   make(map[models.Media][]models.Programme),
		byChannel: make(map[string][]models.Programme),
	}
}

// ProgrammesByMedia returns the cached list for a media type. The returned
// slice is shared and must be treated as read-only.
func (c *Cache) ProgrammesByMedia(media models.Media) ([]models.Programme, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	programmes, ok := c.byMedia[media]
	return programmes, ok
}

// ProgrammesByChannel returns the cached list for a channel tag.
func (c *Cache) ProgrammesByChannel(channelTag string) ([]models.Programme, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	programmes, ok := c.byChannel[channelTag]
	return programmes, ok
}

// SetProgrammesByMedia replaces the cached list for a media type. Concurrent
// writers to the same key resolve last-writer-wins.
func (c *Cache) SetProgrammesByMedia(media models.Media, programmes []models.Programme) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.byMedia[media] = programmes
}

// SetProgrammesByChannel replaces the cached list for a channel tag.
func (c *Cache) SetProgrammesByChannel(channelTag string, programmes []models.Programme) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.byChannel[channelTag] = programmes
}
