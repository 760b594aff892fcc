package discord

import "sync"

// channelIDs remembers resolved channel IDs per owner: a guild for its
// announce channel, a user for their DM channel. The zero value is ready.
type channelIDs struct {
	mu  sync.RWMutex
	ids map[string]string
}

// lookup returns the cached channel of owner, calling open on a miss.
// Concurrent misses may both call open; the last answer wins.
func (c *channelIDs) lookup(owner string, open func(owner string) (string, error)) (string, error) {
	c.mu.RLock()
	id, ok := c.ids[owner]
	c.mu.RUnlock()
	if ok {
		return id, nil
	}

	id, err := open(owner)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ids == nil {
		c.ids = make(map[string]string)
	}
	c.ids[owner] = id
	return id, nil
}

func (c *channelIDs) cached(owner string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.ids[owner]
	return ok
}

// forget drops owner so the next lookup resolves the channel again, e.g.
// after it was deleted or the user closed their DMs.
func (c *channelIDs) forget(owner string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.ids, owner)
}
