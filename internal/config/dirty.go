package config

import "github.com/charmbracelet/log"

// MarkDirty flags the Config as diverging from its stored copy.
func (c *Config) MarkDirty() {
	c.mu.Lock()
	c.needToSave = true
	c.mu.Unlock()
}

// NeedsSave reports whether there are changes not yet written.
func (c *Config) NeedsSave() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.needToSave
}

// Save writes the Config to path. On success the dirty flag is cleared.
// A failure is logged and otherwise absorbed: the flag stays set so the
// next Save or SaveIfDirty retries.
func (c *Config) Save(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saveLocked(path)
}

// SaveIfDirty is Save when there are unsaved changes and a no-op otherwise.
func (c *Config) SaveIfDirty(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.needToSave {
		return
	}
	c.saveLocked(path)
}

func (c *Config) saveLocked(path string) {
	if err := writeLocked(c, path); err != nil {
		log.Warn("config not saved, will retry on next save", "path", path, "err", err)
		return
	}
	c.needToSave = false
	log.Debug("config saved", "path", path)
}
