package config

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrUnknownKey is returned by Set for a key that does not name a setting.
var ErrUnknownKey = errors.New("unknown config key")

// Get looks up a setting by dotted key, e.g. "audio.master_volume" or
// "recent_files.0.path". Tables and arrays are returned as JSON.
func (c *Config) Get(key string) (string, bool) {
	c.mu.Lock()
	data, err := json.Marshal(c.Settings)
	c.mu.Unlock()
	if err != nil {
		return "", false
	}

	res := gjson.GetBytes(data, key)
	if !res.Exists() {
		return "", false
	}
	return res.String(), true
}

// Set assigns a setting by dotted key and marks the Config dirty. For
// string settings value is taken literally; for every other kind it must be
// a JSON literal ("42", "true", "[]"). The result must satisfy Schema,
// otherwise the Config is left unchanged.
func (c *Config) Set(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.Marshal(c.Settings)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	current := gjson.GetBytes(data, key)
	if !current.Exists() {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	var updated []byte
	if current.Type == gjson.String {
		updated, err = sjson.SetBytes(data, key, value)
	} else {
		if !gjson.Valid(value) {
			return fmt.Errorf("set %s: %q is not a JSON literal", key, value)
		}
		updated, err = sjson.SetRawBytes(data, key, []byte(value))
	}
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	if err := validateJSON(updated); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	next := DefaultSettings()
	if err := json.Unmarshal(updated, &next); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	next.normalize()

	c.Settings = next
	c.needToSave = true
	return nil
}
