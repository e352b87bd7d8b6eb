package config

import (
	"bytes"
	"fmt"
)

// Clone returns an independent copy made by encoding the Config to memory
// and decoding it into a fresh value. The copy is clean and has no change
// hook. The schema check is skipped, so in-memory values outside the
// schema's ranges still clone.
func (c *Config) Clone() (*Config, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, c); err != nil {
		return nil, fmt.Errorf("clone config: %w", err)
	}
	clone, err := decode(buf.Bytes(), false)
	if err != nil {
		return nil, fmt.Errorf("clone config: %w", err)
	}
	return clone, nil
}
