package config

import (
	"errors"
	"fmt"
)

// Host receives settings when a Config is applied. The emulation core and
// platform layers implement it.
type Host interface {
	SetInputConfig(InputInfo) error
	SetVideoConfig(VideoInfo) error
	SetAudioConfig(AudioInfo) error
	SetPreferences(PreferenceInfo) error
	SetEmulationConfig(EmulationInfo) error
	SetNesModel(NesModel) error
}

// ApplyConfig pushes each section to the host in a fixed order: input,
// video, audio, preferences, emulation, then the region. Every step runs
// even when an earlier one fails; the failures are joined.
func (c *Config) ApplyConfig(h Host) error {
	c.mu.Lock()
	s := c.Settings
	c.mu.Unlock()

	steps := []struct {
		name  string
		apply func() error
	}{
		{"input", func() error { return s.Input.ApplyConfig(h) }},
		{"video", func() error { return s.Video.ApplyConfig(h) }},
		{"audio", func() error { return s.Audio.ApplyConfig(h) }},
		{"preferences", func() error { return s.Preferences.ApplyConfig(h) }},
		{"emulation", func() error { return s.Emulation.ApplyConfig(h) }},
		{"region", func() error { return h.SetNesModel(s.Region) }},
	}

	var errs []error
	for _, step := range steps {
		if err := step.apply(); err != nil {
			errs = append(errs, fmt.Errorf("apply %s: %w", step.name, err))
		}
	}
	return errors.Join(errs...)
}
