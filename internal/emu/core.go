// Package emu provides the software emulation core that receives applied
// settings.
package emu

import (
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/nibzard/nesconf/internal/config"
)

// Core is a config.Host that keeps the most recently applied value of each
// section. It is safe for concurrent use.
type Core struct {
	mu sync.Mutex

	input       config.InputInfo
	video       config.VideoInfo
	audio       config.AudioInfo
	preferences config.PreferenceInfo
	emulation   config.EmulationInfo
	model       config.NesModel

	applied map[string]int
}

var _ config.Host = (*Core)(nil)

// NewCore returns a Core with nothing applied yet.
func NewCore() *Core {
	return &Core{applied: make(map[string]int)}
}

func (c *Core) mark(section string) {
	if c.applied == nil {
		c.applied = make(map[string]int)
	}
	c.applied[section]++
}

// SetInputConfig installs controller mappings.
func (c *Core) SetInputConfig(in config.InputInfo) error {
	if len(in.Controllers) > 4 {
		return fmt.Errorf("%d controllers configured, at most 4 ports", len(in.Controllers))
	}
	in.Controllers = slices.Clone(in.Controllers)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = in
	c.mark("input")
	log.Debug("input applied", "controllers", len(in.Controllers), "four_score", in.UseFourScore)
	return nil
}

// SetVideoConfig installs the video settings.
func (c *Core) SetVideoConfig(v config.VideoInfo) error {
	if v.VideoScale == 0 {
		return fmt.Errorf("video scale must be at least 1")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.video = v
	c.mark("video")
	log.Debug("video applied", "scale", v.VideoScale, "filter", v.VideoFilter)
	return nil
}

// SetAudioConfig installs the audio settings.
func (c *Core) SetAudioConfig(a config.AudioInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.audio = a
	c.mark("audio")
	log.Debug("audio applied", "enabled", a.EnableAudio, "sample_rate", a.SampleRate, "volume", a.MasterVolume)
	return nil
}

// SetPreferences installs front-end preferences.
func (c *Core) SetPreferences(p config.PreferenceInfo) error {
	p.ShortcutKeys = slices.Clone(p.ShortcutKeys)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.preferences = p
	c.mark("preferences")
	log.Debug("preferences applied", "shortcuts", len(p.ShortcutKeys), "auto_save", p.AutoSave)
	return nil
}

// SetEmulationConfig installs timing and PPU settings.
func (c *Core) SetEmulationConfig(e config.EmulationInfo) error {
	if e.OverclockRate == 0 {
		return fmt.Errorf("overclock rate must be positive")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.emulation = e
	c.mark("emulation")
	log.Debug("emulation applied", "speed", e.EmulationSpeed, "overclock", e.OverclockRate)
	return nil
}

// SetNesModel selects the console region.
func (c *Core) SetNesModel(m config.NesModel) error {
	if _, err := m.MarshalText(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = m
	c.mark("region")
	log.Debug("nes model applied", "model", m)
	return nil
}

// Snapshot is a copy of everything a Core has received.
type Snapshot struct {
	Input       config.InputInfo
	Video       config.VideoInfo
	Audio       config.AudioInfo
	Preferences config.PreferenceInfo
	Emulation   config.EmulationInfo
	Model       config.NesModel
}

// Snapshot returns the last applied values.
func (c *Core) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Input:       c.input,
		Video:       c.video,
		Audio:       c.audio,
		Preferences: c.preferences,
		Emulation:   c.emulation,
		Model:       c.model,
	}
	s.Input.Controllers = slices.Clone(s.Input.Controllers)
	s.Preferences.ShortcutKeys = slices.Clone(s.Preferences.ShortcutKeys)
	return s
}

// Applied reports how many times a section has been applied. Sections are
// named input, video, audio, preferences, emulation and region.
func (c *Core) Applied(section string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.applied[section]
}
