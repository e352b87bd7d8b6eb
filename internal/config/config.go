package config

import (
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/nibzard/nesconf/internal/recent"
)

// CurrentVersion is the version tag written into new configurations.
const CurrentVersion = "0.5.2"

// Settings is the persisted part of a Config. Every exported field is
// written to disk.
type Settings struct {
	Version          string               `toml:"version" json:"version"`
	DisableAllCheats bool                 `toml:"disable_all_cheats" json:"disable_all_cheats"`
	Region           NesModel             `toml:"region" json:"region"`
	Preferences      PreferenceInfo       `toml:"preferences" json:"preferences"`
	Audio            AudioInfo            `toml:"audio" json:"audio"`
	Video            VideoInfo            `toml:"video" json:"video"`
	Input            InputInfo            `toml:"input" json:"input"`
	Emulation        EmulationInfo        `toml:"emulation" json:"emulation"`
	ClientConnection ClientConnectionInfo `toml:"client_connection" json:"client_connection"`
	Server           ServerInfo           `toml:"server" json:"server"`
	Profile          PlayerProfile        `toml:"profile" json:"profile"`
	Debug            DebugInfo            `toml:"debug" json:"debug"`
	RecentFiles      recent.List          `toml:"recent_files" json:"recent_files"`
	VsConfig         []VsConfigInfo       `toml:"vs_config" json:"vs_config"`
	Cheats           []CheatInfo          `toml:"cheats" json:"cheats"`
}

// DefaultSettings returns the constructor defaults for every section.
func DefaultSettings() Settings {
	return Settings{
		Version:     CurrentVersion,
		Region:      ModelAuto,
		Preferences: defaultPreferences(),
		Audio:       defaultAudio(),
		Video:       defaultVideo(),
		Input:       defaultInput(),
		Emulation:   defaultEmulation(),
		ClientConnection: ClientConnectionInfo{
			Host: "localhost",
			Port: 8888,
		},
		Server: ServerInfo{
			Name:            "Default",
			Port:            8888,
			MaxPlayers:      4,
			AllowSpectators: true,
		},
		Profile:     PlayerProfile{PlayerName: "NewPlayer"},
		Debug:       defaultDebug(),
		RecentFiles: recent.List{},
		VsConfig:    []VsConfigInfo{},
		Cheats:      []CheatInfo{},
	}
}

// normalize replaces nil slices with empty ones so that a value survives
// an encode/decode round trip unchanged, and drops recent files whose key
// repeats an earlier entry.
func (s *Settings) normalize() {
	s.RecentFiles = s.RecentFiles.Unique()
	if s.VsConfig == nil {
		s.VsConfig = []VsConfigInfo{}
	}
	if s.Cheats == nil {
		s.Cheats = []CheatInfo{}
	}
	if s.Input.Controllers == nil {
		s.Input.Controllers = []ControllerInfo{}
	}
	if s.Preferences.ShortcutKeys == nil {
		s.Preferences.ShortcutKeys = []ShortcutKey{}
	}
	if s.Debug.WatchValues == nil {
		s.Debug.WatchValues = []string{}
	}
}

// Config is the configuration aggregate: the persisted settings plus the
// process-local dirty flag.
//
// A Config is meant to have one owner. The embedded mutex still serializes
// every mutation method against Save, SaveIfDirty and Clone so that a write
// never captures a half-applied change. Direct writes to the exported
// fields bypass it; use Update when another goroutine may be saving.
type Config struct {
	Settings

	mu         sync.Mutex
	needToSave bool
	defaulted  bool
	onChange   func()
}

// New returns a Config holding constructor defaults. It is clean.
func New() *Config {
	return &Config{Settings: DefaultSettings()}
}

// Defaulted reports whether the Config was produced by Load falling back
// to defaults.
func (c *Config) Defaulted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.defaulted
}

// OnChange sets the function AddRecentFile calls after updating the list.
// It runs without the Config lock held. Clones do not inherit it.
func (c *Config) OnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// AddRecentFile moves the file to the front of the recent list, marks the
// Config dirty and signals the change hook. An entry that could not be
// stored (see recent.Item.Validate) is logged and ignored.
func (c *Config) AddRecentFile(path, romName string, archiveIndex int) {
	item := recent.Item{
		Path:         path,
		RomName:      strings.ToValidUTF8(romName, "\uFFFD"),
		ArchiveIndex: archiveIndex,
	}
	if err := item.Validate(); err != nil {
		log.Warn("recent file not added", "err", err)
		return
	}

	c.mu.Lock()
	c.RecentFiles.Add(item)
	c.needToSave = true
	notify := c.onChange
	c.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// Update runs fn under the Config lock and marks the Config dirty.
// fn must not call methods on the Config.
func (c *Config) Update(fn func(s *Settings)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.Settings)
	c.needToSave = true
}

// InitializeDefaults resets the sections that have first-run defaults:
// Input (controller mappings) and Preferences (shortcut keys). All other
// sections keep their current values.
func (c *Config) InitializeDefaults() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Input.InitializeDefaults()
	c.Preferences.InitializeDefaults()
	c.needToSave = true
}

// RecentItems returns a copy of the recent-file list.
func (c *Config) RecentItems() recent.List {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append(recent.List{}, c.RecentFiles...)
}
