package config

import (
	"fmt"
	"slices"
	"strings"
)

// NesModel selects the console timing the emulation core runs with.
type NesModel int

const (
	ModelAuto NesModel = iota
	ModelNTSC
	ModelPAL
	ModelDendy
)

var nesModelNames = [...]string{
	ModelAuto:  "auto",
	ModelNTSC:  "ntsc",
	ModelPAL:   "pal",
	ModelDendy: "dendy",
}

func (m NesModel) String() string {
	if m < 0 || int(m) >= len(nesModelNames) {
		return fmt.Sprintf("NesModel(%d)", int(m))
	}
	return nesModelNames[m]
}

// ParseNesModel parses a model name. Matching is case-insensitive.
func ParseNesModel(s string) (NesModel, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range nesModelNames {
		if n == name {
			return NesModel(i), nil
		}
	}
	return ModelAuto, fmt.Errorf("unknown nes model %q, must be one of: %s", s, strings.Join(nesModelNames[:], ", "))
}

// MarshalText encodes the model by name.
func (m NesModel) MarshalText() ([]byte, error) {
	if m < 0 || int(m) >= len(nesModelNames) {
		return nil, fmt.Errorf("invalid nes model %d", int(m))
	}
	return []byte(nesModelNames[m]), nil
}

// UnmarshalText decodes a model name.
func (m *NesModel) UnmarshalText(text []byte) error {
	parsed, err := ParseNesModel(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ShortcutKey binds an emulator action to a key combination.
type ShortcutKey struct {
	Action string `toml:"action" json:"action"`
	Keys   string `toml:"keys" json:"keys"`
}

// PreferenceInfo holds general front-end behaviour.
type PreferenceInfo struct {
	SingleInstance        bool          `toml:"single_instance" json:"single_instance"`
	AutoLoadIpsPatches    bool          `toml:"auto_load_ips_patches" json:"auto_load_ips_patches"`
	AssociateNesFiles     bool          `toml:"associate_nes_files" json:"associate_nes_files"`
	PauseWhenInBackground bool          `toml:"pause_when_in_background" json:"pause_when_in_background"`
	AllowBackgroundInput  bool          `toml:"allow_background_input" json:"allow_background_input"`
	AutoSave              bool          `toml:"auto_save" json:"auto_save"`
	AutoSaveDelayMinutes  uint32        `toml:"auto_save_delay_minutes" json:"auto_save_delay_minutes"`
	DisplayLanguage       string        `toml:"display_language" json:"display_language"`
	ShortcutKeys          []ShortcutKey `toml:"shortcut_keys" json:"shortcut_keys"`
}

func defaultPreferences() PreferenceInfo {
	return PreferenceInfo{
		SingleInstance:       true,
		AutoLoadIpsPatches:   true,
		AutoSave:             true,
		AutoSaveDelayMinutes: 5,
		DisplayLanguage:      "en",
		ShortcutKeys:         []ShortcutKey{},
	}
}

// DefaultShortcutKeys returns the bindings installed on first run.
func DefaultShortcutKeys() []ShortcutKey {
	return []ShortcutKey{
		{Action: "fast_forward", Keys: "Tab"},
		{Action: "rewind", Keys: "Backspace"},
		{Action: "pause", Keys: "Esc"},
		{Action: "reset", Keys: "Ctrl+R"},
		{Action: "take_screenshot", Keys: "F12"},
		{Action: "save_state", Keys: "Shift+F1"},
		{Action: "load_state", Keys: "F1"},
		{Action: "toggle_fullscreen", Keys: "Alt+Enter"},
	}
}

// InitializeDefaults installs the first-run shortcut bindings.
func (p *PreferenceInfo) InitializeDefaults() {
	p.ShortcutKeys = DefaultShortcutKeys()
}

// ApplyConfig pushes the preferences to the host.
func (p PreferenceInfo) ApplyConfig(h Host) error {
	p.ShortcutKeys = slices.Clone(p.ShortcutKeys)
	return h.SetPreferences(p)
}

// AudioInfo holds sound output settings. Volumes are percentages.
type AudioInfo struct {
	AudioDevice             string `toml:"audio_device" json:"audio_device"`
	EnableAudio             bool   `toml:"enable_audio" json:"enable_audio"`
	AudioLatency            uint32 `toml:"audio_latency" json:"audio_latency"`
	SampleRate              uint32 `toml:"sample_rate" json:"sample_rate"`
	MasterVolume            uint32 `toml:"master_volume" json:"master_volume"`
	Square1Volume           uint32 `toml:"square1_volume" json:"square1_volume"`
	Square2Volume           uint32 `toml:"square2_volume" json:"square2_volume"`
	TriangleVolume          uint32 `toml:"triangle_volume" json:"triangle_volume"`
	NoiseVolume             uint32 `toml:"noise_volume" json:"noise_volume"`
	DmcVolume               uint32 `toml:"dmc_volume" json:"dmc_volume"`
	ReduceSoundInBackground bool   `toml:"reduce_sound_in_background" json:"reduce_sound_in_background"`
	MuteSoundInBackground   bool   `toml:"mute_sound_in_background" json:"mute_sound_in_background"`
}

func defaultAudio() AudioInfo {
	return AudioInfo{
		EnableAudio:             true,
		AudioLatency:            100,
		SampleRate:              44100,
		MasterVolume:            100,
		Square1Volume:           100,
		Square2Volume:           100,
		TriangleVolume:          100,
		NoiseVolume:             100,
		DmcVolume:               100,
		ReduceSoundInBackground: true,
	}
}

// ApplyConfig pushes the audio settings to the host.
func (a AudioInfo) ApplyConfig(h Host) error {
	return h.SetAudioConfig(a)
}

// VideoFilter names a post-processing filter.
type VideoFilter string

const (
	FilterNone  VideoFilter = "none"
	FilterNTSC  VideoFilter = "ntsc"
	FilterXBRZ  VideoFilter = "xbrz"
	FilterHQ2x  VideoFilter = "hq2x"
	FilterScale VideoFilter = "scale2x"
)

// VideoInfo holds display settings. AspectRatio 0 keeps the native ratio.
type VideoInfo struct {
	VideoScale     uint32      `toml:"video_scale" json:"video_scale"`
	VideoFilter    VideoFilter `toml:"video_filter" json:"video_filter"`
	AspectRatio    float64     `toml:"aspect_ratio" json:"aspect_ratio"`
	VerticalSync   bool        `toml:"vertical_sync" json:"vertical_sync"`
	ShowFPS        bool        `toml:"show_fps" json:"show_fps"`
	UseHdPacks     bool        `toml:"use_hd_packs" json:"use_hd_packs"`
	OverscanLeft   uint32      `toml:"overscan_left" json:"overscan_left"`
	OverscanRight  uint32      `toml:"overscan_right" json:"overscan_right"`
	OverscanTop    uint32      `toml:"overscan_top" json:"overscan_top"`
	OverscanBottom uint32      `toml:"overscan_bottom" json:"overscan_bottom"`
}

func defaultVideo() VideoInfo {
	return VideoInfo{
		VideoScale:  2,
		VideoFilter: FilterNone,
	}
}

// ApplyConfig pushes the video settings to the host.
func (v VideoInfo) ApplyConfig(h Host) error {
	return h.SetVideoConfig(v)
}

// ControllerType is the device plugged into a controller port.
type ControllerType string

const (
	ControllerNone     ControllerType = "none"
	ControllerStandard ControllerType = "standard"
	ControllerZapper   ControllerType = "zapper"
	ControllerArkanoid ControllerType = "arkanoid"
)

// KeyMapping maps the pad buttons to key names.
type KeyMapping struct {
	A      string `toml:"a" json:"a"`
	B      string `toml:"b" json:"b"`
	Select string `toml:"select" json:"select"`
	Start  string `toml:"start" json:"start"`
	Up     string `toml:"up" json:"up"`
	Down   string `toml:"down" json:"down"`
	Left   string `toml:"left" json:"left"`
	Right  string `toml:"right" json:"right"`
	TurboA string `toml:"turbo_a" json:"turbo_a"`
	TurboB string `toml:"turbo_b" json:"turbo_b"`
}

// ControllerInfo configures one controller port.
type ControllerInfo struct {
	Type       ControllerType `toml:"type" json:"type"`
	TurboSpeed uint32         `toml:"turbo_speed" json:"turbo_speed"`
	Keys       KeyMapping     `toml:"keys" json:"keys"`
}

// InputInfo holds controller settings.
type InputInfo struct {
	UseFourScore     bool             `toml:"use_four_score" json:"use_four_score"`
	DisplayInputPort bool             `toml:"display_input_port" json:"display_input_port"`
	Controllers      []ControllerInfo `toml:"controllers" json:"controllers"`
}

func defaultInput() InputInfo {
	return InputInfo{Controllers: []ControllerInfo{}}
}

// DefaultControllers returns the first-run port setup: a keyboard-mapped
// pad in port 1 and an unmapped pad in port 2.
func DefaultControllers() []ControllerInfo {
	return []ControllerInfo{
		{
			Type:       ControllerStandard,
			TurboSpeed: 2,
			Keys: KeyMapping{
				A: "K", B: "J", Select: "U", Start: "I",
				Up: "W", Down: "S", Left: "A", Right: "D",
				TurboA: ",", TurboB: "M",
			},
		},
		{Type: ControllerStandard, TurboSpeed: 2},
	}
}

// InitializeDefaults installs the first-run controller setup.
func (i *InputInfo) InitializeDefaults() {
	i.Controllers = DefaultControllers()
}

// ApplyConfig pushes the input settings to the host.
func (i InputInfo) ApplyConfig(h Host) error {
	i.Controllers = slices.Clone(i.Controllers)
	return h.SetInputConfig(i)
}

// EmulationInfo holds timing and accuracy settings.
type EmulationInfo struct {
	EmulationSpeed             uint32 `toml:"emulation_speed" json:"emulation_speed"`
	AllowInvalidInput          bool   `toml:"allow_invalid_input" json:"allow_invalid_input"`
	RemoveSpriteLimit          bool   `toml:"remove_sprite_limit" json:"remove_sprite_limit"`
	OverclockRate              uint32 `toml:"overclock_rate" json:"overclock_rate"`
	OverclockAdjustApu         bool   `toml:"overclock_adjust_apu" json:"overclock_adjust_apu"`
	PpuExtraScanlinesBeforeNmi uint32 `toml:"ppu_extra_scanlines_before_nmi" json:"ppu_extra_scanlines_before_nmi"`
	PpuExtraScanlinesAfterNmi  uint32 `toml:"ppu_extra_scanlines_after_nmi" json:"ppu_extra_scanlines_after_nmi"`
	ShowLagCounter             bool   `toml:"show_lag_counter" json:"show_lag_counter"`
}

func defaultEmulation() EmulationInfo {
	return EmulationInfo{
		EmulationSpeed:     100,
		OverclockRate:      100,
		OverclockAdjustApu: true,
	}
}

// ApplyConfig pushes the emulation settings to the host.
func (e EmulationInfo) ApplyConfig(h Host) error {
	return h.SetEmulationConfig(e)
}

// VsConfigInfo stores per-game VS System settings.
type VsConfigInfo struct {
	GameID      string `toml:"game_id" json:"game_id"`
	GameCrc     string `toml:"game_crc" json:"game_crc"`
	PpuModel    string `toml:"ppu_model" json:"ppu_model"`
	InputType   string `toml:"input_type" json:"input_type"`
	DipSwitches uint32 `toml:"dip_switches" json:"dip_switches"`
}

// CheatType is the encoding a cheat was entered with.
type CheatType string

const (
	CheatGameGenie      CheatType = "game_genie"
	CheatProActionRocky CheatType = "pro_action_rocky"
	CheatCustom         CheatType = "custom"
)

// CheatInfo is one cheat code for one game.
type CheatInfo struct {
	GameName           string    `toml:"game_name" json:"game_name"`
	GameCrc            string    `toml:"game_crc" json:"game_crc"`
	CheatName          string    `toml:"cheat_name" json:"cheat_name"`
	Enabled            bool      `toml:"enabled" json:"enabled"`
	CheatType          CheatType `toml:"cheat_type" json:"cheat_type"`
	GameGenieCode      string    `toml:"game_genie_code" json:"game_genie_code"`
	ProActionRockyCode uint32    `toml:"pro_action_rocky_code" json:"pro_action_rocky_code"`
	Address            uint32    `toml:"address" json:"address"`
	Value              uint8     `toml:"value" json:"value"`
	CompareValue       uint8     `toml:"compare_value" json:"compare_value"`
	UseCompareValue    bool      `toml:"use_compare_value" json:"use_compare_value"`
	IsRelativeAddress  bool      `toml:"is_relative_address" json:"is_relative_address"`
}

// ClientConnectionInfo is the last netplay server the client joined.
type ClientConnectionInfo struct {
	Host      string `toml:"host" json:"host"`
	Port      uint32 `toml:"port" json:"port"`
	Spectator bool   `toml:"spectator" json:"spectator"`
}

// ServerInfo configures the netplay host.
type ServerInfo struct {
	Name            string `toml:"name" json:"name"`
	Port            uint32 `toml:"port" json:"port"`
	Password        string `toml:"password" json:"password"`
	MaxPlayers      uint32 `toml:"max_players" json:"max_players"`
	AllowSpectators bool   `toml:"allow_spectators" json:"allow_spectators"`
}

// PlayerProfile identifies the local player on netplay.
type PlayerProfile struct {
	PlayerName string `toml:"player_name" json:"player_name"`
	AvatarPath string `toml:"avatar_path" json:"avatar_path"`
}

// DebugInfo holds debugger window state.
type DebugInfo struct {
	ShowOnlyDisassembledCode bool     `toml:"show_only_disassembled_code" json:"show_only_disassembled_code"`
	ShowCpuMemoryMapping     bool     `toml:"show_cpu_memory_mapping" json:"show_cpu_memory_mapping"`
	ShowPpuMemoryMapping     bool     `toml:"show_ppu_memory_mapping" json:"show_ppu_memory_mapping"`
	RAMAutoRefresh           bool     `toml:"ram_auto_refresh" json:"ram_auto_refresh"`
	RAMColumnCount           uint32   `toml:"ram_column_count" json:"ram_column_count"`
	WatchValues              []string `toml:"watch_values" json:"watch_values"`
}

func defaultDebug() DebugInfo {
	return DebugInfo{
		ShowOnlyDisassembledCode: true,
		ShowCpuMemoryMapping:     true,
		ShowPpuMemoryMapping:     true,
		RAMAutoRefresh:           true,
		RAMColumnCount:           16,
		WatchValues:              []string{},
	}
}
