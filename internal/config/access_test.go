package config

import (
	"errors"
	"reflect"
	"testing"

	"github.com/nibzard/nesconf/internal/recent"
)

func TestGet(t *testing.T) {
	cfg := populated()

	tests := []struct {
		key    string
		want   string
		wantOK bool
	}{
		{"audio.master_volume", "75", true},
		{"region", "pal", true},
		{"profile.player_name", "Zoë", true},
		{"recent_files.1.archive_index", "2", true},
		{"recent_files.#", "2", true},
		{"video.show_fps", "true", true},
		{"audio.nope", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := cfg.Get(tt.key)
			if ok != tt.wantOK {
				t.Fatalf("Get(%q) ok = %v, want %v", tt.key, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		check func(t *testing.T, c *Config)
	}{
		{"integer", "audio.master_volume", "42", func(t *testing.T, c *Config) {
			if c.Audio.MasterVolume != 42 {
				t.Errorf("MasterVolume: got %d, want 42", c.Audio.MasterVolume)
			}
		}},
		{"bool", "video.vertical_sync", "true", func(t *testing.T, c *Config) {
			if !c.Video.VerticalSync {
				t.Error("VerticalSync: got false, want true")
			}
		}},
		{"string taken literally", "profile.player_name", "Player 2", func(t *testing.T, c *Config) {
			if c.Profile.PlayerName != "Player 2" {
				t.Errorf("PlayerName: got %q", c.Profile.PlayerName)
			}
		}},
		{"text enum", "region", "dendy", func(t *testing.T, c *Config) {
			if c.Region != ModelDendy {
				t.Errorf("Region: got %v, want dendy", c.Region)
			}
		}},
		{"array", "debug.watch_values", `["$00","$01"]`, func(t *testing.T, c *Config) {
			if len(c.Debug.WatchValues) != 2 || c.Debug.WatchValues[1] != "$01" {
				t.Errorf("WatchValues: got %v", c.Debug.WatchValues)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			if err := cfg.Set(tt.key, tt.value); err != nil {
				t.Fatalf("Set(%q, %q): %v", tt.key, tt.value, err)
			}
			if !cfg.NeedsSave() {
				t.Error("Set should mark the config dirty")
			}
			tt.check(t, cfg)
		})
	}
}

func TestSetRejects(t *testing.T) {
	tests := []struct {
		name       string
		key, value string
		wantErr    error
	}{
		{"unknown key", "audio.bass_boost", "1", ErrUnknownKey},
		{"not a literal", "audio.master_volume", "loud", nil},
		{"out of range", "audio.master_volume", "250", nil},
		{"bad region", "region", "secam", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			before := cfg.Settings

			err := cfg.Set(tt.key, tt.value)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error: got %v, want %v", err, tt.wantErr)
			}
			if cfg.NeedsSave() {
				t.Error("rejected Set should leave the config clean")
			}
			if cfg.Audio != before.Audio || cfg.Region != before.Region {
				t.Error("rejected Set changed the config")
			}
		})
	}
}

func TestSetSchemaViolationPath(t *testing.T) {
	err := New().Set("server.max_players", "9")
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SchemaError, got %v", err)
	}
	if se.Violations[0].Path != "server.max_players" {
		t.Errorf("violation path: got %q", se.Violations[0].Path)
	}
}

func TestSetKeepsRecentKeysUnique(t *testing.T) {
	cfg := New()
	cfg.AddRecentFile("/roms/a.nes", "A", recent.NoArchive)
	cfg.AddRecentFile("/roms/b.nes", "B", recent.NoArchive)

	if err := cfg.Set("recent_files.0.path", "/roms/a.nes"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	want := []recent.Key{{Path: "/roms/a.nes", ArchiveIndex: recent.NoArchive}}
	if got := cfg.RecentFiles.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("keys: got %v, want %v", got, want)
	}
	if cfg.RecentFiles[0].RomName != "B" {
		t.Errorf("kept entry: got %+v, want the first occurrence", cfg.RecentFiles[0])
	}
}
