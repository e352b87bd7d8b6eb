package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	t.Setenv("NESCONF_TEST_DIR", "/srv/emu")

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"~", home},
		{"~/roms/settings.toml", filepath.Join(home, "roms", "settings.toml")},
		{"$NESCONF_TEST_DIR/settings.toml", "/srv/emu/settings.toml"},
		{"/abs/path.toml", "/abs/path.toml"},
		{"~user/file", "~user/file"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExpandWindowsEnv(t *testing.T) {
	t.Setenv("NESCONF_TEST_APPDATA", `C:\Users\me\AppData`)

	tests := []struct {
		in, want string
	}{
		{`%NESCONF_TEST_APPDATA%\nesconf`, `C:\Users\me\AppData\nesconf`},
		{`%NESCONF_TEST_UNSET_VAR%\x`, `%NESCONF_TEST_UNSET_VAR%\x`},
		{`100%`, `100%`},
		{`plain`, `plain`},
	}
	for _, tt := range tests {
		if got := expandWindowsEnv(tt.in); got != tt.want {
			t.Errorf("expandWindowsEnv(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDefaultPathEnvOverride(t *testing.T) {
	want := filepath.Join(t.TempDir(), "custom.toml")
	t.Setenv(EnvConfigPath, "  "+want+"  ")

	if got := DefaultPath(); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}

func TestDefaultPathPrefersLegacyDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("home is not overridable through HOME on windows")
	}
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "xdg"))

	if runtime.GOOS == "linux" {
		want := filepath.Join(home, "xdg", "nesconf", FileName)
		if got := DefaultPath(); got != want {
			t.Errorf("DefaultPath() without legacy dir = %q, want %q", got, want)
		}
	}

	legacy := filepath.Join(home, ".nesconf", FileName)
	if err := os.MkdirAll(filepath.Dir(legacy), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(legacy, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if got := DefaultPath(); got != legacy {
		t.Errorf("DefaultPath() = %q, want %q", got, legacy)
	}
}
