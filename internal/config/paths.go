package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// EnvConfigPath overrides the location of the settings file.
const EnvConfigPath = "NESCONF_CONFIG"

// FileName is the settings file name inside the config directory.
const FileName = "settings.toml"

// DefaultPath returns the canonical settings file location:
// $NESCONF_CONFIG if set, then ~/.nesconf/settings.toml if it exists,
// then the OS config directory (nesconf/settings.toml).
func DefaultPath() string {
	if v := strings.TrimSpace(os.Getenv(EnvConfigPath)); v != "" {
		return ExpandPath(v)
	}

	home, err := os.UserHomeDir()
	if err == nil {
		legacy := filepath.Join(home, ".nesconf", FileName)
		if _, err := os.Stat(legacy); err == nil {
			return legacy
		}
	}

	if dir := osUserConfigDir(); dir != "" {
		return filepath.Join(dir, "nesconf", FileName)
	}
	return FileName
}

// osUserConfigDir returns the OS-specific user config directory, or "".
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// ExpandPath expands a leading ~ and environment variables. On Windows
// %VAR% references are expanded as well.
func ExpandPath(p string) string {
	if p == "" {
		return p
	}

	expanded := os.ExpandEnv(p)
	if runtime.GOOS == "windows" {
		expanded = expandWindowsEnv(expanded)
	}

	if expanded == "~" || strings.HasPrefix(expanded, "~/") || (runtime.GOOS == "windows" && strings.HasPrefix(expanded, `~\`)) {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		if expanded == "~" {
			return home
		}
		return filepath.Join(home, expanded[2:])
	}
	return expanded
}

func expandWindowsEnv(p string) string {
	if !strings.Contains(p, "%") {
		return p
	}
	var b strings.Builder
	for i := 0; i < len(p); {
		if p[i] == '%' {
			if end := strings.IndexByte(p[i+1:], '%'); end > 0 {
				key := p[i+1 : i+1+end]
				if val, ok := os.LookupEnv(key); ok {
					b.WriteString(val)
				} else {
					b.WriteString(p[i : i+end+2])
				}
				i += end + 2
				continue
			}
		}
		b.WriteByte(p[i])
		i++
	}
	return b.String()
}
