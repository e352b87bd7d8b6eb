package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// Encode writes cfg to w as TOML.
func Encode(w io.Writer, cfg *Config) error {
	cfg.mu.Lock()
	defer cfg.mu.Unlock()
	return encodeLocked(w, cfg)
}

func encodeLocked(w io.Writer, cfg *Config) error {
	cfg.Settings.normalize()
	if err := toml.NewEncoder(w).Encode(cfg.Settings); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// Decode reads a TOML document from r, checks it against Schema and
// returns a clean Config. Keys missing from the document keep their
// constructor defaults.
func Decode(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Kind: LoadRead, Err: err}
	}
	return decode(data, true)
}

func decode(data []byte, validate bool) (*Config, error) {
	if validate {
		if err := ValidateTOML(data); err != nil {
			return nil, err
		}
	}

	cfg := New()
	md, err := toml.Decode(string(data), &cfg.Settings)
	if err != nil {
		return nil, &LoadError{Kind: LoadParse, Err: err}
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		log.Debug("ignoring unknown config keys", "keys", keys)
	}
	cfg.Settings.normalize()
	return cfg, nil
}

// ReadFile loads the configuration stored at path. Unlike Load it reports
// why the file could not be used; the error is always a *LoadError.
func ReadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		kind := LoadRead
		if errors.Is(err, fs.ErrNotExist) {
			kind = LoadMissing
		}
		return nil, &LoadError{Path: path, Kind: kind, Err: err}
	}

	cfg, err := decode(data, true)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
			return nil, le
		}
		return nil, &LoadError{Path: path, Kind: LoadParse, Err: err}
	}
	return cfg, nil
}

// Load returns the configuration stored at path. It never fails: a missing,
// unreadable, malformed or schema-violating file yields New() with
// Defaulted reporting true.
func Load(path string) *Config {
	cfg, err := ReadFile(path)
	if err == nil {
		log.Debug("config loaded", "path", path, "recent_files", len(cfg.RecentFiles))
		return cfg
	}

	var le *LoadError
	if errors.As(err, &le) && le.Kind == LoadMissing {
		log.Info("no config file, using defaults", "path", path)
	} else {
		log.Warn("config file unusable, using defaults", "path", path, "err", err)
	}
	cfg = New()
	cfg.defaulted = true
	return cfg
}

// WriteFile stores cfg at path, creating parent directories as needed. It
// does not touch the dirty flag; see Config.Save. The encoded document is
// checked against Schema first, so a value that ReadFile would reject is
// never written and the file on disk is left as it was.
func WriteFile(cfg *Config, path string) error {
	cfg.mu.Lock()
	defer cfg.mu.Unlock()
	return writeLocked(cfg, path)
}

func writeLocked(cfg *Config, path string) error {
	var buf bytes.Buffer
	if err := encodeLocked(&buf, cfg); err != nil {
		return &SaveError{Path: path, Err: err}
	}
	if err := ValidateTOML(buf.Bytes()); err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			err = le.Err
		}
		return &SaveError{Path: path, Err: fmt.Errorf("refusing to write a document Load would reject: %w", err)}
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &SaveError{Path: path, Err: err}
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return &SaveError{Path: path, Err: err}
	}
	return nil
}
