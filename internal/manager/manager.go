// Package manager owns the live configuration of a running process.
//
// A Manager keeps two copies of the settings. The live copy is the one that
// has been applied to the emulation core and is persisted. The edit copy,
// returned by Config, is what collaborators mutate; ApplyChanges promotes it
// and RejectChanges discards it.
package manager

import (
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/nibzard/nesconf/internal/config"
)

// Manager holds the live and editable configuration.
type Manager struct {
	path     string
	host     config.Host
	readOnly bool

	mu     sync.Mutex
	live   *config.Config
	edit   *config.Config
	subs   map[int]func(*config.Config)
	nextID int

	closeOnce sync.Once
}

// Option configures a Manager.
type Option func(*Manager)

// ReadOnly disables every write to the settings file, including the
// teardown save. Changes are still applied to the host.
func ReadOnly() Option {
	return func(m *Manager) {
		m.readOnly = true
	}
}

// New loads the settings at path, or at config.DefaultPath when path is
// empty. A missing or unusable file yields defaults with first-run
// initialization applied. The loaded settings are pushed to host when it is
// not nil; a failure there is logged and does not prevent startup.
func New(path string, host config.Host, opts ...Option) (*Manager, error) {
	if path == "" {
		path = config.DefaultPath()
	}

	m := &Manager{
		path: path,
		host: host,
		subs: make(map[int]func(*config.Config)),
	}
	for _, opt := range opts {
		opt(m)
	}

	live := config.Load(path)
	if live.Defaulted() {
		live.InitializeDefaults()
	}
	edit, err := live.Clone()
	if err != nil {
		return nil, fmt.Errorf("clone loaded config: %w", err)
	}
	m.live = live
	m.setEdit(edit)

	if host != nil {
		if err := live.ApplyConfig(host); err != nil {
			log.Warn("config not fully applied", "path", path, "err", err)
		}
	}
	return m, nil
}

// setEdit installs cfg as the edit copy. Must be called with mu held or
// before the Manager is shared.
func (m *Manager) setEdit(cfg *config.Config) {
	cfg.OnChange(func() {
		if err := m.ApplyChanges(); err != nil {
			log.Warn("apply changes after recent file update", "err", err)
		}
	})
	m.edit = cfg
}

// Path returns the settings file location.
func (m *Manager) Path() string {
	return m.path
}

// Config returns the editable copy. RejectChanges replaces it, so callers
// should not hold on to the result across a reject.
func (m *Manager) Config() *config.Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.edit
}

// Live returns the applied configuration. Treat it as read-only.
func (m *Manager) Live() *config.Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live
}

// ApplyChanges makes a copy of the edit settings live, applies it to the
// host, saves it and notifies subscribers. The copy is saved even when the
// host reports an error; that error is returned. The host and subscribers
// run without the Manager lock held and may call back into the Manager.
func (m *Manager) ApplyChanges() error {
	m.mu.Lock()
	next, err := m.edit.Clone()
	if err != nil {
		m.mu.Unlock()
		return fmt.Errorf("apply changes: %w", err)
	}
	next.MarkDirty()
	m.live = next
	subs := m.subscribers()
	m.mu.Unlock()

	var applyErr error
	if m.host != nil {
		applyErr = next.ApplyConfig(m.host)
	}
	if !m.readOnly {
		next.SaveIfDirty(m.path)
	}

	for _, fn := range subs {
		fn(next)
	}
	return applyErr
}

// RejectChanges discards unapplied edits by replacing the edit copy with a
// clone of the live settings.
func (m *Manager) RejectChanges() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	edit, err := m.live.Clone()
	if err != nil {
		return fmt.Errorf("reject changes: %w", err)
	}
	m.setEdit(edit)
	return nil
}

// SaveConfig writes the live settings if they have unsaved changes.
func (m *Manager) SaveConfig() {
	if m.readOnly {
		return
	}
	m.mu.Lock()
	live := m.live
	m.mu.Unlock()
	live.SaveIfDirty(m.path)
}

// Subscribe registers fn to be called with the new live settings after
// every ApplyChanges. The returned function removes the subscription.
func (m *Manager) Subscribe(fn func(*config.Config)) (cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *Manager) subscribers() []func(*config.Config) {
	fns := make([]func(*config.Config), 0, len(m.subs))
	ids := make([]int, 0, len(m.subs))
	for id := range m.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, m.subs[id])
	}
	return fns
}

// Close performs the teardown save. Only the first call has any effect.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		if m.readOnly {
			return
		}
		m.mu.Lock()
		live := m.live
		m.mu.Unlock()

		live.SaveIfDirty(m.path)
		if live.NeedsSave() {
			log.Warn("settings lost at shutdown", "path", m.path)
		}
	})
}
