// Package ui provides the terminal browser for the recent-file list.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/nibzard/nesconf/internal/config"
	"github.com/nibzard/nesconf/internal/manager"
	"github.com/nibzard/nesconf/internal/recent"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4")).
			Bold(true)

	archiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Add    key.Binding
	Save   key.Binding
	Revert key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Add, k.Save, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open},
		{k.Add, k.Save, k.Revert},
		{k.Help, k.Quit},
	}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add file")),
		Save:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Revert: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "revert edits")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Run starts the recent-file browser. It requires stdout to be a terminal.
func Run(ctx context.Context, mgr *manager.Manager) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	program := tea.NewProgram(NewModel(mgr), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// Model is the bubbletea model of the browser.
type Model struct {
	mgr    *manager.Manager
	items  recent.List
	cursor int

	adding bool
	input  textinput.Model

	keys keyMap
	help help.Model

	status string
	err    error
}

// NewModel returns a browser over the manager's editable settings.
func NewModel(mgr *manager.Manager) *Model {
	ti := textinput.New()
	ti.Placeholder = "/path/to/game.nes or pack.zip#2"
	ti.CharLimit = 1024
	ti.Width = 60

	m := &Model{
		mgr:   mgr,
		input: ti,
		keys:  defaultKeyMap(),
		help:  help.New(),
	}
	m.refresh()
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if m.adding {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Open):
		if len(m.items) == 0 {
			return m, nil
		}
		item := m.items[m.cursor]
		m.mgr.Config().AddRecentFile(item.Path, item.RomName, item.ArchiveIndex)
		m.refresh()
		m.cursor = 0
		m.setStatus("opened "+item.String(), nil)
	case key.Matches(msg, m.keys.Add):
		m.adding = true
		m.input.SetValue("")
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Save):
		m.mgr.SaveConfig()
		if m.mgr.Live().NeedsSave() {
			m.setStatus("", fmt.Errorf("could not write %s", m.mgr.Path()))
		} else {
			m.setStatus("saved "+m.mgr.Path(), nil)
		}
	case key.Matches(msg, m.keys.Revert):
		if err := m.mgr.RejectChanges(); err != nil {
			m.setStatus("", err)
			return m, nil
		}
		m.refresh()
		m.setStatus("reverted to applied settings", nil)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.adding = false
		m.input.Blur()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		m.adding = false
		m.input.Blur()
		if value == "" {
			return m, nil
		}
		item, err := ParseEntry(value)
		if err != nil {
			m.setStatus("", err)
			return m, nil
		}
		m.mgr.Config().AddRecentFile(item.Path, item.RomName, item.ArchiveIndex)
		m.refresh()
		m.cursor = 0
		m.setStatus("added "+item.String(), nil)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) refresh() {
	m.items = m.mgr.Config().RecentItems()
	if m.cursor >= len(m.items) {
		m.cursor = max(len(m.items)-1, 0)
	}
}

func (m *Model) setStatus(status string, err error) {
	m.status = status
	m.err = err
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("nesconf · recent files"))
	b.WriteString("\n")

	if len(m.items) == 0 {
		b.WriteString(dimStyle.Render("  No recent files. Press a to add one."))
		b.WriteString("\n")
	}
	for i, item := range m.items {
		b.WriteString(m.renderItem(i, item))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.adding {
		b.WriteString("Add file: ")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
	}

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n\n")
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n\n")
	}

	b.WriteString(dimStyle.Render(m.mgr.Path()))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderItem(i int, item recent.Item) string {
	name := item.RomName
	if name == "" {
		name = filepath.Base(item.Path)
	}
	line := fmt.Sprintf("%2d. %s", i+1, name)
	if item.ArchiveIndex > recent.NoArchive {
		line += archiveStyle.Render(fmt.Sprintf(" [#%d]", item.ArchiveIndex))
	}
	line += dimStyle.Render("  " + item.Path)

	if i == m.cursor {
		return selectedStyle.Render("> ") + line
	}
	return "  " + line
}

// ParseEntry turns user input into a recent item. A "#n" suffix selects
// the n-th file inside an archive. The display name is the file name
// without its extension.
func ParseEntry(s string) (recent.Item, error) {
	s = config.ExpandPath(strings.TrimSpace(s))
	item := recent.Item{Path: s, ArchiveIndex: recent.NoArchive}

	if i := strings.LastIndexByte(s, '#'); i > 0 {
		idx, err := strconv.Atoi(s[i+1:])
		if err == nil {
			if idx < 0 {
				return recent.Item{}, fmt.Errorf("archive index %d is negative", idx)
			}
			item.Path = s[:i]
			item.ArchiveIndex = idx
		}
	}
	if err := item.Validate(); err != nil {
		return recent.Item{}, err
	}

	base := filepath.Base(item.Path)
	item.RomName = strings.TrimSuffix(base, filepath.Ext(base))
	return item, nil
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
