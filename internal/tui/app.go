package tui

import (
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-git/go-billy/v5"

	"github.com/1broseidon/xcurs/internal/config"
	"github.com/1broseidon/xcurs/internal/xcursor"
)

// model is the root bubbletea model for the TUI.
type model struct {
	configPath string
	result     *config.LoadResult
	loadErr    error
	resolver   *xcursor.Resolver

	activeTab Tab

	themesTab   ThemesTab
	cursorsTab  CursorsTab
	settingsTab SettingsTab

	// Save overlay
	originalConfig *config.Config
	saveOverlay    SaveOverlay

	width  int
	height int
}

// newModel loads configPath and scans the search path on fs. A broken
// config falls back to the defaults and is reported in the status bar.
func newModel(configPath string, fs billy.Filesystem, getenv func(string) string) model {
	m := model{configPath: configPath, activeTab: TabThemes}

	res, err := config.LoadFromPath(configPath)
	if err != nil {
		m.loadErr = err
		res = &config.LoadResult{Config: config.DefaultConfig(), Sources: map[string]config.Source{}}
	}
	m.result = res
	m.originalConfig = cloneConfig(res.Config)

	cfg := res.Config
	m.resolver = xcursor.NewResolver(fs, cfg.CursorSearchPath(getenv))
	m.themesTab = NewThemesTab(m.resolver, cfg.Theme)
	m.cursorsTab = NewCursorsTab(m.resolver, cfg.Theme, cfg.Size)
	m.settingsTab = NewSettingsTab(res, m.resolver.Themes())
	if cfg.Theme != "" {
		m.activeTab = TabCursors
	}
	return m
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// capturing reports whether the active tab owns the keyboard, in which
// case only ctrl+c and ctrl+s are handled globally.
func (m model) capturing() bool {
	switch m.activeTab {
	case TabThemes:
		return m.themesTab.Filtering()
	case TabCursors:
		return m.cursorsTab.Filtering()
	case TabSettings:
		return m.settingsTab.editing
	}
	return false
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Save overlay captures all input when active
	if m.saveOverlay.Active() {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			m.saveOverlay = m.saveOverlay.Update(msg, m.result.Config, m.configPath)
			if m.saveOverlay.SaveSucceeded() {
				m.originalConfig = cloneConfig(m.result.Config)
			}
		case tea.WindowSizeMsg:
			m.resize(msg)
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg)
		return m, nil

	case themeSelectedMsg:
		m.cursorsTab.SetTheme(msg.theme)
		m.activeTab = TabCursors
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+s":
			m.saveOverlay.Show(m.originalConfig, m.result.Config)
			return m, nil
		}
		if m.capturing() {
			break
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "tab":
			m.switchTab((m.activeTab + 1) % tabCount)
			return m, nil
		case "shift+tab":
			m.switchTab((m.activeTab - 1 + tabCount) % tabCount)
			return m, nil
		case "1", "2", "3":
			m.switchTab(Tab(msg.String()[0] - '1'))
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.activeTab {
	case TabThemes:
		m.themesTab, cmd = m.themesTab.Update(msg)
	case TabCursors:
		m.cursorsTab, cmd = m.cursorsTab.Update(msg)
	case TabSettings:
		m.settingsTab, cmd = m.settingsTab.Update(msg)
	}
	return m, cmd
}

// switchTab changes tabs. Leaving the settings tab picks up an edited
// theme.
func (m *model) switchTab(t Tab) {
	if m.activeTab == TabSettings && t != TabSettings {
		theme := m.result.Config.Theme
		m.themesTab.MarkCurrent(theme)
		if theme != "" && theme != m.cursorsTab.theme {
			m.cursorsTab.SetTheme(theme)
		}
	}
	m.activeTab = t
}

func (m *model) resize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	sub := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
	m.themesTab, _ = m.themesTab.Update(sub)
	m.cursorsTab, _ = m.cursorsTab.Update(sub)
	m.settingsTab, _ = m.settingsTab.Update(sub)
}

// contentHeight returns the height available for tab content: status bar,
// tab bar with margin and help bar take four lines.
func (m model) contentHeight() int {
	return max(m.height-4, 1)
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	cfg := m.result.Config
	statusBar := renderStatusBar(m.configPath, cfg.Theme, cfg.Size, m.loadErr, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.width)

	usedHeight := lipgloss.Height(statusBar) + lipgloss.Height(tabBar) + lipgloss.Height(helpBar)
	contentHeight := max(m.height-usedHeight, 1)

	var content string
	if m.saveOverlay.Active() {
		content = m.saveOverlay.View(m.width, contentHeight)
	} else {
		switch m.activeTab {
		case TabThemes:
			content = m.themesTab.View()
		case TabCursors:
			content = m.cursorsTab.View()
		case TabSettings:
			content = m.settingsTab.View()
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}
