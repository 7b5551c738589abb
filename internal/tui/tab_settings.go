package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/xcurs/internal/config"
)

// SettingsTab shows the effective settings with their sources and edits
// them in a form.
type SettingsTab struct {
	result *config.LoadResult
	themes []string

	width  int
	height int

	editing bool
	form    *huh.Form

	// Form-bound values (strings for huh, converted on submit)
	fTheme         string
	fSize          string
	fDefaultCursor string
	fLogLevel      string
}

// NewSettingsTab creates a SettingsTab. themes feeds the theme picker.
func NewSettingsTab(result *config.LoadResult, themes []string) SettingsTab {
	return SettingsTab{result: result, themes: themes}
}

func (s SettingsTab) cfg() *config.Config {
	if s.result == nil {
		return nil
	}
	return s.result.Config
}

// Update handles messages for the settings tab.
func (s SettingsTab) Update(msg tea.Msg) (SettingsTab, tea.Cmd) {
	if s.editing {
		return s.updateEditing(msg)
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "e" && s.cfg() != nil {
			s.startEditing()
			return s, s.form.Init()
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}
	return s, nil
}

func (s SettingsTab) updateEditing(msg tea.Msg) (SettingsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			s.editing = false
			s.form = nil
			return s, nil
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}
	if s.form.State == huh.StateCompleted {
		s.applyForm()
		s.editing = false
		s.form = nil
		return s, nil
	}
	return s, cmd
}

func (s *SettingsTab) startEditing() {
	cfg := s.cfg()
	s.fTheme = cfg.Theme
	s.fSize = strconv.FormatUint(uint64(cfg.Size), 10)
	s.fDefaultCursor = cfg.DefaultCursor
	s.fLogLevel = cfg.LogLevel

	themeOpts := []huh.Option[string]{huh.NewOption("(from X resources)", "")}
	for _, name := range s.themes {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}
	levelOpts := huh.NewOptions("debug", "info", "warning", "error")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("theme").
				Title("Theme").
				Description("Overrides Xcursor.theme").
				Options(themeOpts...).
				Value(&s.fTheme),

			huh.NewInput().
				Key("size").
				Title("Size").
				Description("Nominal cursor size; 0 uses Xcursor.size or the screen").
				Validate(validateSize).
				Value(&s.fSize),

			huh.NewInput().
				Key("default_cursor").
				Title("Default Cursor").
				Description("Cursor set on the root window by apply").
				Validate(validateCursorName).
				Value(&s.fDefaultCursor),

			huh.NewSelect[string]().
				Key("log_level").
				Title("Log Level").
				Options(levelOpts...).
				Value(&s.fLogLevel),
		),
	).WithWidth(max(s.width-4, 40)).WithShowHelp(true).WithShowErrors(true)

	s.editing = true
}

func validateSize(v string) error {
	n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 32)
	if err != nil {
		return fmt.Errorf("size must be a whole number")
	}
	if n > config.MaxCursorSize {
		return fmt.Errorf("size must be <= %d", config.MaxCursorSize)
	}
	return nil
}

func validateCursorName(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("cursor name must not be empty")
	}
	if strings.ContainsRune(v, '/') {
		return fmt.Errorf("cursor name must not contain '/'")
	}
	return nil
}

func (s *SettingsTab) applyForm() {
	cfg := s.cfg()
	if cfg == nil {
		return
	}
	cfg.Theme = s.fTheme
	if n, err := strconv.ParseUint(strings.TrimSpace(s.fSize), 10, 32); err == nil && n <= config.MaxCursorSize {
		cfg.Size = uint32(n)
	}
	if validateCursorName(s.fDefaultCursor) == nil {
		cfg.DefaultCursor = strings.TrimSpace(s.fDefaultCursor)
	}
	if s.fLogLevel != "" {
		cfg.LogLevel = s.fLogLevel
	}
}

// View implements tea.Model.
func (s SettingsTab) View() string {
	if s.editing && s.form != nil {
		header := lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Render("Editing Settings") +
			dimStyle.Render("  (esc to cancel)")
		return lipgloss.NewStyle().
			Width(s.width).
			Height(s.height).
			Padding(1, 2).
			Render(header + "\n\n" + s.form.View())
	}
	if s.cfg() == nil {
		return renderEmpty("No config loaded", s.width, s.height)
	}

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Width(18).
		Align(lipgloss.Right).
		PaddingRight(2)
	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Bold(true)

	row := func(label, path string) string {
		value, src, err := config.Explain(s.result, path)
		if err != nil {
			return labelStyle.Render(label) + errStyle.Render(err.Error())
		}
		return labelStyle.Render(label) + valueStyle.Render(formatValue(value)) + "  " + dimStyle.Render(src.String())
	}

	lines := []string{
		"",
		row("Display", "display"),
		row("Theme", "theme"),
		row("Size", "size"),
		row("Search Path", "search_path"),
		row("Default Cursor", "default_cursor"),
		row("Log Level", "log_level"),
		row("Watch Interval", "watch"),
		"",
		dimStyle.Render("  Press 'e' to edit settings"),
	}
	return lipgloss.NewStyle().
		Width(s.width).
		Height(s.height).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

func formatValue(v any) string {
	switch v := v.(type) {
	case string:
		return displayOrDefault(v, "(unset)")
	case []string:
		if len(v) == 0 {
			return "(XCURSOR_PATH)"
		}
		return strings.Join(v, ":")
	case uint32:
		if v == 0 {
			return "(auto)"
		}
	}
	return fmt.Sprint(v)
}
