package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/xcurs/internal/xcursor"
)

// themeItem is a list item for one installed theme.
type themeItem struct {
	name     string
	inherits []string
	current  bool
}

func (i themeItem) Title() string {
	if i.current {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("✓") + " " + i.name
	}
	return i.name
}

func (i themeItem) Description() string {
	if len(i.inherits) == 0 {
		return "no parents"
	}
	return "inherits " + strings.Join(i.inherits, ", ")
}

func (i themeItem) FilterValue() string { return i.name }

// themeSelectedMsg opens a theme in the cursors tab.
type themeSelectedMsg struct{ theme string }

// ThemesTab lists the themes on the search path.
type ThemesTab struct {
	list     list.Model
	resolver *xcursor.Resolver
	width    int
	height   int
}

// NewThemesTab scans the search path once. Press r to rescan.
func NewThemesTab(resolver *xcursor.Resolver, current string) ThemesTab {
	t := ThemesTab{list: newList("Themes", true), resolver: resolver}
	t.list.SetItems(buildThemeItems(resolver, current))
	return t
}

func buildThemeItems(resolver *xcursor.Resolver, current string) []list.Item {
	var items []list.Item
	for _, name := range resolver.Themes() {
		items = append(items, themeItem{
			name:     name,
			inherits: resolver.Parents(name),
			current:  name == current,
		})
	}
	return items
}

// Filtering reports whether the filter input has the keyboard.
func (t ThemesTab) Filtering() bool {
	return t.list.FilterState() == list.Filtering
}

// MarkCurrent refreshes which theme carries the check mark.
func (t *ThemesTab) MarkCurrent(current string) {
	t.list.SetItems(buildThemeItems(t.resolver, current))
}

// Update handles messages for the themes tab.
func (t ThemesTab) Update(msg tea.Msg) (ThemesTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
		t.list.SetSize(splitWidth(t.width), t.height)
		return t, nil

	case tea.KeyMsg:
		if t.Filtering() {
			break
		}
		switch msg.String() {
		case "enter":
			if item, ok := t.list.SelectedItem().(themeItem); ok {
				return t, func() tea.Msg { return themeSelectedMsg{theme: item.name} }
			}
			return t, nil
		case "r":
			current := ""
			for _, it := range t.list.Items() {
				if ti, ok := it.(themeItem); ok && ti.current {
					current = ti.name
				}
			}
			t.MarkCurrent(current)
			return t, nil
		}
	}

	var cmd tea.Cmd
	t.list, cmd = t.list.Update(msg)
	return t, cmd
}

// View implements tea.Model.
func (t ThemesTab) View() string {
	if t.width == 0 || t.height == 0 {
		return ""
	}
	leftWidth := splitWidth(t.width)
	rightWidth := max(t.width-leftWidth, 10)

	left := lipgloss.NewStyle().
		Width(leftWidth).
		Height(t.height).
		Render(t.list.View())

	item, ok := t.list.SelectedItem().(themeItem)
	if !ok {
		paths := strings.Join(t.resolver.Paths(), "\n")
		return lipgloss.JoinHorizontal(lipgloss.Top, left,
			renderEmpty("No cursor themes found in\n"+paths, rightWidth, t.height))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, t.renderDetail(item, rightWidth))
}

func (t ThemesTab) renderDetail(item themeItem, width int) string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Width(12)

	cursors, err := t.resolver.Cursors(item.name, "")
	count := fmt.Sprint(len(cursors))
	if err != nil {
		count = err.Error()
	}
	inherits := "-"
	if len(item.inherits) > 0 {
		inherits = strings.Join(item.inherits, " -> ")
	}

	lines := []string{
		titleStyle.Render(item.name),
		"",
		labelStyle.Render("Inherits") + inherits,
		labelStyle.Render("Cursors") + count,
		"",
		dimStyle.Render("enter: browse cursors"),
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(t.height).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}
